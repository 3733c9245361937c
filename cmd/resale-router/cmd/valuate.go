package cmd

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/donaldgifford/resale-router/internal/config"
	"github.com/donaldgifford/resale-router/internal/itemfile"
	"github.com/donaldgifford/resale-router/internal/valuation"
	"github.com/donaldgifford/resale-router/pkg/logger"
	domain "github.com/donaldgifford/resale-router/pkg/types"
)

var (
	itemFile      string
	routeItem     bool
	persistResult bool
	disabled      []string
	minProfit     float64
)

var valuateCmd = &cobra.Command{
	Use:   "valuate",
	Short: "Value (and optionally route) one item without starting the server",
	Long: "Reads item attributes from a YAML or JSON file using the API's field names " +
		"(category, brand, model, materials, style, key_features, condition, description) " +
		"and prints the valuation, or the routing result with --route.",
	Example: "  resale-router valuate --file item.yaml --route --disable local-pickup",
	RunE:    runValuate,
}

func init() {
	valuateCmd.Flags().StringVarP(&itemFile, "file", "f", "", "item attributes file (YAML or JSON)")
	valuateCmd.Flags().BoolVar(&routeItem, "route", false, "recommend a disposition route")
	valuateCmd.Flags().BoolVar(&persistResult, "persist", false, "record the routing result in the audit log")
	valuateCmd.Flags().StringSliceVar(&disabled, "disable", nil, "routes to leave out (instant-offer, local-pickup, resale)")
	valuateCmd.Flags().Float64Var(&minProfit, "min-profit", 0, "minimum net profit worth a resale")
	_ = valuateCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(valuateCmd)
}

func runValuate(c *cobra.Command, _ []string) error {
	if persistResult && !routeItem {
		return errors.New("--persist requires --route")
	}

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	attrs, err := itemfile.Read(itemFile)
	if err != nil {
		return err
	}

	log := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	ctx := c.Context()

	a, err := newApp(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() { _ = a.close() }()

	var out any
	if routeItem {
		prefs := domain.Preferences{}
		for _, d := range disabled {
			prefs.DisabledRoutes = append(prefs.DisabledRoutes, domain.RouteType(d))
		}
		if c.Flags().Changed("min-profit") {
			prefs.MinProfit = &minProfit
		}

		result, err := a.valuator.Route(ctx, &valuation.RouteRequest{
			Item:        *attrs,
			Preferences: prefs,
			Persist:     persistResult,
		})
		if err != nil {
			log.Warn("routing result not persisted", "error", err)
		}
		out = result
	} else {
		out = a.valuator.Assess(ctx, attrs)
	}

	enc := json.NewEncoder(c.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
