package cmd

import (
	"github.com/spf13/cobra"

	apiclient "github.com/donaldgifford/resale-router/internal/api/client"
	"github.com/donaldgifford/resale-router/internal/itemfile"
	domain "github.com/donaldgifford/resale-router/pkg/types"
)

func valuateCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "valuate",
		Short: "Estimate an item's resale value",
		Long: "Send item attributes to the server and print the price estimate\n" +
			"together with the marketplace searches behind it.",
		Example: `  rr valuate --file item.yaml
  rr valuate --file item.json --output json`,
		RunE: func(c *cobra.Command, _ []string) error {
			attrs, err := itemfile.Read(file)
			if err != nil {
				return err
			}

			v, err := newClient().Valuate(c.Context(), attrs)
			if err != nil {
				return err
			}

			if jsonOutput() {
				return outputJSON(c.OutOrStdout(), v)
			}
			return printValuation(c.OutOrStdout(), v)
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "item attributes file (YAML or JSON)")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func routeCmd() *cobra.Command {
	var (
		file      string
		disable   []string
		minProfit float64
		persist   bool
	)

	cmd := &cobra.Command{
		Use:   "route",
		Short: "Recommend how to dispose of an item",
		Long: "Value an item and rank resale, instant offer, local pickup, and\n" +
			"donation by what the owner would actually get back.",
		Example: `  # Recommend a route
  rr route --file item.yaml

  # Never suggest local pickup, require $25 profit, and record the result
  rr route --file item.yaml --disable local-pickup --min-profit 25 --persist`,
		RunE: func(c *cobra.Command, _ []string) error {
			attrs, err := itemfile.Read(file)
			if err != nil {
				return err
			}

			req := &apiclient.RouteRequest{Item: *attrs, Persist: persist}
			for _, d := range disable {
				req.Preferences.DisabledRoutes = append(req.Preferences.DisabledRoutes, domain.RouteType(d))
			}
			if c.Flags().Changed("min-profit") {
				req.Preferences.MinProfit = &minProfit
			}

			resp, err := newClient().Route(c.Context(), req)
			if err != nil {
				return err
			}

			if jsonOutput() {
				return outputJSON(c.OutOrStdout(), resp)
			}
			if persist && !resp.Persisted {
				c.PrintErrf("warning: result not recorded: %s\n", resp.PersistError)
			}
			return printRouting(c.OutOrStdout(), &resp.Result)
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "item attributes file (YAML or JSON)")
	cmd.Flags().StringSliceVar(&disable, "disable", nil, "routes to leave out (instant-offer, local-pickup, resale)")
	cmd.Flags().Float64Var(&minProfit, "min-profit", 0, "minimum net profit worth a resale")
	cmd.Flags().BoolVar(&persist, "persist", false, "record the result in the audit log")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func queriesCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:     "queries",
		Short:   "Show the search queries the server would try",
		Example: `  rr queries --file item.yaml`,
		RunE: func(c *cobra.Command, _ []string) error {
			attrs, err := itemfile.Read(file)
			if err != nil {
				return err
			}

			cs, err := newClient().Queries(c.Context(), attrs)
			if err != nil {
				return err
			}

			if jsonOutput() {
				return outputJSON(c.OutOrStdout(), cs)
			}
			return printQueries(c.OutOrStdout(), cs)
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "item attributes file (YAML or JSON)")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}
