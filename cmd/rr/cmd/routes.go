package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	apiclient "github.com/donaldgifford/resale-router/internal/api/client"
)

func routesCmd() *cobra.Command {
	routesRoot := &cobra.Command{
		Use:   "routes",
		Short: "Browse recorded routing results",
		Long: "Query the audit log of routing results the server has persisted.\n" +
			"Requires the server to be configured with a database.",
	}

	routesRoot.AddCommand(
		routesListCmd(),
		routesGetCmd(),
	)

	return routesRoot
}

func routesListCmd() *cobra.Command {
	var (
		p     apiclient.ListRoutesParams
		since time.Duration
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List routing results with optional filters",
		Example: `  # Latest results
  rr routes list

  # Donations recommended in the last week
  rr routes list --route donation --since 168h

  # Resale results worth at least $50
  rr routes list --route resale --min-return 50 --limit 20`,
		RunE: func(c *cobra.Command, _ []string) error {
			if since > 0 {
				p.Since = time.Now().Add(-since)
			}

			list, err := newClient().ListRoutes(c.Context(), &p)
			if err != nil {
				return err
			}

			out := c.OutOrStdout()
			if jsonOutput() {
				return outputJSON(out, list)
			}
			if len(list.Results) == 0 {
				_, err := fmt.Fprintln(out, "No routing results found.")
				return err
			}

			if _, err := fmt.Fprintf(out, "Showing %d of %d results\n\n", len(list.Results), list.Total); err != nil {
				return err
			}
			return printRouteSummaries(out, list.Results)
		},
	}
	cmd.Flags().StringVar(&p.Route, "route", "", "primary route filter (resale, instant-offer, local-pickup, donation)")
	cmd.Flags().StringVar(&p.Category, "category", "", "category filter")
	cmd.Flags().StringVar(&p.Source, "source", "", "estimate source filter")
	cmd.Flags().DurationVar(&since, "since", 0, "only results newer than this (e.g. 24h)")
	cmd.Flags().Float64Var(&p.MinReturn, "min-return", 0, "minimum estimated return")
	cmd.Flags().IntVar(&p.Limit, "limit", 50, "number of results")
	cmd.Flags().IntVar(&p.Offset, "offset", 0, "result offset")

	return cmd
}

func routesGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "get <id>",
		Short:   "Show a recorded routing result",
		Example: `  rr routes get 0b9e6a8e-2f0c-4a55-9d6c-1f1f2a9b7c11`,
		Args:    cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			r, err := newClient().GetRoute(c.Context(), args[0])
			if err != nil {
				return err
			}

			if jsonOutput() {
				return outputJSON(c.OutOrStdout(), r)
			}
			return printRouting(c.OutOrStdout(), r)
		},
	}
}
