package cmd

import (
	"github.com/spf13/cobra"
)

func quotaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "quota",
		Short: "Show the eBay API call budget",
		Long: "Show the server's local daily call budget and, when available,\n" +
			"the quota last reported by the eBay Analytics API.",
		Example: `  rr quota
  rr quota --output json`,
		RunE: func(c *cobra.Command, _ []string) error {
			q, err := newClient().GetQuota(c.Context())
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(c.OutOrStdout(), q)
			}
			return printQuota(c.OutOrStdout(), q)
		},
	}
}
