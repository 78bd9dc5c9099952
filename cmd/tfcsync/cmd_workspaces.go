package main

import (
	"encoding/json"

	"github.com/kompox/tfcsync/config/syncenv"
	"github.com/spf13/cobra"
)

func newCmdWorkspaces() *cobra.Command {
	c := &cobra.Command{
		Use:                "workspaces",
		Aliases:            []string{"ws"},
		Short:              "List the workspaces of the organization as JSON lines",
		Args:               cobra.NoArgs,
		SilenceUsage:       true,
		SilenceErrors:      true,
		DisableSuggestions: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := configFrom(cmd.Context())
			cfg.ApplyFlags(cmd.Flags())
			if err := cfg.Validate(); err != nil {
				return err
			}
			client, err := buildTFCClient(cfg)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			for page, err := range client.WorkspacePages(cmd.Context(), cfg.Organization) {
				if err != nil {
					return err
				}
				for _, ws := range page {
					if err := enc.Encode(ws); err != nil {
						return err
					}
				}
			}
			return nil
		},
	}
	c.Flags().String(syncenv.OrganizationFlag, "", "Organization to list (env "+syncenv.OrganizationEnvKey+")")
	c.Flags().String(syncenv.AddressFlag, "", "API base URL (env "+syncenv.AddressEnvKey+")")
	return c
}
