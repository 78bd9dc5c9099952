package main

import (
	"encoding/json"
	"fmt"

	"github.com/kompox/tfcsync/config/syncenv"
	"github.com/kompox/tfcsync/internal/logging"
	"github.com/kompox/tfcsync/internal/tfstate"
	"github.com/spf13/cobra"
)

func newCmdState() *cobra.Command {
	c := &cobra.Command{
		Use:                "state <workspace-id>",
		Short:              "Print the resources a sync would send for one workspace as JSON lines",
		Args:               cobra.ExactArgs(1),
		SilenceUsage:       true,
		SilenceErrors:      true,
		DisableSuggestions: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := configFrom(cmd.Context())
			cfg.ApplyFlags(cmd.Flags())
			if err := cfg.ValidateToken(); err != nil {
				return err
			}
			client, err := buildTFCClient(cfg)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			wsID := args[0]

			info, err := client.CurrentStateVersion(ctx, wsID)
			if err != nil {
				return err
			}
			if info == nil {
				logging.FromContext(ctx).Infof(ctx, "No state version found for workspace: %s", wsID)
				return nil
			}
			if info.DownloadURL == "" {
				logging.FromContext(ctx).Infof(ctx, "No state file found for workspace: %s", wsID)
				return nil
			}
			raw, err := client.DownloadState(ctx, info.DownloadURL)
			if err != nil {
				return err
			}
			records, err := tfstate.Decode(raw)
			if err != nil {
				return fmt.Errorf("workspace %s: %w", wsID, err)
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			for res := range tfstate.Resources(records, wsID) {
				if err := enc.Encode(res); err != nil {
					return err
				}
			}
			return nil
		},
	}
	c.Flags().String(syncenv.AddressFlag, "", "API base URL (env "+syncenv.AddressEnvKey+")")
	return c
}
