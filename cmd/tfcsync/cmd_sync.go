package main

import (
	"github.com/kompox/tfcsync/config/syncenv"
	"github.com/kompox/tfcsync/internal/logging"
	"github.com/kompox/tfcsync/usecase/statesync"
	"github.com/spf13/cobra"
)

func newCmdSync() *cobra.Command {
	var dryRun bool
	c := &cobra.Command{
		Use:                "sync",
		Short:              "Forward the resources of every workspace to the webhook",
		Args:               cobra.NoArgs,
		SilenceUsage:       true,
		SilenceErrors:      true,
		DisableSuggestions: true,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			cfg := configFrom(cmd.Context())
			cfg.ApplyFlags(cmd.Flags())
			if err := cfg.Validate(); err != nil {
				return err
			}
			uc, err := buildSyncUseCase(cfg)
			if err != nil {
				return err
			}

			ctx, cleanup := withCmdRunLogger(cmd.Context(), "sync", cfg.Organization)
			defer func() { cleanup(err) }()

			_, err = uc.Run(ctx, &statesync.RunInput{Organization: cfg.Organization, DryRun: dryRun})
			if cfg.Metrics.PushgatewayURL != "" {
				if perr := uc.Metrics.Push(ctx, cfg.Metrics.PushgatewayURL, cfg.Metrics.Job); perr != nil {
					logging.FromContext(ctx).Warnf(ctx, "Metrics push failed: %v", perr)
				}
			}
			return err
		},
	}
	syncenv.BindFlags(c.Flags())
	c.Flags().BoolVar(&dryRun, "dry-run", false, "Extract and log resources without sending them")
	return c
}
