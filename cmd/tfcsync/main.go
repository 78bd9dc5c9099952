package main

import (
	"context"
	"os"

	"github.com/google/uuid"
	"github.com/kompox/tfcsync/config/syncenv"
	"github.com/kompox/tfcsync/internal/logging"
	"github.com/spf13/cobra"
)

// getenv is swapped by tests for a synthetic environment.
var getenv = os.Getenv

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "tfcsync",
		Short:   "Sync Terraform state resources into the Port catalog",
		Long:    "tfcsync reads the current state of every workspace of a Terraform Cloud organization and forwards each managed resource to a Port webhook.",
		Version: version,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Show help by default when no subcommand is provided.
			return cmd.Help()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().String("config", "", "Path to a YAML config file (env TFCSYNC_CONFIG)")
	cmd.PersistentFlags().String("log-format", "", "Log format (human|text|json)")
	cmd.PersistentFlags().String("log-level", "", "Log level (DEBUG|INFO|WARN|ERROR)")
	cmd.PersistentFlags().String("log-output", "", `Log output ("-" for stderr, "none", or a file path; "" in the config file means auto-named file)`)
	cmd.PersistentFlags().String("log-dir", "", "Directory for auto-named and relative log files")

	cmd.PersistentPreRunE = func(c *cobra.Command, _ []string) error {
		path, _ := c.Flags().GetString("config")
		if path == "" {
			path = getenv("TFCSYNC_CONFIG")
		}
		cfg, err := syncenv.Load(path, getenv)
		if err != nil {
			return err
		}
		applyLogFlags(c, &cfg.Logging)

		l, lf, err := logging.Open(&logging.LogConfig{
			Format:        cfg.Logging.Format,
			Level:         cfg.Logging.Level,
			Output:        cfg.Logging.Output,
			Dir:           cfg.Logging.Dir,
			RetentionDays: cfg.Logging.RetentionDays,
		})
		if err != nil {
			return err
		}
		ctx := logging.WithLogger(c.Context(), l.With("runId", uuid.NewString()))
		ctx = withConfig(ctx, cfg)
		ctx = withLogFile(ctx, lf)
		c.SetContext(ctx)
		return nil
	}
	cmd.PersistentPostRunE = func(c *cobra.Command, _ []string) error {
		if lf := logFileFrom(c.Context()); lf != nil {
			return lf.Close()
		}
		return nil
	}

	// Add subcommands
	cmd.AddCommand(newCmdVersion())
	cmd.AddCommand(newCmdConfig())
	cmd.AddCommand(newCmdSync())
	cmd.AddCommand(newCmdWorkspaces())
	cmd.AddCommand(newCmdState())
	cmd.AddCommand(newCmdHistory())
	return cmd
}

func applyLogFlags(c *cobra.Command, l *syncenv.Logging) {
	set := func(name string, dst *string) {
		if f := c.Flags().Lookup(name); f != nil && f.Changed {
			*dst = f.Value.String()
		}
	}
	set("log-format", &l.Format)
	set("log-level", &l.Level)
	set("log-output", &l.Output)
	set("log-dir", &l.Dir)
}

func main() {
	root := newRootCmd()
	root.SetContext(context.Background())
	executed, err := root.ExecuteC()
	if err != nil {
		ctx := root.Context()
		if executed != nil {
			ctx = executed.Context()
		}
		logging.FromContext(ctx).Errorf(ctx, "Failed: %s", err)
		if lf := logFileFrom(ctx); lf != nil {
			_ = lf.Close()
		}
		os.Exit(1)
	}
}
