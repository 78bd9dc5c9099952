package main

import (
	"encoding/json"
	"errors"

	"github.com/kompox/tfcsync/config/syncenv"
	"github.com/kompox/tfcsync/usecase/history"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

func newCmdHistory() *cobra.Command {
	c := &cobra.Command{
		Use:                "history",
		Short:              "Inspect recorded sync runs",
		SilenceUsage:       true,
		SilenceErrors:      true,
		DisableSuggestions: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	c.PersistentFlags().String(syncenv.HistoryDBFlag, "", "Run history database URL (env "+syncenv.HistoryDBEnvKey+")")
	c.AddCommand(newCmdHistoryList())
	c.AddCommand(newCmdHistoryGet())
	return c
}

// findFlag recursively searches parents for a flag.
func findFlag(cmd *cobra.Command, name string) *pflag.Flag {
	for c := cmd; c != nil; c = c.Parent() {
		if f := c.Flags().Lookup(name); f != nil {
			return f
		}
		if f := c.PersistentFlags().Lookup(name); f != nil {
			return f
		}
	}
	return nil
}

// historyUseCase resolves the history database and rejects the in-memory default,
// which never holds earlier runs.
func historyUseCase(cmd *cobra.Command) (*history.UseCase, error) {
	cfg := configFrom(cmd.Context())
	if f := findFlag(cmd, syncenv.HistoryDBFlag); f != nil && f.Changed {
		cfg.History.DBURL = f.Value.String()
	}
	if cfg.History.DBURL == "" {
		return nil, errors.New("history database required (--history-db or " + syncenv.HistoryDBEnvKey + ")")
	}
	return buildHistoryUseCase(cfg)
}

func newCmdHistoryList() *cobra.Command {
	var limit int
	c := &cobra.Command{
		Use:                "list",
		Short:              "List runs, newest first, as JSON lines",
		Args:               cobra.NoArgs,
		SilenceUsage:       true,
		SilenceErrors:      true,
		DisableSuggestions: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			uc, err := historyUseCase(cmd)
			if err != nil {
				return err
			}
			out, err := uc.List(cmd.Context(), &history.ListInput{Limit: limit})
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			for _, it := range out.Runs {
				if err := enc.Encode(it); err != nil {
					return err
				}
			}
			return nil
		},
	}
	c.Flags().IntVar(&limit, "limit", 20, "Maximum number of runs (0 for all)")
	return c
}

func newCmdHistoryGet() *cobra.Command {
	return &cobra.Command{
		Use:                "get <run-id>",
		Short:              "Show a run and its deliveries",
		Args:               cobra.ExactArgs(1),
		SilenceUsage:       true,
		SilenceErrors:      true,
		DisableSuggestions: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			uc, err := historyUseCase(cmd)
			if err != nil {
				return err
			}
			out, err := uc.Get(cmd.Context(), &history.GetInput{RunID: args[0]})
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		},
	}
}
