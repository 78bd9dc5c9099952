package main

import (
	"github.com/kompox/tfcsync/config/syncenv"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newCmdConfig() *cobra.Command {
	c := &cobra.Command{
		Use:   "config",
		Short: "Configuration commands",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	c.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Print a starter config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := syncenv.InitialConfigYAML()
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(b)
			return err
		},
	})
	c.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the resolved configuration (secrets are reported as set or unset)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := configFrom(cmd.Context())
			view := struct {
				syncenv.Config `yaml:",inline"`
				Token           string `yaml:"token"`
				WebhookURL      string `yaml:"webhookURL"`
			}{Config: *cfg, Token: setOrUnset(cfg.Token), WebhookURL: setOrUnset(cfg.WebhookURL)}
			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(view); err != nil {
				return err
			}
			return enc.Close()
		},
	})
	return c
}

func setOrUnset(s string) string {
	if s == "" {
		return "<unset>"
	}
	return "<set>"
}
