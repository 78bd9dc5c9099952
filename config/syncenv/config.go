// Package syncenv resolves the sync configuration from defaults, an optional
// YAML file, the process environment and command-line flags.
package syncenv

import (
	"fmt"
	"os"
	"strings"

	"github.com/kompox/tfcsync/adapters/tfc"
	"github.com/kompox/tfcsync/domain/model"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

// Environment variable names
const (
	TokenEnvKey          = "TFC_TOKEN"
	OrganizationEnvKey   = "TFC_ORG"
	AddressEnvKey        = "TFC_ADDRESS"
	WebhookURLEnvKey     = "PORT_WEBHOOK_URL"
	HistoryDBEnvKey      = "TFCSYNC_HISTORY_DB"
	PushgatewayURLEnvKey = "TFCSYNC_PUSHGATEWAY_URL"
)

// Flag names bound by BindFlags.
const (
	OrganizationFlag   = "org"
	AddressFlag        = "address"
	WebhookURLFlag     = "webhook-url"
	HistoryDBFlag      = "history-db"
	PushgatewayURLFlag = "pushgateway-url"
)

// Config is the resolved configuration, built once at startup and passed to
// the components that need it.
type Config struct {
	Token        string  `yaml:"-"` // Only ever read from TFC_TOKEN
	Organization string  `yaml:"organization,omitempty"`
	Address      string  `yaml:"address,omitempty"`
	WebhookURL   string  `yaml:"-"` // Carries the webhook secret; env or flag only
	Logging      Logging `yaml:"logging,omitempty"`
	History      History `yaml:"history,omitempty"`
	Metrics      Metrics `yaml:"metrics,omitempty"`
}

// Logging represents the logging section of the config file.
type Logging struct {
	Format        string `yaml:"format,omitempty"`        // Log format: human (default), text, json
	Level         string `yaml:"level,omitempty"`         // Log level: DEBUG, INFO (default), WARN, ERROR
	Output        string `yaml:"output,omitempty"`        // "-" (default) for stderr, "none", or a file path
	Dir           string `yaml:"dir,omitempty"`           // Directory for auto-named and relative log files
	RetentionDays int    `yaml:"retentionDays,omitempty"` // Days to retain auto-named log files
}

// History represents the run history section of the config file.
type History struct {
	DBURL string `yaml:"dbURL,omitempty"` // e.g. sqlite:./tfcsync.db; empty keeps history in memory
}

// Metrics represents the metrics section of the config file.
type Metrics struct {
	PushgatewayURL string `yaml:"pushgatewayURL,omitempty"` // Empty disables pushing
	Job            string `yaml:"job,omitempty"`
}

// Default returns the built-in defaults.
func Default() *Config {
	return &Config{
		Address: tfc.DefaultAddress,
		Logging: Logging{Format: "human", Level: "INFO", Output: "-", RetentionDays: 7},
		Metrics: Metrics{Job: "tfcsync"},
	}
}

// Load builds a Config from defaults, the YAML file at path (skipped when
// path is empty), and the environment as seen through getenv.
func Load(path string, getenv func(string) string) (*Config, error) {
	cfg := Default()
	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}
	cfg.applyEnv(getenv)
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file %q: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing config file %q: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv(getenv func(string) string) {
	if getenv == nil {
		getenv = os.Getenv
	}
	set := func(dst *string, key string) {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			*dst = v
		}
	}
	set(&c.Token, TokenEnvKey)
	set(&c.Organization, OrganizationEnvKey)
	set(&c.Address, AddressEnvKey)
	set(&c.WebhookURL, WebhookURLEnvKey)
	set(&c.History.DBURL, HistoryDBEnvKey)
	set(&c.Metrics.PushgatewayURL, PushgatewayURLEnvKey)
}

// BindFlags registers the sync flags on fs. Defaults are left empty so that
// only flags set explicitly override file and environment values.
func BindFlags(fs *pflag.FlagSet) {
	fs.String(OrganizationFlag, "", "Organization to sync (env "+OrganizationEnvKey+")")
	fs.String(AddressFlag, "", "API base URL (env "+AddressEnvKey+", default "+tfc.DefaultAddress+")")
	fs.String(WebhookURLFlag, "", "Webhook URL receiving resources (env "+WebhookURLEnvKey+")")
	fs.String(HistoryDBFlag, "", "Run history database URL, e.g. sqlite:./tfcsync.db (env "+HistoryDBEnvKey+")")
	fs.String(PushgatewayURLFlag, "", "Prometheus Pushgateway URL (env "+PushgatewayURLEnvKey+")")
}

// ApplyFlags overrides c with every flag of fs that was set on the command line.
func (c *Config) ApplyFlags(fs *pflag.FlagSet) {
	fs.Visit(func(f *pflag.Flag) {
		v := f.Value.String()
		switch f.Name {
		case OrganizationFlag:
			c.Organization = v
		case AddressFlag:
			c.Address = v
		case WebhookURLFlag:
			c.WebhookURL = v
		case HistoryDBFlag:
			c.History.DBURL = v
		case PushgatewayURLFlag:
			c.Metrics.PushgatewayURL = v
		}
	})
}

// Validate checks the values every API-facing command needs.
// The webhook URL is not checked; the publisher reports it at the first
// delivery attempt.
func (c *Config) Validate() error {
	var missing []string
	if c.Token == "" {
		missing = append(missing, TokenEnvKey)
	}
	if c.Organization == "" {
		missing = append(missing, OrganizationEnvKey)
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: please set %s", model.ErrConfig, strings.Join(missing, " and "))
	}
	return nil
}

// ValidateToken checks only the API credential, for commands that take the
// workspace from their arguments.
func (c *Config) ValidateToken() error {
	if c.Token == "" {
		return fmt.Errorf("%w: please set %s", model.ErrConfig, TokenEnvKey)
	}
	return nil
}

// InitialConfigYAML generates a starter config file as YAML bytes.
func InitialConfigYAML() ([]byte, error) {
	var buf strings.Builder
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(Default()); err != nil {
		return nil, fmt.Errorf("encoding default config: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return nil, fmt.Errorf("closing yaml encoder: %w", err)
	}
	return []byte(buf.String()), nil
}
