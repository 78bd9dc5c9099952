package main

import (
	"context"

	"github.com/kompox/tfcsync/config/syncenv"
	"github.com/kompox/tfcsync/internal/logging"
)

type configKey struct{}
type logFileKey struct{}

func withConfig(ctx context.Context, cfg *syncenv.Config) context.Context {
	return context.WithValue(ctx, configKey{}, cfg)
}

// configFrom returns a copy of the startup config so that commands can apply
// their own flags without affecting others.
func configFrom(ctx context.Context) *syncenv.Config {
	cfg, ok := ctx.Value(configKey{}).(*syncenv.Config)
	if !ok || cfg == nil {
		return syncenv.Default()
	}
	cp := *cfg
	return &cp
}

func withLogFile(ctx context.Context, lf *logging.LogFile) context.Context {
	return context.WithValue(ctx, logFileKey{}, lf)
}

func logFileFrom(ctx context.Context) *logging.LogFile {
	lf, _ := ctx.Value(logFileKey{}).(*logging.LogFile)
	return lf
}
