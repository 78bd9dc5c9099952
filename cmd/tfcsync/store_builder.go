package main

import (
	"fmt"
	"strings"

	"github.com/kompox/tfcsync/adapters/store/inmem"
	"github.com/kompox/tfcsync/adapters/store/rdb"
	"github.com/kompox/tfcsync/config/syncenv"
	"github.com/kompox/tfcsync/domain"
)

// buildRunRepository creates the run history repository based on the history db URL.
// Without a URL the history lives in memory for the duration of the process.
func buildRunRepository(cfg *syncenv.Config) (domain.RunRepository, error) {
	dbURL := cfg.History.DBURL
	switch {
	case dbURL == "":
		return inmem.NewRunRepository(), nil
	case strings.HasPrefix(dbURL, "sqlite:") || strings.HasPrefix(dbURL, "sqlite3:"):
		db, err := rdb.OpenFromURL(dbURL)
		if err != nil {
			return nil, err
		}
		if err := rdb.AutoMigrate(db); err != nil {
			return nil, fmt.Errorf("migrating history database: %w", err)
		}
		return rdb.NewRunRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported history db URL: %s", dbURL)
	}
}
