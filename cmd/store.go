package main

import (
	"context"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"

	"github.com/pwd-tools/tender-cli/internal/session"
)

// openStore builds the configured session store and runs migrations.
func openStore(ctx context.Context) (session.Store, error) {
	var st session.Store

	switch cfg.Store.Driver {
	case "postgres":
		if cfg.Store.DatabaseURL == "" {
			return nil, eris.New("database URL is required for postgres (TENDER_STORE_DATABASE_URL)")
		}
		pg, err := session.NewPostgres(ctx, cfg.Store.DatabaseURL, nil)
		if err != nil {
			return nil, eris.Wrap(err, "open postgres store")
		}
		st = pg
	case "sqlite", "":
		path := cfg.Store.SQLitePath
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, eris.Wrapf(err, "create data dir for %s", path)
		}
		sq, err := session.NewSQLite(path)
		if err != nil {
			return nil, eris.Wrap(err, "open sqlite store")
		}
		st = sq
	default:
		return nil, eris.Errorf("unknown store driver %q", cfg.Store.Driver)
	}

	if err := st.Migrate(ctx); err != nil {
		st.Close()
		return nil, eris.Wrap(err, "migrate store")
	}
	return st, nil
}
