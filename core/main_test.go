package core

import (
	"log/slog"
	"testing"

	"github.com/credenzahq/credenza/config"
	"github.com/credenzahq/credenza/db"
	"golang.org/x/crypto/bcrypt"
)

// newTestApp builds an App over the given store with fast test settings.
func newTestApp(t *testing.T, dbApp db.DbApp, mutate func(*config.Config)) *App {
	t.Helper()

	cfg := config.NewDefaultConfig()
	cfg.Auth.BcryptCost = bcrypt.MinCost
	if mutate != nil {
		mutate(cfg)
	}

	app, err := NewApp(
		WithDbApp(dbApp),
		WithConfigProvider(config.NewProvider(cfg)),
		WithLogger(slog.Default()),
	)
	if err != nil {
		t.Fatalf("NewApp() error: %v", err)
	}
	return app
}
