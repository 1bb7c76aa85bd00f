package core

import (
	"fmt"
	"log/slog"

	"github.com/credenzahq/credenza/config"
	"github.com/credenzahq/credenza/db"
	"github.com/credenzahq/credenza/totp"
)

// App is the application wide context: the store interfaces, the second
// factor engine and the active configuration. All orchestrator operations
// have App as receiver; transports (HTTP, jobs) call into these methods and
// never touch the stores directly.
type App struct {
	dbAuth         db.DbAuth
	dbToken        db.DbToken
	dbOauth2       db.DbOauth2
	dbQueue        db.DbQueue
	configProvider *config.Provider
	logger         *slog.Logger
	totp           *totp.Engine
}

func NewApp(opts ...Option) (*App, error) {
	a := &App{}
	for _, opt := range opts {
		opt(a)
	}

	if a.dbAuth == nil || a.dbToken == nil || a.dbOauth2 == nil {
		return nil, fmt.Errorf("core: store interfaces are required (use WithDbApp)")
	}
	if a.configProvider == nil {
		return nil, fmt.Errorf("core: config provider is required (use WithConfigProvider)")
	}
	if a.logger == nil {
		a.logger = slog.Default()
	}
	if a.totp == nil {
		cfg := a.configProvider.Get()
		a.totp = totp.NewEngine(a.dbAuth, totp.Config{
			Issuer:        cfg.TwoFactor.Issuer,
			Period:        cfg.TwoFactor.Period,
			Digits:        cfg.TwoFactor.Digits,
			Skew:          cfg.TwoFactor.Skew,
			EncryptionKey: cfg.TwoFactor.EncryptionKey,
		})
	}
	return a, nil
}

func (a *App) DbAuth() db.DbAuth {
	return a.dbAuth
}

func (a *App) DbToken() db.DbToken {
	return a.dbToken
}

func (a *App) DbOauth2() db.DbOauth2 {
	return a.dbOauth2
}

func (a *App) DbQueue() db.DbQueue {
	return a.dbQueue
}

func (a *App) Logger() *slog.Logger {
	return a.logger
}

func (a *App) Config() *config.Config {
	return a.configProvider.Get()
}

func (a *App) ConfigProvider() *config.Provider {
	return a.configProvider
}

func (a *App) Totp() *totp.Engine {
	return a.totp
}
