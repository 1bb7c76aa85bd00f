package core

import (
	"log/slog"

	"github.com/credenzahq/credenza/config"
	"github.com/credenzahq/credenza/db"
	"github.com/credenzahq/credenza/totp"
)

type Option func(*App)

// WithDbApp wires all store interfaces from a single implementation.
func WithDbApp(dbApp db.DbApp) Option {
	return func(a *App) {
		a.dbAuth = dbApp
		a.dbToken = dbApp
		a.dbOauth2 = dbApp
		a.dbQueue = dbApp
	}
}

// WithDbAuth sets the user store implementation.
func WithDbAuth(d db.DbAuth) Option {
	return func(a *App) {
		a.dbAuth = d
	}
}

// WithDbToken sets the one-time token store implementation.
func WithDbToken(d db.DbToken) Option {
	return func(a *App) {
		a.dbToken = d
	}
}

// WithDbOauth2 sets the OAuth link store implementation.
func WithDbOauth2(d db.DbOauth2) Option {
	return func(a *App) {
		a.dbOauth2 = d
	}
}

// WithDbQueue sets the job queue implementation.
func WithDbQueue(d db.DbQueue) Option {
	return func(a *App) {
		a.dbQueue = d
	}
}

// WithConfigProvider sets the application's configuration provider.
func WithConfigProvider(p *config.Provider) Option {
	return func(a *App) {
		a.configProvider = p
	}
}

// WithLogger sets the logger implementation
func WithLogger(l *slog.Logger) Option {
	return func(a *App) {
		a.logger = l
	}
}

// WithTotpEngine overrides the second factor engine built from config.
func WithTotpEngine(e *totp.Engine) Option {
	return func(a *App) {
		a.totp = e
	}
}
