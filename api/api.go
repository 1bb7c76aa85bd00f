package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/credenzahq/credenza/cache"
	"github.com/credenzahq/credenza/core"
	"github.com/credenzahq/credenza/db"
	"github.com/credenzahq/credenza/router"
)

// Api is the HTTP surface over the orchestrator. Handlers decode and
// validate requests, call into core and map its errors to JSON responses;
// no business rule lives here.
type Api struct {
	app    *core.App
	logger *slog.Logger
	auth   *Authenticator
}

func New(app *core.App, userCache cache.Cache[string, *db.User]) *Api {
	return &Api{
		app:    app,
		logger: app.Logger(),
		auth:   NewAuthenticator(app, userCache),
	}
}

// Auth exposes the bearer authenticator, mainly for tests.
func (a *Api) Auth() *Authenticator {
	return a.auth
}

// Routes registers all endpoints on the router.
func (a *Api) Routes(r *router.Router) {
	requireAuth := a.RequireAuth

	r.Post("/api/auth/register", a.handler(a.RegisterHandler))
	r.Post("/api/auth/login", a.handler(a.LoginHandler))
	r.Post("/api/auth/refresh", a.handler(a.RefreshHandler))
	r.Post("/api/auth/oauth2", a.handler(a.OAuth2LoginHandler))
	r.Get("/api/auth/oauth2/providers", a.handler(a.ListOAuth2ProvidersHandler))

	r.Post("/api/auth/password-reset/request", a.handler(a.PasswordResetRequestHandler))
	r.Post("/api/auth/password-reset/confirm", a.handler(a.PasswordResetConfirmHandler))
	r.Post("/api/auth/email-otp/request", a.handler(a.EmailOtpRequestHandler))
	r.Post("/api/auth/email-otp/confirm", a.handler(a.EmailOtpConfirmHandler))

	r.Post("/api/auth/2fa/setup", router.NewChain(a.handler(a.TwoFactorSetupHandler)).WithMiddleware(requireAuth).Handler())
	r.Post("/api/auth/2fa/verify", router.NewChain(a.handler(a.TwoFactorVerifyHandler)).WithMiddleware(requireAuth).Handler())
	r.Post("/api/auth/2fa/disable", router.NewChain(a.handler(a.TwoFactorDisableHandler)).WithMiddleware(requireAuth).Handler())
	r.Get("/api/auth/me", router.NewChain(a.handler(a.MeHandler)).WithMiddleware(requireAuth).Handler())
}

func (a *Api) handler(h func(http.ResponseWriter, *http.Request)) http.Handler {
	return http.HandlerFunc(h)
}

// mapCoreError translates orchestrator errors to precomputed responses.
// Anything outside the taxonomy is an internal error and gets logged.
func (a *Api) mapCoreError(err error) jsonResponse {
	switch {
	case errors.Is(err, core.ErrConflict):
		return errorEmailConflict
	case errors.Is(err, core.ErrUnauthorized):
		return errorInvalidCredentials
	case errors.Is(err, core.ErrInvalidToken):
		return errorInvalidToken
	case errors.Is(err, core.ErrNotFound):
		return errorNotFound
	case errors.Is(err, core.ErrInvalidOrExpiredToken):
		return errorInvalidOrExpiredToken
	case errors.Is(err, core.ErrInvalidCode):
		return errorInvalidCode
	case errors.Is(err, core.ErrNotConfigured):
		return errorTwoFactorNotConfigured
	default:
		a.logger.Error("unhandled error", "err", err)
		return errorInternal
	}
}
