package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/credenzahq/credenza/cache"
	"github.com/credenzahq/credenza/core"
	"github.com/credenzahq/credenza/crypto"
	"github.com/credenzahq/credenza/db"
)

// userCacheTTL bounds how long a bearer lookup may serve a cached user
// record. Kept short so password resets and 2FA changes take effect quickly.
const userCacheTTL = 30 * time.Second

var errAuthFailed = errors.New("authentication failed")

// Authenticator resolves a bearer access token to a user record. Signature
// verification is stateless; the user lookup behind it goes through a
// short-TTL cache to keep hot sessions off the database.
type Authenticator struct {
	app       *core.App
	userCache cache.Cache[string, *db.User]
}

func NewAuthenticator(app *core.App, userCache cache.Cache[string, *db.User]) *Authenticator {
	return &Authenticator{
		app:       app,
		userCache: userCache,
	}
}

// Authenticate verifies the Authorization header and returns the bearer's
// user record. On failure the returned response tells the caller what to
// write; the error is only a signal.
func (a *Authenticator) Authenticate(r *http.Request) (*db.User, jsonResponse, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return nil, errorNoAuthHeader, errAuthFailed
	}

	tokenString := strings.TrimPrefix(authHeader, "Bearer ")
	if tokenString == authHeader {
		return nil, errorInvalidTokenFormat, errAuthFailed
	}

	cfg := a.app.Config()
	claims, err := crypto.ParseAccessToken(tokenString, []byte(cfg.Jwt.AccessSecret))
	if err != nil {
		return nil, errorInvalidToken, errAuthFailed
	}

	user, err := a.userByID(claims.Subject)
	if err != nil {
		return nil, errorInternal, errAuthFailed
	}
	if user == nil {
		return nil, errorInvalidToken, errAuthFailed
	}
	return user, jsonResponse{}, nil
}

func (a *Authenticator) userByID(id string) (*db.User, error) {
	if a.userCache != nil {
		if user, ok := a.userCache.Get(id); ok {
			return user, nil
		}
	}
	user, err := a.app.DbAuth().GetUserById(id)
	if err != nil {
		return nil, err
	}
	if user != nil && a.userCache != nil {
		a.userCache.SetWithTTL(id, user, 1, userCacheTTL)
	}
	return user, nil
}

// Invalidate drops a user from the cache, used after state changes that
// must be visible immediately.
func (a *Authenticator) Invalidate(userID string) {
	if a.userCache != nil {
		a.userCache.Del(userID)
	}
}
