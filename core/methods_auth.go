package core

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/credenzahq/credenza/crypto"
	"github.com/credenzahq/credenza/db"
	"golang.org/x/sync/errgroup"
)

// TokenPair is the ephemeral credential pair minted on login and refresh.
// It is never persisted.
type TokenPair struct {
	User         AuthUser
	AccessToken  string
	RefreshToken string
	TokenType    string
	// ExpiresIn is the access token lifetime in seconds.
	ExpiresIn int
}

// LoginResult is the outcome of a password login. When the account has a
// second factor enabled and no code was supplied, RequiresTwoFactor is set
// and Pair is nil.
type LoginResult struct {
	RequiresTwoFactor bool
	Pair              *TokenPair
}

// Register creates a local account with a bcrypt password hash. A taken
// email fails with ErrConflict; the unique constraint on the insert is the
// only arbiter, so two concurrent registrations cannot both win.
func (a *App) Register(email, password, name string) (AuthUser, error) {
	cfg := a.Config()
	email = normalizeEmail(email)

	hash, err := crypto.GenerateHash(password, cfg.Auth.BcryptCost)
	if err != nil {
		return AuthUser{}, fmt.Errorf("hashing password: %w", err)
	}

	user, err := a.dbAuth.CreateUserWithPassword(db.User{
		Email:    email,
		Name:     name,
		Password: hash,
	})
	if err != nil {
		if errors.Is(err, db.ErrConstraintUnique) {
			return AuthUser{}, ErrConflict
		}
		return AuthUser{}, fmt.Errorf("creating user: %w", err)
	}
	return NewAuthUser(user), nil
}

// ValidatePassword resolves an email/password pair to a user. It returns
// (nil, nil) on any mismatch: a missing user, an account without a password
// hash and a wrong password are indistinguishable to the caller.
func (a *App) ValidatePassword(email, password string) (*db.User, error) {
	user, err := a.dbAuth.GetUserByEmail(normalizeEmail(email))
	if err != nil {
		return nil, fmt.Errorf("looking up user: %w", err)
	}
	if user == nil || user.Password == "" {
		return nil, nil
	}
	if !crypto.CheckPassword(password, user.Password) {
		return nil, nil
	}
	return user, nil
}

// Login validates the password and, when a second factor is enabled, the
// TOTP code. An enabled second factor with no code yields a result asking
// for one rather than a token pair.
func (a *App) Login(email, password, totpCode string) (*LoginResult, error) {
	user, err := a.ValidatePassword(email, password)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUnauthorized
	}

	if user.TwoFactorEnabled() {
		if totpCode == "" {
			return &LoginResult{RequiresTwoFactor: true}, nil
		}
		ok, err := a.totp.VerifyCode(user, totpCode)
		if err != nil {
			return nil, ErrInvalidCode
		}
		if !ok {
			return nil, ErrInvalidCode
		}
	}

	pair, err := a.IssueTokens(user)
	if err != nil {
		return nil, err
	}
	return &LoginResult{Pair: pair}, nil
}

// IssueTokens mints a fresh access/refresh pair for the user. The two
// signatures share no state and are computed in parallel; the secrets and
// lifetimes are distinct per token type.
func (a *App) IssueTokens(user *db.User) (*TokenPair, error) {
	cfg := a.Config()

	var accessToken, refreshToken string
	var accessExpiry time.Time

	g := new(errgroup.Group)
	g.Go(func() error {
		var err error
		accessToken, accessExpiry, err = crypto.NewAccessToken(
			user.ID, user.Email, user.Name, user.Roles,
			[]byte(cfg.Jwt.AccessSecret), cfg.Jwt.AccessTokenDuration.Duration)
		return err
	})
	g.Go(func() error {
		var err error
		refreshToken, _, err = crypto.NewRefreshToken(
			user.ID, []byte(cfg.Jwt.RefreshSecret), cfg.Jwt.RefreshTokenDuration.Duration)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("signing token pair: %w", err)
	}

	return &TokenPair{
		User:         NewAuthUser(user),
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    int(time.Until(accessExpiry).Seconds()),
	}, nil
}

// Refresh verifies a refresh token and reissues a brand-new pair. Every
// verification failure, including a vanished user, collapses to
// ErrInvalidToken.
func (a *App) Refresh(refreshToken string) (*TokenPair, error) {
	cfg := a.Config()

	claims, err := crypto.ParseRefreshToken(refreshToken, []byte(cfg.Jwt.RefreshSecret))
	if err != nil {
		return nil, ErrInvalidToken
	}

	user, err := a.dbAuth.GetUserById(claims.Subject)
	if err != nil {
		return nil, fmt.Errorf("looking up user: %w", err)
	}
	if user == nil {
		return nil, ErrInvalidToken
	}

	return a.IssueTokens(user)
}

// normalizeEmail case-folds the address so lookups and unique enforcement
// agree on a single spelling.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
