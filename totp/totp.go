// Package totp implements the second-factor engine: TOTP secret
// provisioning, code verification and the enable/disable state machine.
//
// Per-user states: unconfigured -> pending (secret saved, not enabled) ->
// enabled. Disable returns to unconfigured and discards the secret. The
// secret is only ever persisted AEAD-encrypted; decryption failures surface
// as "cannot verify", never as a crash.
package totp

import (
	"errors"
	"fmt"
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"

	"github.com/credenzahq/credenza/crypto"
	"github.com/credenzahq/credenza/db"
)

var (
	// ErrNotConfigured is returned when no secret is stored for the user.
	ErrNotConfigured = errors.New("two-factor not configured")
	// ErrInvalidCode is returned when a code does not match the current
	// time window.
	ErrInvalidCode = errors.New("invalid two-factor code")
)

// Config carries the TOTP parameters. Defaults mirror common authenticator
// apps: 30 second period, 6 digits, a skew of one period either side.
type Config struct {
	Issuer        string
	Period        uint
	Digits        int
	Skew          uint
	EncryptionKey string
}

// Engine provisions and verifies TOTP second factors against the user store.
type Engine struct {
	store db.DbAuth
	cfg   Config
}

func NewEngine(store db.DbAuth, cfg Config) *Engine {
	return &Engine{store: store, cfg: cfg}
}

// SetupResult is handed to the user exactly once, at provisioning time.
type SetupResult struct {
	OtpauthURL string
	Secret     string
}

// Setup generates a fresh secret, persists it encrypted in the pending
// state and returns the provisioning URI. Re-running setup before
// verification overwrites the pending secret.
func (e *Engine) Setup(user *db.User) (*SetupResult, error) {
	label := user.Email
	if label == "" {
		label = user.ID
	}

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      e.cfg.Issuer,
		AccountName: label,
		Period:      e.cfg.Period,
		Digits:      otp.Digits(e.cfg.Digits),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate totp secret: %w", err)
	}

	encrypted, err := crypto.EncryptSecret(key.Secret(), e.cfg.EncryptionKey)
	if err != nil {
		return nil, fmt.Errorf("failed to encrypt totp secret: %w", err)
	}

	if err := e.store.SaveTwoFactorSecret(user.ID, encrypted); err != nil {
		return nil, fmt.Errorf("failed to save totp secret: %w", err)
	}

	return &SetupResult{
		OtpauthURL: key.URL(),
		Secret:     key.Secret(),
	}, nil
}

// VerifyAndEnable checks the code against the stored pending secret and, on
// match, transitions the user to the enabled state.
func (e *Engine) VerifyAndEnable(user *db.User, code string) error {
	ok, err := e.VerifyCode(user, code)
	if err != nil {
		return err
	}
	if !ok {
		return ErrInvalidCode
	}
	return e.store.EnableTwoFactor(user.ID)
}

// VerifyCode checks a code against the stored secret without any state
// transition. Used by login-time and disable flows.
func (e *Engine) VerifyCode(user *db.User, code string) (bool, error) {
	if user.TwoFactorSecret == "" {
		return false, ErrNotConfigured
	}

	secret, err := crypto.DecryptSecret(user.TwoFactorSecret, e.cfg.EncryptionKey)
	if err != nil {
		// Malformed or tampered payload means the code cannot be verified.
		return false, fmt.Errorf("cannot verify two-factor code: %w", err)
	}

	return totp.ValidateCustom(code, secret, time.Now().UTC(), totp.ValidateOpts{
		Period: e.cfg.Period,
		Skew:   e.cfg.Skew,
		Digits: otp.Digits(e.cfg.Digits),
	})
}

// Disable requires a valid current code before clearing the secret and the
// enabled state. A stolen session alone cannot switch 2FA off silently.
func (e *Engine) Disable(user *db.User, code string) error {
	ok, err := e.VerifyCode(user, code)
	if err != nil {
		return err
	}
	if !ok {
		return ErrInvalidCode
	}
	return e.store.DisableTwoFactor(user.ID)
}
