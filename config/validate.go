package config

import (
	"errors"
	"fmt"

	"github.com/credenzahq/credenza/crypto"
)

// Validate checks the configuration invariants that must fail fast at
// startup rather than surface as runtime crypto errors on first use.
func Validate(cfg *Config) error {
	var errs []error

	if len(cfg.Jwt.AccessSecret) < crypto.MinKeyLength {
		errs = append(errs, fmt.Errorf("jwt.access_secret must be at least %d bytes", crypto.MinKeyLength))
	}
	if len(cfg.Jwt.RefreshSecret) < crypto.MinKeyLength {
		errs = append(errs, fmt.Errorf("jwt.refresh_secret must be at least %d bytes", crypto.MinKeyLength))
	}
	// Distinct secrets: a refresh token must never verify as an access token.
	if cfg.Jwt.AccessSecret != "" && cfg.Jwt.AccessSecret == cfg.Jwt.RefreshSecret {
		errs = append(errs, errors.New("jwt.access_secret and jwt.refresh_secret must differ"))
	}
	if cfg.Jwt.AccessTokenDuration.Duration <= 0 {
		errs = append(errs, errors.New("jwt.access_token_duration must be positive"))
	}
	if cfg.Jwt.RefreshTokenDuration.Duration <= 0 {
		errs = append(errs, errors.New("jwt.refresh_token_duration must be positive"))
	}

	if cfg.TwoFactor.EncryptionKey == "" {
		errs = append(errs, errors.New("two_factor.encryption_key must not be empty"))
	}
	if cfg.TwoFactor.Period == 0 {
		errs = append(errs, errors.New("two_factor.period must be positive"))
	}
	if cfg.TwoFactor.Digits < 6 || cfg.TwoFactor.Digits > 8 {
		errs = append(errs, errors.New("two_factor.digits must be between 6 and 8"))
	}

	if cfg.Auth.PasswordResetTokenTTL.Duration <= 0 {
		errs = append(errs, errors.New("auth.password_reset_token_ttl must be positive"))
	}
	if cfg.Auth.EmailOtpTTL.Duration <= 0 {
		errs = append(errs, errors.New("auth.email_otp_ttl must be positive"))
	}
	if cfg.Auth.ResetTokenBytes < 16 {
		errs = append(errs, errors.New("auth.reset_token_bytes must be at least 16"))
	}
	if cfg.Auth.OtpDigits < 4 {
		errs = append(errs, errors.New("auth.otp_digits must be at least 4"))
	}

	for name, p := range cfg.OAuth2Providers {
		if p.Name != "" && p.Name != name {
			errs = append(errs, fmt.Errorf("oauth2_providers.%s: name mismatch %q", name, p.Name))
		}
	}

	return errors.Join(errs...)
}
