package core

import (
	"fmt"
	"time"

	"github.com/credenzahq/credenza/crypto"
	"github.com/credenzahq/credenza/db"
	"github.com/credenzahq/credenza/queue"
)

// RequestEmailOtp issues a numeric single-use code for email verification.
// Like the reset request, the outcome never reveals whether the account
// exists; an already verified account also gets the generic outcome.
func (a *App) RequestEmailOtp(email string) (string, error) {
	cfg := a.Config()

	user, err := a.dbAuth.GetUserByEmail(normalizeEmail(email))
	if err != nil {
		return "", fmt.Errorf("looking up user: %w", err)
	}
	if user == nil || user.Verified() {
		return "", nil
	}

	otp, err := crypto.RandomOtp(cfg.Auth.OtpDigits)
	if err != nil {
		return "", fmt.Errorf("generating otp: %w", err)
	}

	_, err = a.dbToken.CreateToken(db.OneTimeToken{
		UserID:    user.ID,
		Type:      db.TokenTypeEmailVerify,
		TokenHash: crypto.HashToken(otp),
		ExpiresAt: time.Now().Add(cfg.Auth.EmailOtpTTL.Duration),
	})
	if err != nil {
		return "", fmt.Errorf("storing otp: %w", err)
	}

	a.enqueueMail(queue.JobTypeEmailOtpMail, queue.PayloadEmailOtpMail{
		Email: user.Email,
		Otp:   otp,
	})

	if cfg.App.IsProduction() {
		return "", nil
	}
	return otp, nil
}

// VerifyEmailOtp consumes the code and marks the email verified. The
// consume is scoped to the account so a code issued for one address cannot
// verify another.
func (a *App) VerifyEmailOtp(email, otp string) error {
	user, err := a.dbAuth.GetUserByEmail(normalizeEmail(email))
	if err != nil {
		return fmt.Errorf("looking up user: %w", err)
	}
	if user == nil {
		return ErrInvalidOrExpiredToken
	}

	consumed, err := a.dbToken.ConsumeToken(db.TokenTypeEmailVerify, crypto.HashToken(otp), user.ID)
	if err != nil {
		return fmt.Errorf("consuming otp: %w", err)
	}
	if consumed == nil {
		return ErrInvalidOrExpiredToken
	}

	if err := a.dbAuth.VerifyEmail(user.ID); err != nil {
		return fmt.Errorf("marking email verified: %w", err)
	}
	return nil
}
