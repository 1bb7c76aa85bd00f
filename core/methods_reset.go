package core

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/credenzahq/credenza/crypto"
	"github.com/credenzahq/credenza/db"
	"github.com/credenzahq/credenza/queue"
)

// RequestPasswordReset issues a single-use reset token for the account, if
// it exists. The outcome is identical either way so the operation cannot be
// used to probe for accounts. Outside production the raw token is returned
// to the caller; in production it only ever leaves through the mail queue.
func (a *App) RequestPasswordReset(email string) (string, error) {
	cfg := a.Config()

	user, err := a.dbAuth.GetUserByEmail(normalizeEmail(email))
	if err != nil {
		return "", fmt.Errorf("looking up user: %w", err)
	}
	if user == nil {
		return "", nil
	}

	token, err := crypto.RandomToken(cfg.Auth.ResetTokenBytes)
	if err != nil {
		return "", fmt.Errorf("generating reset token: %w", err)
	}

	_, err = a.dbToken.CreateToken(db.OneTimeToken{
		UserID:    user.ID,
		Type:      db.TokenTypePasswordReset,
		TokenHash: crypto.HashToken(token),
		ExpiresAt: time.Now().Add(cfg.Auth.PasswordResetTokenTTL.Duration),
	})
	if err != nil {
		return "", fmt.Errorf("storing reset token: %w", err)
	}

	a.enqueueMail(queue.JobTypePasswordResetMail, queue.PayloadPasswordResetMail{
		Email: user.Email,
		Token: token,
	})

	if cfg.App.IsProduction() {
		return "", nil
	}
	return token, nil
}

// ResetPassword consumes a reset token and replaces the password hash. The
// consume is atomic: a token spends exactly once, concurrent calls included.
func (a *App) ResetPassword(token, newPassword string) error {
	cfg := a.Config()

	consumed, err := a.dbToken.ConsumeToken(db.TokenTypePasswordReset, crypto.HashToken(token), "")
	if err != nil {
		return fmt.Errorf("consuming reset token: %w", err)
	}
	if consumed == nil {
		return ErrInvalidOrExpiredToken
	}

	hash, err := crypto.GenerateHash(newPassword, cfg.Auth.BcryptCost)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}
	if err := a.dbAuth.UpdatePassword(consumed.UserID, hash); err != nil {
		return fmt.Errorf("updating password: %w", err)
	}
	return nil
}

// enqueueMail inserts a mail delivery job. Delivery is best effort from the
// orchestrator's point of view: with no queue or no SMTP configured the job
// is skipped, and disclosure in development mode still works.
func (a *App) enqueueMail(jobType string, payload any) {
	if a.dbQueue == nil || !a.Config().Smtp.Enabled() {
		return
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		a.logger.Error("failed to marshal mail payload", "type", jobType, "err", err)
		return
	}
	if err := a.dbQueue.InsertJob(db.Job{JobType: jobType, Payload: raw}); err != nil {
		a.logger.Error("failed to enqueue mail job", "type", jobType, "err", err)
	}
}
