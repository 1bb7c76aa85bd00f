package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/credenzahq/credenza/config"
	"github.com/credenzahq/credenza/db"
	"github.com/credenzahq/credenza/mail"
	"github.com/credenzahq/credenza/queue"
)

// PasswordResetMailHandler delivers password reset emails.
type PasswordResetMailHandler struct {
	configProvider *config.Provider
	mailer         *mail.Mailer
}

func NewPasswordResetMailHandler(provider *config.Provider, mailer *mail.Mailer) *PasswordResetMailHandler {
	return &PasswordResetMailHandler{
		configProvider: provider,
		mailer:         mailer,
	}
}

// Handle implements the JobHandler interface for password reset mail jobs.
func (h *PasswordResetMailHandler) Handle(ctx context.Context, job db.Job) error {
	cfg := h.configProvider.Get()

	var payload queue.PayloadPasswordResetMail
	if err := json.Unmarshal(job.Payload, &payload); err != nil {
		return fmt.Errorf("failed to parse password reset payload: %w", err)
	}
	if payload.Email == "" || payload.Token == "" {
		return fmt.Errorf("password reset payload missing email or token")
	}

	resetURL := fmt.Sprintf("%s/reset-password?token=%s",
		cfg.App.BaseURL, url.QueryEscape(payload.Token))

	if err := h.mailer.SendPasswordReset(ctx, payload.Email, resetURL); err != nil {
		return fmt.Errorf("failed to send password reset email: %w", err)
	}
	return nil
}
