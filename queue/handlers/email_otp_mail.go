package handlers

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/credenzahq/credenza/db"
	"github.com/credenzahq/credenza/mail"
	"github.com/credenzahq/credenza/queue"
)

// EmailOtpMailHandler delivers email verification codes.
type EmailOtpMailHandler struct {
	mailer *mail.Mailer
}

func NewEmailOtpMailHandler(mailer *mail.Mailer) *EmailOtpMailHandler {
	return &EmailOtpMailHandler{mailer: mailer}
}

// Handle implements the JobHandler interface for email OTP mail jobs.
func (h *EmailOtpMailHandler) Handle(ctx context.Context, job db.Job) error {
	var payload queue.PayloadEmailOtpMail
	if err := json.Unmarshal(job.Payload, &payload); err != nil {
		return fmt.Errorf("failed to parse email otp payload: %w", err)
	}
	if payload.Email == "" || payload.Otp == "" {
		return fmt.Errorf("email otp payload missing email or otp")
	}

	if err := h.mailer.SendEmailOtp(ctx, payload.Email, payload.Otp); err != nil {
		return fmt.Errorf("failed to send email otp: %w", err)
	}
	return nil
}
