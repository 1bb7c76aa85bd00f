package mail

import (
	"context"
	"fmt"
	"net/smtp"

	"github.com/domodwyer/mailyak/v3"
)

// Mailer sends transactional emails over SMTP.
type Mailer struct {
	server   string
	port     int
	username string
	password string
	from     string
}

// New creates a new Mailer instance
func New(server string, port int, username, password, from string) *Mailer {
	return &Mailer{
		server:   server,
		port:     port,
		username: username,
		password: password,
		from:     from,
	}
}

func (m *Mailer) newMessage(to, subject string) *mailyak.MailYak {
	mail := mailyak.New(fmt.Sprintf("%s:%d", m.server, m.port),
		smtp.PlainAuth("", m.username, m.password, m.server))
	mail.To(to)
	mail.From(m.from)
	mail.Subject(subject)
	return mail
}

// SendPasswordReset sends a password reset link containing the one-time
// token. The token is only ever disclosed here and in development responses.
func (m *Mailer) SendPasswordReset(ctx context.Context, email, resetURL string) error {
	mail := m.newMessage(email, "Reset your password")
	mail.HTML().Set(fmt.Sprintf(`
		<h1>Password Reset</h1>
		<p>We received a request to reset your password. Click the link below to choose a new one:</p>
		<p><a href="%s">Reset Password</a></p>
		<p>If you did not request this, you can ignore this email.</p>
	`, resetURL))
	return m.send(ctx, mail)
}

// SendEmailOtp sends the numeric verification code for email ownership
// confirmation.
func (m *Mailer) SendEmailOtp(ctx context.Context, email, otp string) error {
	mail := m.newMessage(email, "Your verification code")
	mail.HTML().Set(fmt.Sprintf(`
		<h1>Email Verification</h1>
		<p>Enter this code to verify your email address:</p>
		<p><strong style="font-size: 1.5em; letter-spacing: 0.2em;">%s</strong></p>
	`, otp))
	return m.send(ctx, mail)
}

// send runs the blocking SMTP exchange in a goroutine so the context
// deadline is honored even when the server never answers.
func (m *Mailer) send(ctx context.Context, mail *mailyak.MailYak) error {
	done := make(chan error, 1)
	go func() {
		done <- mail.Send()
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-done:
		if err != nil {
			return fmt.Errorf("mail: send failed: %w", err)
		}
	}
	return nil
}
