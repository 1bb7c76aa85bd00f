package queue

// Job types understood by the executor registry.
const (
	JobTypePasswordResetMail = "job_type_password_reset_mail"
	JobTypeEmailOtpMail      = "job_type_email_otp_mail"
)

// PayloadPasswordResetMail carries the raw reset token to the mail handler.
// The database only ever stores the token's hash; the plaintext lives in the
// job payload until the email is delivered.
type PayloadPasswordResetMail struct {
	Email string `json:"email"`
	Token string `json:"token"`
}

// PayloadEmailOtpMail carries the raw OTP code to the mail handler.
type PayloadEmailOtpMail struct {
	Email string `json:"email"`
	Otp   string `json:"otp"`
}
