package db

import (
	"encoding/json"
	"time"
)

// User represents a user from the database.
// Timestamps use RFC3339 format in UTC timezone.
// Example: "2024-03-07T15:04:05Z"
type User struct {
	ID    string
	Email string // case-folded; empty for OAuth accounts whose provider supplied no email
	Name  string
	// Password is the bcrypt hash. Empty password means no password
	// authentication: pure-OAuth accounts until they set one.
	Password string
	Roles    []string
	Avatar   string
	// AvatarSource tracks where the avatar came from: "UPLOAD", "S3" or
	// "SOCIAL". OAuth logins only overwrite absent or social avatars.
	AvatarSource string
	// VerifiedAt is zero while the email is unverified.
	VerifiedAt time.Time
	// TwoFactorSecret holds the TOTP secret encrypted at rest
	// (<ivHex>.<tagHex>.<ctHex>). Empty means 2FA is unconfigured.
	TwoFactorSecret string
	// TwoFactorEnabledAt is zero until the user has confirmed a code against
	// the stored secret. Never set while TwoFactorSecret is empty.
	TwoFactorEnabledAt time.Time
	Created            time.Time
	Updated            time.Time
}

// Verified reports whether the user's email address has been verified.
func (u *User) Verified() bool {
	return !u.VerifiedAt.IsZero()
}

// TwoFactorEnabled reports whether TOTP is fully enabled, as opposed to a
// pending secret awaiting its first valid code.
func (u *User) TwoFactorEnabled() bool {
	return !u.TwoFactorEnabledAt.IsZero()
}

// Avatar sources.
const (
	AvatarSourceUpload = "UPLOAD"
	AvatarSourceS3     = "S3"
	AvatarSourceSocial = "SOCIAL"
)

// One-time token types. The column is a plain string so new types can be
// added without a schema change.
const (
	TokenTypePasswordReset = "PASSWORD_RESET"
	TokenTypeEmailVerify   = "EMAIL_VERIFY"
)

// OneTimeToken is a password-reset or email-verification artifact. Only the
// SHA-256 digest of the plaintext handed to the user is stored. A token is
// consumable at most once and only before ExpiresAt.
type OneTimeToken struct {
	ID        int64
	UserID    string
	Type      string
	TokenHash string
	ExpiresAt time.Time
	// UsedAt transitions zero -> set exactly once.
	UsedAt  time.Time
	Created time.Time
}

// OAuthLink maps (provider, provider account id) to a local user. The pair is
// globally unique; a user may hold one link per provider.
type OAuthLink struct {
	ID                int64
	UserID            string
	Provider          string
	ProviderAccountID string
	AccessToken       string
	RefreshToken      string
	Created           time.Time
}

// Job represents a job in the processing queue.
type Job struct {
	ID           int64           `json:"id"`
	JobType      string          `json:"job_type"`
	Payload      json.RawMessage `json:"payload"`
	Status       string          `json:"status"`
	Attempts     int             `json:"attempts"`
	MaxAttempts  int             `json:"max_attempts"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
	ScheduledFor time.Time       `json:"scheduled_for"`
	CompletedAt  time.Time       `json:"completed_at,omitempty"`
	LastError    string          `json:"last_error,omitempty"`
}

// Job status values.
const (
	JobStatusPending   = "pending"
	JobStatusCompleted = "completed"
	JobStatusFailed    = "failed"
)
