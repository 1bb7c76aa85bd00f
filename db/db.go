package db

// DbAuth defines the database operations on user identities. Get methods
// return (nil, nil) when no matching record exists; errors are reserved for
// database failures.
type DbAuth interface {
	GetUserByEmail(email string) (*User, error)
	GetUserById(id string) (*User, error)
	// CreateUserWithPassword inserts a new local user. The email unique
	// constraint is enforced by the insert itself (insert-or-fail, not
	// insert-then-check): a duplicate returns ErrConstraintUnique.
	CreateUserWithPassword(user User) (*User, error)
	// CreateUserWithOauth2 inserts a new user resolved from an OAuth profile.
	// Same insert-or-fail contract as CreateUserWithPassword.
	CreateUserWithOauth2(user User) (*User, error)
	UpdatePassword(userId string, newPassword string) error
	VerifyEmail(userId string) error
	// UpdateSocialAvatar refreshes the avatar from a provider profile. An
	// uploaded avatar is never overwritten; only absent or social-sourced
	// avatars change.
	UpdateSocialAvatar(userId string, avatar string) error
	// SaveTwoFactorSecret stores a fresh encrypted secret and clears any
	// enabled state, moving the user to the pending 2FA state. Re-running
	// setup before verification overwrites the pending secret.
	SaveTwoFactorSecret(userId string, secretEncrypted string) error
	EnableTwoFactor(userId string) error
	// DisableTwoFactor clears both the secret and the enabled state.
	DisableTwoFactor(userId string) error
}

// DbToken defines the single-use token operations.
type DbToken interface {
	CreateToken(token OneTimeToken) (*OneTimeToken, error)
	// ConsumeToken atomically finds a token matching (type, hash, unused,
	// unexpired), optionally constrained to userId (empty matches any owner),
	// and marks it used in the same operation. Returns (nil, nil) when no
	// live token matches; a second consume of the same token always does,
	// even under concurrent callers.
	ConsumeToken(tokenType, tokenHash, userId string) (*OneTimeToken, error)
}

// DbOauth2 defines the OAuth account link operations.
type DbOauth2 interface {
	GetOauth2Link(provider, providerAccountID string) (*OAuthLink, error)
	// CreateOauth2Link inserts a link; a duplicate
	// (provider, provider_account_id) returns ErrConstraintUnique.
	CreateOauth2Link(link OAuthLink) error
}

// DbQueue defines the job queue operations.
type DbQueue interface {
	InsertJob(job Job) error
	Claim(limit int) ([]*Job, error)
	MarkCompleted(jobID int64) error
	MarkFailed(jobID int64, errMsg string) error
}

// DbApp combines the required DB roles for the application. The concrete DB
// implementation must satisfy this interface.
type DbApp interface {
	DbAuth
	DbToken
	DbOauth2
	DbQueue
}
