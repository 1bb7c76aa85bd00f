package mock

import (
	"github.com/credenzahq/credenza/db"
)

// Compile-time check to ensure Db implements the DbApp interface
var _ db.DbApp = (*Db)(nil)

// Db implements db.DbApp for testing purposes.
// Use function fields to allow overriding behavior in specific tests.
type Db struct {
	// --- Mock DbAuth Methods ---
	GetUserByEmailFunc          func(email string) (*db.User, error)
	GetUserByIdFunc             func(id string) (*db.User, error)
	CreateUserWithPasswordFunc  func(user db.User) (*db.User, error)
	CreateUserWithOauth2Func    func(user db.User) (*db.User, error)
	UpdatePasswordFunc          func(userId string, newPassword string) error
	VerifyEmailFunc             func(userId string) error
	UpdateSocialAvatarFunc      func(userId string, avatar string) error
	SaveTwoFactorSecretFunc     func(userId string, secretEncrypted string) error
	EnableTwoFactorFunc         func(userId string) error
	DisableTwoFactorFunc        func(userId string) error

	// --- Mock DbToken Methods ---
	CreateTokenFunc  func(token db.OneTimeToken) (*db.OneTimeToken, error)
	ConsumeTokenFunc func(tokenType, tokenHash, userId string) (*db.OneTimeToken, error)

	// --- Mock DbOauth2 Methods ---
	GetOauth2LinkFunc    func(provider, providerAccountID string) (*db.OAuthLink, error)
	CreateOauth2LinkFunc func(link db.OAuthLink) error

	// --- Mock DbQueue Methods ---
	InsertJobFunc     func(job db.Job) error
	ClaimFunc         func(limit int) ([]*db.Job, error)
	MarkCompletedFunc func(jobID int64) error
	MarkFailedFunc    func(jobID int64, errMsg string) error
}

// --- Implement DbAuth ---

func (m *Db) GetUserByEmail(email string) (*db.User, error) {
	if m.GetUserByEmailFunc != nil {
		return m.GetUserByEmailFunc(email)
	}
	return nil, nil // Default: not found
}

func (m *Db) GetUserById(id string) (*db.User, error) {
	if m.GetUserByIdFunc != nil {
		return m.GetUserByIdFunc(id)
	}
	return nil, nil // Default: not found
}

func (m *Db) CreateUserWithPassword(user db.User) (*db.User, error) {
	if m.CreateUserWithPasswordFunc != nil {
		return m.CreateUserWithPasswordFunc(user)
	}
	user.ID = "mock-pw-user-id"
	return &user, nil
}

func (m *Db) CreateUserWithOauth2(user db.User) (*db.User, error) {
	if m.CreateUserWithOauth2Func != nil {
		return m.CreateUserWithOauth2Func(user)
	}
	user.ID = "mock-oauth-user-id"
	return &user, nil
}

func (m *Db) UpdatePassword(userId string, newPassword string) error {
	if m.UpdatePasswordFunc != nil {
		return m.UpdatePasswordFunc(userId, newPassword)
	}
	return nil
}

func (m *Db) VerifyEmail(userId string) error {
	if m.VerifyEmailFunc != nil {
		return m.VerifyEmailFunc(userId)
	}
	return nil
}

func (m *Db) UpdateSocialAvatar(userId string, avatar string) error {
	if m.UpdateSocialAvatarFunc != nil {
		return m.UpdateSocialAvatarFunc(userId, avatar)
	}
	return nil
}

func (m *Db) SaveTwoFactorSecret(userId string, secretEncrypted string) error {
	if m.SaveTwoFactorSecretFunc != nil {
		return m.SaveTwoFactorSecretFunc(userId, secretEncrypted)
	}
	return nil
}

func (m *Db) EnableTwoFactor(userId string) error {
	if m.EnableTwoFactorFunc != nil {
		return m.EnableTwoFactorFunc(userId)
	}
	return nil
}

func (m *Db) DisableTwoFactor(userId string) error {
	if m.DisableTwoFactorFunc != nil {
		return m.DisableTwoFactorFunc(userId)
	}
	return nil
}

// --- Implement DbToken ---

func (m *Db) CreateToken(token db.OneTimeToken) (*db.OneTimeToken, error) {
	if m.CreateTokenFunc != nil {
		return m.CreateTokenFunc(token)
	}
	token.ID = 1
	return &token, nil
}

func (m *Db) ConsumeToken(tokenType, tokenHash, userId string) (*db.OneTimeToken, error) {
	if m.ConsumeTokenFunc != nil {
		return m.ConsumeTokenFunc(tokenType, tokenHash, userId)
	}
	return nil, nil // Default: no live token
}

// --- Implement DbOauth2 ---

func (m *Db) GetOauth2Link(provider, providerAccountID string) (*db.OAuthLink, error) {
	if m.GetOauth2LinkFunc != nil {
		return m.GetOauth2LinkFunc(provider, providerAccountID)
	}
	return nil, nil // Default: no link
}

func (m *Db) CreateOauth2Link(link db.OAuthLink) error {
	if m.CreateOauth2LinkFunc != nil {
		return m.CreateOauth2LinkFunc(link)
	}
	return nil
}

// --- Implement DbQueue ---

func (m *Db) InsertJob(job db.Job) error {
	if m.InsertJobFunc != nil {
		return m.InsertJobFunc(job)
	}
	return nil
}

func (m *Db) Claim(limit int) ([]*db.Job, error) {
	if m.ClaimFunc != nil {
		return m.ClaimFunc(limit)
	}
	return []*db.Job{}, nil
}

func (m *Db) MarkCompleted(jobID int64) error {
	if m.MarkCompletedFunc != nil {
		return m.MarkCompletedFunc(jobID)
	}
	return nil
}

func (m *Db) MarkFailed(jobID int64, errMsg string) error {
	if m.MarkFailedFunc != nil {
		return m.MarkFailedFunc(jobID, errMsg)
	}
	return nil
}
