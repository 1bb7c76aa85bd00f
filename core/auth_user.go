package core

import "github.com/credenzahq/credenza/db"

// AuthUser is the sanitized user view. It is the only user shape that
// leaves the orchestrator: no password hash, no encrypted secrets.
type AuthUser struct {
	ID               string   `json:"id"`
	Email            string   `json:"email"`
	Name             string   `json:"name"`
	Roles            []string `json:"roles"`
	Avatar           string   `json:"avatar,omitempty"`
	Verified         bool     `json:"verified"`
	TwoFactorEnabled bool     `json:"two_factor_enabled"`
}

// NewAuthUser narrows a persisted record to the sanitized view.
func NewAuthUser(user *db.User) AuthUser {
	return AuthUser{
		ID:               user.ID,
		Email:            user.Email,
		Name:             user.Name,
		Roles:            user.Roles,
		Avatar:           user.Avatar,
		Verified:         user.Verified(),
		TwoFactorEnabled: user.TwoFactorEnabled(),
	}
}
