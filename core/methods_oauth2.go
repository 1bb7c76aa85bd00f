package core

import (
	"errors"
	"fmt"

	"github.com/credenzahq/credenza/db"
	"github.com/credenzahq/credenza/oauth2"
)

// LinkOrCreate resolves an external provider profile to a local account.
// Resolution order: existing link, then case-folded email merge, then a new
// account. The email merge deliberately attaches a new login method to an
// existing local account with the same verified address instead of creating
// a duplicate.
func (a *App) LinkOrCreate(profile *oauth2.ExternalProfile) (*db.User, error) {
	link, err := a.dbOauth2.GetOauth2Link(profile.Provider, profile.ProviderAccountID)
	if err != nil {
		return nil, fmt.Errorf("looking up oauth link: %w", err)
	}
	if link != nil {
		user, err := a.dbAuth.GetUserById(link.UserID)
		if err != nil {
			return nil, fmt.Errorf("looking up linked user: %w", err)
		}
		if user == nil {
			return nil, ErrNotFound
		}
		a.refreshSocialAvatar(user, profile)
		return user, nil
	}

	user, err := a.resolveOauth2User(profile)
	if err != nil {
		return nil, err
	}
	a.refreshSocialAvatar(user, profile)

	err = a.dbOauth2.CreateOauth2Link(db.OAuthLink{
		UserID:            user.ID,
		Provider:          profile.Provider,
		ProviderAccountID: profile.ProviderAccountID,
		AccessToken:       profile.AccessToken,
		RefreshToken:      profile.RefreshToken,
	})
	if err != nil {
		// A concurrent login for the same external account won the insert;
		// its link is authoritative.
		if errors.Is(err, db.ErrConstraintUnique) {
			winner, lookupErr := a.dbOauth2.GetOauth2Link(profile.Provider, profile.ProviderAccountID)
			if lookupErr != nil || winner == nil {
				return nil, fmt.Errorf("re-reading oauth link after conflict: %w", lookupErr)
			}
			return a.userByID(winner.UserID)
		}
		return nil, fmt.Errorf("creating oauth link: %w", err)
	}
	return user, nil
}

// resolveOauth2User finds the account to link: by email merge when the
// provider asserted one, otherwise a brand-new user. The email unique
// constraint arbitrates concurrent creates.
func (a *App) resolveOauth2User(profile *oauth2.ExternalProfile) (*db.User, error) {
	email := normalizeEmail(profile.Email)

	if email != "" {
		existing, err := a.dbAuth.GetUserByEmail(email)
		if err != nil {
			return nil, fmt.Errorf("looking up user by email: %w", err)
		}
		if existing != nil {
			return existing, nil
		}
	}

	user, err := a.dbAuth.CreateUserWithOauth2(db.User{
		Email:        email,
		Name:         profile.Name,
		Avatar:       profile.AvatarURL,
		AvatarSource: db.AvatarSourceSocial,
	})
	if err != nil {
		if errors.Is(err, db.ErrConstraintUnique) && email != "" {
			winner, lookupErr := a.dbAuth.GetUserByEmail(email)
			if lookupErr != nil || winner == nil {
				return nil, fmt.Errorf("re-reading user after conflict: %w", lookupErr)
			}
			return winner, nil
		}
		return nil, fmt.Errorf("creating oauth user: %w", err)
	}
	return user, nil
}

// refreshSocialAvatar mirrors the provider picture onto the account unless
// the user uploaded their own. Login must not break over an avatar, so
// failures only log.
func (a *App) refreshSocialAvatar(user *db.User, profile *oauth2.ExternalProfile) {
	if profile.AvatarURL == "" || profile.AvatarURL == user.Avatar {
		return
	}
	if user.Avatar != "" && user.AvatarSource != db.AvatarSourceSocial {
		return
	}
	if err := a.dbAuth.UpdateSocialAvatar(user.ID, profile.AvatarURL); err != nil {
		a.logger.Error("updating social avatar", "err", err)
		return
	}
	user.Avatar = profile.AvatarURL
	user.AvatarSource = db.AvatarSourceSocial
}

// ValidateOAuthLogin resolves the profile to an account and mints a token
// pair for it.
func (a *App) ValidateOAuthLogin(profile *oauth2.ExternalProfile) (*TokenPair, error) {
	user, err := a.LinkOrCreate(profile)
	if err != nil {
		return nil, err
	}
	return a.IssueTokens(user)
}
