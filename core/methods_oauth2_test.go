package core

import (
	"errors"
	"testing"

	"github.com/credenzahq/credenza/db"
	"github.com/credenzahq/credenza/db/mock"
	"github.com/credenzahq/credenza/oauth2"
)

func TestLinkOrCreateExistingLink(t *testing.T) {
	mockDb := &mock.Db{
		GetOauth2LinkFunc: func(provider, providerAccountID string) (*db.OAuthLink, error) {
			if provider == "google" && providerAccountID == "g-1" {
				return &db.OAuthLink{UserID: "u1", Provider: provider, ProviderAccountID: providerAccountID}, nil
			}
			return nil, nil
		},
		GetUserByIdFunc: func(id string) (*db.User, error) {
			return &db.User{ID: id, Email: "a@b.com"}, nil
		},
		CreateUserWithOauth2Func: func(user db.User) (*db.User, error) {
			t.Error("no user should be created when the link exists")
			return &user, nil
		},
		CreateOauth2LinkFunc: func(link db.OAuthLink) error {
			t.Error("no link should be created when the link exists")
			return nil
		},
	}
	app := newTestApp(t, mockDb, nil)

	user, err := app.LinkOrCreate(&oauth2.ExternalProfile{Provider: "google", ProviderAccountID: "g-1"})
	if err != nil {
		t.Fatalf("LinkOrCreate() error: %v", err)
	}
	if user.ID != "u1" {
		t.Errorf("user.ID = %q, want u1", user.ID)
	}
}

func TestLinkOrCreateEmailMerge(t *testing.T) {
	var createdLink db.OAuthLink
	mockDb := &mock.Db{
		GetUserByEmailFunc: func(email string) (*db.User, error) {
			if email == "ada@example.com" {
				return &db.User{ID: "local-1", Email: email, Password: "hash"}, nil
			}
			return nil, nil
		},
		CreateUserWithOauth2Func: func(user db.User) (*db.User, error) {
			t.Error("merge must not create a duplicate user")
			return &user, nil
		},
		CreateOauth2LinkFunc: func(link db.OAuthLink) error {
			createdLink = link
			return nil
		},
	}
	app := newTestApp(t, mockDb, nil)

	// The provider spells the email differently; the merge is case-folded.
	user, err := app.LinkOrCreate(&oauth2.ExternalProfile{
		Provider:          "facebook",
		ProviderAccountID: "fb-1",
		Email:             "Ada@Example.com",
	})
	if err != nil {
		t.Fatalf("LinkOrCreate() error: %v", err)
	}
	if user.ID != "local-1" {
		t.Errorf("merged user = %q, want local-1", user.ID)
	}
	if createdLink.UserID != "local-1" {
		t.Errorf("link points at %q, want local-1", createdLink.UserID)
	}
}

func TestLinkOrCreateNewUser(t *testing.T) {
	var createdUser db.User
	mockDb := &mock.Db{
		CreateUserWithOauth2Func: func(user db.User) (*db.User, error) {
			createdUser = user
			user.ID = "new-1"
			return &user, nil
		},
	}
	app := newTestApp(t, mockDb, nil)

	user, err := app.LinkOrCreate(&oauth2.ExternalProfile{
		Provider:          "google",
		ProviderAccountID: "g-9",
		Email:             "new@example.com",
		Name:              "New User",
		AvatarURL:         "https://example.com/pic.png",
	})
	if err != nil {
		t.Fatalf("LinkOrCreate() error: %v", err)
	}
	if user.ID != "new-1" {
		t.Errorf("user.ID = %q", user.ID)
	}
	if createdUser.Password != "" {
		t.Error("oauth user must have no password hash")
	}
	if createdUser.AvatarSource != db.AvatarSourceSocial {
		t.Errorf("avatar source = %q", createdUser.AvatarSource)
	}
}

func TestLinkOrCreateConcurrentLinkConflict(t *testing.T) {
	lookups := 0
	mockDb := &mock.Db{
		GetOauth2LinkFunc: func(provider, providerAccountID string) (*db.OAuthLink, error) {
			lookups++
			if lookups == 1 {
				return nil, nil // first check: no link yet
			}
			return &db.OAuthLink{UserID: "winner", Provider: provider, ProviderAccountID: providerAccountID}, nil
		},
		CreateUserWithOauth2Func: func(user db.User) (*db.User, error) {
			user.ID = "loser"
			return &user, nil
		},
		CreateOauth2LinkFunc: func(link db.OAuthLink) error {
			return db.ErrConstraintUnique
		},
		GetUserByIdFunc: func(id string) (*db.User, error) {
			return &db.User{ID: id}, nil
		},
	}
	app := newTestApp(t, mockDb, nil)

	user, err := app.LinkOrCreate(&oauth2.ExternalProfile{Provider: "google", ProviderAccountID: "g-1"})
	if err != nil {
		t.Fatalf("LinkOrCreate() error: %v", err)
	}
	if user.ID != "winner" {
		t.Errorf("user.ID = %q, want the concurrent winner", user.ID)
	}
}

func TestLinkOrCreateConcurrentEmailConflict(t *testing.T) {
	lookups := 0
	mockDb := &mock.Db{
		GetUserByEmailFunc: func(email string) (*db.User, error) {
			lookups++
			if lookups == 1 {
				return nil, nil // passed the existence check
			}
			return &db.User{ID: "winner", Email: email}, nil
		},
		CreateUserWithOauth2Func: func(user db.User) (*db.User, error) {
			return nil, db.ErrConstraintUnique
		},
	}
	app := newTestApp(t, mockDb, nil)

	user, err := app.LinkOrCreate(&oauth2.ExternalProfile{
		Provider:          "google",
		ProviderAccountID: "g-1",
		Email:             "race@example.com",
	})
	if err != nil {
		t.Fatalf("LinkOrCreate() error: %v", err)
	}
	if user.ID != "winner" {
		t.Errorf("user.ID = %q, want the concurrent winner", user.ID)
	}
}

func TestRefreshSocialAvatar(t *testing.T) {
	testCases := []struct {
		name       string
		existing   db.User
		avatarURL  string
		wantUpdate bool
	}{
		{
			name:       "absent avatar is filled",
			existing:   db.User{ID: "u1"},
			avatarURL:  "https://cdn/p1.png",
			wantUpdate: true,
		},
		{
			name:       "social avatar is refreshed",
			existing:   db.User{ID: "u1", Avatar: "https://cdn/old.png", AvatarSource: db.AvatarSourceSocial},
			avatarURL:  "https://cdn/new.png",
			wantUpdate: true,
		},
		{
			name:       "uploaded avatar is kept",
			existing:   db.User{ID: "u1", Avatar: "https://cdn/mine.png", AvatarSource: db.AvatarSourceUpload},
			avatarURL:  "https://cdn/new.png",
			wantUpdate: false,
		},
		{
			name:       "same url is a no-op",
			existing:   db.User{ID: "u1", Avatar: "https://cdn/p1.png", AvatarSource: db.AvatarSourceSocial},
			avatarURL:  "https://cdn/p1.png",
			wantUpdate: false,
		},
		{
			name:       "profile without picture",
			existing:   db.User{ID: "u1"},
			avatarURL:  "",
			wantUpdate: false,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			updated := false
			existing := tc.existing
			mockDb := &mock.Db{
				GetOauth2LinkFunc: func(provider, providerAccountID string) (*db.OAuthLink, error) {
					return &db.OAuthLink{UserID: existing.ID}, nil
				},
				GetUserByIdFunc: func(id string) (*db.User, error) {
					return &existing, nil
				},
				UpdateSocialAvatarFunc: func(userId, avatar string) error {
					updated = true
					return nil
				},
			}
			app := newTestApp(t, mockDb, nil)

			user, err := app.LinkOrCreate(&oauth2.ExternalProfile{
				Provider:          "google",
				ProviderAccountID: "g-1",
				AvatarURL:         tc.avatarURL,
			})
			if err != nil {
				t.Fatalf("LinkOrCreate() error: %v", err)
			}
			if updated != tc.wantUpdate {
				t.Errorf("update happened = %v, want %v", updated, tc.wantUpdate)
			}
			if tc.wantUpdate && user.Avatar != tc.avatarURL {
				t.Errorf("user.Avatar = %q, want %q", user.Avatar, tc.avatarURL)
			}
		})
	}
}

func TestLinkOrCreateDanglingLink(t *testing.T) {
	mockDb := &mock.Db{
		GetOauth2LinkFunc: func(provider, providerAccountID string) (*db.OAuthLink, error) {
			return &db.OAuthLink{UserID: "gone"}, nil
		},
	}
	app := newTestApp(t, mockDb, nil)

	if _, err := app.LinkOrCreate(&oauth2.ExternalProfile{Provider: "google", ProviderAccountID: "g-1"}); !errors.Is(err, ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}
