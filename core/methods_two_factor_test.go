package core

import (
	"errors"
	"strings"
	"testing"

	"github.com/credenzahq/credenza/crypto"
	"github.com/credenzahq/credenza/db"
	"github.com/credenzahq/credenza/db/mock"
)

func TestTwoFactorUnknownUser(t *testing.T) {
	app := newTestApp(t, &mock.Db{}, nil)

	if _, err := app.SetupTwoFactor("ghost"); !errors.Is(err, ErrNotFound) {
		t.Errorf("SetupTwoFactor() error = %v, want ErrNotFound", err)
	}
	if err := app.VerifyTwoFactor("ghost", "123456"); !errors.Is(err, ErrNotFound) {
		t.Errorf("VerifyTwoFactor() error = %v, want ErrNotFound", err)
	}
	if err := app.DisableTwoFactor("ghost", "123456"); !errors.Is(err, ErrNotFound) {
		t.Errorf("DisableTwoFactor() error = %v, want ErrNotFound", err)
	}
}

func TestSetupTwoFactorPersistsEncryptedSecret(t *testing.T) {
	var savedSecret string
	mockDb := &mock.Db{
		GetUserByIdFunc: func(id string) (*db.User, error) {
			return &db.User{ID: id, Email: "a@b.com"}, nil
		},
		SaveTwoFactorSecretFunc: func(userId string, secretEncrypted string) error {
			savedSecret = secretEncrypted
			return nil
		},
	}
	app := newTestApp(t, mockDb, nil)

	result, err := app.SetupTwoFactor("u1")
	if err != nil {
		t.Fatalf("SetupTwoFactor() error: %v", err)
	}
	if !strings.HasPrefix(result.OtpauthURL, "otpauth://totp/") {
		t.Errorf("otpauth url = %q", result.OtpauthURL)
	}
	if savedSecret == result.Secret {
		t.Error("secret persisted in plaintext")
	}

	plain, err := crypto.DecryptSecret(savedSecret, app.Config().TwoFactor.EncryptionKey)
	if err != nil {
		t.Fatalf("stored secret does not decrypt: %v", err)
	}
	if plain != result.Secret {
		t.Error("decrypted secret does not match the provisioned one")
	}
}

func TestVerifyTwoFactorNotConfigured(t *testing.T) {
	mockDb := &mock.Db{
		GetUserByIdFunc: func(id string) (*db.User, error) {
			return &db.User{ID: id}, nil // no secret stored
		},
	}
	app := newTestApp(t, mockDb, nil)

	if err := app.VerifyTwoFactor("u1", "123456"); !errors.Is(err, ErrNotConfigured) {
		t.Errorf("VerifyTwoFactor() error = %v, want ErrNotConfigured", err)
	}
}

func TestVerifyTwoFactorTamperedSecret(t *testing.T) {
	mockDb := &mock.Db{
		GetUserByIdFunc: func(id string) (*db.User, error) {
			return &db.User{ID: id, TwoFactorSecret: "aa.bb.cc"}, nil
		},
	}
	app := newTestApp(t, mockDb, nil)

	if err := app.VerifyTwoFactor("u1", "123456"); !errors.Is(err, ErrInvalidCode) {
		t.Errorf("VerifyTwoFactor() error = %v, want ErrInvalidCode", err)
	}
}
