package core

import (
	"errors"
	"testing"
	"time"

	"github.com/credenzahq/credenza/crypto"
	"github.com/credenzahq/credenza/db"
	"github.com/credenzahq/credenza/db/mock"
)

func TestRequestEmailOtpDigitsAndStorage(t *testing.T) {
	var stored db.OneTimeToken
	mockDb := &mock.Db{
		GetUserByEmailFunc: func(email string) (*db.User, error) {
			return &db.User{ID: "u1", Email: email}, nil
		},
		CreateTokenFunc: func(token db.OneTimeToken) (*db.OneTimeToken, error) {
			stored = token
			token.ID = 1
			return &token, nil
		},
	}
	app := newTestApp(t, mockDb, nil)

	otp, err := app.RequestEmailOtp("a@b.com")
	if err != nil {
		t.Fatalf("RequestEmailOtp() error: %v", err)
	}
	if len(otp) != app.Config().Auth.OtpDigits {
		t.Errorf("otp %q has %d digits, want %d", otp, len(otp), app.Config().Auth.OtpDigits)
	}
	for _, r := range otp {
		if r < '0' || r > '9' {
			t.Errorf("otp %q contains non-digit %q", otp, r)
		}
	}
	if stored.Type != db.TokenTypeEmailVerify {
		t.Errorf("stored type = %q", stored.Type)
	}
	if stored.TokenHash != crypto.HashToken(otp) {
		t.Error("stored hash does not match the disclosed otp")
	}
}

func TestRequestEmailOtpAlreadyVerified(t *testing.T) {
	mockDb := &mock.Db{
		GetUserByEmailFunc: func(email string) (*db.User, error) {
			return &db.User{ID: "u1", Email: email, VerifiedAt: time.Now()}, nil
		},
		CreateTokenFunc: func(token db.OneTimeToken) (*db.OneTimeToken, error) {
			t.Error("no otp should be issued for a verified account")
			return &token, nil
		},
	}
	app := newTestApp(t, mockDb, nil)

	otp, err := app.RequestEmailOtp("a@b.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if otp != "" {
		t.Errorf("otp = %q, want empty", otp)
	}
}

func TestVerifyEmailOtpScopedToUser(t *testing.T) {
	var verifiedUser, consumeScope string
	mockDb := &mock.Db{
		GetUserByEmailFunc: func(email string) (*db.User, error) {
			return &db.User{ID: "u1", Email: email}, nil
		},
		ConsumeTokenFunc: func(tokenType, tokenHash, userId string) (*db.OneTimeToken, error) {
			consumeScope = userId
			if tokenHash == crypto.HashToken("123456") {
				return &db.OneTimeToken{ID: 1, UserID: userId, Type: tokenType}, nil
			}
			return nil, nil
		},
		VerifyEmailFunc: func(userId string) error {
			verifiedUser = userId
			return nil
		},
	}
	app := newTestApp(t, mockDb, nil)

	if err := app.VerifyEmailOtp("a@b.com", "123456"); err != nil {
		t.Fatalf("VerifyEmailOtp() error: %v", err)
	}
	if consumeScope != "u1" {
		t.Errorf("consume scoped to %q, want u1", consumeScope)
	}
	if verifiedUser != "u1" {
		t.Errorf("VerifyEmail called with %q", verifiedUser)
	}

	if err := app.VerifyEmailOtp("a@b.com", "654321"); !errors.Is(err, ErrInvalidOrExpiredToken) {
		t.Errorf("wrong otp error = %v, want ErrInvalidOrExpiredToken", err)
	}
}

func TestVerifyEmailOtpUnknownUser(t *testing.T) {
	app := newTestApp(t, &mock.Db{}, nil)
	if err := app.VerifyEmailOtp("ghost@example.com", "123456"); !errors.Is(err, ErrInvalidOrExpiredToken) {
		t.Errorf("error = %v, want ErrInvalidOrExpiredToken", err)
	}
}
