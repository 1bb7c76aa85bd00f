package crypto

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var testSigningKey = []byte("test_secret_32_bytes_long_xxxxxx")

func TestCreateAndParseAccessToken(t *testing.T) {
	tokenString, expiry, err := NewAccessToken("user123", "alice@example.com", "Alice", []string{"user"}, testSigningKey, 15*time.Minute)
	if err != nil {
		t.Fatalf("NewAccessToken() error = %v", err)
	}
	if time.Until(expiry) <= 0 {
		t.Error("expiry is not in the future")
	}

	claims, err := ParseAccessToken(tokenString, testSigningKey)
	if err != nil {
		t.Fatalf("ParseAccessToken() error = %v", err)
	}
	if claims.Subject != "user123" {
		t.Errorf("sub = %q, want %q", claims.Subject, "user123")
	}
	if claims.Email != "alice@example.com" {
		t.Errorf("email = %q, want %q", claims.Email, "alice@example.com")
	}
	if len(claims.Roles) != 1 || claims.Roles[0] != "user" {
		t.Errorf("roles = %v, want [user]", claims.Roles)
	}
}

func TestCreateAndParseRefreshToken(t *testing.T) {
	tokenString, _, err := NewRefreshToken("user123", testSigningKey, 30*24*time.Hour)
	if err != nil {
		t.Fatalf("NewRefreshToken() error = %v", err)
	}

	claims, err := ParseRefreshToken(tokenString, testSigningKey)
	if err != nil {
		t.Fatalf("ParseRefreshToken() error = %v", err)
	}
	if claims.Subject != "user123" {
		t.Errorf("sub = %q, want %q", claims.Subject, "user123")
	}
}

func TestAccessTokenNotValidAsRefreshKey(t *testing.T) {
	// Tokens signed with the access secret must not verify against the
	// refresh secret.
	otherKey := []byte("other_secret_32_bytes_long_yyyyy")
	tokenString, _, err := NewAccessToken("user123", "", "", nil, testSigningKey, time.Minute)
	if err != nil {
		t.Fatalf("NewAccessToken() error = %v", err)
	}

	if _, err := ParseRefreshToken(tokenString, otherKey); err == nil {
		t.Error("ParseRefreshToken() with wrong key succeeded, want error")
	}
}

func TestParseInvalidTokens(t *testing.T) {
	expired, _, err := NewRefreshToken("user123", testSigningKey, -time.Minute)
	if err != nil {
		t.Fatalf("NewRefreshToken() error = %v", err)
	}

	noneToken, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Subject:   "user123",
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("signing none token: %v", err)
	}

	valid, _, err := NewRefreshToken("user123", testSigningKey, time.Minute)
	if err != nil {
		t.Fatalf("NewRefreshToken() error = %v", err)
	}

	testCases := []struct {
		name        string
		tokenString string
		key         []byte
		wantError   error
	}{
		{"expired token", expired, testSigningKey, ErrJwtTokenExpired},
		{"wrong key", valid, []byte("wrong_secret_32_bytes_long_zzzzz"), ErrJwtInvalidSigningMethod},
		{"none algorithm", noneToken, testSigningKey, ErrJwtInvalidSigningMethod},
		{"malformed token", "malformed.token.string", testSigningKey, ErrJwtInvalidToken},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseRefreshToken(tc.tokenString, tc.key)
			if !errors.Is(err, tc.wantError) {
				t.Errorf("error = %v, want %v", err, tc.wantError)
			}
		})
	}
}

func TestShortSigningKeyRejected(t *testing.T) {
	if _, _, err := NewAccessToken("user123", "", "", nil, []byte("short"), time.Minute); !errors.Is(err, ErrJwtInvalidSecretLength) {
		t.Errorf("NewAccessToken() error = %v, want ErrJwtInvalidSecretLength", err)
	}
	if _, _, err := NewRefreshToken("user123", []byte("short"), time.Minute); !errors.Is(err, ErrJwtInvalidSecretLength) {
		t.Errorf("NewRefreshToken() error = %v, want ErrJwtInvalidSecretLength", err)
	}
}
