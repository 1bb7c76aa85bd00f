package crypto

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	// MinKeyLength is the minimum required length for JWT signing keys.
	// 32 bytes (256 bits) is the minimum recommended length for HMAC-SHA256
	// keys to provide sufficient security against brute force attacks.
	MinKeyLength = 32
)

var (
	// ErrJwtTokenExpired is returned when the token has expired
	ErrJwtTokenExpired = errors.New("token expired")
	// ErrJwtInvalidToken is returned when the token is invalid
	ErrJwtInvalidToken = errors.New("invalid token")
	// ErrJwtInvalidSigningMethod is returned when the signing method is not HS256
	ErrJwtInvalidSigningMethod = errors.New("unexpected signing method")
	// ErrJwtInvalidSecretLength is returned for invalid secret lengths
	ErrJwtInvalidSecretLength = errors.New("invalid secret length")
)

// AccessClaims is the payload of access tokens: the sanitized user identity.
// The rest of the persisted record (password hash, encrypted secrets) never
// reaches a token payload.
type AccessClaims struct {
	Email string   `json:"email"`
	Name  string   `json:"name"`
	Roles []string `json:"roles"`
	jwt.RegisteredClaims
}

// RefreshClaims is the payload of refresh tokens. Only the subject; refresh
// tokens keep a minimal surface and are signed with a distinct secret.
type RefreshClaims struct {
	jwt.RegisteredClaims
}

// NewAccessToken signs an access token for the given identity.
func NewAccessToken(sub, email, name string, roles []string, signingKey []byte, duration time.Duration) (string, time.Time, error) {
	if len(signingKey) < MinKeyLength {
		return "", time.Time{}, ErrJwtInvalidSecretLength
	}
	if roles == nil {
		roles = []string{}
	}

	now := time.Now()
	expirationTime := now.Add(duration)
	claims := AccessClaims{
		Email: email,
		Name:  name,
		Roles: roles,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sub,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expirationTime),
		},
	}

	tokenString, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(signingKey)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return tokenString, expirationTime, nil
}

// NewRefreshToken signs a refresh token carrying only the subject.
func NewRefreshToken(sub string, signingKey []byte, duration time.Duration) (string, time.Time, error) {
	if len(signingKey) < MinKeyLength {
		return "", time.Time{}, ErrJwtInvalidSecretLength
	}

	now := time.Now()
	expirationTime := now.Add(duration)
	claims := RefreshClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sub,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expirationTime),
		},
	}

	tokenString, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(signingKey)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return tokenString, expirationTime, nil
}

// ParseAccessToken verifies an access token and returns its claims.
func ParseAccessToken(token string, verificationKey []byte) (*AccessClaims, error) {
	claims := &AccessClaims{}
	if err := parseInto(token, claims, verificationKey); err != nil {
		return nil, err
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing sub claim", ErrJwtInvalidToken)
	}
	return claims, nil
}

// ParseRefreshToken verifies a refresh token and returns its claims.
func ParseRefreshToken(token string, verificationKey []byte) (*RefreshClaims, error) {
	claims := &RefreshClaims{}
	if err := parseInto(token, claims, verificationKey); err != nil {
		return nil, err
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing sub claim", ErrJwtInvalidToken)
	}
	return claims, nil
}

func parseInto(token string, claims jwt.Claims, verificationKey []byte) error {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
	)

	parsedToken, err := parser.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return verificationKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return ErrJwtTokenExpired
		}
		if errors.Is(err, jwt.ErrTokenSignatureInvalid) {
			return ErrJwtInvalidSigningMethod
		}
		return fmt.Errorf("%w: %w", ErrJwtInvalidToken, err)
	}
	if !parsedToken.Valid {
		return ErrJwtInvalidToken
	}
	return nil
}
