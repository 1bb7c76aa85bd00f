package config

import (
	"time"

	"github.com/credenzahq/credenza/crypto"
)

// NewDefaultConfig creates a new Config with sensible defaults.
// All secret values are randomly generated.
func NewDefaultConfig() *Config {
	return &Config{
		App: App{
			Env:     EnvDevelopment,
			BaseURL: "http://localhost:8080",
		},
		Jwt: Jwt{
			AccessSecret:         crypto.RandomString(32, crypto.AlphanumericAlphabet),
			AccessTokenDuration:  Duration{Duration: 15 * time.Minute},
			RefreshSecret:        crypto.RandomString(32, crypto.AlphanumericAlphabet),
			RefreshTokenDuration: Duration{Duration: 30 * 24 * time.Hour},
		},
		Auth: Auth{
			BcryptCost:            12,
			PasswordResetTokenTTL: Duration{Duration: 15 * time.Minute},
			EmailOtpTTL:           Duration{Duration: 30 * time.Minute},
			ResetTokenBytes:       32,
			OtpDigits:             6,
		},
		TwoFactor: TwoFactor{
			Issuer:        "Credenza",
			Period:        30,
			Digits:        6,
			Skew:          1,
			EncryptionKey: crypto.RandomString(32, crypto.AlphanumericAlphabet),
		},
		OAuth2Providers: map[string]OAuth2Provider{
			OAuth2ProviderGoogle: {
				Name:        OAuth2ProviderGoogle,
				DisplayName: "Google",
				AuthURL:     "https://accounts.google.com/o/oauth2/auth",
				TokenURL:    "https://oauth2.googleapis.com/token",
				UserInfoURL: "https://www.googleapis.com/oauth2/v3/userinfo",
				Scopes:      []string{"openid", "email", "profile"},
			},
			OAuth2ProviderFacebook: {
				Name:        OAuth2ProviderFacebook,
				DisplayName: "Facebook",
				AuthURL:     "https://www.facebook.com/v18.0/dialog/oauth",
				TokenURL:    "https://graph.facebook.com/v18.0/oauth/access_token",
				UserInfoURL: "https://graph.facebook.com/me?fields=id,name,email,picture",
				Scopes:      []string{"email", "public_profile"},
			},
		},
		Scheduler: Scheduler{
			Interval:       Duration{Duration: 15 * time.Second},
			MaxJobsPerTick: 10,
		},
		Server: Server{
			Addr:                    ":8080",
			ShutdownGracefulTimeout: Duration{Duration: 15 * time.Second},
			ReadTimeout:             Duration{Duration: 2 * time.Second},
			ReadHeaderTimeout:       Duration{Duration: 2 * time.Second},
			WriteTimeout:            Duration{Duration: 3 * time.Second},
			IdleTimeout:             Duration{Duration: 1 * time.Minute},
		},
		DBFile: "credenza.db",
	}
}
