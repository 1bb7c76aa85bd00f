package config

import (
	"time"
)

// Environment names. Anything other than production is treated as a
// development environment for the disclosure policy.
const (
	EnvProduction  = "production"
	EnvDevelopment = "development"
)

// OAuth2 provider names understood by the profile adapters.
const (
	OAuth2ProviderGoogle   = "google"
	OAuth2ProviderFacebook = "facebook"
)

// Duration wraps time.Duration so it can be written as "15m" in TOML.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = parsed
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Config is the application wide configuration. It is constructed once at
// process start and handed to each component; no component reads ambient
// environment state directly.
type Config struct {
	App             App                       `toml:"app"`
	Jwt             Jwt                       `toml:"jwt"`
	Auth            Auth                      `toml:"auth"`
	TwoFactor       TwoFactor                 `toml:"two_factor"`
	OAuth2Providers map[string]OAuth2Provider `toml:"oauth2_providers"`
	Smtp            Smtp                      `toml:"smtp"`
	Scheduler       Scheduler                 `toml:"scheduler"`
	Server          Server                    `toml:"server"`
	DBFile          string                    `toml:"db_file"`
}

type App struct {
	// Env selects the disclosure policy: in production, reset tokens and
	// OTPs are only ever delivered out of band.
	Env     string `toml:"env"`
	BaseURL string `toml:"base_url"`
}

// IsProduction reports whether the production disclosure policy applies.
func (a App) IsProduction() bool {
	return a.Env == EnvProduction
}

type Jwt struct {
	AccessSecret         string   `toml:"access_secret"`
	AccessTokenDuration  Duration `toml:"access_token_duration"`
	RefreshSecret        string   `toml:"refresh_secret"`
	RefreshTokenDuration Duration `toml:"refresh_token_duration"`
}

type Auth struct {
	BcryptCost           int      `toml:"bcrypt_cost"`
	PasswordResetTokenTTL Duration `toml:"password_reset_token_ttl"`
	EmailOtpTTL          Duration `toml:"email_otp_ttl"`
	ResetTokenBytes      int      `toml:"reset_token_bytes"`
	OtpDigits            int      `toml:"otp_digits"`
}

type TwoFactor struct {
	Issuer        string `toml:"issuer"`
	Period        uint   `toml:"period"`
	Digits        int    `toml:"digits"`
	Skew          uint   `toml:"skew"`
	EncryptionKey string `toml:"encryption_key"`
}

type OAuth2Provider struct {
	Name         string   `toml:"name"`
	DisplayName  string   `toml:"display_name"`
	ClientID     string   `toml:"client_id"`
	ClientSecret string   `toml:"client_secret"`
	RedirectURL  string   `toml:"redirect_url"`
	AuthURL      string   `toml:"auth_url"`
	TokenURL     string   `toml:"token_url"`
	UserInfoURL  string   `toml:"user_info_url"`
	Scopes       []string `toml:"scopes"`
}

type Smtp struct {
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	Username string `toml:"username"`
	Password string `toml:"password"`
	From     string `toml:"from"`
}

// Enabled reports whether SMTP delivery is configured at all. Without it the
// mail queue handlers are simply not registered.
func (s Smtp) Enabled() bool {
	return s.Host != ""
}

type Scheduler struct {
	Interval       Duration `toml:"interval"`
	MaxJobsPerTick int      `toml:"max_jobs_per_tick"`
}

type Server struct {
	Addr                    string   `toml:"addr"`
	ShutdownGracefulTimeout Duration `toml:"shutdown_graceful_timeout"`
	ReadTimeout             Duration `toml:"read_timeout"`
	ReadHeaderTimeout       Duration `toml:"read_header_timeout"`
	WriteTimeout            Duration `toml:"write_timeout"`
	IdleTimeout             Duration `toml:"idle_timeout"`
}
