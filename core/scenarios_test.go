package core

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/credenzahq/credenza/config"
	"github.com/credenzahq/credenza/crypto"
	"github.com/credenzahq/credenza/db/zombiezen"
	"github.com/credenzahq/credenza/migrations"
	"github.com/credenzahq/credenza/oauth2"
	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
	"zombiezen.com/go/sqlite/sqlitex"
)

var scenarioDBCounter atomic.Int64

func newScenarioApp(t *testing.T, mutate func(*config.Config)) *App {
	t.Helper()

	uri := fmt.Sprintf("file:scenario%d?mode=memory&cache=shared", scenarioDBCounter.Add(1))
	pool, err := sqlitex.NewPool(uri, sqlitex.PoolOptions{PoolSize: 1})
	if err != nil {
		t.Fatalf("failed to create db pool: %v", err)
	}
	t.Cleanup(func() {
		if err := pool.Close(); err != nil {
			t.Errorf("failed to close db pool: %v", err)
		}
	})

	conn, err := pool.Take(context.Background())
	if err != nil {
		t.Fatalf("failed to get db connection: %v", err)
	}
	if err := zombiezen.ApplyMigrations(conn, migrations.Schema()); err != nil {
		pool.Put(conn)
		t.Fatalf("failed to apply migrations: %v", err)
	}
	pool.Put(conn)

	store, err := zombiezen.New(pool)
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	return newTestApp(t, store, mutate)
}

// Register, login with the right and the wrong password.
func TestScenarioRegisterAndLogin(t *testing.T) {
	app := newScenarioApp(t, nil)

	alice, err := app.Register("alice@example.com", "Secret123!", "Alice")
	if err != nil {
		t.Fatalf("Register() error: %v", err)
	}

	result, err := app.Login("alice@example.com", "Secret123!", "")
	if err != nil {
		t.Fatalf("Login() error: %v", err)
	}
	if result.RequiresTwoFactor {
		t.Fatal("unexpected second factor challenge")
	}

	claims, err := crypto.ParseAccessToken(result.Pair.AccessToken, []byte(app.Config().Jwt.AccessSecret))
	if err != nil {
		t.Fatalf("access token does not verify: %v", err)
	}
	if claims.Subject != alice.ID {
		t.Errorf("sub = %q, want %q", claims.Subject, alice.ID)
	}

	if _, err := app.Login("alice@example.com", "wrong-password", ""); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("wrong password error = %v, want ErrUnauthorized", err)
	}
}

// Reset request discloses nothing in production and the token spends once.
func TestScenarioPasswordReset(t *testing.T) {
	app := newScenarioApp(t, nil)

	if _, err := app.Register("bob@example.com", "OldSecret1!", "Bob"); err != nil {
		t.Fatal(err)
	}

	// Production: existing and non-existing accounts are indistinguishable.
	prodCfg := *app.Config()
	prodCfg.App.Env = config.EnvProduction
	app.ConfigProvider().Update(&prodCfg)

	forGhost, err := app.RequestPasswordReset("ghost@example.com")
	if err != nil {
		t.Fatal(err)
	}
	forBob, err := app.RequestPasswordReset("bob@example.com")
	if err != nil {
		t.Fatal(err)
	}
	if forGhost != "" || forBob != "" {
		t.Errorf("production disclosed tokens: %q %q", forGhost, forBob)
	}

	// Development: the token comes back and works exactly once.
	devCfg := prodCfg
	devCfg.App.Env = config.EnvDevelopment
	app.ConfigProvider().Update(&devCfg)

	token, err := app.RequestPasswordReset("bob@example.com")
	if err != nil {
		t.Fatal(err)
	}
	if token == "" {
		t.Fatal("development mode did not disclose the token")
	}

	if err := app.ResetPassword(token, "NewSecret1!"); err != nil {
		t.Fatalf("ResetPassword() error: %v", err)
	}
	if err := app.ResetPassword(token, "Another1!"); !errors.Is(err, ErrInvalidOrExpiredToken) {
		t.Errorf("second spend error = %v, want ErrInvalidOrExpiredToken", err)
	}

	if _, err := app.Login("bob@example.com", "OldSecret1!", ""); !errors.Is(err, ErrUnauthorized) {
		t.Error("old password still valid after reset")
	}
	if _, err := app.Login("bob@example.com", "NewSecret1!", ""); err != nil {
		t.Errorf("new password rejected: %v", err)
	}
}

// Full second factor lifecycle: setup, enable, login challenge, disable.
func TestScenarioTwoFactorLifecycle(t *testing.T) {
	app := newScenarioApp(t, nil)

	carol, err := app.Register("carol@example.com", "Secret123!", "Carol")
	if err != nil {
		t.Fatal(err)
	}

	setup, err := app.SetupTwoFactor(carol.ID)
	if err != nil {
		t.Fatalf("SetupTwoFactor() error: %v", err)
	}
	if setup.Secret == "" {
		t.Fatal("no secret returned")
	}

	// Pending secret does not challenge logins yet.
	result, err := app.Login("carol@example.com", "Secret123!", "")
	if err != nil {
		t.Fatal(err)
	}
	if result.RequiresTwoFactor {
		t.Error("pending secret must not require a code")
	}

	code := currentCode(t, app, setup.Secret, time.Now())
	if err := app.VerifyTwoFactor(carol.ID, code); err != nil {
		t.Fatalf("VerifyTwoFactor() error: %v", err)
	}

	// Enabled: login without a code is challenged, with a code succeeds.
	result, err = app.Login("carol@example.com", "Secret123!", "")
	if err != nil {
		t.Fatal(err)
	}
	if !result.RequiresTwoFactor {
		t.Error("enabled second factor not challenged at login")
	}

	code = currentCode(t, app, setup.Secret, time.Now())
	result, err = app.Login("carol@example.com", "Secret123!", code)
	if err != nil {
		t.Fatalf("Login() with code error: %v", err)
	}
	if result.Pair == nil {
		t.Fatal("no pair after valid code")
	}

	// A code from 10 steps away must not disable the factor.
	period := time.Duration(app.Config().TwoFactor.Period) * time.Second
	stale := currentCode(t, app, setup.Secret, time.Now().Add(-10*period))
	if err := app.DisableTwoFactor(carol.ID, stale); !errors.Is(err, ErrInvalidCode) {
		t.Errorf("stale code disable error = %v, want ErrInvalidCode", err)
	}

	user, err := app.DbAuth().GetUserById(carol.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !user.TwoFactorEnabled() {
		t.Fatal("failed disable attempt changed the enabled state")
	}

	code = currentCode(t, app, setup.Secret, time.Now())
	if err := app.DisableTwoFactor(carol.ID, code); err != nil {
		t.Fatalf("DisableTwoFactor() error: %v", err)
	}
	user, err = app.DbAuth().GetUserById(carol.ID)
	if err != nil {
		t.Fatal(err)
	}
	if user.TwoFactorEnabled() || user.TwoFactorSecret != "" {
		t.Error("disable did not clear the second factor state")
	}
}

// OAuth linking is idempotent and merges on email.
func TestScenarioOAuthLinking(t *testing.T) {
	app := newScenarioApp(t, nil)

	dave, err := app.Register("dave@example.com", "Secret123!", "Dave")
	if err != nil {
		t.Fatal(err)
	}

	profile := &oauth2.ExternalProfile{
		Provider:          "google",
		ProviderAccountID: "g-dave",
		Email:             "Dave@Example.com",
		Name:              "Dave",
	}
	first, err := app.LinkOrCreate(profile)
	if err != nil {
		t.Fatalf("LinkOrCreate() error: %v", err)
	}
	if first.ID != dave.ID {
		t.Errorf("email merge created a new user: %q vs %q", first.ID, dave.ID)
	}

	second, err := app.LinkOrCreate(profile)
	if err != nil {
		t.Fatalf("repeat LinkOrCreate() error: %v", err)
	}
	if second.ID != first.ID {
		t.Error("re-login did not resolve to the same user")
	}
}

func currentCode(t *testing.T, app *App, secret string, at time.Time) string {
	t.Helper()
	cfg := app.Config().TwoFactor
	code, err := totp.GenerateCodeCustom(secret, at.UTC(), totp.ValidateOpts{
		Period: cfg.Period,
		Skew:   0,
		Digits: otp.Digits(cfg.Digits),
	})
	if err != nil {
		t.Fatalf("generating code: %v", err)
	}
	return code
}
