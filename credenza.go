package credenza

import (
	"context"
	"fmt"
	"log/slog"

	"zombiezen.com/go/sqlite/sqlitex"

	"github.com/credenzahq/credenza/api"
	"github.com/credenzahq/credenza/cache/ristretto"
	"github.com/credenzahq/credenza/config"
	"github.com/credenzahq/credenza/core"
	"github.com/credenzahq/credenza/db"
	zombiezendb "github.com/credenzahq/credenza/db/zombiezen"
	"github.com/credenzahq/credenza/mail"
	"github.com/credenzahq/credenza/migrations"
	"github.com/credenzahq/credenza/queue"
	"github.com/credenzahq/credenza/queue/executor"
	"github.com/credenzahq/credenza/queue/handlers"
	scl "github.com/credenzahq/credenza/queue/scheduler"
	"github.com/credenzahq/credenza/router"
	"github.com/credenzahq/credenza/server"
)

// New assembles the application from a config file and the provided options.
// It wires the core orchestrator, the HTTP surface, the job scheduler and the
// server; the caller keeps ownership of the database pool.
func New(configPath string, opts ...core.Option) (*core.App, *server.Server, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}
	configProvider := config.NewProvider(cfg)

	allOpts := []core.Option{core.WithConfigProvider(configProvider)}
	allOpts = append(allOpts, opts...)

	app, err := core.NewApp(allOpts...)
	if err != nil {
		return nil, nil, fmt.Errorf("initializing app: %w", err)
	}

	userCache, err := ristretto.New[*db.User]()
	if err != nil {
		// The API works without the cache, every bearer lookup just hits
		// the database.
		app.Logger().Error("user cache unavailable, continuing without it", "err", err)
		userCache = nil
	}

	r := router.New()
	api.New(app, userCache).Routes(r)

	sched := SetupScheduler(configProvider, app.DbQueue(), app.Logger())

	srv := server.NewServer(cfg.Server, r, sched, app.Logger())
	return app, srv, nil
}

// SetupScheduler builds the job scheduler with the mail handlers registered.
// Without SMTP configuration the scheduler still runs; claimed mail jobs then
// fail with an unknown-type error instead of silently disappearing.
func SetupScheduler(configProvider *config.Provider, dbq db.DbQueue, logger *slog.Logger) *scl.Scheduler {
	cfg := configProvider.Get()

	hdls := make(map[string]executor.JobHandler)
	if cfg.Smtp.Enabled() {
		mailer := mail.New(cfg.Smtp.Host, cfg.Smtp.Port, cfg.Smtp.Username, cfg.Smtp.Password, cfg.Smtp.From)
		hdls[queue.JobTypePasswordResetMail] = handlers.NewPasswordResetMailHandler(configProvider, mailer)
		hdls[queue.JobTypeEmailOtpMail] = handlers.NewEmailOtpMailHandler(mailer)
	}

	return scl.NewScheduler(cfg.Scheduler, dbq, executor.NewExecutor(hdls), logger)
}

// ApplySchema runs the embedded SQL schema against the pool. The statements
// are idempotent, so running it at every start is safe.
func ApplySchema(ctx context.Context, pool *sqlitex.Pool) error {
	conn, err := pool.Take(ctx)
	if err != nil {
		return fmt.Errorf("taking connection for schema setup: %w", err)
	}
	defer pool.Put(conn)

	return zombiezendb.ApplyMigrations(conn, migrations.Schema())
}
