package credenza

import (
	"fmt"
	"log/slog"
	"os"
	"runtime"

	phuslog "github.com/phuslu/log"
	"zombiezen.com/go/sqlite/sqlitex"

	"github.com/credenzahq/credenza/core"
	zombiezendb "github.com/credenzahq/credenza/db/zombiezen"
)

// NewZombiezenPool creates a SQLite connection pool with reasonable defaults
// (WAL mode, create-if-missing). The caller owns the pool and must close it.
func NewZombiezenPool(dbPath string) (*sqlitex.Pool, error) {
	pool, err := sqlitex.NewPool(fmt.Sprintf("file:%s", dbPath), sqlitex.PoolOptions{
		PoolSize: runtime.NumCPU(),
	})
	if err != nil {
		return nil, fmt.Errorf("creating sqlite pool at %s: %w", dbPath, err)
	}
	return pool, nil
}

// WithZombiezenPool configures the app to use the SQLite store over an
// existing pool. The pool's lifecycle stays with the caller.
func WithZombiezenPool(pool *sqlitex.Pool) core.Option {
	store, err := zombiezendb.New(pool)
	if err != nil {
		panic(fmt.Sprintf("initializing sqlite store: %v", err))
	}
	return core.WithDbApp(store)
}

// DefaultLoggerOptions are the slog handler settings used when an option gets
// a nil opts.
var DefaultLoggerOptions = &slog.HandlerOptions{
	Level: slog.LevelInfo,
}

// WithPhusLogger configures slog with phuslu/log's JSON handler.
func WithPhusLogger(opts *slog.HandlerOptions) core.Option {
	if opts == nil {
		opts = DefaultLoggerOptions
	}
	logger := slog.New(phuslog.SlogNewJSONHandler(os.Stderr, opts))
	slog.SetDefault(logger)
	return core.WithLogger(logger)
}

// WithTextLogger configures slog with the standard library's text handler.
func WithTextLogger(opts *slog.HandlerOptions) core.Option {
	if opts == nil {
		opts = DefaultLoggerOptions
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, opts))
	return core.WithLogger(logger)
}
