package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/credenzahq/credenza"
	"github.com/credenzahq/credenza/config"
)

func main() {
	configPath := flag.String("config", "credenza.toml", "path to the TOML configuration file")
	dbPath := flag.String("db", "", "path to the SQLite database file (defaults to db_file from the config)")
	flag.Parse()

	if err := run(*configPath, *dbPath); err != nil {
		fmt.Fprintln(os.Stderr, "credenza:", err)
		os.Exit(1)
	}
}

func run(configPath, dbPath string) error {
	if dbPath == "" {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		dbPath = cfg.DBFile
	}

	pool, err := credenza.NewZombiezenPool(dbPath)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := credenza.ApplySchema(context.Background(), pool); err != nil {
		return fmt.Errorf("applying schema: %w", err)
	}

	_, srv, err := credenza.New(configPath,
		credenza.WithZombiezenPool(pool),
		credenza.WithPhusLogger(nil),
	)
	if err != nil {
		return err
	}

	return srv.Run()
}
