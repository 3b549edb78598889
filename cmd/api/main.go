// Package main is the entry point for the hospital records API server.
// It wires together configuration, the record store, and the HTTP router.
package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/boltdb/bolt"
	"github.com/go-sql-driver/mysql"

	"github.com/aoideee/hospital-records/internal/data"

	_ "github.com/jackc/pgx/v5/stdlib" // Registers the "pgx" driver.
	_ "github.com/lib/pq"              // Registers the "postgres" driver.
	_ "modernc.org/sqlite"             // Registers the "sqlite" driver.
)

// appVersion is the current version of the API, shown in logs.
const appVersion = "1.0.0"

// applicationDependencies bundles every shared resource that HTTP handlers need.
// A pointer to this struct is passed as the receiver on all handler and route methods.
type applicationDependencies struct {
	config  serverConfig
	logger  *slog.Logger
	models  data.Models
	metrics *metrics
}

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	settings, err := loadConfig(os.Args[1:])
	if err != nil {
		logger.Error(err.Error())
		os.Exit(2)
	}

	models, closeStore, err := openStore(settings)
	if err != nil {
		logger.Error(err.Error(), "driver", settings.db.driver)
		os.Exit(1)
	}
	defer closeStore()

	logger.Info("record store ready", "driver", settings.db.driver)

	app := &applicationDependencies{
		config:  settings,
		logger:  logger,
		models:  models,
		metrics: newMetrics(),
	}

	if err := app.serve(); err != nil {
		logger.Error(err.Error())
		closeStore()
		os.Exit(1)
	}
}

// openStore builds the record store selected by settings.db.driver and returns
// a function that releases it.
func openStore(settings serverConfig) (data.Models, func() error, error) {
	switch settings.db.driver {
	case "memory":
		return data.NewMemoryModels(), func() error { return nil }, nil

	case "bolt":
		db, err := bolt.Open(settings.db.dsn, 0o600, &bolt.Options{Timeout: 5 * time.Second})
		if err != nil {
			return data.Models{}, nil, fmt.Errorf("open bolt file %s: %w", settings.db.dsn, err)
		}
		models, err := data.NewBoltModels(db)
		if err != nil {
			db.Close()
			return data.Models{}, nil, err
		}
		return models, db.Close, nil
	}

	db, err := openDB(settings)
	if err != nil {
		return data.Models{}, nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	models, err := data.NewModels(ctx, db, settings.db.driver)
	if err != nil {
		db.Close()
		return data.Models{}, nil, err
	}
	return models, db.Close, nil
}

// openDB opens a connection pool for one of the SQL drivers, then pings the
// database with a 5-second timeout to confirm it is reachable.
func openDB(settings serverConfig) (*sql.DB, error) {
	dsn := settings.db.dsn

	// UPDATE must report matched rows, not changed rows, for the not-found check.
	if settings.db.driver == "mysql" {
		cfg, err := mysql.ParseDSN(dsn)
		if err != nil {
			return nil, fmt.Errorf("parse mysql dsn: %w", err)
		}
		cfg.ClientFoundRows = true
		dsn = cfg.FormatDSN()
	}

	// sql.Open only validates the DSN format; it does not actually connect yet.
	db, err := sql.Open(settings.db.driver, dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(settings.db.maxOpenConns)
	if settings.db.driver == "sqlite" {
		db.SetMaxOpenConns(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err = db.PingContext(ctx)
	if err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}
