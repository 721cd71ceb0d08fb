package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/Alijeyrad/clinica_backend/config"
)

func openSQLDB(o Options) (*sql.DB, error) {
	conn, err := sql.Open("postgres", o.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if o.MaxOpenConns > 0 {
		conn.SetMaxOpenConns(o.MaxOpenConns)
	}
	if o.MaxIdleConns > 0 {
		conn.SetMaxIdleConns(o.MaxIdleConns)
	}
	conn.SetConnMaxLifetime(o.ConnMaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := conn.PingContext(ctx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return conn, nil
}

// InitializeDatabases creates every database named in server.databases that
// does not exist yet. It connects through the maintenance 'postgres' database
// with the application credentials.
func InitializeDatabases(ctx context.Context, cfg *config.Config) error {
	if len(cfg.Server.Databases) == 0 {
		return fmt.Errorf("no database names provided")
	}

	maint := cfg.Database
	maint.DBName = "postgres"

	conn, err := openSQLDB(OptionsFrom(maint))
	if err != nil {
		return fmt.Errorf("failed to connect to postgres database: %w", err)
	}
	defer conn.Close()

	for _, name := range cfg.Server.Databases {
		created, err := createDatabaseIfNotExists(ctx, conn, name)
		if err != nil {
			return fmt.Errorf("failed to create database %q: %w", name, err)
		}
		if created {
			fmt.Printf("created database %s\n", name)
		}
	}
	return nil
}

func createDatabaseIfNotExists(ctx context.Context, conn *sql.DB, name string) (bool, error) {
	var exists bool
	err := conn.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM pg_database WHERE datname = $1)`, name).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check database: %w", err)
	}
	if exists {
		return false, nil
	}

	if _, err := conn.ExecContext(ctx, "CREATE DATABASE "+pq.QuoteIdentifier(name)); err != nil {
		return false, err
	}
	return true, nil
}
