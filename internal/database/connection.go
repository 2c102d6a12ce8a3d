package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// Open connects with the dialect's driver and verifies the connection. The
// pool is capped at one connection: a seeding run uses a single transaction.
func Open(ctx context.Context, d Dialect, dsn string) (*sql.DB, error) {
	var db *sql.DB
	if d.Driver == "pgx" {
		cfg, err := pgx.ParseConfig(dsn)
		if err != nil {
			return nil, fmt.Errorf("failed to parse connection URL: %w", err)
		}
		db = stdlib.OpenDB(*cfg)
	} else {
		var err error
		db, err = sql.Open(d.Driver, dsn)
		if err != nil {
			return nil, fmt.Errorf("failed to open database connection: %w", err)
		}
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return db, nil
}
