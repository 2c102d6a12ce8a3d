package database

import (
	"context"
	"database/sql"
	"fmt"
)

// TableNames lists the base tables visible on the connection.
func TableNames(ctx context.Context, db *sql.DB, d Dialect) ([]string, error) {
	var query string
	switch d.Name {
	case Postgres:
		query = `
		SELECT DISTINCT table_name FROM information_schema.tables
		WHERE table_schema IN (current_schema(), 'public') AND table_type = 'BASE TABLE'
		ORDER BY table_name`
	case MySQL:
		query = `
		SELECT table_name FROM information_schema.tables
		WHERE table_schema = DATABASE() AND table_type = 'BASE TABLE'
		ORDER BY table_name`
	case SQLite:
		query = "SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name"
	default:
		return nil, fmt.Errorf("unsupported dialect: %s", d.Name)
	}

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		tables = append(tables, name)
	}
	return tables, rows.Err()
}
