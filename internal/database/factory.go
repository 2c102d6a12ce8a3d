package database

import (
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
)

// Dialect captures what the loader and schema need to know about a provider.
type Dialect struct {
	// Name is the SQL flavor: postgres, mysql or sqlite.
	Name string
	// Driver is the database/sql driver name.
	Driver      string
	Placeholder squirrel.PlaceholderFormat
	// Returning is true when INSERT ... RETURNING is available.
	Returning bool
}

const (
	Postgres = "postgres"
	MySQL    = "mysql"
	SQLite   = "sqlite"
)

var Providers = []string{"postgres", "postgresql", "pq", "mysql", "sqlite", "sqlite3"}

func NewDialect(provider string) (Dialect, error) {
	switch strings.ToLower(provider) {
	case "postgresql", "postgres":
		return Dialect{Name: Postgres, Driver: "pgx", Placeholder: squirrel.Dollar, Returning: true}, nil
	case "pq":
		return Dialect{Name: Postgres, Driver: "postgres", Placeholder: squirrel.Dollar, Returning: true}, nil
	case "mysql":
		return Dialect{Name: MySQL, Driver: "mysql", Placeholder: squirrel.Question}, nil
	case "sqlite", "sqlite3":
		return Dialect{Name: SQLite, Driver: "sqlite3", Placeholder: squirrel.Question, Returning: true}, nil
	default:
		return Dialect{}, fmt.Errorf("unsupported database provider: %s. Supported providers: %v", provider, Providers)
	}
}

// Builder returns a squirrel builder using the dialect's placeholders.
func (d Dialect) Builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(d.Placeholder)
}
