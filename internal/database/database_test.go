package database

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/Masterminds/squirrel"
	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
)

func TestNewDialect(t *testing.T) {
	tests := []struct {
		provider  string
		name      string
		driver    string
		returning bool
	}{
		{"postgres", Postgres, "pgx", true},
		{"PostgreSQL", Postgres, "pgx", true},
		{"pq", Postgres, "postgres", true},
		{"mysql", MySQL, "mysql", false},
		{"sqlite3", SQLite, "sqlite3", true},
	}
	for _, tt := range tests {
		d, err := NewDialect(tt.provider)
		if err != nil {
			t.Fatalf("NewDialect(%q) failed: %v", tt.provider, err)
		}
		if d.Name != tt.name || d.Driver != tt.driver || d.Returning != tt.returning {
			t.Errorf("NewDialect(%q) = %+v", tt.provider, d)
		}
	}

	if _, err := NewDialect("oracle"); err == nil {
		t.Error("expected an error for an unsupported provider")
	}
}

func TestBuilderPlaceholders(t *testing.T) {
	pg, _ := NewDialect("postgres")
	query, _, err := pg.Builder().Insert("users").Columns("email").Values("a@b.c").ToSql()
	if err != nil {
		t.Fatalf("ToSql failed: %v", err)
	}
	if !strings.Contains(query, "$1") {
		t.Errorf("expected dollar placeholders, got %s", query)
	}

	lite, _ := NewDialect("sqlite")
	if lite.Placeholder != squirrel.Question {
		t.Error("sqlite should use question placeholders")
	}
}

func TestOpenSQLite(t *testing.T) {
	d, _ := NewDialect("sqlite")
	db, err := Open(context.Background(), d, "file::memory:?_foreign_keys=on")
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer db.Close()

	if db.Stats().MaxOpenConnections != 1 {
		t.Errorf("expected a single connection, got %d", db.Stats().MaxOpenConnections)
	}
}

func TestDescribe(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		want       string
		constraint bool
	}{
		{
			name:       "pgx unique",
			err:        fmt.Errorf("insert users: %w", &pgconn.PgError{Code: "23505", Message: "duplicate key", ConstraintName: "users_email_key"}),
			want:       "postgres 23505: duplicate key; constraint users_email_key",
			constraint: true,
		},
		{
			name:       "pq foreign key",
			err:        &pq.Error{Code: "23503", Message: "violates foreign key", Constraint: "students_class_id_fkey"},
			want:       "postgres 23503: violates foreign key; constraint students_class_id_fkey",
			constraint: true,
		},
		{
			name: "pq syntax",
			err:  &pq.Error{Code: "42601", Message: "syntax error"},
			want: "postgres 42601: syntax error",
		},
		{
			name:       "mysql duplicate",
			err:        &mysql.MySQLError{Number: 1062, Message: "Duplicate entry"},
			want:       "mysql error 1062: Duplicate entry",
			constraint: true,
		},
		{
			name: "plain",
			err:  errors.New("connection refused"),
			want: "connection refused",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Describe(tt.err); got != tt.want {
				t.Errorf("Describe() = %q, want %q", got, tt.want)
			}
			if got := IsConstraintViolation(tt.err); got != tt.constraint {
				t.Errorf("IsConstraintViolation() = %v, want %v", got, tt.constraint)
			}
		})
	}
}

func TestSQLiteConstraintViolation(t *testing.T) {
	err := fmt.Errorf("insert: %w", sqlite3.Error{Code: sqlite3.ErrConstraint})
	if !IsConstraintViolation(err) {
		t.Error("sqlite constraint error not recognized")
	}
	if !strings.HasPrefix(Describe(err), "sqlite error 19/") {
		t.Errorf("unexpected description %q", Describe(err))
	}
}

func TestTableNamesSQLite(t *testing.T) {
	ctx := context.Background()
	d, _ := NewDialect("sqlite")
	db, err := Open(ctx, d, "file::memory:?_foreign_keys=on")
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer db.Close()

	for _, stmt := range []string{
		"CREATE TABLE b (id INTEGER PRIMARY KEY AUTOINCREMENT)",
		"CREATE TABLE a (id INTEGER PRIMARY KEY)",
	} {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			t.Fatalf("%s: %v", stmt, err)
		}
	}

	tables, err := TableNames(ctx, db, d)
	if err != nil {
		t.Fatalf("TableNames failed: %v", err)
	}
	if strings.Join(tables, ",") != "a,b" {
		t.Errorf("expected [a b] without sqlite internals, got %v", tables)
	}
}
