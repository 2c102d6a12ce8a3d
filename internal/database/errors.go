package database

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
)

// Describe renders driver specific details of a storage error (SQLSTATE,
// constraint, driver error number). Errors from other sources are returned as is.
func Describe(err error) string {
	if err == nil {
		return ""
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgDetail(pgErr.Code, pgErr.Message, pgErr.ConstraintName, pgErr.Detail)
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pgDetail(string(pqErr.Code), pqErr.Message, pqErr.Constraint, pqErr.Detail)
	}

	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return fmt.Sprintf("mysql error %d: %s", myErr.Number, myErr.Message)
	}

	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		return fmt.Sprintf("sqlite error %d/%d: %s", int(liteErr.Code), int(liteErr.ExtendedCode), liteErr.Error())
	}

	return err.Error()
}

func pgDetail(code, message, constraint, detail string) string {
	parts := []string{fmt.Sprintf("postgres %s: %s", code, message)}
	if constraint != "" {
		parts = append(parts, "constraint "+constraint)
	}
	if detail != "" {
		parts = append(parts, detail)
	}
	return strings.Join(parts, "; ")
}

// IsConstraintViolation reports whether err is a unique, foreign key, not null
// or check violation raised by the database.
func IsConstraintViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return strings.HasPrefix(pgErr.Code, "23")
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code.Class() == "23"
	}

	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		switch myErr.Number {
		case 1048, 1062, 1216, 1217, 1451, 1452, 3819:
			return true
		}
		return false
	}

	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		return liteErr.Code == sqlite3.ErrConstraint
	}

	return false
}
