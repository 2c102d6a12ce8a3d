package loader

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Rana718/schoolseed/internal/database"
)

// Tx is a Loader bound to one database transaction.
type Tx struct {
	*Loader
	tx *sql.Tx
}

// Begin opens the transaction that spans a whole seeding run.
func Begin(ctx context.Context, db *sql.DB, d database.Dialect, batchSize int) (*Tx, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return &Tx{Loader: New(tx, d, batchSize), tx: tx}, nil
}

func (t *Tx) Commit() error {
	return t.tx.Commit()
}

func (t *Tx) Rollback() error {
	return t.tx.Rollback()
}
