package repositories

import (
	"context"
	"database/sql"
	"fmt"
)

// TxManager gives services explicit control over transaction boundaries.
// Every multi-statement write runs inside WithinTx so it commits or rolls back as a unit.
type TxManager interface {
	WithinTx(ctx context.Context, fn func(executor SQLExecutor) error) error
	// DB is the non-transactional executor used for single reads.
	DB() SQLExecutor
}

type sqlTxManager struct {
	db *sql.DB
}

// NewTxManager creates a TxManager over the connection pool.
func NewTxManager(db *sql.DB) TxManager {
	return &sqlTxManager{db: db}
}

func (m *sqlTxManager) DB() SQLExecutor { return m.db }

func (m *sqlTxManager) WithinTx(ctx context.Context, fn func(executor SQLExecutor) error) error {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: begin transaction: %v", ErrDatabaseError, err)
	}
	defer tx.Rollback() // no-op after a successful Commit

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit transaction: %v", ErrDatabaseError, err)
	}
	return nil
}
