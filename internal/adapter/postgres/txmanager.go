package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// Beginner starts transactions. Implemented by *pgxpool.Pool and pgxmock pools.
type Beginner interface {
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
}

// readOnlySnapshot gives every query of a run the same database state.
var readOnlySnapshot = pgx.TxOptions{
	IsoLevel:   pgx.RepeatableRead,
	AccessMode: pgx.ReadOnly,
}

// TxManager runs lookups inside one read-only snapshot carried by the context.
type TxManager struct {
	db Beginner
}

// NewTxManager creates a new TxManager.
func NewTxManager(db Beginner) *TxManager {
	return &TxManager{db: db}
}

// RunReadOnly executes fn within a REPEATABLE READ, READ ONLY transaction.
// Repositories pick the transaction up through QuerierFromCtx. A call made
// from inside fn joins the snapshot already in ctx instead of opening another.
//
// The snapshot is committed when fn succeeds and rolled back when it fails or
// panics. Ending it does not depend on ctx still being live. Failing to open
// or release the snapshot is reported as domain.ErrDatabaseUnavailable.
func (m *TxManager) RunReadOnly(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if InSnapshot(ctx) {
		return fn(ctx)
	}

	tx, err := m.db.BeginTx(ctx, readOnlySnapshot)
	if err != nil {
		return MapError(err, "begin", "snapshot")
	}
	endCtx := context.WithoutCancel(ctx)

	defer func() {
		if r := recover(); r != nil {
			_ = tx.Rollback(endCtx)
			panic(r)
		}
	}()

	if err := fn(withSnapshot(ctx, tx)); err != nil {
		if rbErr := tx.Rollback(endCtx); rbErr != nil {
			return fmt.Errorf("%w (rollback snapshot: %v)", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(endCtx); err != nil {
		return MapError(err, "release", "snapshot")
	}
	return nil
}
