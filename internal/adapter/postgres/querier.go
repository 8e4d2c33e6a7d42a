package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// Querier is the read side shared by *pgxpool.Pool, pgx.Tx and pgxmock.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type snapshotKey struct{}

func withSnapshot(ctx context.Context, tx pgx.Tx) context.Context {
	return context.WithValue(ctx, snapshotKey{}, tx)
}

func snapshotFrom(ctx context.Context) (pgx.Tx, bool) {
	tx, ok := ctx.Value(snapshotKey{}).(pgx.Tx)
	return tx, ok
}

// InSnapshot reports whether ctx carries an open read-only snapshot.
func InSnapshot(ctx context.Context) bool {
	_, ok := snapshotFrom(ctx)
	return ok
}

// QuerierFromCtx returns the snapshot opened by TxManager.RunReadOnly when
// ctx carries one, and fallback otherwise.
func QuerierFromCtx(ctx context.Context, fallback Querier) Querier {
	if tx, ok := snapshotFrom(ctx); ok {
		return tx
	}
	return fallback
}
