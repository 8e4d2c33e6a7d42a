package postgres_test

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v2"

	"github.com/heartmarshall/levi/internal/adapter/postgres"
	"github.com/heartmarshall/levi/internal/domain"
)

var readOnlyOpts = pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly}

func newMockPool(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	t.Cleanup(mock.Close)
	return mock
}

func TestRunReadOnly_Commit(t *testing.T) {
	t.Parallel()

	mock := newMockPool(t)
	mock.ExpectBeginTx(readOnlyOpts)
	mock.ExpectQuery(`SELECT 1`).WillReturnRows(pgxmock.NewRows([]string{"one"}).AddRow(1))
	mock.ExpectCommit()

	tm := postgres.NewTxManager(mock)
	err := tm.RunReadOnly(context.Background(), func(ctx context.Context) error {
		var one int
		return postgres.QuerierFromCtx(ctx, nil).QueryRow(ctx, `SELECT 1`).Scan(&one)
	})
	if err != nil {
		t.Fatalf("RunReadOnly returned error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestRunReadOnly_RollbackOnError(t *testing.T) {
	t.Parallel()

	mock := newMockPool(t)
	mock.ExpectBeginTx(readOnlyOpts)
	mock.ExpectRollback()

	sentinel := errors.New("lookup failed")
	tm := postgres.NewTxManager(mock)
	err := tm.RunReadOnly(context.Background(), func(ctx context.Context) error {
		return sentinel
	})

	if !errors.Is(err, sentinel) {
		t.Fatalf("expected sentinel error, got: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestRunReadOnly_RollbackOnPanic(t *testing.T) {
	t.Parallel()

	mock := newMockPool(t)
	mock.ExpectBeginTx(readOnlyOpts)
	mock.ExpectRollback()

	tm := postgres.NewTxManager(mock)

	func() {
		defer func() {
			if r := recover(); r != "boom" {
				t.Fatalf("recovered %v, want boom", r)
			}
		}()
		_ = tm.RunReadOnly(context.Background(), func(ctx context.Context) error {
			panic("boom")
		})
	}()

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestRunReadOnly_RollbackAfterCancel(t *testing.T) {
	t.Parallel()

	mock := newMockPool(t)
	mock.ExpectBeginTx(readOnlyOpts)
	mock.ExpectRollback()

	ctx, cancel := context.WithCancel(context.Background())
	tm := postgres.NewTxManager(mock)
	err := tm.RunReadOnly(ctx, func(ctx context.Context) error {
		cancel()
		return ctx.Err()
	})

	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestRunReadOnly_BeginFails(t *testing.T) {
	t.Parallel()

	mock := newMockPool(t)
	mock.ExpectBeginTx(readOnlyOpts).WillReturnError(errors.New("conn closed"))

	called := false
	tm := postgres.NewTxManager(mock)
	err := tm.RunReadOnly(context.Background(), func(ctx context.Context) error {
		called = true
		return nil
	})

	if !errors.Is(err, domain.ErrDatabaseUnavailable) {
		t.Fatalf("RunReadOnly() error = %v, want ErrDatabaseUnavailable", err)
	}
	if got := domain.ErrorKind(err); got != "database_unavailable" {
		t.Errorf("ErrorKind() = %q, want database_unavailable", got)
	}
	if called {
		t.Error("fn must not run when the transaction cannot start")
	}
}

func TestRunReadOnly_BeginCancelled(t *testing.T) {
	t.Parallel()

	mock := newMockPool(t)
	mock.ExpectBeginTx(readOnlyOpts).WillReturnError(context.Canceled)

	tm := postgres.NewTxManager(mock)
	err := tm.RunReadOnly(context.Background(), func(ctx context.Context) error { return nil })

	if !errors.Is(err, context.Canceled) {
		t.Fatalf("RunReadOnly() error = %v, want context.Canceled", err)
	}
	if errors.Is(err, domain.ErrDatabaseUnavailable) {
		t.Error("a cancelled begin must not be reported as database unavailable")
	}
}

func TestRunReadOnly_CommitFails(t *testing.T) {
	t.Parallel()

	mock := newMockPool(t)
	mock.ExpectBeginTx(readOnlyOpts)
	mock.ExpectCommit().WillReturnError(errors.New("conn closed"))

	tm := postgres.NewTxManager(mock)
	err := tm.RunReadOnly(context.Background(), func(ctx context.Context) error { return nil })

	if !errors.Is(err, domain.ErrDatabaseUnavailable) {
		t.Fatalf("RunReadOnly() error = %v, want ErrDatabaseUnavailable", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestQuerierFromCtx_Fallback(t *testing.T) {
	t.Parallel()

	mock := newMockPool(t)
	if got := postgres.QuerierFromCtx(context.Background(), mock); got != mock {
		t.Errorf("QuerierFromCtx without tx = %v, want fallback", got)
	}
}

func TestRunReadOnly_NestedJoinsSnapshot(t *testing.T) {
	t.Parallel()

	mock := newMockPool(t)
	mock.ExpectBeginTx(readOnlyOpts)
	mock.ExpectQuery(`SELECT 1`).WillReturnRows(pgxmock.NewRows([]string{"one"}).AddRow(1))
	mock.ExpectCommit()

	tm := postgres.NewTxManager(mock)
	err := tm.RunReadOnly(context.Background(), func(outer context.Context) error {
		if !postgres.InSnapshot(outer) {
			t.Error("InSnapshot() = false inside RunReadOnly")
		}
		return tm.RunReadOnly(outer, func(inner context.Context) error {
			if postgres.QuerierFromCtx(inner, nil) != postgres.QuerierFromCtx(outer, nil) {
				t.Error("nested call opened a second snapshot")
			}
			var one int
			return postgres.QuerierFromCtx(inner, nil).QueryRow(inner, `SELECT 1`).Scan(&one)
		})
	})
	if err != nil {
		t.Fatalf("RunReadOnly returned error: %v", err)
	}
	if postgres.InSnapshot(context.Background()) {
		t.Error("InSnapshot(background) = true")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}
