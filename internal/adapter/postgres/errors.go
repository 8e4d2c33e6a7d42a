package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/heartmarshall/levi/internal/domain"
)

// SQLSTATE codes worth naming in a run's diagnostics.
const (
	codeUndefinedTable    = "42P01"
	codeInsufficientPriv  = "42501"
	codeInvalidPassword   = "28P01"
	codeInvalidAuthSpec   = "28000"
	codeReadOnlyViolation = "25006"
	codeCannotConnectNow  = "57P03"
	codeAdminShutdown     = "57P01"
)

// MapError converts a driver error into the domain vocabulary.
//
// Context errors keep their identity so callers can tell a cancelled run from
// a failing store. pgx.ErrNoRows becomes domain.ErrNotFound. Everything else
// is domain.ErrDatabaseUnavailable, never absence, with a short reason for
// the server errors an operator can act on.
func MapError(err error, entity, id string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return fmt.Errorf("%s %s: %w", entity, id, err)
	case errors.Is(err, pgx.ErrNoRows):
		return fmt.Errorf("%s %s: %w", entity, id, domain.ErrNotFound)
	}

	if reason := serverReason(err); reason != "" {
		return fmt.Errorf("%s %s: %w (%s): %w", entity, id, domain.ErrDatabaseUnavailable, reason, err)
	}
	return fmt.Errorf("%s %s: %w: %w", entity, id, domain.ErrDatabaseUnavailable, err)
}

func serverReason(err error) string {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return ""
	}
	switch pgErr.Code {
	case codeUndefinedTable:
		return "RF2 snapshot tables missing"
	case codeInsufficientPriv:
		return "permission denied"
	case codeInvalidPassword, codeInvalidAuthSpec:
		return "authentication failed"
	case codeReadOnlyViolation:
		return "write attempted in read-only snapshot"
	case codeCannotConnectNow, codeAdminShutdown:
		return "server not accepting connections"
	}
	return ""
}
