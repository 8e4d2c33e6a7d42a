package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/heartmarshall/levi/internal/config"
)

// ApplicationName identifies LEVI sessions in pg_stat_activity.
const ApplicationName = "levi"

// sessionParams are sent with every connection. The checker only reads, so
// sessions default to read-only even outside RunReadOnly.
var sessionParams = map[string]string{
	"application_name":              ApplicationName,
	"default_transaction_read_only": "on",
}

// NewPool opens the terminology database and pings it before returning.
func NewPool(ctx context.Context, cfg config.DatabaseConfig) (*pgxpool.Pool, error) {
	poolCfg, err := poolConfig(cfg)
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, MapError(err, "database", cfg.Redacted())
	}
	return pool, nil
}

func poolConfig(cfg config.DatabaseConfig) (*pgxpool.Config, error) {
	connString, err := cfg.ConnString()
	if err != nil {
		return nil, fmt.Errorf("database connection string: %w", err)
	}
	poolCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("parse database connection string: %w", err)
	}

	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	poolCfg.MinConns = 0
	for k, v := range sessionParams {
		poolCfg.ConnConfig.RuntimeParams[k] = v
	}
	return poolCfg, nil
}
