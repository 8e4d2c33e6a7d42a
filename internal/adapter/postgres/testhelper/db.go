// Package testhelper runs the RF2 snapshot schema in a throwaway PostgreSQL
// container for integration tests.
package testhelper

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib" // database/sql driver for goose
	"github.com/pressly/goose/v3"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/heartmarshall/levi/internal/config"
	"github.com/heartmarshall/levi/migrations"
)

// Credentials of the SELECT-only role the checker connects as.
const (
	ReaderUser     = "levi_reader"
	ReaderPassword = "reader"
)

const (
	ownerUser     = "snomed"
	ownerPassword = "snomed"
	databaseName  = "snomed"
)

// server is the container shared by every test in the binary.
type server struct {
	host string
	port string
	err  error
}

var (
	startOnce sync.Once
	shared    server
)

func (s server) dsn(user, password string) string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", user, password, s.host, s.port, databaseName)
}

// SetupTestDB returns a pool owned by the schema owner, for seeding. The
// container is started and migrated on first use and lives until the test
// binary exits. Skipped with -short.
func SetupTestDB(t *testing.T) *pgxpool.Pool {
	t.Helper()
	s := start(t)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, s.dsn(ownerUser, ownerPassword))
	if err != nil {
		t.Fatalf("testhelper: owner pool: %v", err)
	}
	t.Cleanup(pool.Close)
	return pool
}

// ReaderConfig returns the JDBC-style settings a LEVI run would use to reach
// the test database as ReaderUser.
func ReaderConfig(t *testing.T) config.DatabaseConfig {
	t.Helper()
	s := start(t)

	return config.DatabaseConfig{
		URL:      fmt.Sprintf("jdbc:postgresql://%s:%s/%s?sslmode=disable", s.host, s.port, databaseName),
		Username: ReaderUser,
		Password: ReaderPassword,
		MaxConns: 2,
	}
}

func start(t *testing.T) server {
	t.Helper()
	if testing.Short() {
		t.Skip("testhelper: database tests need docker; skipped with -short")
	}

	startOnce.Do(func() {
		shared = startServer()
	})
	if shared.err != nil {
		t.Fatalf("testhelper: start database: %v", shared.err)
	}
	return shared
}

func startServer() server {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "postgres:17-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     ownerUser,
				"POSTGRES_PASSWORD": ownerPassword,
				"POSTGRES_DB":       databaseName,
			},
			// The entrypoint restarts postgres once after init.
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(time.Minute),
		},
		Started: true,
	})
	if err != nil {
		return server{err: fmt.Errorf("start container: %w", err)}
	}

	s := server{}
	if s.host, err = container.Host(ctx); err != nil {
		return server{err: fmt.Errorf("container host: %w", err)}
	}
	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		return server{err: fmt.Errorf("container port: %w", err)}
	}
	s.port = port.Port()

	if err := prepareSchema(ctx, s.dsn(ownerUser, ownerPassword)); err != nil {
		return server{err: err}
	}
	return s
}

// prepareSchema applies the migrations and creates the read-only role.
func prepareSchema(ctx context.Context, dsn string) error {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return fmt.Errorf("open owner connection: %w", err)
	}
	defer db.Close()

	provider, err := goose.NewProvider(goose.DialectPostgres, db, migrations.FS)
	if err != nil {
		return fmt.Errorf("goose provider: %w", err)
	}
	if _, err := provider.Up(ctx); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}

	grants := []string{
		fmt.Sprintf(`CREATE ROLE %s LOGIN PASSWORD '%s'`, ReaderUser, ReaderPassword),
		fmt.Sprintf(`GRANT SELECT ON description_s, langrefset_s TO %s`, ReaderUser),
	}
	for _, stmt := range grants {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("reader role: %w", err)
		}
	}
	return nil
}
