// Package testutil provides database container helpers for integration tests.
package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/arkanwolfshade/MythosMUD-sub007/internal/config"
	"github.com/arkanwolfshade/MythosMUD-sub007/internal/storage/postgres"
)

// PostgresContainer is a disposable PostgreSQL instance for one test.
type PostgresContainer struct {
	container testcontainers.Container
	Pool      *postgres.Pool
	RawPool   *pgxpool.Pool
	Config    config.DatabaseConfig
}

// NewPostgresContainer launches a PostgreSQL container and connects a pool
// to it. The container and pool are torn down via t.Cleanup.
//
// Precondition: Docker must be available.
func NewPostgresContainer(t *testing.T) *PostgresContainer {
	t.Helper()
	ctx := context.Background()

	ctr, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "postgres:16-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "mud",
				"POSTGRES_PASSWORD": "mud",
				"POSTGRES_DB":       "mud_test",
			},
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		t.Fatalf("starting postgres container: %v", err)
	}

	host, err := ctr.Host(ctx)
	if err != nil {
		t.Fatalf("resolving container host: %v", err)
	}
	port, err := ctr.MappedPort(ctx, "5432")
	if err != nil {
		t.Fatalf("resolving mapped port: %v", err)
	}

	dbCfg := config.DatabaseConfig{
		Host:            host,
		Port:            port.Int(),
		User:            "mud",
		Password:        "mud",
		Name:            "mud_test",
		SSLMode:         "disable",
		MaxConns:        5,
		MinConns:        1,
		MaxConnLifetime: 5 * time.Minute,
	}
	pool, err := postgres.NewPool(ctx, dbCfg)
	if err != nil {
		t.Fatalf("connecting to test postgres: %v", err)
	}

	t.Cleanup(func() {
		pool.Close()
		_ = ctr.Terminate(ctx)
	})

	return &PostgresContainer{
		container: ctr,
		Pool:      pool,
		RawPool:   pool.DB(),
		Config:    dbCfg,
	}
}

// ApplyMigrations creates the progression schema directly, mirroring the
// files under migrations/, so tests do not shell out to the migrate tool.
//
// Postcondition: the characters and experience_log tables exist.
func (pc *PostgresContainer) ApplyMigrations(t *testing.T) {
	t.Helper()

	schema := `
		CREATE TABLE IF NOT EXISTS characters (
			id               TEXT         PRIMARY KEY,
			name             VARCHAR(64)  NOT NULL,
			experience       BIGINT       NOT NULL DEFAULT 0,
			max_vitality     INTEGER      NOT NULL,
			current_vitality INTEGER      NOT NULL,
			created_at       TIMESTAMPTZ  NOT NULL DEFAULT NOW(),
			updated_at       TIMESTAMPTZ  NOT NULL DEFAULT NOW()
		);
		CREATE TABLE IF NOT EXISTS experience_log (
			id           BIGSERIAL   PRIMARY KEY,
			character_id TEXT        NOT NULL REFERENCES characters (id),
			amount       INTEGER     NOT NULL,
			reason       VARCHAR(64) NOT NULL,
			granted_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE INDEX IF NOT EXISTS idx_experience_log_character
			ON experience_log (character_id);
	`
	if _, err := pc.RawPool.Exec(context.Background(), schema); err != nil {
		t.Fatalf("applying schema: %v", err)
	}
}

// SeedCharacter inserts a character row at full vitality.
func (pc *PostgresContainer) SeedCharacter(t *testing.T, id, name string, maxVitality int) {
	t.Helper()
	_, err := pc.RawPool.Exec(context.Background(), `
		INSERT INTO characters (id, name, max_vitality, current_vitality)
		VALUES ($1, $2, $3, $3)`,
		id, name, maxVitality,
	)
	if err != nil {
		t.Fatalf("seeding character %q: %v", id, err)
	}
}

// DSN returns the connection string for the containerized database.
func (pc *PostgresContainer) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		pc.Config.User, pc.Config.Password,
		pc.Config.Host, pc.Config.Port,
		pc.Config.Name, pc.Config.SSLMode,
	)
}
