//go:build integration

package containers

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"testing"
	"time"

	_ "github.com/lib/pq"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// schema mirrors what the deployment migrations create. Kept inline so the
// integration suites are self-contained.
const schema = `
CREATE TABLE IF NOT EXISTS profiles (
	id                UUID PRIMARY KEY,
	user_id           UUID NOT NULL,
	kind              TEXT NOT NULL,
	customer_name     TEXT NOT NULL,
	date_of_birth     TIMESTAMPTZ,
	nationality       TEXT NOT NULL DEFAULT '',
	country           TEXT NOT NULL DEFAULT '',
	email             TEXT NOT NULL DEFAULT '',
	mobile            TEXT NOT NULL DEFAULT '',
	id_details        JSONB,
	search_categories TEXT[] NOT NULL DEFAULT '{}',
	match_score       INTEGER NOT NULL DEFAULT 0,
	is_exact_match    BOOLEAN NOT NULL DEFAULT FALSE,
	include_relatives BOOLEAN NOT NULL DEFAULT FALSE,
	include_aliases   BOOLEAN NOT NULL DEFAULT FALSE,
	status            TEXT NOT NULL,
	api_status        TEXT NOT NULL DEFAULT '',
	api_error         JSONB,
	api_result        JSONB,
	is_deleted        BOOLEAN NOT NULL DEFAULT FALSE,
	deleted_at        TIMESTAMPTZ,
	created_at        TIMESTAMPTZ NOT NULL,
	updated_at        TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_profiles_user_kind ON profiles (user_id, kind) WHERE is_deleted = FALSE;
CREATE INDEX IF NOT EXISTS idx_profiles_status ON profiles (status) WHERE is_deleted = FALSE;

CREATE TABLE IF NOT EXISTS search_history (
	id          UUID PRIMARY KEY,
	user_id     UUID NOT NULL,
	query       TEXT NOT NULL,
	search_type TEXT NOT NULL,
	profile_id  UUID NOT NULL,
	full_query  JSONB,
	api_result  JSONB,
	created_at  TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_search_history_user ON search_history (user_id, created_at DESC);
`

// PostgresContainer wraps a testcontainers Postgres instance with the schema
// already applied.
type PostgresContainer struct {
	Container testcontainers.Container
	DB        *sql.DB
	URL       string
}

// NewPostgresContainer starts a new Postgres container and applies the schema.
func NewPostgresContainer(t *testing.T) *PostgresContainer {
	t.Helper()

	ctx := context.Background()

	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("amlgate_test"),
		tcpostgres.WithUsername("amlgate"),
		tcpostgres.WithPassword("amlgate"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	url, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = container.Terminate(ctx)
		t.Fatalf("failed to get postgres connection string: %v", err)
	}

	db, err := sql.Open("postgres", url)
	if err != nil {
		_ = container.Terminate(ctx)
		t.Fatalf("failed to open postgres connection: %v", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		_ = container.Terminate(ctx)
		t.Fatalf("failed to ping postgres: %v", err)
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		_ = container.Terminate(ctx)
		t.Fatalf("failed to apply schema: %v", err)
	}

	// Shared via the Manager; Ryuk handles teardown.
	return &PostgresContainer{
		Container: container,
		DB:        db,
		URL:       url,
	}
}

// TruncateTables clears the given tables between tests.
func (p *PostgresContainer) TruncateTables(ctx context.Context, tables ...string) error {
	if len(tables) == 0 {
		return nil
	}
	_, err := p.DB.ExecContext(ctx,
		fmt.Sprintf("TRUNCATE TABLE %s CASCADE", strings.Join(tables, ", ")))
	return err
}
