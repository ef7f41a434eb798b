//go:build integration

package migrations

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func getTestDB(t *testing.T) *sql.DB {
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("booking"),
		postgres.WithUsername("user"),
		postgres.WithPassword("password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := sql.Open("pgx", dsn)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = db.Close()
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	})
	return db
}

func getMigrationsPath(t *testing.T) string {
	projectRoot, err := filepath.Abs("../..")
	require.NoError(t, err)
	return filepath.Join(projectRoot, "migrations")
}

func tableExists(t *testing.T, db *sql.DB, name string) bool {
	var exists bool
	err := db.QueryRow(`
		SELECT EXISTS (
			SELECT 1 FROM information_schema.tables
			WHERE table_schema = 'public' AND table_name = $1
		)`, name).Scan(&exists)
	require.NoError(t, err)
	return exists
}

func TestRunMigrations(t *testing.T) {
	db := getTestDB(t)

	require.NoError(t, Run(db, getMigrationsPath(t)))

	for _, table := range []string{"users", "rooms", "teams", "meetings"} {
		require.True(t, tableExists(t, db, table), "table %s should exist", table)
	}

	_, err := db.Exec(`INSERT INTO users (username, password_hash) VALUES ('alice', 'h')`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO users (username, password_hash) VALUES ('alice', 'h2')`)
	require.Error(t, err, "username must be unique")
}

func TestMeetingsNoOverlap(t *testing.T) {
	db := getTestDB(t)
	require.NoError(t, Run(db, getMigrationsPath(t)))

	var userID, roomID int64
	require.NoError(t, db.QueryRow(`INSERT INTO users (username, password_hash) VALUES ('alice', 'h') RETURNING id`).Scan(&userID))
	require.NoError(t, db.QueryRow(`INSERT INTO rooms (name, capacity) VALUES ('Blue', 4) RETURNING id`).Scan(&roomID))

	insert := `INSERT INTO meetings (title, room_id, organizer_id, start_at, end_at) VALUES ($1, $2, $3, $4, $5) RETURNING id`
	start := time.Date(2026, 10, 14, 10, 0, 0, 0, time.UTC)

	var firstID int64
	require.NoError(t, db.QueryRow(insert, "a", roomID, userID, start, start.Add(time.Hour)).Scan(&firstID))

	_, err := db.Exec(insert, "b", roomID, userID, start.Add(30*time.Minute), start.Add(90*time.Minute))
	var pgErr *pgconn.PgError
	require.ErrorAs(t, err, &pgErr)
	require.Equal(t, pgerrcode.ExclusionViolation, pgErr.Code)

	_, err = db.Exec(insert, "adjacent", roomID, userID, start.Add(time.Hour), start.Add(2*time.Hour))
	require.NoError(t, err, "half-open intervals may touch")

	_, err = db.Exec(`UPDATE meetings SET deleted_at = NOW() WHERE id = $1`, firstID)
	require.NoError(t, err)
	_, err = db.Exec(insert, "b", roomID, userID, start.Add(30*time.Minute), start.Add(50*time.Minute))
	require.NoError(t, err, "cancelled meetings do not block the slot")
}

func TestMigrationIdempotency(t *testing.T) {
	db := getTestDB(t)
	path := getMigrationsPath(t)

	require.NoError(t, Run(db, path))
	require.NoError(t, Run(db, path))
}
