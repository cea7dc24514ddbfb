//go:build integration

package postgres

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/vadimbarashkov/shortlink/internal/config"
	"github.com/vadimbarashkov/shortlink/internal/entity"
	"github.com/vadimbarashkov/shortlink/migrations"
	"github.com/vadimbarashkov/shortlink/pkg/postgres"
)

func setupPostgres(t testing.TB) config.Postgres {
	t.Helper()

	ctx := context.Background()

	pgUser := "test"
	pgPassword := "test"
	pgDB := "shortlink"

	pgCont, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image: "postgres:16-alpine",
			Env: map[string]string{
				"POSTGRES_USER":     pgUser,
				"POSTGRES_PASSWORD": pgPassword,
				"POSTGRES_DB":       pgDB,
			},
			ExposedPorts: []string{"5432/tcp"},
			WaitingFor:   wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
		},
		Started: true,
	})
	if err != nil {
		t.Fatalf("Failed to start postgres container: %v", err)
	}
	t.Cleanup(func() {
		if err := pgCont.Terminate(ctx); err != nil {
			t.Fatalf("Failed to terminate postgres container: %v", err)
		}
	})

	pgHost, err := pgCont.Host(ctx)
	if err != nil {
		t.Fatalf("Failed to get container host: %v", err)
	}
	pgPort, err := pgCont.MappedPort(ctx, "5432")
	if err != nil {
		t.Fatalf("Failed to get container port: %v", err)
	}

	return config.Postgres{
		User:     pgUser,
		Password: pgPassword,
		Host:     pgHost,
		Port:     pgPort.Int(),
		DB:       pgDB,
		SSLMode:  "disable",
	}
}

func TestKVRepository_Integration(t *testing.T) {
	ctx := context.Background()
	cfg := setupPostgres(t)

	require.NoError(t, postgres.RunMigrations(migrations.FS, ".", cfg.DSN()))

	db, err := postgres.New(ctx, cfg.DSN())
	require.NoError(t, err)
	t.Cleanup(func() {
		db.Close()
	})

	repo := NewKVRepository(db)

	_, err = repo.Get(ctx, "shortlink:history")
	assert.ErrorIs(t, err, entity.ErrKeyNotFound)

	require.NoError(t, repo.Put(ctx, "shortlink:history", []byte(`[{"shortCode":"a"}]`)))
	require.NoError(t, repo.Put(ctx, "shortlink:history", []byte(`[]`)))

	value, err := repo.Get(ctx, "shortlink:history")
	assert.NoError(t, err)
	assert.Equal(t, []byte(`[]`), value)
}
