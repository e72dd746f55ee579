package store

import (
	"context"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"

	"TaskWebService/commands"
)

const postgresSchema = `CREATE TABLE IF NOT EXISTS tasks (
	id SERIAL PRIMARY KEY,
	title TEXT NOT NULL,
	description TEXT,
	completed BOOLEAN
)`

// testcontainers panics when Docker is missing, so probe first.
func dockerAvailable() bool {
	return exec.Command("docker", "info").Run() == nil
}

func newPostgresStore(t *testing.T) *SQLStore {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping PostgreSQL integration test in short mode")
	}
	if !dockerAvailable() {
		t.Skip("Docker not available, skipping PostgreSQL integration test")
	}

	ctx := context.Background()
	container, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("tasks"),
		postgres.WithUsername("tasks"),
		postgres.WithPassword("tasks"),
		postgres.BasicWaitStrategies(),
	)
	if err != nil {
		t.Skipf("failed to start PostgreSQL container: %v", err)
	}
	t.Cleanup(func() {
		if err := testcontainers.TerminateContainer(container); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	})

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	s, err := Open(ctx, "", connStr, PoolConfig{MaxOpenConns: 4})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	_, err = s.DB().ExecContext(ctx, postgresSchema)
	require.NoError(t, err)
	return s
}

func TestPostgresLifecycle(t *testing.T) {
	s := newPostgresStore(t)
	ctx := context.Background()
	assert.Equal(t, Postgres, s.Dialect())

	tasks, err := s.ListAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, tasks)

	created, err := s.Create(ctx, "Buy milk", nil)
	require.NoError(t, err)
	assert.Equal(t, "Buy milk", created.Title)
	assert.Nil(t, created.Description)
	assert.Nil(t, created.Completed)

	updated, err := s.Update(ctx, created.Id, commands.UpdateTaskCommand{Completed: boolPtr(true)})
	require.NoError(t, err)
	assert.Equal(t, "Buy milk", updated.Title)
	require.NotNil(t, updated.Completed)
	assert.True(t, *updated.Completed)

	_, err = s.Update(ctx, created.Id+1000, commands.UpdateTaskCommand{})
	assert.ErrorIs(t, err, ErrNotFound)

	deleted, err := s.Delete(ctx, created.Id)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = s.Delete(ctx, created.Id)
	require.NoError(t, err)
	assert.False(t, deleted)
}
