package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"TaskWebService/commands"
	"TaskWebService/models"
)

const taskColumns = "id, title, description, completed"

// PoolConfig holds the connection pool limits. Zero values keep the
// database/sql defaults.
type PoolConfig struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// SQLStore implements TaskStore on top of a database/sql connection pool.
type SQLStore struct {
	db      *sql.DB
	dialect Dialect
}

var _ TaskStore = (*SQLStore)(nil)

// NewSQLStore wraps an already opened pool. The tasks table must exist.
func NewSQLStore(db *sql.DB, dialect Dialect) *SQLStore {
	return &SQLStore{db: db, dialect: dialect}
}

// Open opens and pings a connection pool for the given connection string.
// An empty driver is inferred from the connection string.
func Open(ctx context.Context, driver, databaseURL string, pool PoolConfig) (*SQLStore, error) {
	dialect, dsn, err := ResolveDialect(driver, databaseURL)
	if err != nil {
		return nil, err
	}
	db, err := sql.Open(dialect.DriverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if pool.MaxOpenConns > 0 {
		db.SetMaxOpenConns(pool.MaxOpenConns)
	}
	if pool.MaxIdleConns > 0 {
		db.SetMaxIdleConns(pool.MaxIdleConns)
	}
	if pool.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(pool.ConnMaxLifetime)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("connecting to database: %w", err)
	}
	return NewSQLStore(db, dialect), nil
}

// Dialect returns the dialect the store generates SQL for.
func (s *SQLStore) Dialect() Dialect {
	return s.dialect
}

// DB returns the underlying connection pool.
func (s *SQLStore) DB() *sql.DB {
	return s.db
}

// Close closes the connection pool.
func (s *SQLStore) Close() error {
	return s.db.Close()
}

// ListAll returns every task in the table. The order is whatever the
// database scan yields.
func (s *SQLStore) ListAll(ctx context.Context) ([]models.Task, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT "+taskColumns+" FROM tasks")
	if err != nil {
		return nil, storeError("list", err)
	}
	defer rows.Close()

	tasks := []models.Task{}
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, storeError("list", err)
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, storeError("list", err)
	}
	return tasks, nil
}

// Create inserts a task and returns the stored row, including its id.
func (s *SQLStore) Create(ctx context.Context, title string, description *string) (models.Task, error) {
	d := s.dialect
	query := fmt.Sprintf("INSERT INTO tasks (title, description) VALUES (%s, %s)",
		d.Placeholder(1), d.Placeholder(2))

	if d.Returning {
		task, err := scanTask(s.db.QueryRowContext(ctx, query+" RETURNING "+taskColumns, title, description))
		if err != nil {
			return models.Task{}, storeError("create", err)
		}
		return task, nil
	}

	result, err := s.db.ExecContext(ctx, query, title, description)
	if err != nil {
		return models.Task{}, storeError("create", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return models.Task{}, storeError("create", err)
	}
	task, err := s.get(ctx, id)
	if err != nil {
		return models.Task{}, storeError("create", err)
	}
	return task, nil
}

// Update applies patch to the task with the given id. Fields left nil in the
// patch keep their stored value. ErrNotFound is returned if no row has the id.
func (s *SQLStore) Update(ctx context.Context, id int64, patch commands.UpdateTaskCommand) (models.Task, error) {
	d := s.dialect
	query := fmt.Sprintf(`UPDATE tasks
		SET title = COALESCE(%s, title),
			description = COALESCE(%s, description),
			completed = COALESCE(%s, completed)
		WHERE id = %s`,
		d.Placeholder(1), d.Placeholder(2), d.Placeholder(3), d.Placeholder(4))
	args := []any{patch.Title, patch.Description, patch.Completed, id}

	if d.Returning {
		task, err := scanTask(s.db.QueryRowContext(ctx, query+" RETURNING "+taskColumns, args...))
		if errors.Is(err, sql.ErrNoRows) {
			return models.Task{}, ErrNotFound
		}
		if err != nil {
			return models.Task{}, storeError("update", err)
		}
		return task, nil
	}

	// MySQL reports changed rows rather than matched rows, so a no-op patch
	// looks the same as a missing id. Read the row back to tell them apart.
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return models.Task{}, storeError("update", err)
	}
	task, err := s.get(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Task{}, ErrNotFound
	}
	if err != nil {
		return models.Task{}, storeError("update", err)
	}
	return task, nil
}

// Delete removes the task with the given id and reports whether a row was
// removed. A missing id is not an error.
func (s *SQLStore) Delete(ctx context.Context, id int64) (bool, error) {
	query := "DELETE FROM tasks WHERE id = " + s.dialect.Placeholder(1)
	result, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		return false, storeError("delete", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, storeError("delete", err)
	}
	return affected > 0, nil
}

func (s *SQLStore) get(ctx context.Context, id int64) (models.Task, error) {
	query := "SELECT " + taskColumns + " FROM tasks WHERE id = " + s.dialect.Placeholder(1)
	return scanTask(s.db.QueryRowContext(ctx, query, id))
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (models.Task, error) {
	var (
		task        models.Task
		description sql.NullString
		completed   sql.NullBool
	)
	if err := row.Scan(&task.Id, &task.Title, &description, &completed); err != nil {
		return models.Task{}, err
	}
	if description.Valid {
		task.Description = &description.String
	}
	if completed.Valid {
		task.Completed = &completed.Bool
	}
	return task, nil
}
