// Package store is the persistence layer for tasks.
//
// It issues one parameterized SQL statement per operation (two on MySQL, which
// has no RETURNING clause) against the tasks table and maps rows to
// models.Task values. Nothing is cached and nothing is retried.
package store

import (
	"context"
	"errors"
	"fmt"

	"TaskWebService/commands"
	"TaskWebService/models"
)

// ErrNotFound is returned when an id-addressed operation matches no row.
var ErrNotFound = errors.New("task not found")

// TaskStore is the set of operations the handlers need from the database.
type TaskStore interface {
	ListAll(ctx context.Context) ([]models.Task, error)
	Create(ctx context.Context, title string, description *string) (models.Task, error)
	Update(ctx context.Context, id int64, patch commands.UpdateTaskCommand) (models.Task, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

// StoreError wraps a failure reported by the database driver.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s tasks: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

func storeError(op string, err error) error {
	return &StoreError{Op: op, Err: err}
}
