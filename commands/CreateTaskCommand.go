// Package commands contains the commands for the application to be used for request inputs.
package commands

// CreateTaskCommand represents a command to create a task.
// Title is a pointer so a missing or null title fails the required check,
// while an empty string is still accepted.
type CreateTaskCommand struct {
	Title       *string `json:"title" validate:"required"`
	Description *string `json:"description"`
}
