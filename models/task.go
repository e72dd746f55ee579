// Package models contains the data models for the application to be used in request handling.
package models

// Task represents a task in the system.
// Task has the following properties:
// - Id: The unique identifier of the task, assigned by the database.
// - Title: The title of the task. Never null once stored.
// - Description: The optional description of the task.
// - Completed: The optional completion flag of the task.
//
// Description and Completed are pointers so that a missing value is encoded as JSON null.
type Task struct {
	Id          int64   `json:"id"`
	Title       string  `json:"title"`
	Description *string `json:"description"`
	Completed   *bool   `json:"completed"`
}
