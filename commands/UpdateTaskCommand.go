package commands

// UpdateTaskCommand represents a partial update of a task.
// A nil field leaves the stored value unchanged.
type UpdateTaskCommand struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Completed   *bool   `json:"completed"`
}
