// Package tracker holds the issue-tracker collaborators (Jira, Monday)
// queried by the task-search operation. Each client owns its own HTTP
// timeouts; the orchestration core never retries on their behalf.
package tracker

import "context"

// Task is one normalized issue-tracker item.
type Task struct {
	ID     string
	Key    string
	Title  string
	Status string
	URL    string
	Source string
}

// Searcher finds tasks matching a free-text query.
type Searcher interface {
	SearchTasks(ctx context.Context, query string) ([]Task, error)
}
