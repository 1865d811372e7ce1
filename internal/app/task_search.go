package app

import (
	"context"
	"fmt"
	"strings"

	"shipmate/internal/ops"
	"shipmate/internal/tracker"
)

// taskSearchTask queries every configured tracker sequentially and merges
// the results. One tracker failing fails the operation; partial results are
// not reported.
type taskSearchTask struct {
	trackers []tracker.Searcher
	query    string

	tasks  []tracker.Task
	result string
}

func (t *taskSearchTask) Kind() ops.Kind { return ops.KindTaskSearch }

func (t *taskSearchTask) Steps() []ops.Step {
	return []ops.Step{
		{Name: "Searching issue trackers", Run: t.search},
		{Name: "Formatting results", Run: t.format},
	}
}

func (t *taskSearchTask) Result() string { return t.result }

func (t *taskSearchTask) search(ctx context.Context) error {
	for _, s := range t.trackers {
		found, err := s.SearchTasks(ctx, t.query)
		if err != nil {
			return err
		}
		t.tasks = append(t.tasks, found...)
	}
	return nil
}

func (t *taskSearchTask) format(context.Context) error {
	if len(t.tasks) == 0 {
		t.result = fmt.Sprintf("No tasks found for %q", t.query)
		return nil
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Found %d task(s) for %q:\n\n", len(t.tasks), t.query)
	for _, task := range t.tasks {
		label := task.Key
		if label == "" {
			label = task.ID
		}
		fmt.Fprintf(&b, "[%s] %s: %s", task.Source, label, task.Title)
		if task.Status != "" {
			fmt.Fprintf(&b, " (%s)", task.Status)
		}
		b.WriteString("\n")
		if task.URL != "" {
			fmt.Fprintf(&b, "      %s\n", task.URL)
		}
	}
	t.result = strings.TrimRight(b.String(), "\n")
	return nil
}

// StartTaskSearch starts a search across the configured trackers. Missing
// trackers and empty queries are reported synchronously.
func (a *Application) StartTaskSearch(query string) (ops.OperationID, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return "", ErrEmptyQuery
	}
	if len(a.Trackers) == 0 {
		return "", ErrNoTrackers
	}
	return a.Dispatcher.Start(&taskSearchTask{trackers: a.Trackers, query: query})
}
