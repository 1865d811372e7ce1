package app

import (
	"context"
	"strings"

	"shipmate/internal/ai"
	"shipmate/internal/ops"
)

// commitMessageTask drafts a conventional commit message for the snapshotted
// work-tree changes.
type commitMessageTask struct {
	client  ai.Client
	changes string
	result  string
}

func (t *commitMessageTask) Kind() ops.Kind { return ops.KindCommitMessage }

func (t *commitMessageTask) Steps() []ops.Step {
	return []ops.Step{
		{Name: "Inspecting repository changes", Run: t.check},
		{Name: "Drafting commit message", Run: t.generate},
	}
}

func (t *commitMessageTask) Result() string { return t.result }

func (t *commitMessageTask) check(context.Context) error {
	if strings.TrimSpace(t.changes) == "" {
		return ErrNoChanges
	}
	return nil
}

func (t *commitMessageTask) generate(ctx context.Context) error {
	out, err := t.client.GenerateText(ctx, ai.CommitMessagePrompt(t.changes))
	if err != nil {
		return err
	}
	t.result = strings.TrimSpace(out)
	return nil
}

// StartCommitMessage snapshots the current diff and starts the commit
// message draft operation.
func (a *Application) StartCommitMessage() (ops.OperationID, error) {
	changes, err := a.snapshotChanges()
	if err != nil {
		return "", err
	}
	return a.Dispatcher.Start(&commitMessageTask{client: a.AI, changes: changes})
}
