package app

import (
	"context"
	"strings"

	"shipmate/internal/ai"
	"shipmate/internal/ops"
)

// analysisTask runs the comprehensive AI review of the pending work-tree
// changes. The diff is snapshotted before the worker starts; the task never
// reads live repository state.
type analysisTask struct {
	client  ai.Client
	changes string
	result  string
}

func (t *analysisTask) Kind() ops.Kind { return ops.KindAIAnalysis }

func (t *analysisTask) Steps() []ops.Step {
	return []ops.Step{
		{Name: "Inspecting repository changes", Run: t.check},
		{Name: "Generating AI analysis", Run: t.generate},
	}
}

func (t *analysisTask) Result() string { return t.result }

func (t *analysisTask) check(context.Context) error {
	if strings.TrimSpace(t.changes) == "" {
		return ErrNoChanges
	}
	return nil
}

func (t *analysisTask) generate(ctx context.Context) error {
	out, err := t.client.GenerateText(ctx, ai.AnalysisPrompt(t.changes))
	if err != nil {
		return err
	}
	t.result = out
	return nil
}

// StartAnalysis snapshots the current diff and starts the AI analysis
// operation. A clean work tree is reported synchronously as ErrNoChanges.
func (a *Application) StartAnalysis() (ops.OperationID, error) {
	changes, err := a.snapshotChanges()
	if err != nil {
		return "", err
	}
	return a.StartAnalysisOf(changes)
}

// StartAnalysisOf starts the analysis for an already-captured diff.
func (a *Application) StartAnalysisOf(changes string) (ops.OperationID, error) {
	return a.Dispatcher.Start(&analysisTask{client: a.AI, changes: changes})
}
