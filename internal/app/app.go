// Package app wires the collaborators together and defines the background
// operations the UI can start: AI analysis, commit message drafting, release
// notes, semantic releases and tracker task search. Each Start helper
// snapshots the operation's inputs at call time and hands a self-contained
// task to the dispatcher.
package app

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"shipmate/internal/ai"
	"shipmate/internal/gitrepo"
	"shipmate/internal/ops"
	"shipmate/internal/tracker"
)

var (
	ErrNoChanges  = errors.New("no changes to analyze")
	ErrNoRepo     = errors.New("not inside a git repository")
	ErrNoTrackers = errors.New("no issue tracker is configured")
	ErrEmptyQuery = errors.New("search query is empty")
)

// snapshotTimeout bounds the call-time git reads done by the Start helpers.
const snapshotTimeout = 15 * time.Second

type Application struct {
	Config     Config
	Log        zerolog.Logger
	Repo       *gitrepo.Repo
	AI         ai.Client
	Trackers   []tracker.Searcher
	Dispatcher *ops.Dispatcher

	// MockMode is set when no Gemini token is configured and responses
	// come from the canned client.
	MockMode bool
}

func New(cfg Config, workDir string) (*Application, error) {
	log := NewLogger()

	a := &Application{
		Config:     cfg,
		Log:        log,
		Dispatcher: ops.NewDispatcher(log),
	}

	repo, err := gitrepo.Open(workDir)
	if err != nil {
		// Not fatal: the TUI still opens, repository-bound operations
		// fail with ErrNoRepo when started.
		log.Warn().Str("dir", workDir).Err(err).Msg("no git repository")
	} else {
		a.Repo = repo
	}

	if cfg.GeminiToken == "" {
		a.AI = &ai.Mock{}
		a.MockMode = true
		log.Info().Msg("no gemini token configured, using mock client")
	} else {
		client, err := ai.NewGemini(context.Background(), cfg.GeminiToken, cfg.GeminiModel, cfg.GeminiFallbackModel, log)
		if err != nil {
			return nil, err
		}
		a.AI = client
	}

	if cfg.JiraURL != "" && cfg.JiraUsername != "" && cfg.JiraAPIToken != "" {
		jira, err := tracker.NewJira(cfg.JiraURL, cfg.JiraUsername, cfg.JiraAPIToken)
		if err != nil {
			return nil, err
		}
		a.Trackers = append(a.Trackers, jira)
	}
	if cfg.MondayAPIKey != "" && cfg.MondayBoardID != "" {
		monday, err := tracker.NewMonday(cfg.MondayAPIKey, cfg.MondayBoardID, cfg.MondayURLTemplate)
		if err != nil {
			return nil, err
		}
		a.Trackers = append(a.Trackers, monday)
	}

	return a, nil
}

// snapshotChanges reads the current work-tree diff for operations that
// consume it. Returns ErrNoChanges on a clean tree so callers can report
// the user error synchronously instead of spawning a doomed worker.
func (a *Application) snapshotChanges() (string, error) {
	if a.Repo == nil {
		return "", ErrNoRepo
	}
	ctx, cancel := context.WithTimeout(context.Background(), snapshotTimeout)
	defer cancel()
	changes, err := a.Repo.DetailedChanges(ctx)
	if err != nil {
		return "", err
	}
	if changes == "" {
		return "", ErrNoChanges
	}
	return changes, nil
}

// snapshotHistory reads the last tag and the commits since it.
func (a *Application) snapshotHistory() (tag string, commits []gitrepo.Commit, err error) {
	if a.Repo == nil {
		return "", nil, ErrNoRepo
	}
	ctx, cancel := context.WithTimeout(context.Background(), snapshotTimeout)
	defer cancel()
	tag, err = a.Repo.LastTag(ctx)
	if err != nil {
		return "", nil, err
	}
	commits, err = a.Repo.CommitsSinceTag(ctx, tag)
	if err != nil {
		return "", nil, err
	}
	return tag, commits, nil
}
