package ops

import (
	"context"
	"sync/atomic"
)

// Token carries the cooperative cancellation signal for one operation.
// Cancellation is advisory: it takes effect the next time the worker reaches
// a checkpoint, there is no preemption. The token also owns the operation's
// context scope, which context-aware collaborators may additionally observe.
type Token struct {
	ctx    context.Context
	cancel context.CancelFunc
	flag   atomic.Bool
}

func newToken() *Token {
	ctx, cancel := context.WithCancel(context.Background())
	return &Token{ctx: ctx, cancel: cancel}
}

// Cancel requests cancellation. Safe to call any number of times from any
// goroutine.
func (t *Token) Cancel() {
	t.flag.Store(true)
	t.cancel()
}

// Cancelled reports whether cancellation was requested. Eventual visibility
// is sufficient; workers poll this at checkpoints.
func (t *Token) Cancelled() bool {
	return t.flag.Load()
}

// Context is the operation-scoped context passed to every step.
func (t *Token) Context() context.Context {
	return t.ctx
}

// release tears the context scope down without marking the token cancelled.
// The worker defers this on every exit path.
func (t *Token) release() {
	t.cancel()
}
