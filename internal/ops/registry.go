package ops

import (
	"errors"
	"sort"
	"sync"
	"time"
)

var (
	ErrNotFound        = errors.New("operation not found")
	ErrAlreadyTerminal = errors.New("operation already finished")
)

// registry is the single source of truth for operation state. It is owned by
// the Dispatcher; the lock is held only for map operations, never across I/O.
//
// State machine: pending -> running -> {completed, failed, cancelled}.
// Terminal states are sticky; re-finishing is a no-op.
type registry struct {
	mu       sync.Mutex
	ops      map[OperationID]*Status
	inflight map[Kind]OperationID
}

func newRegistry() *registry {
	return &registry{
		ops:      make(map[OperationID]*Status),
		inflight: make(map[Kind]OperationID),
	}
}

// begin atomically checks the single-flight guard for kind and inserts a new
// pending entry. The check and the insert share one critical section so two
// near-simultaneous starts of the same kind cannot both win.
func (r *registry) begin(kind Kind) (OperationID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, busy := r.inflight[kind]; busy {
		return "", &AlreadyRunningError{Kind: kind}
	}
	id := newOperationID()
	r.ops[id] = &Status{ID: id, Kind: kind, State: StatePending}
	r.inflight[kind] = id
	return id, nil
}

// markRunning flips a pending entry to running. Called by the worker as its
// first action, so the registry never claims work is running without a
// live worker behind it.
func (r *registry) markRunning(id OperationID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	st, ok := r.ops[id]
	if !ok || st.State != StatePending {
		return
	}
	st.State = StateRunning
	st.StartedAt = time.Now()
}

func (r *registry) progress(id OperationID, text string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	st, ok := r.ops[id]
	if !ok || st.State.Terminal() {
		return
	}
	st.Message = text
}

// finish moves an operation to a terminal state and releases its kind's
// single-flight slot. Returns false when the operation is unknown or already
// terminal, in which case nothing changed.
func (r *registry) finish(id OperationID, state State, result, errMsg string) bool {
	if !state.Terminal() {
		return false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	st, ok := r.ops[id]
	if !ok || st.State.Terminal() {
		return false
	}
	st.State = state
	st.Result = result
	st.Err = errMsg
	st.FinishedAt = time.Now()
	if r.inflight[st.Kind] == id {
		delete(r.inflight, st.Kind)
	}
	return true
}

func (r *registry) get(id OperationID) (Status, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	st, ok := r.ops[id]
	if !ok {
		return Status{}, false
	}
	return *st, true
}

func (r *registry) listRunning() []Running {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Running, 0, len(r.inflight))
	for kind, id := range r.inflight {
		out = append(out, Running{Kind: kind, ID: id})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Kind < out[j].Kind })
	return out
}

// remove evicts a terminal entry. In-flight operations are kept so the
// single-flight guard stays intact.
func (r *registry) remove(id OperationID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	st, ok := r.ops[id]
	if !ok || !st.State.Terminal() {
		return
	}
	delete(r.ops, id)
}

// sweep evicts terminal entries that finished more than maxAge ago and
// returns how many were removed.
func (r *registry) sweep(maxAge time.Duration) int {
	cutoff := time.Now().Add(-maxAge)
	r.mu.Lock()
	defer r.mu.Unlock()
	removed := 0
	for id, st := range r.ops {
		if st.State.Terminal() && st.FinishedAt.Before(cutoff) {
			delete(r.ops, id)
			removed++
		}
	}
	return removed
}
