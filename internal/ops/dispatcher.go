package ops

import (
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Dispatcher is the only entry point for starting background work. It
// enforces single-flight per kind, spawns one worker goroutine per
// operation and exposes the non-blocking query surface the render loop
// consumes every frame.
type Dispatcher struct {
	bus *Bus
	reg *registry
	log zerolog.Logger

	mu     sync.Mutex
	tokens map[OperationID]*Token
}

func NewDispatcher(log zerolog.Logger) *Dispatcher {
	return &Dispatcher{
		bus:    NewBus(),
		reg:    newRegistry(),
		log:    log,
		tokens: make(map[OperationID]*Token),
	}
}

// Start registers task and schedules its worker, returning as soon as the
// worker is spawned, never when it finishes. While an operation of the same
// kind is in flight it fails with *AlreadyRunningError.
func (d *Dispatcher) Start(task Task) (OperationID, error) {
	id, err := d.reg.begin(task.Kind())
	if err != nil {
		return "", err
	}
	tok := newToken()
	d.mu.Lock()
	d.tokens[id] = tok
	d.mu.Unlock()

	d.log.Info().
		Str("op", string(id)).
		Str("kind", string(task.Kind())).
		Msg("operation started")

	go d.run(id, task, tok)
	return id, nil
}

// Subscribe returns a new receiver for operation events. The consumer drains
// it with TryNext; it must never block on it.
func (d *Dispatcher) Subscribe() *Subscriber {
	return d.bus.Subscribe()
}

func (d *Dispatcher) Unsubscribe(sub *Subscriber) {
	d.bus.Unsubscribe(sub)
}

// GetStatus returns an immutable snapshot of one operation. O(1), no I/O.
func (d *Dispatcher) GetStatus(id OperationID) (Status, bool) {
	return d.reg.get(id)
}

// ListRunning returns the in-flight operations ordered by kind.
func (d *Dispatcher) ListRunning() []Running {
	return d.reg.listRunning()
}

// Cancel requests cooperative cancellation of an in-flight operation. It
// returns ErrNotFound for unknown ids and ErrAlreadyTerminal once the
// operation has finished.
func (d *Dispatcher) Cancel(id OperationID) error {
	st, ok := d.reg.get(id)
	if !ok {
		return ErrNotFound
	}
	if st.State.Terminal() {
		return ErrAlreadyTerminal
	}
	d.mu.Lock()
	tok := d.tokens[id]
	d.mu.Unlock()
	if tok == nil {
		// Finished between the status read and the token lookup.
		return ErrAlreadyTerminal
	}
	tok.Cancel()
	return nil
}

// Remove evicts one terminal operation from the registry.
func (d *Dispatcher) Remove(id OperationID) {
	d.reg.remove(id)
}

// Sweep evicts terminal operations older than maxAge and returns how many
// were removed. The UI calls this opportunistically to bound memory.
func (d *Dispatcher) Sweep(maxAge time.Duration) int {
	return d.reg.sweep(maxAge)
}
