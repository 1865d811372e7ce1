package ops

import "time"

// run is the worker harness. It executes the task's steps in order, with a
// cancellation checkpoint and a progress event before each one, and
// guarantees exactly one terminal event plus registry flip on every exit
// path: success, step failure, cancellation or panic. The token's context
// scope is torn down by defer regardless of how the worker exits, and no
// dispatcher lock is held while a step runs.
func (d *Dispatcher) run(id OperationID, task Task, tok *Token) {
	kind := task.Kind()

	defer func() {
		if r := recover(); r != nil {
			d.log.Error().
				Str("op", string(id)).
				Str("kind", string(kind)).
				Interface("panic", r).
				Msg("worker panic recovered")
			d.finish(id, kind, StateFailed, "", "internal error")
		}
		tok.release()
		d.mu.Lock()
		delete(d.tokens, id)
		d.mu.Unlock()
	}()

	d.reg.markRunning(id)

	for _, step := range task.Steps() {
		if tok.Cancelled() {
			d.finish(id, kind, StateCancelled, "", "")
			return
		}
		d.progress(id, kind, step.Name)
		if err := step.Run(tok.Context()); err != nil {
			if tok.Cancelled() {
				// The step aborted because its context was cancelled;
				// report that rather than the collaborator's error.
				d.finish(id, kind, StateCancelled, "", "")
				return
			}
			d.log.Warn().
				Str("op", string(id)).
				Str("kind", string(kind)).
				Str("step", step.Name).
				Err(err).
				Msg("operation step failed")
			d.finish(id, kind, StateFailed, "", err.Error())
			return
		}
	}

	if tok.Cancelled() {
		d.finish(id, kind, StateCancelled, "", "")
		return
	}
	d.finish(id, kind, StateCompleted, task.Result(), "")
}

func (d *Dispatcher) progress(id OperationID, kind Kind, text string) {
	d.reg.progress(id, text)
	d.bus.Publish(Event{
		ID:   id,
		Kind: kind,
		Type: EventProgress,
		Text: text,
		Time: time.Now(),
	})
}

// finish performs the terminal registry transition and publishes the
// matching event. The registry decides the race: whichever caller flips the
// state first publishes, every later attempt is a silent no-op.
func (d *Dispatcher) finish(id OperationID, kind Kind, state State, result, errMsg string) {
	if !d.reg.finish(id, state, result, errMsg) {
		return
	}
	ev := Event{ID: id, Kind: kind, Time: time.Now()}
	switch state {
	case StateCompleted:
		ev.Type = EventCompleted
		ev.Result = result
	case StateFailed:
		ev.Type = EventFailed
		ev.Err = errMsg
	case StateCancelled:
		ev.Type = EventCancelled
	default:
		return
	}
	d.bus.Publish(ev)
}
