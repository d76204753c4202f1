// Package inflight implements latest-wins sequencing for request/response
// calls: starting a new call cancels the previous one, and only the most
// recently started call may publish its result.
package inflight

import (
	"context"
	"sync"
)

type Tracker struct {
	mu     sync.Mutex
	seq    uint64
	cancel context.CancelFunc
}

// Begin starts a new call. The previous call's context is cancelled. The
// returned done func must be called when the call finishes.
func (t *Tracker) Begin(ctx context.Context) (context.Context, uint64, func()) {
	callCtx, cancel := context.WithCancel(ctx)

	t.mu.Lock()
	if t.cancel != nil {
		t.cancel()
	}
	t.seq++
	seq := t.seq
	t.cancel = cancel
	t.mu.Unlock()

	done := func() {
		t.mu.Lock()
		if t.seq == seq {
			t.cancel = nil
		}
		t.mu.Unlock()
		cancel()
	}
	return callCtx, seq, done
}

// IsCurrent reports whether seq is still the latest call.
func (t *Tracker) IsCurrent(seq uint64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.seq == seq
}

// Commit runs fn under the tracker lock if seq is still current, so that a
// newer call cannot start between the check and the state update.
func (t *Tracker) Commit(seq uint64, fn func()) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.seq != seq {
		return false
	}
	fn()
	return true
}

// Cancel aborts the in-flight call, if any, and invalidates its sequence.
func (t *Tracker) Cancel() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.cancel != nil {
		t.cancel()
		t.cancel = nil
	}
	t.seq++
}
