// Package fetch sequences list requests so that only the most recent one is
// ever applied.
package fetch

import (
	"context"
	"sync"
)

// Ticket identifies one issued request.
type Ticket struct {
	Seq uint64
	Ctx context.Context
}

// Tracker hands out tickets with increasing sequence numbers. Issuing a new
// ticket cancels the previous request, and Accept only admits the latest.
type Tracker struct {
	mu      sync.Mutex
	parent  context.Context
	seq     uint64
	cancel  context.CancelFunc
	stopped bool
}

// NewTracker returns a tracker whose requests derive from parent.
func NewTracker(parent context.Context) *Tracker {
	if parent == nil {
		parent = context.Background()
	}
	return &Tracker{parent: parent}
}

// Begin cancels any in-flight request and issues a new ticket. After Stop the
// returned context is already cancelled.
func (t *Tracker) Begin() Ticket {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.cancel != nil {
		t.cancel()
	}
	t.seq++
	ctx, cancel := context.WithCancel(t.parent)
	if t.stopped {
		cancel()
	}
	t.cancel = cancel
	return Ticket{Seq: t.seq, Ctx: ctx}
}

// Accept reports whether a response for seq may be applied.
func (t *Tracker) Accept(seq uint64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return !t.stopped && seq == t.seq
}

// Latest returns the most recently issued sequence number.
func (t *Tracker) Latest() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.seq
}

// Stop cancels the in-flight request and rejects every later response.
func (t *Tracker) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopped = true
	if t.cancel != nil {
		t.cancel()
		t.cancel = nil
	}
}

// Stopped reports whether Stop was called.
func (t *Tracker) Stopped() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stopped
}
