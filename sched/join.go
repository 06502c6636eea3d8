package sched

import "github.com/sirupsen/logrus"

// Join blocks the calling task until t's entry function has returned.
// Joining an already-finished task returns immediately without a
// context switch. Multiple tasks may join the same target: they are
// queued LIFO onto t.joinWaiters, threaded through each waiter's own
// next, and are all moved to ready, in that LIFO order, when t
// terminates — spec §4.2's documented (not "fixed") insertion order; see
// DESIGN.md for why this module keeps it rather than switching to FIFO.
func (t *Task) Join() {
	if t.done.Load() {
		return
	}

	s := t.sched
	s.Checkpoint()
	s.mu.Lock()

	// Re-check under the critical section: t may have terminated
	// between the fast-path load above and acquiring the gate.
	if t.done.Load() {
		s.mu.Unlock()
		return
	}

	cur := s.running
	cur.next = t.joinWaiters
	t.joinWaiters = cur

	next := s.ready.Pop()
	s.running = next
	s.log.WithFields(logrus.Fields{"joiner": cur.id, "target": t.id}).Trace("join: blocking")
	s.SwitchTo(cur, next)
}
