package syncprim

import (
	"greenrt/sched"
	"greenrt/sched/schedlog"
)

var condLog = schedlog.Component("cond")

// Cond is a condition variable whose waiters are tasks known to a single
// sched.Scheduler. It has no association with any particular Mutex: the
// mutex, if any, is supplied fresh on every Wait call. Its zero value is
// not usable; use NewCond.
type Cond struct {
	s       *sched.Scheduler
	waiters sched.Queue
}

// NewCond returns a Cond bound to s.
func NewCond(s *sched.Scheduler) *Cond {
	return &Cond{s: s}
}

// Wait suspends the calling task on c. If m is non-nil, releasing m and
// suspending on c happen atomically with respect to Signal: no signal
// can fall between the release of m and the suspension, and none can be
// delivered twice for the same wakeup. Wait calls Checkpoint before it
// enqueues the caller, so a forced yield can run other tasks first; a
// Signal sent by one of them without holding m finds no waiter and is
// lost. On return, if m was supplied, it
// is held again by the caller — Wait performs the equivalent of Unlock
// before parking and the equivalent of Lock before returning, without
// ever leaving the critical section in between (for the unlock half) or
// deferring it past the resume (for the lock half's own loop).
//
// m may be nil: the caller then suspends unconditionally, with nothing
// released or re-acquired around the suspension.
func (c *Cond) Wait(m *Mutex) {
	s := c.s
	s.Checkpoint()
	s.EnterCritical()

	cur := s.Current()
	c.waiters.Push(cur)

	if m != nil {
		if !m.waiters.Empty() {
			w := m.waiters.Pop()
			s.ReadyPush(w)
		}
		m.taken = false
	}

	next := s.ReadyPop()
	s.SetCurrent(next)
	condLog.WithField("task", cur.ID()).Trace("wait: blocking")
	s.SwitchTo(cur, next)

	if m != nil {
		s.EnterCritical()
		for m.taken {
			cur2 := s.Current()
			m.waiters.Push(cur2)
			next2 := s.ReadyPop()
			s.SetCurrent(next2)
			s.SwitchTo(cur2, next2)
			s.EnterCritical()
		}
		m.taken = true
		s.LeaveCritical()
	}
}

// Signal wakes at most one task waiting in c's queue by moving it to the
// scheduler's ready queue. It does not touch any mutex: a woken waiter
// reacquires its mutex, if any, on its own once resumed. Signaling a
// condition with no waiters is a no-op; signals are not counted or
// stored for a future waiter.
func (c *Cond) Signal() {
	s := c.s
	s.EnterCritical()
	if !c.waiters.Empty() {
		w := c.waiters.Pop()
		s.ReadyPush(w)
	}
	s.LeaveCritical()
}
