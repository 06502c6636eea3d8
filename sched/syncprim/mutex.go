// Package syncprim implements the two blocking primitives built on top
// of a sched.Scheduler's own ready queue: Mutex and Cond. Neither owns
// any OS-level synchronization; "blocked" means "parked on the
// primitive's own waiter queue, off this scheduler's ready queue, until
// a wake moves it back to the ready queue".
package syncprim

import (
	"greenrt/sched"
	"greenrt/sched/schedlog"
)

var mutexLog = schedlog.Component("mutex")

// Mutex is a non-reentrant lock whose waiters are tasks known to a
// single sched.Scheduler. Its zero value is not usable; use NewMutex.
type Mutex struct {
	s       *sched.Scheduler
	taken   bool
	waiters sched.Queue
}

// NewMutex returns an unlocked Mutex bound to s.
func NewMutex(s *sched.Scheduler) *Mutex {
	return &Mutex{s: s}
}

// Lock acquires the mutex, blocking the calling task if it is already
// taken. Waiters are released in FIFO order by Unlock, but a released
// waiter does not inherit ownership: it re-races the taken check against
// any task that runs before it is actually resumed, so the mutex is not
// strictly FIFO end-to-end across preemption even though its waiter
// queue is. See Unlock.
func (m *Mutex) Lock() {
	s := m.s
	s.Checkpoint()
	s.EnterCritical()
	for m.taken {
		cur := s.Current()
		m.waiters.Push(cur)
		next := s.ReadyPop()
		s.SetCurrent(next)
		mutexLog.WithField("task", cur.ID()).Trace("lock: blocking")
		s.SwitchTo(cur, next)
		s.EnterCritical()
	}
	m.taken = true
	s.LeaveCritical()
}

// Unlock releases the mutex and, if any task is waiting, moves exactly
// one of them to the scheduler's ready queue. This is "release then
// wake": the woken waiter does not receive ownership directly and must
// re-acquire through its own Lock loop, so a newly arriving Lock call
// can win the race against it. Unlock does not verify the caller holds
// the lock; calling it on a mutex you did not lock is undefined, as
// specified.
func (m *Mutex) Unlock() {
	s := m.s
	s.EnterCritical()
	if !m.waiters.Empty() {
		w := m.waiters.Pop()
		s.ReadyPush(w)
	}
	m.taken = false
	s.LeaveCritical()
}
