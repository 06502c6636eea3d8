// Package preempt drives the scheduler's periodic preemption checkpoint
// from a real operating-system timer where the platform exposes one.
//
// It deliberately knows nothing about ready queues or tasks: it calls an
// opaque onTick callback on its own goroutine, once per period, until
// Stop is called. The scheduler package supplies a callback that sets a
// preempt-requested flag observed by Scheduler.Checkpoint.
package preempt

import "sync"

// Timer drives a periodic callback until stopped.
type Timer struct {
	once sync.Once
	stop func()
}

// Stop halts the timer. It is safe to call more than once.
func (t *Timer) Stop() {
	if t == nil {
		return
	}
	t.once.Do(func() {
		if t.stop != nil {
			t.stop()
		}
	})
}
