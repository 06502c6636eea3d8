// Package sched implements a user-space, single-logical-thread scheduler
// for green tasks: cooperative scheduling plus a periodic preemption
// checkpoint, a FIFO ready queue, and join semantics. Mutex and condition
// variable primitives that build on the same ready queue live in the
// sibling syncprim package.
package sched

import "sync/atomic"

// Task is a green task descriptor. Its zero value is not usable; obtain
// one from Scheduler.Spawn or Scheduler.Main.
//
// A Task is a member of at most one queue at a time via next: the ready
// queue, a Mutex's waiters, a Cond's waiters, or (while a joiner) the
// joinWaiters chain of the task it joins. The joined task itself is not
// enqueued anywhere on its joiners' account.
type Task struct {
	id    uint64
	entry func(arg any)
	arg   any

	// resume is the Go stand-in for a saved machine context: a task
	// parked on <-resume is a task suspended exactly where it called
	// into the scheduler; sending on resume is installing that context
	// and handing it control of the one logical thread.
	resume chan struct{}

	// next links this task into whichever queue currently holds it, or
	// (for a blocked joiner) into the joinWaiters chain of the task it
	// is waiting on.
	next *Task

	// joinWaiters is the head of the LIFO chain of tasks parked in
	// Join on this task, threaded through each waiter's own next.
	joinWaiters *Task

	// done latches true exactly once, when entry has returned. It is
	// read by Join's fast path without holding the scheduler's critical
	// section, so it is an atomic rather than a plain bool: unlike the
	// source's single-OS-thread C code, a Go task can genuinely observe
	// this field from a different goroutine while the owning task's
	// trampoline is mid-termination.
	done atomic.Bool

	stackSize int64
	sched     *Scheduler
}

// ID returns the task's scheduler-local identifier, assigned in spawn
// order starting at 0 for the main task.
func (t *Task) ID() uint64 { return t.id }

// Done reports whether the task's entry function has returned.
func (t *Task) Done() bool { return t.done.Load() }

// StackSize returns the stack budget this task was configured with. Go
// goroutine stacks grow on demand rather than being allocated up front,
// so this is informational, not an enforced ceiling.
func (t *Task) StackSize() int64 { return t.stackSize }
