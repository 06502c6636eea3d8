package sched

import (
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/sirupsen/logrus"

	"greenrt/sched/config"
	"greenrt/sched/preempt"
	"greenrt/sched/schedlog"
)

// Scheduler owns the ready queue and the currently running task, and is
// the critical-section gate every other entry point in this module
// serializes through. Unlike the source's static globals, it is an
// opaque handle (spec §9's recommendation) so a process can legitimately
// run more than one independent scheduler, which the test suite uses to
// keep table-driven cases from sharing state.
type Scheduler struct {
	mu      sync.Mutex
	running *Task
	ready   Queue
	main    *Task
	nextID  uint64

	cfg  *config.Config
	log  *logrus.Entry
	tick *preempt.Timer

	preemptRequested atomic.Bool
}

// Init constructs a Scheduler, captures the calling goroutine as the
// main task (the source's statically allocated main_green), pins the
// process to a single logical OS thread the way the source's
// single-OS-thread model assumes, and arms the preemption timer. cfg may
// be nil to use config.Default().
//
// Init must be called from the goroutine that will act as the main
// task; that goroutine participates in scheduling exactly like any
// spawned task from this point on.
func Init(cfg *config.Config) *Scheduler {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := schedlog.Configure(cfg.LogLevel, cfg.LogJSON); err != nil {
		schedlog.Component("sched").WithError(err).Warn("invalid log_level, leaving level unchanged")
	}

	// A single logical OS thread is the whole premise of this design:
	// the ready queue and running pointer are sound only because no two
	// tasks' bodies can execute Go code at the same instant.
	runtime.GOMAXPROCS(1)

	stackSize, err := cfg.StackSizeBytes()
	if err != nil {
		stackSize = 0
	}

	s := &Scheduler{
		cfg: cfg,
		log: schedlog.Component("sched"),
	}
	s.main = &Task{
		id:        0,
		resume:    make(chan struct{}),
		stackSize: stackSize,
		sched:     s,
	}
	s.running = s.main
	s.nextID = 1

	s.tick = preempt.Start(cfg.Quantum, s.requestPreempt)
	s.log.WithField("quantum", cfg.Quantum).Info("scheduler initialized")
	return s
}

// Shutdown disarms the preemption timer. It does not terminate any
// running or ready task; callers are expected to have joined everything
// they spawned first.
func (s *Scheduler) Shutdown() {
	s.tick.Stop()
	s.log.Info("scheduler shut down")
}

// Main returns the task descriptor for the goroutine that called Init.
func (s *Scheduler) Main() *Task { return s.main }

// requestPreempt is the preemption timer's callback. It never touches
// the ready queue directly — see Checkpoint for why.
func (s *Scheduler) requestPreempt() {
	s.preemptRequested.Store(true)
}

// Checkpoint performs a forced Yield if the preemption timer has fired
// since the last checkpoint, and is a no-op otherwise. Join, Mutex.Lock
// and Cond.Wait call it on entry, so a task that calls any of them is
// preempted at its first such call after the timer fires. Yield does not
// call it: Yield gives up the thread on its own and leaves the flag as
// it is.
//
// A task whose entry function is a pure compute loop that never calls
// any of those must call Checkpoint itself to participate in
// preemption: Go provides no supported way for one goroutine to suspend
// another's execution at an arbitrary instruction the way the source's
// SIGVTALRM handler suspends the interrupted OS thread. This is the
// documented, necessary adaptation of spec §4.4's "yield from arbitrary
// interrupted code" — the timer and its signal are real, the forced
// yield fires at the next safe point rather than instantaneously.
func (s *Scheduler) Checkpoint() {
	if s.preemptRequested.CompareAndSwap(true, false) {
		s.log.Trace("preempt checkpoint: forcing yield")
		s.Yield()
	}
}

// Spawn allocates a fresh task running entry(arg), pushes it to the
// ready queue, and returns immediately without running it. Allocation
// failure has no representation in Go the way it does for the source's
// malloc — Spawn always succeeds, matching spec §6's "allocation failure
// ⇒ fatal" by simply letting the Go runtime's own out-of-memory handling
// apply.
func (s *Scheduler) Spawn(entry func(arg any), arg any) *Task {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	stackSize, err := s.cfg.StackSizeBytes()
	if err != nil {
		stackSize = 0
	}
	t := &Task{
		id:        id,
		entry:     entry,
		arg:       arg,
		resume:    make(chan struct{}),
		stackSize: stackSize,
		sched:     s,
	}
	s.ready.Push(t)
	s.mu.Unlock()

	s.log.WithField("task", id).Debug("spawn")
	go s.trampoline(t)
	return t
}

// trampoline is the body every spawned task's goroutine runs: park until
// the scheduler hands this task control, run the user entry function,
// then terminate. Once terminateCurrent has handed control to the next
// task, the goroutine exits and the task never runs again, matching the
// source's one-way install-context at the end of green_thread.
func (s *Scheduler) trampoline(t *Task) {
	<-t.resume
	s.mu.Unlock()

	t.entry(t.arg)

	s.terminateCurrent(t)
}

// Yield voluntarily gives up the one logical thread: the calling task is
// pushed to the tail of the ready queue and the head of the ready queue
// is resumed. If the ready queue was empty, the calling task resumes
// itself immediately.
func (s *Scheduler) Yield() {
	s.mu.Lock()
	cur := s.running
	s.ready.Push(cur)
	next := s.ready.Pop()
	s.running = next
	s.log.WithFields(logrus.Fields{"from": cur.id, "to": next.id}).Trace("yield")
	s.SwitchTo(cur, next)
}

// terminateCurrent runs when t's entry function has returned: every task
// parked in Join(t) is moved to ready, t's resources are released, and a
// fresh task is installed. Unlike Yield, t itself never resumes, so
// there is no self-park: the goroutine running terminateCurrent simply
// returns afterwards and exits. It does not unlock s.mu itself — per the
// SwitchTo convention, the goroutine waking up on next.resume performs
// the single matching unlock once it resumes, whether that is the
// trampoline's initial receive or a parked SwitchTo call.
func (s *Scheduler) terminateCurrent(t *Task) {
	s.mu.Lock()

	w := t.joinWaiters
	for w != nil {
		next := w.next
		w.next = nil
		s.ready.Push(w)
		w = next
	}
	t.joinWaiters = nil
	t.done.Store(true)

	next := s.ready.Pop()
	s.running = next
	s.log.WithFields(logrus.Fields{"task": t.id, "to": next.id}).Debug("terminate")

	next.resume <- struct{}{}
}

// -- Low-level critical-section API, used by syncprim.Mutex and
// syncprim.Cond to implement blocking primitives against this
// scheduler's own ready queue. --

// EnterCritical acquires the scheduler's critical-section gate. Callers
// must pair every EnterCritical with exactly one LeaveCritical or
// SwitchTo (after which the task being switched to releases it once it
// resumes).
func (s *Scheduler) EnterCritical() { s.mu.Lock() }

// LeaveCritical releases the critical-section gate. It may legally be
// called by a different goroutine than the one that called
// EnterCritical: the gate is scheduler-wide state, not task-owned, the
// same way the source's signal mask is process state rather than
// per-thread state.
func (s *Scheduler) LeaveCritical() { s.mu.Unlock() }

// Current returns the task the scheduler currently considers running.
// Must be called with the critical section held.
func (s *Scheduler) Current() *Task { return s.running }

// SetCurrent installs t as the task the scheduler considers running.
// Must be called with the critical section held.
func (s *Scheduler) SetCurrent(t *Task) { s.running = t }

// ReadyPush appends t to the ready queue. Must be called with the
// critical section held.
func (s *Scheduler) ReadyPush(t *Task) { s.ready.Push(t) }

// ReadyPop removes and returns the head of the ready queue, panicking if
// it is empty. Must be called with the critical section held.
func (s *Scheduler) ReadyPop() *Task { return s.ready.Pop() }

// ReadyEmpty reports whether the ready queue currently holds no tasks.
// Must be called with the critical section held.
func (s *Scheduler) ReadyEmpty() bool { return s.ready.Empty() }

// SwitchTo performs the actual context switch: if next is a different
// task than cur, it wakes next's goroutine and parks cur's goroutine
// until some future scheduling decision resumes it; if next == cur
// (Yield found the ready queue empty before its own push) it continues
// immediately. Either way SwitchTo releases the critical section before
// returning — in the real-handoff case, on behalf of whichever goroutine
// reaches this same return path next, exactly as spec §4.5 describes:
// "the newly resumed task is responsible for unblocking when it next
// reaches the matching unblock."
//
// Must be called with the critical section held and with s.running
// already set to next.
func (s *Scheduler) SwitchTo(cur, next *Task) {
	if next == cur {
		s.mu.Unlock()
		return
	}
	next.resume <- struct{}{}
	<-cur.resume
	s.mu.Unlock()
}
