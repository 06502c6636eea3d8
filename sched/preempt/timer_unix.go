//go:build unix

package preempt

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sys/unix"
)

// Start arms a real ITIMER_VIRTUAL interval timer delivering SIGVTALRM
// every period of process CPU time, and calls onTick once per delivered
// signal. This is the genuine periodic virtual-time signal the
// specification describes; see Scheduler.Checkpoint for why the yield it
// triggers happens at the next safe point rather than at the instant the
// signal arrives — Go's os/signal delivery is itself goroutine-mediated,
// not a true asynchronous interrupt of arbitrary user code.
func Start(period time.Duration, onTick func()) *Timer {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGVTALRM)

	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-sigCh:
				onTick()
			case <-done:
				signal.Stop(sigCh)
				return
			}
		}
	}()

	interval := unix.NsecToTimeval(period.Nanoseconds())
	it := &unix.Itimerval{Interval: interval, Value: interval}
	// A failure to arm the timer is fatal: without it, a task that never
	// voluntarily yields can starve every other task forever, silently
	// dropping the scheduler's liveness guarantee. Spec §7 treats signal
	// handler install failure the same way.
	if err := unix.Setitimer(unix.ITIMER_VIRTUAL, it, nil); err != nil {
		close(done)
		panic("preempt: setitimer: " + err.Error())
	}

	return &Timer{stop: func() {
		var zero unix.Itimerval
		_ = unix.Setitimer(unix.ITIMER_VIRTUAL, &zero, nil)
		close(done)
	}}
}
