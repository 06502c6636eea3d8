package syncprim

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"greenrt/sched"
	"greenrt/sched/config"
)

// TestPreemptionLivenessWithBusyHugger reproduces spec scenario 4: a
// task that never voluntarily yields, spawned alongside a ping-pong
// pair built on a bare condition variable. The hugger only ever calls
// Checkpoint, never Yield/Lock/Wait/Join, so the ping-pong pair can
// only make progress if the real preemption timer actually forces a
// handoff out of the hugger's loop.
func TestPreemptionLivenessWithBusyHugger(t *testing.T) {
	cfg := config.Default()
	cfg.Quantum = 50 * time.Microsecond
	cfg.LogLevel = "error"
	s := sched.Init(cfg)
	defer s.Shutdown()

	c := NewCond(s)
	flag := 0
	const rounds = 20
	turns := 0

	spawnSide := func(id int) *sched.Task {
		return s.Spawn(func(any) {
			for i := 0; i < rounds; i++ {
				for flag != id {
					c.Wait(nil)
				}
				turns++
				flag = 1 - id
				c.Signal()
			}
		}, nil)
	}
	a := spawnSide(0)
	b := spawnSide(1)

	hugger := s.Spawn(func(any) {
		total := 0
		for i := 0; i < 2_000_000; i++ {
			total += i
			s.Checkpoint()
		}
		_ = total
	}, nil)

	a.Join()
	b.Join()
	hugger.Join()

	require.Equal(t, rounds*2, turns)
}
