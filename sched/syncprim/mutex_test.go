package syncprim

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"greenrt/sched"
	"greenrt/sched/config"
)

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Quantum = time.Hour
	cfg.LogLevel = "error"
	return cfg
}

func TestMutexGuardsCounterAcrossForcedInterleaving(t *testing.T) {
	s := sched.Init(testConfig())
	defer s.Shutdown()

	const numTasks, iterations = 4, 1000
	m := NewMutex(s)
	counter := 0

	joiners := make([]*sched.Task, numTasks)
	for i := 0; i < numTasks; i++ {
		joiners[i] = s.Spawn(func(any) {
			for j := 0; j < iterations; j++ {
				m.Lock()
				tmp := counter
				s.Yield() // force a handoff while the critical section is held
				counter = tmp + 1
				m.Unlock()
			}
		}, nil)
	}
	for _, j := range joiners {
		j.Join()
	}

	require.Equal(t, numTasks*iterations, counter)
}

func TestMutexUnlockReleasesOneWaiterAtATime(t *testing.T) {
	s := sched.Init(testConfig())
	defer s.Shutdown()

	m := NewMutex(s)
	m.Lock()

	var order []int
	waiters := make([]*sched.Task, 3)
	for i := 0; i < 3; i++ {
		i := i
		waiters[i] = s.Spawn(func(any) {
			m.Lock()
			order = append(order, i)
			m.Unlock()
		}, nil)
	}

	// Give each waiter a chance to park on the mutex before it is ever
	// released.
	for _, w := range waiters {
		_ = w
		s.Yield()
	}
	m.Unlock()

	for _, w := range waiters {
		w.Join()
	}
	require.Equal(t, []int{0, 1, 2}, order)
}
