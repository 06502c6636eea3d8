package sched

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"greenrt/sched/config"
)

// testConfig parks the preemption timer far in the future so tests
// observe only the interleavings their own Yield/Join calls produce.
func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Quantum = time.Hour
	cfg.LogLevel = "error"
	return cfg
}

func TestYieldAlternatesFIFO(t *testing.T) {
	s := Init(testConfig())
	defer s.Shutdown()

	var order []string
	a := s.Spawn(func(any) {
		for i := 0; i < 3; i++ {
			order = append(order, "a")
			s.Yield()
		}
	}, nil)
	b := s.Spawn(func(any) {
		for i := 0; i < 3; i++ {
			order = append(order, "b")
			s.Yield()
		}
	}, nil)

	a.Join()
	b.Join()

	require.Equal(t, []string{"a", "b", "a", "b", "a", "b"}, order)
}

func TestJoinAlreadyFinished(t *testing.T) {
	s := Init(testConfig())
	defer s.Shutdown()

	done := false
	task := s.Spawn(func(any) { done = true }, nil)
	task.Join()
	require.True(t, done)
	require.True(t, task.Done())

	task.Join() // already finished: must return immediately, not block forever
}

func TestJoinMultipleWaitersLIFO(t *testing.T) {
	s := Init(testConfig())
	defer s.Shutdown()

	target := s.Spawn(func(any) {
		s.Yield()
		s.Yield()
		s.Yield()
	}, nil)

	var order []int
	joiners := make([]*Task, 3)
	for i := 0; i < 3; i++ {
		i := i
		joiners[i] = s.Spawn(func(any) {
			target.Join()
			order = append(order, i)
		}, nil)
	}

	for _, j := range joiners {
		j.Join()
	}

	require.True(t, target.Done())
	// Joiners registered in order 0, 1, 2; the target's joinWaiters chain
	// is LIFO, so they are released in the reverse of registration order.
	require.Equal(t, []int{2, 1, 0}, order)
}

func TestSpawnAssignsIncreasingIDs(t *testing.T) {
	s := Init(testConfig())
	defer s.Shutdown()

	require.Equal(t, uint64(0), s.Main().ID())

	t1 := s.Spawn(func(any) {}, nil)
	t2 := s.Spawn(func(any) {}, nil)
	require.Less(t, t1.ID(), t2.ID())

	t1.Join()
	t2.Join()
}
