package syncprim

import (
	"testing"

	"github.com/stretchr/testify/require"

	"greenrt/sched"
)

func TestCondWaitSignalHandoff(t *testing.T) {
	s := sched.Init(testConfig())
	defer s.Shutdown()

	m := NewMutex(s)
	c := NewCond(s)
	signaled := false
	var observed bool

	waiter := s.Spawn(func(any) {
		m.Lock()
		for !signaled {
			c.Wait(m)
		}
		observed = signaled
		m.Unlock()
	}, nil)

	signaler := s.Spawn(func(any) {
		m.Lock()
		signaled = true
		c.Signal()
		m.Unlock()
	}, nil)

	waiter.Join()
	signaler.Join()

	require.True(t, observed)
}

func TestCondSignalWithNoWaitersIsNoOp(t *testing.T) {
	s := sched.Init(testConfig())
	defer s.Shutdown()

	c := NewCond(s)
	c.Signal() // must not block or panic with nobody parked
}

func TestCondWaitWithoutMutex(t *testing.T) {
	s := sched.Init(testConfig())
	defer s.Shutdown()

	c := NewCond(s)
	woken := false

	waiter := s.Spawn(func(any) {
		c.Wait(nil)
		woken = true
	}, nil)

	signaler := s.Spawn(func(any) {
		s.Yield() // let the waiter park before signaling
		c.Signal()
	}, nil)

	waiter.Join()
	signaler.Join()

	require.True(t, woken)
}
