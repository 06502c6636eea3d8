package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"greenrt/sched"
	"greenrt/sched/syncprim"
)

// spawnPingPong reproduces the scenario-1 ping-pong exactly: two tasks
// with ids 0 and 1, a shared flag starting at 0, and a shared condition
// variable. A task prints and flips the flag when it is its turn, then
// signals; otherwise it waits. Neither task ever touches a mutex — the
// condition variable is used bare, the way §4.7 permits.
func spawnPingPong(s *sched.Scheduler, rounds int) (a, b *sched.Task) {
	c := syncprim.NewCond(s)
	flag := 0

	spawnSide := func(id int) *sched.Task {
		return s.Spawn(func(any) {
			for i := 0; i < rounds; i++ {
				for flag != id {
					c.Wait(nil)
				}
				fmt.Printf("%s\n", []string{"ping", "pong"}[id])
				flag = 1 - id
				c.Signal()
			}
		}, nil)
	}

	a = spawnSide(0)
	b = spawnSide(1)
	return a, b
}

func newPingPongCmd() *cobra.Command {
	var rounds int
	cmd := &cobra.Command{
		Use:   "pingpong",
		Short: "Two tasks alternate turns via a shared flag and condition variable",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			log := componentLog("pingpong")
			s := sched.Init(cfg)
			defer s.Shutdown()

			ping, pong := spawnPingPong(s, rounds)
			ping.Join()
			pong.Join()
			log.WithField("rounds", rounds).Info("pingpong complete")
			return nil
		},
	}
	cmd.Flags().IntVar(&rounds, "rounds", 10, "number of turns per task")
	return cmd
}
