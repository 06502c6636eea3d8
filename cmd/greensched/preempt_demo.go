package main

import (
	"github.com/spf13/cobra"

	"greenrt/sched"
)

// newPreemptDemoCmd spawns a compute-bound "hugger" task alongside the
// scenario-1 ping-pong pair. The hugger never calls Yield or any
// blocking primitive; it only calls Checkpoint, so it participates in
// preemption purely through the timer-driven flag rather than through
// its own cooperation with the other two tasks.
func newPreemptDemoCmd() *cobra.Command {
	var rounds, huggerIterations int
	cmd := &cobra.Command{
		Use:   "preempt-demo",
		Short: "Run a compute-bound task alongside ping-pong to show timer-driven preemption",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			log := componentLog("preempt-demo")
			s := sched.Init(cfg)
			defer s.Shutdown()

			hugger := s.Spawn(func(any) {
				total := 0
				for i := 0; i < huggerIterations; i++ {
					total += i % 7
					s.Checkpoint()
					if i%(huggerIterations/10+1) == 0 {
						log.WithField("progress", i).Debug("hugger tick")
					}
				}
				log.WithField("total", total).Info("hugger done")
			}, nil)

			ping, pong := spawnPingPong(s, rounds)

			ping.Join()
			pong.Join()
			hugger.Join()
			log.Info("preempt-demo complete")
			return nil
		},
	}
	cmd.Flags().IntVar(&rounds, "rounds", 10, "ping/pong turns")
	cmd.Flags().IntVar(&huggerIterations, "hugger-iterations", 200, "hugger loop iterations")
	return cmd
}
