package main

import (
	"github.com/spf13/cobra"

	"greenrt/sched"
	"greenrt/sched/syncprim"
)

func newCounterCmd() *cobra.Command {
	var tasks, iterations int
	var unguarded bool
	cmd := &cobra.Command{
		Use:   "counter",
		Short: "Spawn tasks that race-increment a shared counter, guarded by a Mutex unless --unguarded",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			log := componentLog("counter")
			s := sched.Init(cfg)
			defer s.Shutdown()

			var counter int
			var m *syncprim.Mutex
			if !unguarded {
				m = syncprim.NewMutex(s)
			}

			joiners := make([]*sched.Task, tasks)
			for i := 0; i < tasks; i++ {
				joiners[i] = s.Spawn(func(any) {
					for j := 0; j < iterations; j++ {
						if m != nil {
							m.Lock()
							counter++
							m.Unlock()
						} else {
							// Split the read-modify-write so a preemption
							// checkpoint landing between them produces a
							// lost update, the way the guarded path above
							// cannot.
							tmp := counter
							s.Checkpoint()
							counter = tmp + 1
						}
					}
				}, nil)
			}
			for _, t := range joiners {
				t.Join()
			}

			want := tasks * iterations
			log.WithField("guarded", !unguarded).
				WithField("want", want).
				WithField("got", counter).
				Info("counter complete")
			return nil
		},
	}
	cmd.Flags().IntVar(&tasks, "tasks", 8, "number of concurrent incrementer tasks")
	cmd.Flags().IntVar(&iterations, "iterations", 1_000_000, "increments per task")
	cmd.Flags().BoolVar(&unguarded, "unguarded", false, "skip the mutex to demonstrate the race")
	return cmd
}
