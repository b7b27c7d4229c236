package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"batonsched/internal/job"
	"batonsched/internal/sched"
	"batonsched/internal/trace"
)

func newRunCmd() *cobra.Command {
	var (
		csvPath string
		quiet   bool
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "run <scenario.yml>",
		Short: "Run a scenario and print its scheduling trace",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, err := loadScenario(args[0])
			if err != nil {
				return err
			}

			rec := trace.NewRecorder()
			if !quiet {
				rec.SetOutput(cmd.OutOrStdout())
			}
			if csvPath != "" {
				f, err := os.Create(csvPath)
				if err != nil {
					return fmt.Errorf("create csv: %w", err)
				}
				defer f.Close()
				if err := rec.EnableCSV(f); err != nil {
					return fmt.Errorf("write csv header: %w", err)
				}
			}

			s := sched.New(
				sched.WithLogger(logger),
				sched.WithObserver(rec.Observe),
			)
			runner := job.NewRunner(s, sc)
			rec.SetLabeler(runner.Name)

			if err := s.InitConfig(sc.Config); err != nil {
				return err
			}
			rec.SetRunID(s.RunID().String())
			if err := runner.Start(); err != nil {
				return err
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			if timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, timeout)
				defer cancel()
			}
			if err := s.ShutdownContext(ctx); err != nil {
				return fmt.Errorf("tasks did not exit: %w", err)
			}
			if err := rec.Flush(); err != nil {
				return fmt.Errorf("write csv: %w", err)
			}
			if err := runner.Err(); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "run %s: %d dispatches, %d ticks\n",
				s.RunID(), len(rec.Dispatches()), s.Ticks())
			return nil
		},
	}

	cmd.Flags().StringVar(&csvPath, "csv", "", "Write every event to this CSV file")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Do not print events")
	cmd.Flags().DurationVar(&timeout, "timeout", 10*time.Second, "Give up when tasks have not exited after this long (0 waits forever)")

	return cmd
}

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <scenario.yml>",
		Short: "Check a scenario without running it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, err := loadScenario(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d tasks, root %q, quantum %d, %d io channels\n",
				args[0], len(sc.Tasks), sc.Root, sc.Quantum, sc.IOChannels)
			return nil
		},
	}
}

// loadScenario reads a scenario and applies the --config overrides.
func loadScenario(path string) (*job.Scenario, error) {
	sc, err := job.LoadScenario(path)
	if err != nil {
		return nil, err
	}
	if flagConfig == "" {
		return sc, nil
	}

	cfg, err := sched.Load(flagConfig)
	if err != nil {
		return nil, fmt.Errorf("--config: %w", err)
	}
	sc.Config = cfg
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	return sc, nil
}
