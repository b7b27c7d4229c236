package job

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"batonsched/internal/sched"
)

// Runner turns a scenario's task programs into task bodies and drives them
// on a scheduler.
type Runner struct {
	sc *Scenario
	s  *sched.Scheduler

	mu      sync.Mutex
	spawned int
	names   map[sched.TaskID]string
	errs    []error
}

// NewRunner binds a validated scenario to a scheduler.
func NewRunner(s *sched.Scheduler, sc *Scenario) *Runner {
	return &Runner{
		sc:    sc,
		s:     s,
		names: make(map[sched.TaskID]string),
	}
}

// Run initializes the scheduler from the scenario, spawns the root task and
// waits for every task to exit.
func (r *Runner) Run(ctx context.Context) error {
	if err := r.s.InitConfig(r.sc.Config); err != nil {
		return err
	}
	if err := r.Start(); err != nil {
		return err
	}
	if err := r.s.ShutdownContext(ctx); err != nil {
		return err
	}
	return r.Err()
}

// Start spawns the root task on an initialized scheduler.
func (r *Runner) Start() error {
	r.mu.Lock()
	r.spawned = 0
	clear(r.names)
	r.errs = nil
	r.mu.Unlock()

	return r.spawn(r.sc.Root)
}

// Name returns the scenario name of a spawned task.
func (r *Runner) Name(id sched.TaskID) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.names[id]
}

// Err joins the errors scheduler calls returned inside task bodies.
func (r *Runner) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return errors.Join(r.errs...)
}

// spawn relies on the scheduler numbering tasks 1, 2, ... in spawn order,
// so the name is known before the Enqueue event goes out.
func (r *Runner) spawn(name string) error {
	ts, ok := r.sc.Task(name)
	if !ok {
		return fmt.Errorf("%w: unknown task %q", ErrInvalidScenario, name)
	}

	r.mu.Lock()
	r.spawned++
	id := sched.TaskID(r.spawned)
	r.names[id] = name
	r.mu.Unlock()

	if _, err := r.s.Spawn(r.handler(ts), ts.Priority); err != nil {
		r.mu.Lock()
		r.spawned--
		delete(r.names, id)
		r.mu.Unlock()
		return fmt.Errorf("spawn %q: %w", name, err)
	}
	return nil
}

func (r *Runner) handler(ts TaskSpec) sched.Handler {
	return func(int) {
		for _, st := range ts.Steps {
			switch {
			case st.Exec > 0:
				for i := 0; i < st.Exec; i++ {
					r.s.Yield()
				}
			case st.Wait != nil:
				r.record(ts.Name, r.s.Wait(*st.Wait))
			case st.Signal != nil:
				_, err := r.s.Signal(*st.Signal)
				r.record(ts.Name, err)
			case st.Spawn != "":
				r.record(ts.Name, r.spawn(st.Spawn))
			}
		}
	}
}

func (r *Runner) record(task string, err error) {
	if err == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errs = append(r.errs, fmt.Errorf("task %q: %w", task, err))
}
