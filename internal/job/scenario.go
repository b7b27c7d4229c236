package job

import (
	"errors"
	"fmt"
	"os"

	yaml "github.com/goccy/go-yaml"

	"batonsched/internal/sched"
)

// Scenario describes a workload: the scheduler settings, the task started by
// the host and the program of every task that may be spawned.
type Scenario struct {
	sched.Config `yaml:",inline"`

	Root  string     `yaml:"root"`
	Tasks []TaskSpec `yaml:"tasks"`
}

// TaskSpec is one named task program.
type TaskSpec struct {
	Name     string `yaml:"name"`
	Priority int    `yaml:"priority"`
	Steps    []Step `yaml:"steps"`
}

// Step is a single action of a task program. Exactly one field must be set.
type Step struct {
	Exec   int    `yaml:"exec,omitempty"`   // consume N quantum units
	Wait   *int   `yaml:"wait,omitempty"`   // block on an io channel
	Signal *int   `yaml:"signal,omitempty"` // wake every task blocked on a channel
	Spawn  string `yaml:"spawn,omitempty"`  // spawn the named task
}

// ErrInvalidScenario wraps every validation failure.
var ErrInvalidScenario = errors.New("invalid scenario")

// LoadScenario reads and validates a scenario file. Unknown keys are rejected.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario %s: %w", path, err)
	}
	return ParseScenario(data)
}

// ParseScenario decodes and validates a YAML scenario. Missing scheduler
// settings fall back to sched.DefaultConfig.
func ParseScenario(data []byte) (*Scenario, error) {
	sc := &Scenario{Config: sched.DefaultConfig()}
	if err := yaml.UnmarshalWithOptions(data, sc, yaml.Strict()); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidScenario, yaml.FormatError(err, false, true))
	}
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	return sc, nil
}

// Validate checks the scheduler settings, task names and every step.
func (sc *Scenario) Validate() error {
	if err := sc.Config.Validate(); err != nil {
		return err
	}

	seen := make(map[string]bool, len(sc.Tasks))
	for _, ts := range sc.Tasks {
		if ts.Name == "" {
			return fmt.Errorf("%w: task without a name", ErrInvalidScenario)
		}
		if seen[ts.Name] {
			return fmt.Errorf("%w: task %q defined twice", ErrInvalidScenario, ts.Name)
		}
		seen[ts.Name] = true
		if ts.Priority < sched.MinPriority || ts.Priority > sched.MaxPriority {
			return fmt.Errorf("%w: task %q: priority %d outside [%d, %d]",
				ErrInvalidScenario, ts.Name, ts.Priority, sched.MinPriority, sched.MaxPriority)
		}
	}

	if !seen[sc.Root] {
		return fmt.Errorf("%w: root task %q is not defined", ErrInvalidScenario, sc.Root)
	}

	for _, ts := range sc.Tasks {
		for i, st := range ts.Steps {
			if err := sc.validateStep(st); err != nil {
				return fmt.Errorf("%w: task %q step %d: %v", ErrInvalidScenario, ts.Name, i, err)
			}
			if st.Spawn != "" && !seen[st.Spawn] {
				return fmt.Errorf("%w: task %q step %d: spawns unknown task %q", ErrInvalidScenario, ts.Name, i, st.Spawn)
			}
		}
	}
	return nil
}

func (sc *Scenario) validateStep(st Step) error {
	actions := 0
	if st.Exec != 0 {
		actions++
		if st.Exec < 0 {
			return fmt.Errorf("exec must be positive, got %d", st.Exec)
		}
	}
	for _, ch := range []*int{st.Wait, st.Signal} {
		if ch == nil {
			continue
		}
		actions++
		if *ch < 0 || *ch >= sc.IOChannels {
			return fmt.Errorf("channel %d outside [0, %d)", *ch, sc.IOChannels)
		}
	}
	if st.Spawn != "" {
		actions++
	}
	if actions != 1 {
		return fmt.Errorf("expected exactly one action, got %d", actions)
	}
	return nil
}

// Task returns the spec with the given name.
func (sc *Scenario) Task(name string) (TaskSpec, bool) {
	for _, ts := range sc.Tasks {
		if ts.Name == name {
			return ts, true
		}
	}
	return TaskSpec{}, false
}
