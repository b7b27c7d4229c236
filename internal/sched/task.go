// internal/sched/task.go

package sched

import "fmt"

// TaskID uniquely identifies a task in the scheduler.
type TaskID uint64

// InvalidTaskID is returned by Spawn when no task was created.
const InvalidTaskID TaskID = 0

// Handler is the body of a task. It receives the priority the task was
// spawned with and runs on the task's own goroutine.
type Handler func(priority int)

const (
	MinPriority = 0
	MaxPriority = 5 // highest

	// MaxChannels bounds the number of I/O channels a scheduler may be
	// configured with.
	MaxChannels = 256

	// NoChannel marks a task that is not waiting on any I/O channel.
	NoChannel = -1
)

// TaskState is the lifecycle state of a task.
type TaskState int

const (
	StateNew TaskState = iota
	StateReady
	StateRunning
	StateBlocked
	StateTerminated
)

func (s TaskState) String() string {
	switch s {
	case StateNew:
		return "NEW"
	case StateReady:
		return "READY"
	case StateRunning:
		return "RUNNING"
	case StateBlocked:
		return "BLOCKED"
	case StateTerminated:
		return "TERMINATED"
	default:
		return fmt.Sprintf("TaskState(%d)", int(s))
	}
}

// Runnable reports whether a task in this state may keep the CPU or be
// put back in the ready queue.
func (s TaskState) Runnable() bool {
	return s == StateReady || s == StateRunning
}

// validTransitions lists the state changes a task may go through.
// BLOCKED -> RUNNING only happens when a lone waiter is resumed because
// nothing else is left to run.
var validTransitions = map[TaskState][]TaskState{
	StateNew:     {StateReady},
	StateReady:   {StateRunning},
	StateRunning: {StateReady, StateBlocked, StateTerminated},
	StateBlocked: {StateReady, StateRunning},
}

// CanTransitionTo returns true if moving from the current state to next is valid.
func (s TaskState) CanTransitionTo(next TaskState) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Task represents one schedulable task unit. All mutable fields are owned by
// whichever goroutine currently holds the baton.
type Task struct {
	ID       TaskID
	Priority int // MinPriority - MaxPriority, higher runs first
	Run      Handler

	timeLeft int // remaining units of the current quantum
	channel  int // channel awaited while BLOCKED, NoChannel otherwise
	state    TaskState
	gate     *gate
}

// newTask creates a task in state NEW with a closed gate.
// NOTE: the goroutine backing the task is started by the scheduler.
func newTask(id TaskID, priority, quantum int, run Handler) *Task {
	return &Task{
		ID:       id,
		Priority: priority,
		Run:      run,
		timeLeft: quantum,
		channel:  NoChannel,
		state:    StateNew,
		gate:     newGate(),
	}
}

// State returns the task's current state. Only meaningful from the goroutine
// holding the baton, or after shutdown.
func (t *Task) State() TaskState { return t.state }

// setState moves the task to next, failing fast on a transition the state
// machine does not allow.
func (t *Task) setState(next TaskState) {
	if !t.state.CanTransitionTo(next) {
		fatal("task %d: invalid state transition %s -> %s", t.ID, t.state, next)
	}
	t.state = next
}
