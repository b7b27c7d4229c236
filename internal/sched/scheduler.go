// internal/sched/scheduler.go

package sched

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
)

// Scheduler runs tasks on their own goroutines but lets exactly one of them
// execute at a time. The goroutine whose gate was opened last holds the baton
// and is the only one allowed to touch the scheduler state, so no mutex
// guards it.
//
// Init, Spawn and Shutdown are called by the host. Spawn, Yield, Wait and
// Signal are called from inside the running task's body. Callers are told
// apart by goroutine: a host Spawn waits until no task holds the CPU and
// then bootstraps, so tasks spawned by the host run one cycle after another.
type Scheduler struct {
	opts options
	log  *slog.Logger // per cycle, carries the run id

	// Scheduler-related
	initialized bool
	runID       uuid.UUID
	quantum     int          // units a task may run before round robin is considered
	channels    int          // number of io channels
	guard       PreemptGuard // how the preemption rule treats its candidate
	running     *Task        // task holding the CPU, nil before the first dispatch or when idle
	queue       *ReadyQueue  // READY tasks plus the registry of all tasks
	nextID      TaskID
	clock       TickClock
	host        *gate          // holds a permit while no task holds the CPU
	wg          sync.WaitGroup // one per task goroutine

	bodiesMu sync.Mutex
	bodies   map[uint64]*Task // goroutine id -> task whose body it runs
}

// New creates a new, uninitialized Scheduler.
func New(opts ...Option) *Scheduler {
	o := options{
		logger: slog.Default(),
		guard:  GuardNone,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return &Scheduler{
		opts:   o,
		log:    o.logger,
		bodies: make(map[uint64]*Task),
	}
}

// Init starts a cycle with the given quantum and io channel count, using the
// preempt guard chosen at construction.
func (s *Scheduler) Init(quantum, channels int) error {
	return s.InitConfig(Config{
		Quantum:      quantum,
		IOChannels:   channels,
		PreemptGuard: s.opts.guard,
	})
}

// InitConfig starts a cycle from cfg. It fails with ErrAlreadyInitialized
// until the previous cycle has been shut down.
func (s *Scheduler) InitConfig(cfg Config) error {
	if s.initialized {
		return ErrAlreadyInitialized
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	guard := cfg.PreemptGuard
	if guard == "" {
		guard = s.opts.guard
	}

	s.runID = uuid.New()
	s.log = s.opts.logger.With("run", s.runID.String())
	s.quantum = cfg.Quantum
	s.channels = cfg.IOChannels
	s.guard = guard
	s.running = nil
	s.queue = NewReadyQueue()
	s.nextID = 0
	s.clock.Reset()
	s.host = newGate()
	s.host.release()
	s.initialized = true

	s.log.Info("scheduler initialized",
		"quantum", s.quantum,
		"io_channels", s.channels,
		"preempt_guard", string(s.guard))
	return nil
}

// Spawn creates a task running fn at the given priority and makes it READY.
// From the host it first waits until no task holds the CPU and then
// bootstraps a dispatch; from a task it yields, since the new arrival may
// preempt the caller. Task IDs are handed out 1, 2, ... in spawn order within
// a cycle.
func (s *Scheduler) Spawn(fn Handler, priority int) (TaskID, error) {
	if !s.initialized {
		fatal("spawn on an uninitialized scheduler")
	}
	if fn == nil {
		return InvalidTaskID, fmt.Errorf("%w: nil task body", ErrInvalidArgument)
	}
	if priority < MinPriority || priority > MaxPriority {
		return InvalidTaskID, fmt.Errorf("%w: priority %d outside [%d, %d]",
			ErrInvalidArgument, priority, MinPriority, MaxPriority)
	}

	self := s.caller()
	if self == nil {
		s.host.acquire()
	} else if self != s.running {
		fatal("spawn from task %d, which does not hold the CPU", self.ID)
	}

	s.nextID++
	t := newTask(s.nextID, priority, s.quantum, fn)
	s.queue.Register(t)
	s.wg.Add(1)
	go s.start(t)

	s.queue.Insert(t)
	s.emit(StatusEnqueue, t)
	s.log.Debug("task spawned", "task", t.ID, "priority", t.Priority)

	if self == nil {
		s.dispatch()
	} else {
		s.yield(self)
	}
	return t.ID, nil
}

// Yield consumes one unit of the running task's quantum, lets the dispatcher
// pick who runs next and parks the caller until it is granted the CPU again.
func (s *Scheduler) Yield() {
	s.yield(s.self("yield"))
}

func (s *Scheduler) yield(t *Task) {
	t.timeLeft--
	s.clock.Advance()
	s.emit(StatusTick, t)

	s.dispatch()
	t.gate.acquire()
}

// Wait blocks the running task until another task signals channel.
func (s *Scheduler) Wait(channel int) error {
	if channel < 0 || channel >= s.channels {
		return fmt.Errorf("%w: wait on %d, have %d channels", ErrInvalidChannel, channel, s.channels)
	}
	t := s.self("wait")

	t.setState(StateBlocked)
	t.channel = channel
	s.emit(StatusBlock, t)
	s.log.Debug("task blocked", "task", t.ID, "channel", channel)

	s.yield(t)
	return nil
}

// Signal makes every task blocked on channel READY again and returns how many
// were woken. The caller then yields, since a woken task may preempt it.
func (s *Scheduler) Signal(channel int) (int, error) {
	if channel < 0 || channel >= s.channels {
		return 0, fmt.Errorf("%w: signal on %d, have %d channels", ErrInvalidChannel, channel, s.channels)
	}
	self := s.self("signal")

	woken := 0
	s.queue.Each(func(t *Task) {
		if t.state != StateBlocked || t.channel != channel {
			return
		}
		t.channel = NoChannel
		s.queue.Insert(t)
		s.emit(StatusWake, t)
		woken++
	})
	s.log.Debug("channel signaled", "task", self.ID, "channel", channel, "woken", woken)

	s.yield(self)
	return woken, nil
}

// Shutdown waits for every task goroutine to exit and then discards the
// cycle's tasks and queue. It is a no-op on an uninitialized scheduler.
// A task blocked on a channel nobody will signal keeps it waiting forever;
// use ShutdownContext to bound the wait.
func (s *Scheduler) Shutdown() {
	if !s.initialized {
		return
	}
	s.wg.Wait()
	s.teardown()
}

// ShutdownContext is Shutdown with a bound on the join. When ctx is done
// before every task has exited it returns ctx.Err() and leaves the
// scheduler initialized.
func (s *Scheduler) ShutdownContext(ctx context.Context) error {
	if !s.initialized {
		return nil
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.teardown()
		return nil
	case <-ctx.Done():
		s.log.Warn("shutdown gave up waiting for tasks", "err", ctx.Err())
		return ctx.Err()
	}
}

// teardown runs once every task goroutine has exited.
func (s *Scheduler) teardown() {
	tasks := s.queue.Registered()
	s.queue.Clear()
	s.queue = nil
	s.running = nil
	s.initialized = false

	s.log.Info("scheduler shut down", "tasks", tasks, "ticks", s.clock.Count())
}

// start is the body of a task goroutine: park until first dispatched, run
// the handler, then hand the CPU to a successor.
func (s *Scheduler) start(t *Task) {
	defer s.wg.Done()
	s.enter(t)
	defer s.leave()

	t.gate.acquire()
	t.Run(t.Priority)
	s.finish(t)
}

func (s *Scheduler) finish(t *Task) {
	t.setState(StateTerminated)
	s.emit(StatusFinish, t)
	s.log.Debug("task finished", "task", t.ID)

	s.dispatch()
}

// Initialized reports whether Init succeeded and Shutdown has not run yet.
func (s *Scheduler) Initialized() bool { return s.initialized }

// RunID identifies the current (or last) init cycle.
func (s *Scheduler) RunID() uuid.UUID { return s.runID }

// Ticks returns the number of quantum units consumed in this cycle.
func (s *Scheduler) Ticks() int64 { return s.clock.Count() }

// Running returns the ID of the task holding the CPU, or InvalidTaskID.
// Like the other accessors below it must be called by the baton holder: the
// running task's body, or the host while no task runs.
func (s *Scheduler) Running() TaskID {
	if s.running == nil {
		return InvalidTaskID
	}
	return s.running.ID
}

// TaskState looks up a task registered in this cycle.
func (s *Scheduler) TaskState(id TaskID) (TaskState, bool) {
	if s.queue == nil {
		return StateNew, false
	}
	t, ok := s.queue.Lookup(id)
	if !ok {
		return StateNew, false
	}
	return t.state, true
}

// QueueSnapshot returns the READY task IDs in dispatch order.
func (s *Scheduler) QueueSnapshot() []TaskID {
	if s.queue == nil {
		return nil
	}
	return s.queue.Snapshot()
}
