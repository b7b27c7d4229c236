// internal/sched/dispatch.go

package sched

import "time"

// dispatch decides who holds the CPU after any event that may change it and
// opens exactly that task's gate. It runs on the goroutine holding the baton;
// after the gate is opened the caller must not touch scheduler state again.
func (s *Scheduler) dispatch() {
	cur := s.running

	// 1) nobody else is ready
	if s.queue.IsEmpty() {
		s.idle(cur)
		return
	}

	next := s.queue.PeekNext()
	switch {
	// 2) bootstrap: first task of the cycle, or first after going idle
	case cur == nil:
		s.promote(next)

	// 3) current cannot continue (blocked or finished), never requeue it
	case !cur.state.Runnable():
		s.promote(next)

	// 4) a higher priority task is ready
	case cur.Priority < next.Priority && s.mayPreemptInto(next):
		s.requeue(cur, StatusPreempt)
		s.promote(next)

	// 5) quantum used up and a peer of the same priority is waiting
	case cur.Priority == next.Priority && cur.timeLeft < 1:
		s.requeue(cur, StatusExpire)
		s.promote(next)

	// 6) current keeps running
	default:
		s.resume(cur)
	}
}

// mayPreemptInto applies the preempt guard to the candidate successor.
// Queued tasks are always READY, so both guards pick the same successor;
// GuardRunnable only makes the check explicit.
func (s *Scheduler) mayPreemptInto(next *Task) bool {
	if s.guard == GuardRunnable {
		return next.state == StateReady
	}
	return true
}

// idle handles a dispatch with an empty ready queue.
func (s *Scheduler) idle(cur *Task) {
	switch {
	case cur == nil:
		fatal("dispatch with no running task and an empty ready queue")

	case cur.state == StateRunning:
		s.resume(cur)

	case cur.state == StateBlocked:
		// Nobody is left who could signal it.
		s.log.Warn("lone waiter resumed, no other task is ready",
			"task", cur.ID, "channel", cur.channel)
		cur.channel = NoChannel
		cur.setState(StateRunning)
		s.resume(cur)

	default:
		// The finishing task was the last runnable one. Its goroutine is
		// about to exit, so the CPU goes back to the host.
		s.running = nil
		s.emit(StatusIdle, cur)

		stranded := 0
		s.queue.Each(func(t *Task) {
			if t.state == StateBlocked {
				stranded++
			}
		})
		if stranded > 0 {
			s.log.Warn("scheduler idle with blocked tasks, only a task spawned by the host can signal them",
				"blocked", stranded)
		} else {
			s.log.Debug("scheduler idle", "last", cur.ID)
		}
		s.host.release()
	}
}

// promote grants the CPU to next, which must be at the head of the queue.
func (s *Scheduler) promote(next *Task) {
	if got := s.queue.RemoveNext(); got != next {
		fatal("dispatch picked task %d but queue head is %d", next.ID, got.ID)
	}
	next.timeLeft = s.quantum
	next.setState(StateRunning)
	s.running = next
	s.emit(StatusDispatch, next)
	s.log.Debug("task dispatched", "task", next.ID, "priority", next.Priority)

	next.gate.release()
}

// requeue puts a displaced running task back in the ready queue.
func (s *Scheduler) requeue(cur *Task, kind StatusKind) {
	s.emit(kind, cur)
	s.log.Debug("task displaced", "task", cur.ID, "reason", kind.String(), "time_left", cur.timeLeft)
	s.queue.Insert(cur)
}

// resume lets the running task continue.
func (s *Scheduler) resume(cur *Task) {
	s.emit(StatusResume, cur)
	cur.gate.release()
}

// emit delivers an event to the observer, if any.
func (s *Scheduler) emit(kind StatusKind, t *Task) {
	if s.opts.observer == nil {
		return
	}
	ev := StatusEvent{
		Time:    time.Now(),
		Tick:    s.clock.Count(),
		Kind:    kind,
		Channel: NoChannel,
	}
	if t != nil {
		ev.TaskID = t.ID
		ev.Priority = t.Priority
		ev.TimeLeft = t.timeLeft
		ev.Channel = t.channel
	}
	s.opts.observer(ev)
}
