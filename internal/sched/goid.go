package sched

import "runtime"

// goroutineID returns the current goroutine's ID, read from the
// "goroutine N [running]:" header of its stack trace.
func goroutineID() uint64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	var id uint64
	for i := len("goroutine "); i < n; i++ {
		if buf[i] < '0' || buf[i] > '9' {
			break
		}
		id = id*10 + uint64(buf[i]-'0')
	}
	return id
}

// enter records that the calling goroutine runs t's body.
func (s *Scheduler) enter(t *Task) {
	gid := goroutineID()
	s.bodiesMu.Lock()
	s.bodies[gid] = t
	s.bodiesMu.Unlock()
}

func (s *Scheduler) leave() {
	gid := goroutineID()
	s.bodiesMu.Lock()
	delete(s.bodies, gid)
	s.bodiesMu.Unlock()
}

// caller returns the task whose body is running on the calling goroutine,
// or nil for the host.
func (s *Scheduler) caller() *Task {
	gid := goroutineID()
	s.bodiesMu.Lock()
	defer s.bodiesMu.Unlock()
	return s.bodies[gid]
}

// self returns the running task when called from its body and fails fast
// for any other caller.
func (s *Scheduler) self(op string) *Task {
	t := s.caller()
	if t == nil {
		fatal("%s outside a task body", op)
	}
	if t != s.running {
		fatal("%s from task %d, which does not hold the CPU", op, t.ID)
	}
	return t
}
