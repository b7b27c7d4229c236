// internal/sched/schedulerEvent.go

package sched

import (
	"time"
)

// StatusKind represents the type of scheduler event
type StatusKind int

const (
	StatusIdle     StatusKind = iota // queue drained, nobody left to run
	StatusEnqueue                    // spawned task made READY
	StatusDispatch                   // task granted the CPU
	StatusPreempt                    // running task displaced by a higher priority one
	StatusExpire                     // running task's quantum ran out, round robin
	StatusResume                     // running task keeps the CPU
	StatusBlock                      // task waits on an io channel
	StatusWake                       // blocked task made READY by a signal
	StatusFinish                     // task body returned
	StatusTick                       // one quantum unit consumed
)

// StatusEvent is emitted on every tick and on key actions. Events are
// delivered synchronously by whichever goroutine holds the baton, so an
// observer sees them in scheduling order.
type StatusEvent struct {
	Time     time.Time
	Tick     int64
	Kind     StatusKind
	TaskID   TaskID
	Priority int
	TimeLeft int
	Channel  int
}

func (sk StatusKind) String() string {
	switch sk {
	case StatusIdle:
		return "Idle"
	case StatusEnqueue:
		return "Enqueued"
	case StatusDispatch:
		return "Dispatch"
	case StatusPreempt:
		return "Preempt"
	case StatusExpire:
		return "Expire"
	case StatusResume:
		return "Resume"
	case StatusBlock:
		return "Block"
	case StatusWake:
		return "Wake"
	case StatusFinish:
		return "Finish"
	case StatusTick:
		return "Tick"
	default:
		return "Unknown"
	}
}
