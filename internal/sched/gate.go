package sched

// gate is a single-permit suspend/resume primitive. A task parks on its own
// gate and only the dispatcher ever opens it.
type gate struct {
	ch chan struct{}
}

func newGate() *gate {
	return &gate{ch: make(chan struct{}, 1)}
}

// release hands out the permit. A second release before the matching
// acquire means two wakeups for one park, which the dispatcher must never do.
func (g *gate) release() {
	select {
	case g.ch <- struct{}{}:
	default:
		fatal("gate released twice without an acquire")
	}
}

// acquire blocks until the permit is released.
func (g *gate) acquire() {
	<-g.ch
}
