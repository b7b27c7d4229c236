// internal/sched/queue.go

package sched

import (
	"github.com/emirpasic/gods/maps/linkedhashmap"
	"github.com/emirpasic/gods/trees/redblacktree"
)

// ReadyQueue orders READY tasks by descending priority, oldest insertion
// first among equals. It also owns the registry of every task created in the
// current cycle; the tree only stores task IDs that resolve through it.
type ReadyQueue struct {
	rbt      *redblacktree.Tree // queueKey -> TaskID
	registry *linkedhashmap.Map // TaskID -> *Task, in registration order
	seq      uint64             // insertion counter for the FIFO tie-break
}

// NewReadyQueue creates an empty queue and registry.
func NewReadyQueue() *ReadyQueue {
	return &ReadyQueue{
		rbt:      redblacktree.NewWith(cmp),
		registry: linkedhashmap.New(),
	}
}

// Register adds t to the all-tasks registry. Membership is permanent until
// the queue is discarded.
func (q *ReadyQueue) Register(t *Task) {
	if _, dup := q.registry.Get(t.ID); dup {
		fatal("task %d registered twice", t.ID)
	}
	q.registry.Put(t.ID, t)
}

// Lookup resolves a task ID through the registry.
func (q *ReadyQueue) Lookup(id TaskID) (*Task, bool) {
	v, ok := q.registry.Get(id)
	if !ok {
		return nil, false
	}
	return v.(*Task), true
}

// Each calls fn for every registered task in registration order.
func (q *ReadyQueue) Each(fn func(t *Task)) {
	q.registry.Each(func(_ interface{}, v interface{}) {
		fn(v.(*Task))
	})
}

// Registered returns the number of tasks ever registered.
func (q *ReadyQueue) Registered() int { return q.registry.Size() }

// Insert places t behind every queued task of the same or higher priority
// and marks it READY.
func (q *ReadyQueue) Insert(t *Task) {
	if _, ok := q.registry.Get(t.ID); !ok {
		fatal("task %d enqueued without being registered", t.ID)
	}
	t.setState(StateReady)
	q.seq++
	q.rbt.Put(queueKey{priority: t.Priority, seq: q.seq}, t.ID)
}

// IsEmpty reports whether no task is waiting to run.
func (q *ReadyQueue) IsEmpty() bool { return q.rbt.Empty() }

// Len returns the number of queued tasks.
func (q *ReadyQueue) Len() int { return q.rbt.Size() }

// PeekNext returns the task that RemoveNext would return, or nil.
func (q *ReadyQueue) PeekNext() *Task {
	node := q.rbt.Left()
	if node == nil {
		return nil
	}
	return q.resolve(node.Value.(TaskID))
}

// RemoveNext dequeues the highest priority, longest waiting task.
// Calling it on an empty queue is a scheduler bug.
func (q *ReadyQueue) RemoveNext() *Task {
	node := q.rbt.Left()
	if node == nil {
		fatal("remove from empty ready queue")
	}
	q.rbt.Remove(node.Key)
	return q.resolve(node.Value.(TaskID))
}

// Snapshot returns the queued task IDs in dequeue order.
func (q *ReadyQueue) Snapshot() []TaskID {
	ids := make([]TaskID, 0, q.rbt.Size())
	for _, v := range q.rbt.Values() {
		ids = append(ids, v.(TaskID))
	}
	return ids
}

// Clear drops every queued entry and every registered task.
func (q *ReadyQueue) Clear() {
	q.rbt.Clear()
	q.registry.Clear()
	q.seq = 0
}

func (q *ReadyQueue) resolve(id TaskID) *Task {
	t, ok := q.Lookup(id)
	if !ok {
		fatal("queued task %d missing from registry", id)
	}
	return t
}

// queueKey is used as a key in the red-black tree.
type queueKey struct {
	priority int
	seq      uint64
}

// cmp orders higher priorities first, then older insertions first.
func cmp(a, b any) int {
	ka, kb := a.(queueKey), b.(queueKey)
	switch {
	case ka.priority > kb.priority:
		return -1
	case ka.priority < kb.priority:
		return 1
	case ka.seq < kb.seq:
		return -1
	case ka.seq > kb.seq:
		return 1
	default:
		return 0
	}
}
