// internal/trace/recorder.go

package trace

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"time"

	"batonsched/internal/sched"
)

// Recorder captures scheduler status events and optionally renders them as
// console lines and CSV rows while they arrive. Its Observe method is meant
// to be passed to sched.WithObserver.
type Recorder struct {
	mu        sync.Mutex
	events    []sched.StatusEvent
	ranTotals map[sched.TaskID]int64 // cumulative ticks per task
	label     func(sched.TaskID) string
	runID     string

	// output-related
	out       io.Writer
	csvWriter *csv.Writer
}

// NewRecorder creates an empty recorder with no outputs.
func NewRecorder() *Recorder {
	return &Recorder{
		ranTotals: make(map[sched.TaskID]int64),
	}
}

// SetOutput prints one line per non-tick event to w.
func (r *Recorder) SetOutput(w io.Writer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.out = w
}

// SetLabeler names tasks in console and CSV output.
func (r *Recorder) SetLabeler(fn func(sched.TaskID) string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.label = fn
}

// SetRunID tags CSV rows with the scheduler cycle they belong to.
func (r *Recorder) SetRunID(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.runID = id
}

// EnableCSV writes a header to w and one row per event from now on.
func (r *Recorder) EnableCSV(w io.Writer) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"run", "timestamp", "tick", "event", "task_id", "task", "priority", "time_left", "channel", "ran_ticks"}); err != nil {
		return err
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return err
	}
	r.csvWriter = cw
	return nil
}

// Observe records ev and renders it to the configured outputs.
func (r *Recorder) Observe(ev sched.StatusEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.events = append(r.events, ev)
	if ev.Kind == sched.StatusTick {
		r.ranTotals[ev.TaskID]++
	}

	if r.out != nil && ev.Kind != sched.StatusTick {
		fmt.Fprintln(r.out, r.format(ev))
	}
	if r.csvWriter != nil {
		_ = r.csvWriter.Write(r.record(ev))
	}
}

// Flush pushes buffered CSV rows to the underlying writer.
func (r *Recorder) Flush() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.csvWriter == nil {
		return nil
	}
	r.csvWriter.Flush()
	return r.csvWriter.Error()
}

// Events returns a copy of every recorded event.
func (r *Recorder) Events() []sched.StatusEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]sched.StatusEvent(nil), r.events...)
}

// Filter returns the task IDs of the recorded events of the given kind, in order.
func (r *Recorder) Filter(kind sched.StatusKind) []sched.TaskID {
	r.mu.Lock()
	defer r.mu.Unlock()
	var ids []sched.TaskID
	for _, ev := range r.events {
		if ev.Kind == kind {
			ids = append(ids, ev.TaskID)
		}
	}
	return ids
}

// Dispatches returns the order in which tasks were granted the CPU.
func (r *Recorder) Dispatches() []sched.TaskID {
	return r.Filter(sched.StatusDispatch)
}

// Ran returns the number of quantum units consumed by a task.
func (r *Recorder) Ran(id sched.TaskID) int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ranTotals[id]
}

func (r *Recorder) name(id sched.TaskID) string {
	if r.label == nil {
		return ""
	}
	return r.label(id)
}

func (r *Recorder) format(ev sched.StatusEvent) string {
	// an auxiliary function to center the event kind in the output
	center := func(str string, width int) string {
		spaces := int(float64(width-len(str)) / 2)
		return strings.Repeat(" ", spaces) + str + strings.Repeat(" ", width-(spaces+len(str)))
	}

	msg := fmt.Sprintf("%s = Tick: %07d [%s] => Task: %04d %-8s prio=%d left=%d, Total ran: %04d ticks",
		ev.Time.Format("Jan 02 15:04:05.000"),
		ev.Tick,
		center(ev.Kind.String(), 12),
		ev.TaskID,
		r.name(ev.TaskID),
		ev.Priority,
		ev.TimeLeft,
		r.ranTotals[ev.TaskID],
	)
	if ev.Channel != sched.NoChannel {
		msg += fmt.Sprintf(", channel=%d", ev.Channel)
	}
	return msg
}

func (r *Recorder) record(ev sched.StatusEvent) []string {
	return []string{
		r.runID,
		ev.Time.Format(time.RFC3339Nano),
		strconv.FormatInt(ev.Tick, 10),
		ev.Kind.String(),
		strconv.FormatUint(uint64(ev.TaskID), 10),
		r.name(ev.TaskID),
		strconv.Itoa(ev.Priority),
		strconv.Itoa(ev.TimeLeft),
		strconv.Itoa(ev.Channel),
		strconv.FormatInt(r.ranTotals[ev.TaskID], 10),
	}
}
