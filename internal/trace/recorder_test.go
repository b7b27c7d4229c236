package trace

import (
	"bytes"
	"encoding/csv"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"batonsched/internal/sched"
)

func TestRecorder_ObservesScheduler(t *testing.T) {
	rec := NewRecorder()
	var console, table bytes.Buffer
	rec.SetOutput(&console)
	rec.SetLabeler(func(id sched.TaskID) string {
		return map[sched.TaskID]string{1: "root", 2: "child"}[id]
	})
	rec.SetRunID("run-1")
	require.NoError(t, rec.EnableCSV(&table))

	s := sched.New(
		sched.WithLogger(slog.New(slog.DiscardHandler)),
		sched.WithObserver(rec.Observe),
	)
	require.NoError(t, s.Init(2, 0))

	_, err := s.Spawn(func(int) {
		_, _ = s.Spawn(func(int) {
			s.Yield()
			s.Yield()
		}, 3)
		s.Yield()
	}, 1)
	require.NoError(t, err)
	s.Shutdown()
	require.NoError(t, rec.Flush())

	assert.Equal(t, []sched.TaskID{1, 2, 1}, rec.Dispatches())
	assert.Equal(t, []sched.TaskID{1}, rec.Filter(sched.StatusPreempt))
	assert.EqualValues(t, 2, rec.Ran(2))
	assert.EqualValues(t, 2, rec.Ran(1))

	// tick events are recorded but not printed
	lines := strings.Split(strings.TrimSpace(console.String()), "\n")
	ticks := len(rec.Filter(sched.StatusTick))
	assert.Len(t, lines, len(rec.Events())-ticks)
	assert.Contains(t, console.String(), "child")

	rows, err := csv.NewReader(&table).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, len(rec.Events())+1)
	assert.Equal(t, "run", rows[0][0])
	assert.Equal(t, "run-1", rows[1][0])
	assert.Equal(t, "Enqueued", rows[1][3])
	assert.Equal(t, "root", rows[1][5])
}

func TestRecorder_NoOutputs(t *testing.T) {
	rec := NewRecorder()
	rec.Observe(sched.StatusEvent{Kind: sched.StatusTick, TaskID: 4, Channel: sched.NoChannel})
	rec.Observe(sched.StatusEvent{Kind: sched.StatusBlock, TaskID: 4, Channel: 1})

	require.NoError(t, rec.Flush())
	assert.Len(t, rec.Events(), 2)
	assert.EqualValues(t, 1, rec.Ran(4))
	assert.Empty(t, rec.Dispatches())
}
