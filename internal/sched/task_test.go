package sched

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTaskState_Transitions(t *testing.T) {
	for _, tc := range []struct {
		from, to TaskState
		ok       bool
	}{
		{StateNew, StateReady, true},
		{StateNew, StateRunning, false},
		{StateReady, StateRunning, true},
		{StateReady, StateBlocked, false},
		{StateRunning, StateReady, true},
		{StateRunning, StateBlocked, true},
		{StateRunning, StateTerminated, true},
		{StateBlocked, StateReady, true},
		{StateBlocked, StateRunning, true},
		{StateBlocked, StateTerminated, false},
		{StateTerminated, StateReady, false},
		{StateTerminated, StateRunning, false},
	} {
		assert.Equal(t, tc.ok, tc.from.CanTransitionTo(tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestTaskState_Runnable(t *testing.T) {
	assert.True(t, StateReady.Runnable())
	assert.True(t, StateRunning.Runnable())
	assert.False(t, StateNew.Runnable())
	assert.False(t, StateBlocked.Runnable())
	assert.False(t, StateTerminated.Runnable())
	assert.Equal(t, "TaskState(9)", TaskState(9).String())
}

func TestTask_InvalidTransitionPanics(t *testing.T) {
	tk := newTask(1, 0, 1, func(int) {})
	assert.Equal(t, StateNew, tk.State())
	assert.Equal(t, NoChannel, tk.channel)
	assert.Panics(t, func() { tk.setState(StateTerminated) })
}

func TestGate_DoubleReleasePanics(t *testing.T) {
	g := newGate()
	g.release()
	assert.Panics(t, g.release)
	g.acquire()
	g.release()
	g.acquire()
}
