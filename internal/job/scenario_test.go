package job

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"batonsched/internal/sched"
)

func TestParseScenario(t *testing.T) {
	sc, err := ParseScenario([]byte(`
quantum: 3
io_channels: 1
preempt_guard: runnable
root: main
tasks:
  - name: main
    priority: 2
    steps:
      - spawn: helper
      - signal: 0
  - name: helper
    priority: 4
    steps:
      - wait: 0
      - exec: 2
`))
	require.NoError(t, err)
	assert.Equal(t, sched.Config{Quantum: 3, IOChannels: 1, PreemptGuard: sched.GuardRunnable}, sc.Config)
	assert.Equal(t, "main", sc.Root)
	require.Len(t, sc.Tasks, 2)

	helper, ok := sc.Task("helper")
	require.True(t, ok)
	assert.Equal(t, 4, helper.Priority)
	require.Len(t, helper.Steps, 2)
	require.NotNil(t, helper.Steps[0].Wait)
	assert.Equal(t, 0, *helper.Steps[0].Wait)
	assert.Equal(t, 2, helper.Steps[1].Exec)

	_, ok = sc.Task("nobody")
	assert.False(t, ok)
}

func TestParseScenario_Defaults(t *testing.T) {
	sc, err := ParseScenario([]byte("root: a\ntasks:\n  - name: a\n"))
	require.NoError(t, err)
	assert.Equal(t, sched.DefaultConfig(), sc.Config)
}

func TestParseScenario_Invalid(t *testing.T) {
	for name, doc := range map[string]string{
		"unknown key":       "root: a\nbogus: 1\ntasks:\n  - name: a\n",
		"missing root":      "root: b\ntasks:\n  - name: a\n",
		"duplicate name":    "root: a\ntasks:\n  - name: a\n  - name: a\n",
		"unnamed task":      "root: a\ntasks:\n  - name: a\n  - priority: 1\n",
		"priority range":    "root: a\ntasks:\n  - name: a\n    priority: 9\n",
		"spawn unknown":     "root: a\ntasks:\n  - name: a\n    steps:\n      - spawn: b\n",
		"channel range":     "io_channels: 1\nroot: a\ntasks:\n  - name: a\n    steps:\n      - wait: 1\n",
		"two actions":       "io_channels: 1\nroot: a\ntasks:\n  - name: a\n    steps:\n      - wait: 0\n        exec: 1\n",
		"empty step":        "root: a\ntasks:\n  - name: a\n    steps:\n      - {}\n",
		"negative exec":     "root: a\ntasks:\n  - name: a\n    steps:\n      - exec: -2\n",
		"negative channels": "io_channels: -1\nroot: a\ntasks:\n  - name: a\n",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := ParseScenario([]byte(doc))
			require.Error(t, err)
		})
	}
}

func TestParseScenario_ConfigErrorKind(t *testing.T) {
	_, err := ParseScenario([]byte("quantum: -1\nroot: a\ntasks:\n  - name: a\n"))
	require.ErrorIs(t, err, sched.ErrInvalidConfig)

	_, err = ParseScenario([]byte("root: b\ntasks:\n  - name: a\n"))
	require.ErrorIs(t, err, ErrInvalidScenario)
}

func TestLoadScenario_Files(t *testing.T) {
	for _, name := range []string{"pingpong.yml", "roundrobin.yml"} {
		t.Run(name, func(t *testing.T) {
			_, err := LoadScenario(filepath.Join("..", "..", "scenarios", name))
			require.NoError(t, err)
		})
	}

	_, err := LoadScenario(filepath.Join(t.TempDir(), "missing.yml"))
	require.ErrorIs(t, err, os.ErrNotExist)
}
