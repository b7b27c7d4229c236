package sched

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)

}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yml"))
	require.ErrorIs(t, err, fs.ErrNotExist)
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("quantum: 4\nio_channels: 3\npreempt_guard: runnable\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Config{Quantum: 4, IOChannels: 3, PreemptGuard: GuardRunnable}, cfg)
	require.NoError(t, cfg.Validate())
}

func TestLoad_BadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("quantum: [1\n"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
}

func TestConfig_Validate(t *testing.T) {
	for name, cfg := range map[string]Config{
		"zero quantum":      {Quantum: 0},
		"negative channels": {Quantum: 1, IOChannels: -1},
		"too many channels": {Quantum: 1, IOChannels: MaxChannels + 1},
		"unknown guard":     {Quantum: 1, PreemptGuard: "sometimes"},
	} {
		t.Run(name, func(t *testing.T) {
			require.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
		})
	}
	require.NoError(t, Config{Quantum: 1}.Validate())
}

func TestInitConfig_UsesGuard(t *testing.T) {
	s, _ := newTestScheduler(t, WithPreemptGuard(GuardRunnable))
	require.NoError(t, s.InitConfig(Config{Quantum: 1}))
	assert.Equal(t, GuardRunnable, s.guard)
	s.Shutdown()

	require.NoError(t, s.InitConfig(Config{Quantum: 1, PreemptGuard: GuardNone}))
	assert.Equal(t, GuardNone, s.guard)
	s.Shutdown()
}
