package sched

import (
	"fmt"
	"os"

	yaml "github.com/goccy/go-yaml"
)

// PreemptGuard selects how the priority preemption rule treats the
// candidate successor.
type PreemptGuard string

const (
	// GuardNone always preempts into a higher priority candidate.
	GuardNone PreemptGuard = "none"
	// GuardRunnable skips preemption when the candidate is not READY.
	GuardRunnable PreemptGuard = "runnable"
)

// Config mirrors the scheduler section of a config or scenario file.
type Config struct {
	Quantum      int          `yaml:"quantum"`       // 1 (by default)
	IOChannels   int          `yaml:"io_channels"`   // 0 (by default)
	PreemptGuard PreemptGuard `yaml:"preempt_guard"` // none (by default)
}

// DefaultConfig is used when no config file is found.
func DefaultConfig() Config {
	return Config{
		Quantum:      1,
		IOChannels:   0,
		PreemptGuard: GuardNone,
	}
}

// Validate reports ErrInvalidConfig for values Init would reject.
func (c Config) Validate() error {
	if c.Quantum <= 0 {
		return fmt.Errorf("%w: quantum must be positive, got %d", ErrInvalidConfig, c.Quantum)
	}
	if c.IOChannels < 0 || c.IOChannels > MaxChannels {
		return fmt.Errorf("%w: io channels must be within [0, %d], got %d", ErrInvalidConfig, MaxChannels, c.IOChannels)
	}
	switch c.PreemptGuard {
	case "", GuardNone, GuardRunnable:
	default:
		return fmt.Errorf("%w: unknown preempt guard %q", ErrInvalidConfig, c.PreemptGuard)
	}
	return nil
}

// Load reads YAML and overrides defaults; an empty path means defaults only.
// A path that does not exist is an error wrapping fs.ErrNotExist. Values are
// not validated here, Init does that.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if cfg.PreemptGuard == "" {
		cfg.PreemptGuard = GuardNone
	}
	return cfg, nil
}
