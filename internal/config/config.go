// Package config loads the server's tunables (SPEC_FULL.md §4.K) from an
// optional TOML file, following the manifest-loading pattern the corpus
// uses for its own project files (BurntSushi/toml, read-whole-file-then-
// unmarshal, defaults applied after parsing).
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// Config holds every knob spec.md leaves to the server's discretion.
type Config struct {
	// PageSize is the shared memory page size in bytes (spec.md §4.A: "≥
	// 32 KiB"; spec.md §9 open question #4 flags page size as a future
	// multi-page extension point, so it is configurable even though this
	// module only ever allocates one page per session).
	PageSize int `toml:"page_size"`

	// LockWatchdogMillis is parsed and defaulted but not read by the render
	// loop: page.AcquireFrame always waits at most page.LockWatchdog
	// (100 ms) for Lock, whatever this field holds.
	LockWatchdogMillis int `toml:"lock_watchdog_ms"`

	// ReadyWaitMillis bounds how long the render loop blocks on the Ready
	// semaphore before checking for shutdown (spec.md §4.A "short timeout").
	ReadyWaitMillis int `toml:"ready_wait_ms"`

	// InstructionCap bounds how many tagged words a single frame's
	// interpreter pass may decode (spec.md §5), defaulting to
	// 100 * PageSize / W per SPEC_FULL.md §4.K.
	InstructionCap uint64 `toml:"instruction_cap"`

	// SessionName, if set, fixes the session id instead of generating a
	// fresh uuid (SPEC_FULL.md §4.J — useful for deterministic tests).
	SessionName string `toml:"session_name"`

	// BaseFontSize is the root em Rems lengths resolve against.
	BaseFontSize float64 `toml:"base_font_size"`
}

const (
	DefaultPageSize           = 32 * 1024
	DefaultLockWatchdogMillis = 100
	DefaultReadyWaitMillis    = 1000
	DefaultBaseFontSize       = 16
	wordSize                  = 8
)

// Default returns the configuration spec.md's defaults imply when no file
// is supplied.
func Default() Config {
	return Config{
		PageSize:           DefaultPageSize,
		LockWatchdogMillis: DefaultLockWatchdogMillis,
		ReadyWaitMillis:    DefaultReadyWaitMillis,
		InstructionCap:     uint64(100 * DefaultPageSize / wordSize),
		BaseFontSize:       DefaultBaseFontSize,
	}
}

// Load reads and parses a TOML file at path, applying Default()'s values
// for anything the file leaves at its zero value.
func Load(path string) (Config, error) {
	cfg := Default()
	cfg.InstructionCap = 0 // derived from the loaded page size unless the file sets it
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: cannot read %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse error in %s: %w", path, err)
	}
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.PageSize <= 0 {
		c.PageSize = DefaultPageSize
	}
	if c.LockWatchdogMillis <= 0 {
		c.LockWatchdogMillis = DefaultLockWatchdogMillis
	}
	if c.ReadyWaitMillis <= 0 {
		c.ReadyWaitMillis = DefaultReadyWaitMillis
	}
	if c.InstructionCap == 0 {
		c.InstructionCap = uint64(100 * c.PageSize / wordSize)
	}
	if c.BaseFontSize <= 0 {
		c.BaseFontSize = DefaultBaseFontSize
	}
}

func (c Config) LockWatchdog() time.Duration {
	return time.Duration(c.LockWatchdogMillis) * time.Millisecond
}

func (c Config) ReadyWait() time.Duration {
	return time.Duration(c.ReadyWaitMillis) * time.Millisecond
}
