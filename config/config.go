// Package config handles wam.toml machine configuration.
package config

import (
	"os"

	"github.com/BurntSushi/toml"

	"github.com/brunokim/tagged-wam/errors"
)

// Config sizes the machine's memory areas and controls tracing.
type Config struct {
	Heap  Area  `toml:"heap"`
	PDL   Area  `toml:"pdl"`
	Trace Trace `toml:"trace"`
}

// Area configures a growable buffer. Heap sizes are in bytes, PDL sizes in slots.
type Area struct {
	InitialSize int `toml:"initial-size"`
	Increment   int `toml:"increment"`
}

// Trace configures the instruction trace and log output.
type Trace struct {
	// Output is a file receiving one JSON line per executed instruction. Empty disables it.
	Output string `toml:"output"`
	// Stderr mirrors the instruction trace to standard error.
	Stderr bool `toml:"stderr"`
	// Verbosity of the logger: 0 is warnings and above, 1 adds info, 2 adds debug.
	Verbosity int `toml:"verbosity"`
	// LogFile receives log output instead of standard error.
	LogFile string `toml:"log-file"`
}

// Default returns the sizes used by the machine when no configuration is given.
func Default() Config {
	return Config{
		Heap: Area{InitialSize: 512, Increment: 1024},
		PDL:  Area{InitialSize: 32, Increment: 32},
	}
}

// Load parses a TOML file on top of the defaults.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.New("cannot read %s: %v", path, err)
	}
	cfg, err := Parse(string(data))
	if err != nil {
		return Config{}, errors.New("parse error in %s: %v", path, err)
	}
	return cfg, nil
}

// Parse decodes TOML text on top of the defaults. Unknown keys are rejected.
func Parse(text string) (Config, error) {
	cfg := Default()
	md, err := toml.Decode(text, &cfg)
	if err != nil {
		return Config{}, err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Config{}, errors.New("unknown keys: %v", undecoded)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks that every size is usable.
func (c Config) Validate() error {
	if c.Heap.InitialSize < 0 {
		return errors.New("heap.initial-size must not be negative: %d", c.Heap.InitialSize)
	}
	if c.Heap.Increment <= 0 {
		return errors.New("heap.increment must be positive: %d", c.Heap.Increment)
	}
	if c.PDL.InitialSize < 0 {
		return errors.New("pdl.initial-size must not be negative: %d", c.PDL.InitialSize)
	}
	if c.PDL.Increment <= 0 {
		return errors.New("pdl.increment must be positive: %d", c.PDL.Increment)
	}
	if c.Trace.Verbosity < 0 {
		return errors.New("trace.verbosity must not be negative: %d", c.Trace.Verbosity)
	}
	return nil
}
