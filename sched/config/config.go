// Package config holds the process-wide tunables for the scheduler: the
// per-task stack budget, the preemption quantum, and logging. It mirrors
// the load/defaults split of vmi_internal's VmiConfig: a typed struct
// decoded from YAML, with every field independently defaultable so a
// caller can supply a partial document.
package config

import (
	"fmt"
	"os"
	"time"

	units "github.com/docker/go-units"
	"gopkg.in/yaml.v3"
)

const (
	// StackSizeDefault matches the source's STACK_SIZE of 4096 bytes.
	// §9 of the specification flags this as almost certainly too small
	// for real workloads; it is kept as the literal default to preserve
	// the documented behavior, and every constructor that accepts a
	// Config lets callers override it.
	StackSizeDefault = "4KiB"

	// QuantumDefault matches the source's 100µs virtual-time interval.
	QuantumDefault = 100 * time.Microsecond

	LogLevelDefault = "info"
)

// Config is the top-level scheduler configuration, decoded from a
// "scheduler" YAML document section.
type Config struct {
	// StackSize is a human-readable size (e.g. "4KiB", "1MiB") for the
	// per-task stack budget, parsed with docker/go-units so operators
	// can write config the way they would size a container's memory.
	StackSize string `yaml:"stack_size"`

	// Quantum is the preemption timer period.
	Quantum time.Duration `yaml:"quantum"`

	// LogLevel is a logrus level name: "debug", "info", "warn", ...
	LogLevel string `yaml:"log_level"`

	// LogJSON selects structured JSON log output over human-readable text.
	LogJSON bool `yaml:"log_json"`
}

// Default returns a Config populated with the source-faithful defaults.
func Default() *Config {
	return &Config{
		StackSize: StackSizeDefault,
		Quantum:   QuantumDefault,
		LogLevel:  LogLevelDefault,
		LogJSON:   false,
	}
}

// StackSizeBytes resolves the configured human-readable stack size into
// a byte count.
func (c *Config) StackSizeBytes() (int64, error) {
	size := c.StackSize
	if size == "" {
		size = StackSizeDefault
	}
	n, err := units.RAMInBytes(size)
	if err != nil {
		return 0, fmt.Errorf("config: stack_size %q: %w", size, err)
	}
	return n, nil
}

// Load reads a YAML document from path under a top-level "scheduler"
// key, overlaying it onto Default(). A missing file is not an error: the
// defaults are returned as-is, matching how a fresh checkout of a
// scheduler-backed program is expected to run before any config exists.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	buf, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("config: %q: %w", path, err)
	}

	var doc struct {
		Scheduler *Config `yaml:"scheduler"`
	}
	doc.Scheduler = cfg
	if err := yaml.Unmarshal(buf, &doc); err != nil {
		return nil, fmt.Errorf("config: %q: %w", path, err)
	}
	return doc.Scheduler, nil
}
