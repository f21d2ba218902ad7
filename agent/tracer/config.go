package tracer

import (
	"fmt"
	"os"

	"github.com/c2h5oh/datasize"
	"gopkg.in/yaml.v3"

	"github.com/adatrace/adatrace/agent/arena"
	"github.com/adatrace/adatrace/agent/registry"
)

// Config is the agent-side configuration.
type Config struct {
	// ShmDir is the directory holding the arena file.
	ShmDir string `yaml:"shm_dir"`
	// ShmName is the arena file name shared with the collector.
	ShmName string `yaml:"shm_name"`
	// ArenaSize is the shared memory budget. Zero means "whatever the
	// registry configuration needs".
	ArenaSize datasize.ByteSize `yaml:"arena_size"`
	// Registry sizes the thread table and every thread's lanes.
	Registry registry.Config `yaml:"registry"`
}

// DefaultConfig returns the default agent configuration.
func DefaultConfig() *Config {
	return &Config{
		ShmDir:   arena.DefaultDir,
		ShmName:  "adatrace",
		Registry: registry.DefaultConfig(),
	}
}

// LoadConfig loads configuration from a YAML file at the specified path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML configuration: %w", err)
	}

	return cfg, nil
}

// arenaSize resolves the configured size against what the registry needs.
func (m *Config) arenaSize() datasize.ByteSize {
	need := m.Registry.ArenaBytes()
	if m.ArenaSize > need {
		return m.ArenaSize
	}
	return need
}
