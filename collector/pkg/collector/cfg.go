package collector

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/adatrace/adatrace/agent/arena"
	"github.com/adatrace/adatrace/collector/internal/drain"
	"github.com/adatrace/adatrace/collector/internal/mark"
	"github.com/adatrace/adatrace/common/logging"
)

// Config represents the main configuration structure for the collector.
type Config struct {
	// ShmDir is the directory holding the arena file.
	ShmDir string `yaml:"shm_dir"`
	// ShmName is the arena file name, as created by the traced process.
	ShmName string `yaml:"shm_name"`
	// Endpoint is the collector gRPC endpoint for control and telemetry.
	Endpoint string `yaml:"endpoint"`
	// OutputPath is where the binary trace log is written.
	OutputPath string `yaml:"output_path"`
	// Logging configuration.
	Logging logging.Config `yaml:"logging"`
	// Drain engine configuration.
	Drain drain.Config `yaml:"drain"`
	// Mark lists function patterns that arm detail capture.
	Mark mark.Config `yaml:"mark"`
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

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		ShmDir:     arena.DefaultDir,
		ShmName:    "adatrace",
		Endpoint:   "[::1]:50071",
		OutputPath: "adatrace.bin",
		Drain:      drain.DefaultConfig(),
	}
}
