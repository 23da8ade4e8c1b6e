package nahiri

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/VirgileHenry/nahiri/distance"
	"github.com/VirgileHenry/nahiri/index/graph"
)

// Config is the file form of the build options.
//
//	dimension: 128
//	metric: dot        # dot | l2
//	capacities: {l0: 16, l1: 8, l2: 4, l3: 2}
//	workers: 4
//	log:
//	  level: info      # debug | info | warn | error
//	  format: text     # text | json
type Config struct {
	Dimension  int              `yaml:"dimension"`
	Metric     distance.Metric  `yaml:"metric"`
	Capacities CapacitiesConfig `yaml:"capacities"`
	Workers    int              `yaml:"workers"`
	Log        LogConfig        `yaml:"log"`
}

// CapacitiesConfig holds the tier capacities.
type CapacitiesConfig struct {
	L0 int `yaml:"l0"`
	L1 int `yaml:"l1"`
	L2 int `yaml:"l2"`
	L3 int `yaml:"l3"`
}

func (c CapacitiesConfig) toGraph() graph.Capacities {
	return graph.Capacities{c.L0, c.L1, c.L2, c.L3}
}

// LogConfig selects the logger built by WithConfig. An empty Format keeps the
// logger configured by earlier options.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Logger builds the configured logger, or nil when Format is empty.
// Unknown levels fall back to info.
func (c LogConfig) Logger() *Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Level)); err != nil {
		level = slog.LevelInfo
	}

	switch strings.ToLower(c.Format) {
	case "json":
		return NewJSONLogger(level)
	case "text":
		return NewTextLogger(level)
	default:
		return nil
	}
}

// DefaultConfig returns the configuration matching graph.DefaultOptions.
func DefaultConfig() Config {
	caps := graph.DefaultOptions.Capacities
	return Config{
		Dimension: graph.DefaultOptions.Dimension,
		Metric:    graph.DefaultOptions.Metric,
		Capacities: CapacitiesConfig{
			L0: caps[0], L1: caps[1], L2: caps[2], L3: caps[3],
		},
		Workers: graph.DefaultOptions.Workers,
	}
}

// LoadConfig decodes a YAML configuration from r on top of DefaultConfig.
// Unknown fields are rejected.
func LoadConfig(r io.Reader) (Config, error) {
	cfg := DefaultConfig()

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}

	return cfg, nil
}

// LoadConfigFile reads and decodes the YAML configuration at path.
func LoadConfigFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	return LoadConfig(bytes.NewReader(data))
}

// Marshal encodes cfg as YAML.
func (c Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}
