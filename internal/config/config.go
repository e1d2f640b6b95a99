package config

import (
	"errors"
	"fmt"
	"os"
	"runtime"

	"gopkg.in/yaml.v3"

	"github.com/ivlev/anim2c/internal/timing"
)

// Config is the full run configuration. File values are loaded first and
// command-line flags override them.
type Config struct {
	Inputs       []string            `yaml:"inputs"`
	InputDir     string              `yaml:"input_dir"`
	OutputDir    string              `yaml:"output_dir"`
	Formats      []string            `yaml:"formats"`
	ResourceFile string              `yaml:"resource_file"`
	Geometry     timing.TileGeometry `yaml:"geometry"`
	Workers      int                 `yaml:"workers"`
	ProbeImages  bool                `yaml:"probe_images"`
	Watch        bool                `yaml:"watch"`
	ShowStats    bool                `yaml:"show_stats"`
	BuildVersion string              `yaml:"-"`
}

// Formats understood by the output package.
var knownFormats = map[string]bool{
	"c":    true,
	"yaml": true,
	"res":  true,
}

func Default() *Config {
	return &Config{
		InputDir:     "input/sheets",
		OutputDir:    "output",
		Formats:      []string{"c"},
		ResourceFile: "animations.res",
		Geometry:     timing.DefaultGeometry(),
		Workers:      runtime.NumCPU(),
	}
}

// Load overlays a YAML file onto the defaults. An empty path returns the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: load %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	var errs []error

	if !c.Geometry.Valid() {
		errs = append(errs, fmt.Errorf("tile geometry %dx%d (per row %d) is invalid",
			c.Geometry.TileWidth, c.Geometry.TileHeight, c.Geometry.TilesPerRow))
	}
	if c.Workers < 1 {
		errs = append(errs, fmt.Errorf("workers must be at least 1, got %d", c.Workers))
	}
	if len(c.Formats) == 0 {
		errs = append(errs, errors.New("no output formats"))
	}
	for _, f := range c.Formats {
		if !knownFormats[f] {
			errs = append(errs, fmt.Errorf("unknown output format %q", f))
		}
	}
	if c.OutputDir == "" {
		errs = append(errs, errors.New("output dir is empty"))
	}

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}
