package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/heatanim/internal/heat"
)

const (
	DefaultAlpha      = 0.01
	DefaultDt         = 0.002
	DefaultTime       = 1.0
	DefaultCells      = 100
	DefaultIntervalMS = 50
	DefaultSolver     = "build/heat1d_solver"
	DefaultResultsDir = "results"
	DefaultImagesDir  = "imgs"
	DefaultTheme      = "light"
	DefaultConfigFile = "heatanim.yaml"
)

// DefaultAlphas is the diffusivity sweep used when none is configured.
var DefaultAlphas = []float64{0.001, 0.01, 0.1}

type Config struct {
	Solver string       `yaml:"solver"`
	Params ParamsConfig `yaml:"params"`
	Alphas []float64    `yaml:"alphas"`
	Render RenderConfig `yaml:"render"`
	Output OutputConfig `yaml:"output"`
}

type ParamsConfig struct {
	Alpha  float64 `yaml:"alpha"`
	Dt     float64 `yaml:"dt"`
	Time   float64 `yaml:"time"`
	Cells  int     `yaml:"cells"`
	Length float64 `yaml:"length"`
}

type RenderConfig struct {
	IntervalMS           int      `yaml:"interval_ms"`
	YMin                 *float64 `yaml:"ymin,omitempty"`
	YMax                 *float64 `yaml:"ymax,omitempty"`
	Theme                string   `yaml:"theme"`
	Width                int      `yaml:"width"`
	Height               int      `yaml:"height"`
	AllowMismatchedGrids bool     `yaml:"allow_mismatched_grids"`
}

type OutputConfig struct {
	ResultsDir string `yaml:"results_dir"`
	ImagesDir  string `yaml:"images_dir"`
}

func DefaultConfig() *Config {
	return &Config{
		Solver: DefaultSolver,
		Params: ParamsConfig{
			Alpha:  DefaultAlpha,
			Dt:     DefaultDt,
			Time:   DefaultTime,
			Cells:  DefaultCells,
			Length: heat.DefaultLength,
		},
		Alphas: append([]float64(nil), DefaultAlphas...),
		Render: RenderConfig{
			IntervalMS: DefaultIntervalMS,
			Theme:      DefaultTheme,
		},
		Output: OutputConfig{
			ResultsDir: DefaultResultsDir,
			ImagesDir:  DefaultImagesDir,
		},
	}
}

func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if err := Apply(path, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Apply overlays the values set in the file at path onto cfg.
func Apply(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// HeatParams returns the solver parameters for a single run.
func (c *Config) HeatParams() heat.Params {
	return heat.Params{
		Alpha:    c.Params.Alpha,
		Dt:       c.Params.Dt,
		Duration: c.Params.Time,
		Cells:    c.Params.Cells,
		Length:   c.Params.Length,
	}
}

// Interval is the delay between animation frames.
func (c *Config) Interval() time.Duration {
	return time.Duration(c.Render.IntervalMS) * time.Millisecond
}

// Validate checks everything a run or sweep needs before the solver starts.
func (c *Config) Validate() error {
	var errs []error
	if c.Solver == "" {
		errs = append(errs, errors.New("solver path is empty"))
	}
	if err := c.HeatParams().Validate(); err != nil {
		errs = append(errs, err)
	}
	for _, a := range c.Alphas {
		if a <= 0 {
			errs = append(errs, fmt.Errorf("sweep alpha must be positive, got %g", a))
		}
	}
	if c.Render.IntervalMS <= 0 {
		errs = append(errs, fmt.Errorf("interval must be positive, got %dms", c.Render.IntervalMS))
	}
	if v := c.Render.YMin; v != nil && (math.IsNaN(*v) || math.IsInf(*v, 0)) {
		errs = append(errs, fmt.Errorf("ymin must be finite, got %g", *v))
	}
	if v := c.Render.YMax; v != nil && (math.IsNaN(*v) || math.IsInf(*v, 0)) {
		errs = append(errs, fmt.Errorf("ymax must be finite, got %g", *v))
	}
	if c.Render.YMin != nil && c.Render.YMax != nil && *c.Render.YMin >= *c.Render.YMax {
		errs = append(errs, fmt.Errorf("ymin %g must be below ymax %g", *c.Render.YMin, *c.Render.YMax))
	}
	return errors.Join(errs...)
}
