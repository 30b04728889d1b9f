package config

import "sort"

// Preset is a named parameter set. Alphas is only used by sweeps.
type Preset struct {
	Description string
	Params      ParamsConfig
	Alphas      []float64
}

var Presets = map[string]map[string]Preset{
	"run": {
		"default": {
			Description: "reference run, CFL about 0.2",
			Params:      ParamsConfig{Alpha: 0.01, Dt: 0.002, Time: 1.0, Cells: 100, Length: 1.0},
		},
		"fine": {
			Description: "finer grid with a smaller step",
			Params:      ParamsConfig{Alpha: 0.01, Dt: 0.0005, Time: 1.0, Cells: 200, Length: 1.0},
		},
		"long": {
			Description: "slow diffusion watched for longer",
			Params:      ParamsConfig{Alpha: 0.001, Dt: 0.01, Time: 10.0, Cells: 100, Length: 1.0},
		},
		"unstable": {
			Description: "CFL above 0.5, explicit schemes oscillate",
			Params:      ParamsConfig{Alpha: 0.1, Dt: 0.002, Time: 0.5, Cells: 100, Length: 1.0},
		},
	},
	"sweep": {
		"default": {
			Description: "three decades of diffusivity",
			Params:      ParamsConfig{Dt: 0.002, Time: 1.0, Cells: 100, Length: 1.0},
			Alphas:      []float64{0.001, 0.01, 0.1},
		},
		"narrow": {
			Description: "small changes around the reference diffusivity",
			Params:      ParamsConfig{Dt: 0.002, Time: 1.0, Cells: 100, Length: 1.0},
			Alphas:      []float64{0.005, 0.01, 0.02},
		},
		"wide": {
			Description: "five decades on a coarse grid",
			Params:      ParamsConfig{Dt: 0.0005, Time: 1.0, Cells: 50, Length: 1.0},
			Alphas:      []float64{0.0001, 0.001, 0.01, 0.1, 1.0},
		},
	},
}

// GetPreset returns the default configuration with the named preset applied,
// or nil if kind or name is unknown.
func GetPreset(kind, name string) *Config {
	presets, ok := Presets[kind]
	if !ok {
		return nil
	}
	p, ok := presets[name]
	if !ok {
		return nil
	}

	cfg := DefaultConfig()
	alpha := cfg.Params.Alpha
	cfg.Params = p.Params
	if cfg.Params.Alpha == 0 {
		cfg.Params.Alpha = alpha
	}
	if len(p.Alphas) > 0 {
		cfg.Alphas = append([]float64(nil), p.Alphas...)
	}
	return cfg
}

// ListPresets returns the preset names of a kind in sorted order.
func ListPresets(kind string) []string {
	presets, ok := Presets[kind]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
