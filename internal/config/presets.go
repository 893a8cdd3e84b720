package config

import "sort"

// Presets are named parameter regimes of the flow with workable step
// settings. rho drives the character: below 1 everything collapses to the
// origin, the spiral regime settles onto a wing, classic is the butterfly.
var Presets = map[string]*Config{
	"classic": {
		Sigma: 10.0, Rho: 28.0, Beta: 8.0 / 3.0,
		X: 1.0, Y: 1.0, Z: 1.0,
		Dt: 0.01, Steps: 5000, Integrator: "euler",
	},
	"stable": {
		Sigma: 10.0, Rho: 0.5, Beta: 8.0 / 3.0,
		X: 1.0, Y: 1.0, Z: 1.0,
		Dt: 0.01, Steps: 2000, Integrator: "euler",
	},
	"spiral": {
		Sigma: 10.0, Rho: 14.0, Beta: 8.0 / 3.0,
		X: 1.0, Y: 1.0, Z: 1.0,
		Dt: 0.01, Steps: 5000, Integrator: "euler",
	},
	"wide": {
		Sigma: 10.0, Rho: 45.0, Beta: 8.0 / 3.0,
		X: 1.0, Y: 1.0, Z: 1.0,
		Dt: 0.005, Steps: 10000, Integrator: "heun",
	},
	"doubling": {
		Sigma: 10.0, Rho: 99.65, Beta: 8.0 / 3.0,
		X: 1.0, Y: 1.0, Z: 1.0,
		Dt: 0.002, Steps: 20000, Integrator: "rk4",
	},
}

func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
