package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/phasekit/lorenzlab/internal/lorenz"
	"github.com/phasekit/lorenzlab/internal/phase"
)

const (
	DefaultDt    = 0.01
	DefaultSteps = 5000
)

type Config struct {
	Sigma      float64 `yaml:"sigma"`
	Rho        float64 `yaml:"rho"`
	Beta       float64 `yaml:"beta"`
	X          float64 `yaml:"x"`
	Y          float64 `yaml:"y"`
	Z          float64 `yaml:"z"`
	Dt         float64 `yaml:"dt"`
	Steps      int     `yaml:"steps"`
	Integrator string  `yaml:"integrator"`
	DataDir    string  `yaml:"data_dir"`
}

func DefaultConfig() *Config {
	return &Config{
		Sigma:      10.0,
		Rho:        28.0,
		Beta:       8.0 / 3.0,
		X:          1.0,
		Y:          1.0,
		Z:          1.0,
		Dt:         DefaultDt,
		Steps:      DefaultSteps,
		Integrator: "euler",
		DataDir:    ".lorenzlab",
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Params() lorenz.Params {
	return lorenz.Params{Sigma: c.Sigma, Rho: c.Rho, Beta: c.Beta}
}

func (c *Config) Initial() phase.State {
	return phase.State{c.X, c.Y, c.Z}
}
