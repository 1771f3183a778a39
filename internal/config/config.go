// Package config loads simulation run configurations and aircraft data
// trees.
//
// Run configurations are YAML documents decoded into [Config]. Aircraft data
// files are parsed into a navigable [Node]; flight model components read
// their own sub-tree through its typed accessors.
package config

import (
	"fmt"
	"os"
	"sort"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"
)

const (
	DefaultAircraft   = "r44"
	DefaultIntegrator = "rk4"
	DefaultDt         = 0.1
	DefaultSubsteps   = 10
	DefaultDuration   = 30.0
	DefaultAltitude   = 100.0
	DefaultKp         = 0.08
	DefaultKi         = 0.01
	DefaultKd         = 0.12
)

type Config struct {
	Aircraft    string                  `yaml:"aircraft"`
	DataFile    string                  `yaml:"data_file,omitempty"`
	Integrator  string                  `yaml:"integrator"`
	Dt          float64                 `yaml:"dt"`
	Substeps    int                     `yaml:"substeps"`
	Duration    float64                 `yaml:"duration"`
	InitState   InitStateConfig         `yaml:"init_state"`
	Environment EnvironmentConfig       `yaml:"environment"`
	Inputs      map[string]float64      `yaml:"inputs,omitempty"`
	Schedule    map[string][][2]float64 `yaml:"schedule,omitempty"`
	Autopilot   AutopilotConfig         `yaml:"autopilot"`
}

// InitStateConfig holds initial conditions. Angles are in degrees.
type InitStateConfig struct {
	North    float64 `yaml:"north"`
	East     float64 `yaml:"east"`
	Altitude float64 `yaml:"altitude"`
	Airspeed float64 `yaml:"airspeed"`
	Heading  float64 `yaml:"heading"`
	Pitch    float64 `yaml:"pitch"`
	Roll     float64 `yaml:"roll"`
	EngineOn bool    `yaml:"engine_on"`
}

type EnvironmentConfig struct {
	Gravity       float64 `yaml:"gravity,omitempty"`
	WindSpeed     float64 `yaml:"wind_speed"`
	WindDirection float64 `yaml:"wind_direction"`
}

// AutopilotConfig configures the altitude hold loop on the collective and
// the attitude hold loops on the cyclic and pedals.
type AutopilotConfig struct {
	AltitudeHold bool    `yaml:"altitude_hold"`
	AttitudeHold bool    `yaml:"attitude_hold"`
	Target       float64 `yaml:"target"`
	Trim         float64 `yaml:"trim"`
	PedalTrim    float64 `yaml:"pedal_trim"`
	Kp           float64 `yaml:"kp"`
	Ki           float64 `yaml:"ki"`
	Kd           float64 `yaml:"kd"`
}

func DefaultConfig() *Config {
	return &Config{
		Aircraft:   DefaultAircraft,
		Integrator: DefaultIntegrator,
		Dt:         DefaultDt,
		Substeps:   DefaultSubsteps,
		Duration:   DefaultDuration,
		InitState: InitStateConfig{
			Altitude: DefaultAltitude,
			EngineOn: true,
		},
		Inputs: map[string]float64{},
		Autopilot: AutopilotConfig{
			Target: DefaultAltitude,
			Kp:     DefaultKp,
			Ki:     DefaultKi,
			Kd:     DefaultKd,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrapf(ErrInvalidValue, "%s: %v", path, err)
	}
	if err := cfg.Validate(); err != nil {
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

// Validate reports every problem at once.
func (c *Config) Validate() error {
	var err error
	if c.Aircraft == "" {
		err = multierr.Append(err, errors.Wrap(ErrMissingField, "aircraft"))
	}
	if c.Dt <= 0 {
		err = multierr.Append(err, errors.Wrapf(ErrInvalidValue, "dt must be positive, got %v", c.Dt))
	}
	if c.Substeps < 1 {
		err = multierr.Append(err, errors.Wrapf(ErrInvalidValue, "substeps must be at least 1, got %d", c.Substeps))
	}
	if c.Duration <= 0 {
		err = multierr.Append(err, errors.Wrapf(ErrInvalidValue, "duration must be positive, got %v", c.Duration))
	}
	if c.Environment.Gravity < 0 {
		err = multierr.Append(err, errors.Wrapf(ErrInvalidValue, "gravity must not be negative, got %v", c.Environment.Gravity))
	}
	if c.Autopilot.Trim < 0 || c.Autopilot.Trim > 1 {
		err = multierr.Append(err, errors.Wrapf(ErrInvalidValue, "autopilot trim must be within [0, 1], got %v", c.Autopilot.Trim))
	}
	if c.Environment.WindSpeed < 0 {
		err = multierr.Append(err, errors.Wrapf(ErrInvalidValue, "wind speed must not be negative, got %v", c.Environment.WindSpeed))
	}
	for _, ch := range sortedKeys(c.Schedule) {
		pts := c.Schedule[ch]
		for i := 1; i < len(pts); i++ {
			if pts[i][0] < pts[i-1][0] {
				err = multierr.Append(err, errors.Wrapf(ErrInvalidValue, "schedule %s: time %v after %v", ch, pts[i][0], pts[i-1][0]))
				break
			}
		}
	}
	return err
}

// InputNames returns the constant input channels in a stable order.
func (c *Config) InputNames() []string {
	return sortedKeys(c.Inputs)
}

// ScheduleNames returns the scheduled channels in a stable order.
func (c *Config) ScheduleNames() []string {
	return sortedKeys(c.Schedule)
}

func (c *Config) String() string {
	return fmt.Sprintf("%s dt=%.4fs x%d for %.1fs (%s)", c.Aircraft, c.Dt, c.Substeps, c.Duration, c.Integrator)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
