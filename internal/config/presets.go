package config

import (
	"sort"

	"github.com/san-kum/fdmsim/internal/input"
)

const (
	hoverTrim = 0.45
	pedalTrim = 0.45
)

func crew() map[string]float64 {
	return map[string]float64{
		input.Throttle:             1,
		input.Pedals:               pedalTrim,
		input.MassChannel("pilot"): 80,
		input.MassChannel("fuel"):  100,
	}
}

func holding(target float64) AutopilotConfig {
	return AutopilotConfig{
		AltitudeHold: true,
		AttitudeHold: true,
		Target:       target,
		Trim:         hoverTrim,
		PedalTrim:    pedalTrim,
		Kp:           DefaultKp,
		Ki:           DefaultKi,
		Kd:           DefaultKd,
	}
}

var Presets = map[string]map[string]*Config{
	"r44": {
		"hover": {
			Aircraft: "r44", Integrator: "rk4", Dt: 0.1, Substeps: 10, Duration: 30.0,
			InitState: InitStateConfig{Altitude: 100, EngineOn: true},
			Inputs:    crew(),
			Autopilot: holding(100),
		},
		"climb": {
			Aircraft: "r44", Integrator: "rk4", Dt: 0.1, Substeps: 10, Duration: 60.0,
			InitState: InitStateConfig{Altitude: 100, EngineOn: true},
			Inputs:    crew(),
			Autopilot: holding(300),
		},
		"fuel_burn": {
			Aircraft: "r44", Integrator: "rk4", Dt: 0.1, Substeps: 10, Duration: 120.0,
			InitState: InitStateConfig{Altitude: 150, EngineOn: true},
			Inputs:    crew(),
			Schedule: map[string][][2]float64{
				input.MassChannel("fuel"): {{0, 128}, {120, 20}},
			},
			Autopilot: holding(150),
		},
		"ground_idle": {
			Aircraft: "r44", Integrator: "euler", Dt: 0.05, Substeps: 20, Duration: 20.0,
			InitState: InitStateConfig{Altitude: 1, EngineOn: false},
			Inputs:    map[string]float64{input.MassChannel("pilot"): 80},
			Schedule: map[string][][2]float64{
				input.Throttle: {{0, 0}, {5, 0}, {15, 1}},
			},
		},
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(aircraft, preset string) *Config {
	presets, ok := Presets[aircraft]
	if !ok {
		return nil
	}
	cfg, ok := presets[preset]
	if !ok {
		return nil
	}
	c := *cfg
	c.Inputs = make(map[string]float64, len(cfg.Inputs))
	for k, v := range cfg.Inputs {
		c.Inputs[k] = v
	}
	c.Schedule = make(map[string][][2]float64, len(cfg.Schedule))
	for k, v := range cfg.Schedule {
		c.Schedule[k] = append([][2]float64(nil), v...)
	}
	return &c
}

func ListPresets(aircraft string) []string {
	presets, ok := Presets[aircraft]
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
