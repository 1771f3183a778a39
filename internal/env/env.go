// Package env samples the atmosphere and gravity the aircraft flies in.
package env

import (
	"math"

	"github.com/golang/geo/r3"
)

const (
	StandardGravity = 9.80665 // [m/s^2]

	seaLevelDensity     = 1.225    // [kg/m^3]
	seaLevelTemperature = 288.15   // [K]
	lapseRate           = 0.0065   // [K/m]
	gasConstant         = 287.053  // [J/(kg*K)]
	tropopause          = 11000.0  // [m]
	tropopauseTemp      = 216.65   // [K]
	tropopauseDensity   = 0.363918 // [kg/m^3]
)

// Sample is the environment seen by the aircraft during one step.
type Sample struct {
	Gravity float64   // [m/s^2] along NED +z
	Density float64   // [kg/m^3]
	Wind    r3.Vector // [m/s] NED
}

// GravityNED returns the gravity acceleration vector in NED.
func (s Sample) GravityNED() r3.Vector {
	return r3.Vector{Z: s.Gravity}
}

// Environment produces samples by altitude.
type Environment struct {
	Gravity float64
	Wind    r3.Vector
}

func Standard() *Environment {
	return &Environment{Gravity: StandardGravity}
}

// FromSpeedAndDir sets a wind blowing from directionDeg (clockwise from
// north) at speed m/s.
func (e *Environment) FromSpeedAndDir(speed, directionDeg float64) {
	rad := directionDeg * math.Pi / 180
	e.Wind = r3.Vector{X: -speed * math.Cos(rad), Y: -speed * math.Sin(rad)}
}

func (e *Environment) At(altitude float64) Sample {
	g := e.Gravity
	if g == 0 {
		g = StandardGravity
	}
	return Sample{Gravity: g, Density: Density(altitude), Wind: e.Wind}
}

// Density is the ISA air density at geometric altitude [m], troposphere and
// lower stratosphere. Altitudes below sea level use the sea level gradient.
func Density(altitude float64) float64 {
	if altitude <= tropopause {
		temp := seaLevelTemperature - lapseRate*altitude
		exp := StandardGravity/(lapseRate*gasConstant) - 1
		return seaLevelDensity * math.Pow(temp/seaLevelTemperature, exp)
	}
	return tropopauseDensity * math.Exp(-StandardGravity*(altitude-tropopause)/(gasConstant*tropopauseTemp))
}
