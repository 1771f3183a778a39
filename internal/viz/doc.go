// Package viz is the terminal live view of a running aircraft, built on
// Bubble Tea.
//
// The left pane is a top-down braille drawing of the airframe with both
// rotors turning at their simulated azimuths and the recent ground track.
// The right pane shows flight state, rotor speed, controls and an altitude
// chart.
//
// # Key Bindings
//
//	Space  - Pause/Resume
//	R      - Restart the run
//	A      - Toggle autopilot / manual
//	W/S    - Collective up/down
//	Arrows - Cyclic
//	Z/X    - Pedals
//	C      - Center cyclic and pedals
//	+/-    - Zoom
//	T      - Cycle color themes
//	?      - Show help overlay
package viz
