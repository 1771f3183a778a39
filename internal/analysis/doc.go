// Package analysis extracts frequency content from recorded runs: rotor
// speed hunting, attitude oscillations under the autopilot and the like.
package analysis
