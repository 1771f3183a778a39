// Package geom holds the small linear-algebra vocabulary of the flight
// model: r3 vectors, 3x3 matrices for inertia tensors, and attitude
// quaternions.
//
// Quaternions rotate vectors from the body axis system (BAS) into the local
// north-east-down (NED) frame. Euler angles follow the aerospace Z-Y-X
// (yaw, pitch, roll) sequence.
package geom
