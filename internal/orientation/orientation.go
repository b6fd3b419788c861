// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package orientation

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Vector3 is one tri-axis sensor reading: m/s² for the accelerometer,
// µT for the magnetometer.
type Vector3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Vec converts v for use with gonum's r3 helpers.
func (v Vector3) Vec() r3.Vec {
	return r3.Vec{X: v.X, Y: v.Y, Z: v.Z}
}

// FromVec is the inverse of Vector3.Vec.
func FromVec(v r3.Vec) Vector3 {
	return Vector3{X: v.X, Y: v.Y, Z: v.Z}
}

// Norm returns the magnitude of v.
func (v Vector3) Norm() float64 {
	return r3.Norm(v.Vec())
}

// IsFinite reports whether no component is NaN or infinite.
func (v Vector3) IsFinite() bool {
	return isFinite(v.X) && isFinite(v.Y) && isFinite(v.Z)
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// Pose is the device attitude derived from a rotation matrix, in degrees.
type Pose struct {
	Azimuth float64 `json:"azimuth"`
	Pitch   float64 `json:"pitch"`
	Roll    float64 `json:"roll"`
}

// Sample is one accelerometer/magnetometer pair.
type Sample struct {
	Accel Vector3 `json:"accel"`
	Mag   Vector3 `json:"mag"`
}

// Source is anything that can provide sample pairs over time.
type Source interface {
	Next() (Sample, error)
}

// PoseFromMatrix converts the Euler angles of r to degrees.
func PoseFromMatrix(r *r3.Mat) Pose {
	azimuth, pitch, roll := Angles(r)
	return Pose{
		Azimuth: azimuth * 180.0 / math.Pi,
		Pitch:   pitch * 180.0 / math.Pi,
		Roll:    roll * 180.0 / math.Pi,
	}
}
