// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package orientation

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// StandardGravity is earth gravity in m/s².
const StandardGravity = 9.80665

const (
	// Accelerometer readings weaker than 10% of gravity are treated as
	// free fall: there is no usable "down" axis.
	freeFallGravitySquared = 0.01 * StandardGravity * StandardGravity

	// Minimum |E×A| in µT·m/s². Smaller means the field is (nearly)
	// parallel to gravity, or the device sits close to a magnetic pole.
	minHorizontalNorm = 0.1
)

// RotationMatrix computes the matrix R that maps device coordinates to
// world coordinates (X east, Y magnetic north, Z up) and the inclination
// matrix I that maps the geomagnetic vector into the same frame.
//
// gravity is the accelerometer reading of a device at rest; geomagnetic is
// the magnetometer reading in the same device frame. ok is false when no
// unique rotation exists: non-finite input, free fall, or a magnetic field
// colinear with gravity.
func RotationMatrix(gravity, geomagnetic Vector3) (r, i *r3.Mat, ok bool) {
	if !gravity.IsFinite() || !geomagnetic.IsFinite() {
		return nil, nil, false
	}

	a := gravity.Vec()
	e := geomagnetic.Vec()

	normsqA := r3.Norm2(a)
	if !isFinite(normsqA) || normsqA < freeFallGravitySquared {
		return nil, nil, false
	}

	h := r3.Cross(e, a)
	normH := r3.Norm(h)
	if !isFinite(normH) || normH < minHorizontalNorm {
		return nil, nil, false
	}

	h = r3.Scale(1/normH, h)
	a = r3.Scale(1/math.Sqrt(normsqA), a)
	m := r3.Cross(a, h)

	r = r3.NewMat([]float64{
		h.X, h.Y, h.Z,
		m.X, m.Y, m.Z,
		a.X, a.Y, a.Z,
	})

	invE := 1 / r3.Norm(e)
	c := r3.Dot(e, m) * invE
	s := r3.Dot(e, a) * invE
	i = r3.NewMat([]float64{
		1, 0, 0,
		0, c, s,
		0, -s, c,
	})

	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			if !isFinite(r.At(row, col)) || !isFinite(i.At(row, col)) {
				return nil, nil, false
			}
		}
	}
	return r, i, true
}

// Angles returns azimuth, pitch and roll of r in radians.
//
// Azimuth is the rotation around -Z: 0 when the device Y axis points to
// magnetic north, π/2 when it points east. Pitch is the rotation around X
// and roll the rotation around Y.
func Angles(r *r3.Mat) (azimuth, pitch, roll float64) {
	azimuth = math.Atan2(r.At(0, 1), r.At(1, 1))
	pitch = math.Asin(-r.At(2, 1))
	roll = math.Atan2(-r.At(2, 0), r.At(2, 2))
	return azimuth, pitch, roll
}

// Inclination returns the magnetic dip angle encoded in i, in radians.
// The accelerometer reads +g upwards, so a field dipping below the
// horizon, as in the northern hemisphere, gives a negative angle.
func Inclination(i *r3.Mat) float64 {
	return math.Atan2(i.At(1, 2), i.At(1, 1))
}
