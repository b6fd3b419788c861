// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package orientation

// MagCalibration is a hard-iron offset plus per-axis soft-iron scale,
// the min/max approximation produced by a guided 3D rotation:
//
//	corrected = (raw - offset) / scale
type MagCalibration struct {
	Offset Vector3 `json:"offset"`
	Scale  Vector3 `json:"scale"`
}

// IdentityMagCalibration leaves readings untouched.
func IdentityMagCalibration() MagCalibration {
	return MagCalibration{Scale: Vector3{X: 1, Y: 1, Z: 1}}
}

// Apply corrects a raw magnetometer reading. Zero scale factors are
// treated as 1 so a partially filled calibration never divides by zero.
func (c MagCalibration) Apply(raw Vector3) Vector3 {
	return Vector3{
		X: (raw.X - c.Offset.X) / nonZero(c.Scale.X),
		Y: (raw.Y - c.Offset.Y) / nonZero(c.Scale.Y),
		Z: (raw.Z - c.Offset.Z) / nonZero(c.Scale.Z),
	}
}

func nonZero(f float64) float64 {
	if f == 0 {
		return 1
	}
	return f
}
