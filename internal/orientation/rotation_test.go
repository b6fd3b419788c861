// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package orientation

import (
	"math"
	"testing"

	"go.viam.com/test"
)

func TestRotationMatrixFlatNorth(t *testing.T) {
	s := FlatSample(0)
	r, i, ok := RotationMatrix(s.Accel, s.Mag)
	test.That(t, ok, test.ShouldBeTrue)

	identity := [3][3]float64{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			test.That(t, r.At(row, col), test.ShouldAlmostEqual, identity[row][col], 1e-9)
		}
	}

	azimuth, pitch, roll := Angles(r)
	test.That(t, azimuth, test.ShouldAlmostEqual, 0, 1e-9)
	test.That(t, pitch, test.ShouldAlmostEqual, 0, 1e-9)
	test.That(t, roll, test.ShouldAlmostEqual, 0, 1e-9)

	dip := Inclination(i) * 180 / math.Pi
	test.That(t, dip, test.ShouldAlmostEqual, math.Atan2(-40, 22)*180/math.Pi, 1e-9)
}

func TestRotationMatrixCardinalHeadings(t *testing.T) {
	for _, tc := range []struct {
		heading float64
		azimuth float64
	}{
		{0, 0},
		{90, math.Pi / 2},
		{180, math.Pi},
		{270, -math.Pi / 2},
	} {
		s := FlatSample(tc.heading)
		r, _, ok := RotationMatrix(s.Accel, s.Mag)
		test.That(t, ok, test.ShouldBeTrue)
		azimuth, _, _ := Angles(r)
		// ±π are the same direction.
		diff := math.Remainder(azimuth-tc.azimuth, 2*math.Pi)
		test.That(t, diff, test.ShouldAlmostEqual, 0, 1e-9)
	}
}

func TestRotationMatrixUpright(t *testing.T) {
	r, _, ok := RotationMatrix(Vector3{Y: 9.81}, Vector3{Z: -50})
	test.That(t, ok, test.ShouldBeTrue)

	azimuth, pitch, _ := Angles(r)
	test.That(t, azimuth, test.ShouldAlmostEqual, 0, 1e-9)
	test.That(t, pitch, test.ShouldAlmostEqual, -math.Pi/2, 1e-9)
}

func TestRotationMatrixDegenerate(t *testing.T) {
	mag := Vector3{X: 5, Y: 20, Z: -40}
	for name, tc := range map[string]struct {
		accel, mag Vector3
	}{
		"zero accel":      {Vector3{}, mag},
		"free fall":       {Vector3{Z: 0.5}, mag},
		"zero mag":        {Vector3{Z: StandardGravity}, Vector3{}},
		"colinear":        {Vector3{Z: StandardGravity}, Vector3{Z: -50}},
		"nan accel":       {Vector3{X: math.NaN(), Z: StandardGravity}, mag},
		"inf mag":         {Vector3{Z: StandardGravity}, Vector3{Y: math.Inf(1)}},
		"overflow":        {Vector3{Z: 1e300}, Vector3{Y: 1e300}},
		"negative infmag": {Vector3{Z: StandardGravity}, Vector3{X: math.Inf(-1)}},
	} {
		t.Run(name, func(t *testing.T) {
			r, i, ok := RotationMatrix(tc.accel, tc.mag)
			test.That(t, ok, test.ShouldBeFalse)
			test.That(t, r, test.ShouldBeNil)
			test.That(t, i, test.ShouldBeNil)
		})
	}
}

func TestRotationMatrixIsOrthonormal(t *testing.T) {
	r, _, ok := RotationMatrix(Vector3{X: 1.2, Y: -3.4, Z: 8.9}, Vector3{X: 14, Y: -7, Z: -33})
	test.That(t, ok, test.ShouldBeTrue)

	for a := 0; a < 3; a++ {
		for b := 0; b < 3; b++ {
			var dot float64
			for k := 0; k < 3; k++ {
				dot += r.At(a, k) * r.At(b, k)
			}
			want := 0.0
			if a == b {
				want = 1
			}
			test.That(t, dot, test.ShouldAlmostEqual, want, 1e-9)
		}
	}
}

func TestPoseFromMatrix(t *testing.T) {
	s := FlatSample(90)
	r, _, ok := RotationMatrix(s.Accel, s.Mag)
	test.That(t, ok, test.ShouldBeTrue)

	pose := PoseFromMatrix(r)
	test.That(t, pose.Azimuth, test.ShouldAlmostEqual, 90, 1e-9)
	test.That(t, pose.Pitch, test.ShouldAlmostEqual, 0, 1e-9)
	test.That(t, pose.Roll, test.ShouldAlmostEqual, 0, 1e-9)
}
