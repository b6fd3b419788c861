// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package heading turns accelerometer and magnetometer readings into a
// compass heading.
package heading

import (
	"math"
	"time"

	"github.com/pkg/errors"

	"github.com/relabs-tech/compass/internal/orientation"
)

var (
	// ErrInsufficientData means one or both readings have not arrived yet.
	ErrInsufficientData = errors.New("heading: accelerometer and magnetometer readings required")
	// ErrDegenerateInput means the stored readings do not define a unique
	// rotation (free fall, field parallel to gravity, non-finite values).
	ErrDegenerateInput = errors.New("heading: readings do not define a rotation")
)

// Heading is a compass heading relative to magnetic north.
type Heading struct {
	Degrees float64 `json:"degrees"` // [0, 360)
	Display int     `json:"display"` // Degrees truncated
}

// FromAzimuth converts an azimuth in radians to a Heading.
func FromAzimuth(azimuth float64) Heading {
	deg := azimuth * 180.0 / math.Pi
	switch {
	case deg < 0:
		deg += 360
	case deg == 0:
		deg = 0 // -0 would print as "-0.00"
	}
	// -1e-15 + 360 rounds to 360.
	if deg >= 360 {
		deg = 0
	}
	return Heading{Degrees: deg, Display: int(deg)}
}

// Report is what the compass node publishes for every computed heading.
type Report struct {
	Heading
	Pitch       float64 `json:"pitch"`
	Roll        float64 `json:"roll"`
	Inclination float64 `json:"inclination"`
	Time        string  `json:"time"`
}

// Estimator holds the latest accelerometer and magnetometer readings.
// It is not safe for concurrent use.
type Estimator struct {
	gravity     orientation.Vector3
	geomagnetic orientation.Vector3

	haveGravity     bool
	haveGeomagnetic bool

	now func() time.Time
}

// NewEstimator returns an estimator with no readings.
func NewEstimator() *Estimator {
	return &Estimator{now: time.Now}
}

// UpdateAccelerometer replaces the stored gravity reading.
func (e *Estimator) UpdateAccelerometer(v orientation.Vector3) {
	e.gravity = v
	e.haveGravity = true
}

// UpdateMagnetometer replaces the stored geomagnetic reading.
func (e *Estimator) UpdateMagnetometer(v orientation.Vector3) {
	e.geomagnetic = v
	e.haveGeomagnetic = true
}

// Reset forgets both readings.
func (e *Estimator) Reset() {
	*e = Estimator{now: e.now}
}

// Ready reports whether both readings have been received.
func (e *Estimator) Ready() bool {
	return e.haveGravity && e.haveGeomagnetic
}

// ComputeHeading returns the heading for the stored readings, or false when
// a reading is missing or the pair is degenerate.
func (e *Estimator) ComputeHeading() (Heading, bool) {
	r, err := e.Compute()
	if err != nil {
		return Heading{}, false
	}
	return r.Heading, true
}

// Compute is ComputeHeading with the reason for a missing result and the
// rest of the attitude. The returned error wraps ErrInsufficientData or
// ErrDegenerateInput. Stored readings are never modified.
func (e *Estimator) Compute() (Report, error) {
	if !e.Ready() {
		return Report{}, errors.Wrapf(ErrInsufficientData, "accel=%t mag=%t", e.haveGravity, e.haveGeomagnetic)
	}

	r, i, ok := orientation.RotationMatrix(e.gravity, e.geomagnetic)
	if !ok {
		return Report{}, errors.Wrapf(ErrDegenerateInput, "accel=%+v mag=%+v", e.gravity, e.geomagnetic)
	}

	azimuth, _, _ := orientation.Angles(r)
	pose := orientation.PoseFromMatrix(r)

	now := time.Now
	if e.now != nil {
		now = e.now
	}
	return Report{
		Heading:     FromAzimuth(azimuth),
		Pitch:       pose.Pitch,
		Roll:        pose.Roll,
		Inclination: orientation.Inclination(i) * 180.0 / math.Pi,
		Time:        now().UTC().Format(time.RFC3339Nano),
	}, nil
}
