// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package orientation

import (
	"math"
	"time"

	"github.com/benbjohnson/clock"
)

// Field components of a mid-latitude northern site, in µT.
const (
	mockFieldHorizontal = 22.0
	mockFieldVertical   = -40.0
)

type mockSource struct {
	clock     clock.Clock
	start     time.Time
	degPerSec float64
}

// NewMockSource creates a mock source for a device lying flat and spinning
// clockwise at degPerSec. The heading after t seconds is degPerSec*t.
func NewMockSource(clk clock.Clock, degPerSec float64) Source {
	return &mockSource{clock: clk, start: clk.Now(), degPerSec: degPerSec}
}

func (m *mockSource) Next() (Sample, error) {
	elapsed := m.clock.Since(m.start).Seconds()
	return FlatSample(math.Mod(elapsed*m.degPerSec, 360)), nil
}

// FlatSample returns the readings of a level device whose Y axis points
// headingDeg degrees clockwise from magnetic north.
func FlatSample(headingDeg float64) Sample {
	rad := headingDeg * math.Pi / 180.0
	return Sample{
		Accel: Vector3{Z: StandardGravity},
		Mag: Vector3{
			X: -mockFieldHorizontal * math.Sin(rad),
			Y: mockFieldHorizontal * math.Cos(rad),
			Z: mockFieldVertical,
		},
	}
}
