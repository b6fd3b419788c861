// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"go.viam.com/test"

	"github.com/relabs-tech/compass/internal/heading"
	"github.com/relabs-tech/compass/internal/imu"
	"github.com/relabs-tech/compass/internal/orientation"
)

func TestFormatReport(t *testing.T) {
	line := formatReport(heading.Report{
		Heading:     heading.Heading{Degrees: 12.5, Display: 12},
		Pitch:       -3,
		Inclination: -61.2,
	})
	test.That(t, line, test.ShouldStartWith, "[HEAD]  12.50°")
	test.That(t, line, test.ShouldContainSubstring, "12° North")
	test.That(t, line, test.ShouldContainSubstring, "arrow= -12.50")
	test.That(t, line, test.ShouldContainSubstring, "dip=-61.20")
}

func TestFormatEvent(t *testing.T) {
	line := formatEvent(imu.SensorEvent{Source: "mock", Kind: imu.KindMag, X: 1, Y: 2, Z: 3})
	test.That(t, line, test.ShouldStartWith, "[MAG ] mock")
	line = formatEvent(imu.SensorEvent{Source: "mock", Kind: imu.KindAccel, Z: 9.81})
	test.That(t, line, test.ShouldContainSubstring, "z=   9.810")
}

func TestMockConsoleStep(t *testing.T) {
	clk := clock.NewMock()
	src := orientation.NewMockSource(clk, 90)
	est := heading.NewEstimator()

	var buf bytes.Buffer
	test.That(t, mockConsoleStep(&buf, src, est), test.ShouldBeNil)
	clk.Add(time.Second)
	test.That(t, mockConsoleStep(&buf, src, est), test.ShouldBeNil)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	test.That(t, len(lines), test.ShouldEqual, 2)
	test.That(t, lines[0], test.ShouldStartWith, "[HEAD]   0.00°")
	test.That(t, lines[0], test.ShouldContainSubstring, " 0° North")
	test.That(t, lines[1], test.ShouldStartWith, "[HEAD]  90.00°")
}
