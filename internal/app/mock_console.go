// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"fmt"
	"io"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/relabs-tech/compass/internal/heading"
	"github.com/relabs-tech/compass/internal/orientation"
)

// mockConsoleStep reads one sample pair, runs it through est and writes
// the resulting line. Nothing is written while no heading is available.
func mockConsoleStep(w io.Writer, src orientation.Source, est *heading.Estimator) error {
	s, err := src.Next()
	if err != nil {
		return err
	}
	est.UpdateAccelerometer(s.Accel)
	est.UpdateMagnetometer(s.Mag)

	r, err := est.Compute()
	if err != nil {
		return nil
	}
	_, err = fmt.Fprintln(w, formatReport(r))
	return err
}

// RunMockConsole runs the estimator on the mock source without MQTT and
// prints every heading to w.
func RunMockConsole(w io.Writer, spinRate float64) error {
	clk := clock.New()
	src := orientation.NewMockSource(clk, spinRate)
	est := heading.NewEstimator()

	ticker := clk.Ticker(100 * time.Millisecond)
	defer ticker.Stop()

	for range ticker.C {
		if err := mockConsoleStep(w, src, est); err != nil {
			return err
		}
	}
	return nil
}
