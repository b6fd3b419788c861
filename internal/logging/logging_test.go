// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package logging

import (
	"testing"

	"go.uber.org/zap/zapcore"
	"go.viam.com/test"
)

func TestSetLevel(t *testing.T) {
	defer SetLevel("info")

	test.That(t, SetLevel("DEBUG"), test.ShouldBeNil)
	test.That(t, level.Level(), test.ShouldEqual, zapcore.DebugLevel)

	test.That(t, SetLevel(""), test.ShouldBeNil)
	test.That(t, level.Level(), test.ShouldEqual, zapcore.InfoLevel)

	test.That(t, SetLevel("loud"), test.ShouldNotBeNil)
	test.That(t, level.Level(), test.ShouldEqual, zapcore.InfoLevel)
}

func TestNew(t *testing.T) {
	logger := New("compass")
	test.That(t, logger, test.ShouldNotBeNil)
	logger.Debugw("hidden at info level", "heading", 12.5)
}
