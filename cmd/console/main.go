// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package main

import (
	"flag"
	"os"

	"github.com/relabs-tech/compass/internal/app"
	"github.com/relabs-tech/compass/internal/logging"
)

func main() {
	spin := flag.Float64("spin", 30, "mock rotation rate in degrees per second")
	flag.Parse()

	logger := logging.New("main")
	logger.Info("starting compass (mock console)")

	if err := app.RunMockConsole(os.Stdout, *spin); err != nil {
		logger.Fatalw("fatal", "error", err)
	}
}
