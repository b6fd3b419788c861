// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package main

import (
	"flag"

	"github.com/relabs-tech/compass/internal/app"
	"github.com/relabs-tech/compass/internal/config"
	"github.com/relabs-tech/compass/internal/logging"
)

func main() {
	configPath := flag.String("config", "./compass_config.txt", "path to configuration file")
	raw := flag.Bool("raw", false, "also print accelerometer and magnetometer events")
	flag.Parse()

	logger := logging.New("main")

	if err := config.InitGlobal(*configPath); err != nil {
		logger.Fatalw("failed to load config", "error", err)
	}
	cfg := config.Get()
	if err := logging.SetLevel(cfg.LogLevel); err != nil {
		logger.Fatalw("invalid LOG_LEVEL", "error", err)
	}

	if err := app.RunConsoleMQTT(cfg, *raw); err != nil {
		logger.Fatalw("fatal", "error", err)
	}
}
