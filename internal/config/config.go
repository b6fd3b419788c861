// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package config

import (
	"bufio"
	"bytes"
	"strconv"
	"strings"
	"sync"

	"github.com/a8m/envsubst"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/relabs-tech/compass/internal/orientation"
)

// Config holds all application configuration values.
type Config struct {
	// MQTT
	MQTTBroker           string
	MQTTClientIDCompass  string
	MQTTClientIDProducer string
	MQTTClientIDWeb      string
	MQTTClientIDConsole  string

	// Topics
	TopicAccel   string
	TopicMag     string
	TopicHeading string

	// Mock producer
	SampleInterval int     // milliseconds
	MockSpinRate   float64 // degrees per second

	// Magnetometer calibration, µT
	MagCalibration orientation.MagCalibration

	// NMEA heading output; disabled when the port is empty
	NMEASerialPort string
	NMEABaudRate   uint

	// Web Server
	WebServerPort int
	DialSize      int // pixels

	// Logging: debug, info, warn, error
	LogLevel string
}

// Package-level singleton, set once by InitGlobal and read through Get.
var (
	globalConfig *Config
	configOnce   sync.Once
	configMu     sync.RWMutex
)

// Default returns a Config with every optional value filled in.
func Default() *Config {
	return &Config{
		TopicAccel:     "compass/sensor/accel",
		TopicMag:       "compass/sensor/mag",
		TopicHeading:   "compass/heading",
		SampleInterval: 100,
		MockSpinRate:   15,
		MagCalibration: orientation.IdentityMagCalibration(),
		NMEABaudRate:   4800,
		WebServerPort:  8080,
		DialSize:       240,
		LogLevel:       "info",
	}
}

// Load reads the configuration file and returns a Config struct.
// ${VAR} references are expanded from the environment before parsing.
func Load(configPath string) (*Config, error) {
	data, err := envsubst.ReadFile(configPath)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read config file")
	}
	return Parse(data)
}

// Parse parses KEY=VALUE lines. Blank lines and lines starting with # are
// skipped.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	scanner := bufio.NewScanner(bytes.NewReader(data))
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			return nil, errors.Errorf("invalid config line %d: %q", lineNum, line)
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		if err := cfg.setValue(key, value); err != nil {
			return nil, errors.Wrapf(err, "config line %d", lineNum)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "error reading config file")
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	cfg.fillClientIDs()

	return cfg, nil
}

// setValue sets a config value based on the key.
func (c *Config) setValue(key, value string) error {
	switch key {
	// MQTT
	case "MQTT_BROKER":
		c.MQTTBroker = value
	case "MQTT_CLIENT_ID_COMPASS":
		c.MQTTClientIDCompass = value
	case "MQTT_CLIENT_ID_PRODUCER":
		c.MQTTClientIDProducer = value
	case "MQTT_CLIENT_ID_WEB":
		c.MQTTClientIDWeb = value
	case "MQTT_CLIENT_ID_CONSOLE":
		c.MQTTClientIDConsole = value

	// Topics
	case "TOPIC_ACCEL":
		c.TopicAccel = value
	case "TOPIC_MAG":
		c.TopicMag = value
	case "TOPIC_HEADING":
		c.TopicHeading = value

	// Mock producer
	case "SAMPLE_INTERVAL":
		interval, err := strconv.Atoi(value)
		if err != nil {
			return errors.Wrapf(err, "invalid SAMPLE_INTERVAL %q", value)
		}
		if interval <= 0 {
			return errors.Errorf("SAMPLE_INTERVAL must be positive, got %d", interval)
		}
		c.SampleInterval = interval
	case "MOCK_SPIN_RATE":
		rate, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return errors.Wrapf(err, "invalid MOCK_SPIN_RATE %q", value)
		}
		c.MockSpinRate = rate

	// Magnetometer calibration
	case "MAG_OFFSET_X", "MAG_OFFSET_Y", "MAG_OFFSET_Z",
		"MAG_SCALE_X", "MAG_SCALE_Y", "MAG_SCALE_Z":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return errors.Wrapf(err, "invalid %s %q", key, value)
		}
		c.setMagCalibration(key, f)

	// NMEA
	case "NMEA_SERIAL_PORT":
		c.NMEASerialPort = value
	case "NMEA_BAUD_RATE":
		rate, err := strconv.ParseUint(value, 10, 32)
		if err != nil {
			return errors.Wrapf(err, "invalid NMEA_BAUD_RATE %q", value)
		}
		c.NMEABaudRate = uint(rate)

	// Web Server
	case "WEB_SERVER_PORT":
		port, err := strconv.Atoi(value)
		if err != nil {
			return errors.Wrapf(err, "invalid WEB_SERVER_PORT %q", value)
		}
		if port < 1 || port > 65535 {
			return errors.Errorf("WEB_SERVER_PORT must be 1-65535, got %d", port)
		}
		c.WebServerPort = port
	case "DIAL_SIZE":
		size, err := strconv.Atoi(value)
		if err != nil {
			return errors.Wrapf(err, "invalid DIAL_SIZE %q", value)
		}
		if size < 32 || size > 2048 {
			return errors.Errorf("DIAL_SIZE must be 32-2048, got %d", size)
		}
		c.DialSize = size

	case "LOG_LEVEL":
		c.LogLevel = value

	default:
		return errors.Errorf("unknown config key: %q", key)
	}

	return nil
}

func (c *Config) setMagCalibration(key string, f float64) {
	cal := &c.MagCalibration
	switch key {
	case "MAG_OFFSET_X":
		cal.Offset.X = f
	case "MAG_OFFSET_Y":
		cal.Offset.Y = f
	case "MAG_OFFSET_Z":
		cal.Offset.Z = f
	case "MAG_SCALE_X":
		cal.Scale.X = f
	case "MAG_SCALE_Y":
		cal.Scale.Y = f
	case "MAG_SCALE_Z":
		cal.Scale.Z = f
	}
}

// validate checks that all required fields are set.
func (c *Config) validate() error {
	if c.MQTTBroker == "" {
		return errors.New("MQTT_BROKER is required")
	}
	if c.TopicAccel == "" || c.TopicMag == "" || c.TopicHeading == "" {
		return errors.New("TOPIC_ACCEL, TOPIC_MAG and TOPIC_HEADING must not be empty")
	}
	if c.TopicAccel == c.TopicMag {
		return errors.Errorf("TOPIC_ACCEL and TOPIC_MAG must differ, both are %q", c.TopicAccel)
	}
	return nil
}

// fillClientIDs gives every unset client ID a unique value; the broker
// drops the older session when two clients share an ID.
func (c *Config) fillClientIDs() {
	for _, id := range []struct {
		field  *string
		prefix string
	}{
		{&c.MQTTClientIDCompass, "compass-node"},
		{&c.MQTTClientIDProducer, "compass-producer"},
		{&c.MQTTClientIDWeb, "compass-web"},
		{&c.MQTTClientIDConsole, "compass-console"},
	} {
		if *id.field == "" {
			*id.field = id.prefix + "-" + uuid.NewString()[:8]
		}
	}
}

// InitGlobal initializes the global configuration from file.
// Only the first call loads the file; later calls return its error.
func InitGlobal(configPath string) error {
	var err error
	configOnce.Do(func() {
		configMu.Lock()
		defer configMu.Unlock()
		globalConfig, err = Load(configPath)
	})
	return err
}

// Get returns the global configuration instance.
// InitGlobal must be called first, or this will return nil.
func Get() *Config {
	configMu.RLock()
	defer configMu.RUnlock()
	return globalConfig
}
