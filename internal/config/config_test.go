// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.viam.com/test"
)

const sampleConfig = `
# broker
MQTT_BROKER=tcp://localhost:1883
MQTT_CLIENT_ID_COMPASS=compass-1

TOPIC_HEADING = boat/heading
SAMPLE_INTERVAL=50
MOCK_SPIN_RATE=7.5
MAG_OFFSET_X=12.5
MAG_SCALE_Z=1.1
NMEA_SERIAL_PORT=/dev/ttyUSB0
NMEA_BAUD_RATE=38400
WEB_SERVER_PORT=9090
LOG_LEVEL=debug
`

func TestParse(t *testing.T) {
	cfg, err := Parse([]byte(sampleConfig))
	test.That(t, err, test.ShouldBeNil)

	test.That(t, cfg.MQTTBroker, test.ShouldEqual, "tcp://localhost:1883")
	test.That(t, cfg.MQTTClientIDCompass, test.ShouldEqual, "compass-1")
	test.That(t, cfg.TopicHeading, test.ShouldEqual, "boat/heading")
	test.That(t, cfg.TopicAccel, test.ShouldEqual, "compass/sensor/accel")
	test.That(t, cfg.SampleInterval, test.ShouldEqual, 50)
	test.That(t, cfg.MockSpinRate, test.ShouldEqual, 7.5)
	test.That(t, cfg.MagCalibration.Offset.X, test.ShouldEqual, 12.5)
	test.That(t, cfg.MagCalibration.Scale.X, test.ShouldEqual, 1.0)
	test.That(t, cfg.MagCalibration.Scale.Z, test.ShouldEqual, 1.1)
	test.That(t, cfg.NMEASerialPort, test.ShouldEqual, "/dev/ttyUSB0")
	test.That(t, cfg.NMEABaudRate, test.ShouldEqual, uint(38400))
	test.That(t, cfg.WebServerPort, test.ShouldEqual, 9090)
	test.That(t, cfg.DialSize, test.ShouldEqual, 240)
	test.That(t, cfg.LogLevel, test.ShouldEqual, "debug")
}

func TestParseGeneratesClientIDs(t *testing.T) {
	a, err := Parse([]byte("MQTT_BROKER=tcp://b:1883"))
	test.That(t, err, test.ShouldBeNil)
	b, err := Parse([]byte("MQTT_BROKER=tcp://b:1883"))
	test.That(t, err, test.ShouldBeNil)

	test.That(t, strings.HasPrefix(a.MQTTClientIDWeb, "compass-web-"), test.ShouldBeTrue)
	test.That(t, a.MQTTClientIDWeb, test.ShouldNotEqual, b.MQTTClientIDWeb)
	test.That(t, a.MQTTClientIDCompass, test.ShouldNotEqual, a.MQTTClientIDProducer)
}

func TestParseErrors(t *testing.T) {
	for name, input := range map[string]string{
		"missing broker": "TOPIC_HEADING=x",
		"no equals":      "MQTT_BROKER",
		"unknown key":    "MQTT_BROKER=x\nCOLOR=blue",
		"bad interval":   "MQTT_BROKER=x\nSAMPLE_INTERVAL=fast",
		"zero interval":  "MQTT_BROKER=x\nSAMPLE_INTERVAL=0",
		"bad port":       "MQTT_BROKER=x\nWEB_SERVER_PORT=70000",
		"bad dial":       "MQTT_BROKER=x\nDIAL_SIZE=8",
		"bad offset":     "MQTT_BROKER=x\nMAG_OFFSET_Y=north",
		"same topics":    "MQTT_BROKER=x\nTOPIC_ACCEL=s\nTOPIC_MAG=s",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(input))
			test.That(t, err, test.ShouldNotBeNil)
		})
	}
}

func TestLoadExpandsEnvironment(t *testing.T) {
	t.Setenv("COMPASS_BROKER", "tcp://broker.local:1883")
	path := filepath.Join(t.TempDir(), "compass_config.txt")
	err := os.WriteFile(path, []byte("MQTT_BROKER=${COMPASS_BROKER}\n"), 0o644)
	test.That(t, err, test.ShouldBeNil)

	cfg, err := Load(path)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, cfg.MQTTBroker, test.ShouldEqual, "tcp://broker.local:1883")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.txt"))
	test.That(t, err, test.ShouldNotBeNil)
}

func TestLoadShippedConfig(t *testing.T) {
	cfg, err := Load(filepath.Join("..", "..", "compass_config.txt"))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, cfg.NMEASerialPort, test.ShouldEqual, "")
	test.That(t, cfg.MQTTClientIDCompass, test.ShouldEqual, "compass-node")
	test.That(t, cfg.MagCalibration.Scale.Y, test.ShouldEqual, 1.0)
}
