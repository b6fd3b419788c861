// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"encoding/json"
	"io"
	"sync"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/relabs-tech/compass/internal/config"
	"github.com/relabs-tech/compass/internal/heading"
	"github.com/relabs-tech/compass/internal/imu"
	"github.com/relabs-tech/compass/internal/logging"
	"github.com/relabs-tech/compass/internal/nmeaout"
	"github.com/relabs-tech/compass/internal/orientation"
)

// Reports waiting to be published. When the broker is slow the oldest
// report is dropped; only the latest heading matters.
const reportBuffer = 16

// compassNode feeds sensor events into the estimator. It is the only owner
// of the estimator; paho may deliver the two topics from different
// goroutines, so every access goes through mu.
type compassNode struct {
	mu     sync.Mutex
	est    *heading.Estimator
	magCal orientation.MagCalibration
	log    *zap.SugaredLogger

	reports chan heading.Report
}

func newCompassNode(magCal orientation.MagCalibration, logger *zap.SugaredLogger) *compassNode {
	return &compassNode{
		est:     heading.NewEstimator(),
		magCal:  magCal,
		log:     logger,
		reports: make(chan heading.Report, reportBuffer),
	}
}

// handle stores ev and computes a heading. ok is false when no heading is
// available yet or the readings are degenerate; that is not surfaced
// beyond a debug log.
func (n *compassNode) handle(ev imu.SensorEvent) (heading.Report, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()

	switch ev.Kind {
	case imu.KindAccel:
		n.est.UpdateAccelerometer(ev.Vector())
	case imu.KindMag:
		n.est.UpdateMagnetometer(n.magCal.Apply(ev.Vector()))
	default:
		return heading.Report{}, false
	}

	report, err := n.est.Compute()
	if err != nil {
		if errors.Is(err, heading.ErrDegenerateInput) {
			n.log.Debugw("no heading for current readings", "error", err)
		}
		return heading.Report{}, false
	}
	return report, true
}

// reset drops stored readings so a reconnect never fuses a stale sample
// with a fresh one.
func (n *compassNode) reset() {
	n.mu.Lock()
	n.est.Reset()
	n.mu.Unlock()
}

// enqueue hands r to the publish loop without blocking the MQTT callback.
func (n *compassNode) enqueue(r heading.Report) {
	for {
		select {
		case n.reports <- r:
			return
		default:
		}
		select {
		case <-n.reports:
		default:
		}
	}
}

// messageHandler decodes events from one sensor topic. fallback is the
// kind assumed for payloads that do not name one.
func (n *compassNode) messageHandler(fallback imu.Kind) mqtt.MessageHandler {
	return func(_ mqtt.Client, msg mqtt.Message) {
		ev, err := imu.DecodeEvent(msg.Payload(), fallback)
		if err != nil {
			n.log.Warnw("dropping sensor event", "topic", msg.Topic(), "error", err)
			return
		}
		if report, ok := n.handle(ev); ok {
			n.enqueue(report)
		}
	}
}

// RunCompass subscribes to the accelerometer and magnetometer topics,
// computes a heading after every event and publishes it as retained JSON.
// When NMEA_SERIAL_PORT is set every heading is also written there as an
// HDM sentence.
func RunCompass(cfg *config.Config) (err error) {
	logger := logging.New("compass")
	logger.Infow("starting compass node",
		"accel_topic", cfg.TopicAccel, "mag_topic", cfg.TopicMag, "heading_topic", cfg.TopicHeading)

	node := newCompassNode(cfg.MagCalibration, logger)

	var nmeaPort io.WriteCloser
	var nmeaWriter *nmeaout.Writer
	if cfg.NMEASerialPort != "" {
		port, err := nmeaout.OpenSerial(cfg.NMEASerialPort, cfg.NMEABaudRate)
		if err != nil {
			return err
		}
		nmeaPort = port
		nmeaWriter = nmeaout.NewWriter(port)
		logger.Infow("NMEA heading output enabled", "port", cfg.NMEASerialPort, "baud", cfg.NMEABaudRate)
		defer func() {
			err = multierr.Append(err, nmeaPort.Close())
		}()
	}

	client, err := connectMQTT(cfg.MQTTBroker, cfg.MQTTClientIDCompass, logger, node.reset)
	if err != nil {
		return err
	}
	defer client.Disconnect(disconnectQuiesceMs)

	if err := subscribe(client, cfg.TopicAccel, node.messageHandler(imu.KindAccel)); err != nil {
		return err
	}
	if err := subscribe(client, cfg.TopicMag, node.messageHandler(imu.KindMag)); err != nil {
		return err
	}
	logger.Infow("subscribed to sensor topics")

	sigCh := shutdownSignal()
	for {
		select {
		case report := <-node.reports:
			payload, err := json.Marshal(report)
			if err != nil {
				logger.Errorw("json marshal error (heading)", "error", err)
				continue
			}
			if err := publish(client, cfg.TopicHeading, true, payload); err != nil {
				logger.Warnw("heading publish failed", "error", err)
			}
			if nmeaWriter != nil {
				if err := nmeaWriter.WriteHeading(report.Heading); err != nil {
					logger.Warnw("NMEA write failed", "error", err)
				}
			}
			logger.Debugw("heading", "degrees", report.Degrees, "pitch", report.Pitch, "roll", report.Roll)

		case <-sigCh:
			logger.Infow("shutting down")
			return unsubscribe(client, cfg.TopicAccel, cfg.TopicMag)
		}
	}
}
