// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"encoding/json"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/pkg/errors"

	"github.com/relabs-tech/compass/internal/config"
	"github.com/relabs-tech/compass/internal/imu"
	"github.com/relabs-tech/compass/internal/logging"
	"github.com/relabs-tech/compass/internal/orientation"
)

type publication struct {
	topic   string
	payload []byte
}

// sampleMessages splits one sample pair into the accelerometer and
// magnetometer events the compass node subscribes to.
func sampleMessages(cfg *config.Config, source string, s orientation.Sample, t time.Time) ([]publication, error) {
	stamp := t.UTC().Format(time.RFC3339Nano)
	events := []struct {
		topic string
		ev    imu.SensorEvent
	}{
		{cfg.TopicAccel, imu.NewEvent(source, imu.KindAccel, s.Accel, stamp)},
		{cfg.TopicMag, imu.NewEvent(source, imu.KindMag, s.Mag, stamp)},
	}

	pubs := make([]publication, 0, len(events))
	for _, e := range events {
		payload, err := json.Marshal(e.ev)
		if err != nil {
			return nil, errors.Wrapf(err, "marshal %s event", e.ev.Kind)
		}
		pubs = append(pubs, publication{topic: e.topic, payload: payload})
	}
	return pubs, nil
}

// RunSensorProducer publishes synthetic accelerometer and magnetometer
// events for a device spinning at MOCK_SPIN_RATE. It stands in for a real
// sensor source during development.
func RunSensorProducer(cfg *config.Config) error {
	logger := logging.New("producer")
	logger.Infow("starting mock sensor producer",
		"interval_ms", cfg.SampleInterval, "spin_deg_per_s", cfg.MockSpinRate)

	client, err := connectMQTT(cfg.MQTTBroker, cfg.MQTTClientIDProducer, logger, nil)
	if err != nil {
		return err
	}
	defer client.Disconnect(disconnectQuiesceMs)

	clk := clock.New()
	src := orientation.NewMockSource(clk, cfg.MockSpinRate)

	ticker := clk.Ticker(time.Duration(cfg.SampleInterval) * time.Millisecond)
	defer ticker.Stop()

	sigCh := shutdownSignal()
	for {
		select {
		case t := <-ticker.C:
			sample, err := src.Next()
			if err != nil {
				logger.Warnw("error from mock source", "error", err)
				continue
			}
			pubs, err := sampleMessages(cfg, "mock", sample, t)
			if err != nil {
				logger.Errorw("sample encode error", "error", err)
				continue
			}
			for _, p := range pubs {
				if err := publish(client, p.topic, false, p.payload); err != nil {
					logger.Warnw("sensor publish failed", "error", err)
				}
			}
			logger.Debugw("published sample", "accel", sample.Accel, "mag", sample.Mag)

		case <-sigCh:
			logger.Infow("shutting down")
			return nil
		}
	}
}
