// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"encoding/json"
	"fmt"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/relabs-tech/compass/internal/config"
	"github.com/relabs-tech/compass/internal/display"
	"github.com/relabs-tech/compass/internal/heading"
	"github.com/relabs-tech/compass/internal/imu"
	"github.com/relabs-tech/compass/internal/logging"
)

func formatReport(r heading.Report) string {
	ind := display.NewIndicator(r.Heading)
	return fmt.Sprintf(
		"[HEAD] %6.2f°  %-12s arrow=%7.2f  pitch=%6.2f  roll=%6.2f  dip=%6.2f",
		r.Degrees, ind.Label, ind.Rotation, r.Pitch, r.Roll, r.Inclination,
	)
}

func formatEvent(ev imu.SensorEvent) string {
	tag := "[ACC ]"
	if ev.Kind == imu.KindMag {
		tag = "[MAG ]"
	}
	return fmt.Sprintf("%s %-8s x=%8.3f y=%8.3f z=%8.3f", tag, ev.Source, ev.X, ev.Y, ev.Z)
}

// RunConsoleMQTT prints headings and, when raw is set, the sensor events
// behind them until Ctrl+C.
func RunConsoleMQTT(cfg *config.Config, raw bool) error {
	logger := logging.New("console")

	client, err := connectMQTT(cfg.MQTTBroker, cfg.MQTTClientIDConsole, logger, nil)
	if err != nil {
		return err
	}
	defer client.Disconnect(disconnectQuiesceMs)

	topics := []string{cfg.TopicHeading}
	err = subscribe(client, cfg.TopicHeading, func(_ mqtt.Client, msg mqtt.Message) {
		var r heading.Report
		if err := json.Unmarshal(msg.Payload(), &r); err != nil {
			logger.Warnw("heading unmarshal error", "error", err)
			return
		}
		fmt.Println(formatReport(r))
	})
	if err != nil {
		return err
	}
	logger.Infow("subscribed", "topic", cfg.TopicHeading)

	if raw {
		for topic, kind := range map[string]imu.Kind{cfg.TopicAccel: imu.KindAccel, cfg.TopicMag: imu.KindMag} {
			kind := kind
			err := subscribe(client, topic, func(_ mqtt.Client, msg mqtt.Message) {
				ev, err := imu.DecodeEvent(msg.Payload(), kind)
				if err != nil {
					logger.Warnw("sensor event unmarshal error", "topic", msg.Topic(), "error", err)
					return
				}
				fmt.Println(formatEvent(ev))
			})
			if err != nil {
				return err
			}
			topics = append(topics, topic)
			logger.Infow("subscribed", "topic", topic)
		}
	}

	<-shutdownSignal()
	logger.Infow("shutting down")
	return unsubscribe(client, topics...)
}
