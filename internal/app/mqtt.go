// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const disconnectQuiesceMs = 250

// connectMQTT connects to broker. Sessions are persistent so the broker
// keeps subscriptions across automatic reconnects.
func connectMQTT(broker, clientID string, logger *zap.SugaredLogger, onLost func()) (mqtt.Client, error) {
	opts := mqtt.NewClientOptions().
		AddBroker(broker).
		SetClientID(clientID).
		SetCleanSession(false).
		SetAutoReconnect(true).
		SetMaxReconnectInterval(10 * time.Second).
		SetConnectionLostHandler(func(_ mqtt.Client, err error) {
			logger.Warnw("MQTT connection lost", "broker", broker, "error", err)
			if onLost != nil {
				onLost()
			}
		}).
		SetOnConnectHandler(func(_ mqtt.Client) {
			logger.Infow("connected to MQTT broker", "broker", broker, "client_id", clientID)
		})

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, errors.Wrapf(token.Error(), "MQTT connect %s", broker)
	}
	return client, nil
}

func subscribe(client mqtt.Client, topic string, handler mqtt.MessageHandler) error {
	token := client.Subscribe(topic, 0, handler)
	token.Wait()
	if token.Error() != nil {
		return errors.Wrapf(token.Error(), "subscribe %s", topic)
	}
	return nil
}

func unsubscribe(client mqtt.Client, topics ...string) error {
	token := client.Unsubscribe(topics...)
	token.Wait()
	if token.Error() != nil {
		return errors.Wrapf(token.Error(), "unsubscribe %v", topics)
	}
	return nil
}

func publish(client mqtt.Client, topic string, retained bool, payload []byte) error {
	token := client.Publish(topic, 0, retained, payload)
	token.Wait()
	if token.Error() != nil {
		return errors.Wrapf(token.Error(), "publish %s", topic)
	}
	return nil
}

// shutdownSignal is closed on Ctrl+C or SIGTERM.
func shutdownSignal() <-chan os.Signal {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	return sigCh
}
