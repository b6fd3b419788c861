// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package imu

import (
	"encoding/json"

	"github.com/pkg/errors"

	"github.com/relabs-tech/compass/internal/orientation"
)

// Kind names the sensor an event came from.
type Kind string

const (
	KindAccel Kind = "accel" // m/s²
	KindMag   Kind = "mag"   // µT
)

// SensorEvent is a single accelerometer or magnetometer reading as
// published over MQTT.
type SensorEvent struct {
	Source string `json:"source"` // producer name, e.g. "mock" or "phone"
	Kind   Kind   `json:"kind"`

	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`

	Time string `json:"time"` // RFC3339
}

// Vector returns the reading as an orientation.Vector3.
func (ev SensorEvent) Vector() orientation.Vector3 {
	return orientation.Vector3{X: ev.X, Y: ev.Y, Z: ev.Z}
}

// NewEvent builds an event from a reading.
func NewEvent(source string, kind Kind, v orientation.Vector3, time string) SensorEvent {
	return SensorEvent{Source: source, Kind: kind, X: v.X, Y: v.Y, Z: v.Z, Time: time}
}

// DecodeEvent parses an MQTT payload. An empty kind is filled in from
// fallback, so producers can publish bare vectors on per-sensor topics.
func DecodeEvent(payload []byte, fallback Kind) (SensorEvent, error) {
	var ev SensorEvent
	if err := json.Unmarshal(payload, &ev); err != nil {
		return SensorEvent{}, errors.Wrap(err, "sensor event")
	}
	if ev.Kind == "" {
		ev.Kind = fallback
	}
	switch ev.Kind {
	case KindAccel, KindMag:
	default:
		return SensorEvent{}, errors.Errorf("sensor event: unknown kind %q", ev.Kind)
	}
	return ev, nil
}
