// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"go.viam.com/test"

	"github.com/relabs-tech/compass/internal/config"
	"github.com/relabs-tech/compass/internal/orientation"
)

func TestSampleMessagesDriveCompassNode(t *testing.T) {
	cfg := config.Default()
	clk := clock.NewMock()
	src := orientation.NewMockSource(clk, 10)
	node := newTestNode()

	handlers := map[string]func(fakeMessage){
		cfg.TopicAccel: func(m fakeMessage) { node.messageHandler("accel")(nil, m) },
		cfg.TopicMag:   func(m fakeMessage) { node.messageHandler("mag")(nil, m) },
	}

	for _, want := range []float64{0, 50, 100, 150} {
		sample, err := src.Next()
		test.That(t, err, test.ShouldBeNil)

		pubs, err := sampleMessages(cfg, "mock", sample, clk.Now())
		test.That(t, err, test.ShouldBeNil)
		test.That(t, len(pubs), test.ShouldEqual, 2)
		test.That(t, pubs[0].topic, test.ShouldEqual, cfg.TopicAccel)
		test.That(t, pubs[1].topic, test.ShouldEqual, cfg.TopicMag)

		for _, p := range pubs {
			handlers[p.topic](fakeMessage{topic: p.topic, payload: p.payload})
		}

		var last float64
		for len(node.reports) > 0 {
			last = (<-node.reports).Degrees
		}
		test.That(t, last, test.ShouldAlmostEqual, want, 1e-6)

		clk.Add(5 * time.Second)
	}
}
