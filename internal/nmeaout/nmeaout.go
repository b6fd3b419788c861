// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package nmeaout repeats headings as NMEA 0183 HDM sentences, the format
// chart plotters and autopilots read from a magnetic compass.
package nmeaout

import (
	"fmt"
	"io"
	"sync"

	nmea "github.com/adrianmo/go-nmea"
	serial "github.com/jacobsa/go-serial/serial"
	"github.com/pkg/errors"

	"github.com/relabs-tech/compass/internal/heading"
)

// Talker ID of a magnetic compass.
const talker = "HC"

// HDM formats h as "$HCHDM,<deg>,M*<checksum>".
func HDM(h heading.Heading) string {
	body := fmt.Sprintf("%sHDM,%.1f,M", talker, h.Degrees)
	return "$" + body + "*" + nmea.Checksum(body)
}

// Writer writes one sentence per heading, CRLF terminated.
type Writer struct {
	mu sync.Mutex
	w  io.Writer
}

// NewWriter wraps w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// WriteHeading writes the HDM sentence for h.
func (w *Writer) WriteHeading(h heading.Heading) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, err := io.WriteString(w.w, HDM(h)+"\r\n"); err != nil {
		return errors.Wrap(err, "write HDM sentence")
	}
	return nil
}

// OpenSerial opens port at baud, 8N1.
func OpenSerial(port string, baud uint) (io.ReadWriteCloser, error) {
	opts := serial.OpenOptions{
		PortName:              port,
		BaudRate:              baud,
		DataBits:              8,
		StopBits:              1,
		MinimumReadSize:       1,
		ParityMode:            serial.PARITY_NONE,
		InterCharacterTimeout: 0,
	}
	rwc, err := serial.Open(opts)
	if err != nil {
		return nil, errors.Wrapf(err, "open NMEA serial port %s", port)
	}
	return rwc, nil
}
