// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package strip

import (
	"fmt"
	"io"

	serial "github.com/jacobsa/go-serial/serial"

	"github.com/relabs-tech/lightsaber/internal/led"
)

// serialMagicByte starts every frame; pixel bytes always have the high bit
// set, so the controller can resynchronise on it.
const serialMagicByte = 0x84

// SerialStrip drives a microcontroller strip bridge over a serial port.
// Each pixel is sent as G, R, B with 7 bits of color and the high bit set.
type SerialStrip struct {
	port io.WriteCloser
	buf  []byte
}

// OpenSerial opens the serial port at the given baud rate.
func OpenSerial(portName string, baud int) (*SerialStrip, error) {
	port, err := serial.Open(serial.OpenOptions{
		PortName:        portName,
		BaudRate:        uint(baud),
		DataBits:        8,
		StopBits:        1,
		MinimumReadSize: 1,
		ParityMode:      serial.PARITY_NONE,
	})
	if err != nil {
		return nil, fmt.Errorf("serial strip open %s: %w", portName, err)
	}
	return newSerialStrip(port), nil
}

func newSerialStrip(w io.WriteCloser) *SerialStrip {
	return &SerialStrip{port: w}
}

// Push writes one frame.
func (s *SerialStrip) Push(pixels []led.Color) error {
	s.buf = append(s.buf[:0], serialMagicByte)
	for _, p := range pixels {
		s.buf = append(s.buf, map7(p.G)|0x80, map7(p.R)|0x80, map7(p.B)|0x80)
	}
	if _, err := s.port.Write(s.buf); err != nil {
		return fmt.Errorf("serial strip write: %w", err)
	}
	return nil
}

// Close closes the port.
func (s *SerialStrip) Close() error {
	return s.port.Close()
}

func map7(in uint8) uint8 {
	return uint8(uint16(in) * 127 / 255)
}
