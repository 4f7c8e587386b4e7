// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package strip

import (
	"fmt"

	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/devices/v3/nrzled"
	"periph.io/x/host/v3"

	"github.com/relabs-tech/lightsaber/internal/led"
)

// SPIStrip drives WS2812-class LEDs directly from an SPI MOSI line.
type SPIStrip struct {
	port spi.PortCloser
	dev  *nrzled.Dev
	buf  []byte
}

// OpenSPI opens the SPI device ("/dev/spidev0.0", "SPI0.0", ...) for a
// strip of n pixels.
func OpenSPI(name string, n int) (*SPIStrip, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("periph host init: %w", err)
	}
	port, err := spireg.Open(name)
	if err != nil {
		return nil, fmt.Errorf("spi strip open %s: %w", name, err)
	}
	dev, err := nrzled.NewSPI(port, &nrzled.Opts{
		NumPixels: n,
		Channels:  3,
		Freq:      2500 * physic.KiloHertz,
	})
	if err != nil {
		port.Close()
		return nil, fmt.Errorf("spi strip init: %w", err)
	}
	return &SPIStrip{port: port, dev: dev}, nil
}

// Push writes one frame.
func (s *SPIStrip) Push(pixels []led.Color) error {
	s.buf = s.buf[:0]
	for _, p := range pixels {
		s.buf = append(s.buf, p.R, p.G, p.B)
	}
	if _, err := s.dev.Write(s.buf); err != nil {
		return fmt.Errorf("spi strip write: %w", err)
	}
	return nil
}

// Close blanks the strip and releases the port.
func (s *SPIStrip) Close() error {
	haltErr := s.dev.Halt()
	if err := s.port.Close(); err != nil {
		return err
	}
	return haltErr
}
