// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package strip pushes whole pixel frames to an addressable LED strip.
// A push is fire-and-forget: a failed frame is reported to the caller and
// the next push tries again.
package strip

import (
	"errors"
	"fmt"

	"github.com/relabs-tech/lightsaber/internal/config"
	"github.com/relabs-tech/lightsaber/internal/led"
)

var ErrUnknownTransport = errors.New("unknown strip transport")

// Strip is a pixel transport.
type Strip interface {
	Push(pixels []led.Color) error
	Close() error
}

// Open builds the transport selected by STRIP_TRANSPORT.
func Open(cfg *config.Config) (Strip, error) {
	switch cfg.StripTransport {
	case "opc":
		return NewOPCClient(cfg.OPCServer, cfg.OPCChannel), nil
	case "serial":
		return OpenSerial(cfg.StripSerialPort, cfg.StripSerialBaud)
	case "spi":
		return OpenSPI(cfg.StripSPIDevice, cfg.LedCount)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownTransport, cfg.StripTransport)
	}
}
