// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package sensors

import (
	"fmt"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"
)

// RegisterBus is the single-byte register access a sensor driver needs.
// Implementations are not safe for concurrent use.
type RegisterBus interface {
	ReadByte(dev uint16, reg byte) (byte, error)
	WriteByte(dev uint16, reg byte, value byte) error
}

// I2CBus is a RegisterBus backed by a periph.io I2C bus.
type I2CBus struct {
	name string
	bus  i2c.BusCloser
	rx   [1]byte
}

// OpenI2C initializes the periph host and opens the named I2C bus
// ("" picks the first one available).
func OpenI2C(name string) (*I2CBus, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("periph host init: %w", err)
	}
	bus, err := i2creg.Open(name)
	if err != nil {
		return nil, fmt.Errorf("i2c open %q: %w", name, err)
	}
	return &I2CBus{name: name, bus: bus}, nil
}

// ReadByte writes the register address and reads one byte back.
func (b *I2CBus) ReadByte(dev uint16, reg byte) (byte, error) {
	if err := b.bus.Tx(dev, []byte{reg}, b.rx[:]); err != nil {
		return 0, fmt.Errorf("i2c %s read 0x%02X@0x%02X: %w", b.name, reg, dev, err)
	}
	return b.rx[0], nil
}

// WriteByte writes one byte to a register.
func (b *I2CBus) WriteByte(dev uint16, reg byte, value byte) error {
	if err := b.bus.Tx(dev, []byte{reg, value}, nil); err != nil {
		return fmt.Errorf("i2c %s write 0x%02X@0x%02X: %w", b.name, reg, dev, err)
	}
	return nil
}

// Close releases the bus.
func (b *I2CBus) Close() error {
	return b.bus.Close()
}
