// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package sensors

import (
	"fmt"

	"github.com/relabs-tech/lightsaber/internal/imu"
)

// MPU-6050 register map (subset used by the driver).
const (
	MPU6050Addr = 0x68

	RegPwrMgmt1   = 0x6B
	RegWhoAmI     = 0x75
	RegAccelXOutH = 0x3B
	RegAccelYOutH = 0x3D
	RegAccelZOutH = 0x3F
	RegTempOutH   = 0x41
	RegGyroXOutH  = 0x43
	RegGyroYOutH  = 0x45
	RegGyroZOutH  = 0x47

	// Clearing PWR_MGMT_1 takes the device out of sleep with the internal
	// oscillator selected.
	wakeValue = 0x00
)

// MPU6050 reads accelerometer and gyroscope axes over a RegisterBus.
type MPU6050 struct {
	bus  RegisterBus
	addr uint16
}

// NewMPU6050 returns a driver for the device at addr. Call Init before
// sampling.
func NewMPU6050(bus RegisterBus, addr uint16) *MPU6050 {
	return &MPU6050{bus: bus, addr: addr}
}

// Init wakes the sensor.
func (d *MPU6050) Init() error {
	if err := d.bus.WriteByte(d.addr, RegPwrMgmt1, wakeValue); err != nil {
		return fmt.Errorf("MPU6050 wake: %w", err)
	}
	return nil
}

// WhoAmI returns the identity register (0x68 on a genuine part).
func (d *MPU6050) WhoAmI() (byte, error) {
	id, err := d.bus.ReadByte(d.addr, RegWhoAmI)
	if err != nil {
		return 0, fmt.Errorf("MPU6050 WHO_AM_I: %w", err)
	}
	return id, nil
}

// Probe wakes the sensor and reads its identity register.
func (d *MPU6050) Probe() (byte, error) {
	if err := d.Init(); err != nil {
		return 0, err
	}
	return d.WhoAmI()
}

// ReadAxis reads the high byte at high and the low byte at high+1 and
// returns the signed value they encode.
func (d *MPU6050) ReadAxis(high byte) (int16, error) {
	h, err := d.bus.ReadByte(d.addr, high)
	if err != nil {
		return 0, err
	}
	l, err := d.bus.ReadByte(d.addr, high+1)
	if err != nil {
		return 0, err
	}
	return DecodeAxis(uint16(h)<<8 | uint16(l)), nil
}

// DecodeAxis reinterprets a big-endian register pair as two's complement.
func DecodeAxis(v uint16) int16 {
	return int16(v)
}

// SampleRaw reads accel X, Y, Z then gyro X, Y, Z. The first bus error
// aborts the sample.
func (d *MPU6050) SampleRaw() (imu.RawSample, error) {
	var s imu.RawSample
	axes := []struct {
		name string
		reg  byte
		dst  *int16
	}{
		{"accel X", RegAccelXOutH, &s.Ax},
		{"accel Y", RegAccelYOutH, &s.Ay},
		{"accel Z", RegAccelZOutH, &s.Az},
		{"gyro X", RegGyroXOutH, &s.Gx},
		{"gyro Y", RegGyroYOutH, &s.Gy},
		{"gyro Z", RegGyroZOutH, &s.Gz},
	}
	for _, a := range axes {
		v, err := d.ReadAxis(a.reg)
		if err != nil {
			return imu.RawSample{}, fmt.Errorf("MPU6050 %s: %w", a.name, err)
		}
		*a.dst = v
	}
	return s, nil
}
