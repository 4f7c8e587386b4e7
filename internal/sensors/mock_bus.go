// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package sensors

import (
	"math"
	"time"
)

const (
	mockAccelLSB = 16384.0 // LSB per g at ±2g
	mockGyroLSB  = 131.0   // LSB per °/s at ±250°/s

	mockImpactEvery = 4 * time.Second
	mockImpactG     = 1.95 // stays inside the ±2g range
)

// MockBus emulates an MPU-6050 that is swung slowly and struck every few
// seconds. A new sample is latched each time ACCEL_XOUT_H is read, so one
// SampleRaw sees a consistent set of axes.
type MockBus struct {
	now        func() time.Time
	start      time.Time
	lastImpact time.Time
	regs       [256]byte
}

// NewMockBus creates a mock sensor bus driven by the wall clock.
func NewMockBus() *MockBus {
	return newMockBus(time.Now)
}

func newMockBus(now func() time.Time) *MockBus {
	t := now()
	m := &MockBus{now: now, start: t, lastImpact: t}
	m.regs[RegWhoAmI] = MPU6050Addr
	m.regs[RegPwrMgmt1] = 0x40 // asleep until woken
	return m
}

// ReadByte serves register reads. The device address is ignored.
func (m *MockBus) ReadByte(_ uint16, reg byte) (byte, error) {
	if reg == RegAccelXOutH {
		m.latch()
	}
	return m.regs[reg], nil
}

// WriteByte stores the value; only PWR_MGMT_1 has an effect.
func (m *MockBus) WriteByte(_ uint16, reg byte, value byte) error {
	m.regs[reg] = value
	return nil
}

func (m *MockBus) latch() {
	if m.regs[RegPwrMgmt1]&0x40 != 0 {
		// Sleeping parts report zeros.
		for r := RegAccelXOutH; r <= RegGyroZOutH+1; r++ {
			m.regs[r] = 0
		}
		return
	}

	t := m.now()
	elapsed := t.Sub(m.start).Seconds()

	ax := 0.05 * math.Sin(elapsed*3)
	ay := 0.4 * math.Sin(elapsed)
	az := 1.0
	if t.Sub(m.lastImpact) >= mockImpactEvery {
		m.lastImpact = t
		ax = mockImpactG
	}

	gx := 40 * math.Cos(elapsed)
	gy := 15 * math.Sin(elapsed*0.7)
	gz := 5 * math.Sin(elapsed*2)

	m.put(RegAccelXOutH, ax*mockAccelLSB)
	m.put(RegAccelYOutH, ay*mockAccelLSB)
	m.put(RegAccelZOutH, az*mockAccelLSB)
	m.put(RegGyroXOutH, gx*mockGyroLSB)
	m.put(RegGyroYOutH, gy*mockGyroLSB)
	m.put(RegGyroZOutH, gz*mockGyroLSB)
}

func (m *MockBus) put(high byte, v float64) {
	v = math.Max(math.MinInt16, math.Min(math.MaxInt16, math.Round(v)))
	u := uint16(int16(v))
	m.regs[high] = byte(u >> 8)
	m.regs[high+1] = byte(u)
}
