// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package button

import (
	"sync"
	"time"
)

// Manual is a software button, used when running without hardware (key
// presses on the console) and in tests.
type Manual struct {
	now    func() time.Time
	events chan time.Time

	mu      sync.Mutex
	heldTil time.Time
}

// NewManual returns a software button using the wall clock.
func NewManual() *Manual {
	return NewManualWithClock(time.Now)
}

// NewManualWithClock returns a software button reading time from now.
func NewManualWithClock(now func() time.Time) *Manual {
	return &Manual{now: now, events: make(chan time.Time, 1)}
}

// Press emits a short press. It reports false if a press is already
// pending and this one was dropped.
func (m *Manual) Press() bool {
	return offer(m.events, m.now())
}

// Hold emits a press and keeps the button down for d.
func (m *Manual) Hold(d time.Duration) bool {
	t := m.now()
	m.mu.Lock()
	m.heldTil = t.Add(d)
	m.mu.Unlock()
	return offer(m.events, t)
}

// Events implements Input.
func (m *Manual) Events() <-chan time.Time {
	return m.events
}

// Pressed implements Input.
func (m *Manual) Pressed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now().Before(m.heldTil)
}

// Close implements Input.
func (m *Manual) Close() error {
	return nil
}
