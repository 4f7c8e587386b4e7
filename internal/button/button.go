// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package button turns a push button into debounced press events.
//
// Events are delivered on a single-slot channel: if the consumer is still
// busy with the previous press, new edges are dropped rather than queued.
package button

import (
	"time"
)

// Input is a momentary push button.
type Input interface {
	// Events delivers one timestamp per accepted press.
	Events() <-chan time.Time
	// Pressed reports whether the button is held down right now.
	Pressed() bool
	Close() error
}

// debouncer accepts an edge only if the previously accepted one is at
// least window old.
type debouncer struct {
	window time.Duration
	last   time.Time
	seen   bool
}

func (d *debouncer) accept(t time.Time) bool {
	if d.seen && t.Sub(d.last) < d.window {
		return false
	}
	d.last = t
	d.seen = true
	return true
}

// offer delivers t without blocking and reports whether it was taken.
func offer(ch chan time.Time, t time.Time) bool {
	select {
	case ch <- t:
		return true
	default:
		return false
	}
}
