// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"sync"

	"github.com/relabs-tech/lightsaber/internal/telemetry"
)

// frameHistory is a fixed-capacity ring of the most recent frames. Safe
// for concurrent use.
type frameHistory struct {
	mu   sync.RWMutex
	data []telemetry.FramePayload
	pos  int
	full bool
}

func newFrameHistory(capacity int) *frameHistory {
	if capacity < 1 {
		capacity = 1
	}
	return &frameHistory{data: make([]telemetry.FramePayload, capacity)}
}

// Push adds a frame, overwriting the oldest once full.
func (h *frameHistory) Push(p telemetry.FramePayload) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.data[h.pos] = p
	h.pos++
	if h.pos >= len(h.data) {
		h.pos = 0
		h.full = true
	}
}

// Len returns the number of frames held.
func (h *frameHistory) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.full {
		return len(h.data)
	}
	return h.pos
}

// Slice returns the frames oldest first.
func (h *frameHistory) Slice() []telemetry.FramePayload {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if !h.full {
		return append([]telemetry.FramePayload(nil), h.data[:h.pos]...)
	}
	out := make([]telemetry.FramePayload, 0, len(h.data))
	out = append(out, h.data[h.pos:]...)
	return append(out, h.data[:h.pos]...)
}

// Last returns the newest n frames, oldest first.
func (h *frameHistory) Last(n int) []telemetry.FramePayload {
	all := h.Slice()
	if n <= 0 || n >= len(all) {
		return all
	}
	return all[len(all)-n:]
}
