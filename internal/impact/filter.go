// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package impact turns a stream of motion metrics into flash and intensity
// outputs.
//
// A flash is triggered when the acceleration deviation drops by at least
// Threshold between two consecutive samples, and is held for HoldCycles
// samples. The hold is counted in samples, not time, so its wall-clock
// length depends on the polling interval.
package impact

import (
	"math"

	"github.com/relabs-tech/lightsaber/internal/motion"
)

const (
	Threshold    = 1.0 // g
	HoldCycles   = 6
	MaxIntensity = 100.0
)

// State is the filter memory carried between samples. The zero value is
// the initial state.
type State struct {
	Previous     float64 `json:"previous_total_accel"`
	HavePrevious bool    `json:"have_previous"`
	Countdown    int     `json:"flash_countdown"`
}

// Frame is the per-sample output consumed by the effect layer.
type Frame struct {
	Difference  float64 `json:"difference"`
	Contact     bool    `json:"contact"` // this sample crossed Threshold
	FlashActive bool    `json:"flash"`
	Intensity   float64 `json:"intensity"` // 0..100
}

// Filter advances State once per polling cycle. Not safe for concurrent
// use; the polling loop owns it.
type Filter struct {
	state State
}

// Advance feeds one sample's metrics and returns the resulting frame.
func (f *Filter) Advance(m motion.Metrics) Frame {
	var difference float64
	if f.state.HavePrevious {
		difference = f.state.Previous - m.TotalAccel
	}
	f.state.Previous = m.TotalAccel
	f.state.HavePrevious = true

	contact := difference >= Threshold
	if contact {
		f.state.Countdown = HoldCycles
	} else if f.state.Countdown > 0 {
		f.state.Countdown--
	}

	flash := f.state.Countdown > 0
	intensity := MaxIntensity
	if !flash {
		intensity = math.Min(m.CombinedScore*10, MaxIntensity)
	}

	return Frame{
		Difference:  difference,
		Contact:     contact,
		FlashActive: flash,
		Intensity:   intensity,
	}
}

// State returns a copy of the filter memory.
func (f *Filter) State() State {
	return f.state
}

// Reset returns the filter to its initial state.
func (f *Filter) Reset() {
	f.state = State{}
}
