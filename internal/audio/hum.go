// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package audio plays the blade hum. Its loudness follows the intensity
// output of the impact filter.
package audio

import (
	"fmt"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/generators"
	"github.com/gopxl/beep/v2/speaker"
)

const (
	sampleRate = beep.SampleRate(44100)

	// Volume is in powers of two: intensity 100 plays at full scale and
	// every 100/quietSpan steps below halves the amplitude.
	quietSpan = 6.0

	// Intensities below this are silence.
	silenceBelow = 1.0
)

// Hum is a continuous tone played through the default audio device.
type Hum struct {
	vol *effects.Volume
}

// StartHum opens the speaker and starts a silent sine tone at freq Hz.
func StartHum(freq float64) (*Hum, error) {
	if err := speaker.Init(sampleRate, sampleRate.N(50*time.Millisecond)); err != nil {
		return nil, fmt.Errorf("speaker init: %w", err)
	}
	tone, err := generators.SineTone(sampleRate, freq)
	if err != nil {
		speaker.Close()
		return nil, fmt.Errorf("hum tone %gHz: %w", freq, err)
	}
	h := &Hum{vol: &effects.Volume{Streamer: tone, Base: 2, Silent: true}}
	speaker.Play(h.vol)
	return h, nil
}

// SetIntensity sets the loudness from an intensity in 0..100.
func (h *Hum) SetIntensity(intensity float64) {
	v, silent := volumeFor(intensity)
	speaker.Lock()
	h.vol.Volume = v
	h.vol.Silent = silent
	speaker.Unlock()
}

// Close silences and releases the audio device.
func (h *Hum) Close() {
	speaker.Clear()
	speaker.Close()
}

// volumeFor maps intensity to a beep volume exponent.
func volumeFor(intensity float64) (volume float64, silent bool) {
	if intensity < silenceBelow {
		return -quietSpan, true
	}
	if intensity > 100 {
		intensity = 100
	}
	return quietSpan * (intensity - 100) / 100, false
}
