// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"github.com/relabs-tech/lightsaber/internal/impact"
	"github.com/relabs-tech/lightsaber/internal/imu"
	"github.com/relabs-tech/lightsaber/internal/motion"
)

// Sample is everything one polling cycle derives from the sensor.
type Sample struct {
	Raw     imu.RawSample
	Scaled  imu.ScaledSample
	Metrics motion.Metrics
	Frame   impact.Frame
}

// Pipeline turns raw sensor reads into impact frames. It is owned by the
// polling goroutine.
type Pipeline struct {
	src    imu.RawSource
	filter impact.Filter
}

func NewPipeline(src imu.RawSource) *Pipeline {
	return &Pipeline{src: src}
}

// Step reads one sample and advances the filter. On a read error the
// filter is left untouched.
func (p *Pipeline) Step() (Sample, error) {
	raw, err := p.src.SampleRaw()
	if err != nil {
		return Sample{}, err
	}
	scaled := motion.ToScaled(raw)
	m := motion.ComputeMetrics(scaled)
	return Sample{
		Raw:     raw,
		Scaled:  scaled,
		Metrics: m,
		Frame:   p.filter.Advance(m),
	}, nil
}

// FilterState exposes the filter state for diagnostics.
func (p *Pipeline) FilterState() impact.State {
	return p.filter.State()
}
