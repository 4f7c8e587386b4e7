// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package telemetry

import (
	"time"

	"github.com/relabs-tech/lightsaber/internal/impact"
	"github.com/relabs-tech/lightsaber/internal/imu"
	"github.com/relabs-tech/lightsaber/internal/led"
	"github.com/relabs-tech/lightsaber/internal/motion"
	"github.com/relabs-tech/lightsaber/internal/saber"
)

// FramePayload is published on TOPIC_FRAME, and on TOPIC_FLASH when a
// flash starts.
type FramePayload struct {
	Seq    uint64            `json:"seq"`
	Time   string            `json:"time"` // RFC3339Nano
	Scaled imu.ScaledSample  `json:"scaled"`
	motion.Metrics
	impact.Frame
}

// StatePayload is published, retained, on TOPIC_STATE.
type StatePayload struct {
	On        bool   `json:"on"`
	Color     [3]int `json:"color"`
	ColorName string `json:"color_name"`
	LedCount  int    `json:"led_count"`
	Time      string `json:"time"`
}

// NewFramePayload assembles one cycle's output.
func NewFramePayload(seq uint64, t time.Time, s imu.ScaledSample, m motion.Metrics, fr impact.Frame) FramePayload {
	return FramePayload{
		Seq:     seq,
		Time:    t.UTC().Format(time.RFC3339Nano),
		Scaled:  s,
		Metrics: m,
		Frame:   fr,
	}
}

// NewStatePayload converts a blade state.
func NewStatePayload(st saber.State, t time.Time) StatePayload {
	return StatePayload{
		On:        st.IsOn,
		Color:     [3]int{int(st.Color.R), int(st.Color.G), int(st.Color.B)},
		ColorName: led.Name(st.Color),
		LedCount:  st.LedCount,
		Time:      t.UTC().Format(time.RFC3339),
	}
}
