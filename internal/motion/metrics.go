// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package motion converts raw MPU-6050 readings to physical units and
// derives the scalar motion metrics the effects run on.
package motion

import (
	"math"

	"github.com/relabs-tech/lightsaber/internal/imu"
)

const (
	AccelLSBPerG   = 16384.0 // ±2g full scale
	GyroLSBPerDegS = 131.0   // ±250°/s full scale
)

// Fixed per-axis corrections measured on the prop. Accel offsets are added
// to the raw count before scaling; gyro biases are added after scaling.
var (
	AccelOffset = [3]float64{-0.07, +0.02, +0.04}
	GyroBias    = [3]float64{-3, +0.2, -0.5}
)

// Metrics are the scalar motion values derived from one sample.
type Metrics struct {
	TotalAccel    float64 `json:"total_accel"`    // |‖a‖ - 1g|
	TotalGyro     float64 `json:"total_gyro"`     // gx+gy+gz, signed
	CombinedScore float64 `json:"combined_score"` // |TotalAccel| + |TotalGyro|/100
}

// ToScaled converts a raw sample to g and °/s.
func ToScaled(raw imu.RawSample) imu.ScaledSample {
	return imu.ScaledSample{
		Ax: math.Abs((float64(raw.Ax) + AccelOffset[0]) / AccelLSBPerG),
		Ay: math.Abs((float64(raw.Ay) + AccelOffset[1]) / AccelLSBPerG),
		Az: math.Abs((float64(raw.Az) + AccelOffset[2]) / AccelLSBPerG),

		Gx: float64(raw.Gx)/GyroLSBPerDegS + GyroBias[0],
		Gy: float64(raw.Gy)/GyroLSBPerDegS + GyroBias[1],
		Gz: float64(raw.Gz)/GyroLSBPerDegS + GyroBias[2],
	}
}

// ComputeMetrics derives Metrics from a scaled sample.
func ComputeMetrics(s imu.ScaledSample) Metrics {
	totalAccel := math.Abs(math.Sqrt(s.Ax*s.Ax+s.Ay*s.Ay+s.Az*s.Az) - 1)
	totalGyro := s.Gx + s.Gy + s.Gz
	return Metrics{
		TotalAccel:    totalAccel,
		TotalGyro:     totalGyro,
		CombinedScore: math.Abs(totalAccel) + math.Abs(totalGyro/100),
	}
}
