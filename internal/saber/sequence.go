// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package saber

// The blade is one strip folded in half: pixel 0 and pixel n-1 sit at the
// hilt, the middle of the strip is the tip. Each animation step lights or
// clears one pixel on each side.

// ignitionOrder returns, per step, the two pixels lit at that step: from
// the hilt ends toward the tip. On odd strips the last step names the tip
// pixel twice.
func ignitionOrder(n int) [][2]int {
	steps := (n + 1) / 2
	order := make([][2]int, steps)
	for i := range order {
		order[i] = [2]int{i, n - 1 - i}
	}
	return order
}

// retractionOrder is ignition reversed: from the tip back to the hilt.
func retractionOrder(n int) [][2]int {
	steps := (n + 1) / 2
	order := make([][2]int, steps)
	for i := range order {
		order[i] = [2]int{steps - 1 - i, n - steps + i}
	}
	return order
}
