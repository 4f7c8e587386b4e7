// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"bufio"
	"io"
	"log"
	"strings"
	"time"

	"github.com/relabs-tech/lightsaber/internal/button"
)

// holdMargin keeps a console hold down a little past the retract threshold.
const holdMargin = 200 * time.Millisecond

// RunMockConsole turns console lines into button presses for mock mode:
// an empty line is a press, "h" holds past holdTime. It returns when r is
// exhausted.
func RunMockConsole(r io.Reader, btn *button.Manual, holdTime time.Duration) error {
	log.Println("mock: press Enter to press the button, h+Enter to hold it")
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		var accepted bool
		switch strings.ToLower(strings.TrimSpace(sc.Text())) {
		case "", "p":
			accepted = btn.Press()
		case "h":
			accepted = btn.Hold(holdTime + holdMargin)
		default:
			log.Printf("mock: unknown input %q", sc.Text())
			continue
		}
		if !accepted {
			log.Println("mock: button busy, press dropped")
		}
	}
	return sc.Err()
}
