// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package button

import (
	"fmt"
	"log"
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"
)

// edgePoll bounds how long the watcher blocks before checking for Close.
const edgePoll = 100 * time.Millisecond

// GPIOButton is an active-low button on a GPIO line with the internal
// pull-up enabled; a press is a falling edge.
type GPIOButton struct {
	pin    gpio.PinIO
	events chan time.Time
	done   chan struct{}
	exited chan struct{}
}

// OpenGPIO configures the named pin ("P2_4", "GPIO17", ...) and starts
// watching it for presses.
func OpenGPIO(name string, debounce time.Duration) (*GPIOButton, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("periph host init: %w", err)
	}
	pin := gpioreg.ByName(name)
	if pin == nil {
		return nil, fmt.Errorf("button pin %q not found", name)
	}
	if err := pin.In(gpio.PullUp, gpio.FallingEdge); err != nil {
		return nil, fmt.Errorf("button pin %s: %w", name, err)
	}

	b := &GPIOButton{
		pin:    pin,
		events: make(chan time.Time, 1),
		done:   make(chan struct{}),
		exited: make(chan struct{}),
	}
	go b.watch(debounce)
	log.Printf("button: watching %s (debounce %s)", name, debounce)
	return b, nil
}

func (b *GPIOButton) watch(window time.Duration) {
	defer close(b.exited)
	deb := debouncer{window: window}
	for {
		select {
		case <-b.done:
			return
		default:
		}
		if !b.pin.WaitForEdge(edgePoll) {
			continue
		}
		now := time.Now()
		if deb.accept(now) {
			offer(b.events, now)
		}
	}
}

// Events implements Input.
func (b *GPIOButton) Events() <-chan time.Time {
	return b.events
}

// Pressed implements Input.
func (b *GPIOButton) Pressed() bool {
	return b.pin.Read() == gpio.Low
}

// Close stops the watcher and disables edge detection on the pin.
func (b *GPIOButton) Close() error {
	close(b.done)
	<-b.exited
	if err := b.pin.In(gpio.PullNoChange, gpio.NoEdge); err != nil {
		return fmt.Errorf("button pin release: %w", err)
	}
	return b.pin.Halt()
}
