// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package saber owns the blade: on/off state, color and the pixel strip.
//
// Button presses are handled one at a time on the Run goroutine. The
// polling loop calls Render every cycle; Render never blocks and skips the
// cycle while an ignition or retraction animation holds the strip.
package saber

import (
	"context"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/relabs-tech/lightsaber/internal/button"
	"github.com/relabs-tech/lightsaber/internal/impact"
	"github.com/relabs-tech/lightsaber/internal/led"
	"github.com/relabs-tech/lightsaber/internal/strip"
)

const holdPoll = 10 * time.Millisecond

// State is the blade state changed by button presses.
type State struct {
	IsOn     bool      `json:"on"`
	Color    led.Color `json:"color"`
	LedCount int       `json:"led_count"`
}

// Options configures a Controller.
type Options struct {
	LedCount        int
	HoldTime        time.Duration // hold this long to retract
	ActivationDelay time.Duration // per animation step
	// OnChange is called after every state change, from the goroutine
	// that made it.
	OnChange func(State)
}

// Controller handles button presses and renders frames onto the strip.
type Controller struct {
	opts  Options
	strip strip.Strip
	input button.Input

	mu      sync.Mutex // strip and state
	state   State
	pixels  []led.Color
	pushErr bool

	busy     atomic.Bool
	snapshot atomic.Pointer[State]

	now   func() time.Time
	sleep func(time.Duration)
}

// NewController returns a controller with the blade off and the default
// color selected.
func NewController(s strip.Strip, in button.Input, opts Options) *Controller {
	c := &Controller{
		opts:   opts,
		strip:  s,
		input:  in,
		state:  State{Color: led.Default, LedCount: opts.LedCount},
		pixels: make([]led.Color, opts.LedCount),
		now:    time.Now,
		sleep:  time.Sleep,
	}
	st := c.state
	c.snapshot.Store(&st)
	return c
}

// State returns the latest blade state without blocking.
func (c *Controller) State() State {
	return *c.snapshot.Load()
}

// Run handles presses until ctx is done. Presses that arrive while one is
// being handled are dropped.
func (c *Controller) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-c.input.Events():
			c.HandlePress(ctx)
			c.drain()
		}
	}
}

func (c *Controller) drain() {
	for {
		select {
		case <-c.input.Events():
		default:
			return
		}
	}
}

// HandlePress runs the press logic: a hold of HoldTime retracts the blade;
// a short press ignites it, or cycles the color if it is already lit.
// A call made while another is in progress returns immediately.
func (c *Controller) HandlePress(ctx context.Context) {
	if !c.busy.CompareAndSwap(false, true) {
		return
	}
	defer c.busy.Store(false)

	start := c.now()
	for c.input.Pressed() {
		if c.now().Sub(start) >= c.opts.HoldTime {
			c.Retract(ctx)
			return
		}
		c.sleep(holdPoll)
	}

	if !c.State().IsOn {
		c.Ignite(ctx)
		return
	}
	c.CycleColor()
}

// Ignite lights the blade from the hilt to the tip. No-op if already lit.
func (c *Controller) Ignite(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.IsOn {
		return
	}

	px := c.fill(led.Off)
	for _, pair := range ignitionOrder(len(px)) {
		if ctx.Err() != nil {
			return
		}
		px[pair[0]] = c.state.Color
		px[pair[1]] = c.state.Color
		c.push(px)
		c.sleep(c.opts.ActivationDelay)
	}

	c.state.IsOn = true
	c.publish()
	log.Printf("saber: activated (%s)", led.Name(c.state.Color))
}

// Retract clears the blade from the tip back to the hilt. No-op if off.
func (c *Controller) Retract(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.state.IsOn {
		return
	}

	px := c.fill(c.state.Color)
	for _, pair := range retractionOrder(len(px)) {
		if ctx.Err() != nil {
			break
		}
		px[pair[0]] = led.Off
		px[pair[1]] = led.Off
		c.push(px)
		c.sleep(c.opts.ActivationDelay)
	}

	c.state.IsOn = false
	c.publish()
	log.Println("saber: deactivated")
}

// CycleColor switches to the next palette color and repaints a lit blade.
func (c *Controller) CycleColor() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.state.Color = led.Next(c.state.Color)
	if c.state.IsOn {
		c.push(c.fill(c.state.Color))
	}
	c.publish()
	log.Printf("saber: color changed to %s %v", led.Name(c.state.Color), c.state.Color)
}

// Render paints one polling cycle: white while a flash is active, the
// blade color otherwise. It reports whether a frame was pushed; nothing is
// pushed while the blade is off or an animation is running.
func (c *Controller) Render(fr impact.Frame) bool {
	if !c.mu.TryLock() {
		return false
	}
	defer c.mu.Unlock()
	if !c.state.IsOn {
		return false
	}

	color := c.state.Color
	if fr.FlashActive {
		color = led.White
	}
	c.push(c.fill(color))
	return true
}

// Blank turns every pixel off, waiting for any running animation.
func (c *Controller) Blank() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.strip.Push(c.fill(led.Off))
}

func (c *Controller) fill(color led.Color) []led.Color {
	for i := range c.pixels {
		c.pixels[i] = color
	}
	return c.pixels
}

// push sends a frame, logging only when the transport starts or stops
// failing.
func (c *Controller) push(px []led.Color) {
	err := c.strip.Push(px)
	switch {
	case err != nil && !c.pushErr:
		log.Printf("saber: pixel push failed (will keep retrying): %v", err)
		c.pushErr = true
	case err == nil && c.pushErr:
		log.Println("saber: pixel push recovered")
		c.pushErr = false
	}
}

func (c *Controller) publish() {
	st := c.state
	c.snapshot.Store(&st)
	if c.opts.OnChange != nil {
		c.opts.OnChange(st)
	}
}
