// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"context"
	"fmt"
	"image"
	"log"
	"strings"
	"sync"
	"time"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/devices/v3/ssd1306"
	"periph.io/x/devices/v3/ssd1306/image1bit"
	"periph.io/x/host/v3"

	"github.com/relabs-tech/lightsaber/internal/config"
	"github.com/relabs-tech/lightsaber/internal/telemetry"
)

const (
	panelW = 128
	panelH = 64

	// A flash stays on the panel at least this long so a six-frame flash
	// is visible at the panel refresh rate.
	flashBanner = 500 * time.Millisecond

	barTop    = 32
	barBottom = 42
)

// panel is the part of ssd1306.Dev the status screen draws through.
type panel interface {
	Bounds() image.Rectangle
	Draw(r image.Rectangle, src image.Image, sp image.Point) error
}

// panelData holds the latest telemetry for the status panel.
type panelData struct {
	mu sync.RWMutex

	state     telemetry.StatePayload
	haveState bool

	intensity float64
	haveFrame bool
	lastFlash time.Time
}

type panelSnapshot struct {
	state     telemetry.StatePayload
	haveState bool
	intensity float64
	haveFrame bool
	flashing  bool
}

func (d *panelData) onState(p telemetry.StatePayload) {
	d.mu.Lock()
	d.state = p
	d.haveState = true
	d.mu.Unlock()
}

func (d *panelData) onFrame(p telemetry.FramePayload) {
	d.mu.Lock()
	d.intensity = p.Intensity
	d.haveFrame = true
	if p.FlashActive {
		d.lastFlash = time.Now()
	}
	d.mu.Unlock()
}

func (d *panelData) onFlash(telemetry.FramePayload) {
	d.mu.Lock()
	d.lastFlash = time.Now()
	d.mu.Unlock()
}

func (d *panelData) snapshot(now time.Time) panelSnapshot {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return panelSnapshot{
		state:     d.state,
		haveState: d.haveState,
		intensity: d.intensity,
		haveFrame: d.haveFrame,
		flashing:  !d.lastFlash.IsZero() && now.Sub(d.lastFlash) < flashBanner,
	}
}

// RunDisplay shows the saber status on an SSD1306 OLED until ctx is done.
func RunDisplay(ctx context.Context, cfg *config.Config) error {
	if _, err := host.Init(); err != nil {
		return fmt.Errorf("failed to initialize periph: %w", err)
	}

	bus, err := i2creg.Open(cfg.DisplayI2CBus)
	if err != nil {
		return fmt.Errorf("failed to open I2C bus %q: %w", cfg.DisplayI2CBus, err)
	}
	defer bus.Close()

	dev, err := ssd1306.NewI2C(bus, &ssd1306.DefaultOpts)
	if err != nil {
		return fmt.Errorf("failed to initialize display: %w", err)
	}
	defer dev.Halt()
	log.Printf("display: initialized on I2C bus %s", cfg.DisplayI2CBus)

	if err := showSplash(dev); err != nil {
		log.Printf("display: error showing splash: %v", err)
	}

	data := &panelData{}
	client, err := connectSubscriber(cfg, cfg.MQTTClientIDDisplay, "display")
	if err != nil {
		return err
	}
	defer client.Disconnect(250)

	if err := subscribeJSON(client, "display", cfg.TopicState, data.onState); err != nil {
		return err
	}
	if err := subscribeJSON(client, "display", cfg.TopicFrame, data.onFrame); err != nil {
		return err
	}
	if err := subscribeJSON(client, "display", cfg.TopicFlash, data.onFlash); err != nil {
		return err
	}

	ticker := time.NewTicker(time.Duration(cfg.DisplayUpdateInterval) * time.Millisecond)
	defer ticker.Stop()

	log.Println("display: starting update loop")
	for {
		select {
		case <-ctx.Done():
			log.Println("display: shutting down")
			return nil
		case t := <-ticker.C:
			if err := updatePanel(dev, data.snapshot(t)); err != nil {
				log.Printf("display: error updating panel: %v", err)
			}
		}
	}
}

func newPanelImage() (*image1bit.VerticalLSB, *font.Drawer) {
	img := image1bit.NewVerticalLSB(image.Rect(0, 0, panelW, panelH))
	drawer := &font.Drawer{
		Dst:  img,
		Src:  &image.Uniform{image1bit.On},
		Face: basicfont.Face7x13,
	}
	return img, drawer
}

func drawLine(d *font.Drawer, x, y int, s string) {
	d.Dot = fixed.P(x, y)
	d.DrawString(s)
}

// renderPanel draws the status screen: blade state, color, a volume bar
// and a FLASH banner.
func renderPanel(s panelSnapshot) *image1bit.VerticalLSB {
	img, d := newPanelImage()

	if !s.haveState {
		drawLine(d, 0, 26, "Lightsaber")
		drawLine(d, 0, 39, "Waiting...")
		return img
	}

	blade := "OFF"
	if s.state.On {
		blade = "ON"
	}
	drawLine(d, 0, 13, "Blade "+blade)
	drawLine(d, 0, 26, strings.ToUpper(s.state.ColorName))

	volume := 0.0
	if s.state.On && s.haveFrame {
		volume = s.intensity
	}
	drawBar(img, volume)

	if s.flashing && s.state.On {
		drawLine(d, 40, 58, "FLASH!")
	}
	return img
}

// drawBar draws an outlined bar filled in proportion to v (0..100).
func drawBar(img *image1bit.VerticalLSB, v float64) {
	if v < 0 {
		v = 0
	}
	if v > 100 {
		v = 100
	}
	right := panelW - 1
	fill := int(v / 100 * float64(right-1))
	for x := 0; x <= right; x++ {
		img.SetBit(x, barTop, image1bit.On)
		img.SetBit(x, barBottom, image1bit.On)
	}
	for y := barTop; y <= barBottom; y++ {
		img.SetBit(0, y, image1bit.On)
		img.SetBit(right, y, image1bit.On)
		for x := 1; x <= fill; x++ {
			img.SetBit(x, y, image1bit.On)
		}
	}
}

func updatePanel(dev panel, s panelSnapshot) error {
	img := renderPanel(s)
	return dev.Draw(dev.Bounds(), img, image.Point{})
}

func showSplash(dev panel) error {
	img, d := newPanelImage()
	drawLine(d, 22, 26, "Lightsaber")
	drawLine(d, 8, 43, "press to ignite")
	return dev.Draw(dev.Bounds(), img, image.Point{})
}
