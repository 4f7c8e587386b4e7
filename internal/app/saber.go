// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/relabs-tech/lightsaber/internal/audio"
	"github.com/relabs-tech/lightsaber/internal/button"
	"github.com/relabs-tech/lightsaber/internal/config"
	"github.com/relabs-tech/lightsaber/internal/saber"
	"github.com/relabs-tech/lightsaber/internal/sensors"
	"github.com/relabs-tech/lightsaber/internal/strip"
	"github.com/relabs-tech/lightsaber/internal/telemetry"
)

// readErrorEvery limits how often a persistent bus failure is logged.
const readErrorEvery = 100

// openBus returns the register bus for the motion sensor and a function
// releasing it.
func openBus(cfg *config.Config) (sensors.RegisterBus, func(), error) {
	if cfg.MockSensor {
		log.Println("using mock motion sensor")
		return sensors.NewMockBus(), func() {}, nil
	}
	bus, err := sensors.OpenI2C(cfg.I2CBus)
	if err != nil {
		return nil, nil, err
	}
	return bus, func() {
		if err := bus.Close(); err != nil {
			log.Printf("error closing I2C bus: %v", err)
		}
	}, nil
}

// openButton returns the GPIO button, or a console-driven one in mock mode.
func openButton(cfg *config.Config) (button.Input, error) {
	if cfg.MockSensor {
		btn := button.NewManual()
		go func() {
			if err := RunMockConsole(os.Stdin, btn, time.Duration(cfg.ButtonHoldMS)*time.Millisecond); err != nil {
				log.Printf("mock: console read error: %v", err)
			}
		}()
		return btn, nil
	}
	return button.OpenGPIO(cfg.ButtonPin, time.Duration(cfg.ButtonDebounceMS)*time.Millisecond)
}

// RunSaber runs the lightsaber until ctx is cancelled: one sensor sample
// per SAMPLE_INTERVAL drives the blade, the hum and the telemetry stream.
func RunSaber(ctx context.Context, cfg *config.Config) error {
	log.Println("starting lightsaber")

	bus, closeBus, err := openBus(cfg)
	if err != nil {
		return fmt.Errorf("open sensor bus: %w", err)
	}
	defer closeBus()

	dev := sensors.NewMPU6050(bus, cfg.MPUI2CAddr)
	if err := dev.Init(); err != nil {
		return fmt.Errorf("failed to initialize motion sensor: %w", err)
	}
	log.Printf("MPU6050 awake at 0x%02X on bus %s", cfg.MPUI2CAddr, cfg.I2CBus)

	px, err := strip.Open(cfg)
	if err != nil {
		return fmt.Errorf("open LED strip: %w", err)
	}
	defer px.Close()

	input, err := openButton(cfg)
	if err != nil {
		return fmt.Errorf("open button: %w", err)
	}
	defer func() {
		if err := input.Close(); err != nil {
			log.Printf("error releasing button: %v", err)
		}
	}()

	// Telemetry and hum are optional; the blade works without them.
	var pub *telemetry.Publisher
	if cfg.MQTTBroker != "" {
		if pub, err = telemetry.Connect(cfg); err != nil {
			log.Printf("telemetry disabled: %v", err)
			pub = nil
		} else {
			defer pub.Close()
		}
	}

	var hum *audio.Hum
	if cfg.HumEnabled {
		if hum, err = audio.StartHum(cfg.HumFreqHz); err != nil {
			log.Printf("hum disabled: %v", err)
			hum = nil
		} else {
			defer hum.Close()
		}
	}

	ctrl := saber.NewController(px, input, saber.Options{
		LedCount:        cfg.LedCount,
		HoldTime:        time.Duration(cfg.ButtonHoldMS) * time.Millisecond,
		ActivationDelay: time.Duration(cfg.ActivationDelayMS) * time.Millisecond,
		OnChange: func(st saber.State) {
			if pub != nil {
				pub.State(st)
			}
		},
	})
	if pub != nil {
		pub.State(ctrl.State())
	}

	ctrlDone := make(chan struct{})
	go func() {
		defer close(ctrlDone)
		ctrl.Run(ctx)
	}()

	loop := &saberLoop{
		pipeline: NewPipeline(dev),
		ctrl:     ctrl,
		hum:      hum,
		pub:      pub,
		logEvery: time.Duration(cfg.ConsoleLogInterval) * time.Millisecond,
		out:      os.Stdout,
	}

	log.Printf("polling every %d ms", cfg.SampleInterval)
	ticker := time.NewTicker(time.Duration(cfg.SampleInterval) * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("shutting down lightsaber")
			<-ctrlDone
			if err := ctrl.Blank(); err != nil {
				log.Printf("error blanking strip: %v", err)
			}
			return nil
		case t := <-ticker.C:
			loop.tick(t)
		}
	}
}

// saberLoop is the per-cycle work of RunSaber.
type saberLoop struct {
	pipeline *Pipeline
	ctrl     *saber.Controller
	hum      *audio.Hum
	pub      *telemetry.Publisher

	logEvery time.Duration
	out      io.Writer

	seq       uint64
	failures  int
	lastPrint time.Time
}

func (l *saberLoop) tick(t time.Time) {
	s, err := l.pipeline.Step()
	if err != nil {
		l.failures++
		if l.failures == 1 || l.failures%readErrorEvery == 0 {
			log.Printf("error reading MPU6050 (%d consecutive): %v", l.failures, err)
		}
		return
	}
	if l.failures > 0 {
		log.Printf("MPU6050 reads recovered after %d failures", l.failures)
		l.failures = 0
	}
	l.seq++

	l.ctrl.Render(s.Frame)

	on := l.ctrl.State().IsOn
	if l.hum != nil {
		if on {
			l.hum.SetIntensity(s.Frame.Intensity)
		} else {
			l.hum.SetIntensity(0)
		}
	}

	if l.pub != nil {
		l.pub.Frame(t, telemetry.NewFramePayload(l.seq, t, s.Scaled, s.Metrics, s.Frame))
	}

	if l.logEvery > 0 && t.Sub(l.lastPrint) >= l.logEvery {
		l.lastPrint = t
		fmt.Fprintln(l.out, consoleLine(t, s, on))
	}
}

// consoleLine is the periodic human-readable summary of one cycle.
func consoleLine(t time.Time, s Sample, on bool) string {
	blade := "off"
	if on {
		blade = "on"
	}
	return fmt.Sprintf("%s | accel x=%.2f y=%.2f z=%.2f g | gyro x=%.2f y=%.2f z=%.2f dps | total accel=%.2f gyro=%.2f | diff=%.2f | volume=%.0f | contact=%t flash=%t | blade %s",
		t.Format("15:04:05.000"),
		s.Scaled.Ax, s.Scaled.Ay, s.Scaled.Az,
		s.Scaled.Gx, s.Scaled.Gy, s.Scaled.Gz,
		s.Metrics.TotalAccel, s.Metrics.TotalGyro,
		s.Frame.Difference,
		s.Frame.Intensity,
		s.Frame.Contact, s.Frame.FlashActive,
		blade,
	)
}
