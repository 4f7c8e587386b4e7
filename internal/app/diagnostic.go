// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"github.com/relabs-tech/lightsaber/internal/config"
	"github.com/relabs-tech/lightsaber/internal/sensors"
)

// openDiagSensor opens the configured bus and returns a driver on it.
func openDiagSensor(cfg *config.Config) (*sensors.MPU6050, func(), error) {
	bus, closeBus, err := openBus(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("open sensor bus: %w", err)
	}
	return sensors.NewMPU6050(bus, cfg.MPUI2CAddr), closeBus, nil
}

// RunProbe wakes the sensor and reports whether it answered.
func RunProbe(cfg *config.Config, w io.Writer) error {
	dev, closeBus, err := openDiagSensor(cfg)
	if err != nil {
		return err
	}
	defer closeBus()
	return probe(dev, cfg.MPUI2CAddr, w)
}

func probe(dev *sensors.MPU6050, addr uint16, w io.Writer) error {
	id, err := dev.Probe()
	if err != nil {
		return fmt.Errorf("probe 0x%02X: %w", addr, err)
	}
	fmt.Fprintf(w, "MPU6050 at 0x%02X is awake (WHO_AM_I=0x%02X)\n", addr, id)
	if id != sensors.MPU6050Addr {
		fmt.Fprintf(w, "warning: unexpected WHO_AM_I, want 0x%02X\n", sensors.MPU6050Addr)
	}
	return nil
}

// RunStream prints scaled readings, metrics and the filter output every
// interval until ctx is done or count samples were printed (count 0 means
// no limit). Read errors are reported and the stream continues.
func RunStream(ctx context.Context, cfg *config.Config, w io.Writer, interval time.Duration, count int) error {
	dev, closeBus, err := openDiagSensor(cfg)
	if err != nil {
		return err
	}
	defer closeBus()
	if err := dev.Init(); err != nil {
		return fmt.Errorf("failed to initialize motion sensor: %w", err)
	}
	return stream(ctx, NewPipeline(dev), w, interval, count)
}

func stream(ctx context.Context, p *Pipeline, w io.Writer, interval time.Duration, count int) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	printed := 0
	for {
		select {
		case <-ctx.Done():
			return nil
		case t := <-ticker.C:
			s, err := p.Step()
			if err != nil {
				log.Printf("error reading MPU6050: %v", err)
				continue
			}
			fmt.Fprintln(w, consoleLine(t, s, false))
			printed++
			if count > 0 && printed >= count {
				return nil
			}
		}
	}
}

// RunRegisterDump prints every readable MPU-6050 register with its name,
// as a table or as JSON.
func RunRegisterDump(cfg *config.Config, w io.Writer, asJSON bool) error {
	dev, closeBus, err := openDiagSensor(cfg)
	if err != nil {
		return err
	}
	defer closeBus()
	return dumpRegisters(dev, w, asJSON)
}

func dumpRegisters(dev *sensors.MPU6050, w io.Writer, asJSON bool) error {
	values, err := dev.ReadRegisters(sensors.MPU6050RegisterMap())
	if err != nil {
		return err
	}

	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(values)
	}

	for _, v := range values {
		marker := ""
		if v.Value != v.Default {
			marker = " *"
		}
		fmt.Fprintf(w, "0x%02X %-14s 0x%02X  %-3s %s%s\n", v.Address, v.Name, v.Value, v.Access, v.Description, marker)
		for _, f := range v.BitFields {
			fmt.Fprintf(w, "       [%s] %s: %s", f.Bits, f.Name, f.Description)
			if f.Values != "" {
				fmt.Fprintf(w, " (%s)", strings.TrimSpace(f.Values))
			}
			fmt.Fprintln(w)
		}
	}
	fmt.Fprintln(w, "* differs from reset default")
	return nil
}
