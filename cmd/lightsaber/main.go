// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// lightsaber polls the motion sensor and drives the blade, hum and
// telemetry stream.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/relabs-tech/lightsaber/internal/app"
	"github.com/relabs-tech/lightsaber/internal/config"
)

var version = "dev"

func main() {
	var (
		configPath string
		mock       bool
	)

	cmd := &cobra.Command{
		Use:   "lightsaber",
		Short: "Motion-reactive lightsaber controller",
		Long: `lightsaber reads an MPU-6050 over I2C and drives an addressable LED
strip as a lightsaber blade: press the button to ignite, press again to
change color, hold to retract. Swings flash the blade white.

With --mock the sensor is simulated and the button is read from the
console (Enter to press, h+Enter to hold).`,
		Version: version,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.InitGlobal(configPath); err != nil {
				return err
			}
			cfg := config.Get()
			if mock {
				cfg.MockSensor = true
			}

			ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()
			return app.RunSaber(ctx, cfg)
		},
		SilenceUsage: true,
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "./lightsaber_config.txt", "path to configuration file")
	cmd.Flags().BoolVar(&mock, "mock", false, "simulate the sensor and read the button from the console")

	if err := fang.Execute(context.Background(), cmd); err != nil {
		log.Printf("fatal: %v", err)
		os.Exit(1)
	}
}
