// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// imu_diag checks the MPU-6050 wiring without the rest of the saber.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

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

	load := func() (*config.Config, error) {
		if err := config.InitGlobal(configPath); err != nil {
			return nil, err
		}
		cfg := config.Get()
		if mock {
			cfg.MockSensor = true
		}
		return cfg, nil
	}

	root := &cobra.Command{
		Use:          "imu_diag",
		Short:        "MPU-6050 diagnostics",
		Version:      version,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "./lightsaber_config.txt", "path to configuration file")
	root.PersistentFlags().BoolVar(&mock, "mock", false, "use the simulated sensor")

	probe := &cobra.Command{
		Use:   "probe",
		Short: "Wake the sensor and report whether it answers",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			return app.RunProbe(cfg, cmd.OutOrStdout())
		},
	}

	var (
		interval time.Duration
		count    int
	)
	stream := &cobra.Command{
		Use:   "stream",
		Short: "Print scaled readings, motion metrics and flash state",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()
			return app.RunStream(ctx, cfg, cmd.OutOrStdout(), interval, count)
		},
	}
	stream.Flags().DurationVarP(&interval, "interval", "i", 500*time.Millisecond, "time between samples")
	stream.Flags().IntVarP(&count, "count", "n", 0, "stop after this many samples (0 runs until interrupted)")

	var asJSON bool
	regs := &cobra.Command{
		Use:   "regs",
		Short: "Dump the MPU-6050 registers with their names",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			return app.RunRegisterDump(cfg, cmd.OutOrStdout(), asJSON)
		},
	}
	regs.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")

	root.AddCommand(probe, stream, regs)

	if err := fang.Execute(context.Background(), root); err != nil {
		os.Exit(1)
	}
}
