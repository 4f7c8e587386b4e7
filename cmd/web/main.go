// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// web serves the lightsaber dashboard from MQTT telemetry.
package main

import (
	"context"
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
	var configPath string

	cmd := &cobra.Command{
		Use:   "web",
		Short: "Lightsaber dashboard server",
		Long: `web subscribes to the lightsaber telemetry topics and serves a live
dashboard from ./web, with /api/state, /api/history and a /ws stream.`,
		Version: version,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.InitGlobal(configPath); err != nil {
				return err
			}
			ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()
			return app.RunWeb(ctx, config.Get())
		},
		SilenceUsage: true,
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "./lightsaber_config.txt", "path to configuration file")

	if err := fang.Execute(context.Background(), cmd); err != nil {
		os.Exit(1)
	}
}
