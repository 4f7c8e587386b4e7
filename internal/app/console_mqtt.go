// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"context"
	"fmt"
	"io"
	"log"
	"sync"

	"github.com/relabs-tech/lightsaber/internal/config"
	"github.com/relabs-tech/lightsaber/internal/telemetry"
)

// RunConsoleMQTT prints the lightsaber telemetry stream until ctx is done.
func RunConsoleMQTT(ctx context.Context, cfg *config.Config, w io.Writer) error {
	client, err := connectSubscriber(cfg, cfg.MQTTClientIDConsole, "console")
	if err != nil {
		return err
	}
	defer client.Disconnect(250)

	// Handlers run on paho's goroutines; keep lines whole.
	var mu sync.Mutex
	emit := func(line string) {
		mu.Lock()
		fmt.Fprintln(w, line)
		mu.Unlock()
	}

	if err := subscribeJSON(client, "console", cfg.TopicFrame, func(p telemetry.FramePayload) {
		emit(formatFrame(p))
	}); err != nil {
		return err
	}
	if err := subscribeJSON(client, "console", cfg.TopicFlash, func(p telemetry.FramePayload) {
		emit(formatFlash(p))
	}); err != nil {
		return err
	}
	if err := subscribeJSON(client, "console", cfg.TopicState, func(p telemetry.StatePayload) {
		emit(formatState(p))
	}); err != nil {
		return err
	}

	<-ctx.Done()
	log.Println("console: shutting down")
	return nil
}

func formatFrame(p telemetry.FramePayload) string {
	return fmt.Sprintf("[FRAME] #%-6d a=(%5.2f %5.2f %5.2f)g  g=(%7.2f %7.2f %7.2f)dps  total=%5.2f gyro=%7.2f  diff=%5.2f  vol=%3.0f  flash=%t",
		p.Seq,
		p.Scaled.Ax, p.Scaled.Ay, p.Scaled.Az,
		p.Scaled.Gx, p.Scaled.Gy, p.Scaled.Gz,
		p.TotalAccel, p.TotalGyro,
		p.Difference, p.Intensity, p.FlashActive,
	)
}

func formatFlash(p telemetry.FramePayload) string {
	return fmt.Sprintf("[FLASH] #%-6d contact diff=%.2f at %s", p.Seq, p.Difference, p.Time)
}

func formatState(p telemetry.StatePayload) string {
	blade := "OFF"
	if p.On {
		blade = "ON"
	}
	return fmt.Sprintf("[STATE] blade %s  color=%s (%d,%d,%d)  leds=%d",
		blade, p.ColorName, p.Color[0], p.Color[1], p.Color[2], p.LedCount)
}
