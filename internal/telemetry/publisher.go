// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package telemetry publishes pipeline output to MQTT for the console, web
// and display subscribers.
package telemetry

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/relabs-tech/lightsaber/internal/config"
	"github.com/relabs-tech/lightsaber/internal/saber"
)

const publishTimeout = 250 * time.Millisecond

// Publisher sends frames at a fixed rate, flash starts as they happen and
// blade state on change. Publishing is best-effort: failures are logged
// and never stall the polling loop for longer than publishTimeout.
type Publisher struct {
	client   mqtt.Client
	cfg      *config.Config
	interval time.Duration

	lastFrame time.Time
	wasFlash  bool
}

// Connect opens the broker connection described by cfg.
func Connect(cfg *config.Config) (*Publisher, error) {
	opts := mqtt.NewClientOptions().
		AddBroker(cfg.MQTTBroker).
		SetClientID(cfg.MQTTClientIDSaber).
		SetAutoReconnect(true)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("MQTT connect %s: %w", cfg.MQTTBroker, token.Error())
	}
	log.Printf("telemetry: connected to MQTT broker at %s", cfg.MQTTBroker)
	return newPublisher(client, cfg), nil
}

func newPublisher(client mqtt.Client, cfg *config.Config) *Publisher {
	return &Publisher{
		client:   client,
		cfg:      cfg,
		interval: time.Duration(cfg.TelemetryInterval) * time.Millisecond,
	}
}

// Frame publishes p if the telemetry interval has elapsed, and always
// publishes the first frame of a flash on the flash topic.
func (p *Publisher) Frame(t time.Time, payload FramePayload) {
	if payload.FlashActive && !p.wasFlash {
		p.publish(p.cfg.TopicFlash, false, payload)
	}
	p.wasFlash = payload.FlashActive

	if !p.lastFrame.IsZero() && t.Sub(p.lastFrame) < p.interval {
		return
	}
	p.lastFrame = t
	p.publish(p.cfg.TopicFrame, false, payload)
}

// State publishes the blade state as a retained message. Safe to call from
// the controller goroutine.
func (p *Publisher) State(st saber.State) {
	p.publish(p.cfg.TopicState, true, NewStatePayload(st, time.Now()))
}

// Close disconnects from the broker.
func (p *Publisher) Close() {
	p.client.Disconnect(250)
}

func (p *Publisher) publish(topic string, retained bool, v any) {
	payload, err := json.Marshal(v)
	if err != nil {
		log.Printf("telemetry: json marshal error (%s): %v", topic, err)
		return
	}
	token := p.client.Publish(topic, 0, retained, payload)
	if !token.WaitTimeout(publishTimeout) {
		log.Printf("telemetry: publish timeout (%s)", topic)
		return
	}
	if token.Error() != nil {
		log.Printf("telemetry: MQTT publish error (%s): %v", topic, token.Error())
	}
}
