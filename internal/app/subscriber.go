// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"encoding/json"
	"fmt"
	"log"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/relabs-tech/lightsaber/internal/config"
)

// connectSubscriber connects a read-only client for one of the telemetry
// consumers.
func connectSubscriber(cfg *config.Config, clientID, component string) (mqtt.Client, error) {
	if cfg.MQTTBroker == "" {
		return nil, fmt.Errorf("%s: MQTT_BROKER is not set", component)
	}
	opts := mqtt.NewClientOptions().
		AddBroker(cfg.MQTTBroker).
		SetClientID(clientID).
		SetAutoReconnect(true)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("%s: MQTT connect %s: %w", component, cfg.MQTTBroker, token.Error())
	}
	log.Printf("%s: connected to MQTT broker at %s", component, cfg.MQTTBroker)
	return client, nil
}

// subscribeJSON subscribes to topic and calls handle with each decoded
// payload. Payloads that do not decode are logged and skipped.
func subscribeJSON[T any](client mqtt.Client, component, topic string, handle func(T)) error {
	token := client.Subscribe(topic, 0, func(_ mqtt.Client, msg mqtt.Message) {
		var v T
		if err := json.Unmarshal(msg.Payload(), &v); err != nil {
			log.Printf("%s: %s unmarshal error: %v", component, topic, err)
			return
		}
		handle(v)
	})
	token.Wait()
	if token.Error() != nil {
		return fmt.Errorf("%s: subscribe %s: %w", component, topic, token.Error())
	}
	log.Printf("%s: subscribed to %s", component, topic)
	return nil
}
