// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package config

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
)

// Config holds all application configuration values.
type Config struct {
	// Motion sensor
	I2CBus         string // periph bus name, e.g. "2" or "/dev/i2c-2"
	MPUI2CAddr     uint16
	SampleInterval int  // milliseconds
	MockSensor     bool // synthetic bus instead of hardware

	// Button
	ButtonPin        string
	ButtonDebounceMS int
	ButtonHoldMS     int

	// LED strip
	LedCount          int
	ActivationDelayMS int
	StripTransport    string // "opc", "serial" or "spi"
	OPCServer         string
	OPCChannel        byte
	StripSerialPort   string
	StripSerialBaud   int
	StripSPIDevice    string

	// MQTT
	MQTTBroker          string // empty disables telemetry
	MQTTClientIDSaber   string
	MQTTClientIDConsole string
	MQTTClientIDWeb     string
	MQTTClientIDDisplay string

	// Topics
	TopicFrame string
	TopicState string
	TopicFlash string

	// Timing
	TelemetryInterval  int // milliseconds
	ConsoleLogInterval int // milliseconds

	// Web Server
	WebServerPort int
	HistorySize   int

	// Display
	DisplayI2CBus         string
	DisplayUpdateInterval int // milliseconds

	// Hum
	HumEnabled bool
	HumFreqHz  float64
}

var (
	globalConfig *Config
	configOnce   sync.Once
	configMu     sync.RWMutex
)

// Default returns the configuration used for keys absent from the file.
// Values match the prop's reference wiring (PocketBeagle, 60 LEDs, OPC
// server on localhost).
func Default() *Config {
	return &Config{
		I2CBus:         "2",
		MPUI2CAddr:     0x68,
		SampleInterval: 16,

		ButtonPin:        "P2_4",
		ButtonDebounceMS: 300,
		ButtonHoldMS:     1000,

		LedCount:          60,
		ActivationDelayMS: 10,
		StripTransport:    "opc",
		OPCServer:         "localhost:7890",
		StripSerialBaud:   115200,

		MQTTClientIDSaber:   "lightsaber-producer",
		MQTTClientIDConsole: "lightsaber-console",
		MQTTClientIDWeb:     "lightsaber-web",
		MQTTClientIDDisplay: "lightsaber-display",

		TopicFrame: "lightsaber/frame",
		TopicState: "lightsaber/state",
		TopicFlash: "lightsaber/flash",

		TelemetryInterval:  100,
		ConsoleLogInterval: 500,

		WebServerPort: 8080,
		HistorySize:   600,

		DisplayI2CBus:         "1",
		DisplayUpdateInterval: 200,

		HumFreqHz: 110,
	}
}

// Load reads the configuration file and returns a Config struct.
func Load(configPath string) (*Config, error) {
	file, err := os.Open(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	cfg := Default()
	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		// Parse KEY=VALUE
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid config line %d: %q", lineNum, line)
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		if err := cfg.setValue(key, value); err != nil {
			return nil, fmt.Errorf("config line %d: %w", lineNum, err)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// setValue sets a config value based on the key.
func (c *Config) setValue(key, value string) error {
	var err error
	switch key {
	// Motion sensor
	case "I2C_BUS":
		c.I2CBus = value
	case "MPU_I2C_ADDR":
		addr, perr := strconv.ParseUint(value, 0, 7)
		if perr != nil {
			return fmt.Errorf("invalid MPU_I2C_ADDR %q: %w", value, perr)
		}
		c.MPUI2CAddr = uint16(addr)
	case "SAMPLE_INTERVAL":
		c.SampleInterval, err = parseRange(key, value, 1, 1000)
	case "MOCK_SENSOR":
		c.MockSensor, err = parseBool(key, value)

	// Button
	case "BUTTON_PIN":
		c.ButtonPin = value
	case "BUTTON_DEBOUNCE_MS":
		c.ButtonDebounceMS, err = parseRange(key, value, 0, 5000)
	case "BUTTON_HOLD_MS":
		c.ButtonHoldMS, err = parseRange(key, value, 100, 10000)

	// LED strip
	case "LED_COUNT":
		c.LedCount, err = parseRange(key, value, 1, 21845) // OPC length field is 16 bits
	case "ACTIVATION_DELAY_MS":
		c.ActivationDelayMS, err = parseRange(key, value, 0, 1000)
	case "STRIP_TRANSPORT":
		switch value {
		case "opc", "serial", "spi":
			c.StripTransport = value
		default:
			return fmt.Errorf("STRIP_TRANSPORT must be opc, serial or spi, got %q", value)
		}
	case "OPC_SERVER":
		c.OPCServer = value
	case "OPC_CHANNEL":
		var ch int
		ch, err = parseRange(key, value, 0, 255)
		c.OPCChannel = byte(ch)
	case "STRIP_SERIAL_PORT":
		c.StripSerialPort = value
	case "STRIP_SERIAL_BAUD":
		c.StripSerialBaud, err = parseRange(key, value, 300, 4000000)
	case "STRIP_SPI_DEVICE":
		c.StripSPIDevice = value

	// MQTT
	case "MQTT_BROKER":
		c.MQTTBroker = value
	case "MQTT_CLIENT_ID_SABER":
		c.MQTTClientIDSaber = value
	case "MQTT_CLIENT_ID_CONSOLE":
		c.MQTTClientIDConsole = value
	case "MQTT_CLIENT_ID_WEB":
		c.MQTTClientIDWeb = value
	case "MQTT_CLIENT_ID_DISPLAY":
		c.MQTTClientIDDisplay = value

	// Topics
	case "TOPIC_FRAME":
		c.TopicFrame = value
	case "TOPIC_STATE":
		c.TopicState = value
	case "TOPIC_FLASH":
		c.TopicFlash = value

	// Timing
	case "TELEMETRY_INTERVAL":
		c.TelemetryInterval, err = parseRange(key, value, 1, 60000)
	case "CONSOLE_LOG_INTERVAL":
		c.ConsoleLogInterval, err = parseRange(key, value, 0, 60000)

	// Web Server
	case "WEB_SERVER_PORT":
		c.WebServerPort, err = parseRange(key, value, 1, 65535)
	case "HISTORY_SIZE":
		c.HistorySize, err = parseRange(key, value, 1, 100000)

	// Display
	case "DISPLAY_I2C_BUS":
		c.DisplayI2CBus = value
	case "DISPLAY_UPDATE_INTERVAL":
		c.DisplayUpdateInterval, err = parseRange(key, value, 10, 60000)

	// Hum
	case "HUM_ENABLED":
		c.HumEnabled, err = parseBool(key, value)
	case "HUM_FREQ_HZ":
		f, perr := strconv.ParseFloat(value, 64)
		if perr != nil {
			return fmt.Errorf("invalid HUM_FREQ_HZ %q: %w", value, perr)
		}
		if f < 20 || f > 2000 {
			return fmt.Errorf("HUM_FREQ_HZ must be 20-2000, got %g", f)
		}
		c.HumFreqHz = f

	default:
		return fmt.Errorf("unknown config key: %q", key)
	}

	return err
}

func parseRange(key, value string, lo, hi int) (int, error) {
	v, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	if v < lo || v > hi {
		return 0, fmt.Errorf("%s must be %d-%d, got %d", key, lo, hi, v)
	}
	return v, nil
}

func parseBool(key, value string) (bool, error) {
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return b, nil
}

// validate checks cross-field requirements.
func (c *Config) validate() error {
	if !c.MockSensor && c.I2CBus == "" {
		return fmt.Errorf("I2C_BUS is required unless MOCK_SENSOR is set")
	}
	switch c.StripTransport {
	case "opc":
		if c.OPCServer == "" {
			return fmt.Errorf("OPC_SERVER is required for the opc transport")
		}
	case "serial":
		if c.StripSerialPort == "" {
			return fmt.Errorf("STRIP_SERIAL_PORT is required for the serial transport")
		}
	case "spi":
		if c.StripSPIDevice == "" {
			return fmt.Errorf("STRIP_SPI_DEVICE is required for the spi transport")
		}
	}
	if c.MQTTBroker != "" && (c.TopicFrame == "" || c.TopicState == "" || c.TopicFlash == "") {
		return fmt.Errorf("TOPIC_FRAME, TOPIC_STATE and TOPIC_FLASH are required with MQTT_BROKER")
	}
	return nil
}

// InitGlobal initializes the global configuration from file.
// Only the first call loads; later calls return the first result.
func InitGlobal(configPath string) error {
	var err error
	configOnce.Do(func() {
		configMu.Lock()
		defer configMu.Unlock()
		globalConfig, err = Load(configPath)
	})
	return err
}

// Get returns the global configuration instance.
// InitGlobal must be called first, or this will return nil.
func Get() *Config {
	configMu.RLock()
	defer configMu.RUnlock()
	return globalConfig
}
