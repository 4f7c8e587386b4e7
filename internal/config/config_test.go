package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "lightsaber_config.txt")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "# only comments\n\n"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.MPUI2CAddr != 0x68 {
		t.Errorf("MPUI2CAddr = 0x%X, want 0x68", cfg.MPUI2CAddr)
	}
	if cfg.LedCount != 60 {
		t.Errorf("LedCount = %d, want 60", cfg.LedCount)
	}
	if cfg.StripTransport != "opc" || cfg.OPCServer != "localhost:7890" {
		t.Errorf("strip = %s %s, want opc localhost:7890", cfg.StripTransport, cfg.OPCServer)
	}
	if cfg.ButtonDebounceMS != 300 || cfg.ButtonHoldMS != 1000 {
		t.Errorf("button timing = %d/%d, want 300/1000", cfg.ButtonDebounceMS, cfg.ButtonHoldMS)
	}
}

func TestLoadOverrides(t *testing.T) {
	body := `
I2C_BUS = /dev/i2c-1
MPU_I2C_ADDR=0x69
SAMPLE_INTERVAL=33
LED_COUNT=30
STRIP_TRANSPORT=serial
STRIP_SERIAL_PORT=/dev/ttyUSB0
MQTT_BROKER=tcp://localhost:1883
HUM_ENABLED=true
HUM_FREQ_HZ=90.5
`
	cfg, err := Load(writeConfig(t, body))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.I2CBus != "/dev/i2c-1" {
		t.Errorf("I2CBus = %q", cfg.I2CBus)
	}
	if cfg.MPUI2CAddr != 0x69 {
		t.Errorf("MPUI2CAddr = 0x%X, want 0x69", cfg.MPUI2CAddr)
	}
	if cfg.SampleInterval != 33 || cfg.LedCount != 30 {
		t.Errorf("SampleInterval/LedCount = %d/%d", cfg.SampleInterval, cfg.LedCount)
	}
	if cfg.StripTransport != "serial" || cfg.StripSerialPort != "/dev/ttyUSB0" {
		t.Errorf("strip = %s %s", cfg.StripTransport, cfg.StripSerialPort)
	}
	if !cfg.HumEnabled || cfg.HumFreqHz != 90.5 {
		t.Errorf("hum = %v %g", cfg.HumEnabled, cfg.HumFreqHz)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"missing equals", "LED_COUNT 60\n", "invalid config line 1"},
		{"unknown key", "NOPE=1\n", "unknown config key"},
		{"bad int", "LED_COUNT=many\n", "invalid LED_COUNT"},
		{"out of range", "SAMPLE_INTERVAL=0\n", "SAMPLE_INTERVAL must be 1-1000"},
		{"bad transport", "STRIP_TRANSPORT=usb\n", "STRIP_TRANSPORT must be"},
		{"serial without port", "STRIP_TRANSPORT=serial\n", "STRIP_SERIAL_PORT is required"},
		{"spi without device", "STRIP_TRANSPORT=spi\n", "STRIP_SPI_DEVICE is required"},
		{"bad bool", "MOCK_SENSOR=maybe\n", "invalid MOCK_SENSOR"},
		{"bad address", "MPU_I2C_ADDR=0x1FF\n", "invalid MPU_I2C_ADDR"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			if err == nil {
				t.Fatalf("Load succeeded, want error containing %q", tt.want)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %q, want it to contain %q", err, tt.want)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.txt")); err == nil {
		t.Fatal("Load of a missing file succeeded")
	}
}

func TestShippedConfigLoads(t *testing.T) {
	cfg, err := Load(filepath.Join("..", "..", "lightsaber_config.txt"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.MQTTBroker != "tcp://localhost:1883" || cfg.TopicFlash != "lightsaber/flash" {
		t.Errorf("MQTT = %q %q", cfg.MQTTBroker, cfg.TopicFlash)
	}
	if cfg.HumEnabled {
		t.Error("hum enabled in the shipped config")
	}
}
