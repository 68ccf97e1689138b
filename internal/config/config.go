package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/jmelgaard/miev-hass/internal/units"
)

// Config holds all configuration options for the miev-hass daemon.
type Config struct {
	// CAN adapter
	CANPort     string `json:"can_port"`     // SLCAN serial device (e.g. /dev/ttyUSB0)
	CANBaud     int    `json:"can_baud"`     // serial baud rate of the adapter
	CANTransmit bool   `json:"can_transmit"` // permit bus transmission (default listen-only)

	// MQTT
	MQTTUrl         string        `json:"mqtt_url"`         // MQTT URL (supports both WebSocket and standard MQTT)
	DiscoveryPrefix string        `json:"discovery_prefix"` // Home Assistant discovery prefix
	MQTTInterval    time.Duration `json:"mqtt_interval"`    // minimum time between state publications

	// Pushover notifications
	PushoverToken string `json:"pushover_token"`
	PushoverUser  string `json:"pushover_user"`

	// InfluxDB recording
	InfluxAddr     string        `json:"influx_addr"`
	InfluxUser     string        `json:"influx_user"`
	InfluxPassword string        `json:"influx_password"`
	InfluxDatabase string        `json:"influx_database"`
	RecordInterval time.Duration `json:"record_interval"`

	// Device and application
	DeviceID string `json:"device_id"` // unique device identifier
	Units    string `json:"units"`     // "km" or "mi"
	Verbose  bool   `json:"verbose"`   // enable verbose logging
}

// GetDefaultConfig returns a configuration with sensible defaults.
func GetDefaultConfig() *Config {
	return &Config{
		CANPort:         "/dev/ttyUSB0",
		CANBaud:         DefaultCANBaud,
		DiscoveryPrefix: "homeassistant",
		MQTTInterval:    MQTTTransmitInterval,
		RecordInterval:  DefaultRecordInterval,
		DeviceID:        "miev",
		Units:           "km",
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.DeviceID == "" {
		return fmt.Errorf("device ID is required")
	}
	if c.CANPort == "" {
		return fmt.Errorf("CAN serial port is required")
	}
	if c.CANBaud <= 0 {
		c.CANBaud = DefaultCANBaud
	}

	if _, err := units.Parse(c.Units); err != nil {
		return err
	}

	// MQTT validation - support both WebSocket and standard MQTT protocols
	if c.MQTTUrl != "" {
		if !strings.HasPrefix(c.MQTTUrl, "ws://") &&
			!strings.HasPrefix(c.MQTTUrl, "wss://") &&
			!strings.HasPrefix(c.MQTTUrl, "mqtt://") &&
			!strings.HasPrefix(c.MQTTUrl, "mqtts://") {
			return fmt.Errorf("MQTT URL must use supported protocol (ws://, wss://, mqtt://, or mqtts://)")
		}
	}

	if c.PushoverToken != "" && c.PushoverUser == "" {
		return fmt.Errorf("pushover user key is required when a token is provided")
	}
	if c.PushoverUser != "" && c.PushoverToken == "" {
		return fmt.Errorf("pushover token is required when a user key is provided")
	}

	if c.InfluxAddr != "" && c.InfluxDatabase == "" {
		return fmt.Errorf("influx database is required when an address is provided")
	}

	if c.MQTTInterval <= 0 {
		c.MQTTInterval = MQTTTransmitInterval
	}
	if c.RecordInterval <= 0 {
		c.RecordInterval = DefaultRecordInterval
	}

	return nil
}

// UnitSystem returns the parsed unit system. Call Validate first.
func (c *Config) UnitSystem() units.System {
	s, _ := units.Parse(c.Units)
	return s
}

// HasMQTT returns true if MQTT is configured.
func (c *Config) HasMQTT() bool {
	return c.MQTTUrl != ""
}

// HasPushover returns true if Pushover delivery is configured.
func (c *Config) HasPushover() bool {
	return c.PushoverToken != "" && c.PushoverUser != ""
}

// HasInflux returns true if InfluxDB recording is configured.
func (c *Config) HasInflux() bool {
	return c.InfluxAddr != "" && c.InfluxDatabase != ""
}
