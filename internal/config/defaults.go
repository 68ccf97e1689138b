package config

import "time"

// Central place for all application-wide timing constants and other
// defaults. Changing a value here immediately affects all components that
// import github.com/jmelgaard/miev-hass/internal/config.

const (
	// Core cadence. The decoder contract expects exactly these two ticks.
	CoreTickInterval = 1 * time.Second
	TempTickInterval = 10 * time.Second

	// Transmission / recording intervals
	MQTTTransmitInterval  = 60 * time.Second // publish state to MQTT
	DefaultRecordInterval = 30 * time.Second // insert snapshot into InfluxDB

	// Operation time-outs (to avoid blocking goroutines)
	MQTTTimeout   = 5 * time.Second // MQTT publish
	NotifyTimeout = 8 * time.Second // Pushover HTTP call, including retries

	// Identical alerts inside this window are delivered once.
	NotifyDebounce = 1 * time.Minute

	// SLCAN adapters enumerate as USB serial at this rate.
	DefaultCANBaud = 115200
)
