package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/jmelgaard/miev-hass/internal/app"
	"github.com/jmelgaard/miev-hass/internal/can"
	"github.com/jmelgaard/miev-hass/internal/config"
	"github.com/jmelgaard/miev-hass/internal/mqtt"
	"github.com/jmelgaard/miev-hass/internal/notify"
	"github.com/jmelgaard/miev-hass/internal/recorder"
	"github.com/jmelgaard/miev-hass/internal/transmission"
	"github.com/jmelgaard/miev-hass/internal/vehicle"
)

// version is injected at build time via ldflags
var version = "dev"

func main() {
	cfg := parseFlags()
	logger := setupLogger(cfg.Verbose)

	if err := cfg.Validate(); err != nil {
		logger.WithError(err).Fatal("Invalid configuration")
	}

	logger.WithFields(logrus.Fields{
		"version":   version,
		"device_id": cfg.DeviceID,
		"can_port":  cfg.CANPort,
		"units":     cfg.Units,
		"mqtt_int":  cfg.MQTTInterval,
	}).Info("Starting miev-hass")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sig
		logger.Info("Shutdown signal received")
		cancel()
	}()

	// CAN adapter ----------------------------------------------------------------
	source, err := can.Open(cfg.CANPort, cfg.CANBaud, cfg.CANTransmit, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to open CAN adapter")
	}

	// Notifications --------------------------------------------------------------
	var sender notify.Sender
	if cfg.HasPushover() {
		sender = notify.NewPushoverSender(cfg.PushoverToken, cfg.PushoverUser)
		logger.Info("Pushover delivery ready")
	}
	dispatcher := notify.NewDispatcher(sender, logger)

	// Decoding core --------------------------------------------------------------
	monitor := vehicle.New(cfg.UnitSystem(), dispatcher, logger)

	// Transmitter and recorder ---------------------------------------------------
	var mqttTx *transmission.MQTTTransmitter
	if cfg.HasMQTT() {
		mqttClient, err := mqtt.NewClient(cfg.MQTTUrl, cfg.DeviceID, logger)
		if err != nil {
			logger.WithError(err).Fatal("Failed to create MQTT client")
		}
		defer mqttClient.Disconnect(250)
		mqttTx = transmission.NewMQTTTransmitter(mqttClient, cfg.DeviceID, cfg.DiscoveryPrefix, cfg.UnitSystem(), logger)
		logger.Info("MQTT transmitter ready")
	}

	var rec *recorder.InfluxRecorder
	if cfg.HasInflux() {
		rec, err = recorder.Open(cfg.InfluxAddr, cfg.InfluxUser, cfg.InfluxPassword,
			cfg.InfluxDatabase, cfg.DeviceID, logger)
		if err != nil {
			logger.WithError(err).Fatal("Failed to open InfluxDB recorder")
		}
		defer rec.Close()
		logger.Info("InfluxDB recorder ready")
	}

	if mqttTx == nil && rec == nil {
		logger.Warn("No transmitters configured; data will only be logged")
	}

	// Run application ------------------------------------------------------------
	app.Run(ctx, cfg, source, monitor, dispatcher, mqttTx, rec, logger)
	logger.Info("miev-hass stopped")
}

// -----------------------------------------------------------------------------
// Helpers & Flags
// -----------------------------------------------------------------------------

func parseFlags() *config.Config {
	cfg := config.GetDefaultConfig()

	showVersion := flag.Bool("version", false, "Show version and exit")

	flag.StringVar(&cfg.CANPort, "can-port", getEnv("MIEV_HASS_CAN_PORT", cfg.CANPort), "SLCAN serial device")
	flag.IntVar(&cfg.CANBaud, "can-baud", getEnvInt("MIEV_HASS_CAN_BAUD", cfg.CANBaud), "Serial baud rate")
	flag.BoolVar(&cfg.CANTransmit, "can-transmit", getEnv("MIEV_HASS_CAN_TRANSMIT", "false") == "true", "Permit bus transmission (default listen-only)")
	flag.StringVar(&cfg.MQTTUrl, "mqtt-url", getEnv("MIEV_HASS_MQTT_URL", cfg.MQTTUrl), "MQTT URL")
	flag.StringVar(&cfg.DiscoveryPrefix, "discovery-prefix", getEnv("MIEV_HASS_DISCOVERY_PREFIX", cfg.DiscoveryPrefix), "HA discovery prefix")
	flag.StringVar(&cfg.DeviceID, "device-id", getEnv("MIEV_HASS_DEVICE_ID", cfg.DeviceID), "Device identifier")
	flag.StringVar(&cfg.Units, "units", getEnv("MIEV_HASS_UNITS", cfg.Units), "Distance units (km or mi)")
	flag.StringVar(&cfg.PushoverToken, "pushover-token", getEnv("MIEV_HASS_PUSHOVER_TOKEN", cfg.PushoverToken), "Pushover application token")
	flag.StringVar(&cfg.PushoverUser, "pushover-user", getEnv("MIEV_HASS_PUSHOVER_USER", cfg.PushoverUser), "Pushover user key")
	flag.StringVar(&cfg.InfluxAddr, "influx-addr", getEnv("MIEV_HASS_INFLUX_ADDR", cfg.InfluxAddr), "InfluxDB address (http://host:8086)")
	flag.StringVar(&cfg.InfluxUser, "influx-user", getEnv("MIEV_HASS_INFLUX_USER", cfg.InfluxUser), "InfluxDB username")
	flag.StringVar(&cfg.InfluxPassword, "influx-password", getEnv("MIEV_HASS_INFLUX_PASSWORD", cfg.InfluxPassword), "InfluxDB password")
	flag.StringVar(&cfg.InfluxDatabase, "influx-database", getEnv("MIEV_HASS_INFLUX_DATABASE", cfg.InfluxDatabase), "InfluxDB database")
	flag.BoolVar(&cfg.Verbose, "verbose", getEnv("MIEV_HASS_VERBOSE", "false") == "true", "Verbose logging")

	mqttIntervalStr := flag.String("mqtt-interval", getEnv("MIEV_HASS_MQTT_INTERVAL", ""), "MQTT interval (e.g. 60s)")
	recordIntervalStr := flag.String("record-interval", getEnv("MIEV_HASS_RECORD_INTERVAL", ""), "InfluxDB record interval (e.g. 30s)")

	flag.Parse()

	if *showVersion {
		fmt.Printf("miev-hass %s\n", version)
		os.Exit(0)
	}

	// Duration overrides
	if *mqttIntervalStr != "" {
		if d, err := time.ParseDuration(*mqttIntervalStr); err == nil && d > 0 {
			cfg.MQTTInterval = d
		} else if v, err2 := strconv.Atoi(*mqttIntervalStr); err2 == nil && v > 0 {
			cfg.MQTTInterval = time.Duration(v) * time.Second
		}
	}
	if *recordIntervalStr != "" {
		if d, err := time.ParseDuration(*recordIntervalStr); err == nil && d > 0 {
			cfg.RecordInterval = d
		} else if v, err2 := strconv.Atoi(*recordIntervalStr); err2 == nil && v > 0 {
			cfg.RecordInterval = time.Duration(v) * time.Second
		}
	}

	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func setupLogger(verbose bool) *logrus.Logger {
	l := logrus.New()
	l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, TimestampFormat: time.RFC3339})
	if verbose {
		l.SetLevel(logrus.DebugLevel)
	} else {
		l.SetLevel(logrus.InfoLevel)
	}
	return l
}
