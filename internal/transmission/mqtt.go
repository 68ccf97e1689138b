package transmission

import (
	"encoding/json"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/jmelgaard/miev-hass/internal/mqtt"
	"github.com/jmelgaard/miev-hass/internal/units"
	"github.com/jmelgaard/miev-hass/internal/vehicle"
)

// MQTTTransmitter publishes vehicle snapshots to a single state topic and
// announces every entity through Home Assistant MQTT discovery.
type MQTTTransmitter struct {
	client           *mqtt.Client
	deviceID         string
	discoveryPrefix  string
	units            units.System
	logger           *logrus.Logger
	publishedSensors map[string]bool // tracks published discovery configs
}

// HADiscoveryConfig represents Home Assistant MQTT discovery configuration.
type HADiscoveryConfig struct {
	Name              string   `json:"name"`
	UniqueID          string   `json:"unique_id"`
	StateTopic        string   `json:"state_topic"`
	ValueTemplate     string   `json:"value_template,omitempty"`
	PayloadOn         string   `json:"payload_on,omitempty"`
	PayloadOff        string   `json:"payload_off,omitempty"`
	DeviceClass       string   `json:"device_class,omitempty"`
	UnitOfMeasurement string   `json:"unit_of_measurement,omitempty"`
	Device            HADevice `json:"device"`
	AvailabilityTopic string   `json:"availability_topic"`
	Icon              string   `json:"icon,omitempty"`
	StateClass        string   `json:"state_class,omitempty"`
}

// HADevice represents the device information for Home Assistant.
type HADevice struct {
	Identifiers  []string `json:"identifiers"`
	Name         string   `json:"name"`
	Model        string   `json:"model"`
	Manufacturer string   `json:"manufacturer"`
	SWVersion    string   `json:"sw_version,omitempty"`
}

// sensorConfig pairs one Home Assistant entity with the snapshot field it
// publishes. The table is deliberately explicit: the payload shape is the
// integration contract, so it should be readable in one place.
type sensorConfig struct {
	Name        string
	EntityID    string
	EntityType  string // "sensor" or "binary_sensor"
	DeviceClass string
	Unit        string
	Icon        string
	StateClass  string
	Value       func(*vehicle.VehicleState) interface{}
}

// NewMQTTTransmitter creates a new MQTT transmitter.
func NewMQTTTransmitter(client *mqtt.Client, deviceID, discoveryPrefix string, system units.System, logger *logrus.Logger) *MQTTTransmitter {
	return &MQTTTransmitter{
		client:           client,
		deviceID:         deviceID,
		discoveryPrefix:  discoveryPrefix,
		units:            system,
		logger:           logger,
		publishedSensors: make(map[string]bool),
	}
}

func (t *MQTTTransmitter) sensorConfigs() []sensorConfig {
	dist := t.units.String()

	return []sensorConfig{
		{Name: "State of Charge", EntityID: "soc", EntityType: "sensor",
			DeviceClass: "battery", Unit: "%", StateClass: "measurement",
			Value: func(s *vehicle.VehicleState) interface{} { return s.SOC }},
		{Name: "Range", EntityID: "range", EntityType: "sensor",
			DeviceClass: "distance", Unit: dist, StateClass: "measurement",
			Value: func(s *vehicle.VehicleState) interface{} { return s.DisplayedRange }},
		{Name: "Ideal Range", EntityID: "ideal_range", EntityType: "sensor",
			DeviceClass: "distance", Unit: dist, StateClass: "measurement",
			Value: func(s *vehicle.VehicleState) interface{} { return s.IdealRange }},
		{Name: "Line Voltage", EntityID: "line_voltage", EntityType: "sensor",
			DeviceClass: "voltage", Unit: "V", StateClass: "measurement",
			Value: func(s *vehicle.VehicleState) interface{} { return s.LineVoltage }},
		{Name: "Charge Current", EntityID: "charge_current", EntityType: "sensor",
			DeviceClass: "current", Unit: "A", StateClass: "measurement",
			Value: func(s *vehicle.VehicleState) interface{} { return s.ChargeCurrent }},
		// Speed is published as the bus reports it, km/h, regardless of
		// the configured distance unit.
		{Name: "Speed", EntityID: "speed", EntityType: "sensor",
			DeviceClass: "speed", Unit: "km/h", StateClass: "measurement",
			Value: func(s *vehicle.VehicleState) interface{} { return s.Speed }},
		{Name: "Odometer", EntityID: "odometer", EntityType: "sensor",
			DeviceClass: "distance", Unit: dist, StateClass: "total_increasing",
			Value: func(s *vehicle.VehicleState) interface{} { return float64(s.Odometer) / 10 }},
		{Name: "Battery Temperature", EntityID: "pack_temp", EntityType: "sensor",
			DeviceClass: "temperature", Unit: "°C", StateClass: "measurement",
			Value: func(s *vehicle.VehicleState) interface{} { return s.PackTemp }},
		{Name: "Motor Temperature", EntityID: "motor_temp", EntityType: "sensor",
			DeviceClass: "temperature", Unit: "°C", StateClass: "measurement",
			Value: func(s *vehicle.VehicleState) interface{} { return s.MotorTemp }},
		{Name: "Charger Temperature", EntityID: "charger_temp", EntityType: "sensor",
			DeviceClass: "temperature", Unit: "°C", StateClass: "measurement",
			Value: func(s *vehicle.VehicleState) interface{} { return s.ChargerTemp }},
		{Name: "Charge State", EntityID: "charge_state", EntityType: "sensor",
			Icon: "mdi:battery-charging",
			Value: func(s *vehicle.VehicleState) interface{} { return s.ChargeState.String() }},
		{Name: "Charge Limit", EntityID: "charge_limit", EntityType: "sensor",
			DeviceClass: "current", Unit: "A",
			Value: func(s *vehicle.VehicleState) interface{} { return s.ChargeLimit }},
		{Name: "Charge Duration", EntityID: "charge_duration", EntityType: "sensor",
			DeviceClass: "duration", Unit: "min",
			Value: func(s *vehicle.VehicleState) interface{} { return s.ChargeDuration }},
		{Name: "Charge Energy", EntityID: "charge_energy", EntityType: "sensor",
			DeviceClass: "energy", Unit: "kWh", StateClass: "total_increasing",
			Value: func(s *vehicle.VehicleState) interface{} { return s.ChargeEnergy }},
		{Name: "Activity", EntityID: "activity", EntityType: "sensor",
			Icon: "mdi:car",
			Value: func(s *vehicle.VehicleState) interface{} { return s.Activity() }},

		{Name: "Parked", EntityID: "parked", EntityType: "binary_sensor",
			Value: func(s *vehicle.VehicleState) interface{} { return s.Parked }},
		{Name: "Ignition", EntityID: "on", EntityType: "binary_sensor",
			DeviceClass: "power",
			Value:       func(s *vehicle.VehicleState) interface{} { return s.On }},
		{Name: "Awake", EntityID: "awake", EntityType: "binary_sensor",
			DeviceClass: "connectivity",
			Value:       func(s *vehicle.VehicleState) interface{} { return s.Awake }},
		{Name: "Cooling", EntityID: "cooling_active", EntityType: "binary_sensor",
			DeviceClass: "running",
			Value:       func(s *vehicle.VehicleState) interface{} { return s.CoolingActive }},
		{Name: "Charge Port", EntityID: "charge_port_open", EntityType: "binary_sensor",
			DeviceClass: "opening",
			Value:       func(s *vehicle.VehicleState) interface{} { return s.ChargePortOpen }},
		{Name: "Pilot Present", EntityID: "pilot_present", EntityType: "binary_sensor",
			DeviceClass: "plug",
			Value:       func(s *vehicle.VehicleState) interface{} { return s.PilotPresent }},
		{Name: "Charging", EntityID: "charging", EntityType: "binary_sensor",
			DeviceClass: "battery_charging",
			Value:       func(s *vehicle.VehicleState) interface{} { return s.Charging }},
		{Name: "12V Charging", EntityID: "charging_12v", EntityType: "binary_sensor",
			DeviceClass: "battery_charging",
			Value:       func(s *vehicle.VehicleState) interface{} { return s.Charging12V }},
		{Name: "Quick Charging", EntityID: "quick_charging", EntityType: "binary_sensor",
			DeviceClass: "battery_charging",
			Value:       func(s *vehicle.VehicleState) interface{} { return s.QuickCharging }},
	}
}

// publishDiscoveryForSensor publishes the discovery config for a single
// sensor, once.
func (t *MQTTTransmitter) publishDiscoveryForSensor(sensor sensorConfig, device HADevice) error {
	uniqueID := fmt.Sprintf("%s_%s", t.deviceID, sensor.EntityID)
	if t.publishedSensors[uniqueID] {
		return nil
	}

	config := HADiscoveryConfig{
		Name:              sensor.Name,
		UniqueID:          uniqueID,
		StateTopic:        t.client.GetStateTopic(),
		ValueTemplate:     fmt.Sprintf("{{ value_json.%s }}", sensor.EntityID),
		AvailabilityTopic: t.client.GetAvailabilityTopic(),
		Device:            device,
		DeviceClass:       sensor.DeviceClass,
		UnitOfMeasurement: sensor.Unit,
		Icon:              sensor.Icon,
		StateClass:        sensor.StateClass,
	}
	if sensor.EntityType == "binary_sensor" {
		config.PayloadOn = "true"
		config.PayloadOff = "false"
	}

	topic := t.client.GetDiscoveryTopic(t.discoveryPrefix, sensor.EntityType, sensor.EntityID)

	payload, err := json.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal discovery config: %w", err)
	}
	if err := t.client.Publish(topic, payload, true); err != nil {
		return fmt.Errorf("failed to publish %s discovery config: %w", sensor.Name, err)
	}

	t.logger.WithFields(logrus.Fields{
		"sensor_name": sensor.Name,
		"entity_id":   sensor.EntityID,
		"topic":       topic,
	}).Debug("Published sensor discovery config")

	t.publishedSensors[uniqueID] = true
	return nil
}

// publishDiscoveryConfigs ensures all sensors have their discovery configs
// published. Entities are announced even before the bus has produced a
// value for them, so the full set shows up in the UI right from the start.
func (t *MQTTTransmitter) publishDiscoveryConfigs() error {
	device := HADevice{
		Identifiers:  []string{fmt.Sprintf("miev_%s", t.deviceID)},
		Name:         "Mitsubishi i-MiEV",
		Model:        "i-MiEV",
		Manufacturer: "Mitsubishi",
		SWVersion:    "1.0.0",
	}

	for _, sensor := range t.sensorConfigs() {
		if err := t.publishDiscoveryForSensor(sensor, device); err != nil {
			t.logger.WithError(err).WithField("sensor", sensor.Name).Error("Failed to publish discovery config")
			// Continue to the next sensor
		}
	}
	return nil
}

// buildStatePayload builds the JSON payload for the state topic.
func (t *MQTTTransmitter) buildStatePayload(s *vehicle.VehicleState) ([]byte, error) {
	state := make(map[string]interface{})
	for _, sensor := range t.sensorConfigs() {
		state[sensor.EntityID] = sensor.Value(s)
	}
	return json.Marshal(state)
}

// Transmit sends one snapshot to MQTT.
func (t *MQTTTransmitter) Transmit(s *vehicle.VehicleState) error {
	if !t.client.IsConnected() {
		return fmt.Errorf("MQTT client not connected")
	}

	if err := t.publishDiscoveryConfigs(); err != nil {
		// Log error but don't block transmission
		t.logger.WithError(err).Error("Failed to publish Home Assistant discovery configs")
	}

	payload, err := t.buildStatePayload(s)
	if err != nil {
		return fmt.Errorf("failed to build state payload: %w", err)
	}
	if err := t.client.Publish(t.client.GetStateTopic(), payload, true); err != nil {
		return fmt.Errorf("failed to publish vehicle state: %w", err)
	}

	if err := t.client.PublishAvailability(true); err != nil {
		return fmt.Errorf("failed to publish availability: %w", err)
	}

	t.logger.WithFields(logrus.Fields{
		"topic": t.client.GetStateTopic(),
		"size":  len(payload),
	}).Debug("Published vehicle state")

	return nil
}

// IsConnected checks if the MQTT client is connected.
func (t *MQTTTransmitter) IsConnected() bool {
	return t.client.IsConnected()
}
