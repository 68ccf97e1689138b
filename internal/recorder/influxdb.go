// Package recorder persists vehicle snapshots to InfluxDB for graphing
// charge sessions and drives.
package recorder

import (
	"fmt"
	"time"

	influxdb "github.com/influxdata/influxdb1-client/v2"
	"github.com/sirupsen/logrus"

	"github.com/jmelgaard/miev-hass/internal/vehicle"
)

// InfluxRecorder writes one batch of points per snapshot.
type InfluxRecorder struct {
	conn     influxdb.Client
	database string
	deviceID string
	logger   *logrus.Logger
}

// Open connects to the InfluxDB HTTP endpoint.
func Open(addr, username, password, database, deviceID string, logger *logrus.Logger) (*InfluxRecorder, error) {
	c, err := influxdb.NewHTTPClient(influxdb.HTTPConfig{
		Addr:     addr,
		Username: username,
		Password: password,
	})
	if err != nil {
		return nil, fmt.Errorf("influxdb client: %w", err)
	}

	return &InfluxRecorder{
		conn:     c,
		database: database,
		deviceID: deviceID,
		logger:   logger,
	}, nil
}

// Insert records one snapshot as "charge" and "drive" measurements.
func (r *InfluxRecorder) Insert(s *vehicle.VehicleState) error {
	bp, err := influxdb.NewBatchPoints(influxdb.BatchPointsConfig{
		Database:  r.database,
		Precision: "s",
	})
	if err != nil {
		return err
	}

	now := time.Now()
	tags := map[string]string{
		"device_id": r.deviceID,
	}

	charge, err := influxdb.NewPoint("charge", tags, map[string]interface{}{
		"soc":             s.SOC,
		"state":           s.ChargeState.String(),
		"line_voltage":    s.LineVoltage,
		"charge_current":  s.ChargeCurrent,
		"charge_limit":    s.ChargeLimit,
		"charge_duration": s.ChargeDuration,
		"charge_energy":   s.ChargeEnergy,
		"quick_charging":  s.QuickCharging,
	}, now)
	if err != nil {
		return err
	}
	bp.AddPoint(charge)

	drive, err := influxdb.NewPoint("drive", tags, map[string]interface{}{
		"speed":        s.Speed,
		"odometer":     float64(s.Odometer) / 10,
		"range":        s.DisplayedRange,
		"ideal_range":  s.IdealRange,
		"pack_temp":    s.PackTemp,
		"motor_temp":   s.MotorTemp,
		"charger_temp": s.ChargerTemp,
		"activity":     s.Activity(),
	}, now)
	if err != nil {
		return err
	}
	bp.AddPoint(drive)

	if err := r.conn.Write(bp); err != nil {
		return fmt.Errorf("influxdb write: %w", err)
	}

	r.logger.Debug("Recorded snapshot to InfluxDB")
	return nil
}

// Close releases the underlying HTTP client.
func (r *InfluxRecorder) Close() error {
	return r.conn.Close()
}
