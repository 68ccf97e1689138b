package notify

import (
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmelgaard/miev-hass/internal/vehicle"
)

type fakeSender struct {
	titles []string
}

func (f *fakeSender) Send(title, message string) error {
	f.titles = append(f.titles, title)
	return nil
}

func newTestDispatcher() (*Dispatcher, *fakeSender) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	sender := &fakeSender{}
	return NewDispatcher(sender, logger), sender
}

func TestChargeEventRendersFromLatestSnapshot(t *testing.T) {
	d, sender := newTestDispatcher()
	d.latest = &vehicle.VehicleState{
		SOC:         100,
		ChargeState: vehicle.ChargeDone,
	}

	d.deliver(vehicle.NotifyChargeEvent)
	require.Len(t, sender.titles, 1)
	assert.Equal(t, "Charge done", sender.titles[0])
}

func TestRepeatedKindIsDebounced(t *testing.T) {
	d, sender := newTestDispatcher()
	d.latest = &vehicle.VehicleState{Parked: true}

	d.deliver(vehicle.NotifyEnvironmentChanged)
	d.deliver(vehicle.NotifyEnvironmentChanged)
	assert.Len(t, sender.titles, 1)
}

func TestStatusChangedIsLogOnly(t *testing.T) {
	d, sender := newTestDispatcher()
	d.latest = &vehicle.VehicleState{}

	d.deliver(vehicle.NotifyStatusChanged)
	assert.Empty(t, sender.titles)
}

func TestNoSnapshotMeansNoAlert(t *testing.T) {
	d, sender := newTestDispatcher()
	d.deliver(vehicle.NotifyChargeEvent)
	assert.Empty(t, sender.titles)
}

func TestLowSOCAlertFiresOnceUntilRecovery(t *testing.T) {
	d, sender := newTestDispatcher()

	low := &vehicle.VehicleState{SOC: 8, SOCAlertLimit: 10}
	d.checkLowSOC(low)
	d.checkLowSOC(low)
	require.Len(t, sender.titles, 1)
	assert.Equal(t, "Battery low", sender.titles[0])

	// Recovery above the limit re-arms the alert.
	d.checkLowSOC(&vehicle.VehicleState{SOC: 40, SOCAlertLimit: 10})
	d.checkLowSOC(low)
	assert.Len(t, sender.titles, 2)
}

func TestNotifyNeverBlocks(t *testing.T) {
	d, _ := newTestDispatcher()
	for i := 0; i < 100; i++ {
		d.Notify(vehicle.NotifyStatusChanged)
	}
}
