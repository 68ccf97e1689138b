package vehicle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChargeBeginsOnLiveCurrent(t *testing.T) {
	m, n := newTestMonitor(t)
	m.HandleEnergyFrame(chargerFrame(110, 100))
	m.TickSecond()

	assert.True(t, m.state.Charging)
	assert.True(t, m.state.Charging12V)
	assert.True(t, m.state.ChargePortOpen)
	assert.True(t, m.state.PilotPresent)
	assert.Equal(t, ChargeActive, m.state.ChargeState)
	assert.Equal(t, SubstateByRequest, m.state.ChargeSubstate)
	assert.Equal(t, standardChargeLimit, m.state.ChargeLimit)
	assert.Equal(t, 0, m.state.ChargeDuration)
	assert.Equal(t, 0, m.state.ChargeEnergy)
	assert.Equal(t, 1, n.count(NotifyStatusChanged))

	// Continuing the same session fires no further status changes.
	m.HandleEnergyFrame(chargerFrame(110, 100))
	m.TickSecond()
	assert.Equal(t, 1, n.count(NotifyStatusChanged))
}

func TestChargeBeginsOnQuickCharge(t *testing.T) {
	m, n := newTestMonitor(t)
	assertQuickCharge(t, m)
	m.TickSecond()

	assert.True(t, m.state.Charging)
	assert.Equal(t, quickChargeLimit, m.state.ChargeLimit)
	assert.Equal(t, 1, n.count(NotifyStatusChanged))
}

func TestBalancingPauseIsNotDone(t *testing.T) {
	m, n := newTestMonitor(t)
	m.HandleEnergyFrame(socFrame(70))
	m.HandleEnergyFrame(chargerFrame(150, 100))
	m.TickSecond()
	require.True(t, m.state.Charging)

	// Current drops to zero mid-charge while the line stays energized.
	m.HandleEnergyFrame(chargerFrame(150, 0))
	m.TickSecond()

	assert.True(t, m.state.Charging, "a balancing break is a pause, not an end")
	assert.Equal(t, ChargeActive, m.state.ChargeState)
	assert.False(t, m.state.Charging12V)
	assert.Equal(t, 0, n.count(NotifyChargeEvent))
	assert.Equal(t, 1, n.count(NotifyStatusChanged))
}

func TestChargeDoneAtFullBattery(t *testing.T) {
	m, n := newTestMonitor(t)
	m.HandleEnergyFrame(socFrame(100))
	m.HandleEnergyFrame(chargerFrame(150, 100))
	m.TickSecond()
	require.True(t, m.state.Charging)

	m.HandleEnergyFrame(chargerFrame(150, 0))
	m.TickSecond()

	assert.False(t, m.state.Charging)
	assert.Equal(t, ChargeDone, m.state.ChargeState)
	assert.Equal(t, SubstateByRequest, m.state.ChargeSubstate)
	assert.True(t, m.state.ChargePortOpen, "cable is still plugged in")
	assert.False(t, m.state.Charging12V)
	assert.Equal(t, 1, n.count(NotifyChargeEvent))
	assert.Equal(t, 2, n.count(NotifyStatusChanged))
}

func TestChargeInterruptedOnUnplug(t *testing.T) {
	m, _ := newTestMonitor(t)
	m.HandleEnergyFrame(socFrame(80))
	m.HandleEnergyFrame(chargerFrame(150, 100))
	m.TickSecond()
	require.True(t, m.state.Charging)

	m.HandleEnergyFrame(chargerFrame(50, 0))
	m.TickSecond()

	assert.False(t, m.state.Charging)
	assert.Equal(t, ChargeInterrupted, m.state.ChargeState)
	assert.Equal(t, SubstateInterrupted, m.state.ChargeSubstate)
	assert.False(t, m.state.ChargePortOpen, "a dead line means the cable is gone")
	assert.False(t, m.state.Charging12V)
}

func TestChargeDoneOnUnplugNearFull(t *testing.T) {
	m, _ := newTestMonitor(t)
	m.HandleEnergyFrame(socFrame(96))
	m.HandleEnergyFrame(chargerFrame(150, 100))
	m.TickSecond()
	require.True(t, m.state.Charging)

	m.HandleEnergyFrame(chargerFrame(50, 0))
	m.TickSecond()

	assert.Equal(t, ChargeDone, m.state.ChargeState)
	assert.False(t, m.state.ChargePortOpen)
}

func TestChargeEnergyMetering(t *testing.T) {
	m, _ := newTestMonitor(t)
	m.HandleEnergyFrame(socFrame(50))

	// 200V at 10A is 2kW, so one kWh takes 30 minutes. The first tick
	// starts the session; the next 1800 accumulate it.
	for i := 0; i < 1801; i++ {
		m.HandleEnergyFrame(chargerFrame(200, 100))
		m.TickSecond()
	}

	assert.Equal(t, 30, m.state.ChargeDuration)
	assert.Equal(t, 1, m.state.ChargeEnergy)
	assert.Equal(t, 0, m.chargeWattMin, "no remainder at an exact kWh")
}

func TestVoltageBoundaryIsDeadZone(t *testing.T) {
	m, _ := newTestMonitor(t)

	// Exactly the threshold voltage matches no branch at all.
	m.HandleEnergyFrame(chargerFrame(liveVoltageMin, 100))
	m.TickSecond()
	assert.False(t, m.state.Charging)
}
