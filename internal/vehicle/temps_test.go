package vehicle

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPackTempAveragesAllSensors(t *testing.T) {
	m, _ := newTestMonitor(t)

	// Every bank reports 12 degrees on both sensors (raw 62 - 50).
	for bank := 1; bank <= batteryBanks; bank++ {
		m.HandleBodyFrame(frame(FrameBatteryTemp, byte(bank), 0, 62, 62))
	}
	m.TickTenSeconds()
	assert.Equal(t, 12, m.state.PackTemp)
}

func TestPackTempUnwrittenSlotsAverageAsZero(t *testing.T) {
	m, _ := newTestMonitor(t)

	// One bank at 24 degrees, 22 slots untouched: 48/24 = 2.
	m.HandleBodyFrame(frame(FrameBatteryTemp, 1, 0, 74, 74))
	m.TickTenSeconds()
	assert.Equal(t, 2, m.state.PackTemp)
}

func TestPackTempOnlyUpdatesOnSlowTick(t *testing.T) {
	m, _ := newTestMonitor(t)

	m.HandleBodyFrame(frame(FrameBatteryTemp, 1, 0, 90, 90))
	m.TickSecond()
	assert.Equal(t, 0, m.state.PackTemp, "per-second tick never touches the aggregate")

	m.TickTenSeconds()
	assert.NotEqual(t, 0, m.state.PackTemp)
}
