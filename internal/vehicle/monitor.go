// Package vehicle decodes the Mitsubishi i-MiEV's periodic CAN broadcasts
// into a normalized VehicleState and derives the charging lifecycle from
// them. The package is a pure state-update core: no I/O, no errors, no
// goroutines. The host feeds it frames and ticks from a single goroutine;
// nothing here needs locking because nothing here is reentrant.
package vehicle

import (
	"github.com/sirupsen/logrus"

	"github.com/jmelgaard/miev-hass/internal/can"
	"github.com/jmelgaard/miev-hass/internal/units"
)

// rawTelemetry keeps the one decoded value that must not flow straight
// into VehicleState: the raw range byte, whose 255 sentinel marks quick
// charging rather than a distance.
type rawTelemetry struct {
	rng int
}

// lastGoodRange anchors the quick-charge range extrapolation. It is only
// replaced by high-confidence observations and never cleared.
type lastGoodRange struct {
	soc int
	rng int
}

// Monitor owns all decoder state for one vehicle. Create one per bus;
// independent vehicles are independent Monitors.
type Monitor struct {
	units    units.System
	notifier Notifier
	log      *logrus.Logger

	state     VehicleState
	raw       rawTelemetry
	qc        quickChargeDetector
	stale     stalenessCounters
	lastGood  lastGoodRange
	battTemps [batterySensors]int

	chargeTimer   int // seconds into the current charge minute
	chargeWattMin int // watt-minute accumulator, carries across kWh
}

// New returns a Monitor in the power-on state: counter saturated so a
// single sentinel cannot assert quick charge, range anchor at the
// conservative fallback, everything else zero.
func New(system units.System, notifier Notifier, logger *logrus.Logger) *Monitor {
	m := &Monitor{
		units:    system,
		notifier: notifier,
		log:      logger,
	}
	m.qc.counter = qcCounterMax
	m.lastGood = lastGoodRange{soc: fallbackAnchorSOC, rng: fallbackAnchorRange}
	m.state.SOCAlertLimit = socAlertLimit
	return m
}

// Snapshot returns a copy of the current state. Callers must invoke it
// from the same goroutine that feeds the Monitor.
func (m *Monitor) Snapshot() VehicleState {
	return m.state
}

// HandleEnergyFrame processes one frame from the charge/battery delivery
// group. Any delivery, recognized or not, is a keep-alive for the
// traffic-staleness counter. The returned hint is always "consumed":
// this core never passes raw frames through.
func (m *Monitor) HandleEnergyFrame(f can.Frame) bool {
	m.stale.traffic = trafficStaleMax
	if decode, ok := energyDecoders[f.ID]; ok {
		decode(m, f.Data[:])
	}
	return true
}

// HandleBodyFrame processes one frame from the drive/body delivery group.
func (m *Monitor) HandleBodyFrame(f can.Frame) bool {
	m.stale.traffic = trafficStaleMax
	if decode, ok := bodyDecoders[f.ID]; ok {
		decode(m, f.Data[:])
	}
	return true
}

// TickSecond ages the staleness counters and recomputes all derived
// state from the current raw fields. The returned hint is always
// "continue"; the core never asks the scheduler to stop.
func (m *Monitor) TickSecond() bool {
	m.tickStaleness()
	m.state.Seconds++
	m.updateRange()
	m.updateChargeState()
	return true
}

// TickTenSeconds recomputes the slow-cadence aggregates.
func (m *Monitor) TickTenSeconds() bool {
	m.aggregateBatteryTemps()
	return true
}

func (m *Monitor) notify(n Notification) {
	if m.notifier != nil {
		m.notifier.Notify(n)
	}
}
