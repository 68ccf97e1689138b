package vehicle

// Staleness windows in seconds. Expiry is the only timeout mechanism in
// this core: cancellation is cooperative countdown, evaluated once per
// tick, never an OS timer.
const (
	chargeStaleMax  = 30
	trafficStaleMax = 60
	tempStaleMax    = 60
)

type stalenessCounters struct {
	charge  int
	traffic int
	temp    int
}

// tickStaleness ages all counters by one second and applies expiry
// effects. Each counter holds at zero until a frame resets it.
func (m *Monitor) tickStaleness() {
	if m.stale.temp > 0 {
		m.stale.temp--
	}
	m.state.CoolingActive = m.stale.temp > 1

	if m.stale.charge > 0 {
		m.stale.charge--
		if m.stale.charge == 0 {
			// Charge telemetry is dead: degrade to "no charge signal".
			m.state.QuickCharging = false
			m.state.LineVoltage = 0
			m.state.ChargeCurrent = 0
		}
	}

	// Awake is leveled, not edge-triggered: re-derived every tick from
	// the counter. A full 60-second reset keeps the car awake through
	// tick 60; tick 61 is the first to observe it asleep.
	if m.stale.traffic > 0 {
		m.stale.traffic--
		m.state.Awake = true
	} else {
		m.state.Awake = false
	}
}
