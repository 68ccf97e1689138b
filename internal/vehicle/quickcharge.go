package vehicle

const (
	qcSentinel   = 255 // raw range value reported during quick charge
	qcSpeedLimit = 5   // a moving car cannot be quick charging
	qcCounterMax = 3
)

// quickChargeDetector debounces the range sentinel. A single 255 can be a
// corrupted reading; quick charge is asserted only after qcCounterMax
// consecutive qualifying observations have walked the counter to zero.
// Clearing is immediate once the counter has saturated back at the top,
// but readings in between only nudge the counter, so a transient false
// sentinel never flips the flag in either direction.
type quickChargeDetector struct {
	counter int
}

// observeQuickCharge feeds one range-frame reading into the filter.
// Asserting quick charge also arms the charge staleness counter, because
// the charger's electrical frames stop arriving during quick charge and
// the charge telemetry must not be declared dead meanwhile.
func (m *Monitor) observeQuickCharge(rawRange, speed int) {
	if rawRange == qcSentinel && speed < qcSpeedLimit {
		if m.qc.counter > 0 {
			m.qc.counter--
		}
		if m.qc.counter == 0 {
			m.state.QuickCharging = true
			m.stale.charge = chargeStaleMax
		}
		return
	}

	if m.qc.counter < qcCounterMax {
		m.qc.counter++
		return
	}
	m.state.QuickCharging = false
}
