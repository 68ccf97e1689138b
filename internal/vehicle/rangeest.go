package vehicle

const (
	// The bottom 10% of SOC is unusable capacity; every range formula
	// floors there.
	usableSOCFloor = 10

	// Conservative extrapolation anchor used when the last known good
	// reading is too low to trust. Guesses low-ish, never silly low.
	fallbackAnchorSOC   = 20
	fallbackAnchorRange = 8

	// Minimum confidence for retaining an observation as the anchor.
	lastGoodMinSOC   = 20
	lastGoodMinRange = 5

	idealRangeFactor = 104 // (SOC-10) * 104 / 100
)

// updateRange recomputes displayed and ideal range once per second.
//
// During quick charge the bus reports the sentinel instead of a range, so
// the displayed value is extrapolated linearly from the last good
// (SOC, range) pair, assuming range reaches zero at the SOC floor.
func (m *Monitor) updateRange() {
	if m.state.QuickCharging {
		if m.state.SOC <= usableSOCFloor {
			m.state.DisplayedRange = 0
		} else {
			if m.state.SOC < fallbackAnchorSOC {
				m.lastGood = lastGoodRange{soc: fallbackAnchorSOC, rng: fallbackAnchorRange}
			}
			m.state.DisplayedRange = m.lastGood.rng * (m.state.SOC - usableSOCFloor) /
				(m.lastGood.soc - usableSOCFloor)
		}
	} else {
		// The sentinel can linger in the raw field right after a quick
		// charge ends; never let it surface as a distance.
		if m.raw.rng != qcSentinel {
			m.state.DisplayedRange = m.units.Distance(m.raw.rng)
		}
		if m.state.SOC >= lastGoodMinSOC && m.state.DisplayedRange >= lastGoodMinRange {
			m.lastGood = lastGoodRange{soc: m.state.SOC, rng: m.state.DisplayedRange}
		}
	}

	if m.state.SOC <= usableSOCFloor {
		m.state.IdealRange = 0
	} else {
		m.state.IdealRange = (m.state.SOC - usableSOCFloor) * idealRangeFactor / 100
	}
}
