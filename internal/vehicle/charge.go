package vehicle

const (
	standardChargeLimit = 16  // amps, hard-coded for the onboard charger
	quickChargeLimit    = 125 // sentinel limit signalling quick charge

	// Below this the line is considered unplugged or dead; above it the
	// charger is energized even when no current flows.
	liveVoltageMin = 100

	// A session ending below this SOC is classified as interrupted.
	completeSOCMin = 95

	wattMinutesPerKWh = 60000
)

// updateChargeState derives the charge lifecycle from the current
// electrical signals and the quick-charge flag, once per second. All
// branches are total; there is nothing to fail.
func (m *Monitor) updateChargeState() {
	s := &m.state
	switch {
	case s.QuickCharging || (s.ChargeCurrent != 0 && s.LineVoltage > liveVoltageMin):
		// The bus says the car is charging.
		s.Charging12V = true
		if !s.Charging {
			m.beginChargeSession()
		} else {
			m.continueChargeSession()
		}

	case s.ChargeCurrent == 0 && s.LineVoltage > liveVoltageMin:
		// Charger energized but no current. Mid-charge the car takes a
		// ~15 minute balancing break around 70% SOC; that is a pause,
		// not a transition. Only a full battery means the session is
		// over, and the cable is still plugged in either way.
		if s.Charging && s.SOC == 100 {
			m.finishChargeSession(ChargeDone, SubstateByRequest)
		}
		s.Charging12V = false

	case s.ChargeCurrent == 0 && s.LineVoltage < liveVoltageMin && !s.QuickCharging:
		if s.Charging {
			if s.SOC < completeSOCMin {
				m.finishChargeSession(ChargeInterrupted, SubstateInterrupted)
			} else {
				m.finishChargeSession(ChargeDone, SubstateByRequest)
			}
		}
		s.Charging12V = false
		// Unlike the balancing pause, a dead line means the cable is
		// physically unplugged.
		s.ChargePortOpen = false
	}
}

func (m *Monitor) beginChargeSession() {
	s := &m.state
	s.Charging = true
	s.PilotPresent = true
	s.ChargePortOpen = true
	s.ChargeMode = ModeStandard
	s.ChargeState = ChargeActive
	s.ChargeSubstate = SubstateByRequest
	if s.QuickCharging {
		s.ChargeLimit = quickChargeLimit
	} else {
		s.ChargeLimit = standardChargeLimit
	}
	s.ChargeDuration = 0
	s.ChargeEnergy = 0
	m.chargeTimer = 0
	m.chargeWattMin = 0
	m.notify(NotifyStatusChanged)
}

func (m *Monitor) continueChargeSession() {
	s := &m.state
	s.ChargePortOpen = true
	m.chargeTimer++
	if m.chargeTimer >= 60 {
		m.chargeTimer = 0
		s.ChargeDuration++
		// Energy is metered from line power on standard charge only;
		// during quick charge the line readings are not live.
		if !s.QuickCharging {
			m.chargeWattMin += s.ChargeCurrent * s.LineVoltage
			if m.chargeWattMin >= wattMinutesPerKWh {
				s.ChargeEnergy++
				m.chargeWattMin -= wattMinutesPerKWh
			}
		}
	}
}

// finishChargeSession ends the session in the given state. The port flag
// stays set here; the unplugged branch clears it afterwards when the
// cable is actually gone.
func (m *Monitor) finishChargeSession(state ChargeState, substate ChargeSubstate) {
	s := &m.state
	s.Charging = false
	s.PilotPresent = false
	s.ChargePortOpen = true
	s.ChargeMode = ModeStandard
	s.ChargeState = state
	s.ChargeSubstate = substate
	m.chargeTimer = 0
	m.chargeWattMin = 0
	m.notify(NotifyChargeEvent)
	m.notify(NotifyStatusChanged)
}
