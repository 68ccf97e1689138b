package vehicle

// Broadcast identifiers recognized by the decoder, one constant per
// telemetry class.
const (
	FrameRange       = 0x346 // raw range estimate, quick-charge sentinel
	FrameSOC         = 0x374 // state of charge
	FrameCharger     = 0x389 // line voltage and charge current
	FrameShifter     = 0x285 // park/drive selector
	FrameChargerTemp = 0x286
	FrameMotorTemp   = 0x298
	FrameSpeedOdo    = 0x412
	FrameBatteryTemp = 0x6E1 // two sensors per bank, bank index in byte 0
)

const (
	shifterParked  = 0x0C
	shifterDriving = 0x0E

	socAlertLimit = 10
)

// decodeFunc updates exactly the fields owned by one identifier.
type decodeFunc func(m *Monitor, b []byte)

// Identifier dispatch, one table per delivery group. Unrecognized
// identifiers fall through silently.
var (
	energyDecoders = map[uint32]decodeFunc{
		FrameRange:   decodeRange,
		FrameSOC:     decodeSOC,
		FrameCharger: decodeChargePower,
	}
	bodyDecoders = map[uint32]decodeFunc{
		FrameShifter:     decodeShifter,
		FrameChargerTemp: decodeChargerTemp,
		FrameMotorTemp:   decodeMotorTemp,
		FrameSpeedOdo:    decodeSpeedOdo,
		FrameBatteryTemp: decodeBatteryTemps,
	}
)

func decodeRange(m *Monitor, b []byte) {
	m.raw.rng = int(b[7])
	m.observeQuickCharge(m.raw.rng, m.state.Speed)
}

func decodeSOC(m *Monitor, b []byte) {
	m.state.SOC = (int(b[1]) - 10) / 2
}

func decodeChargePower(m *Monitor, b []byte) {
	m.state.LineVoltage = int(b[1])
	m.state.ChargeCurrent = int(b[6]) / 10
	m.stale.charge = chargeStaleMax
}

func decodeShifter(m *Monitor, b []byte) {
	switch b[6] {
	case shifterParked:
		m.state.Parked = true
		m.state.On = false
		if m.state.ParkTime == 0 {
			// Latch once, backdated a second so the first report is
			// already nonzero.
			t := m.state.Seconds - 1
			if t < 1 {
				t = 1
			}
			m.state.ParkTime = t
			m.notify(NotifyEnvironmentChanged)
		}
	case shifterDriving:
		m.state.Parked = false
		m.state.On = true
		if m.state.ParkTime != 0 {
			m.state.ParkTime = 0
			m.notify(NotifyEnvironmentChanged)
		}
	}
}

func decodeChargerTemp(m *Monitor, b []byte) {
	m.state.ChargerTemp = int(b[3]) - 40
	m.stale.temp = tempStaleMax
}

func decodeMotorTemp(m *Monitor, b []byte) {
	m.state.MotorTemp = int(b[3]) - 40
	m.stale.temp = tempStaleMax
}

func decodeSpeedOdo(m *Monitor, b []byte) {
	speed := int(b[1])
	if speed > 200 {
		// Reverse is reported as a wrap below 0xFF.
		speed -= 255
	}
	m.state.Speed = speed

	km := int(b[2])<<16 | int(b[3])<<8 | int(b[4])
	m.state.Odometer = m.units.Distance(km * 10)
}

func decodeBatteryTemps(m *Monitor, b []byte) {
	bank := int(b[0])
	if bank < 1 || bank > batteryBanks {
		return
	}
	i := (bank - 1) * 2
	m.battTemps[i] = int(b[2]) - 50
	m.battTemps[i+1] = int(b[3]) - 50
	m.stale.temp = tempStaleMax
}
