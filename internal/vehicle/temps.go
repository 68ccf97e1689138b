package vehicle

const (
	batteryBanks   = 12
	batterySensors = batteryBanks * 2
)

// aggregateBatteryTemps writes the mean of all sensor slots to the pack
// temperature. Slots that have never been written average in as zero;
// freshness is tempStale's job, not the buffer's.
func (m *Monitor) aggregateBatteryTemps() {
	sum := 0
	for _, t := range m.battTemps {
		sum += t
	}
	m.state.PackTemp = sum / batterySensors
}
