package vehicle

// Activity summarises the snapshot into the coarse state that consumers
// like the MQTT device entity and notifications want, so the logic is not
// duplicated per transmitter.
func (s *VehicleState) Activity() string {
	switch {
	case s.Charging:
		return "charging"
	case s.On:
		return "driving"
	case !s.Awake:
		return "asleep"
	}
	return "parked"
}
