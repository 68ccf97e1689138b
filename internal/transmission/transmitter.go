package transmission

import "github.com/jmelgaard/miev-hass/internal/vehicle"

// Transmitter defines the interface for transmitting vehicle snapshots.
type Transmitter interface {
	Transmit(state *vehicle.VehicleState) error
	IsConnected() bool
}
