package bus

import (
	"sync"

	"github.com/jmelgaard/miev-hass/internal/vehicle"
)

// Bus provides fan-out pub/sub semantics for vehicle state snapshots.
// Each Subscribe call gets its own channel that receives every future
// publication. Past messages are not replayed. The implementation is safe
// for concurrent publishers and subscribers.
type Bus struct {
	mu          sync.RWMutex
	subscribers []chan *vehicle.VehicleState
}

// New creates a ready-to-use Bus.
func New() *Bus { return &Bus{} }

// Subscribe returns a read-only channel that will receive all future
// snapshots.
func (b *Bus) Subscribe() <-chan *vehicle.VehicleState {
	ch := make(chan *vehicle.VehicleState, 1) // small buffer avoids blocking
	b.mu.Lock()
	b.subscribers = append(b.subscribers, ch)
	b.mu.Unlock()
	return ch
}

// Publish delivers the snapshot to all subscribers in a best-effort,
// non-blocking way.
func (b *Bus) Publish(s *vehicle.VehicleState) {
	b.mu.RLock()
	subs := make([]chan *vehicle.VehicleState, len(b.subscribers))
	copy(subs, b.subscribers)
	b.mu.RUnlock()

	for _, ch := range subs {
		select {
		case ch <- s:
		default:
			// Subscriber is currently busy; skip this snapshot instead of
			// dropping the subscriber entirely. The consumer will receive
			// the next snapshot once it has processed the current one.
			continue
		}
	}
}
