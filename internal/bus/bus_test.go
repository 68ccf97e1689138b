package bus

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jmelgaard/miev-hass/internal/vehicle"
)

func TestPublishReachesAllSubscribers(t *testing.T) {
	b := New()
	a := b.Subscribe()
	c := b.Subscribe()

	snap := &vehicle.VehicleState{SOC: 42}
	b.Publish(snap)

	assert.Equal(t, snap, <-a)
	assert.Equal(t, snap, <-c)
}

func TestPublishSkipsBusySubscriber(t *testing.T) {
	b := New()
	slow := b.Subscribe()

	first := &vehicle.VehicleState{SOC: 1}
	second := &vehicle.VehicleState{SOC: 2}
	third := &vehicle.VehicleState{SOC: 3}

	// The buffer holds one snapshot; further publications are skipped for
	// this subscriber rather than blocking the producer.
	b.Publish(first)
	b.Publish(second)
	b.Publish(third)

	assert.Equal(t, first, <-slow)
	select {
	case s := <-slow:
		t.Fatalf("unexpected extra snapshot %+v", s)
	default:
	}
}

func TestPublishWithoutSubscribers(t *testing.T) {
	b := New()
	b.Publish(&vehicle.VehicleState{})
}
