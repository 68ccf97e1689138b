package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff"
	"github.com/sirupsen/logrus"

	"github.com/jmelgaard/miev-hass/internal/config"
	"github.com/jmelgaard/miev-hass/internal/vehicle"
)

// Sender delivers one rendered alert to the user.
type Sender interface {
	Send(title, message string) error
}

// Dispatcher receives fire-and-forget signals from the decoding core and
// owns everything about their delivery: rendering against the latest
// snapshot, debouncing repeats, and retrying the sender. It satisfies
// vehicle.Notifier; Notify never blocks the caller.
type Dispatcher struct {
	sender Sender
	logger *logrus.Logger

	events chan vehicle.Notification

	latest        *vehicle.VehicleState
	lastSent      map[vehicle.Notification]time.Time
	lowSOCAlerted bool
}

// NewDispatcher creates a dispatcher. A nil sender is valid: signals are
// then logged but not delivered anywhere.
func NewDispatcher(sender Sender, logger *logrus.Logger) *Dispatcher {
	return &Dispatcher{
		sender:   sender,
		logger:   logger,
		events:   make(chan vehicle.Notification, 16),
		lastSent: make(map[vehicle.Notification]time.Time),
	}
}

// Notify queues a core signal for delivery. If the queue is full the
// signal is dropped; alerting must never stall the decode loop.
func (d *Dispatcher) Notify(n vehicle.Notification) {
	select {
	case d.events <- n:
	default:
		d.logger.WithField("kind", n.String()).Debug("notification queue full, dropping")
	}
}

// Run consumes queued signals and snapshot updates until ctx is
// cancelled. The snapshot stream provides the context the alert text is
// rendered from.
func (d *Dispatcher) Run(ctx context.Context, snapshots <-chan *vehicle.VehicleState) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case s, ok := <-snapshots:
			if !ok {
				return nil
			}
			d.latest = s
			d.checkLowSOC(s)
		case n := <-d.events:
			d.deliver(n)
		}
	}
}

// checkLowSOC raises a single alert when the charge level crosses below
// the alert limit, re-armed once it recovers above it.
func (d *Dispatcher) checkLowSOC(s *vehicle.VehicleState) {
	if s.SOC >= s.SOCAlertLimit {
		d.lowSOCAlerted = false
		return
	}
	if d.lowSOCAlerted {
		return
	}
	d.lowSOCAlerted = true
	d.send("Battery low", fmt.Sprintf("State of charge is down to %d%%, plug in soon.", s.SOC))
}

func (d *Dispatcher) deliver(n vehicle.Notification) {
	d.logger.WithField("kind", n.String()).Info("Core notification")

	if last, ok := d.lastSent[n]; ok && time.Since(last) < config.NotifyDebounce {
		d.logger.WithField("kind", n.String()).Debug("notification debounced")
		return
	}
	d.lastSent[n] = time.Now()

	title, message := d.render(n)
	if message == "" {
		return
	}
	d.send(title, message)
}

// render turns a payload-free signal into user-facing text using the
// latest snapshot. Status changes are MQTT's job and produce no alert.
func (d *Dispatcher) render(n vehicle.Notification) (string, string) {
	s := d.latest
	if s == nil {
		return "", ""
	}

	switch n {
	case vehicle.NotifyChargeEvent:
		return "Charge " + s.ChargeState.String(), fmt.Sprintf(
			"Charge %s at %d%% SOC, %d kWh in %d min.",
			s.ChargeState, s.SOC, s.ChargeEnergy, s.ChargeDuration)
	case vehicle.NotifyEnvironmentChanged:
		if s.Parked {
			return "Parked", fmt.Sprintf("Car parked at %d%% SOC, range %d.", s.SOC, s.DisplayedRange)
		}
		return "Driving", fmt.Sprintf("Car switched on at %d%% SOC, range %d.", s.SOC, s.DisplayedRange)
	}
	return "", ""
}

func (d *Dispatcher) send(title, message string) {
	if d.sender == nil {
		return
	}

	strategy := backoff.NewExponentialBackOff()
	strategy.MaxElapsedTime = config.NotifyTimeout

	onError := func(err error, wait time.Duration) {
		d.logger.WithError(err).WithField("retry_in", wait).Warn("notification delivery failed")
	}

	err := backoff.RetryNotify(func() error {
		return d.sender.Send(title, message)
	}, strategy, onError)
	if err != nil {
		d.logger.WithError(err).WithField("title", title).Error("Giving up on notification")
	}
}
