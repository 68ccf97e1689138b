package app

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/jmelgaard/miev-hass/internal/bus"
	"github.com/jmelgaard/miev-hass/internal/can"
	"github.com/jmelgaard/miev-hass/internal/config"
	"github.com/jmelgaard/miev-hass/internal/notify"
	"github.com/jmelgaard/miev-hass/internal/recorder"
	"github.com/jmelgaard/miev-hass/internal/transmission"
	"github.com/jmelgaard/miev-hass/internal/vehicle"
)

// FrameSource produces decoded CAN frames. Run blocks until the stream
// ends; Frames is closed when it does.
type FrameSource interface {
	Run(ctx context.Context) error
	Frames() <-chan can.Frame
}

// Run wires the pipeline together and blocks until ctx is cancelled or
// the frame source dies.
//
// The monitor is only ever touched from the core loop goroutine: frames
// and ticks are serialized through one select, which is what lets the
// decoding core go without locks. Everything downstream consumes
// immutable snapshots off the bus.
func Run(
	parentCtx context.Context,
	cfg *config.Config,
	source FrameSource,
	monitor *vehicle.Monitor,
	dispatcher *notify.Dispatcher,
	mqttTx *transmission.MQTTTransmitter,
	rec *recorder.InfluxRecorder,
	logger *logrus.Logger,
) {
	ctx, cancel := context.WithCancel(parentCtx)
	defer cancel()

	messageBus := bus.New()
	grp, ctx := errgroup.WithContext(ctx)

	// Adapter ---------------------------------------------------------------
	grp.Go(func() error {
		return source.Run(ctx)
	})

	// Core loop -------------------------------------------------------------
	grp.Go(func() error {
		second := time.NewTicker(config.CoreTickInterval)
		defer second.Stop()
		slow := time.NewTicker(config.TempTickInterval)
		defer slow.Stop()
		return coreLoop(ctx, source, monitor, messageBus, second.C, slow.C)
	})

	// Notification dispatcher -----------------------------------------------
	grp.Go(func() error {
		return dispatcher.Run(ctx, messageBus.Subscribe())
	})

	// MQTT scheduler --------------------------------------------------------
	if mqttTx != nil {
		sub := messageBus.Subscribe()
		grp.Go(func() error {
			var latest, lastSent *vehicle.VehicleState
			lastAt := time.Now().Add(-cfg.MQTTInterval)

			ticker := time.NewTicker(1 * time.Second)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return ctx.Err()
				case snap, ok := <-sub:
					if !ok {
						return nil
					}
					latest = snap
				case <-ticker.C:
					if latest == nil {
						continue
					}
					now := time.Now()
					if now.Sub(lastAt) < cfg.MQTTInterval {
						continue
					}
					if !changed(lastSent, latest) {
						continue
					}
					if err := mqttTx.Transmit(latest); err != nil {
						logger.WithError(err).Warn("MQTT transmit failed")
						// Reset lastSent so changed() evaluates true on the
						// next tick; bump lastAt so the interval is still
						// respected.
						lastSent = nil
						lastAt = now
					} else {
						lastSent = latest
						lastAt = now
					}
				}
			}
		})
	}

	// Recorder --------------------------------------------------------------
	if rec != nil {
		sub := messageBus.Subscribe()
		grp.Go(func() error {
			var latest *vehicle.VehicleState
			ticker := time.NewTicker(cfg.RecordInterval)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return ctx.Err()
				case snap, ok := <-sub:
					if !ok {
						return nil
					}
					latest = snap
				case <-ticker.C:
					if latest == nil {
						continue
					}
					if err := rec.Insert(latest); err != nil {
						logger.WithError(err).Warn("recorder insert failed")
					}
				}
			}
		})
	}

	if err := grp.Wait(); err != nil && err != context.Canceled {
		logger.WithError(err).Warn("app: background group exited")
	}
}

// coreLoop serializes frames and ticks into the monitor and publishes a
// snapshot per second tick. It is the only goroutine that touches the
// monitor.
func coreLoop(
	ctx context.Context,
	source FrameSource,
	monitor *vehicle.Monitor,
	messageBus *bus.Bus,
	second, slow <-chan time.Time,
) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case f, ok := <-source.Frames():
			if !ok {
				// Run's error carries the cause.
				return nil
			}
			group, ok := can.GroupForID(f.ID)
			if !ok {
				continue
			}
			switch group {
			case can.GroupEnergy:
				monitor.HandleEnergyFrame(f)
			case can.GroupBody:
				monitor.HandleBodyFrame(f)
			}
		case <-second:
			monitor.TickSecond()
			snap := monitor.Snapshot()
			messageBus.Publish(&snap)
		case <-slow:
			monitor.TickTenSeconds()
		}
	}
}

// changed reports whether cur differs from prev beyond the fields that
// tick on their own. The seconds counter advances every publication, so
// it is excluded from the comparison.
func changed(prev, cur *vehicle.VehicleState) bool {
	if prev == nil || cur == nil {
		return prev != cur
	}
	p, c := *prev, *cur
	p.Seconds, c.Seconds = 0, 0
	return p != c
}
