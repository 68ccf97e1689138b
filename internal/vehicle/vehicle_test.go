package vehicle

import (
	"io"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/jmelgaard/miev-hass/internal/can"
	"github.com/jmelgaard/miev-hass/internal/units"
)

// recordingNotifier counts core notifications per kind.
type recordingNotifier struct {
	events []Notification
}

func (r *recordingNotifier) Notify(n Notification) {
	r.events = append(r.events, n)
}

func (r *recordingNotifier) count(kind Notification) int {
	c := 0
	for _, n := range r.events {
		if n == kind {
			c++
		}
	}
	return c
}

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func newTestMonitor(t *testing.T) (*Monitor, *recordingNotifier) {
	t.Helper()
	n := &recordingNotifier{}
	return New(units.Metric, n, testLogger()), n
}

func frame(id uint32, data ...byte) can.Frame {
	f := can.Frame{ID: id, Len: 8}
	copy(f.Data[:], data)
	return f
}

func socFrame(soc int) can.Frame {
	return frame(FrameSOC, 0, byte(soc*2+10))
}

func rangeFrame(rng int) can.Frame {
	return frame(FrameRange, 0, 0, 0, 0, 0, 0, 0, byte(rng))
}

func chargerFrame(voltage, currentTenths int) can.Frame {
	return frame(FrameCharger, 0, byte(voltage), 0, 0, 0, 0, byte(currentTenths))
}

func speedFrame(raw byte) can.Frame {
	return frame(FrameSpeedOdo, 0, raw)
}

// assertQuickCharge walks the detector to the asserted state.
func assertQuickCharge(t *testing.T, m *Monitor) {
	t.Helper()
	for i := 0; i < qcCounterMax; i++ {
		m.HandleEnergyFrame(rangeFrame(qcSentinel))
	}
	if !m.state.QuickCharging {
		t.Fatal("quick charge not asserted after qualifying observations")
	}
}
