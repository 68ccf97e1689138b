package can

import (
	"bufio"
	"context"
	"fmt"
	"strconv"

	"github.com/sirupsen/logrus"
	"github.com/tarm/serial"
)

// SLCAN setup commands. S6 selects 500 kbit/s, the i-MiEV bus rate.
const (
	cmdClose      = "C"
	cmdBitrate    = "S6"
	cmdOpen       = "O"
	cmdListenOnly = "L"
)

// Reader consumes an SLCAN ("Lawicel") serial adapter and turns its text
// records into Frames. Unless transmission is explicitly permitted the
// adapter is opened in listen-only mode so the daemon can never disturb
// the vehicle bus.
type Reader struct {
	port   *serial.Port
	frames chan Frame
	logger *logrus.Logger
}

// Open configures the adapter and leaves the bus attached.
func Open(device string, baud int, allowTransmit bool, logger *logrus.Logger) (*Reader, error) {
	port, err := serial.OpenPort(&serial.Config{Name: device, Baud: baud})
	if err != nil {
		return nil, fmt.Errorf("open serial port %s: %w", device, err)
	}

	mode := cmdListenOnly
	if allowTransmit {
		mode = cmdOpen
	}
	for _, cmd := range []string{cmdClose, cmdBitrate, mode} {
		if _, err := port.Write([]byte(cmd + "\r")); err != nil {
			port.Close()
			return nil, fmt.Errorf("slcan command %q: %w", cmd, err)
		}
	}

	logger.WithFields(logrus.Fields{
		"device": device,
		"mode":   mode,
	}).Info("SLCAN adapter attached")

	return &Reader{
		port:   port,
		frames: make(chan Frame, 64),
		logger: logger,
	}, nil
}

// Frames returns the channel Run delivers decoded frames on. The channel
// is closed when the serial stream ends.
func (r *Reader) Frames() <-chan Frame {
	return r.frames
}

// Run reads the adapter until ctx is cancelled or the port fails.
// Malformed records are dropped; the vehicle keeps talking regardless.
func (r *Reader) Run(ctx context.Context) error {
	defer close(r.frames)
	defer r.port.Close()

	scanner := bufio.NewScanner(r.port)
	scanner.Split(scanRecords)

	for scanner.Scan() {
		frame, err := ParseFrame(scanner.Text())
		if err != nil {
			r.logger.WithError(err).Debug("dropping SLCAN record")
			continue
		}
		select {
		case r.frames <- frame:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("serial read: %w", err)
	}
	return nil
}

// scanRecords splits the stream on the CR that terminates every SLCAN
// record. BELL (0x07) is the adapter's error response and scans as an
// empty record, which ParseFrame rejects.
func scanRecords(data []byte, atEOF bool) (int, []byte, error) {
	for i, b := range data {
		if b == '\r' || b == '\a' {
			return i + 1, data[:i], nil
		}
	}
	if atEOF && len(data) > 0 {
		return len(data), data, nil
	}
	return 0, nil, nil
}

// ParseFrame decodes one SLCAN data record of the form "tIIILDD...": a
// standard-ID transmit marker, three hex ID digits, one hex length digit
// and two hex digits per data byte. Extended and remote frames are not
// used by this vehicle and are rejected.
func ParseFrame(record string) (Frame, error) {
	if len(record) < 5 || record[0] != 't' {
		return Frame{}, fmt.Errorf("not a standard data record: %q", record)
	}

	id, err := strconv.ParseUint(record[1:4], 16, 32)
	if err != nil {
		return Frame{}, fmt.Errorf("bad identifier in %q: %w", record, err)
	}
	length, err := strconv.ParseUint(record[4:5], 16, 8)
	if err != nil || length > 8 {
		return Frame{}, fmt.Errorf("bad length in %q", record)
	}
	if len(record) < 5+int(length)*2 {
		return Frame{}, fmt.Errorf("truncated record %q", record)
	}

	frame := Frame{ID: uint32(id), Len: int(length)}
	for i := 0; i < int(length); i++ {
		b, err := strconv.ParseUint(record[5+i*2:7+i*2], 16, 8)
		if err != nil {
			return Frame{}, fmt.Errorf("bad data byte %d in %q: %w", i, record, err)
		}
		frame.Data[i] = byte(b)
	}
	return frame, nil
}
