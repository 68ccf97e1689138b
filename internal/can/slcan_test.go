package can

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFrame(t *testing.T) {
	frame, err := ParseFrame("t34680102030405060708")
	require.NoError(t, err)
	assert.Equal(t, uint32(0x346), frame.ID)
	assert.Equal(t, 8, frame.Len)
	assert.Equal(t, [8]byte{1, 2, 3, 4, 5, 6, 7, 8}, frame.Data)
}

func TestParseFrameShortPayload(t *testing.T) {
	frame, err := ParseFrame("t2852AABB")
	require.NoError(t, err)
	assert.Equal(t, uint32(0x285), frame.ID)
	assert.Equal(t, 2, frame.Len)
	assert.Equal(t, byte(0xAA), frame.Data[0])
	assert.Equal(t, byte(0xBB), frame.Data[1])
}

func TestParseFrameRejectsGarbage(t *testing.T) {
	for _, record := range []string{
		"",             // adapter error response scans as an empty record
		"T12345678801", // extended frames unused on this bus
		"r3460",        // remote frames unused
		"t34",          // too short
		"t346Z",        // bad length digit
		"t346901020304050607080910", // length > 8
		"t34680102",                 // truncated data
		"t3461GG",                   // non-hex data byte
	} {
		_, err := ParseFrame(record)
		assert.Error(t, err, record)
	}

	// Extra trailing characters are tolerated; some adapters append a
	// timestamp after the data bytes.
	frame, err := ParseFrame("t34620102ABCD")
	assert.NoError(t, err)
	assert.Equal(t, 2, frame.Len)
}

func TestGroupForID(t *testing.T) {
	energy := []uint32{0x340, 0x346, 0x373, 0x374, 0x377, 0x389}
	for _, id := range energy {
		group, ok := GroupForID(id)
		require.True(t, ok, "%#x", id)
		assert.Equal(t, GroupEnergy, group, "%#x", id)
	}

	body := []uint32{0x285, 0x286, 0x298, 0x412, 0x6E1}
	for _, id := range body {
		group, ok := GroupForID(id)
		require.True(t, ok, "%#x", id)
		assert.Equal(t, GroupBody, group, "%#x", id)
	}

	for _, id := range []uint32{0x000, 0x284, 0x287, 0x299, 0x33F, 0x378, 0x388, 0x38A, 0x6E2, 0x7FF} {
		_, ok := GroupForID(id)
		assert.False(t, ok, "%#x", id)
	}
}
