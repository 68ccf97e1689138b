package units

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	for in, want := range map[string]System{
		"km":       Metric,
		"metric":   Metric,
		"mi":       Imperial,
		"imperial": Imperial,
	} {
		got, err := Parse(in)
		require.NoError(t, err)
		assert.Equal(t, want, got, in)
	}

	_, err := Parse("furlongs")
	assert.Error(t, err)
}

func TestDistance(t *testing.T) {
	assert.Equal(t, 100, Metric.Distance(100))
	assert.Equal(t, 62, Imperial.Distance(100))
	assert.Equal(t, 0, Imperial.Distance(0))

	// Conversion is linear, so tenth-unit odometer values go through the
	// same function.
	assert.Equal(t, 621, Imperial.Distance(1000))
}
