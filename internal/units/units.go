package units

import "fmt"

// System selects the distance unit the vehicle state is kept in. The CAN
// bus always reports kilometres; conversion happens once, at decode time.
type System int

const (
	Metric System = iota
	Imperial
)

// Parse maps the -units flag value to a System.
func Parse(s string) (System, error) {
	switch s {
	case "km", "metric":
		return Metric, nil
	case "mi", "imperial":
		return Imperial, nil
	}
	return Metric, fmt.Errorf("unknown unit system %q (want km or mi)", s)
}

func (s System) String() string {
	if s == Imperial {
		return "mi"
	}
	return "km"
}

// MilesFromKm converts with integer arithmetic. The factor is applied the
// same way to plain distances and tenth-unit odometer readings.
func MilesFromKm(km int) int {
	return km * 621 / 1000
}

// Distance converts a kilometre reading into the configured unit.
func (s System) Distance(km int) int {
	if s == Imperial {
		return MilesFromKm(km)
	}
	return km
}
