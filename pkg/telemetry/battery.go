package telemetry

import "math"

const (
	vddEmptyMillivolts = 2900
	vddFullMillivolts  = 4200
)

// VddPercent maps the battery rail voltage linearly onto 0..100.
func VddPercent(mv int64) int {
	if mv <= vddEmptyMillivolts {
		return 0
	}
	if mv >= vddFullMillivolts {
		return 100
	}
	return int(math.Round(float64(mv-vddEmptyMillivolts) / float64(vddFullMillivolts-vddEmptyMillivolts) * 100))
}
