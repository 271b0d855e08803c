package ultrasonic

import (
	"math"
	"time"

	"github.com/pkg/errors"

	"go.viam.com/hcsr04/units"
)

// Measurement is the outcome of one completed echo cycle.
type Measurement struct {
	TimeOfFlight time.Duration
	// Distance is in centimeters.
	Distance units.Distance
	// TooClose is set when Distance is below the sensor's minimum distance. Such a measurement
	// is not a reading of any target.
	TooClose bool
}

// distanceFromTimeOfFlight halves the round trip: cm = tof * speed * 100 / 2.
func distanceFromTimeOfFlight(tof time.Duration) units.Distance {
	return units.Cm(50 * units.SpeedOfSound().MetersPerSecond() * tof.Seconds())
}

func resolve(tof time.Duration, minDistance *units.Distance) Measurement {
	m := Measurement{TimeOfFlight: tof, Distance: distanceFromTimeOfFlight(tof)}
	if minDistance != nil && m.Distance.Less(*minDistance) {
		m.TooClose = true
	}
	return m
}

// RangeToTimeout returns the timeout to pass to a measurement so that it waits just long enough
// for an echo from the given range. Ranges must be in meters or centimeters and not negative.
func RangeToTimeout(r units.Distance) (time.Duration, error) {
	if v := r.Value(); v < 0 || math.IsNaN(v) {
		return 0, errors.Errorf("range %s must be a non-negative distance", r)
	}
	speed := units.SpeedOfSound().MetersPerSecond()
	var seconds float64
	switch r.Unit() {
	case units.MeterUnit:
		seconds = (r.Value() / 2) / speed
	case units.Centimeter:
		seconds = (r.Value() / 200) / speed
	default:
		return 0, errors.Wrapf(ErrInvalidUnit, "got %s", r)
	}
	return time.Duration(seconds * float64(time.Second)), nil
}
