package ultrasonic

import (
	"math"
	"testing"
	"time"

	"github.com/pkg/errors"
	"go.viam.com/test"

	"go.viam.com/hcsr04/units"
)

func TestDistanceFromTimeOfFlight(t *testing.T) {
	test.That(t, distanceFromTimeOfFlight(0).Value(), test.ShouldEqual, 0)
	test.That(t, distanceFromTimeOfFlight(time.Millisecond).Value(), test.ShouldAlmostEqual, 17.15, 1e-9)
	test.That(t, distanceFromTimeOfFlight(DefaultTimeout).Meters().Value(), test.ShouldAlmostEqual, 1.4999, 1e-3)
}

func TestResolve(t *testing.T) {
	m := resolve(time.Millisecond, nil)
	test.That(t, m.TooClose, test.ShouldBeFalse)
	test.That(t, m.TimeOfFlight, test.ShouldEqual, time.Millisecond)

	threshold := units.Cm(17.1)
	m = resolve(time.Millisecond, &threshold)
	test.That(t, m.TooClose, test.ShouldBeFalse)

	threshold = units.Mm(172)
	m = resolve(time.Millisecond, &threshold)
	test.That(t, m.TooClose, test.ShouldBeTrue)
	test.That(t, m.Distance.Value(), test.ShouldAlmostEqual, 17.15, 1e-9)
}

func TestRangeToTimeout(t *testing.T) {
	timeout, err := RangeToTimeout(units.Meter(1.5))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, timeout.Seconds(), test.ShouldAlmostEqual, 0.75/343, 1e-12)

	for _, v := range []float64{0, 0.01, 1, 1.5, 4, 400} {
		inM, err := RangeToTimeout(units.Meter(v))
		test.That(t, err, test.ShouldBeNil)
		inCm, err := RangeToTimeout(units.Cm(v * 100))
		test.That(t, err, test.ShouldBeNil)
		test.That(t, inCm.Seconds(), test.ShouldAlmostEqual, inM.Seconds(), 1e-9)
	}

	for _, v := range []float64{0, 1, 1500} {
		timeout, err := RangeToTimeout(units.Mm(v))
		test.That(t, errors.Is(err, ErrInvalidUnit), test.ShouldBeTrue)
		test.That(t, timeout, test.ShouldEqual, time.Duration(0))
	}

	for _, r := range []units.Distance{units.Cm(-150), units.Meter(-0.01), units.Cm(math.NaN()), units.Meter(math.NaN())} {
		timeout, err := RangeToTimeout(r)
		test.That(t, err, test.ShouldNotBeNil)
		test.That(t, err.Error(), test.ShouldContainSubstring, "non-negative")
		test.That(t, timeout, test.ShouldEqual, time.Duration(0))
	}
}
