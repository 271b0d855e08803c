// Package units holds unit-tagged physical quantities used by the ranging sensors.
//
// A Distance never exists as a bare float: its magnitude is always read relative to
// its unit, and comparisons between distances go through centimeters.
package units

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// DistanceUnit tags the magnitude of a Distance.
type DistanceUnit int

// The supported distance units.
const (
	Millimeter DistanceUnit = iota
	Centimeter
	MeterUnit
)

func (u DistanceUnit) String() string {
	switch u {
	case Millimeter:
		return "mm"
	case Centimeter:
		return "cm"
	case MeterUnit:
		return "m"
	default:
		return fmt.Sprintf("DistanceUnit(%d)", int(u))
	}
}

// Distance is a length together with the unit it is expressed in.
type Distance struct {
	value float64
	unit  DistanceUnit
}

// Mm returns a distance of v millimeters.
func Mm(v float64) Distance {
	return Distance{value: v, unit: Millimeter}
}

// Cm returns a distance of v centimeters.
func Cm(v float64) Distance {
	return Distance{value: v, unit: Centimeter}
}

// Meter returns a distance of v meters.
func Meter(v float64) Distance {
	return Distance{value: v, unit: MeterUnit}
}

// Value returns the magnitude of d in its own unit.
func (d Distance) Value() float64 {
	return d.value
}

// Unit returns the unit tag of d.
func (d Distance) Unit() DistanceUnit {
	return d.unit
}

// WithValue returns a distance with magnitude v and the same unit as d.
func (d Distance) WithValue(v float64) Distance {
	return Distance{value: v, unit: d.unit}
}

// Centimeters returns the magnitude of d expressed in centimeters.
func (d Distance) Centimeters() float64 {
	switch d.unit {
	case Millimeter:
		return d.value / 10
	case MeterUnit:
		return d.value * 100
	default:
		return d.value
	}
}

// In returns a new distance equal to d expressed in unit u.
func (d Distance) In(u DistanceUnit) Distance {
	if d.unit == u {
		return d
	}
	cm := d.Centimeters()
	switch u {
	case Millimeter:
		return Mm(cm * 10)
	case MeterUnit:
		return Meter(cm / 100)
	default:
		return Cm(cm)
	}
}

// Millimeters returns d as a millimeter distance.
func (d Distance) Millimeters() Distance {
	return d.In(Millimeter)
}

// Meters returns d as a meter distance.
func (d Distance) Meters() Distance {
	return d.In(MeterUnit)
}

// Less reports whether d is shorter than other, comparing in centimeters.
func (d Distance) Less(other Distance) bool {
	return d.Centimeters() < other.Centimeters()
}

func (d Distance) String() string {
	return fmt.Sprintf("%g%s", d.value, d.unit)
}

// New returns a distance of v in unit u.
func New(v float64, u DistanceUnit) Distance {
	return Distance{value: v, unit: u}
}

// ParseDistanceUnit parses "mm", "cm" or "m". The empty string means centimeters.
func ParseDistanceUnit(s string) (DistanceUnit, error) {
	switch strings.ToLower(s) {
	case "", "cm":
		return Centimeter, nil
	case "mm":
		return Millimeter, nil
	case "m":
		return MeterUnit, nil
	default:
		return Centimeter, errors.Errorf("unknown distance unit %q", s)
	}
}
