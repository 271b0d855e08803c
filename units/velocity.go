package units

import "fmt"

// VelocityUnit tags the magnitude of a Velocity.
type VelocityUnit int

// The supported velocity units.
const (
	MetersPerSecondUnit VelocityUnit = iota
	CentimetersPerSecondUnit
)

func (u VelocityUnit) String() string {
	switch u {
	case MetersPerSecondUnit:
		return "m/s"
	case CentimetersPerSecondUnit:
		return "cm/s"
	default:
		return fmt.Sprintf("VelocityUnit(%d)", int(u))
	}
}

// Velocity is a speed together with the unit it is expressed in.
type Velocity struct {
	value float64
	unit  VelocityUnit
}

// MetersPerSecond returns a velocity of v meters per second.
func MetersPerSecond(v float64) Velocity {
	return Velocity{value: v, unit: MetersPerSecondUnit}
}

// CentimetersPerSecond returns a velocity of v centimeters per second.
func CentimetersPerSecond(v float64) Velocity {
	return Velocity{value: v, unit: CentimetersPerSecondUnit}
}

// Value returns the magnitude of v in its own unit.
func (v Velocity) Value() float64 {
	return v.value
}

// Unit returns the unit tag of v.
func (v Velocity) Unit() VelocityUnit {
	return v.unit
}

// MetersPerSecond returns the magnitude of v in meters per second.
func (v Velocity) MetersPerSecond() float64 {
	if v.unit == CentimetersPerSecondUnit {
		return v.value / 100
	}
	return v.value
}

func (v Velocity) String() string {
	return fmt.Sprintf("%g%s", v.value, v.unit)
}

// speed of sound in dry air at roughly 20C.
const speedOfSoundMPS = 343.0

// SpeedOfSound returns the speed of sound used for time-of-flight conversions.
func SpeedOfSound() Velocity {
	return MetersPerSecond(speedOfSoundMPS)
}
