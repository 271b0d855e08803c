// Package sensor defines an abstract sensing device that can provide measurement readings.
package sensor

import "context"

// A Sensor represents a general purpose sensor that can give arbitrary readings
// of some thing that it is sensing.
type Sensor interface {
	// Readings return data specific to the type of sensor and can be of any type.
	Readings(ctx context.Context, extra map[string]interface{}) (map[string]interface{}, error)
	Close(ctx context.Context) error
}
