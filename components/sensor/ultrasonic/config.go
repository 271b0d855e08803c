package ultrasonic

import (
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/pkg/errors"
	"go.viam.com/utils"

	"go.viam.com/hcsr04/units"
)

// Config is used for converting config attributes.
type Config struct {
	TriggerPin string `json:"trigger_pin"`
	EchoPin    string `json:"echo_pin"`
	// TimeoutMs is used for measurements that do not pass their own timeout.
	TimeoutMs uint `json:"timeout_ms,omitempty"`
	// MinDistance, when positive, makes shorter readings count as no measurement.
	MinDistance     float64 `json:"min_distance,omitempty"`
	MinDistanceUnit string  `json:"min_distance_unit,omitempty"`
}

// Validate ensures all parts of the config are valid.
func (conf *Config) Validate(path string) ([]string, error) {
	if conf.TriggerPin == "" {
		return nil, utils.NewConfigValidationFieldRequiredError(path, "trigger_pin")
	}
	if conf.EchoPin == "" {
		return nil, utils.NewConfigValidationFieldRequiredError(path, "echo_pin")
	}
	if conf.TriggerPin == conf.EchoPin {
		return nil, utils.NewConfigValidationError(path, errors.New("trigger_pin and echo_pin must differ"))
	}
	if conf.MinDistance < 0 {
		return nil, utils.NewConfigValidationError(path, errors.New("min_distance cannot be negative"))
	}
	if _, err := units.ParseDistanceUnit(conf.MinDistanceUnit); err != nil {
		return nil, utils.NewConfigValidationError(path, err)
	}
	return nil, nil
}

// minDistance returns the configured threshold, or nil when there is none.
func (conf *Config) minDistance() (*units.Distance, error) {
	if conf.MinDistance <= 0 {
		return nil, nil
	}
	unit, err := units.ParseDistanceUnit(conf.MinDistanceUnit)
	if err != nil {
		return nil, err
	}
	d := units.New(conf.MinDistance, unit)
	return &d, nil
}

func (conf *Config) timeout() time.Duration {
	return time.Duration(conf.TimeoutMs) * time.Millisecond
}

// ConfigFromAttributes decodes a loosely typed attribute map, keyed by the json names of
// Config's fields.
func ConfigFromAttributes(attributes map[string]interface{}) (*Config, error) {
	var conf Config
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		Result:           &conf,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return nil, errors.Wrap(err, "error creating decoder for config")
	}
	if err := decoder.Decode(attributes); err != nil {
		return nil, errors.Wrap(err, "cannot decode ultrasonic attributes")
	}
	return &conf, nil
}
