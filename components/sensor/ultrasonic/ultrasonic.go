// Package ultrasonic implements an HC-SR04 style ultrasonic range sensor on two GPIO lines: a
// trigger output and an echo input that reports edge events.
package ultrasonic

import (
	"context"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.viam.com/utils"

	"go.viam.com/hcsr04/components/board"
	"go.viam.com/hcsr04/components/sensor"
	"go.viam.com/hcsr04/logging"
	"go.viam.com/hcsr04/units"
)

var _ = sensor.Sensor(&Sensor{})

const (
	triggerConsumer = "hc-sr04-trigger"
	echoConsumer    = "hc-sr04-echo"
)

// Sensor is an ultrasonic sensor. It owns its trigger line and echo line; measurements on one
// Sensor run one at a time.
type Sensor struct {
	mu          sync.Mutex
	trigger     board.GPIOPin
	echo        board.EdgeLine
	minDistance *units.Distance
	timeout     time.Duration
	clock       clock.Clock
	logger      logging.Logger
}

// NewSensor claims the trigger line, driven low, and the echo line named in conf.
func NewSensor(ctx context.Context, b board.Board, conf *Config, logger logging.Logger) (*Sensor, error) {
	return newSensor(ctx, b, conf, clock.New(), logger)
}

func newSensor(
	ctx context.Context,
	b board.Board,
	conf *Config,
	clk clock.Clock,
	logger logging.Logger,
) (*Sensor, error) {
	logger.Debug("building ultrasonic sensor")
	if _, err := conf.Validate("ultrasonic"); err != nil {
		return nil, newError(KindInit, "new", err)
	}
	minDistance, err := conf.minDistance()
	if err != nil {
		return nil, newError(KindInit, "new", err)
	}

	trigger, err := b.GPIOPinByName(conf.TriggerPin, triggerConsumer)
	if err != nil {
		return nil, newError(KindInit, "new", errors.Wrapf(err, "cannot grab trigger pin %q", conf.TriggerPin))
	}
	echo, err := b.EdgeLineByName(conf.EchoPin, echoConsumer)
	if err != nil {
		return nil, newError(KindInit, "new", multierr.Combine(
			errors.Wrapf(err, "cannot grab echo pin %q", conf.EchoPin), trigger.Close()))
	}
	if err := trigger.Set(ctx, false, nil); err != nil {
		return nil, newError(KindInit, "new", multierr.Combine(
			errors.Wrap(err, "cannot set trigger pin to low"), trigger.Close()))
	}

	s := &Sensor{
		trigger:     trigger,
		echo:        echo,
		minDistance: minDistance,
		timeout:     conf.timeout(),
		clock:       clk,
		logger:      logger,
	}
	logger.Debugw("ultrasonic sensor ready",
		"trigger", conf.TriggerPin, "echo", conf.EchoPin, "min_distance", conf.MinDistance, "timeout", s.timeout)
	return s, nil
}

// Measure runs one trigger/echo cycle. A timeout <= 0 falls back to the configured timeout,
// and then to DefaultTimeout; the echo may take twice the timeout in total. A target closer
// than the minimum distance is reported through Measurement.TooClose, not as an error.
func (s *Sensor) Measure(ctx context.Context, timeout time.Duration) (Measurement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if timeout <= 0 {
		timeout = s.timeout
	}

	if err := pulseTrigger(ctx, s.trigger); err != nil {
		return Measurement{}, err
	}

	source, err := s.echo.SubscribeEdges(ctx)
	if err != nil {
		return Measurement{}, newError(KindSubscription, "subscribe echo", err)
	}
	defer utils.UncheckedErrorFunc(source.Close)

	et := newEchoTimer(source, s.clock, timeoutBudget(timeout))
	tof, err := et.run()
	if err != nil {
		s.logger.Debugw("echo failed", "state", et.state.String(), "error", err)
		return Measurement{}, err
	}

	m := resolve(tof, s.minDistance)
	s.logger.Debugw("echo timed", "tof", tof, "distance", m.Distance.String(), "too_close", m.TooClose)
	return m, nil
}

func (s *Sensor) measureIn(ctx context.Context, timeout time.Duration, unit units.DistanceUnit) (units.Distance, error) {
	m, err := s.Measure(ctx, timeout)
	if err != nil {
		return units.Distance{}, err
	}
	if m.TooClose {
		return units.Distance{}, newError(KindIO, "measure",
			errors.Wrapf(ErrNoMeasurement, "%s is closer than %s", m.Distance, s.minDistance))
	}
	return m.Distance.In(unit), nil
}

// MeasureCm measures the distance in centimeters.
func (s *Sensor) MeasureCm(ctx context.Context, timeout time.Duration) (units.Distance, error) {
	return s.measureIn(ctx, timeout, units.Centimeter)
}

// MeasureM measures the distance in meters.
func (s *Sensor) MeasureM(ctx context.Context, timeout time.Duration) (units.Distance, error) {
	return s.measureIn(ctx, timeout, units.MeterUnit)
}

// MeasureMm measures the distance in millimeters.
func (s *Sensor) MeasureMm(ctx context.Context, timeout time.Duration) (units.Distance, error) {
	return s.measureIn(ctx, timeout, units.Millimeter)
}

// Readings returns the distance to the nearest target in meters.
func (s *Sensor) Readings(ctx context.Context, extra map[string]interface{}) (map[string]interface{}, error) {
	d, err := s.MeasureM(ctx, 0)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{"distance": d.Value()}, nil
}

// Close releases the trigger line.
func (s *Sensor) Close(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logger.Debug("closing ultrasonic sensor")
	return s.trigger.Close()
}
