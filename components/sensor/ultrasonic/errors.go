package ultrasonic

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind classifies why a measurement could not produce a distance.
type Kind int

// The failure kinds a measurement can end in.
const (
	// KindInit means acquiring the GPIO lines failed.
	KindInit Kind = iota + 1
	// KindSubscription means the echo line's edge subscription failed for one cycle.
	KindSubscription
	// KindIO means driving the trigger or reading an edge failed, or no distance was
	// measured at a unit-specific accessor.
	KindIO
	// KindTimeout means an edge did not arrive within the timeout budget.
	KindTimeout
)

func (k Kind) String() string {
	switch k {
	case KindInit:
		return "init"
	case KindSubscription:
		return "subscription"
	case KindIO:
		return "io"
	case KindTimeout:
		return "timeout"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Sentinels for errors.Is. Any *Error matches the sentinel of its Kind.
var (
	ErrInit         = errors.New("ultrasonic: cannot initialize sensor")
	ErrSubscription = errors.New("ultrasonic: cannot subscribe to echo edges")
	ErrIO           = errors.New("ultrasonic: gpio i/o failed")
	ErrTimeout      = errors.New("ultrasonic: timed out waiting for echo")

	// ErrNoMeasurement is wrapped in a KindIO error when an echo was timed but the target was
	// closer than the configured minimum distance.
	ErrNoMeasurement = errors.New("ultrasonic: no measurement")
	// ErrInvalidUnit is returned by RangeToTimeout for ranges it cannot convert.
	ErrInvalidUnit = errors.New("ultrasonic: range must be in m or cm")
)

func (k Kind) sentinel() error {
	switch k {
	case KindInit:
		return ErrInit
	case KindSubscription:
		return ErrSubscription
	case KindIO:
		return ErrIO
	case KindTimeout:
		return ErrTimeout
	default:
		return nil
	}
}

// Error is the error returned by every sensor operation.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func newError(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("ultrasonic: %s: %s error", e.Op, e.Kind)
	}
	return fmt.Sprintf("ultrasonic: %s: %s error: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is the sentinel for e's Kind.
func (e *Error) Is(target error) bool {
	s := e.Kind.sentinel()
	return s != nil && target == s
}

// KindOf returns the Kind of the first *Error in err's chain, or 0 if there is none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}
