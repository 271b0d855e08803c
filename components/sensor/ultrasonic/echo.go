package ultrasonic

import (
	"fmt"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/pkg/errors"

	"go.viam.com/hcsr04/components/board"
)

// DefaultTimeout is the whole echo budget used when the caller gives no timeout. It covers
// targets up to roughly 1.5m.
const DefaultTimeout = 8746 * time.Microsecond

// timeoutBudget returns the time allowed for both edges of one echo.
func timeoutBudget(timeout time.Duration) time.Duration {
	if timeout <= 0 {
		return DefaultTimeout
	}
	return 2 * timeout
}

type echoState int

const (
	echoIdle echoState = iota
	echoAwaitingRisingEdge
	echoAwaitingFallingEdge
	echoComputed
	echoFailed
)

func (s echoState) String() string {
	switch s {
	case echoIdle:
		return "idle"
	case echoAwaitingRisingEdge:
		return "awaiting rising edge"
	case echoAwaitingFallingEdge:
		return "awaiting falling edge"
	case echoComputed:
		return "computed"
	case echoFailed:
		return "failed"
	default:
		return fmt.Sprintf("echoState(%d)", int(s))
	}
}

// echoTimer times one echo pulse on a fresh edge subscription. Both waits draw from the same
// budget, measured from start.
type echoTimer struct {
	source board.EdgeEventSource
	clock  clock.Clock
	budget time.Duration
	start  time.Time

	state      echoState
	rise, fall time.Time
}

func newEchoTimer(source board.EdgeEventSource, clk clock.Clock, budget time.Duration) *echoTimer {
	return &echoTimer{source: source, clock: clk, budget: budget, start: clk.Now()}
}

// remaining is never negative.
func (et *echoTimer) remaining() time.Duration {
	left := et.budget - et.clock.Since(et.start)
	if left < 0 {
		return 0
	}
	return left
}

// await blocks until an edge of the wanted type arrives and returns its timestamp. Edges of the
// other type are skipped.
func (et *echoTimer) await(want board.EdgeType) (time.Time, error) {
	for {
		event, err := et.source.WaitNext(et.remaining())
		if err != nil {
			return time.Time{}, newError(KindIO, "read echo", err)
		}
		if event == nil {
			return time.Time{}, newError(KindTimeout, "read echo",
				errors.Errorf("no %s edge within %s", want, et.budget))
		}
		if event.Type == want {
			return event.Time, nil
		}
	}
}

// run returns the time of flight: the width of the echo pulse.
func (et *echoTimer) run() (time.Duration, error) {
	var err error

	et.state = echoAwaitingRisingEdge
	if et.rise, err = et.await(board.RisingEdge); err != nil {
		et.state = echoFailed
		return 0, err
	}

	et.state = echoAwaitingFallingEdge
	if et.fall, err = et.await(board.FallingEdge); err != nil {
		et.state = echoFailed
		return 0, err
	}

	tof := et.fall.Sub(et.rise)
	if tof < 0 {
		et.state = echoFailed
		return 0, newError(KindIO, "read echo", errors.Errorf("falling edge %s before rising edge", -tof))
	}
	et.state = echoComputed
	return tof, nil
}
