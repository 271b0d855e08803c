package ultrasonic

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"go.viam.com/hcsr04/components/board"
)

const (
	triggerSettle = 2 * time.Microsecond
	triggerPulse  = 10 * time.Microsecond
)

// pulseTrigger drives trigger low, high for triggerPulse, then low again, which makes the
// sensor emit one burst. The first failed level change ends the measurement.
func pulseTrigger(ctx context.Context, trigger board.GPIOPin) error {
	if err := trigger.Set(ctx, false, nil); err != nil {
		return newError(KindIO, "trigger", errors.Wrap(err, "cannot set trigger pin to low"))
	}
	time.Sleep(triggerSettle)
	if err := trigger.Set(ctx, true, nil); err != nil {
		return newError(KindIO, "trigger", errors.Wrap(err, "cannot set trigger pin to high"))
	}
	time.Sleep(triggerPulse)
	if err := trigger.Set(ctx, false, nil); err != nil {
		return newError(KindIO, "trigger", errors.Wrap(err, "cannot set trigger pin to low"))
	}
	return nil
}
