// Package board defines the GPIO lines ranging sensors drive and listen on, and the boards
// that hand them out.
package board

import "context"

// A Board hands out GPIO lines by name.
type Board interface {
	// GPIOPinByName claims the named pin as an output, initially low. The consumer label is
	// shown to other users of the GPIO chip.
	GPIOPinByName(name, consumer string) (GPIOPin, error)

	// EdgeLineByName identifies the named pin as an input for later edge subscriptions.
	EdgeLineByName(name, consumer string) (EdgeLine, error)

	// Close releases every line the board still holds.
	Close(ctx context.Context) error
}
