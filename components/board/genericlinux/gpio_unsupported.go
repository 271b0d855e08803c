//go:build !linux

package genericlinux

import (
	"context"

	"github.com/pkg/errors"

	"go.viam.com/hcsr04/components/board"
	"go.viam.com/hcsr04/logging"
)

var errUnsupported = errors.New("gpio lines are only supported on linux")

// Board is implemented in the Linux version. We have a dummy struct here just to get things to
// compile on non-Linux environments.
type Board struct{}

// NewBoard always fails outside of Linux.
func NewBoard(ctx context.Context, conf *board.Config, logger logging.Logger) (*Board, error) {
	return nil, errUnsupported
}

// GPIOPinByName always fails outside of Linux.
func (b *Board) GPIOPinByName(name, consumer string) (board.GPIOPin, error) {
	return nil, errUnsupported
}

// EdgeLineByName always fails outside of Linux.
func (b *Board) EdgeLineByName(name, consumer string) (board.EdgeLine, error) {
	return nil, errUnsupported
}

// Close is a no-op.
func (b *Board) Close(ctx context.Context) error {
	return nil
}
