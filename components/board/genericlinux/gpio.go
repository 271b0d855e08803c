//go:build linux

package genericlinux

import (
	"context"
	"sync"

	"github.com/mkch/gpio"
	"go.viam.com/utils"
)

type gpioPin struct {
	// These values should all be considered immutable.
	devicePath string
	offset     uint32
	consumer   string

	mu   sync.Mutex
	line *gpio.Line
}

// This is a private helper function that should only be called when the mutex is locked or before
// the pin is shared. It sets pin.line to a valid struct or returns an error.
func (pin *gpioPin) openGpioFd() error {
	if pin.line != nil {
		return nil // If the pin is already opened, don't re-open it.
	}

	chip, err := gpio.OpenChip(pin.devicePath)
	if err != nil {
		return err
	}
	defer utils.UncheckedErrorFunc(chip.Close)

	// The 0 means the line starts out low.
	line, err := chip.OpenLine(pin.offset, 0, gpio.Output, pin.consumer)
	if err != nil {
		return err
	}
	pin.line = line
	return nil
}

// This helps implement the board.GPIOPin interface for gpioPin.
func (pin *gpioPin) Set(ctx context.Context, isHigh bool, extra map[string]interface{}) error {
	pin.mu.Lock()
	defer pin.mu.Unlock()

	if err := pin.openGpioFd(); err != nil {
		return err
	}

	var value byte
	if isHigh {
		value = 1
	}
	return pin.line.SetValue(value)
}

// This helps implement the board.GPIOPin interface for gpioPin.
func (pin *gpioPin) Get(ctx context.Context, extra map[string]interface{}) (bool, error) {
	pin.mu.Lock()
	defer pin.mu.Unlock()

	if err := pin.openGpioFd(); err != nil {
		return false, err
	}

	value, err := pin.line.Value()
	if err != nil {
		return false, err
	}

	// We'd expect value to be either 0 or 1, but any non-zero value should be considered high.
	return value != 0, nil
}

func (pin *gpioPin) Close() error {
	pin.mu.Lock()
	defer pin.mu.Unlock()

	if pin.line == nil {
		return nil // Never opened or already closed.
	}

	err := pin.line.Close()
	pin.line = nil
	return err
}
