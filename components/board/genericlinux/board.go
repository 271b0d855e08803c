//go:build linux

// Package genericlinux implements a Linux board whose GPIO lines are requested through the
// character-device ioctl interface, indirectly by way of mkch's gpio package, or through periph.io.
package genericlinux

import (
	"context"
	"strconv"
	"sync"

	"github.com/mkch/gpio"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.viam.com/utils"
	"periph.io/x/host/v3"

	"go.viam.com/hcsr04/components/board"
	"go.viam.com/hcsr04/logging"
)

var _ = board.Board(&Board{})

// Board hands out lines of a single GPIO chip.
type Board struct {
	mu            sync.Mutex
	devicePath    string
	usePeriphGpio bool
	pins          map[string]board.GPIOPin
	logger        logging.Logger
}

// NewBoard opens the chip described by conf. With UsePeriphGpio set, pins are looked up by
// their periph.io names instead of line offsets.
func NewBoard(ctx context.Context, conf *board.Config, logger logging.Logger) (*Board, error) {
	if err := conf.Validate("board"); err != nil {
		return nil, err
	}
	b := &Board{
		devicePath:    conf.ChipPath(),
		usePeriphGpio: conf.UsePeriphGpio,
		pins:          map[string]board.GPIOPin{},
		logger:        logger,
	}

	if b.usePeriphGpio {
		if _, err := host.Init(); err != nil {
			return nil, errors.Wrap(err, "cannot initialize periph host drivers")
		}
		logger.Debug("using periph gpio")
		return b, nil
	}

	// Make sure the chip exists before anyone asks for a line on it.
	chip, err := gpio.OpenChip(b.devicePath)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot open gpio chip %q", b.devicePath)
	}
	utils.UncheckedErrorFunc(chip.Close)
	logger.Debugw("opened gpio chip", "chip", b.devicePath)
	return b, nil
}

// GPIOPinByName claims the named line as an output driven low. A pin can be claimed again once
// it has been closed.
func (b *Board) GPIOPinByName(name, consumer string) (board.GPIOPin, error) {
	return b.claim(name, func() (board.GPIOPin, error) {
		if b.usePeriphGpio {
			p, err := newPeriphGpioPin(name)
			if err != nil {
				return nil, err
			}
			return p, nil
		}
		offset, err := parseOffset(name)
		if err != nil {
			return nil, err
		}
		p := &gpioPin{devicePath: b.devicePath, offset: offset, consumer: consumer}
		if err := p.openGpioFd(); err != nil {
			return nil, errors.Wrapf(err, "cannot request output line %d", offset)
		}
		return p, nil
	})
}

func (b *Board) claim(name string, open func() (board.GPIOPin, error)) (board.GPIOPin, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.pins[name]; ok {
		return nil, errors.Errorf("pin %q is already claimed", name)
	}
	pin, err := open()
	if err != nil {
		return nil, err
	}
	b.pins[name] = pin
	return &claimedPin{GPIOPin: pin, release: func() { b.release(name, pin) }}, nil
}

func (b *Board) release(name string, pin board.GPIOPin) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.pins[name] == pin {
		delete(b.pins, name)
	}
}

// claimedPin gives its name back to the board when closed.
type claimedPin struct {
	board.GPIOPin
	release func()
}

func (p *claimedPin) Close() error {
	defer p.release()
	return p.GPIOPin.Close()
}

// EdgeLineByName identifies the named line as an edge-event input. The line must exist on the
// chip; it is only requested when subscribed to.
func (b *Board) EdgeLineByName(name, consumer string) (board.EdgeLine, error) {
	if b.usePeriphGpio {
		line, err := newPeriphEdgeLine(name)
		if err != nil {
			return nil, err
		}
		return line, nil
	}
	offset, err := parseOffset(name)
	if err != nil {
		return nil, err
	}

	chip, err := gpio.OpenChip(b.devicePath)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot open gpio chip %q", b.devicePath)
	}
	defer utils.UncheckedErrorFunc(chip.Close)
	info, err := chip.Info()
	if err != nil {
		return nil, err
	}
	if err := checkOffset(offset, info.NumLines); err != nil {
		return nil, errors.Wrapf(err, "gpio chip %q", b.devicePath)
	}
	return &edgeLine{devicePath: b.devicePath, offset: offset, consumer: consumer}, nil
}

// Close releases every output line claimed from the board.
func (b *Board) Close(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	var err error
	for name, pin := range b.pins {
		err = multierr.Combine(err, pin.Close())
		delete(b.pins, name)
	}
	return err
}

func checkOffset(offset, numLines uint32) error {
	if offset >= numLines {
		return errors.Errorf("line %d does not exist, chip has %d lines", offset, numLines)
	}
	return nil
}

func parseOffset(name string) (uint32, error) {
	offset, err := strconv.ParseUint(name, 10, 32)
	if err != nil {
		return 0, errors.Errorf("pin %q is not a line offset", name)
	}
	return uint32(offset), nil
}
