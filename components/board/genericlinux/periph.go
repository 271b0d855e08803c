//go:build linux

package genericlinux

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"

	"go.viam.com/hcsr04/components/board"
)

func getPeriphPin(name string) (gpio.PinIO, error) {
	pin := gpioreg.ByName(name)
	if pin == nil {
		return nil, errors.Errorf("no global pin found for %q", name)
	}
	return pin, nil
}

type periphGpioPin struct {
	pin gpio.PinIO
}

func newPeriphGpioPin(name string) (*periphGpioPin, error) {
	pin, err := getPeriphPin(name)
	if err != nil {
		return nil, err
	}
	if err := pin.Out(gpio.Low); err != nil {
		return nil, errors.Wrapf(err, "cannot drive pin %q low", name)
	}
	return &periphGpioPin{pin: pin}, nil
}

func (gp *periphGpioPin) Set(ctx context.Context, high bool, extra map[string]interface{}) error {
	l := gpio.Low
	if high {
		l = gpio.High
	}
	return gp.pin.Out(l)
}

func (gp *periphGpioPin) Get(ctx context.Context, extra map[string]interface{}) (bool, error) {
	return gp.pin.Read() == gpio.High, nil
}

func (gp *periphGpioPin) Close() error {
	return gp.pin.Halt()
}

type periphEdgeLine struct {
	pin gpio.PinIO
}

func newPeriphEdgeLine(name string) (*periphEdgeLine, error) {
	pin, err := getPeriphPin(name)
	if err != nil {
		return nil, err
	}
	return &periphEdgeLine{pin: pin}, nil
}

// SubscribeEdges re-arms edge detection, which also drops edges left over from the last cycle.
func (el *periphEdgeLine) SubscribeEdges(ctx context.Context) (board.EdgeEventSource, error) {
	if err := el.pin.In(gpio.PullDown, gpio.BothEdges); err != nil {
		return nil, errors.Wrapf(err, "cannot enable edge detection on %q", el.pin.Name())
	}
	return &periphEdgeSource{pin: el.pin}, nil
}

type periphEdgeSource struct {
	pin gpio.PinIO
}

// periph only reports that an edge happened, so the level read right after it decides the
// direction and the timestamp is taken on wakeup.
func (es *periphEdgeSource) WaitNext(timeout time.Duration) (*board.EdgeEvent, error) {
	if !es.pin.WaitForEdge(timeout) {
		return nil, nil
	}
	now := time.Now()
	edge := board.FallingEdge
	if es.pin.Read() == gpio.High {
		edge = board.RisingEdge
	}
	return &board.EdgeEvent{Type: edge, Time: now}, nil
}

func (es *periphEdgeSource) Close() error {
	return es.pin.In(gpio.PullDown, gpio.NoEdge)
}
