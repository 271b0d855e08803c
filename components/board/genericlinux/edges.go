//go:build linux

package genericlinux

import (
	"context"
	"io"
	"time"

	"github.com/mkch/gpio"
	"github.com/pkg/errors"
	"go.viam.com/utils"

	"go.viam.com/hcsr04/components/board"
)

type edgeLine struct {
	devicePath string
	offset     uint32
	consumer   string
}

// SubscribeEdges requests a fresh event line. The kernel hands out one event request per call,
// so the returned source must be closed before the next subscription.
func (el *edgeLine) SubscribeEdges(ctx context.Context) (board.EdgeEventSource, error) {
	chip, err := gpio.OpenChip(el.devicePath)
	if err != nil {
		return nil, err
	}
	defer utils.UncheckedErrorFunc(chip.Close)

	line, err := chip.OpenLineWithEvents(el.offset, gpio.Input, gpio.BothEdges, el.consumer)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot request edge events on line %d", el.offset)
	}
	return &edgeSource{events: line.Events(), closer: line}, nil
}

type edgeSource struct {
	events <-chan *gpio.Event
	closer io.Closer
}

func (es *edgeSource) WaitNext(timeout time.Duration) (*board.EdgeEvent, error) {
	// An event that is already queued wins over an expired timer.
	select {
	case event, ok := <-es.events:
		return toEdgeEvent(event, ok)
	default:
	}
	if timeout <= 0 {
		return nil, nil
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case event, ok := <-es.events:
		return toEdgeEvent(event, ok)
	case <-timer.C:
		return nil, nil
	}
}

func (es *edgeSource) Close() error {
	return es.closer.Close()
}

func toEdgeEvent(event *gpio.Event, ok bool) (*board.EdgeEvent, error) {
	if !ok {
		return nil, errors.New("edge event line was closed")
	}
	edge := board.FallingEdge
	if event.RisingEdge {
		edge = board.RisingEdge
	}
	return &board.EdgeEvent{Type: edge, Time: event.Time}, nil
}
