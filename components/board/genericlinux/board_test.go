//go:build linux

// These tests will only run on Linux, because this entire package is Linux-only. None of them need
// a real GPIO chip.
package genericlinux

import (
	"context"
	"testing"
	"time"

	"github.com/mkch/gpio"
	"github.com/pkg/errors"
	"go.viam.com/test"

	"go.viam.com/hcsr04/components/board"
	"go.viam.com/hcsr04/logging"
)

type closeCounter struct {
	closed int
}

func (c *closeCounter) Close() error {
	c.closed++
	return nil
}

func TestParseOffset(t *testing.T) {
	offset, err := parseOffset("21")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, offset, test.ShouldEqual, uint32(21))

	_, err = parseOffset("GPIO21")
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "not a line offset")

	_, err = parseOffset("-1")
	test.That(t, err, test.ShouldNotBeNil)
}

func TestNewBoard(t *testing.T) {
	logger := logging.NewTestLogger(t)

	_, err := NewBoard(context.Background(), &board.Config{Chip: "/dev/no-such-gpiochip"}, logger)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "/dev/no-such-gpiochip")

	_, err = NewBoard(context.Background(), &board.Config{Chip: "gpiochip0"}, logger)
	test.That(t, err, test.ShouldNotBeNil)
}

func TestBoardRejectsBadNames(t *testing.T) {
	b := &Board{
		devicePath: "/dev/no-such-gpiochip",
		pins:       map[string]board.GPIOPin{},
		logger:     logging.NewTestLogger(t),
	}

	_, err := b.GPIOPinByName("trigger", "test")
	test.That(t, err, test.ShouldNotBeNil)
	_, err = b.EdgeLineByName("echo", "test")
	test.That(t, err, test.ShouldNotBeNil)

	// the echo line is checked against the chip up front, not on its first subscription.
	line, err := b.EdgeLineByName("20", "test")
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "/dev/no-such-gpiochip")
	test.That(t, line, test.ShouldBeNil)

	_, err = b.GPIOPinByName("21", "test")
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, b.pins, test.ShouldBeEmpty)
	test.That(t, b.Close(context.Background()), test.ShouldBeNil)
}

func TestPeriphUnknownNames(t *testing.T) {
	b := &Board{usePeriphGpio: true, pins: map[string]board.GPIOPin{}, logger: logging.NewTestLogger(t)}

	line, err := b.EdgeLineByName("NO_SUCH_PIN", "test")
	test.That(t, err, test.ShouldNotBeNil)
	// compared directly: a nil *periphEdgeLine in the interface would not be == nil.
	test.That(t, line == nil, test.ShouldBeTrue)

	pin, err := b.GPIOPinByName("NO_SUCH_PIN", "test")
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, pin == nil, test.ShouldBeTrue)
	test.That(t, b.pins, test.ShouldBeEmpty)
}

func TestCheckOffset(t *testing.T) {
	test.That(t, checkOffset(0, 54), test.ShouldBeNil)
	test.That(t, checkOffset(53, 54), test.ShouldBeNil)

	err := checkOffset(54, 54)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "line 54 does not exist")
	test.That(t, checkOffset(20, 0), test.ShouldNotBeNil)
}

type stubPin struct {
	closeCounter
}

func (p *stubPin) Set(ctx context.Context, high bool, extra map[string]interface{}) error {
	return nil
}

func (p *stubPin) Get(ctx context.Context, extra map[string]interface{}) (bool, error) {
	return false, nil
}

func TestClaimReleasesClosedPins(t *testing.T) {
	b := &Board{pins: map[string]board.GPIOPin{}, logger: logging.NewTestLogger(t)}
	first := &stubPin{}
	open := func(p *stubPin) func() (board.GPIOPin, error) {
		return func() (board.GPIOPin, error) { return p, nil }
	}

	pin, err := b.claim("21", open(first))
	test.That(t, err, test.ShouldBeNil)
	_, err = b.claim("21", open(&stubPin{}))
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "already claimed")

	// closing the pin hands the name back, so a second sensor can use it.
	test.That(t, pin.Close(), test.ShouldBeNil)
	test.That(t, first.closed, test.ShouldEqual, 1)
	test.That(t, b.pins, test.ShouldBeEmpty)

	second := &stubPin{}
	pin, err = b.claim("21", open(second))
	test.That(t, err, test.ShouldBeNil)

	// a stale handle cannot release the new claim.
	test.That(t, (&claimedPin{GPIOPin: first, release: func() { b.release("21", first) }}).Close(), test.ShouldBeNil)
	test.That(t, b.pins, test.ShouldContainKey, "21")

	test.That(t, b.Close(context.Background()), test.ShouldBeNil)
	test.That(t, second.closed, test.ShouldEqual, 1)
	test.That(t, b.pins, test.ShouldBeEmpty)
	test.That(t, pin.Close(), test.ShouldBeNil)
	test.That(t, second.closed, test.ShouldEqual, 2)

	_, err = b.claim("5", func() (board.GPIOPin, error) { return nil, errors.New("line busy") })
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, b.pins, test.ShouldBeEmpty)
}

func TestEdgeSource(t *testing.T) {
	events := make(chan *gpio.Event, 2)
	closer := &closeCounter{}
	es := &edgeSource{events: events, closer: closer}

	t.Run("timeout", func(t *testing.T) {
		event, err := es.WaitNext(time.Millisecond)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, event, test.ShouldBeNil)

		event, err = es.WaitNext(0)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, event, test.ShouldBeNil)
	})

	t.Run("events in order", func(t *testing.T) {
		rise := time.Unix(100, 0)
		fall := rise.Add(time.Millisecond)
		events <- &gpio.Event{RisingEdge: true, Time: rise}
		events <- &gpio.Event{RisingEdge: false, Time: fall}

		event, err := es.WaitNext(0)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, event, test.ShouldResemble, &board.EdgeEvent{Type: board.RisingEdge, Time: rise})

		event, err = es.WaitNext(time.Second)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, event, test.ShouldResemble, &board.EdgeEvent{Type: board.FallingEdge, Time: fall})
	})

	t.Run("closed line", func(t *testing.T) {
		close(events)
		_, err := es.WaitNext(time.Second)
		test.That(t, err, test.ShouldNotBeNil)
		test.That(t, es.Close(), test.ShouldBeNil)
		test.That(t, closer.closed, test.ShouldEqual, 1)
	})
}
