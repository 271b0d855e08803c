// Package fake implements a fake board whose input lines play back scripted edges against a
// mock clock.
package fake

import (
	"context"
	"sync"
	"time"

	"github.com/benbjohnson/clock"

	"go.viam.com/hcsr04/components/board"
)

var _ = board.Board(&Board{})

// Board hands out fake pins and lines. Tests may pre-populate GPIOPins and EdgeLines to inject
// behavior; unknown names are created on demand.
type Board struct {
	mu         sync.Mutex
	Clock      *clock.Mock
	GPIOPins   map[string]*GPIOPin
	EdgeLines  map[string]*EdgeLine
	CloseCount int
}

// NewBoard returns a new fake board driven by the given mock clock.
func NewBoard(clk *clock.Mock) *Board {
	return &Board{
		Clock:     clk,
		GPIOPins:  map[string]*GPIOPin{},
		EdgeLines: map[string]*EdgeLine{},
	}
}

// GPIOPinByName returns the GPIO pin by the given name, creating it if needed.
func (b *Board) GPIOPinByName(name, consumer string) (board.GPIOPin, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	p, ok := b.GPIOPins[name]
	if !ok {
		p = &GPIOPin{}
		b.GPIOPins[name] = p
	}
	if p.ClaimErr != nil {
		return nil, p.ClaimErr
	}
	p.mu.Lock()
	p.Consumer = consumer
	p.Closed = false
	p.mu.Unlock()
	return p, nil
}

// EdgeLineByName returns the edge line by the given name, creating it if needed.
func (b *Board) EdgeLineByName(name, consumer string) (board.EdgeLine, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	l, ok := b.EdgeLines[name]
	if !ok {
		l = &EdgeLine{}
		b.EdgeLines[name] = l
	}
	if l.ClaimErr != nil {
		return nil, l.ClaimErr
	}
	l.mu.Lock()
	l.Consumer = consumer
	l.clock = b.Clock
	l.mu.Unlock()
	return l, nil
}

// Close records that the board was closed.
func (b *Board) Close(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.CloseCount++
	return nil
}

// A GPIOPin reads back the same set values and remembers every level it was driven to.
type GPIOPin struct {
	mu       sync.Mutex
	high     bool
	Levels   []bool
	Consumer string
	Closed   bool

	// ClaimErr is returned when the board is asked for this pin.
	ClaimErr error
	// SetFunc, when set, decides the result of each Set call. The level is only recorded on success.
	SetFunc func(high bool) error
}

// Set sets the pin to either low or high.
func (gp *GPIOPin) Set(ctx context.Context, high bool, extra map[string]interface{}) error {
	gp.mu.Lock()
	defer gp.mu.Unlock()

	if gp.SetFunc != nil {
		if err := gp.SetFunc(high); err != nil {
			return err
		}
	}
	gp.high = high
	gp.Levels = append(gp.Levels, high)
	return nil
}

// Get gets the high/low state of the pin.
func (gp *GPIOPin) Get(ctx context.Context, extra map[string]interface{}) (bool, error) {
	gp.mu.Lock()
	defer gp.mu.Unlock()
	return gp.high, nil
}

// Close marks the pin closed.
func (gp *GPIOPin) Close() error {
	gp.mu.Lock()
	defer gp.mu.Unlock()
	gp.Closed = true
	return nil
}

// History returns a copy of the levels the pin was driven to.
func (gp *GPIOPin) History() []bool {
	gp.mu.Lock()
	defer gp.mu.Unlock()
	return append([]bool(nil), gp.Levels...)
}

// An Edge is a scripted transition, At after the subscription that observes it.
type Edge struct {
	Type board.EdgeType
	At   time.Duration
}

// Pulse scripts a high pulse of the given width starting delay after subscription.
func Pulse(delay, width time.Duration) []Edge {
	return []Edge{
		{Type: board.RisingEdge, At: delay},
		{Type: board.FallingEdge, At: delay + width},
	}
}

// An EdgeLine plays back one script per subscription. Subscriptions past the end of Cycles see
// no edges at all.
type EdgeLine struct {
	mu            sync.Mutex
	clock         *clock.Mock
	Consumer      string
	Cycles        [][]Edge
	Subscriptions int

	// ClaimErr is returned when the board is asked for this line.
	ClaimErr error
	// SubscribeErr is returned by SubscribeEdges.
	SubscribeErr error
	// WaitErr is returned by every WaitNext of every subscription.
	WaitErr error
}

// SubscribeEdges starts the next scripted cycle.
func (l *EdgeLine) SubscribeEdges(ctx context.Context) (board.EdgeEventSource, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.SubscribeErr != nil {
		return nil, l.SubscribeErr
	}
	var script []Edge
	if l.Subscriptions < len(l.Cycles) {
		script = append(script, l.Cycles[l.Subscriptions]...)
	}
	l.Subscriptions++
	return &EdgeSource{
		clock:   l.clock,
		start:   l.clock.Now(),
		edges:   script,
		waitErr: l.WaitErr,
	}, nil
}

// An EdgeSource is one subscription of an EdgeLine.
type EdgeSource struct {
	clock   *clock.Mock
	start   time.Time
	edges   []Edge
	waitErr error
	closed  bool
}

// WaitNext moves the mock clock forward to the next scripted edge if it is due within timeout,
// and otherwise by the whole timeout.
func (es *EdgeSource) WaitNext(timeout time.Duration) (*board.EdgeEvent, error) {
	if es.waitErr != nil {
		return nil, es.waitErr
	}
	now := es.clock.Now()
	if len(es.edges) > 0 {
		next := es.edges[0]
		due := es.start.Add(next.At)
		if !due.After(now.Add(timeout)) {
			es.edges = es.edges[1:]
			if due.After(now) {
				es.clock.Add(due.Sub(now))
			}
			return &board.EdgeEvent{Type: next.Type, Time: due}, nil
		}
	}
	if timeout > 0 {
		es.clock.Add(timeout)
	}
	return nil, nil
}

// Close ends the subscription.
func (es *EdgeSource) Close() error {
	es.closed = true
	return nil
}
