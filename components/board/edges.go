package board

import (
	"context"
	"fmt"
	"time"
)

// EdgeType says which transition an EdgeEvent reports.
type EdgeType int

// The edge transitions a line can report.
const (
	RisingEdge EdgeType = iota + 1
	FallingEdge
)

func (e EdgeType) String() string {
	switch e {
	case RisingEdge:
		return "rising"
	case FallingEdge:
		return "falling"
	default:
		return fmt.Sprintf("EdgeType(%d)", int(e))
	}
}

// An EdgeEvent is a single transition observed on an input line.
type EdgeEvent struct {
	Type EdgeType
	Time time.Time
}

// An EdgeEventSource delivers the edge events of one subscription in arrival order.
type EdgeEventSource interface {
	// WaitNext blocks for at most timeout waiting for the next event. A nil event with a nil
	// error means the timeout expired first. A zero timeout only returns an already pending event.
	WaitNext(timeout time.Duration) (*EdgeEvent, error)

	// Close ends the subscription.
	Close() error
}

// An EdgeLine identifies an input line that edge subscriptions can be requested on. Kernel edge
// requests are single-shot, so callers subscribe again for every cycle they want to observe.
type EdgeLine interface {
	// SubscribeEdges requests notification of both rising and falling edges.
	SubscribeEdges(ctx context.Context) (EdgeEventSource, error)
}
