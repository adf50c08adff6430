// Package clock provides the real time implementation of the Clock port.
package clock

import (
	"context"
	"time"

	"github.com/example/queuebot/internal/ports/secondary"
)

// Real sleeps on the wall clock.
type Real struct{}

// New creates the real clock.
func New() *Real {
	return &Real{}
}

// Sleep pauses for d or until ctx is done, whichever comes first.
func (*Real) Sleep(ctx context.Context, d time.Duration) {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
	}
}

// Ensure Real implements the interface
var _ secondary.Clock = (*Real)(nil)
