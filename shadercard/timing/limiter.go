package timing

import (
	"fmt"
	"time"
)

// Limiter paces preview frames.
type Limiter interface {
	// WaitForNextFrame blocks until it's time for the next frame.
	// Returns immediately if timing is behind schedule.
	WaitForNextFrame()

	// Reset resets the timing state.
	Reset()

	// Stop releases any timer held by the limiter.
	Stop()
}

// NewNoOpLimiter returns a limiter that doesn't limit, for backends that
// already block on vsync.
func NewNoOpLimiter() Limiter {
	return &noOpLimiter{}
}

type noOpLimiter struct{}

func (n *noOpLimiter) WaitForNextFrame() {}
func (n *noOpLimiter) Reset()            {}
func (n *noOpLimiter) Stop()             {}

// FrameDuration returns the duration of a single frame at fps.
func FrameDuration(fps float64) (time.Duration, error) {
	if fps <= 0 {
		return 0, fmt.Errorf("frame rate must be positive, got %g", fps)
	}
	return time.Duration(float64(time.Second) / fps), nil
}
