// Package timing paces the player at the hardware frame rate.
package timing

import (
	"fmt"
	"time"
)

// Limiter controls the tick rate of the player.
type Limiter interface {
	// WaitForNextFrame blocks until it's time for the next frame.
	// Returns immediately if timing is behind schedule.
	WaitForNextFrame()

	// Reset resets the timing state, useful after pauses.
	Reset()
}

// NewNoOpLimiter returns a limiter that doesn't limit, for offline rendering.
func NewNoOpLimiter() Limiter {
	return &noOpLimiter{}
}

type noOpLimiter struct{}

func (n *noOpLimiter) WaitForNextFrame() {}
func (n *noOpLimiter) Reset()            {}

// Hardware timing: one tick per video frame.
const (
	CyclesPerFrame = 70224
	CPUFrequency   = 4194304
)

// TargetFPS calculates the exact hardware frame rate, about 59.73 Hz.
func TargetFPS() float64 {
	return float64(CPUFrequency) / float64(CyclesPerFrame)
}

// FrameDuration returns the target duration of a single frame.
func FrameDuration() time.Duration {
	return time.Duration(float64(time.Second) / TargetFPS())
}

// New returns the limiter named kind: "adaptive", "ticker" or "none".
func New(kind string) (Limiter, error) {
	switch kind {
	case "", "adaptive":
		return NewAdaptiveLimiter(), nil
	case "ticker":
		return NewTickerLimiter(), nil
	case "none":
		return NewNoOpLimiter(), nil
	default:
		return nil, fmt.Errorf("unknown limiter %q", kind)
	}
}

// FramesFor returns the number of frames that cover d.
func FramesFor(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	return int(d.Seconds()*TargetFPS() + 0.5)
}
