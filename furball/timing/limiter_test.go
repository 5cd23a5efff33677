package timing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTargetFPS(t *testing.T) {
	assert.InDelta(t, 59.73, TargetFPS(), 0.01)
	assert.InDelta(t, 16.74, float64(FrameDuration())/float64(time.Millisecond), 0.01)
}

func TestFramesFor(t *testing.T) {
	assert.Equal(t, 0, FramesFor(0))
	assert.Equal(t, 60, FramesFor(time.Second))
	assert.Equal(t, 3584, FramesFor(time.Minute))
}

func TestNew(t *testing.T) {
	for _, kind := range []string{"", "adaptive", "none"} {
		l, err := New(kind)
		require.NoError(t, err, kind)
		assert.NotNil(t, l)
	}

	l, err := New("ticker")
	require.NoError(t, err)
	l.(*TickerLimiter).Stop()

	_, err = New("vsync")
	assert.Error(t, err)
}

// fakeClock advances only when slept on, or by one nanosecond per reading
// so that busy waits terminate.
type fakeClock struct {
	t     time.Time
	slept []time.Duration
}

func (c *fakeClock) now() time.Time {
	c.t = c.t.Add(time.Nanosecond)
	return c.t
}

func (c *fakeClock) sleep(d time.Duration) {
	c.slept = append(c.slept, d)
	c.t = c.t.Add(d)
}

func newFakeLimiter(clock *fakeClock) *AdaptiveLimiter {
	return &AdaptiveLimiter{
		targetFrameTime: FrameDuration(),
		nextFrameTime:   clock.t,
		now:             clock.now,
		sleep:           clock.sleep,
	}
}

func TestAdaptiveLimiterSleeps(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	l := newFakeLimiter(clock)

	// first frame is due right away
	l.WaitForNextFrame()
	assert.Empty(t, clock.slept)

	l.WaitForNextFrame()
	require.Len(t, clock.slept, 1)
	assert.InDelta(t, float64(FrameDuration()-time.Millisecond), float64(clock.slept[0]), float64(time.Microsecond))
}

func TestAdaptiveLimiterDropsBacklog(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	l := newFakeLimiter(clock)

	clock.t = clock.t.Add(time.Second)
	l.WaitForNextFrame()
	assert.Empty(t, clock.slept)
	assert.True(t, l.nextFrameTime.After(clock.t), "next frame is scheduled from now")

	l.Reset()
	assert.Equal(t, int64(0), l.frameCounter)
}

func TestTickerLimiter(t *testing.T) {
	l := newTickerLimiter(time.Millisecond)
	defer l.Stop()

	start := time.Now()
	for i := 0; i < 3; i++ {
		l.WaitForNextFrame()
	}
	assert.GreaterOrEqual(t, time.Since(start), 3*time.Millisecond)

	// a tick that piled up while busy is dropped on reset
	time.Sleep(5 * time.Millisecond)
	l.Reset()
	start = time.Now()
	l.WaitForNextFrame()
	assert.Greater(t, time.Since(start), 100*time.Microsecond)
}
