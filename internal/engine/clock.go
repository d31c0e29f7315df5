package engine

import (
	"time"

	"github.com/greybox2d/greybox/internal/config"
)

// fpsSmoothing is the weight of the newest sample in the running fps average.
const fpsSmoothing = 0.1

// Clock counts frames and decides each frame's step. With lock on, every
// frame advances by the fixed step regardless of wall time; otherwise the
// measured elapsed time is used, clamped to maxStep.
type Clock struct {
	frame   uint64
	delta   time.Duration
	elapsed time.Duration
	fps     float64

	fixed   time.Duration
	maxStep time.Duration
	lock    bool
}

func NewClock(cfg config.EngineConfig) *Clock {
	return &Clock{
		fixed:   cfg.FixedStep,
		maxStep: cfg.MaxFrameStep,
		lock:    cfg.LockFPS,
	}
}

// Tick starts a new frame given the wall time since the previous one and
// returns the step the frame simulates.
func (c *Clock) Tick(wall time.Duration) time.Duration {
	c.frame++
	switch {
	case c.lock:
		c.delta = c.fixed
	case c.maxStep > 0 && wall > c.maxStep:
		c.delta = c.maxStep
	case wall <= 0:
		c.delta = c.fixed
	default:
		c.delta = wall
	}
	c.elapsed += c.delta

	if wall > 0 {
		sample := float64(time.Second) / float64(wall)
		if c.fps == 0 {
			c.fps = sample
		} else {
			c.fps += (sample - c.fps) * fpsSmoothing
		}
	}
	return c.delta
}

// Frame returns the number of the current frame, starting at 1.
func (c *Clock) Frame() uint64 { return c.frame }

// Delta returns the current frame's step.
func (c *Clock) Delta() time.Duration { return c.delta }

// Elapsed returns the simulated time so far.
func (c *Clock) Elapsed() time.Duration { return c.elapsed }

// FPS returns the smoothed wall-clock frame rate.
func (c *Clock) FPS() float64 { return c.fps }

func (c *Clock) Fixed() time.Duration { return c.fixed }

func (c *Clock) SetLock(lock bool) { c.lock = lock }
func (c *Clock) Locked() bool      { return c.lock }
