package animation

import (
	"time"

	"github.com/rs/zerolog"

	"piano-viewer/internal/keyboard"
	"piano-viewer/internal/part"
)

// Clock converts measured frame time into reference ticks. Part rates are expressed per
// tick, so TickRate fixes the animation speed independently of the frame rate.
type Clock struct {
	TickRate float32       // reference ticks per second
	MinDelta time.Duration // frames shorter than this count as MinDelta
	MaxDelta time.Duration // frames longer than this (stalls) count as MaxDelta
}

// DefaultClock runs at 60 reference ticks per second and caps a stalled frame at 100ms.
func DefaultClock() Clock {
	return Clock{
		TickRate: 60,
		MinDelta: 0,
		MaxDelta: 100 * time.Millisecond,
	}
}

// Ticks returns the number of reference ticks dt is worth after clamping.
// Non-positive dt yields 0.
func (c Clock) Ticks(dt time.Duration) float32 {
	if dt <= 0 {
		return 0
	}
	if c.MinDelta > 0 && dt < c.MinDelta {
		dt = c.MinDelta
	}
	if c.MaxDelta > 0 && dt > c.MaxDelta {
		dt = c.MaxDelta
	}
	return float32(dt.Seconds()) * c.TickRate
}

// Driver advances every part once per frame and rebuilds the world transforms.
type Driver struct {
	arena *keyboard.Arena
	clock Clock
	log   zerolog.Logger

	frames uint64
	moving int
}

// New returns a driver for the given arena.
func New(arena *keyboard.Arena, clock Clock, log zerolog.Logger) *Driver {
	return &Driver{arena: arena, clock: clock, log: log}
}

// Tick runs one frame of animation for a frame that took dt. All parts are advanced before
// any transform is rebuilt, so a child always composes with its parent's angle for this
// same frame.
func (d *Driver) Tick(dt time.Duration) {
	d.advance(d.clock.Ticks(dt))
}

// Step runs exactly one reference tick regardless of wall time.
func (d *Driver) Step() {
	d.advance(1)
}

func (d *Driver) advance(ticks float32) {
	moving := 0
	d.arena.Each(func(_ part.Handle, p *part.Part) {
		p.Advance(ticks)
		if p.Moving() {
			moving++
		}
	})
	d.arena.RefreshTransforms()

	if moving == 0 && d.moving > 0 {
		d.log.Debug().Uint64("frame", d.frames).Msg("animation settled")
	}
	d.moving = moving
	d.frames++
}

// Settled reports whether no part was left moving after the last frame.
func (d *Driver) Settled() bool {
	return d.arena.Moving() == 0
}

// Frames returns the number of frames run so far.
func (d *Driver) Frames() uint64 {
	return d.frames
}
