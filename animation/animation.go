// Package animation plays sprite sheet animations as entity components.
package animation

import (
	"errors"
	"fmt"
	"slices"

	"github.com/edwinsyarief/elisa"
	"github.com/edwinsyarief/elisa/sprite"
)

// DefaultFPS is the frame rate used when none is given.
const DefaultFPS = 24

var (
	ErrNoSource = errors.New("animation: no frame source")
	ErrNoFrames = errors.New("animation: no frames registered")
	ErrRange    = errors.New("animation: frame index out of range")
)

// FrameSource provides frames by name. *sprite.Sheet satisfies it.
type FrameSource interface {
	Sprite(name string) (sprite.Sprite, error)
}

// Kind is the component kind animations are attached under.
var Kind = elisa.NewKind[Animation]("animation")

// Animation steps through frames taken from a single source at a fixed rate.
// Time is measured in seconds, like the world's tick delta.
//
// Copies of an Animation may share their frame list; AddFrame and DeleteFrame
// copy it before changing it, so editing one copy never alters another.
type Animation struct {
	source  FrameSource
	name    string
	frames  []sprite.Sprite
	current int
	start   int
	end     int
	fps     int
	hold    float64 // seconds per frame
	elapsed float64
	repeats bool
}

// Option configures an Animation.
type Option func(*Animation)

// WithName names the animation. Unnamed animations report an empty name.
func WithName(name string) Option {
	return func(a *Animation) { a.name = name }
}

// WithFPS sets the frame rate. Non-positive values keep DefaultFPS.
func WithFPS(fps int) Option {
	return func(a *Animation) {
		if fps > 0 {
			a.fps = fps
		}
	}
}

// Repeating makes the animation start over after its last frame.
func Repeating() Option {
	return func(a *Animation) { a.repeats = true }
}

// New creates an animation drawing from source and adds the named frames.
func New(source FrameSource, frames []string, opts ...Option) (Animation, error) {
	a := Animation{source: source, fps: DefaultFPS}
	for _, opt := range opts {
		opt(&a)
	}
	a.hold = 1 / float64(a.fps)
	for _, name := range frames {
		if err := a.AddFrame(name); err != nil {
			return Animation{}, err
		}
	}
	return a, nil
}

// Name returns the animation name.
func (a *Animation) Name() string { return a.name }

// Len returns the number of frames.
func (a *Animation) Len() int { return len(a.frames) }

// Current returns the index of the current frame.
func (a *Animation) Current() int { return a.current }

// Repeats reports whether the animation loops.
func (a *Animation) Repeats() bool { return a.repeats }

// FPS returns the frame rate.
func (a *Animation) FPS() int { return a.fps }

// Start returns the first frame index played after a reset.
func (a *Animation) Start() int { return a.start }

// End returns the last frame index played.
func (a *Animation) End() int { return a.end }

// Finished reports whether a non-repeating animation rests on its last frame.
func (a *Animation) Finished() bool {
	return !a.repeats && len(a.frames) > 0 && a.current == a.end
}

// AddFrame appends the source's sprite with the given name. The end index
// moves to the new last frame.
func (a *Animation) AddFrame(name string) error {
	if a.source == nil {
		return ErrNoSource
	}
	sp, err := a.source.Sprite(name)
	if err != nil {
		return err
	}
	a.frames = append(slices.Clip(a.frames), sp)
	a.end = len(a.frames) - 1
	return nil
}

// DeleteFrame removes the frame at index i.
func (a *Animation) DeleteFrame(i int) error {
	if len(a.frames) == 0 {
		return ErrNoFrames
	}
	if i < 0 || i >= len(a.frames) {
		return fmt.Errorf("%w: %d of %d", ErrRange, i, len(a.frames))
	}
	a.frames = slices.Delete(slices.Clone(a.frames), i, i+1)
	a.end = len(a.frames) - 1
	a.start = min(a.start, max(a.end, 0))
	a.current = min(a.current, max(a.end, 0))
	return nil
}

// SetStart sets the frame a reset returns to. It must lie within the frames
// and not after the end index. A current frame before the new start moves up
// to it.
func (a *Animation) SetStart(i int) error {
	if i < 0 || i >= len(a.frames) {
		return fmt.Errorf("%w: start %d of %d", ErrRange, i, len(a.frames))
	}
	if i > a.end {
		return fmt.Errorf("%w: start %d after end %d", ErrRange, i, a.end)
	}
	a.start = i
	a.current = max(a.current, i)
	return nil
}

// SetEnd sets the last frame played. It must lie within the frames and not
// before the start index. A current frame past the new end moves back to it.
func (a *Animation) SetEnd(i int) error {
	if i < 0 || i >= len(a.frames) {
		return fmt.Errorf("%w: end %d of %d", ErrRange, i, len(a.frames))
	}
	if i < a.start {
		return fmt.Errorf("%w: end %d before start %d", ErrRange, i, a.start)
	}
	a.end = i
	a.current = min(a.current, i)
	return nil
}

// Reset rewinds to the start frame.
func (a *Animation) Reset() {
	a.elapsed = 0
	a.current = a.start
}

// Update advances the clock by dt seconds and returns the frame that was
// current when Update was called. Once a full frame hold has elapsed the
// animation moves to the next frame; past the end it starts over if it
// repeats and otherwise stays on the last frame.
func (a *Animation) Update(dt float64) (sprite.Sprite, error) {
	if len(a.frames) == 0 {
		return sprite.Sprite{}, ErrNoFrames
	}
	shown := a.current
	a.elapsed += dt
	if a.elapsed >= a.hold {
		a.elapsed -= a.hold
		a.current++
		if a.current > a.end {
			if a.repeats {
				a.current = a.start
			} else {
				a.current = shown
			}
		}
	}
	return a.frames[shown], nil
}

// Frame returns the current frame without advancing.
func (a *Animation) Frame() (sprite.Sprite, error) {
	if len(a.frames) == 0 {
		return sprite.Sprite{}, ErrNoFrames
	}
	return a.frames[a.current], nil
}

func (a *Animation) String() string {
	return fmt.Sprintf("Animation-%s(%d/%d)", a.name, a.current, len(a.frames))
}
