package commands

import (
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/go-gl/mathgl/mgl32"

	"piano-viewer/internal/action"
	"piano-viewer/internal/keyboard"
	"piano-viewer/internal/notes"
	"piano-viewer/internal/part"
)

var (
	ErrUsage    = errors.New("bad usage")
	ErrRejected = errors.New("rejected")
)

// Bindings is what the piano commands act on.
type Bindings struct {
	Arena      *keyboard.Arena
	Dispatcher *action.Dispatcher
	State      *action.State
	Out        io.Writer   // dump and help output
	SetGrid    func(bool) // nil when there is no grid to toggle
}

// toggle registers -on and -off on fs and returns a function resolving them to one value.
func toggle(fs *flag.FlagSet, on, off string) func() (bool, error) {
	a := fs.Bool(on, false, "")
	b := fs.Bool(off, false, "")
	return func() (bool, error) {
		if *a == *b {
			return false, fmt.Errorf("%w: need exactly one of -%s or -%s", ErrUsage, on, off)
		}
		return *a, nil
	}
}

// vector registers -x -y -z on fs.
func vector(fs *flag.FlagSet) func() mgl32.Vec3 {
	x := fs.Float64("x", 0, "")
	y := fs.Float64("y", 0, "")
	z := fs.Float64("z", 0, "")
	return func() mgl32.Vec3 {
		return mgl32.Vec3{float32(*x), float32(*y), float32(*z)}
	}
}

// RegisterPiano adds the viewer's console commands to r.
func RegisterPiano(r *Registry, b Bindings) {
	keyCmd := func(name, usage string, do func(*action.State, int) bool, verb string) {
		fs := NewFlagSet(name)
		key := fs.Int("key", -1, "key index")
		r.Register(name, usage, fs, func() error {
			if !do(b.State, *key) {
				return fmt.Errorf("%w: key %d not %s", ErrRejected, *key, verb)
			}
			return nil
		})
	}
	keyCmd("press", "press -key n", b.Dispatcher.Press, "pressed")
	keyCmd("release", "release -key n", b.Dispatcher.Release, "released")

	lidFS := NewFlagSet("lid")
	lid := toggle(lidFS, "open", "close")
	r.Register("lid", "lid -open|-close", lidFS, func() error {
		open, err := lid()
		if err != nil {
			return err
		}
		if b.Arena.Lid() == nil {
			return fmt.Errorf("%w: scene has no lid", ErrRejected)
		}
		if open {
			b.Dispatcher.OpenLid()
		} else {
			b.Dispatcher.CloseLid()
		}
		return nil
	})

	partCmd := func(name string, apply func(p *part.Part, v mgl32.Vec3)) {
		fs := NewFlagSet(name)
		h := fs.Int("part", -1, "part handle")
		vec := vector(fs)
		r.Register(name, name+" -part h [-x dx] [-y dy] [-z dz]", fs, func() error {
			if !b.Arena.Valid(part.Handle(*h)) {
				return fmt.Errorf("%w: part %d out of range [0, %d)", ErrRejected, *h, b.Arena.Len())
			}
			apply(b.Arena.Part(part.Handle(*h)), vec())
			b.Arena.RefreshTransforms()
			return nil
		})
	}
	partCmd("rotate", (*part.Part).Rotate)
	partCmd("move", (*part.Part).Move)

	r.Register("dump", "dump", nil, func() error {
		return b.Arena.Dump(b.Out)
	})

	gridFS := NewFlagSet("grid")
	grid := toggle(gridFS, "on", "off")
	r.Register("grid", "grid -on|-off", gridFS, func() error {
		on, err := grid()
		if err != nil {
			return err
		}
		if b.SetGrid == nil {
			return fmt.Errorf("%w: no grid", ErrRejected)
		}
		b.SetGrid(on)
		return nil
	})

	scaleFS := NewFlagSet("scale")
	scale := toggle(scaleFS, "on", "off")
	r.Register("scale", "scale -on|-off", scaleFS, func() error {
		on, err := scale()
		if err != nil {
			return err
		}
		b.Arena.SetApplyScale(on)
		return nil
	})

	r.Register("reset", "reset", nil, func() error {
		b.Arena.Reset()
		b.State.Clear()
		return nil
	})

	noteFS := NewFlagSet("note")
	noteKey := noteFS.Int("key", -1, "key index")
	r.Register("note", "note -key n", noteFS, func() error {
		if *noteKey < 0 || *noteKey >= b.Arena.Keys() {
			return fmt.Errorf("%w: key %d out of range [0, %d)", ErrRejected, *noteKey, b.Arena.Keys())
		}
		n := notes.ForKey(*noteKey)
		_, err := fmt.Fprintf(b.Out, "key %d: %s (midi %d)\n", n.Key, n, n.MIDI)
		return err
	})

	r.Register("help", "help", nil, func() error {
		for _, name := range r.Names() {
			usage, _ := r.Usage(name)
			if _, err := fmt.Fprintf(b.Out, "cmd %s\n", usage); err != nil {
				return err
			}
		}
		return nil
	})
}
