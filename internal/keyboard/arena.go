package keyboard

import (
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"piano-viewer/internal/part"
)

// Block layout of one key. Parts of key n live at n*PartsPerKey + offset.
const (
	PartsPerKey = 8
	// MobileParts is the number of leading block offsets that move when a key is played.
	MobileParts = 5

	OffsetBase     = 0
	OffsetHammer   = 1
	OffsetWippen   = 2
	OffsetLever    = 3
	OffsetJack     = 4
	OffsetTopBar   = 5
	OffsetCylinder = 6
	OffsetHolder   = 7
)

var (
	ErrArenaFull  = errors.New("arena capacity exceeded")
	ErrIncomplete = errors.New("keyboard incomplete")
)

// Arena is the fixed-size, ordered collection of live parts. Its backing array is sized
// once from the layout and never grows, so handles and parent links stay valid.
type Arena struct {
	parts   []part.Part
	keys    int
	lid     part.Handle
	markers []part.Handle
	rest    []part.Part
	log     zerolog.Logger
}

func newArena(capacity, keys int, log zerolog.Logger) *Arena {
	return &Arena{
		parts: make([]part.Part, 0, capacity),
		keys:  keys,
		lid:   part.NoParent,
		log:   log,
	}
}

// add appends p and returns its handle.
func (a *Arena) add(p part.Part) (part.Handle, error) {
	if len(a.parts) == cap(a.parts) {
		return part.NoParent, fmt.Errorf("%w: %d parts", ErrArenaFull, cap(a.parts))
	}
	a.parts = append(a.parts, p)
	return part.Handle(len(a.parts) - 1), nil
}

// Len returns the number of live parts.
func (a *Arena) Len() int {
	return len(a.parts)
}

// Keys returns the number of keys the arena was built for.
func (a *Arena) Keys() int {
	return a.keys
}

// Valid reports whether h addresses a live part.
func (a *Arena) Valid(h part.Handle) bool {
	return h >= 0 && int(h) < len(a.parts)
}

// Part returns the part at h, or nil with a diagnostic if h is out of range.
func (a *Arena) Part(h part.Handle) *part.Part {
	if !a.Valid(h) {
		a.log.Warn().Int("handle", int(h)).Int("parts", len(a.parts)).Msg("part handle out of range")
		return nil
	}
	return &a.parts[h]
}

// KeyHandle returns the handle of block offset off of key n.
func (a *Arena) KeyHandle(n, off int) (part.Handle, bool) {
	if n < 0 || n >= a.keys || off < 0 || off >= PartsPerKey {
		return part.NoParent, false
	}
	h := part.Handle(n*PartsPerKey + off)
	return h, a.Valid(h)
}

// Key returns block offset off of key n, or nil with a diagnostic when out of range.
func (a *Arena) Key(n, off int) *part.Part {
	h, ok := a.KeyHandle(n, off)
	if !ok {
		a.log.Warn().Int("key", n).Int("offset", off).Msg("key part out of range")
		return nil
	}
	return &a.parts[h]
}

// KeyOf maps a handle back to its key and block offset. ok is false for furniture.
func (a *Arena) KeyOf(h part.Handle) (key, off int, ok bool) {
	if h < 0 || int(h) >= a.keys*PartsPerKey || !a.Valid(h) {
		return 0, 0, false
	}
	return int(h) / PartsPerKey, int(h) % PartsPerKey, true
}

// Parent returns the pivot parent of the part at h, or nil.
func (a *Arena) Parent(h part.Handle) *part.Part {
	if !a.Valid(h) {
		return nil
	}
	ph := a.parts[h].Parent
	if ph == part.NoParent || !a.Valid(ph) {
		return nil
	}
	return &a.parts[ph]
}

// Lid returns the lid part, or nil when the layout has none.
func (a *Arena) Lid() *part.Part {
	if !a.Valid(a.lid) {
		return nil
	}
	return &a.parts[a.lid]
}

// Markers returns the handles of the light-marker parts.
func (a *Arena) Markers() []part.Handle {
	return a.markers
}

// Each calls fn for every part in order.
func (a *Arena) Each(fn func(h part.Handle, p *part.Part)) {
	for i := range a.parts {
		fn(part.Handle(i), &a.parts[i])
	}
}

// RefreshTransforms recomputes every world transform from the current part state.
// Parents are read as they are now, so call it after all parts were advanced for the frame.
func (a *Arena) RefreshTransforms() {
	for i := range a.parts {
		a.parts[i].ComputeWorldTransform(a.Parent(part.Handle(i)))
	}
}

// snapshot records the current state as the one Reset returns to.
func (a *Arena) snapshot() {
	a.rest = append(a.rest[:0], a.parts...)
}

// Reset puts every part back in its assembled rest state and stops all motion.
func (a *Arena) Reset() {
	if len(a.rest) != len(a.parts) {
		a.log.Warn().Int("parts", len(a.parts)).Int("saved", len(a.rest)).Msg("reset: no rest state recorded")
		return
	}
	copy(a.parts, a.rest)
	a.log.Info().Int("parts", len(a.parts)).Msg("scene reset")
}

// SetApplyScale switches the per-part scale on or off for every part, including the saved
// rest state, and rebuilds the transforms.
func (a *Arena) SetApplyScale(on bool) {
	for i := range a.parts {
		a.parts[i].ApplyScale = on
	}
	for i := range a.rest {
		a.rest[i].ApplyScale = on
	}
	a.RefreshTransforms()
}

// Moving returns the number of parts that are rising or falling.
func (a *Arena) Moving() int {
	n := 0
	for i := range a.parts {
		if a.parts[i].Moving() {
			n++
		}
	}
	return n
}

// Dump writes one line per part: handle, name, position and parent.
func (a *Arena) Dump(w io.Writer) error {
	for i, p := range a.parts {
		parent := "-"
		if p.HasParent() {
			parent = fmt.Sprint(int(p.Parent))
		}
		if _, err := fmt.Fprintf(w, "%d: %s pos=(%.4f, %.4f, %.4f) rot=(%.2f, %.2f, %.2f) parent=%s\n",
			i, p.Name, p.Position[0], p.Position[1], p.Position[2],
			p.Rotation[0], p.Rotation[1], p.Rotation[2], parent); err != nil {
			return err
		}
	}
	return nil
}
