package action

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"piano-viewer/internal/input"
	"piano-viewer/internal/keyboard"
	"piano-viewer/internal/notes"
)

// State is the input-side bookkeeping the run loop owns and passes in every frame:
// which keys are held down and which key the arrow-key pointer is on.
type State struct {
	pressed []bool
	pointer int // -1 or len(pressed) when off the keyboard
}

// NewState returns a state for a keyboard of the given size with no key selected.
func NewState(keys int) *State {
	return &State{pressed: make([]bool, keys), pointer: -1}
}

// Pressed reports whether key n is held down. Out-of-range keys are never pressed.
func (s *State) Pressed(n int) bool {
	return n >= 0 && n < len(s.pressed) && s.pressed[n]
}

// Pointer returns the key the pointer is on and whether it is on the keyboard at all.
func (s *State) Pointer() (int, bool) {
	return s.pointer, s.pointer >= 0 && s.pointer < len(s.pressed)
}

// PressedKeys returns the indices of all held keys in ascending order.
func (s *State) PressedKeys() []int {
	var out []int
	for i, p := range s.pressed {
		if p {
			out = append(out, i)
		}
	}
	return out
}

// Clear forgets all held keys and takes the pointer off the keyboard. It does not move parts.
func (s *State) Clear() {
	clear(s.pressed)
	s.pointer = -1
}

// Dispatcher turns discrete commands into part motion on the arena.
type Dispatcher struct {
	arena *keyboard.Arena
	log   zerolog.Logger
}

// New returns a dispatcher acting on arena.
func New(arena *keyboard.Arena, log zerolog.Logger) *Dispatcher {
	return &Dispatcher{arena: arena, log: log}
}

func (d *Dispatcher) inRange(st *State, n int) bool {
	if n < 0 || n >= d.arena.Keys() || n >= len(st.pressed) {
		d.log.Warn().Int("key", n).Int("keys", d.arena.Keys()).Msg("key index out of range")
		return false
	}
	return true
}

// Press starts the mobile parts of key n rising. Pressing a held key does nothing.
// It reports whether the key changed state.
func (d *Dispatcher) Press(st *State, n int) bool {
	if !d.inRange(st, n) || st.pressed[n] {
		return false
	}
	st.pressed[n] = true
	for off := 0; off < keyboard.MobileParts; off++ {
		if p := d.arena.Key(n, off); p != nil {
			p.StartRising()
		}
	}
	d.log.Debug().Int("key", n).Str("note", notes.ForKey(n).String()).Msg("key pressed")
	return true
}

// Release starts the mobile parts of a held key n falling.
func (d *Dispatcher) Release(st *State, n int) bool {
	if !d.inRange(st, n) || !st.pressed[n] {
		return false
	}
	st.pressed[n] = false
	for off := 0; off < keyboard.MobileParts; off++ {
		if p := d.arena.Key(n, off); p != nil {
			p.StartFalling()
		}
	}
	d.log.Debug().Int("key", n).Str("note", notes.ForKey(n).String()).Msg("key released")
	return true
}

// ReleaseAll releases every held key.
func (d *Dispatcher) ReleaseAll(st *State) {
	for n, held := range st.pressed {
		if held {
			d.Release(st, n)
		}
	}
}

// OpenLid starts the lid rising.
func (d *Dispatcher) OpenLid() {
	lid := d.arena.Lid()
	if lid == nil {
		d.log.Warn().Msg("open lid: scene has no lid")
		return
	}
	lid.StartRising()
	d.log.Debug().Float32("angle", lid.Angle()).Msg("lid opening")
}

// CloseLid starts the lid falling.
func (d *Dispatcher) CloseLid() {
	lid := d.arena.Lid()
	if lid == nil {
		d.log.Warn().Msg("close lid: scene has no lid")
		return
	}
	lid.StartFalling()
	d.log.Debug().Float32("angle", lid.Angle()).Msg("lid closing")
}

// MovePointer moves the key pointer by delta, releasing the key it leaves and pressing the
// key it lands on. The pointer may rest one step off either end with no key selected.
func (d *Dispatcher) MovePointer(st *State, delta int) {
	next := st.pointer + delta
	if next < -1 || next > len(st.pressed) {
		return
	}
	if cur, ok := st.Pointer(); ok {
		d.Release(st, cur)
	}
	st.pointer = next
	if cur, ok := st.Pointer(); ok {
		d.Press(st, cur)
	}
}

// Handle applies one input event. Right/Left move the key pointer, Up/Down open and close
// the lid, Space releases everything. It reports whether the event was consumed; camera
// events are left for the caller.
func (d *Dispatcher) Handle(st *State, ev input.Event) bool {
	if ev.Kind != input.KeyDown {
		return false
	}
	switch ev.Code {
	case input.CodeRight:
		d.MovePointer(st, 1)
	case input.CodeLeft:
		d.MovePointer(st, -1)
	case input.CodeUp:
		d.OpenLid()
	case input.CodeDown:
		d.CloseLid()
	case input.CodeSpace:
		d.ReleaseAll(st)
	default:
		return false
	}
	return true
}

// Status is a snapshot of the interaction state for on-screen display.
type Status struct {
	Pointer  string // note under the pointer, empty when off the keyboard
	Held     []string
	Lid      float32 // lid progress toward fully open, 0..1
	LidState string  // "opening", "closing", "open", "closed" or "ajar"
	Moving   int
}

// Status summarizes st and the arena.
func (d *Dispatcher) Status(st *State) Status {
	var s Status
	if n, ok := st.Pointer(); ok {
		s.Pointer = notes.ForKey(n).String()
	}
	for _, n := range st.PressedKeys() {
		s.Held = append(s.Held, notes.ForKey(n).String())
	}
	s.Moving = d.arena.Moving()
	if lid := d.arena.Lid(); lid != nil {
		s.Lid = lid.Progress()
		switch {
		case lid.Rising:
			s.LidState = "opening"
		case lid.Falling:
			s.LidState = "closing"
		case s.Lid >= 1:
			s.LidState = "open"
		case s.Lid <= 0:
			s.LidState = "closed"
		default:
			s.LidState = "ajar"
		}
	}
	return s
}

// Lines renders the status as short display lines.
func (s Status) Lines() []string {
	ptr := s.Pointer
	if ptr == "" {
		ptr = "-"
	}
	held := "-"
	if len(s.Held) > 0 {
		held = strings.Join(s.Held, " ")
	}
	lines := []string{
		"key: " + ptr,
		"held: " + held,
	}
	if s.LidState != "" {
		lines = append(lines, fmt.Sprintf("lid: %s %.0f%%", s.LidState, s.Lid*100))
	}
	return append(lines, fmt.Sprintf("moving parts: %d", s.Moving))
}
