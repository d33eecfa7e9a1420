package input

import "time"

// Kind is the type of a discrete input event.
type Kind int

const (
	KeyDown Kind = iota
	KeyUp
	Scroll
	MouseMove
	ButtonDown
	ButtonUp
)

// Code identifies a key or mouse button independently of the windowing library.
type Code int

const (
	CodeUnknown Code = iota
	CodeLeft
	CodeRight
	CodeUp
	CodeDown
	CodeSpace
	CodeW
	CodeA
	CodeS
	CodeD
	CodeShift
	CodeMouseMiddle
)

// Event is one discrete input event. DX/DY carry the scroll amount or mouse movement.
type Event struct {
	Kind Kind
	Code Code
	DX   float32
	DY   float32
}

// Press returns a key-down event.
func Press(c Code) Event { return Event{Kind: KeyDown, Code: c} }

// Release returns a key-up event.
func Release(c Code) Event { return Event{Kind: KeyUp, Code: c} }

// Frame is everything the input collaborator delivers for one rendered frame.
type Frame struct {
	Events []Event
	Delta  time.Duration // wall time since the previous frame
}

// Held tracks which keys and buttons are currently down, built from the event stream.
type Held struct {
	down map[Code]bool
}

// NewHeld returns an empty tracker.
func NewHeld() *Held {
	return &Held{down: make(map[Code]bool)}
}

// Apply updates the tracker with one event.
func (h *Held) Apply(ev Event) {
	switch ev.Kind {
	case KeyDown, ButtonDown:
		h.down[ev.Code] = true
	case KeyUp, ButtonUp:
		delete(h.down, ev.Code)
	}
}

// Down reports whether c is held.
func (h *Held) Down(c Code) bool {
	return h.down[c]
}
