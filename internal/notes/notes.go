package notes

import "fmt"

// MIDIA0 is the MIDI number of the lowest piano key.
const MIDIA0 = 21

var names = [12]struct {
	name       string
	accidental bool
}{
	{"A", false},
	{"A#/Bb", true},
	{"B", false},
	{"C", false},
	{"C#/Db", true},
	{"D", false},
	{"D#/Eb", true},
	{"E", false},
	{"F", false},
	{"F#/Gb", true},
	{"G", false},
	{"G#/Ab", true},
}

// Note describes one key counted from A0.
type Note struct {
	Key          int
	MIDI         int
	Name         string // pitch class, ex: "C", "F#/Gb"
	Octave       int
	IsAccidental bool // black key
}

// String returns the name with its octave, ex: "C4", "A#/Bb0".
func (n Note) String() string {
	return fmt.Sprintf("%s%d", n.Name, n.Octave)
}

// ForKey returns the note of key index k, where key 0 is A0. Octaves start at C.
func ForKey(k int) Note {
	pc := ((k % 12) + 12) % 12
	return Note{
		Key:          k,
		MIDI:         MIDIA0 + k,
		Name:         names[pc].name,
		Octave:       floorDiv(k+9, 12),
		IsAccidental: names[pc].accidental,
	}
}

// KeyForMIDI returns the key index of a MIDI note number.
func KeyForMIDI(midi int) int {
	return midi - MIDIA0
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
