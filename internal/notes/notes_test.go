package notes

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestForKey(t *testing.T) {
	tests := []struct {
		key  int
		want string
		midi int
		acc  bool
	}{
		{0, "A0", 21, false},
		{1, "A#/Bb0", 22, true},
		{2, "B0", 23, false},
		{3, "C1", 24, false},
		{39, "C4", 60, false},
		{40, "C#/Db4", 61, true},
		{86, "B7", 107, false},
	}
	for _, tt := range tests {
		n := ForKey(tt.key)
		assert.Equal(t, tt.want, n.String(), "key %d", tt.key)
		assert.Equal(t, tt.midi, n.MIDI)
		assert.Equal(t, tt.acc, n.IsAccidental)
		assert.Equal(t, tt.key, KeyForMIDI(n.MIDI))
	}
}

func TestBlackKeysPerOctave(t *testing.T) {
	black := 0
	for k := 3; k < 15; k++ {
		if ForKey(k).IsAccidental {
			black++
		}
	}
	assert.Equal(t, 5, black)
}

func TestNegativeKeyOctave(t *testing.T) {
	assert.Equal(t, "G#/Ab0", ForKey(-1).String())
	assert.Equal(t, "B-1", ForKey(-10).String())
}
