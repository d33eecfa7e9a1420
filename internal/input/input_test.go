package input

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHeld(t *testing.T) {
	h := NewHeld()
	h.Apply(Press(CodeW))
	h.Apply(Event{Kind: ButtonDown, Code: CodeMouseMiddle})
	h.Apply(Event{Kind: Scroll, DY: 1})
	assert.True(t, h.Down(CodeW))
	assert.True(t, h.Down(CodeMouseMiddle))
	assert.False(t, h.Down(CodeA))

	h.Apply(Release(CodeW))
	h.Apply(Event{Kind: ButtonUp, Code: CodeMouseMiddle})
	assert.False(t, h.Down(CodeW))
	assert.False(t, h.Down(CodeMouseMiddle))
}
