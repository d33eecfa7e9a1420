package action

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"piano-viewer/internal/animation"
	"piano-viewer/internal/input"
	"piano-viewer/internal/keyboard"
	"piano-viewer/internal/prototype/prototypetest"
)

func setup(t *testing.T) (*keyboard.Arena, *Dispatcher, *State, *animation.Driver) {
	t.Helper()
	layout, err := keyboard.DefaultLayout()
	require.NoError(t, err)
	a, err := keyboard.Assemble(prototypetest.Library(t), layout, zerolog.Nop())
	require.NoError(t, err)
	return a, New(a, zerolog.Nop()), NewState(a.Keys()), animation.New(a, animation.DefaultClock(), zerolog.Nop())
}

func settle(t *testing.T, drv *animation.Driver) {
	t.Helper()
	for i := 0; i < 1000; i++ {
		if drv.Settled() {
			return
		}
		drv.Step()
	}
	t.Fatal("animation did not settle")
}

func TestPressAndReleaseKey(t *testing.T) {
	a, d, st, drv := setup(t)

	require.True(t, d.Press(st, 0))
	for off := 0; off < keyboard.PartsPerKey; off++ {
		p := a.Key(0, off)
		assert.Equal(t, off < keyboard.MobileParts, p.Rising, "offset %d", off)
		assert.False(t, p.Falling)
	}
	assert.False(t, a.Key(1, 0).Rising, "neighbouring key untouched")

	settle(t, drv)
	for off := 0; off < keyboard.MobileParts; off++ {
		p := a.Key(0, off)
		assert.Equal(t, p.Limit, p.Angle(), "offset %d at limit", off)
		assert.False(t, p.Rising)
	}

	require.True(t, d.Release(st, 0))
	for off := 0; off < keyboard.MobileParts; off++ {
		assert.True(t, a.Key(0, off).Falling)
	}
	settle(t, drv)
	for off := 0; off < keyboard.MobileParts; off++ {
		assert.Zero(t, a.Key(0, off).Angle(), "offset %d back at rest", off)
	}
}

func TestPressIsIdempotent(t *testing.T) {
	a, d, st, drv := setup(t)
	require.True(t, d.Press(st, 40))
	drv.Step()
	angle := a.Key(40, keyboard.OffsetHammer).Angle()

	assert.False(t, d.Press(st, 40))
	assert.True(t, st.Pressed(40))
	assert.Equal(t, angle, a.Key(40, keyboard.OffsetHammer).Angle())

	assert.False(t, d.Release(st, 41), "releasing a key that is not held")
	assert.False(t, a.Key(41, 0).Falling)
}

func TestOutOfRangeKeysAreIgnored(t *testing.T) {
	_, d, st, _ := setup(t)
	assert.False(t, d.Press(st, 87))
	assert.False(t, d.Press(st, -1))
	assert.False(t, d.Release(st, 200))
	assert.False(t, st.Pressed(87))
	assert.Empty(t, st.PressedKeys())
}

func TestLidReversesSmoothly(t *testing.T) {
	a, d, _, drv := setup(t)
	lid := a.Lid()
	require.NotNil(t, lid)

	d.OpenLid()
	for i := 0; i < 5; i++ {
		drv.Step()
	}
	partial := lid.Angle()
	require.Greater(t, partial, float32(0))
	require.Less(t, partial, lid.Limit)

	d.CloseLid()
	prev := lid.Angle()
	assert.Equal(t, partial, prev)
	for !drv.Settled() {
		drv.Step()
		assert.LessOrEqual(t, lid.Angle(), prev, "lid must only close")
		prev = lid.Angle()
	}
	assert.Zero(t, lid.Angle())
}

func TestPointerNavigation(t *testing.T) {
	_, d, st, _ := setup(t)

	_, ok := st.Pointer()
	assert.False(t, ok)

	assert.True(t, d.Handle(st, input.Press(input.CodeRight)))
	n, ok := st.Pointer()
	require.True(t, ok)
	assert.Equal(t, 0, n)
	assert.Equal(t, []int{0}, st.PressedKeys())

	d.Handle(st, input.Press(input.CodeRight))
	assert.Equal(t, []int{1}, st.PressedKeys(), "moving on releases the previous key")

	d.Handle(st, input.Press(input.CodeLeft))
	d.Handle(st, input.Press(input.CodeLeft))
	_, ok = st.Pointer()
	assert.False(t, ok)
	assert.Empty(t, st.PressedKeys())

	d.Handle(st, input.Press(input.CodeLeft))
	n, _ = st.Pointer()
	assert.Equal(t, -1, n, "pointer stops one step off the end")
}

func TestPointerStopsPastLastKey(t *testing.T) {
	_, d, st, _ := setup(t)
	for i := 0; i < 100; i++ {
		d.MovePointer(st, 1)
	}
	n, ok := st.Pointer()
	assert.False(t, ok)
	assert.Equal(t, 87, n)
	assert.Empty(t, st.PressedKeys())
}

func TestHandleLidAndRelease(t *testing.T) {
	a, d, st, _ := setup(t)

	assert.True(t, d.Handle(st, input.Press(input.CodeUp)))
	assert.True(t, a.Lid().Rising)
	assert.True(t, d.Handle(st, input.Press(input.CodeDown)))
	assert.True(t, a.Lid().Falling)

	d.Press(st, 3)
	d.Press(st, 9)
	assert.True(t, d.Handle(st, input.Press(input.CodeSpace)))
	assert.Empty(t, st.PressedKeys())

	assert.False(t, d.Handle(st, input.Press(input.CodeW)), "camera keys are not consumed")
	assert.False(t, d.Handle(st, input.Release(input.CodeRight)))
	assert.False(t, d.Handle(st, input.Event{Kind: input.Scroll, DY: 1}))
}

func TestStatus(t *testing.T) {
	_, d, st, drv := setup(t)

	s := d.Status(st)
	assert.Empty(t, s.Pointer)
	assert.Equal(t, "closed", s.LidState)
	assert.Equal(t, []string{"key: -", "held: -", "lid: closed 0%", "moving parts: 0"}, s.Lines())

	d.MovePointer(st, 1)
	d.Press(st, 39)
	d.OpenLid()
	s = d.Status(st)
	assert.Equal(t, "A0", s.Pointer)
	assert.Equal(t, []string{"A0", "C4"}, s.Held)
	assert.Equal(t, "opening", s.LidState)
	assert.Equal(t, 2*keyboard.MobileParts+1, s.Moving)

	settle(t, drv)
	s = d.Status(st)
	assert.Equal(t, "open", s.LidState)
	assert.InDelta(t, 1, s.Lid, 1e-6)
	assert.Contains(t, s.Lines(), "lid: open 100%")

	st.Clear()
	assert.Empty(t, st.PressedKeys())
	_, ok := st.Pointer()
	assert.False(t, ok)
}
