package keyboard

import (
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"piano-viewer/internal/notes"
	"piano-viewer/internal/part"
	"piano-viewer/internal/prototype/prototypetest"
)

func assemble(t *testing.T) (*Arena, Layout) {
	t.Helper()
	layout, err := DefaultLayout()
	require.NoError(t, err)
	a, err := Assemble(prototypetest.Library(t), layout, zerolog.Nop())
	require.NoError(t, err)
	return a, layout
}

func TestAssembleCounts(t *testing.T) {
	a, layout := assemble(t)
	assert.Equal(t, 87, a.Keys())
	assert.Equal(t, 87*PartsPerKey+7, a.Len())
	assert.Equal(t, layout.PartCount(), a.Len())
	assert.Equal(t, a.Len(), cap(a.parts), "arena must be sized exactly once")
}

func TestAssembleIsDeterministic(t *testing.T) {
	a, _ := assemble(t)
	b, _ := assemble(t)
	require.Equal(t, a.Len(), b.Len())
	a.Each(func(h part.Handle, p *part.Part) {
		q := b.Part(h)
		assert.Equal(t, p.Name, q.Name)
		assert.Equal(t, p.Position, q.Position)
		assert.Equal(t, p.Parent, q.Parent)
	})
}

func TestBlockOrder(t *testing.T) {
	a, layout := assemble(t)
	for n := 0; n < a.Keys(); n++ {
		for off, name := range layout.Mechanism {
			assert.Equal(t, name, a.Key(n, off+1).Name, "key %d offset %d", n, off+1)
		}
		assert.True(t, strings.HasPrefix(a.Key(n, OffsetBase).Name, "key_base_"))
	}
}

func TestBaseColourFollowsNotes(t *testing.T) {
	a, _ := assemble(t)
	for n := 0; n < a.Keys(); n++ {
		black := a.Key(n, OffsetBase).Name == "key_base_black"
		assert.Equal(t, notes.ForKey(n).IsAccidental, black, "key %d (%s)", n, notes.ForKey(n))
	}
}

func TestParentLinks(t *testing.T) {
	a, _ := assemble(t)
	for n := 0; n < a.Keys(); n++ {
		wippen := part.Handle(n*PartsPerKey + OffsetWippen)
		assert.Equal(t, wippen, a.Key(n, OffsetJack).Parent)
		assert.Equal(t, wippen, a.Key(n, OffsetLever).Parent)
		assert.Same(t, a.Key(n, OffsetWippen), a.Parent(part.Handle(n*PartsPerKey+OffsetJack)))
	}
	linked := 0
	a.Each(func(_ part.Handle, p *part.Part) {
		if p.HasParent() {
			linked++
		}
	})
	assert.Equal(t, 2*87, linked, "only jacks and repetition levers have parents")
}

func TestKeyOffsets(t *testing.T) {
	a, layout := assemble(t)
	s := layout.Spacing
	pivot := a.Key(0, OffsetBase).Position[0]

	tests := []struct {
		key  int
		want float32
	}{
		{0, pivot},
		{1, pivot + s.D1},
		{2, pivot + 2*s.D1},
		{3, pivot + 2*s.D1 + s.D2},
		{14, pivot + 6*s.D1 + 2*s.D2 + 6*s.D3},
		{15, pivot + 2*s.D1 + s.D2 + layout.GroupWidth},
		{86, pivot + 6*s.D1 + 2*s.D2 + 6*s.D3 + 6*layout.GroupWidth},
	}
	for _, tt := range tests {
		for off := 0; off < PartsPerKey; off++ {
			assert.InDelta(t, tt.want, a.Key(tt.key, off).Position[0], 1e-5, "key %d offset %d", tt.key, off)
		}
	}
}

func TestFurnitureAndMarkers(t *testing.T) {
	a, _ := assemble(t)
	names := []string{}
	for h := part.Handle(87 * PartsPerKey); int(h) < a.Len(); h++ {
		names = append(names, a.Part(h).Name)
	}
	assert.Equal(t, []string{"inner_piano_body", "strings", "piano_body", "lid", "floor", "marker_cube", "marker_cube"}, names)

	require.NotNil(t, a.Lid())
	assert.Same(t, a.Part(part.Handle(a.Len()-4)), a.Lid())
	assert.Equal(t, part.AxisZ, a.Lid().Motion.Axis)

	m := a.Markers()
	require.Len(t, m, 2)
	assert.InDelta(t, 2.5, a.Part(m[0]).Position[0], 1e-6)
	assert.InDelta(t, -2.2, a.Part(m[1]).Position[2], 1e-6)
}

func TestOutOfRangeAccess(t *testing.T) {
	a, _ := assemble(t)
	assert.Nil(t, a.Key(87, 0))
	assert.Nil(t, a.Key(-1, 0))
	assert.Nil(t, a.Key(0, PartsPerKey))
	assert.Nil(t, a.Part(part.Handle(a.Len())))
	assert.Nil(t, a.Parent(part.NoParent))

	_, _, ok := a.KeyOf(part.Handle(a.Len() - 1))
	assert.False(t, ok)
	k, off, ok := a.KeyOf(part.Handle(10*PartsPerKey + OffsetJack))
	assert.True(t, ok)
	assert.Equal(t, 10, k)
	assert.Equal(t, OffsetJack, off)
}

func TestLinkParentsRefusesIncompleteKeyboard(t *testing.T) {
	a := newArena(16, 87, zerolog.Nop())
	for i := 0; i < 16; i++ {
		_, err := a.add(part.New("x"))
		require.NoError(t, err)
	}
	assert.ErrorIs(t, a.linkParents(), ErrIncomplete)
	a.Each(func(_ part.Handle, p *part.Part) {
		assert.False(t, p.HasParent())
	})

	_, err := a.add(part.New("overflow"))
	assert.ErrorIs(t, err, ErrArenaFull)
}

func TestAssembleRejectsUnknownBase(t *testing.T) {
	layout, err := DefaultLayout()
	require.NoError(t, err)
	layout.Pattern[0].Base = "key_base_ivory"

	a, err := Assemble(prototypetest.Library(t), layout, zerolog.Nop())
	assert.ErrorIs(t, err, ErrInvalidLayout)
	assert.Nil(t, a)
}

func TestAssembleRejectsWrongRole(t *testing.T) {
	layout, err := DefaultLayout()
	require.NoError(t, err)
	layout.Mechanism[0] = "floor"

	_, err = Assemble(prototypetest.Library(t), layout, zerolog.Nop())
	assert.ErrorIs(t, err, ErrInvalidLayout)
}

func TestParseLayoutValidation(t *testing.T) {
	_, err := ParseLayout([]byte("mechanism: [a, b]\npattern: [{base: x}]\nreplicas: 1\n"))
	assert.ErrorIs(t, err, ErrInvalidLayout)
}

func TestInitialTransformsAreCurrent(t *testing.T) {
	a, _ := assemble(t)
	p := a.Key(40, OffsetHammer)
	assert.True(t, p.World.ApproxEqual(p.LocalTransform()))
}

func TestDump(t *testing.T) {
	a, _ := assemble(t)
	var sb strings.Builder
	require.NoError(t, a.Dump(&sb))
	lines := strings.Split(strings.TrimSpace(sb.String()), "\n")
	assert.Len(t, lines, a.Len())
	assert.True(t, strings.HasPrefix(lines[4], "4: key_jack"))
	assert.Contains(t, lines[4], "parent=2")
}

func TestReset(t *testing.T) {
	a, _ := assemble(t)
	hammer := a.Key(10, OffsetHammer)
	rest := *hammer

	hammer.StartRising()
	hammer.Advance(3)
	hammer.Move(mgl32.Vec3{1, 0, 0})
	a.Lid().StartRising()
	a.RefreshTransforms()
	require.NotEqual(t, rest.World, hammer.World)

	a.Reset()
	assert.Equal(t, rest, *a.Key(10, OffsetHammer))
	assert.Zero(t, a.Moving())
	assert.Equal(t, 87*PartsPerKey+7, a.Len())
}

func TestSetApplyScaleSurvivesReset(t *testing.T) {
	a, _ := assemble(t)
	a.SetApplyScale(true)
	a.Reset()
	a.Each(func(_ part.Handle, p *part.Part) {
		assert.True(t, p.ApplyScale)
	})
}
