package part

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const maxTicks = 1000

func keyPart(limit float32) Part {
	p := New("hammer")
	p.SetTarget(limit)
	p.Motion = Motion{Axis: AxisX, Rise: 0.1, Fall: 0.075}
	return p
}

func runUntilIdle(t *testing.T, p *Part, check func(prev, cur float32)) int {
	t.Helper()
	for i := 0; i < maxTicks; i++ {
		if !p.Moving() {
			return i
		}
		prev := p.Angle()
		p.Advance(1)
		assert.False(t, p.Rising && p.Falling, "rising and falling at once")
		if check != nil {
			check(prev, p.Angle())
		}
	}
	t.Fatalf("part %q still moving after %d ticks", p.Name, maxTicks)
	return maxTicks
}

func TestRiseStopsExactlyOnLimit(t *testing.T) {
	for _, limit := range []float32{1.88, 20.9, 2.5, 11.6, 45} {
		p := keyPart(limit)
		p.StartRising()
		runUntilIdle(t, &p, func(prev, cur float32) {
			assert.GreaterOrEqual(t, cur, prev)
			assert.LessOrEqual(t, cur, limit)
		})
		assert.Equal(t, limit, p.Angle())
		assert.False(t, p.Rising)

		p.Advance(1)
		assert.Equal(t, limit, p.Angle(), "advance at the limit must be a no-op")
	}
}

func TestRiseNegativeLimit(t *testing.T) {
	p := keyPart(-3.04)
	p.StartRising()
	runUntilIdle(t, &p, func(prev, cur float32) {
		assert.LessOrEqual(t, cur, prev)
		assert.GreaterOrEqual(t, cur, float32(-3.04))
	})
	assert.Equal(t, float32(-3.04), p.Angle())
}

func TestFallReturnsToZeroWithoutOvershoot(t *testing.T) {
	for _, limit := range []float32{20.9, -3.04} {
		p := keyPart(limit)
		p.Rotation[0] = limit
		p.StartFalling()
		runUntilIdle(t, &p, func(_, cur float32) {
			assert.GreaterOrEqual(t, cur*direction(limit), float32(0), "overshot rest")
		})
		assert.Equal(t, float32(0), p.Angle())
		assert.False(t, p.Falling)
	}
}

func TestRoundTripRestsAtZero(t *testing.T) {
	p := keyPart(11.6)
	p.StartRising()
	runUntilIdle(t, &p, nil)
	p.StartFalling()
	runUntilIdle(t, &p, nil)
	assert.Equal(t, float32(0), p.Angle())

	// partial rise with fractional ticks
	p.StartRising()
	p.Advance(0.37)
	p.Advance(1.9)
	p.StartFalling()
	runUntilIdle(t, &p, nil)
	assert.Equal(t, float32(0), p.Angle())
}

func TestReverseMidFlightKeepsAngle(t *testing.T) {
	p := New("lid")
	p.SetTarget(45)
	p.Motion = Motion{Axis: AxisZ, Rise: 0.02, Fall: 0.0175}
	p.StartRising()
	for i := 0; i < 10; i++ {
		p.Advance(1)
	}
	partial := p.Angle()
	require.Greater(t, partial, float32(0))
	require.Less(t, partial, float32(45))

	p.StartFalling()
	assert.Equal(t, partial, p.Angle(), "reversal must not jump to an endpoint")
	p.Advance(1)
	assert.Less(t, p.Angle(), partial)
	assert.Equal(t, float32(0), p.Rotation[0], "lid animates on z only")
}

func TestStartFlagsAreExclusive(t *testing.T) {
	p := keyPart(1)
	p.StartRising()
	p.StartRising()
	assert.True(t, p.Rising)
	assert.False(t, p.Falling)
	p.StartFalling()
	assert.False(t, p.Rising)
	assert.True(t, p.Falling)
	p.Stop()
	assert.False(t, p.Moving())
}

func TestIdleAdvanceIsNoop(t *testing.T) {
	p := keyPart(20)
	p.Rotation[0] = 5
	p.Advance(3)
	assert.Equal(t, float32(5), p.Angle())
}

func TestZeroLimitSettlesImmediately(t *testing.T) {
	p := keyPart(0)
	p.StartRising()
	p.Advance(1)
	assert.False(t, p.Rising)
	assert.Equal(t, float32(0), p.Angle())
	assert.Equal(t, float32(0), p.Progress())
}

func TestWorldTransformWithoutParent(t *testing.T) {
	p := New("base")
	p.SetIdlePosition(mgl32.Vec3{1, 2, 3})
	m := p.ComputeWorldTransform(nil)
	got := m.Mul4x1(mgl32.Vec4{0, 0, 0, 1}).Vec3()
	assert.True(t, got.ApproxEqual(mgl32.Vec3{1, 2, 3}), "got %v", got)
	assert.Equal(t, m, p.World)
}

func TestWorldTransformSwingsAroundParentPivot(t *testing.T) {
	parent := New("wippen")
	parent.SetIdlePosition(mgl32.Vec3{0, 1, 0})
	parent.Motion.Axis = AxisX
	parent.Rotation[0] = 90

	child := New("jack")
	child.SetIdlePosition(mgl32.Vec3{0, 2, 0})
	child.ComputeWorldTransform(&parent)

	got := child.World.Mul4x1(mgl32.Vec4{0, 0, 0, 1}).Vec3()
	assert.True(t, got.ApproxEqualThreshold(mgl32.Vec3{0, 1, 1}, 1e-5), "got %v", got)
}

func TestWorldTransformParentAtRestIsLocal(t *testing.T) {
	parent := New("wippen")
	parent.SetIdlePosition(mgl32.Vec3{4, 5, 6})

	child := New("lever")
	child.SetIdlePosition(mgl32.Vec3{1, 1, 1})
	child.Rotation[0] = 12

	assert.True(t, child.ComputeWorldTransform(&parent).ApproxEqual(child.LocalTransform()))
}

func TestScaleIsOptIn(t *testing.T) {
	p := New("floor")
	p.Scale = mgl32.Vec3{2, 2, 2}
	corner := mgl32.Vec4{1, 1, 1, 1}

	got := p.ComputeWorldTransform(nil).Mul4x1(corner).Vec3()
	assert.True(t, got.ApproxEqual(mgl32.Vec3{1, 1, 1}))

	p.ApplyScale = true
	got = p.ComputeWorldTransform(nil).Mul4x1(corner).Vec3()
	assert.True(t, got.ApproxEqual(mgl32.Vec3{2, 2, 2}))
}

func TestAxisString(t *testing.T) {
	assert.Equal(t, "x", AxisX.String())
	assert.Equal(t, "z", AxisZ.String())
	assert.Equal(t, "?", Axis(9).String())
}
