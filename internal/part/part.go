package part

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Handle is a stable index of a Part inside an arena. Handles never move once the
// arena is built, so they are safe to store where a pointer would dangle after reallocation.
type Handle int

// NoParent marks a part that is positioned in world space on its own.
const NoParent Handle = -1

// Axis selects the rotation component a part animates on.
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

// String returns "x", "y" or "z".
func (a Axis) String() string {
	switch a {
	case AxisX:
		return "x"
	case AxisY:
		return "y"
	case AxisZ:
		return "z"
	}
	return "?"
}

// Motion is the animation profile shared by every part of one type: which axis moves and
// how fast. Rise and Fall are fractions of the rotation limit covered per reference tick.
type Motion struct {
	Axis Axis
	Rise float32
	Fall float32
}

// Part is one rigid visual element: a local transform, an optional rotation limit with a
// rising/falling state, and a cached world transform rebuilt every frame.
type Part struct {
	Name      string
	Prototype int // index of the prototype whose mesh data is drawn for this part

	Position mgl32.Vec3
	Rotation mgl32.Vec3 // degrees per axis
	Scale    mgl32.Vec3

	// ApplyScale opts in to scaling the world transform by Scale. Off by default: the
	// source geometry is authored at its final size.
	ApplyScale bool

	Limit  float32 // signed target angle on Motion.Axis, in degrees
	Motion Motion

	Rising  bool
	Falling bool

	Parent Handle

	World mgl32.Mat4
}

// New returns an idle part at the origin with unit scale and no parent.
func New(name string) Part {
	return Part{
		Name:   name,
		Scale:  mgl32.Vec3{1, 1, 1},
		Parent: NoParent,
		World:  mgl32.Ident4(),
	}
}

// SetTarget sets the signed rotation limit. The sign gives the direction of rotation.
func (p *Part) SetTarget(limit float32) {
	p.Limit = limit
}

// SetIdlePosition places the part at its rest position (its pivot in model space).
func (p *Part) SetIdlePosition(pos mgl32.Vec3) {
	p.Position = pos
}

// Move translates the part by delta.
func (p *Part) Move(delta mgl32.Vec3) {
	p.Position = p.Position.Add(delta)
}

// Rotate adds delta degrees to the rotation on each axis. It does not touch the motion flags.
func (p *Part) Rotate(delta mgl32.Vec3) {
	p.Rotation = p.Rotation.Add(delta)
}

// Angle returns the current rotation on the animated axis.
func (p *Part) Angle() float32 {
	return p.Rotation[p.Motion.Axis]
}

// Moving reports whether the part is rising or falling.
func (p *Part) Moving() bool {
	return p.Rising || p.Falling
}

// HasParent reports whether the part swings around a pivot parent.
func (p *Part) HasParent() bool {
	return p.Parent != NoParent
}
