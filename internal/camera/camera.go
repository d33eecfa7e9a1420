package camera

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"

	"piano-viewer/internal/input"
)

// Defaults for a new camera.
const (
	Yaw         = -90
	Pitch       = 0
	Speed       = 6
	Sensitivity = 0.25
	Zoom        = 45

	// panScale converts mouse movement into pan distance, on top of Sensitivity.
	panScale = 0.03
	// scrollSteps is how many movement steps one scroll notch is worth.
	scrollSteps = 5
	// zoomStep is the field-of-view change per shift+scroll notch, in degrees.
	zoomStep = 5
	minZoom  = 1
	maxZoom  = 90
)

// Direction is a keyboard movement direction.
type Direction int

const (
	Forward Direction = iota
	Backward
	Left
	Right
)

// Camera is a yaw/pitch free-fly camera. It never pitches past ±89° so the view cannot flip.
type Camera struct {
	Position mgl32.Vec3
	Front    mgl32.Vec3
	Up       mgl32.Vec3
	Right    mgl32.Vec3
	WorldUp  mgl32.Vec3

	Yaw, Pitch  float32
	Speed       float32
	Sensitivity float32
	ZoomSeconds float32

	zoom       float32
	zoomTarget float32
	zoomTween  *gween.Tween
}

// New returns a camera at pos looking down -Z.
func New(pos mgl32.Vec3) *Camera {
	c := &Camera{
		Position:    pos,
		WorldUp:     mgl32.Vec3{0, 1, 0},
		Yaw:         Yaw,
		Pitch:       Pitch,
		Speed:       Speed,
		Sensitivity: Sensitivity,
		ZoomSeconds: 0.2,
		zoom:        Zoom,
		zoomTarget:  Zoom,
	}
	c.updateVectors()
	return c
}

func (c *Camera) updateVectors() {
	yaw, pitch := mgl32.DegToRad(c.Yaw), mgl32.DegToRad(c.Pitch)
	front := mgl32.Vec3{
		math32.Cos(yaw) * math32.Cos(pitch),
		math32.Sin(pitch),
		math32.Sin(yaw) * math32.Cos(pitch),
	}
	c.Front = front.Normalize()
	c.Right = c.Front.Cross(c.WorldUp).Normalize()
	c.Up = c.Right.Cross(c.Front).Normalize()
}

// Move moves the camera Speed*dt units in dir.
func (c *Camera) Move(dir Direction, dt float32) {
	v := c.Speed * dt
	switch dir {
	case Forward:
		c.Position = c.Position.Add(c.Front.Mul(v))
	case Backward:
		c.Position = c.Position.Sub(c.Front.Mul(v))
	case Left:
		c.Position = c.Position.Sub(c.Right.Mul(v))
	case Right:
		c.Position = c.Position.Add(c.Right.Mul(v))
	}
}

// Look turns the camera by a mouse movement.
func (c *Camera) Look(dx, dy float32) {
	c.Yaw += dx * c.Sensitivity
	c.Pitch = mgl32.Clamp(c.Pitch+dy*c.Sensitivity, -89, 89)
	c.updateVectors()
}

// Pan slides the camera in the XY plane by a mouse movement.
func (c *Camera) Pan(dx, dy float32) {
	s := c.Sensitivity * panScale
	c.Position = c.Position.Add(mgl32.Vec3{dx * s, dy * s, 0})
}

// ZoomTo eases the field of view to deg over ZoomSeconds.
func (c *Camera) ZoomTo(deg float32) {
	deg = mgl32.Clamp(deg, minZoom, maxZoom)
	if deg == c.zoomTarget {
		return
	}
	c.zoomTarget = deg
	if c.ZoomSeconds <= 0 {
		c.zoom, c.zoomTween = deg, nil
		return
	}
	c.zoomTween = gween.New(c.zoom, deg, c.ZoomSeconds, ease.InOutCubic)
}

// SetZoom sets the field of view immediately, cancelling any running zoom.
func (c *Camera) SetZoom(deg float32) {
	deg = mgl32.Clamp(deg, minZoom, maxZoom)
	c.zoom, c.zoomTarget, c.zoomTween = deg, deg, nil
}

// Zoom returns the current vertical field of view in degrees.
func (c *Camera) Zoom() float32 {
	return c.zoom
}

// Update advances the zoom tween by dt seconds.
func (c *Camera) Update(dt float32) {
	if c.zoomTween == nil {
		return
	}
	val, done := c.zoomTween.Update(dt)
	c.zoom = val
	if done {
		c.zoom, c.zoomTween = c.zoomTarget, nil
	}
}

// View returns the view matrix.
func (c *Camera) View() mgl32.Mat4 {
	return mgl32.LookAtV(c.Position, c.Target(), c.Up)
}

// Target returns the point one unit in front of the camera.
func (c *Camera) Target() mgl32.Vec3 {
	return c.Position.Add(c.Front)
}

// Handle applies one event. The middle button held turns the camera; with shift it pans.
// Scroll moves forward and back, or zooms with shift. It reports whether the event was used.
func (c *Camera) Handle(ev input.Event, held *input.Held, dt float32) bool {
	switch ev.Kind {
	case input.MouseMove:
		if !held.Down(input.CodeMouseMiddle) {
			return false
		}
		if held.Down(input.CodeShift) {
			c.Pan(-ev.DX, -ev.DY)
		} else {
			c.Look(ev.DX, ev.DY)
		}
		return true
	case input.Scroll:
		if ev.DY == 0 {
			return false
		}
		if held.Down(input.CodeShift) {
			c.ZoomTo(c.zoomTarget - ev.DY*zoomStep)
			return true
		}
		dir := Forward
		if ev.DY < 0 {
			dir = Backward
		}
		c.Move(dir, scrollSteps*dt)
		return true
	}
	return false
}

// Drive moves the camera for every held WASD key and advances the zoom tween.
func (c *Camera) Drive(held *input.Held, dt float32) {
	if held.Down(input.CodeW) {
		c.Move(Forward, dt)
	}
	if held.Down(input.CodeS) {
		c.Move(Backward, dt)
	}
	if held.Down(input.CodeA) {
		c.Move(Left, dt)
	}
	if held.Down(input.CodeD) {
		c.Move(Right, dt)
	}
	c.Update(dt)
}
