package scene

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl32"

	"piano-viewer/internal/camera"
	"piano-viewer/internal/keyboard"
	"piano-viewer/internal/render"
)

const (
	gridExtent     = 20
	gridMinorStep  = 1
	gridMajorStep  = 5
	gridMinorAlpha = 50
	gridMajorAlpha = 120
	axisLineAlpha  = 220
)

// Scene draws the instrument from the free camera, with an optional ground grid.
type Scene struct {
	Camera      *camera.Camera
	GridVisible bool

	arena    *keyboard.Arena
	renderer *render.Renderer
	view     rl.Camera3D
}

// New returns a scene viewing arena through cam.
func New(cam *camera.Camera, arena *keyboard.Arena, r *render.Renderer) *Scene {
	s := &Scene{Camera: cam, GridVisible: true, arena: arena, renderer: r}
	s.view.Projection = rl.CameraPerspective
	return s
}

// SetGridVisible sets whether the grid is drawn.
func (s *Scene) SetGridVisible(visible bool) {
	s.GridVisible = visible
}

// light returns the model-space position of the first light marker, or a default above
// and in front of the instrument.
func (s *Scene) light() mgl32.Vec3 {
	for _, h := range s.arena.Markers() {
		if p := s.arena.Part(h); p != nil {
			return p.Position
		}
	}
	return mgl32.Vec3{2.5, 3, 2.2}
}

func vec(v mgl32.Vec3) rl.Vector3 {
	return rl.NewVector3(v[0], v[1], v[2])
}

// Draw renders the 3D scene. Call after ClearBackground and before 2D overlays.
func (s *Scene) Draw() {
	c := s.Camera
	s.view.Position = vec(c.Position)
	s.view.Target = vec(c.Target())
	s.view.Up = vec(c.Up)
	s.view.Fovy = c.Zoom()

	rl.BeginMode3D(s.view)
	if s.GridVisible {
		drawGrid()
	}
	s.renderer.SetView(c.Position, s.light())
	s.renderer.Draw(s.arena)
	rl.EndMode3D()
}

// drawGrid draws a grid on the XZ plane with major/minor lines and the three axes.
func drawGrid() {
	minor := rl.NewColor(128, 128, 128, gridMinorAlpha)
	major := rl.NewColor(160, 160, 160, gridMajorAlpha)

	var start, end rl.Vector3
	for i := -gridExtent; i <= gridExtent; i += gridMinorStep {
		c := minor
		if i%gridMajorStep == 0 {
			c = major
		}
		start.X, start.Y, start.Z = float32(i), 0, -gridExtent
		end.X, end.Y, end.Z = float32(i), 0, gridExtent
		rl.DrawLine3D(start, end, c)
		start.X, start.Y, start.Z = -gridExtent, 0, float32(i)
		end.X, end.Y, end.Z = gridExtent, 0, float32(i)
		rl.DrawLine3D(start, end, c)
	}

	axes := [3]struct {
		dir rl.Vector3
		col rl.Color
	}{
		{rl.NewVector3(1, 0, 0), rl.NewColor(220, 80, 80, axisLineAlpha)},
		{rl.NewVector3(0, 1, 0), rl.NewColor(80, 220, 80, axisLineAlpha)},
		{rl.NewVector3(0, 0, 1), rl.NewColor(80, 80, 220, axisLineAlpha)},
	}
	for _, a := range axes {
		rl.DrawLine3D(rl.Vector3Scale(a.dir, -gridExtent), rl.Vector3Scale(a.dir, gridExtent), a.col)
	}
}
