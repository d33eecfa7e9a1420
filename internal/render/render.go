package render

import (
	"unsafe"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/rs/zerolog"

	"piano-viewer/internal/importer"
	"piano-viewer/internal/keyboard"
	"piano-viewer/internal/part"
)

// Renderer draws the arena with one lit shader. Models are indexed by prototype index,
// the same order the library was built in.
type Renderer struct {
	models []importer.Model
	shader rl.Shader
	locs   uniforms
	light  lighting
	root   mgl32.Mat4
	log    zerolog.Logger

	viewPos  [3]float32
	lightDir [3]float32

	drawn int
}

// New takes ownership of models and switches all their materials to the lit shader.
// root is applied to every part after its own world transform.
func New(models []importer.Model, root mgl32.Mat4, log zerolog.Logger) *Renderer {
	r := &Renderer{
		models:   models,
		light:    defaultLighting,
		root:     root,
		log:      log,
		lightDir: [3]float32{0.5, 1, 0.5},
	}
	r.shader = rl.LoadShaderFromMemory(litVS, litFS)
	if !rl.IsShaderValid(r.shader) {
		log.Warn().Msg("lit shader failed to compile; using raylib default shading")
		return r
	}
	r.locs = locate(r.shader)
	for _, m := range models {
		materials := m.Model.GetMaterials()
		for i := range materials {
			materials[i].Shader = r.shader
		}
	}
	return r
}

// RootTransform returns translate(offset) followed by a uniform scale.
func RootTransform(offset mgl32.Vec3, scale float32) mgl32.Mat4 {
	return mgl32.Translate3D(offset[0], offset[1], offset[2]).Mul4(mgl32.Scale3D(scale, scale, scale))
}

// SetView sets the camera position and the light position for this frame. The light
// shines from light (in model space) toward the instrument's origin.
func (r *Renderer) SetView(camPos, light mgl32.Vec3) {
	r.viewPos = camPos
	if dir := r.root.Mul4x1(light.Vec4(1)).Vec3().Sub(r.root.Col(3).Vec3()); dir.Len() > 0 {
		r.lightDir = dir.Normalize()
	}
}

// Draw renders every part. Must be called between BeginMode3D and EndMode3D.
func (r *Renderer) Draw(a *keyboard.Arena) {
	if rl.IsShaderValid(r.shader) {
		r.locs.apply(r.shader, r.light, r.viewPos, r.lightDir)
	}
	r.drawn = 0
	a.Each(func(h part.Handle, p *part.Part) {
		if p.Prototype < 0 || p.Prototype >= len(r.models) {
			r.log.Warn().Int("handle", int(h)).Int("prototype", p.Prototype).Msg("part has no model")
			return
		}
		r.drawModel(r.models[p.Prototype].Model, toMatrix(r.root.Mul4(p.World)))
		r.drawn++
	})
}

func (r *Renderer) drawModel(m rl.Model, transform rl.Matrix) {
	meshes := m.GetMeshes()
	materials := m.GetMaterials()
	var meshMaterial []int32
	if m.MeshMaterial != nil {
		meshMaterial = unsafe.Slice(m.MeshMaterial, m.MeshCount)
	}
	for i := range meshes {
		mat := 0
		if i < len(meshMaterial) {
			mat = int(meshMaterial[i])
		}
		if mat < 0 || mat >= len(materials) {
			continue
		}
		rl.DrawMesh(meshes[i], materials[mat], transform)
	}
}

// Drawn returns how many parts the last Draw rendered.
func (r *Renderer) Drawn() int {
	return r.drawn
}

// Close frees the shader and the models.
func (r *Renderer) Close() {
	importer.Unload(r.models)
	if rl.IsShaderValid(r.shader) {
		rl.UnloadShader(r.shader)
	}
}

// toMatrix converts a column-major mgl32 matrix to raylib's layout, whose field Mi holds
// column-major element i.
func toMatrix(m mgl32.Mat4) rl.Matrix {
	return rl.Matrix{
		M0: m[0], M1: m[1], M2: m[2], M3: m[3],
		M4: m[4], M5: m[5], M6: m[6], M7: m[7],
		M8: m[8], M9: m[9], M10: m[10], M11: m[11],
		M12: m[12], M13: m[13], M14: m[14], M15: m[15],
	}
}
