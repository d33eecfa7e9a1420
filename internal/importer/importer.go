package importer

import (
	"fmt"
	"unsafe"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/rs/zerolog"

	"piano-viewer/internal/assets"
	"piano-viewer/internal/geometry"
	"piano-viewer/internal/prototype"
)

// Model is one imported source file: the GPU-side raylib model and its CPU copy.
type Model struct {
	Spec    prototype.Spec
	Model   rl.Model
	Element geometry.Element
}

// Importer loads part models from the asset directory. Textures go through a shared cache
// so a texture referenced by several parts is uploaded once. Must be used after the
// window (and so the GL context) exists.
type Importer struct {
	dir      string
	textures *assets.Cache[rl.Texture2D]
	log      zerolog.Logger
}

// New returns an importer reading from dir.
func New(dir string, log zerolog.Logger) *Importer {
	im := &Importer{dir: dir, log: log}
	im.textures = assets.NewCache(loadTexture, log)
	return im
}

func loadTexture(path string) (rl.Texture2D, error) {
	tex := rl.LoadTexture(path)
	if !rl.IsTextureValid(tex) {
		return tex, fmt.Errorf("%w: texture %s", assets.ErrMissingAsset, path)
	}
	rl.GenTextureMipmaps(&tex)
	rl.SetTextureFilter(tex, rl.FilterTrilinear)
	return tex, nil
}

// LoadAll imports every file of the table in order. It stops at the first file that
// yields no meshes; the models loaded so far are unloaded.
func (im *Importer) LoadAll(specs []prototype.Spec) ([]Model, error) {
	models := make([]Model, 0, len(specs))
	for _, s := range specs {
		m, err := im.Load(s)
		if err != nil {
			Unload(models)
			return nil, err
		}
		models = append(models, m)
	}
	im.log.Info().Int("files", len(models)).Int("textures", im.textures.Len()).Msg("models imported")
	return models, nil
}

// Load imports one file and applies the part's texture, if any.
func (im *Importer) Load(s prototype.Spec) (Model, error) {
	path := assets.Resolve(im.dir, s.File)
	model := rl.LoadModel(path)
	if !rl.IsModelValid(model) || model.MeshCount == 0 {
		return Model{}, fmt.Errorf("import %s: %w", path, geometry.ErrNoMeshes)
	}

	el := geometry.Element{Source: s.File}
	for _, mesh := range model.GetMeshes() {
		el.Meshes = append(el.Meshes, convert(mesh, s.Texture))
	}
	if err := el.Validate(); err != nil {
		rl.UnloadModel(model)
		return Model{}, fmt.Errorf("import %s: %w", path, err)
	}

	if s.Texture != "" {
		// a missing texture is not fatal; the part is drawn untextured
		if tex, err := im.textures.Get(assets.Resolve(im.dir, s.Texture)); err == nil {
			materials := model.GetMaterials()
			for i := range materials {
				rl.SetMaterialTexture(&materials[i], rl.MapAlbedo, tex)
			}
		}
	}

	var tris int
	for _, m := range el.Meshes {
		tris += m.Triangles()
	}
	im.log.Debug().Str("file", s.File).Int("meshes", len(el.Meshes)).Int("triangles", tris).Msg("model imported")
	return Model{Spec: s, Model: model, Element: el}, nil
}

// Elements returns the CPU side of models, in order.
func Elements(models []Model) []geometry.Element {
	out := make([]geometry.Element, len(models))
	for i, m := range models {
		out[i] = m.Element
	}
	return out
}

// Unload frees the meshes and materials of models. raylib leaves textures alone, so cached
// textures stay valid until Close.
func Unload(models []Model) {
	for _, m := range models {
		rl.UnloadModel(m.Model)
	}
}

// Close frees every cached texture.
func (im *Importer) Close() {
	im.textures.Drain(func(_ string, tex rl.Texture2D) {
		rl.UnloadTexture(tex)
	})
}

// convert copies a raylib mesh into CPU geometry. raylib stores attributes as flat float
// arrays and indices as uint16; non-indexed meshes have a nil index pointer.
func convert(m rl.Mesh, texture string) geometry.Mesh {
	n := int(m.VertexCount)
	out := geometry.Mesh{Positions: vec3s(m.Vertices, n)}
	if m.Normals != nil {
		out.Normals = vec3s(m.Normals, n)
	}
	if m.Texcoords != nil {
		uv := unsafe.Slice(m.Texcoords, n*2)
		out.TexCoords = make([]mgl32.Vec2, n)
		for i := range out.TexCoords {
			out.TexCoords[i] = mgl32.Vec2{uv[i*2], uv[i*2+1]}
		}
	}
	if m.Indices != nil {
		idx := unsafe.Slice(m.Indices, int(m.TriangleCount)*3)
		out.Indices = make([]uint32, len(idx))
		for i, v := range idx {
			out.Indices[i] = uint32(v)
		}
	}
	if texture != "" {
		out.Textures = []geometry.TextureRef{{Path: texture, Kind: geometry.TextureDiffuse}}
	}
	return out
}

func vec3s(p *float32, n int) []mgl32.Vec3 {
	if p == nil || n == 0 {
		return nil
	}
	flat := unsafe.Slice(p, n*3)
	out := make([]mgl32.Vec3, n)
	for i := range out {
		out[i] = mgl32.Vec3{flat[i*3], flat[i*3+1], flat[i*3+2]}
	}
	return out
}
