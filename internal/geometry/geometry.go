package geometry

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// TextureKind tags what a texture is sampled for.
type TextureKind string

const (
	TextureDiffuse  TextureKind = "diffuse"
	TextureSpecular TextureKind = "specular"
)

// TextureRef names a texture file relative to the asset directory.
type TextureRef struct {
	Path string
	Kind TextureKind
}

// Mesh is the CPU-side geometry of one imported mesh: a triangle list over per-vertex
// positions, normals and texture coordinates. Normals and texcoords may be empty.
type Mesh struct {
	Positions []mgl32.Vec3
	Normals   []mgl32.Vec3
	TexCoords []mgl32.Vec2
	Indices   []uint32
	Textures  []TextureRef
}

// Element is everything one source file produced.
type Element struct {
	Source string
	Meshes []Mesh
}

var (
	ErrEmptyMesh      = errors.New("mesh has no vertices")
	ErrNotTriangles   = errors.New("index count is not a multiple of 3")
	ErrIndexRange     = errors.New("index out of range")
	ErrAttributeCount = errors.New("attribute count does not match vertex count")
	ErrNoMeshes       = errors.New("element has no meshes")
)

// Triangles returns the number of triangles, using the vertex order when there are no indices.
func (m Mesh) Triangles() int {
	if len(m.Indices) > 0 {
		return len(m.Indices) / 3
	}
	return len(m.Positions) / 3
}

// Validate checks that the mesh is a well-formed triangle list.
func (m Mesh) Validate() error {
	n := len(m.Positions)
	if n == 0 {
		return ErrEmptyMesh
	}
	if len(m.Normals) != 0 && len(m.Normals) != n {
		return fmt.Errorf("normals: %w (%d != %d)", ErrAttributeCount, len(m.Normals), n)
	}
	if len(m.TexCoords) != 0 && len(m.TexCoords) != n {
		return fmt.Errorf("texcoords: %w (%d != %d)", ErrAttributeCount, len(m.TexCoords), n)
	}
	if len(m.Indices) == 0 {
		if n%3 != 0 {
			return ErrNotTriangles
		}
		return nil
	}
	if len(m.Indices)%3 != 0 {
		return ErrNotTriangles
	}
	for i, idx := range m.Indices {
		if int(idx) >= n {
			return fmt.Errorf("%w: indices[%d]=%d, %d vertices", ErrIndexRange, i, idx, n)
		}
	}
	return nil
}

// Bounds returns the axis-aligned box around all positions. Empty meshes return zero vectors.
func (m Mesh) Bounds() (lo, hi mgl32.Vec3) {
	if len(m.Positions) == 0 {
		return
	}
	lo, hi = m.Positions[0], m.Positions[0]
	for _, p := range m.Positions[1:] {
		for i := 0; i < 3; i++ {
			lo[i] = min(lo[i], p[i])
			hi[i] = max(hi[i], p[i])
		}
	}
	return lo, hi
}

// Validate checks that the element has at least one mesh and that all of them are valid.
func (e Element) Validate() error {
	if len(e.Meshes) == 0 {
		return fmt.Errorf("%s: %w", e.Source, ErrNoMeshes)
	}
	for i, m := range e.Meshes {
		if err := m.Validate(); err != nil {
			return fmt.Errorf("%s: mesh %d: %w", e.Source, i, err)
		}
	}
	return nil
}
