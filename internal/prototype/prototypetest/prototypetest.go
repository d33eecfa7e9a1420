// Package prototypetest builds prototype libraries from synthetic geometry for tests.
package prototypetest

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/rs/zerolog"

	"piano-viewer/internal/geometry"
	"piano-viewer/internal/prototype"
)

// Elements returns n single-triangle elements, one per source file.
func Elements(n int) []geometry.Element {
	out := make([]geometry.Element, n)
	for i := range out {
		out[i] = geometry.Element{
			Source: "synthetic",
			Meshes: []geometry.Mesh{{
				Positions: []mgl32.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}},
				Indices:   []uint32{0, 1, 2},
			}},
		}
	}
	return out
}

// Library builds a library from the embedded part table and synthetic geometry.
func Library(t testing.TB) *prototype.Library {
	t.Helper()
	table, err := prototype.DefaultTable()
	if err != nil {
		t.Fatalf("default table: %v", err)
	}
	lib, err := prototype.Build(table, Elements(len(table.Parts)), zerolog.Nop())
	if err != nil {
		t.Fatalf("build library: %v", err)
	}
	return lib
}
