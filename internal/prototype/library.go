package prototype

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/jinzhu/copier"
	"github.com/rs/zerolog"

	"piano-viewer/internal/geometry"
	"piano-viewer/internal/part"
)

var (
	ErrPrototypeCount = errors.New("fewer elements imported than the part table expects")
	ErrUnknownPart    = errors.New("unknown part type")
)

// Prototype is a read-only template for live parts: its calibrated rest state plus the
// imported geometry every instance draws.
type Prototype struct {
	Index    int
	Spec     Spec
	Template part.Part
	Element  geometry.Element
}

// Library holds one prototype per row of the part table. It is immutable after Build.
type Library struct {
	protos []Prototype
	byName map[string]int
}

// Build creates the library from imported elements, one per table row in the same order.
// It fails closed: on a count mismatch or an invalid element no library is returned.
func Build(t Table, elements []geometry.Element, log zerolog.Logger) (*Library, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	if len(elements) < len(t.Parts) {
		log.Error().Int("imported", len(elements)).Int("expected", len(t.Parts)).Msg("prototype library incomplete")
		return nil, fmt.Errorf("%w: got %d, want %d", ErrPrototypeCount, len(elements), len(t.Parts))
	}
	if len(elements) > len(t.Parts) {
		log.Warn().Int("imported", len(elements)).Int("expected", len(t.Parts)).Msg("ignoring extra imported elements")
	}

	lib := &Library{
		protos: make([]Prototype, len(t.Parts)),
		byName: make(map[string]int, len(t.Parts)),
	}
	for i, s := range t.Parts {
		el := elements[i]
		if err := el.Validate(); err != nil {
			return nil, fmt.Errorf("prototype %s: %w", s.Name, err)
		}
		tmpl := part.New(s.Name)
		tmpl.Prototype = i
		tmpl.SetIdlePosition(mgl32.Vec3(s.Pivot))
		if s.Role.moving() {
			m, err := t.motion(s)
			if err != nil {
				return nil, fmt.Errorf("prototype %s: %w", s.Name, err)
			}
			tmpl.Motion = m
			tmpl.SetTarget(s.Limit)
		}
		lib.protos[i] = Prototype{Index: i, Spec: s, Template: tmpl, Element: el}
		lib.byName[s.Name] = i
		log.Debug().Int("index", i).Str("name", s.Name).Str("role", string(s.Role)).
			Float32("limit", s.Limit).Int("meshes", len(el.Meshes)).Msg("prototype")
	}
	return lib, nil
}

// Len returns the number of prototypes.
func (l *Library) Len() int {
	return len(l.protos)
}

// At returns the prototype at index i.
func (l *Library) At(i int) (Prototype, bool) {
	if i < 0 || i >= len(l.protos) {
		return Prototype{}, false
	}
	return l.protos[i], true
}

// ByName returns the prototype with the given part name.
func (l *Library) ByName(name string) (Prototype, bool) {
	i, ok := l.byName[name]
	if !ok {
		return Prototype{}, false
	}
	return l.protos[i], true
}

// ByRole returns every prototype with the given role, in table order.
func (l *Library) ByRole(r Role) []Prototype {
	var out []Prototype
	for _, p := range l.protos {
		if p.Spec.Role == r {
			out = append(out, p)
		}
	}
	return out
}

// Instantiate returns a new live part copied from the named prototype's template.
func (l *Library) Instantiate(name string) (part.Part, error) {
	proto, ok := l.ByName(name)
	if !ok {
		return part.Part{}, fmt.Errorf("%w: %q", ErrUnknownPart, name)
	}
	var p part.Part
	if err := copier.CopyWithOption(&p, &proto.Template, copier.Option{DeepCopy: true}); err != nil {
		return part.Part{}, fmt.Errorf("instantiate %s: %w", name, err)
	}
	return p, nil
}
