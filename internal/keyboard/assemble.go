package keyboard

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/rs/zerolog"

	"piano-viewer/internal/part"
	"piano-viewer/internal/prototype"
)

// Assemble stamps out the whole instrument from the prototype library: the leading keys,
// replicas of the key pattern, the furniture and the light markers, then links each key's
// jack and repetition lever to its wippen. On any error no arena is returned.
func Assemble(lib *prototype.Library, layout Layout, log zerolog.Logger) (*Arena, error) {
	if err := layout.Validate(); err != nil {
		return nil, err
	}
	if err := checkPrototypes(lib, layout); err != nil {
		log.Error().Err(err).Msg("keyboard layout does not match prototype library")
		return nil, err
	}

	a := newArena(layout.PartCount(), layout.KeyCount(), log)
	for _, slot := range layout.Leading {
		if err := a.addKey(lib, layout, slot, 0); err != nil {
			return nil, err
		}
	}
	for i := 0; i < layout.Replicas; i++ {
		shift := float32(i) * layout.GroupWidth
		for _, slot := range layout.Pattern {
			if err := a.addKey(lib, layout, slot, shift); err != nil {
				return nil, err
			}
		}
	}
	log.Info().Int("keys", a.keys).Int("parts", a.Len()).Msg("keys assembled")

	if err := a.linkParents(); err != nil {
		return nil, err
	}

	for _, name := range layout.Furniture {
		p, err := lib.Instantiate(name)
		if err != nil {
			return nil, err
		}
		h, err := a.add(p)
		if err != nil {
			return nil, err
		}
		if proto, _ := lib.ByName(name); proto.Spec.Role == prototype.RoleLid {
			a.lid = h
		}
	}
	if layout.Markers.Part != "" {
		for _, pos := range layout.Markers.Positions {
			p, err := lib.Instantiate(layout.Markers.Part)
			if err != nil {
				return nil, err
			}
			p.SetIdlePosition(mgl32.Vec3(pos))
			h, err := a.add(p)
			if err != nil {
				return nil, err
			}
			a.markers = append(a.markers, h)
		}
	}

	a.RefreshTransforms()
	a.snapshot()
	log.Info().Int("parts", a.Len()).Bool("lid", a.Lid() != nil).Int("markers", len(a.markers)).Msg("scene assembled")
	return a, nil
}

// addKey appends one key block: the base followed by the mechanism parts, all shifted
// along x by the slot offset plus shift.
func (a *Arena) addKey(lib *prototype.Library, layout Layout, slot KeySlot, shift float32) error {
	dx := mgl32.Vec3{slot.Offset(layout.Spacing) + shift, 0, 0}
	names := append([]string{slot.Base}, layout.Mechanism...)
	for _, name := range names {
		p, err := lib.Instantiate(name)
		if err != nil {
			return err
		}
		p.Move(dx)
		if _, err := a.add(p); err != nil {
			return err
		}
	}
	return nil
}

// linkParents makes every key's jack and repetition lever swing with its wippen.
// It refuses to run before every key block exists.
func (a *Arena) linkParents() error {
	want := a.keys * PartsPerKey
	if a.Len() < want {
		a.log.Error().Int("parts", a.Len()).Int("want", want).Msg("skipping parent links: keyboard incomplete")
		return fmt.Errorf("%w: %d of %d key parts", ErrIncomplete, a.Len(), want)
	}
	for n := 0; n < a.keys; n++ {
		wippen := part.Handle(n*PartsPerKey + OffsetWippen)
		a.parts[n*PartsPerKey+OffsetJack].Parent = wippen
		a.parts[n*PartsPerKey+OffsetLever].Parent = wippen
	}
	return nil
}

// checkPrototypes verifies every name the layout refers to exists with a fitting role.
func checkPrototypes(lib *prototype.Library, layout Layout) error {
	need := func(name string, roles ...prototype.Role) error {
		p, ok := lib.ByName(name)
		if !ok {
			return fmt.Errorf("%w: %w %q", ErrInvalidLayout, prototype.ErrUnknownPart, name)
		}
		for _, r := range roles {
			if p.Spec.Role == r {
				return nil
			}
		}
		return fmt.Errorf("%w: %q has role %q", ErrInvalidLayout, name, p.Spec.Role)
	}
	for _, k := range append(append([]KeySlot{}, layout.Leading...), layout.Pattern...) {
		if err := need(k.Base, prototype.RoleKey); err != nil {
			return err
		}
	}
	for i, name := range layout.Mechanism {
		roles := []prototype.Role{prototype.RoleSupport}
		if i+1 < MobileParts {
			roles = []prototype.Role{prototype.RoleKey}
		}
		if err := need(name, roles...); err != nil {
			return err
		}
	}
	for _, name := range layout.Furniture {
		if err := need(name, prototype.RoleFurniture, prototype.RoleLid); err != nil {
			return err
		}
	}
	if layout.Markers.Part != "" {
		if err := need(layout.Markers.Part, prototype.RoleMarker); err != nil {
			return err
		}
	}
	return nil
}
