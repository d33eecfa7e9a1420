package keyboard

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed layout.yaml
var defaultLayout []byte

var ErrInvalidLayout = errors.New("invalid keyboard layout")

// Spacing holds the three calibrated unit distances between neighbouring keys.
type Spacing struct {
	D1 float32 `yaml:"d1"`
	D2 float32 `yaml:"d2"`
	D3 float32 `yaml:"d3"`
}

// KeySlot places one key: the base prototype to use and its x offset as multiples of
// the unit spacings.
type KeySlot struct {
	Base string `yaml:"base"`
	D1   int    `yaml:"d1,omitempty"`
	D2   int    `yaml:"d2,omitempty"`
	D3   int    `yaml:"d3,omitempty"`
}

// Offset returns the slot's x offset for the given spacing.
func (k KeySlot) Offset(s Spacing) float32 {
	return float32(k.D1)*s.D1 + float32(k.D2)*s.D2 + float32(k.D3)*s.D3
}

// Markers lists the fixed light-marker positions and the part drawn at each.
type Markers struct {
	Part      string       `yaml:"part"`
	Positions [][3]float32 `yaml:"positions"`
}

// Layout describes how the keyboard is tiled from prototypes.
type Layout struct {
	Spacing    Spacing   `yaml:"spacing"`
	GroupWidth float32   `yaml:"groupWidth"`
	Replicas   int       `yaml:"replicas"`
	Mechanism  []string  `yaml:"mechanism"`
	Leading    []KeySlot `yaml:"leading"`
	Pattern    []KeySlot `yaml:"pattern"`
	Furniture  []string  `yaml:"furniture"`
	Markers    Markers   `yaml:"markers"`
}

// DefaultLayout returns the embedded 87-key layout.
func DefaultLayout() (Layout, error) {
	return ParseLayout(defaultLayout)
}

// LoadLayout reads a layout from a YAML file.
func LoadLayout(path string) (Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Layout{}, fmt.Errorf("keyboard layout: %w", err)
	}
	return ParseLayout(data)
}

// ParseLayout decodes and validates a YAML layout.
func ParseLayout(data []byte) (Layout, error) {
	var l Layout
	if err := yaml.Unmarshal(data, &l); err != nil {
		return Layout{}, fmt.Errorf("keyboard layout: %w", err)
	}
	if err := l.Validate(); err != nil {
		return Layout{}, err
	}
	return l, nil
}

// Validate checks the structural rules the assembler relies on.
func (l Layout) Validate() error {
	if len(l.Mechanism) != PartsPerKey-1 {
		return fmt.Errorf("%w: mechanism has %d parts, want %d", ErrInvalidLayout, len(l.Mechanism), PartsPerKey-1)
	}
	if len(l.Pattern) == 0 || l.Replicas < 0 {
		return fmt.Errorf("%w: empty pattern", ErrInvalidLayout)
	}
	if l.KeyCount() == 0 {
		return fmt.Errorf("%w: no keys", ErrInvalidLayout)
	}
	for i, k := range append(append([]KeySlot{}, l.Leading...), l.Pattern...) {
		if k.Base == "" {
			return fmt.Errorf("%w: key slot %d has no base", ErrInvalidLayout, i)
		}
	}
	return nil
}

// KeyCount returns the number of keys the layout produces.
func (l Layout) KeyCount() int {
	return len(l.Leading) + l.Replicas*len(l.Pattern)
}

// PartCount returns the number of live parts the layout produces.
func (l Layout) PartCount() int {
	n := l.KeyCount()*PartsPerKey + len(l.Furniture)
	if l.Markers.Part != "" {
		n += len(l.Markers.Positions)
	}
	return n
}
