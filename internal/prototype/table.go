package prototype

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"piano-viewer/internal/part"
)

//go:embed parts.yaml
var defaultTable []byte

// Role says how the assembler uses a part type.
type Role string

const (
	RoleKey       Role = "key"       // moving part of a key mechanism (bases, hammer, wippen, lever, jack)
	RoleSupport   Role = "support"   // fixed hardware repeated with every key
	RoleFurniture Role = "furniture" // body, strings, floor: placed once
	RoleLid       Role = "lid"
	RoleMarker    Role = "marker" // light position marker
)

func (r Role) moving() bool {
	return r == RoleKey || r == RoleLid
}

func (r Role) known() bool {
	switch r {
	case RoleKey, RoleSupport, RoleFurniture, RoleLid, RoleMarker:
		return true
	}
	return false
}

// MotionSpec is the YAML form of part.Motion.
type MotionSpec struct {
	Axis string  `yaml:"axis"`
	Rise float32 `yaml:"rise"`
	Fall float32 `yaml:"fall"`
}

// Spec is the calibration row of one part type.
type Spec struct {
	Name    string     `yaml:"name"`
	File    string     `yaml:"file"`
	Role    Role       `yaml:"role"`
	Pivot   [3]float32 `yaml:"pivot,omitempty"`
	Limit   float32    `yaml:"limit,omitempty"`
	Motion  string     `yaml:"motion,omitempty"`
	Texture string     `yaml:"texture,omitempty"`
}

// Table is the declarative per-part-type configuration: tuning lives here, not in the
// assembly code.
type Table struct {
	Motions map[string]MotionSpec `yaml:"motions"`
	Parts   []Spec                `yaml:"parts"`
}

var ErrInvalidTable = errors.New("invalid part table")

// DefaultTable returns the embedded calibration table.
func DefaultTable() (Table, error) {
	return ParseTable(defaultTable)
}

// LoadTable reads a table from a YAML file.
func LoadTable(path string) (Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Table{}, fmt.Errorf("part table: %w", err)
	}
	return ParseTable(data)
}

// ParseTable decodes and validates a YAML table.
func ParseTable(data []byte) (Table, error) {
	var t Table
	if err := yaml.Unmarshal(data, &t); err != nil {
		return Table{}, fmt.Errorf("part table: %w", err)
	}
	if err := t.Validate(); err != nil {
		return Table{}, err
	}
	return t, nil
}

// Validate checks names are unique, roles are known and every moving part has a usable
// motion profile.
func (t Table) Validate() error {
	if len(t.Parts) == 0 {
		return fmt.Errorf("%w: no parts", ErrInvalidTable)
	}
	seen := make(map[string]bool, len(t.Parts))
	for i, s := range t.Parts {
		if s.Name == "" || s.File == "" {
			return fmt.Errorf("%w: parts[%d] needs name and file", ErrInvalidTable, i)
		}
		if seen[s.Name] {
			return fmt.Errorf("%w: duplicate part %q", ErrInvalidTable, s.Name)
		}
		seen[s.Name] = true
		if !s.Role.known() {
			return fmt.Errorf("%w: %s: unknown role %q", ErrInvalidTable, s.Name, s.Role)
		}
		if !s.Role.moving() {
			continue
		}
		if _, err := t.motion(s); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalidTable, s.Name, err)
		}
	}
	return nil
}

// Files returns the source files to import, in table order.
func (t Table) Files() []string {
	files := make([]string, len(t.Parts))
	for i, s := range t.Parts {
		files[i] = s.File
	}
	return files
}

// motion resolves the motion profile of a moving part.
func (t Table) motion(s Spec) (part.Motion, error) {
	ms, ok := t.Motions[s.Motion]
	if !ok {
		return part.Motion{}, fmt.Errorf("unknown motion %q", s.Motion)
	}
	axis, err := parseAxis(ms.Axis)
	if err != nil {
		return part.Motion{}, err
	}
	if ms.Rise <= 0 || ms.Fall <= 0 {
		return part.Motion{}, fmt.Errorf("motion %q: rise and fall must be positive", s.Motion)
	}
	return part.Motion{Axis: axis, Rise: ms.Rise, Fall: ms.Fall}, nil
}

func parseAxis(s string) (part.Axis, error) {
	switch s {
	case "x", "X":
		return part.AxisX, nil
	case "y", "Y":
		return part.AxisY, nil
	case "z", "Z":
		return part.AxisZ, nil
	}
	return 0, fmt.Errorf("unknown axis %q", s)
}
