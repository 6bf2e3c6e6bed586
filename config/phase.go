// ABOUTME: Ordered phase→color table used to classify and colour course documents.
// ABOUTME: Preserves file order through yaml.Node decoding and resolves colours with a two-step fallback.
package config

import (
	"fmt"
	"slices"

	"github.com/2389-research/coursemap/course"
	"gopkg.in/yaml.v3"
)

// FallbackColor is used when neither the phase nor the Unknown entry has a colour.
const FallbackColor = "lightgray"

// Phase is one entry of the phase table.
type Phase struct {
	Name string
	Face string // graphviz fill colour
}

// PhaseTable is an insertion-ordered mapping from phase name to colour.
// The zero value is an empty table.
type PhaseTable struct {
	phases []Phase
	index  map[string]int
}

// NewPhaseTable builds a table in the given order. A repeated name keeps its
// first position and takes the later colour.
func NewPhaseTable(phases ...Phase) PhaseTable {
	var t PhaseTable
	for _, p := range phases {
		t.set(p.Name, p.Face)
	}
	return t
}

func (t *PhaseTable) set(name, face string) {
	if t.index == nil {
		t.index = make(map[string]int)
	}
	if i, ok := t.index[name]; ok {
		t.phases[i].Face = face
		return
	}
	t.index[name] = len(t.phases)
	t.phases = append(t.phases, Phase{Name: name, Face: face})
}

// Len returns the number of phases.
func (t PhaseTable) Len() int { return len(t.phases) }

// Phases returns a copy of the entries in table order.
func (t PhaseTable) Phases() []Phase { return slices.Clone(t.phases) }

// Names returns the phase names in table order.
func (t PhaseTable) Names() []string {
	names := make([]string, len(t.phases))
	for i, p := range t.phases {
		names[i] = p.Name
	}
	return names
}

// Has reports whether name is a phase in the table.
func (t PhaseTable) Has(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Index returns the position of name in the table.
func (t PhaseTable) Index(name string) (int, bool) {
	i, ok := t.index[name]
	return i, ok
}

// Resolve maps a raw phase value to a known phase, returning
// course.UnknownPhase for empty or unrecognised values.
func (t PhaseTable) Resolve(name string) string {
	if name != "" && t.Has(name) {
		return name
	}
	return course.UnknownPhase
}

// Color returns the fill colour for a phase, falling back to the Unknown
// entry and then to FallbackColor.
func (t PhaseTable) Color(name string) string {
	if i, ok := t.index[name]; ok && t.phases[i].Face != "" {
		return t.phases[i].Face
	}
	if i, ok := t.index[course.UnknownPhase]; ok && t.phases[i].Face != "" {
		return t.phases[i].Face
	}
	return FallbackColor
}

// WithUnknown returns a copy of the table that is guaranteed to contain an
// Unknown entry, appending one with FallbackColor when missing.
func (t PhaseTable) WithUnknown() PhaseTable {
	out := NewPhaseTable(t.phases...)
	if !out.Has(course.UnknownPhase) {
		out.set(course.UnknownPhase, FallbackColor)
	}
	return out
}

func (t PhaseTable) validate() error {
	for _, p := range t.phases {
		if p.Name == "" {
			return fmt.Errorf("phase table: empty phase name")
		}
		if p.Face == "" {
			return fmt.Errorf("phase table: phase %q has no face colour", p.Name)
		}
	}
	return nil
}

type phaseEntry struct {
	Face string `yaml:"face" toml:"face"`
}

// UnmarshalYAML decodes a mapping of `Name: {face: colour}` entries, keeping
// document order. The shorthand `Name: colour` is also accepted.
func (t *PhaseTable) UnmarshalYAML(node *yaml.Node) error {
	*t = PhaseTable{}
	if node.Kind == yaml.ScalarNode && node.ShortTag() == "!!null" {
		return nil
	}
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: phase must be a mapping", node.Line)
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, val := node.Content[i], node.Content[i+1]
		var face string
		switch val.Kind {
		case yaml.ScalarNode:
			face = val.Value
		case yaml.MappingNode:
			var entry phaseEntry
			if err := val.Decode(&entry); err != nil {
				return fmt.Errorf("phase %q: %w", key.Value, err)
			}
			face = entry.Face
		default:
			return fmt.Errorf("line %d: phase %q must map to {face: colour}", val.Line, key.Value)
		}
		t.set(key.Value, face)
	}
	return nil
}

// MarshalYAML emits the table as an ordered mapping.
func (t PhaseTable) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, p := range t.phases {
		face := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		face.Content = append(face.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: "face"},
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: p.Face},
		)
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: p.Name},
			face,
		)
	}
	return node, nil
}
