// ABOUTME: Immutable Document record describing one course file and its prerequisite ids.
// ABOUTME: Applies the config-independent defaulting rules for title, phase and prerequisites.
package course

import (
	"encoding/json"
	"slices"
	"strings"
)

// UnknownPhase is the phase assigned to documents whose phase is missing or
// not present in the phase table.
const UnknownPhase = "Unknown"

// Document is the metadata extracted from one source file. It is never
// mutated after construction; all fields are exposed through accessors.
type Document struct {
	id            string
	title         string
	phase         string
	prerequisites []string
	filePath      string
}

// NewDocument builds a Document. An empty title falls back to id, an empty
// phase to UnknownPhase. Prerequisites are trimmed, blank entries dropped and
// duplicates removed keeping the first occurrence.
func NewDocument(id, title, phase string, prerequisites []string, filePath string) Document {
	id = strings.TrimSpace(id)
	title = strings.TrimSpace(title)
	if title == "" {
		title = id
	}
	phase = strings.TrimSpace(phase)
	if phase == "" {
		phase = UnknownPhase
	}
	return Document{
		id:            id,
		title:         title,
		phase:         phase,
		prerequisites: NormalizeIDs(prerequisites),
		filePath:      filePath,
	}
}

func (d Document) ID() string       { return d.id }
func (d Document) Title() string    { return d.title }
func (d Document) Phase() string    { return d.phase }
func (d Document) FilePath() string { return d.filePath }

// Prerequisites returns a copy of the prerequisite ids in declaration order.
func (d Document) Prerequisites() []string {
	return slices.Clone(d.prerequisites)
}

// NumPrerequisites reports how many distinct prerequisites the document lists.
func (d Document) NumPrerequisites() int {
	return len(d.prerequisites)
}

// documentJSON is the wire shape handed to presentation layers.
type documentJSON struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	Phase         string   `json:"phase"`
	Prerequisites []string `json:"prerequisites"`
	FilePath      string   `json:"file_path"`
}

// MarshalJSON implements json.Marshaler.
func (d Document) MarshalJSON() ([]byte, error) {
	prereqs := d.prerequisites
	if prereqs == nil {
		prereqs = []string{}
	}
	return json.Marshal(documentJSON{
		ID:            d.id,
		Title:         d.title,
		Phase:         d.phase,
		Prerequisites: prereqs,
		FilePath:      d.filePath,
	})
}

// NormalizeIDs trims every id, drops blanks and removes duplicates while
// preserving first-seen order. The result is never nil.
func NormalizeIDs(ids []string) []string {
	out := make([]string, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, raw := range ids {
		id := strings.TrimSpace(raw)
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
