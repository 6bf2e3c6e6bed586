// ABOUTME: Recoverable findings accumulated while extracting documents and building the graph.
// ABOUTME: Warnings travel alongside successful results and are never silently dropped.
package course

import (
	"encoding/json"
	"fmt"
	"strings"
)

// WarningKind classifies a recoverable finding.
type WarningKind string

const (
	// WarningParse marks a file excluded because its header could not be parsed.
	WarningParse WarningKind = "parse_error"
	// WarningDuplicateID marks a document whose id was already taken.
	WarningDuplicateID WarningKind = "duplicate_id"
	// WarningUnresolvedReference marks a prerequisite id with no matching document.
	WarningUnresolvedReference WarningKind = "unresolved_reference"
	// WarningCycle marks an edge dropped because it closed a prerequisite cycle.
	WarningCycle WarningKind = "cycle"
)

// Warning is a recoverable problem tied to a file or document.
type Warning struct {
	Kind       WarningKind `json:"kind"`
	Message    string      `json:"message"`
	FilePath   string      `json:"file_path,omitempty"`
	DocumentID string      `json:"document_id,omitempty"`
	Reference  string      `json:"reference,omitempty"` // offending prerequisite or duplicated id
	Cycle      []string    `json:"cycle,omitempty"`     // closed path, first element repeated at the end
	Err        error       `json:"-"`
}

// ParseWarning converts a per-file parse failure into a warning.
func ParseWarning(err *ParseError) Warning {
	return Warning{
		Kind:     WarningParse,
		Message:  err.Reason,
		FilePath: err.FilePath,
		Err:      err,
	}
}

// String renders the warning as a single human-readable line.
func (w Warning) String() string {
	var b strings.Builder
	b.WriteString(string(w.Kind))
	if w.FilePath != "" {
		fmt.Fprintf(&b, " [%s]", w.FilePath)
	}
	b.WriteString(": ")
	b.WriteString(w.Message)
	return b.String()
}

// MarshalJSON adds the underlying error text, if any, as "error".
func (w Warning) MarshalJSON() ([]byte, error) {
	type plain Warning
	out := struct {
		plain
		Error string `json:"error,omitempty"`
	}{plain: plain(w)}
	if w.Err != nil {
		out.Error = w.Err.Error()
	}
	return json.Marshal(out)
}

// CountByKind tallies warnings per kind.
func CountByKind(warnings []Warning) map[WarningKind]int {
	counts := make(map[WarningKind]int)
	for _, w := range warnings {
		counts[w.Kind]++
	}
	return counts
}
