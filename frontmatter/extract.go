// ABOUTME: FrontmatterExtractor turning a file's YAML header into a typed course.Document.
// ABOUTME: Every field has an explicit default; malformed headers yield a per-file course.ParseError.
package frontmatter

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/2389-research/coursemap/config"
	"github.com/2389-research/coursemap/course"
	"gopkg.in/yaml.v3"
)

// Recognised header keys.
const (
	KeyID            = "id"
	KeyTitle         = "title"
	KeyPhase         = "phase"
	KeyPrerequisites = "prerequisites"
)

// Extractor parses document headers. It holds no mutable state and is safe
// for concurrent use.
type Extractor struct {
	rootKey          string
	phases           config.PhaseTable
	titleFromHeading bool
}

// NewExtractor builds an Extractor from the run configuration.
func NewExtractor(cfg *config.Config) *Extractor {
	return &Extractor{
		rootKey:          cfg.GraphName(),
		phases:           cfg.Phases,
		titleFromHeading: cfg.TitleFromHeading,
	}
}

// ExtractFile reads path and extracts its document.
func (e *Extractor) ExtractFile(path string) (course.Document, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return course.Document{}, &course.ParseError{FilePath: path, Reason: "cannot read file", Err: err}
	}
	return e.Extract(path, content)
}

// Extract parses content, the raw bytes of the file at path.
//
// Metadata keys are looked up first in the mapping nested under the root key
// (course-map: by default) and then at the top level, so a Quarto document can
// keep its usual top-level title while grouping course fields together.
func (e *Extractor) Extract(path string, content []byte) (course.Document, error) {
	rawHeader, body, err := splitHeader(content)
	if err != nil {
		return course.Document{}, &course.ParseError{FilePath: path, Reason: err.Error()}
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(rawHeader, &doc); err != nil {
		return course.Document{}, &course.ParseError{FilePath: path, Reason: "invalid YAML in frontmatter", Err: err}
	}

	top, err := headerMapping(&doc)
	if err != nil {
		return course.Document{}, &course.ParseError{FilePath: path, Reason: err.Error()}
	}
	scopes := []*yaml.Node{top}
	if nested := lookup(top, e.rootKey); nested != nil {
		switch nested.Kind {
		case yaml.MappingNode:
			scopes = []*yaml.Node{nested, top}
		case yaml.ScalarNode:
			if nested.ShortTag() != "!!null" {
				return course.Document{}, &course.ParseError{
					FilePath: path,
					Reason:   fmt.Sprintf("%q must be a mapping", e.rootKey),
				}
			}
		default:
			return course.Document{}, &course.ParseError{
				FilePath: path,
				Reason:   fmt.Sprintf("%q must be a mapping", e.rootKey),
			}
		}
	}

	fields, err := readFields(scopes)
	if err != nil {
		return course.Document{}, &course.ParseError{FilePath: path, Reason: err.Error()}
	}

	id := fields.id
	if id == "" {
		id = e.stem(path)
	}
	title := fields.title
	if title == "" && e.titleFromHeading {
		title = firstHeading(body)
	}
	phase := e.phases.Resolve(fields.phase)

	return course.NewDocument(id, title, phase, fields.prerequisites, path), nil
}

// stem derives an id from the file name, falling back to the root key.
func (e *Extractor) stem(path string) string {
	base := filepath.Base(path)
	stem := strings.TrimSpace(strings.TrimSuffix(base, filepath.Ext(base)))
	if stem == "" || stem == "." || stem == string(filepath.Separator) {
		return e.rootKey
	}
	return stem
}

type headerFields struct {
	id            string
	title         string
	phase         string
	prerequisites []string
}

func readFields(scopes []*yaml.Node) (headerFields, error) {
	var f headerFields
	var err error
	if f.id, err = scalarField(scopes, KeyID); err != nil {
		return f, err
	}
	if f.title, err = scalarField(scopes, KeyTitle); err != nil {
		return f, err
	}
	if f.phase, err = scalarField(scopes, KeyPhase); err != nil {
		return f, err
	}
	if f.prerequisites, err = listField(scopes, KeyPrerequisites); err != nil {
		return f, err
	}
	return f, nil
}

// headerMapping returns the top-level mapping of a parsed header. An empty
// header yields an empty mapping.
func headerMapping(doc *yaml.Node) (*yaml.Node, error) {
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return &yaml.Node{Kind: yaml.MappingNode}, nil
	}
	root := resolve(doc.Content[0])
	switch {
	case root.Kind == yaml.MappingNode:
		return root, nil
	case root.Kind == yaml.ScalarNode && root.ShortTag() == "!!null":
		return &yaml.Node{Kind: yaml.MappingNode}, nil
	default:
		return nil, fmt.Errorf("malformed frontmatter: expected key-value pairs at line %d", root.Line)
	}
}

// lookup finds key in a mapping node, returning nil when absent.
func lookup(mapping *yaml.Node, key string) *yaml.Node {
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		if mapping.Content[i].Value == key {
			return resolve(mapping.Content[i+1])
		}
	}
	return nil
}

// find returns the first non-null value for key across scopes.
func find(scopes []*yaml.Node, key string) *yaml.Node {
	for _, scope := range scopes {
		if n := lookup(scope, key); n != nil && !isNull(n) {
			return n
		}
	}
	return nil
}

func scalarField(scopes []*yaml.Node, key string) (string, error) {
	n := find(scopes, key)
	if n == nil {
		return "", nil
	}
	if n.Kind != yaml.ScalarNode {
		return "", fmt.Errorf("field %q must be a string (line %d)", key, n.Line)
	}
	return strings.TrimSpace(n.Value), nil
}

// listField accepts a sequence of scalars or a single scalar.
func listField(scopes []*yaml.Node, key string) ([]string, error) {
	n := find(scopes, key)
	if n == nil {
		return nil, nil
	}
	switch n.Kind {
	case yaml.ScalarNode:
		return []string{n.Value}, nil
	case yaml.SequenceNode:
		out := make([]string, 0, len(n.Content))
		for _, item := range n.Content {
			item = resolve(item)
			if isNull(item) {
				continue
			}
			if item.Kind != yaml.ScalarNode {
				return nil, fmt.Errorf("field %q must list plain ids (line %d)", key, item.Line)
			}
			out = append(out, item.Value)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("field %q must be a list of ids (line %d)", key, n.Line)
	}
}

func resolve(n *yaml.Node) *yaml.Node {
	for n != nil && n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	return n
}

func isNull(n *yaml.Node) bool {
	return n.Kind == yaml.ScalarNode && n.ShortTag() == "!!null"
}
