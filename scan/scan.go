// ABOUTME: DocumentScanner that lists candidate Quarto/Markdown files under a root directory.
// ABOUTME: Walks lazily in lexical order, skipping hidden directories and paths matched by ignore rules.
package scan

import (
	"errors"
	"io/fs"
	"iter"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/2389-research/coursemap/config"
	"github.com/2389-research/coursemap/course"
)

// Extensions lists the document extensions picked up by the scanner,
// compared case-insensitively.
var Extensions = []string{".qmd", ".md", ".rmd"}

// Scanner enumerates document files below a root directory.
type Scanner struct {
	root  string
	rules config.IgnoreRules
}

// New checks that root is an existing directory and returns a Scanner for it.
func New(root string, rules config.IgnoreRules) (*Scanner, error) {
	if err := checkDir(root); err != nil {
		return nil, err
	}
	return &Scanner{root: root, rules: slices.Clone(rules)}, nil
}

func checkDir(root string) error {
	info, err := os.Stat(root)
	if err != nil {
		return &course.DirectoryNotFoundError{Path: root, Err: err}
	}
	if !info.IsDir() {
		return &course.DirectoryNotFoundError{Path: root}
	}
	return nil
}

// Root returns the directory being scanned.
func (s *Scanner) Root() string { return s.root }

// All yields matching file paths in lexical walk order. Each call starts a
// fresh walk, so the sequence can be ranged over more than once. Walk errors
// are yielded with an empty path and end the sequence.
//
// A root that is a symlink is resolved before walking; yielded paths are
// still joined onto the root as given.
func (s *Scanner) All() iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		if err := checkDir(s.root); err != nil {
			yield("", err)
			return
		}
		walkRoot, err := filepath.EvalSymlinks(s.root)
		if err != nil {
			yield("", &course.DirectoryNotFoundError{Path: s.root, Err: err})
			return
		}
		err = filepath.WalkDir(walkRoot, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path != walkRoot && strings.HasPrefix(d.Name(), ".") {
					return filepath.SkipDir
				}
				return nil
			}
			if !d.Type().IsRegular() && d.Type()&fs.ModeSymlink == 0 {
				return nil
			}
			rel, err := filepath.Rel(walkRoot, path)
			if err != nil {
				return err
			}
			if !IsDocument(path) || s.ignored(rel) {
				return nil
			}
			if !yield(filepath.Join(s.root, rel), nil) {
				return filepath.SkipAll
			}
			return nil
		})
		if err != nil {
			yield("", err)
		}
	}
}

// Files collects All into a slice.
func (s *Scanner) Files() ([]string, error) {
	var files []string
	for path, err := range s.All() {
		if err != nil {
			return nil, err
		}
		files = append(files, path)
	}
	return files, nil
}

// ignored matches rules against the slash-separated path relative to the root.
func (s *Scanner) ignored(rel string) bool {
	if len(s.rules) == 0 {
		return false
	}
	return s.rules.Match(filepath.ToSlash(rel))
}

// IsDocument reports whether path carries one of the supported extensions.
func IsDocument(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return slices.Contains(Extensions, ext)
}

// Files is a convenience wrapper for New followed by Files.
func Files(root string, rules config.IgnoreRules) ([]string, error) {
	s, err := New(root, rules)
	if err != nil {
		return nil, err
	}
	return s.Files()
}

// IsNotFound reports whether err came from a missing scan root.
func IsNotFound(err error) bool {
	return errors.Is(err, course.ErrDirectoryNotFound)
}
