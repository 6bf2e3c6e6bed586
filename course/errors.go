// ABOUTME: Fatal and per-file error types for the course map pipeline.
// ABOUTME: Each typed error unwraps to a sentinel so callers can use errors.Is and errors.As.
package course

import (
	"errors"
	"fmt"
)

var (
	// ErrDirectoryNotFound indicates the scan root is missing or not a directory.
	ErrDirectoryNotFound = errors.New("directory not found")

	// ErrParse indicates a malformed metadata header in a single file.
	ErrParse = errors.New("parse error")

	// ErrEmptyCorpus indicates that no valid documents survived extraction.
	ErrEmptyCorpus = errors.New("no course documents found")
)

// DirectoryNotFoundError reports a scan root that cannot be walked.
type DirectoryNotFoundError struct {
	Path string
	Err  error // underlying stat error, nil when the path is a regular file
}

func (e *DirectoryNotFoundError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", ErrDirectoryNotFound.Error(), e.Path, e.Err)
	}
	return fmt.Sprintf("%s: %s is not a directory", ErrDirectoryNotFound.Error(), e.Path)
}

func (e *DirectoryNotFoundError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrDirectoryNotFound}
	}
	return []error{ErrDirectoryNotFound, e.Err}
}

// ParseError reports why one file's metadata header could not be read.
type ParseError struct {
	FilePath string
	Reason   string
	Err      error // optional underlying error (yaml, io)
}

func (e *ParseError) Error() string {
	msg := fmt.Sprintf("%s: %s: %s", ErrParse.Error(), e.FilePath, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ParseError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrParse}
	}
	return []error{ErrParse, e.Err}
}

// EmptyCorpusError reports a run that produced zero valid documents.
type EmptyCorpusError struct {
	Root     string
	Scanned  int // candidate files found by the scanner
	Rejected int // candidates that failed extraction
	Warnings []Warning
}

func (e *EmptyCorpusError) Error() string {
	if e.Root == "" {
		return ErrEmptyCorpus.Error()
	}
	return fmt.Sprintf("%s in %s (%d scanned, %d rejected)", ErrEmptyCorpus.Error(), e.Root, e.Scanned, e.Rejected)
}

func (e *EmptyCorpusError) Unwrap() error { return ErrEmptyCorpus }
