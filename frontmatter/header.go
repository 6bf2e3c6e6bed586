// ABOUTME: Splits a document into its leading YAML metadata block and the Markdown body.
// ABOUTME: Recognises "---" openers and "---" or "..." closers, tolerating a BOM and CRLF endings.
package frontmatter

import (
	"bytes"
	"errors"
)

var (
	errNoOpening = errors.New("missing frontmatter delimiter: file must start with ---")
	errNoClosing = errors.New("unterminated frontmatter block: closing --- not found")
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// splitHeader returns the raw header between the delimiters and the body
// that follows the closing delimiter.
func splitHeader(content []byte) (header, body []byte, err error) {
	content = bytes.TrimPrefix(content, utf8BOM)

	first, rest, _ := cutLine(content)
	if string(trimLine(first)) != "---" {
		return nil, nil, errNoOpening
	}

	offset := 0
	for len(rest[offset:]) > 0 {
		line, _, found := cutLine(rest[offset:])
		next := offset + len(line)
		if found {
			next++
		}
		switch string(trimLine(line)) {
		case "---", "...":
			return rest[:offset], rest[next:], nil
		}
		offset = next
	}
	return nil, nil, errNoClosing
}

func cutLine(b []byte) (line, rest []byte, found bool) {
	return bytes.Cut(b, []byte("\n"))
}

func trimLine(line []byte) []byte {
	return bytes.TrimRight(line, " \t\r")
}
