package model

import (
	"errors"
	"strconv"
	"strings"

	"github.com/beevik/etree"
)

// Record is a structured field tree for one fully-populated catalog object,
// queryable by slash-separated paths such as
// "scope/computer_groups/computer_group".
//
// Design decision: The server speaks XML, and every object type nests its
// references differently. Rather than defining a typed struct per object
// type (a dozen near-duplicates), Record wraps an etree element and exposes
// a small "path query returns zero-or-more matches" contract. Callers that
// need typed views (Group, Device) are built on top of it in the jamf
// package, so path typos stay confined to one place instead of being
// sprinkled through the analysis code.
type Record struct {
	root *etree.Element
}

// ParseRecord parses an XML document into a Record.
// The document must have a single root element (the server wraps every
// object in one, e.g. <policy>...</policy>).
func ParseRecord(data []byte) (*Record, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, err
	}
	root := doc.Root()
	if root == nil {
		return nil, errors.New("record has no root element")
	}
	return &Record{root: root}, nil
}

// NewRecord wraps an existing element as a Record.
// Used by tests and by parsers that already hold a subtree.
func NewRecord(root *etree.Element) *Record {
	return &Record{root: root}
}

// Tag returns the root element name, e.g. "policy".
func (r *Record) Tag() string {
	return r.root.Tag
}

// Text returns the trimmed text of the first element matching path,
// or "" if nothing matches.
func (r *Record) Text(path string) string {
	if el := r.root.FindElement(path); el != nil {
		return strings.TrimSpace(el.Text())
	}
	return ""
}

// Int returns the integer value of the first element matching path.
// The second return is false when the path is absent or non-numeric.
func (r *Record) Int(path string) (int, bool) {
	text := r.Text(path)
	if text == "" {
		return 0, false
	}
	n, err := strconv.Atoi(text)
	if err != nil {
		return 0, false
	}
	return n, true
}

// Bool returns whether the first element matching path holds "true".
// Absent paths report false.
func (r *Record) Bool(path string) bool {
	return r.Text(path) == "true"
}

// Count returns the number of elements matching path.
func (r *Record) Count(path string) int {
	return len(r.root.FindElements(path))
}

// Identities returns the identities of all elements matching path.
//
// Each matched element must carry an <id> child to be counted; elements
// without one are skipped so that a nameless or malformed reference is never
// treated as "used". A missing <name> is tolerated and yields an empty name.
func (r *Record) Identities(path string) []Identity {
	matches := r.root.FindElements(path)
	ids := make([]Identity, 0, len(matches))
	for _, el := range matches {
		idEl := el.SelectElement("id")
		if idEl == nil {
			continue
		}
		id, err := strconv.Atoi(strings.TrimSpace(idEl.Text()))
		if err != nil {
			continue
		}
		var name string
		if nameEl := el.SelectElement("name"); nameEl != nil {
			name = strings.TrimSpace(nameEl.Text())
		}
		ids = append(ids, Identity{ID: id, Name: name})
	}
	return ids
}

// Texts returns the trimmed text of every element matching path,
// skipping empty matches.
func (r *Record) Texts(path string) []string {
	matches := r.root.FindElements(path)
	out := make([]string, 0, len(matches))
	for _, el := range matches {
		if text := strings.TrimSpace(el.Text()); text != "" {
			out = append(out, text)
		}
	}
	return out
}

// Records returns each element matching path wrapped as a sub-Record.
func (r *Record) Records(path string) []*Record {
	matches := r.root.FindElements(path)
	out := make([]*Record, 0, len(matches))
	for _, el := range matches {
		out = append(out, &Record{root: el})
	}
	return out
}
