// Package guitext locates and rescales positional attributes in game UI
// definition files. The files are semi-structured `name = value` text; they
// are treated as opaque bytes outside the matched attribute spans, with no
// grammar or validation involved.
package guitext

import (
	"regexp"
	"strings"
)

// attrPattern matches a recognized positional attribute and its value in one
// pass over whole-file content. The value is either a flat brace group, a
// signed number with an optional percent marker, or arbitrary text up to the
// next brace or newline. Longer property names come first so the shorter
// ones cannot shadow them.
var attrPattern = regexp.MustCompile(
	`(?i)\b(maxWidth|maxHeight|borderSize|position|pos_x|spacing|width|height|size|x|y)\b\s*=\s*(\{[^}]*\}|-?\d+(?:\.\d+)?%?|[^}\n]+)`)

// pairPattern matches the flat `name = number` pairs inside a composite
// value. Composites do not nest.
var pairPattern = regexp.MustCompile(`(\w+)\s*=\s*(-?\d+(?:\.\d+)?)`)

// Attribute is a single positional attribute occurrence in a file.
type Attribute struct {
	// Name as written in the source, case preserved.
	Name string
	// RawValue is the captured value span, unmodified.
	RawValue string
	// Start and End are byte offsets of the full `name = value` match.
	Start, End int
}

// Property returns the canonical (lower-case) property name used for factor
// lookups and persistence.
func (a Attribute) Property() string {
	return strings.ToLower(a.Name)
}

// FindAttributes returns every recognized attribute occurrence in document
// order. No matches is a valid result, not an error.
func FindAttributes(content string) []Attribute {
	idx := attrPattern.FindAllStringSubmatchIndex(content, -1)
	attrs := make([]Attribute, 0, len(idx))
	for _, m := range idx {
		attrs = append(attrs, Attribute{
			Name:     content[m[2]:m[3]],
			RawValue: content[m[4]:m[5]],
			Start:    m[0],
			End:      m[1],
		})
	}
	return attrs
}
