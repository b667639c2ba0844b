package guitext

import "strings"

// ValueSet holds the numeric attribute values of one file grouped by
// property, preserving first-occurrence property order. Factor derivation
// pairs originals and scaled versions by position, so order matters.
type ValueSet struct {
	order  []string
	values map[string][]float64
}

// NewValueSet returns an empty ValueSet.
func NewValueSet() *ValueSet {
	return &ValueSet{values: make(map[string][]float64)}
}

// Add appends a value to the property's ordered list.
func (s *ValueSet) Add(property string, v float64) {
	if _, ok := s.values[property]; !ok {
		s.order = append(s.order, property)
	}
	s.values[property] = append(s.values[property], v)
}

// Properties returns property names in first-occurrence order.
func (s *ValueSet) Properties() []string {
	return s.order
}

// Values returns the ordered values recorded for a property.
func (s *ValueSet) Values(property string) []float64 {
	return s.values[property]
}

// Len returns the number of distinct properties.
func (s *ValueSet) Len() int {
	return len(s.order)
}

// ExtractValues collects the plain unsigned-integer attribute values of
// content, keyed by lower-cased property name. Decimals, negatives and
// sentinel-marked values carry no scaling signal and are excluded.
func ExtractValues(content string) *ValueSet {
	set := NewValueSet()
	for _, attr := range FindAttributes(content) {
		value := strings.TrimSpace(attr.RawValue)
		n, ok := parseUnsignedInt(value)
		if !ok {
			continue
		}
		set.Add(attr.Property(), n)
	}
	return set
}

func parseUnsignedInt(s string) (float64, bool) {
	if s == "" {
		return 0, false
	}
	var n float64
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, false
		}
		n = n*10 + float64(r-'0')
	}
	return n, true
}
