package guitext

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// FactorSource supplies the scaling factor for a property, if any. A false
// return means "do not scale this property".
type FactorSource interface {
	FactorFor(property string) (float64, bool)
}

// Fixed is a FactorSource applying one multiplier to every property.
type Fixed float64

// FactorFor returns the fixed multiplier for any property.
func (f Fixed) FactorFor(string) (float64, bool) { return float64(f), true }

// FactorMap is a FactorSource backed by a per-property lookup table.
type FactorMap map[string]float64

// FactorFor returns the factor recorded for the property, if present.
func (m FactorMap) FactorFor(property string) (float64, bool) {
	f, ok := m[property]
	return f, ok
}

// ScaleContent rewrites every recognized attribute in content according to
// src. Attributes without a factor, sentinel values (%, @, 10s, -1) and
// values whose rounded result equals the original are left byte-for-byte
// untouched, so scaling by 1.0 is the identity on integer-valued files.
func ScaleContent(content string, src FactorSource) string {
	var b strings.Builder
	last := 0
	for _, m := range attrPattern.FindAllStringSubmatchIndex(content, -1) {
		name := content[m[2]:m[3]]
		raw := content[m[4]:m[5]]

		factor, ok := src.FactorFor(strings.ToLower(name))
		if !ok {
			continue
		}
		replacement, changed := scaleAttribute(name, raw, factor)
		if !changed {
			continue
		}
		b.WriteString(content[last:m[0]])
		b.WriteString(replacement)
		last = m[1]
	}
	if last == 0 {
		return content
	}
	b.WriteString(content[last:])
	return b.String()
}

// scaleAttribute applies the scaling rules to a single matched attribute and
// reports whether the span needs rewriting.
func scaleAttribute(name, raw string, factor float64) (string, bool) {
	value := strings.TrimSpace(raw)

	if isSentinel(value) {
		return "", false
	}

	if strings.HasPrefix(value, "{") {
		scaled := scaleComposite(value, factor)
		if scaled == value {
			return "", false
		}
		return fmt.Sprintf("%s = %s", name, scaled), true
	}

	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		// The pattern may have captured trailing non-numeric text.
		return "", false
	}

	rounded := roundHalfAway(parsed * factor)
	if float64(rounded) == parsed {
		return "", false
	}
	return fmt.Sprintf("%s = %d", name, rounded), true
}

// scaleComposite rescales each flat `name = number` pair inside a brace
// group, leaving braces and separator whitespace as written.
func scaleComposite(value string, factor float64) string {
	return pairPattern.ReplaceAllStringFunc(value, func(pair string) string {
		sub := pairPattern.FindStringSubmatch(pair)
		inner, number := sub[1], sub[2]
		if isSentinel(number) {
			return pair
		}
		parsed, err := strconv.ParseFloat(number, 64)
		if err != nil {
			return pair
		}
		rounded := roundHalfAway(parsed * factor)
		if float64(rounded) == parsed {
			return pair
		}
		return fmt.Sprintf("%s = %d", inner, rounded)
	})
}

// isSentinel reports whether a value carries relative or keep-native
// semantics and must never be rescaled.
func isSentinel(value string) bool {
	return strings.Contains(value, "%") ||
		strings.Contains(value, "@") ||
		strings.Contains(value, "10s") ||
		value == "-1"
}

// roundHalfAway rounds to the nearest integer with ties away from zero.
func roundHalfAway(v float64) int {
	return int(math.Round(v))
}
