package guitext

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractValues_GroupsByProperty(t *testing.T) {
	content := "x = 10\ny = 5\nx = 20\nx = 30"
	set := ExtractValues(content)

	require.Equal(t, []string{"x", "y"}, set.Properties())
	assert.Equal(t, []float64{10, 20, 30}, set.Values("x"))
	assert.Equal(t, []float64{5}, set.Values("y"))
}

func TestExtractValues_FirstOccurrenceOrder(t *testing.T) {
	content := "spacing = 1\nx = 2\nwidth = 3\nx = 4"
	set := ExtractValues(content)
	assert.Equal(t, []string{"spacing", "x", "width"}, set.Properties())
}

func TestExtractValues_OnlyPlainIntegers(t *testing.T) {
	// Decimals, negatives, sentinels and composites carry no scaling signal.
	content := "x = 10\nx = -5\nx = 2.5\nx = 50%\nx = -1\nsize = { x = 3 y = 3 }\ny = @icon"
	set := ExtractValues(content)

	require.Equal(t, []string{"x"}, set.Properties())
	assert.Equal(t, []float64{10}, set.Values("x"))
}

func TestExtractValues_LowercasesProperties(t *testing.T) {
	set := ExtractValues("MaxWidth = 7")
	assert.Equal(t, []float64{7}, set.Values("maxwidth"))
}

func TestExtractValues_Empty(t *testing.T) {
	set := ExtractValues("no attributes here")
	assert.Zero(t, set.Len())
	assert.Nil(t, set.Values("x"))
}
