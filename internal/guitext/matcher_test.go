package guitext

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindAttributes_DocumentOrder(t *testing.T) {
	content := "width = 10\nheight = 20\nx = 5"
	attrs := FindAttributes(content)
	require.Len(t, attrs, 3)
	assert.Equal(t, "width", attrs[0].Name)
	assert.Equal(t, "height", attrs[1].Name)
	assert.Equal(t, "x", attrs[2].Name)
	assert.Equal(t, "10", attrs[0].RawValue)
}

func TestFindAttributes_CaseInsensitive(t *testing.T) {
	attrs := FindAttributes("MAXWIDTH = 10")
	require.Len(t, attrs, 1)
	assert.Equal(t, "MAXWIDTH", attrs[0].Name)
	assert.Equal(t, "maxwidth", attrs[0].Property())
}

func TestFindAttributes_Composite(t *testing.T) {
	attrs := FindAttributes("size = { x = 5\n\ty = 5 }")
	require.Len(t, attrs, 1)
	assert.Equal(t, "size", attrs[0].Name)
	assert.Equal(t, "{ x = 5\n\ty = 5 }", attrs[0].RawValue)
}

func TestFindAttributes_WholeWordOnly(t *testing.T) {
	// pos_x is recognized; sound_x and xp are not a match for x.
	attrs := FindAttributes("pos_x = 3\nfade_time = 7")
	require.Len(t, attrs, 1)
	assert.Equal(t, "pos_x", attrs[0].Name)
}

func TestFindAttributes_NoMatches(t *testing.T) {
	assert.Empty(t, FindAttributes("just some text without attributes"))
}

func TestFindAttributes_WhitespaceVariants(t *testing.T) {
	testCases := []struct {
		content string
		value   string
	}{
		{"x=5", "5"},
		{"x  =  5", "5"},
		{"x\t=\t-5", "-5"},
		{"x = 5.25", "5.25"},
		{"x = 50%", "50%"},
	}
	for _, tc := range testCases {
		t.Run(tc.content, func(t *testing.T) {
			attrs := FindAttributes(tc.content)
			require.Len(t, attrs, 1)
			assert.Equal(t, tc.value, attrs[0].RawValue)
		})
	}
}

func TestFindAttributes_Spans(t *testing.T) {
	content := "foo = 1 x = 2 bar = 3"
	attrs := FindAttributes(content)
	require.Len(t, attrs, 1)
	assert.Equal(t, "x = 2", content[attrs[0].Start:attrs[0].End])
}
