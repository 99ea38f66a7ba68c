package search

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHighlight(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		query string
		want  string
	}{
		{"single term", "Galaxy S24", "galaxy", "<mark>Galaxy</mark> S24"},
		{"every occurrence", "pro max pro", "pro", "<mark>pro</mark> max <mark>pro</mark>"},
		{"multiple terms", "Galaxy S24 Ultra", "ultra galaxy", "<mark>Galaxy</mark> S24 <mark>Ultra</mark>"},
		{"blank query", "Galaxy", "  ", "Galaxy"},
		{"regex metacharacters", "Note (2024)", "(2024)", "Note <mark>(2024)</mark>"},
		{"longer term wins", "promax", "pro promax", "<mark>promax</mark>"},
		{"no match", "iPhone", "pixel", "iPhone"},
		{"arabic-indic digits in query", "Galaxy S24 256GB", "٢٥٦", "Galaxy S24 <mark>256</mark>GB"},
		{"arabic-indic digits in text", "ذاكرة ٢٥٦ جيجا", "256", "ذاكرة <mark>٢٥٦</mark> جيجا"},
		{"diacritics in text", "هَاتِف ذكي", "هاتف", "<mark>هَاتِف</mark> ذكي"},
		{"diacritics in query", "هاتف ذكي", "هَاتُف", "<mark>هاتف</mark> ذكي"},
		{"term spanning a mark", "هَاتِف", "ات", "هَ<mark>اتِ</mark>ف"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Highlight(tt.text, tt.query))
		})
	}
}

func TestHighlightFunc_CustomWrapper(t *testing.T) {
	got := HighlightFunc("iPhone 15", "iphone", strings.ToUpper)
	assert.Equal(t, "IPHONE 15", got)
}

func TestHighlight_MarksWhatSearchMatches(t *testing.T) {
	// Given: an item found by a query written in another digit script
	e := NewEngine()
	items := testCatalog()
	got := e.Search(items, "٢٥٦")
	require.NotEmpty(t, got)

	// When: highlighting the matched field
	out := Highlight(got[0].Variants[0].Storage, "٢٥٦")

	// Then: the original text carries the mark
	assert.Equal(t, "<mark>256</mark>GB", out)
}
