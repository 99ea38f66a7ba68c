package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		expect string
	}{
		{name: "empty", input: "", expect: ""},
		{name: "latin case", input: "Galaxy S24 ULTRA", expect: "galaxy s24 ultra"},
		{name: "trims", input: "  iPhone 15 \t\n", expect: "iphone 15"},
		{name: "keeps internal whitespace", input: "a  b", expect: "a  b"},
		{name: "arabic digits", input: "٢٥٦GB", expect: "256gb"},
		{name: "extended arabic digits", input: "۱۲۸", expect: "128"},
		{name: "fatha damma kasra", input: "سَامْسُونِج", expect: "سامسونج"},
		{name: "superscript alef", input: "هٰذا", expect: "هذا"},
		{name: "alef wasla dropped", input: "ٱلهاتف", expect: "لهاتف"},
		{name: "marks only", input: " َ ", expect: ""},
		{name: "mixed script", input: " Xiaomi شاومي ١٤ ", expect: "xiaomi شاومي 14"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expect, Normalize(tt.input))
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{
		"",
		"   ",
		"Galaxy S24",
		"٢٥٦ جيجا",
		"ٱلْهَاتِفُ",
		"İstanbul",
		"\xff\xfe broken utf8",
		" َُ ",
		"ΣΊΣΥΦΟΣ",
	}

	for _, in := range inputs {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(once), "input %q", in)
	}
}

func FuzzNormalize_Idempotent(f *testing.F) {
	for _, seed := range []string{"", " a ", "٠١٢٣", "سَلَام", "OPPO Find X7", "ٰxۭ"} {
		f.Add(seed)
	}
	f.Fuzz(func(t *testing.T, s string) {
		once := Normalize(s)
		if twice := Normalize(once); twice != once {
			t.Fatalf("not idempotent: %q -> %q -> %q", s, once, twice)
		}
	})
}

func TestFoldDigit(t *testing.T) {
	for i, r := range []rune("٠١٢٣٤٥٦٧٨٩") {
		assert.Equal(t, '0'+rune(i), FoldDigit(r))
	}
	assert.Equal(t, 'x', FoldDigit('x'))
	assert.Equal(t, '5', FoldDigit('5'))
}

func TestTerms_SkipsEmptyTerms(t *testing.T) {
	assert.Equal(t, []string{"galaxy", "256"}, Terms("  Galaxy    ٢٥٦ "))
	assert.Empty(t, Terms("   "))
	assert.Empty(t, Terms(""))
}
