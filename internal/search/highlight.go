package search

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/Aman-CERP/storefront/internal/normalize"
)

// Highlight wraps each occurrence of a query term in <mark></mark>.
// Matching uses the same normalization as Search, so Arabic-Indic digits
// and diacritics in either the text or the query do not prevent a mark.
// A blank query returns text unchanged.
func Highlight(text, query string) string {
	return HighlightFunc(text, query, func(s string) string {
		return "<mark>" + s + "</mark>"
	})
}

// HighlightFunc is Highlight with a caller-supplied wrapper, e.g. a
// terminal style. wrap receives the original text of each match.
func HighlightFunc(text, query string, wrap func(string) string) string {
	terms := normalize.Terms(query)
	if len(terms) == 0 {
		return text
	}
	// Longest first so overlapping terms mark the longer one.
	sort.SliceStable(terms, func(i, j int) bool {
		return len(terms[i]) > len(terms[j])
	})

	f := foldText(text)
	var b strings.Builder
	last := 0
	for pos := 0; pos < len(f.text); {
		term := prefixTerm(f.text[pos:], terms)
		if term == "" {
			_, w := utf8.DecodeRuneInString(f.text[pos:])
			pos += w
			continue
		}
		start := f.starts[f.runeOf[pos]]
		end := f.ends[f.runeOf[pos+len(term)-1]]
		b.WriteString(text[last:start])
		b.WriteString(wrap(text[start:end]))
		last = end
		pos += len(term)
	}
	if last == 0 {
		return text
	}
	b.WriteString(text[last:])
	return b.String()
}

func prefixTerm(s string, terms []string) string {
	for _, t := range terms {
		if strings.HasPrefix(s, t) {
			return t
		}
	}
	return ""
}

// foldedText is text normalized rune by rune, with each normalized byte
// traced back to the original rune that produced it.
type foldedText struct {
	text string
	// runeOf maps a byte of text to the index of its kept rune.
	runeOf []int
	// starts and ends are the original byte span of each kept rune. A span
	// extends over the dropped marks that follow it.
	starts []int
	ends   []int
}

func foldText(text string) foldedText {
	var (
		f foldedText
		b strings.Builder
	)
	b.Grow(len(text))
	for i, r := range text {
		if normalize.IsArabicMark(r) {
			continue
		}
		k := len(f.starts)
		if k > 0 {
			f.ends[k-1] = i
		}
		f.starts = append(f.starts, i)
		f.ends = append(f.ends, len(text))

		n := b.Len()
		b.WriteRune(normalize.FoldDigit(unicode.ToLower(r)))
		for j := n; j < b.Len(); j++ {
			f.runeOf = append(f.runeOf, k)
		}
	}
	f.text = b.String()
	return f
}
