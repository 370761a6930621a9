// Package textnorm prepares user questions before they reach the model.
package textnorm

import "strings"

// asciiPunct is the fixed ASCII punctuation set. Anything outside it,
// including non-ASCII punctuation, survives normalization.
const asciiPunct = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"

// Normalize lowercases text and strips every ASCII punctuation character.
// Whitespace, digits and non-ASCII runes are left untouched.
func Normalize(text string) string {
	lower := strings.ToLower(text)

	var b strings.Builder
	b.Grow(len(lower))
	for _, r := range lower {
		if isASCIIPunct(r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func isASCIIPunct(r rune) bool {
	return r < 0x80 && strings.ContainsRune(asciiPunct, r)
}
