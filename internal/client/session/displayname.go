package session

import (
	"strings"
	"unicode"
)

// FallbackDisplayName is used when an email has no usable local part.
const FallbackDisplayName = "Neighbor"

// DisplayNameFromEmail derives a human name from the local part of email:
// everything before the first '@', with runs of '.' and '_' collapsed into
// single spaces. Every letter that starts a word, or follows other
// punctuation such as '-' or '+', is upper-cased; the rest is kept as typed.
//
//	"ada.lovelace@example.com" -> "Ada Lovelace"
//	"mary-jane@example.com"    -> "Mary-Jane"
//	"McDonald_r@example.com"   -> "McDonald R"
//	"@example.com", "._-@x"    -> "Neighbor"
func DisplayNameFromEmail(email string) string {
	local, _, _ := strings.Cut(strings.TrimSpace(email), "@")

	words := strings.FieldsFunc(local, func(r rune) bool {
		return r == '.' || r == '_' || unicode.IsSpace(r)
	})
	if !strings.ContainsFunc(local, isWordRune) {
		return FallbackDisplayName
	}

	for i, w := range words {
		var b strings.Builder
		boundary := true
		for _, r := range w {
			if boundary && isWordRune(r) {
				r = unicode.ToUpper(r)
			}
			boundary = !isWordRune(r)
			b.WriteRune(r)
		}
		words[i] = b.String()
	}
	return strings.Join(words, " ")
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
