// Package naming turns sheet and tag names into identifiers for generated code.
package naming

import (
	"path/filepath"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Base returns the file name of an image up to its first dot:
// "sprites/player.sheet.png" -> "player".
func Base(image string) string {
	name := filepath.Base(filepath.ToSlash(image))
	if i := strings.IndexByte(name, '.'); i >= 0 {
		name = name[:i]
	}
	return name
}

// Words splits a name on anything that is not a letter or digit, and on
// lower-to-upper case changes.
func Words(s string) []string {
	var words []string
	var cur []rune

	flush := func() {
		if len(cur) > 0 {
			words = append(words, string(cur))
			cur = cur[:0]
		}
	}

	runes := []rune(s)
	for i, r := range runes {
		switch {
		case !unicode.IsLetter(r) && !unicode.IsDigit(r):
			flush()
		case unicode.IsUpper(r) && i > 0 && unicode.IsLower(runes[i-1]):
			flush()
			cur = append(cur, r)
		default:
			cur = append(cur, r)
		}
	}
	flush()
	return words
}

// Identifier is the lower_snake_case form, safe as a C identifier.
// Words are case-folded before non-ASCII letters are dropped, so "ß"
// becomes "ss" rather than disappearing.
func Identifier(s string) string {
	fold := cases.Fold()
	return guard(strings.Join(ascii(mapWords(Words(s), fold.String)), "_"))
}

// Upper is the UPPER_SNAKE_CASE form used for enum members and macros.
func Upper(s string) string {
	upper := cases.Upper(language.Und)
	return guard(strings.Join(ascii(mapWords(Words(s), upper.String)), "_"))
}

// Pascal is the PascalCase form used for type names.
func Pascal(s string) string {
	fold, title := cases.Fold(), cases.Title(language.Und)
	words := mapWords(Words(s), func(w string) string {
		return title.String(fold.String(w))
	})
	return guard(strings.Join(ascii(words), ""))
}

// mapWords cases every word. Casers are stateful, so callers create their
// own for each call.
func mapWords(words []string, f func(string) string) []string {
	for i, w := range words {
		words[i] = f(w)
	}
	return words
}

// ascii drops characters a C compiler would not accept in an identifier.
func ascii(words []string) []string {
	out := words[:0]
	for _, w := range words {
		var b strings.Builder
		for _, r := range w {
			if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
				b.WriteRune(r)
			}
		}
		if b.Len() > 0 {
			out = append(out, b.String())
		}
	}
	return out
}

func guard(id string) string {
	if id == "" {
		return "_"
	}
	if id[0] >= '0' && id[0] <= '9' {
		return "_" + id
	}
	return id
}
