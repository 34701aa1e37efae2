package parser

import (
	"path"
	"path/filepath"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
)

// MatchFileName reports whether pattern matches name case-insensitively.
// '*' matches any run of characters, '?' any single character and [...] a
// character class. A malformed pattern matches nothing.
func MatchFileName(pattern, name string) bool {
	ok, err := path.Match(foldRunes(pattern), foldRunes(name))
	return err == nil && ok
}

// foldRunes case-folds s one rune at a time so the result has as many runes
// as s. Runes whose full folding expands (ß to ss) are lower-cased instead.
func foldRunes(s string) string {
	// Casers carry state and must not be shared between goroutines.
	fold := cases.Fold()
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		f := fold.String(string(r))
		if utf8.RuneCountInString(f) == 1 {
			b.WriteString(f)
			continue
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}

func matchAny(patterns []string, name string) bool {
	for _, p := range patterns {
		if MatchFileName(p, name) {
			return true
		}
	}
	return false
}

// baseName strips every directory component. '/' is always a separator;
// otherwise only the platform separator splits, so a backslash is part of a
// file name on Unix.
func baseName(p string) string {
	p = filepath.FromSlash(p)
	if i := strings.LastIndexByte(p, filepath.Separator); i >= 0 {
		return p[i+1:]
	}
	return p
}
