// Copyright (C) 2024 Michael J. Fromberger. All Rights Reserved.

package fsotab

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// FieldToken returns the default token for a record field named name. Words
// separated by underscores are joined by spaces, and each word begins with a
// capital letter; words run together in camel case are split at each case
// transition. The label is framed by prefix and suffix.
//
// For example, FieldToken("FooBar", "$", ":") and FieldToken("foo_bar",
// "$", ":") both return "$Foo Bar:".
func FieldToken(name, prefix, suffix string) string {
	words := splitWords(name)
	for i, w := range words {
		words[i] = capitalize(w)
	}
	return prefix + strings.Join(words, " ") + suffix
}

// VariantToken returns the default token for a union variant named name. The
// name is split into words at each case transition and underscore, and the
// words are joined by spaces. If flagset is true the result is lower-cased
// and enclosed in quotation marks. The label is framed by prefix and suffix.
//
// For example, VariantToken("AutoReverse", false, "", "") returns
// "Auto Reverse", and with flagset true returns `"auto reverse"`.
func VariantToken(name string, flagset bool, prefix, suffix string) string {
	base := strings.Join(splitWords(name), " ")
	if flagset {
		base = flagWord(base)
	}
	return prefix + base + suffix
}

func flagWord(s string) string { return `"` + strings.ToLower(s) + `"` }

// splitWords splits name into words at underscores and at lower-to-upper case
// transitions. A run of capitals ends one letter before a following lower
// case letter, so "HTTPServer" becomes "HTTP", "Server". Digits stay with the
// letters before them.
func splitWords(name string) []string {
	var words []string
	for _, part := range strings.Split(name, "_") {
		if part == "" {
			continue
		}
		rs := []rune(part)
		start := 0
		for i := 1; i < len(rs); i++ {
			prev, cur := rs[i-1], rs[i]
			split := unicode.IsUpper(cur) && (unicode.IsLower(prev) || unicode.IsDigit(prev))
			if !split && unicode.IsUpper(prev) && unicode.IsUpper(cur) && i+1 < len(rs) && unicode.IsLower(rs[i+1]) {
				split = true
			}
			if split {
				words = append(words, string(rs[start:i]))
				start = i
			}
		}
		words = append(words, string(rs[start:]))
	}
	return words
}

func capitalize(s string) string {
	r, n := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[n:]
}
