package metadata

import (
	"strings"
	"unicode/utf8"
)

// ReplacementChar is what a micron sign turns into when the description was
// decoded with the wrong character set.
const ReplacementChar = '\uFFFD'

// ExtractField returns the text between "<label>" and the matching closing
// tag, or "" if either tag is missing.
//
// The closing tag name is the label up to its first space, so the label
// `SizeX Type="Pixel"` is closed by "</SizeX>". The closing tag is only
// searched for after the opening tag.
func ExtractField(text, label string) string {
	startTag := "<" + label + ">"
	start := strings.Index(text, startTag)
	if start < 0 {
		return ""
	}
	start += len(startTag)

	stopTag := "</" + closingName(label) + ">"
	stop := strings.Index(text[start:], stopTag)
	if stop < 0 {
		return ""
	}

	return text[start : start+stop]
}

// ExtractFieldTolerant behaves like ExtractField, but when nothing is found
// and the label contains non-ASCII characters, it retries with each of them
// replaced by ReplacementChar.
func ExtractFieldTolerant(text, label string) string {
	if field := ExtractField(text, label); field != "" {
		return field
	}

	garbled := Garble(label)
	if garbled == label {
		return ""
	}
	return ExtractField(text, garbled)
}

// Garble replaces every non-ASCII rune of s with ReplacementChar.
func Garble(s string) string {
	if isASCII(s) {
		return s
	}
	return strings.Map(func(r rune) rune {
		if r >= utf8.RuneSelf {
			return ReplacementChar
		}
		return r
	}, s)
}

func closingName(label string) string {
	name, _, _ := strings.Cut(label, " ")
	return name
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}
