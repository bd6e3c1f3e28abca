package metadata

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

// Marker identifies a description written by the PALM software.
const Marker = "PALMRobo"

// Labels of the fields found in a PALM description.
const (
	LabelSizeXMicrons   = `SizeX Type="µm"`
	LabelSizeYMicrons   = `SizeY Type="µm"`
	LabelSizeXPixels    = `SizeX Type="Pixel"`
	LabelSizeYPixels    = `SizeY Type="Pixel"`
	LabelStagePositionX = `StagePosition Type="X-coordinate"`
	LabelStagePositionY = `StagePosition Type="Y-coordinate"`
)

// HasMarker reports whether text looks like a PALM description. Spaces and
// NUL characters are ignored, so "PALM Robo" and UTF-16 text read as bytes
// are both recognised.
func HasMarker(text string) bool {
	return strings.Contains(stripChars(text, " \x00"), Marker)
}

// Clean removes the NUL characters that interleave a UTF-16 description read
// as single bytes. Spaces are kept since field labels contain them.
func Clean(text string) string {
	return stripChars(text, "\x00")
}

// ReadNumber extracts label from text and parses it. Absent or malformed
// fields give NaN.
func ReadNumber(text, label string) float64 {
	return ParseNumber(ExtractFieldTolerant(text, label))
}

// ParseNumber parses s as a float64 after trimming surrounding whitespace.
// Values too large to represent become ±Inf. Anything else that is not a
// number gives NaN.
func ParseNumber(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return math.NaN()
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return f
		}
		return math.NaN()
	}
	return f
}

func stripChars(s, chars string) string {
	if !strings.ContainsAny(s, chars) {
		return s
	}
	return strings.Map(func(r rune) rune {
		if strings.ContainsRune(chars, r) {
			return -1
		}
		return r
	}, s)
}
