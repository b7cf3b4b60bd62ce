package chords

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	indentPrefix    = "    "
	maxChordWords   = 8
	minChordMatches = 2
	chordDensity    = 0.6

	// longest free tail of a chord shape, "maj7(9)" style suffixes
	maxShapeTail = 5
)

// IsChordLine reports whether a line of a chord sheet holds chords rather
// than lyrics, a section marker or nothing. It is a layout heuristic: chord
// lines are short, padded with extra spaces or tabs, and dense with
// chord-like tokens.
func IsChordLine(line string) bool {
	trimmed := strings.TrimSpace(line)

	if trimmed == "" || strings.HasPrefix(trimmed, "[") || utf8.RuneCountInString(trimmed) < 2 {
		return false
	}

	// deeply indented lyric continuation
	if strings.HasPrefix(line, indentPrefix) && !indentedChord(line) {
		return false
	}

	if strings.HasPrefix(trimmed, "(") && strings.HasSuffix(trimmed, ")") {
		return true
	}

	if strings.Contains(line, "  ") || strings.Contains(line, "\t") {
		words := strings.Fields(trimmed)
		if len(words) <= maxChordWords {
			matches := countChordShapes(line)
			threshold := chordDensity * float64(len(words))
			if threshold < minChordMatches {
				threshold = minChordMatches
			}
			if float64(matches) >= threshold {
				return true
			}
		}
	}

	return false
}

// indentedChord reports whether line is whitespace followed by a note
// letter, e.g. "     G   D"
func indentedChord(line string) bool {
	rest := strings.TrimLeftFunc(line, unicode.IsSpace)
	return rest != line && rest != "" && isRoot(rest[0])
}

// isWordRune is a word character in the Unicode sense: "ç" and "ã" are
// part of a word just like ASCII letters
func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsNumber(r)
}

func wordBoundary(runes []rune, i int) bool {
	before := i > 0 && isWordRune(runes[i-1])
	after := i < len(runes) && isWordRune(runes[i])
	return before != after
}

// countChordShapes counts loose chord shapes: a word boundary, a note
// letter, an optional accidental, "m" and digit, then up to five non-space
// characters ending on a word boundary. Matches do not overlap.
func countChordShapes(line string) int {
	runes := []rune(line)
	count := 0
	for i := 0; i < len(runes); {
		if end, ok := matchChordShape(runes, i); ok {
			count++
			i = end
			continue
		}
		i++
	}
	return count
}

// matchChordShape tries the optional parts longest first and the tail from
// longest to shortest, taking the first end that falls on a word boundary
func matchChordShape(runes []rune, start int) (int, bool) {
	if runes[start] > unicode.MaxASCII || !isRoot(byte(runes[start])) || !wordBoundary(runes, start) {
		return 0, false
	}

	for _, acc := range optional(runes, start+1, func(r rune) bool { return r == '#' || r == 'b' }) {
		for _, minor := range optional(runes, acc, func(r rune) bool { return r == 'm' }) {
			for _, digit := range optional(runes, minor, func(r rune) bool { return r >= '0' && r <= '9' }) {
				tail := 0
				for tail < maxShapeTail && digit+tail < len(runes) && !unicode.IsSpace(runes[digit+tail]) {
					tail++
				}
				for ; tail >= 0; tail-- {
					if wordBoundary(runes, digit+tail) {
						return digit + tail, true
					}
				}
			}
		}
	}
	return 0, false
}

// optional lists the positions after an optional single rune at i, taken
// first when present
func optional(runes []rune, i int, accept func(rune) bool) []int {
	if i < len(runes) && accept(runes[i]) {
		return []int{i + 1, i}
	}
	return []int{i}
}
