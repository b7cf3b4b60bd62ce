package chords

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Chord is one chord symbol found on a chord line, split into the parts
// that transposition touches (Root, Accidental) and the part it never
// touches (Modifier: quality, extension, anything up to the next boundary).
type Chord struct {
	Root       byte
	Accidental string
	Modifier   string
}

// String reassembles the chord as written
func (c Chord) String() string {
	return string(c.Root) + c.Accidental + c.Modifier
}

// Transpose returns the chord text with its root moved by semitones.
// Roots that do not resolve to a pitch ("Cb", "E#") are kept as written.
func (c Chord) Transpose(semitones int) string {
	name := string(c.Root) + strings.ToUpper(c.Accidental)
	root, ok := TryTransposeNote(name, semitones)
	if !ok {
		return c.String()
	}

	// lowercase flat input keeps a lowercase flat
	if c.Accidental == "b" && !strings.Contains(root, "#") && len(root) == 2 && (root[1] == 'b' || root[1] == 'B') {
		root = root[:1] + "b"
	}

	return root + c.Modifier
}

// span is a chord match inside a line, [start, end) in bytes
type span struct {
	start, end int
	chord      Chord
}

func isRoot(b byte) bool {
	return b >= 'A' && b <= 'G'
}

// atBoundary reports whether a chord ends before position i
func atBoundary(line string, i int) bool {
	if i >= len(line) {
		return true
	}
	switch line[i] {
	case '/', ')':
		return true
	}
	r, _ := utf8.DecodeRuneInString(line[i:])
	return unicode.IsSpace(r)
}

// findChords scans the line left to right. A chord is a root letter A-G,
// an optional '#' or 'b', then everything up to whitespace, end of line,
// '/' or ')'. Scanning resumes right after each match, so "G/B" yields G and B.
func findChords(line string) []span {
	var spans []span
	for i := 0; i < len(line); {
		if !isRoot(line[i]) {
			i++
			continue
		}

		start := i
		c := Chord{Root: line[i]}
		i++
		if i < len(line) && (line[i] == '#' || line[i] == 'b') {
			c.Accidental = line[i : i+1]
			i++
		}
		modStart := i
		for !atBoundary(line, i) {
			_, size := utf8.DecodeRuneInString(line[i:])
			i += size
		}
		c.Modifier = line[modStart:i]

		spans = append(spans, span{start: start, end: i, chord: c})
	}
	return spans
}

// TransposeLine rewrites every chord of a chord line by semitones.
// Text between chords is copied as is; a zero shift returns the line untouched.
func TransposeLine(line string, semitones int) string {
	if semitones == 0 {
		return line
	}

	spans := findChords(line)
	if len(spans) == 0 {
		return line
	}

	var b strings.Builder
	b.Grow(len(line) + len(spans))
	last := 0
	for _, s := range spans {
		b.WriteString(line[last:s.start])
		b.WriteString(s.chord.Transpose(semitones))
		last = s.end
	}
	b.WriteString(line[last:])
	return b.String()
}
