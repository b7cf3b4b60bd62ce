package chords

import (
	"errors"
	"strings"
)

// ErrNotANote is returned when a string does not name one of the 12 pitches
var ErrNotANote = errors.New("not a note")

// Pitch is a chromatic scale degree in [0,11], 0 = C
type Pitch int

var (
	sharpNotes = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}
	flatNotes  = [12]string{"C", "Db", "D", "Eb", "E", "F", "Gb", "G", "Ab", "A", "Bb", "B"}
)

// Spelling selects which table a pitch is named from
type Spelling int

const (
	SpellSharp Spelling = iota
	SpellFlat
)

// Name returns the note name of the pitch in the given spelling
func (p Pitch) Name(s Spelling) string {
	if s == SpellFlat {
		return flatNotes[p.norm()]
	}
	return sharpNotes[p.norm()]
}

// Shift moves the pitch by n semitones, wrapping around the octave
func (p Pitch) Shift(n int) Pitch {
	return Pitch(int(p) + n).norm()
}

func (p Pitch) norm() Pitch {
	v := int(p) % 12
	if v < 0 {
		v += 12
	}
	return Pitch(v)
}

// Note is a pitch with the spelling it should be written in after transposition
type Note struct {
	Pitch    Pitch
	Spelling Spelling
}

// String returns the spelled note name
func (n Note) String() string {
	return n.Pitch.Name(n.Spelling)
}

// Transpose returns the note shifted by semitones, keeping its spelling
func (n Note) Transpose(semitones int) Note {
	return Note{Pitch: n.Pitch.Shift(semitones), Spelling: n.Spelling}
}

// normalizeName folds an uppercase flat accidental, "BB" and "Bb" name the same note
func normalizeName(name string) string {
	if len(name) == 2 && (name[1] == 'b' || name[1] == 'B') {
		return name[:1] + "b"
	}
	return name
}

func lookup(table [12]string, name string) (Pitch, bool) {
	for i, n := range table {
		if n == name {
			return Pitch(i), true
		}
	}
	return 0, false
}

// NoteIndex resolves a one- or two-character note name to its pitch.
// The sharp table is checked before the flat one.
func NoteIndex(name string) (Pitch, error) {
	n, err := ParseNote(name)
	if err != nil {
		return 0, err
	}
	return n.Pitch, nil
}

// ParseNote resolves a note name and decides its spelling: sharp when the
// name is in the sharp table (naturals included) or carries a literal '#',
// flat otherwise.
func ParseNote(name string) (Note, error) {
	norm := normalizeName(name)
	if p, ok := lookup(sharpNotes, norm); ok {
		return Note{Pitch: p, Spelling: SpellSharp}, nil
	}
	if p, ok := lookup(flatNotes, norm); ok {
		spelling := SpellFlat
		if strings.Contains(name, "#") {
			spelling = SpellSharp
		}
		return Note{Pitch: p, Spelling: spelling}, nil
	}
	return Note{}, ErrNotANote
}

// TryTransposeNote transposes a note name. ok is false when the name is not
// a note, in which case the caller decides what to keep.
func TryTransposeNote(name string, semitones int) (string, bool) {
	n, err := ParseNote(name)
	if err != nil {
		return "", false
	}
	return n.Transpose(semitones).String(), true
}

// TransposeNote transposes a note name and returns it unchanged when it is
// not recognized
func TransposeNote(name string, semitones int) string {
	if out, ok := TryTransposeNote(name, semitones); ok {
		return out
	}
	return name
}

// stripMinor removes a trailing minor marker from a key name
func stripMinor(key string) string {
	return strings.TrimSuffix(strings.TrimSpace(key), "m")
}

// SemitonesBetweenKeys returns the shortest signed shift from sourceKey to
// destKey, in (-6, 6]. Minor markers are ignored. Unknown keys give 0.
func SemitonesBetweenKeys(sourceKey, destKey string) int {
	src, err := NoteIndex(stripMinor(sourceKey))
	if err != nil {
		return 0
	}
	dst, err := NoteIndex(stripMinor(destKey))
	if err != nil {
		return 0
	}

	semitones := int(dst.Shift(-int(src)))
	if semitones > 6 {
		semitones -= 12
	}
	return semitones
}
