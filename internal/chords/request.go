package chords

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

const MaxShift = 12

var (
	ErrInvalidRequest  = errors.New("invalid transposition request")
	ErrShiftOutOfRange = errors.New("shift out of range")

	keyRegex = regexp.MustCompile(`(?i)^([A-G])([#b]?)(m?)$`)
)

// Key is a song key: a root note and an optional minor marker
type Key struct {
	Root  string
	Minor bool
}

// ParseKey reads a key such as "C", "f#", "Bbm". Case is not significant
// on input; the root letter is stored uppercase and a flat as 'b'.
func ParseKey(s string) (Key, error) {
	m := keyRegex.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return Key{}, fmt.Errorf("%w: %q is not a key", ErrInvalidRequest, s)
	}

	root := strings.ToUpper(m[1])
	if m[2] != "" {
		root += strings.ToLower(m[2])
	}
	k := Key{Root: root, Minor: m[3] != ""}
	if _, err := NoteIndex(k.Root); err != nil {
		return Key{}, fmt.Errorf("%w: %q", ErrNotANote, s)
	}
	return k, nil
}

// String renders the key, e.g. "C#m"
func (k Key) String() string {
	if k.Minor {
		return k.Root + "m"
	}
	return k.Root
}

// Transpose moves the key root like a chord root and keeps the mode
func (k Key) Transpose(semitones int) Key {
	return Key{Root: TransposeNote(k.Root, semitones), Minor: k.Minor}
}

// Request is one transposition request: either a fixed shift or a target key
type Request struct {
	shift     int
	targetKey *Key
}

// ShiftBy builds a semitone request
func ShiftBy(semitones int) (Request, error) {
	if semitones < -MaxShift || semitones > MaxShift {
		return Request{}, fmt.Errorf("%w: %d (use -%d..%d)", ErrShiftOutOfRange, semitones, MaxShift, MaxShift)
	}
	return Request{shift: semitones}, nil
}

// ToKey builds a target-key request
func ToKey(key Key) Request {
	return Request{targetKey: &key}
}

// ParseRequest reads user input: a signed integer is a shift, anything
// matching a key name is a target key
func ParseRequest(s string) (Request, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Request{}, fmt.Errorf("%w: empty", ErrInvalidRequest)
	}

	if n, err := strconv.Atoi(s); err == nil {
		return ShiftBy(n)
	}

	key, err := ParseKey(s)
	if err != nil {
		return Request{}, fmt.Errorf("%w: %q is neither a shift nor a key", ErrInvalidRequest, s)
	}
	return ToKey(key), nil
}

// IsKey reports whether the request targets a key
func (r Request) IsKey() bool {
	return r.targetKey != nil
}

// TargetKey returns the requested key, if any
func (r Request) TargetKey() (Key, bool) {
	if r.targetKey == nil {
		return Key{}, false
	}
	return *r.targetKey, true
}

// Semitones resolves the request against the song's original key.
// A key request against an unknown source key resolves to 0.
func (r Request) Semitones(sourceKey string) int {
	if r.targetKey == nil {
		return r.shift
	}
	return ResolveTargetKeyShift(sourceKey, r.targetKey.String())
}

// String renders the request the way a user would type it
func (r Request) String() string {
	if r.targetKey != nil {
		return r.targetKey.String()
	}
	if r.shift > 0 {
		return "+" + strconv.Itoa(r.shift)
	}
	return strconv.Itoa(r.shift)
}
