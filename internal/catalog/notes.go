package catalog

import (
	"fmt"
	"strings"
)

// Note is a single scientific-pitch token such as "C4" or "F#3":
// a letter A-G, an optional # or b accidental, and an octave digit.
type Note string

// ParseNote validates a single note token.
func ParseNote(token string) (Note, error) {
	if len(token) < 2 || len(token) > 3 {
		return "", fmt.Errorf("%w: %q", ErrBadNote, token)
	}
	letter := token[0]
	if letter < 'A' || letter > 'G' {
		return "", fmt.Errorf("%w: %q", ErrBadNote, token)
	}
	rest := token[1:]
	if len(rest) == 2 {
		if rest[0] != '#' && rest[0] != 'b' {
			return "", fmt.Errorf("%w: %q", ErrBadNote, token)
		}
		rest = rest[1:]
	}
	if rest[0] < '0' || rest[0] > '8' {
		return "", fmt.Errorf("%w: %q", ErrBadNote, token)
	}
	return Note(token), nil
}

// ParseSequence parses a dash-joined run of note tokens ("C4-E4-G4").
func ParseSequence(s string) ([]Note, error) {
	if s == "" {
		return nil, fmt.Errorf("%w: empty sequence", ErrBadNote)
	}
	tokens := strings.Split(s, "-")
	notes := make([]Note, 0, len(tokens))
	for _, token := range tokens {
		n, err := ParseNote(token)
		if err != nil {
			return nil, err
		}
		notes = append(notes, n)
	}
	return notes, nil
}

// JoinNotes renders notes in the dash-joined wire form.
func JoinNotes(notes []Note) string {
	parts := make([]string, len(notes))
	for i, n := range notes {
		parts[i] = string(n)
	}
	return strings.Join(parts, "-")
}

// EqualNotes reports order-sensitive token equality.
func EqualNotes(a, b []Note) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
