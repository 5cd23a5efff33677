package music

import (
	"fmt"
	"strconv"
	"strings"
)

// Note is a pattern note value using Furnace's numbering, where C-0 is 60
// and each octave spans 12 values.
// Reference: https://github.com/tildearrow/furnace/blob/master/papers/format.md
type Note uint8

const (
	NoteLowest    Note = 0   // C-(-5)
	NoteNoiseLow  Note = 60  // C-0, lowest note of the noise table
	NotePeriodLow Note = 83  // B-1, lowest note of the period table
	NoteC2        Note = 84  // C-2
	NoteNoiseHigh Note = 120 // highest note of the noise table
	NoteHighest   Note = 179 // B-9, highest playable note

	NoteOff        Note = 180
	NoteRelease    Note = 181
	NoteMacroRel   Note = 182
	noteEmptyValue Note = 0xFF
)

var noteNames = [12]string{"C-", "C#", "D-", "D#", "E-", "F-", "F#", "G-", "G#", "A-", "A#", "B-"}

// semitones of the natural notes, indexed by letter - 'A'
var letterSemitone = [7]int{9, 11, 0, 2, 4, 5, 7}

// IsPitch reports whether n is a playable pitch.
func (n Note) IsPitch() bool {
	return n <= NoteHighest
}

// String returns the note in tracker form: C-4, A#2, OFF, REL, MRL.
func (n Note) String() string {
	switch {
	case n.IsPitch():
		return noteNames[int(n)%12] + strconv.Itoa(int(n)/12-5)
	case n == NoteOff:
		return "OFF"
	case n == NoteRelease:
		return "REL"
	case n == NoteMacroRel:
		return "MRL"
	default:
		return "---"
	}
}

// ParseNote parses a tracker note name such as C-4, C#4, Db4, C4 or C--5,
// and the specials OFF, REL and MRL (=== and ~~~ are accepted as aliases).
func ParseNote(s string) (Note, error) {
	s = strings.TrimSpace(s)
	switch strings.ToUpper(s) {
	case "OFF", "===":
		return NoteOff, nil
	case "REL":
		return NoteRelease, nil
	case "MRL", "~~~":
		return NoteMacroRel, nil
	}
	if len(s) < 2 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidNote, s)
	}

	letter := s[0]
	if letter >= 'a' && letter <= 'z' {
		letter -= 'a' - 'A'
	}
	if letter < 'A' || letter > 'G' {
		return 0, fmt.Errorf("%w: %q", ErrInvalidNote, s)
	}
	semitone := letterSemitone[letter-'A']

	rest := s[1:]
	switch rest[0] {
	case '#':
		semitone++
		rest = rest[1:]
	case 'b':
		semitone--
		rest = rest[1:]
	case '-':
		// separator; "C--5" leaves "-5"
		rest = rest[1:]
	}

	octave, err := strconv.Atoi(rest)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidNote, s)
	}

	value := (octave+5)*12 + semitone
	if value < int(NoteLowest) || value > int(NoteHighest) {
		return 0, fmt.Errorf("%w: %q out of range", ErrInvalidNote, s)
	}
	return Note(value), nil
}
