package music

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseRow parses a row in tracker text form:
//
//	C-4 01 0F 0B01 1203   note, instrument, volume, effects (kind+value hex)
//	OFF .. .. ....        note off
//	... .. 08             only set the volume
//	                      empty string, empty row
//
// Dots in any column mean "not set"; an effect with a dotted value ("FF..")
// is stored with value 0. Trailing columns may be omitted.
func ParseRow(s string) (Row, error) {
	var r Row
	parts := strings.Fields(s)

	if len(parts) > 0 && !isEmptyCol(parts[0]) {
		n, err := ParseNote(parts[0])
		if err != nil {
			return r, err
		}
		r.HasNote, r.Note = true, n
	}
	if len(parts) > 1 && !isEmptyCol(parts[1]) {
		v, err := strconv.ParseUint(parts[1], 16, 8)
		if err != nil || v >= MaxInstruments {
			return r, fmt.Errorf("invalid instrument %q", parts[1])
		}
		r.HasInstrument, r.Instrument = true, uint8(v)
	}
	if len(parts) > 2 && !isEmptyCol(parts[2]) {
		v, err := strconv.ParseUint(parts[2], 16, 16)
		if err != nil || v > MaxVolume {
			return r, fmt.Errorf("invalid volume %q", parts[2])
		}
		r.HasVolume, r.Volume = true, uint16(v)
	}
	for _, col := range parts[min(3, len(parts)):] {
		if isEmptyCol(col) {
			continue
		}
		e, err := parseEffect(col)
		if err != nil {
			return r, err
		}
		if !r.AddEffect(e) {
			return r, fmt.Errorf("%w: %q", ErrTooManyEffects, s)
		}
	}
	return r, nil
}

func parseEffect(col string) (Effect, error) {
	if len(col) != 4 {
		return Effect{}, fmt.Errorf("%w: %q", ErrInvalidEffect, col)
	}
	kind, err := strconv.ParseUint(col[:2], 16, 8)
	if err != nil {
		return Effect{}, fmt.Errorf("%w: %q", ErrInvalidEffect, col)
	}
	var val uint64
	if !isEmptyCol(col[2:]) {
		if val, err = strconv.ParseUint(col[2:], 16, 8); err != nil {
			return Effect{}, fmt.Errorf("%w: %q", ErrInvalidEffect, col)
		}
	}
	return Effect{Kind: EffectKind(kind), Value: uint8(val)}, nil
}

func isEmptyCol(s string) bool {
	return strings.Trim(s, ".-") == ""
}

// String formats the row in the form accepted by ParseRow.
func (r Row) String() string {
	var sb strings.Builder
	if r.HasNote {
		sb.WriteString(r.Note.String())
	} else {
		sb.WriteString("...")
	}
	if r.HasInstrument {
		fmt.Fprintf(&sb, " %02X", r.Instrument)
	} else {
		sb.WriteString(" ..")
	}
	if r.HasVolume {
		fmt.Fprintf(&sb, " %02X", r.Volume)
	} else {
		sb.WriteString(" ..")
	}
	for _, e := range r.Effects() {
		fmt.Fprintf(&sb, " %02X%02X", uint8(e.Kind), e.Value)
	}
	return sb.String()
}
