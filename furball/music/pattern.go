package music

import (
	"encoding/binary"
	"fmt"
)

const (
	volumeEmpty     = 0xFFFF
	instrumentEmpty = 0xFF
	MaxVolume       = 256
)

// Pattern is a block of rows for one channel, stored in the compact binary
// layout used on the target: a row holds only the fields the pattern
// declares present, in the order volume, note, instrument, effects.
//
//	volume      2 bytes LE, 0xFFFF when not set
//	note        1 byte, 0xFF when not set
//	instrument  1 byte, 0xFF when not set
//	effect      kind and value, 0xAA 0xAA when not set
type Pattern struct {
	HasVolume     bool
	HasNote       bool
	HasInstrument bool
	MaxEffects    uint8 // 0..8
	Data          []byte
}

// RowWidth returns the number of bytes of one encoded row.
func (p *Pattern) RowWidth() int {
	w := 2*int(p.MaxEffects) + 2*b2i(p.HasVolume) + b2i(p.HasNote) + b2i(p.HasInstrument)
	return w
}

// Rows returns the number of complete rows stored in Data.
func (p *Pattern) Rows() int {
	w := p.RowWidth()
	if w == 0 {
		return 0
	}
	return len(p.Data) / w
}

// Row is a decoded pattern row. Absent fields are reported through the Has
// flags, never as sentinel values.
type Row struct {
	HasVolume     bool
	Volume        uint16
	HasNote       bool
	Note          Note
	HasInstrument bool
	Instrument    uint8

	effects  [MaxEffects]Effect
	nEffects uint8
}

// Effects returns the non-empty effect slots of the row, left to right.
func (r Row) Effects() []Effect {
	return r.effects[:r.nEffects]
}

// IsEmpty reports whether the row sets nothing.
func (r Row) IsEmpty() bool {
	return !r.HasVolume && !r.HasNote && !r.HasInstrument && r.nEffects == 0
}

// AddEffect appends an effect; it returns false when the row is full.
func (r *Row) AddEffect(e Effect) bool {
	if int(r.nEffects) >= MaxEffects {
		return false
	}
	r.effects[r.nEffects] = e
	r.nEffects++
	return true
}

// Row decodes row i. Rows beyond the encoded data decode as empty.
func (p *Pattern) Row(i int) Row {
	var r Row
	w := p.RowWidth()
	off := i * w
	if w == 0 || i < 0 || off+w > len(p.Data) {
		return r
	}
	data := p.Data[off : off+w]

	if p.HasVolume {
		if v := binary.LittleEndian.Uint16(data); v != volumeEmpty {
			r.HasVolume = true
			r.Volume = v
		}
		data = data[2:]
	}
	if p.HasNote {
		if n := Note(data[0]); n != noteEmptyValue {
			r.HasNote = true
			r.Note = n
		}
		data = data[1:]
	}
	if p.HasInstrument {
		if in := data[0]; in != instrumentEmpty {
			r.HasInstrument = true
			r.Instrument = in
		}
		data = data[1:]
	}
	for e := 0; e < int(p.MaxEffects); e++ {
		kind, val := data[2*e], data[2*e+1]
		if kind == effectEmpty && val == effectEmpty {
			continue
		}
		r.AddEffect(Effect{Kind: EffectKind(kind), Value: val})
	}
	return r
}

// EncodeRows packs rows into a Pattern. A field is declared present when at
// least one row sets it, and MaxEffects is the largest effect count of a
// single row.
func EncodeRows(rows []Row) (*Pattern, error) {
	p := &Pattern{}
	for i := range rows {
		r := &rows[i]
		p.HasVolume = p.HasVolume || r.HasVolume
		p.HasNote = p.HasNote || r.HasNote
		p.HasInstrument = p.HasInstrument || r.HasInstrument
		if r.nEffects > p.MaxEffects {
			p.MaxEffects = r.nEffects
		}
		if r.HasVolume && r.Volume > MaxVolume {
			return nil, fmt.Errorf("row %d: volume %d out of range", i, r.Volume)
		}
		if r.HasNote && !r.Note.IsPitch() && r.Note != NoteOff && r.Note != NoteRelease && r.Note != NoteMacroRel {
			return nil, fmt.Errorf("row %d: %w: %d", i, ErrInvalidNote, r.Note)
		}
		if r.HasInstrument && r.Instrument >= MaxInstruments {
			return nil, fmt.Errorf("row %d: %w: %d", i, ErrTooManyInstruments, r.Instrument)
		}
	}

	p.Data = make([]byte, 0, len(rows)*p.RowWidth())
	for i := range rows {
		r := &rows[i]
		if p.HasVolume {
			v := uint16(volumeEmpty)
			if r.HasVolume {
				v = r.Volume
			}
			p.Data = binary.LittleEndian.AppendUint16(p.Data, v)
		}
		if p.HasNote {
			n := noteEmptyValue
			if r.HasNote {
				n = r.Note
			}
			p.Data = append(p.Data, byte(n))
		}
		if p.HasInstrument {
			in := uint8(instrumentEmpty)
			if r.HasInstrument {
				in = r.Instrument
			}
			p.Data = append(p.Data, in)
		}
		for e := 0; e < int(p.MaxEffects); e++ {
			if e < int(r.nEffects) {
				p.Data = append(p.Data, byte(r.effects[e].Kind), r.effects[e].Value)
			} else {
				p.Data = append(p.Data, effectEmpty, effectEmpty)
			}
		}
	}
	return p, nil
}

func b2i(b bool) int {
	if b {
		return 1
	}
	return 0
}
