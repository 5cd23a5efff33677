package music

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustRows(t *testing.T, lines ...string) []Row {
	t.Helper()
	rows := make([]Row, len(lines))
	for i, l := range lines {
		r, err := ParseRow(l)
		require.NoError(t, err, "row %d", i)
		rows[i] = r
	}
	return rows
}

func TestRowWidth(t *testing.T) {
	tests := []struct {
		name     string
		pattern  Pattern
		expected int
	}{
		{"empty", Pattern{}, 0},
		{"volume only", Pattern{HasVolume: true}, 2},
		{"note and instrument", Pattern{HasNote: true, HasInstrument: true}, 2},
		{"all fields", Pattern{HasVolume: true, HasNote: true, HasInstrument: true, MaxEffects: 2}, 8},
		{"max effects", Pattern{MaxEffects: 8}, 16},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.pattern.RowWidth())
		})
	}
}

func TestPatternRowDecodesSentinels(t *testing.T) {
	p := &Pattern{
		HasVolume:     true,
		HasNote:       true,
		HasInstrument: true,
		MaxEffects:    2,
		Data: []byte{
			0x0F, 0x00, 84, 0x01, 0x0B, 0x01, 0xAA, 0xAA, // C-2, ins 1, vol 15, jump 1
			0xFF, 0xFF, 0xFF, 0xFF, 0xAA, 0xAA, 0xAA, 0xAA, // empty
			0x00, 0x01, 180, 0xFF, 0xAA, 0xAA, 0xFF, 0x00, // vol 256, OFF, stop in slot 2
		},
	}

	r := p.Row(0)
	assert.True(t, r.HasVolume)
	assert.Equal(t, uint16(15), r.Volume)
	assert.True(t, r.HasNote)
	assert.Equal(t, NoteC2, r.Note)
	assert.True(t, r.HasInstrument)
	assert.Equal(t, uint8(1), r.Instrument)
	assert.Equal(t, []Effect{{Kind: EffectJumpToPattern, Value: 1}}, r.Effects())

	r = p.Row(1)
	assert.True(t, r.IsEmpty())
	assert.Empty(t, r.Effects())

	r = p.Row(2)
	assert.Equal(t, uint16(256), r.Volume)
	assert.Equal(t, NoteOff, r.Note)
	assert.False(t, r.HasInstrument)
	assert.Equal(t, []Effect{{Kind: EffectStopSong, Value: 0}}, r.Effects())

	// past the end and negative rows are empty
	r = p.Row(3)
	assert.True(t, r.IsEmpty())
	r = p.Row(-1)
	assert.True(t, r.IsEmpty())
}

func TestPatternRowWithoutVolumeColumn(t *testing.T) {
	p := &Pattern{HasNote: true, MaxEffects: 1, Data: []byte{96, 0x12, 0x02, 0xFF, 0xAA, 0xAA}}
	assert.Equal(t, 3, p.RowWidth())
	assert.Equal(t, 2, p.Rows())

	r := p.Row(0)
	assert.False(t, r.HasVolume)
	assert.Equal(t, Note(96), r.Note)
	assert.Equal(t, []Effect{{Kind: EffectSetDutyCycle, Value: 2}}, r.Effects())

	r = p.Row(1)
	assert.False(t, r.HasNote)
	assert.Empty(t, r.Effects())
}

func TestEncodeRowsLayout(t *testing.T) {
	rows := mustRows(t,
		"C-4 .. .. 1201",
		"",
		"OFF",
		"... .. .. 0B01 FF..",
	)

	p, err := EncodeRows(rows)
	require.NoError(t, err)
	assert.False(t, p.HasVolume)
	assert.True(t, p.HasNote)
	assert.False(t, p.HasInstrument)
	assert.Equal(t, uint8(2), p.MaxEffects)
	assert.Equal(t, 5, p.RowWidth())
	assert.Equal(t, []byte{
		108, 0x12, 0x01, 0xAA, 0xAA,
		0xFF, 0xAA, 0xAA, 0xAA, 0xAA,
		180, 0xAA, 0xAA, 0xAA, 0xAA,
		0xFF, 0x0B, 0x01, 0xFF, 0x00,
	}, p.Data)

	for i := range rows {
		assert.Equal(t, rows[i], p.Row(i), "row %d", i)
	}
}

func TestEncodeRowsRejectsInvalidValues(t *testing.T) {
	_, err := EncodeRows([]Row{{HasVolume: true, Volume: 300}})
	assert.Error(t, err)

	_, err = EncodeRows([]Row{{HasNote: true, Note: 200}})
	assert.ErrorIs(t, err, ErrInvalidNote)

	_, err = EncodeRows([]Row{{HasInstrument: true, Instrument: 254}})
	assert.ErrorIs(t, err, ErrTooManyInstruments)
}

func TestParseRow(t *testing.T) {
	r, err := ParseRow("A#3 02 0C 1003 08F0")
	require.NoError(t, err)
	assert.Equal(t, "A#3", r.Note.String())
	assert.Equal(t, uint8(2), r.Instrument)
	assert.Equal(t, uint16(12), r.Volume)
	assert.Equal(t, []Effect{{EffectSetWaveform, 3}, {EffectSetPanning, 0xF0}}, r.Effects())
	assert.Equal(t, "A#3 02 0C 1003 08F0", r.String())

	r, err = ParseRow("--- .. 100")
	require.NoError(t, err)
	assert.False(t, r.HasNote)
	assert.Equal(t, uint16(256), r.Volume)

	_, err = ParseRow("H-4")
	assert.ErrorIs(t, err, ErrInvalidNote)

	_, err = ParseRow("C-4 .. .. 0B")
	assert.ErrorIs(t, err, ErrInvalidEffect)

	_, err = ParseRow("C-4 .. .. 0100 0100 0100 0100 0100 0100 0100 0100 0100")
	assert.ErrorIs(t, err, ErrTooManyEffects)
}
