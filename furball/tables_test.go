package furball

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/valerio/go-furball/furball/music"
)

func TestPeriod(t *testing.T) {
	tests := []struct {
		note     string
		expected uint16
	}{
		{"B-1", 1},
		{"C-2", 44},
		{"A-4", 1750},
		{"C-5", 1798},
		{"B-9", 2040},
		{"C-0", 1}, // below the table
		{"C--5", 1},
	}

	for _, tt := range tests {
		t.Run(tt.note, func(t *testing.T) {
			n, err := music.ParseNote(tt.note)
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, Period(n))
		})
	}
}

func TestNoiseParams(t *testing.T) {
	tests := []struct {
		note     string
		expected uint16
	}{
		{"C-0", 0x00},
		{"C#0", 0xF7},
		{"C-1", 0xD4},
		{"B-4", 0x15},
		{"C-5", 0x14},
		{"B-9", 0x14}, // above the table
		{"C-2", 0xA4},
		{"B-1", 0xA5},
		{"C--5", 0x00},
	}

	for _, tt := range tests {
		t.Run(tt.note, func(t *testing.T) {
			n, err := music.ParseNote(tt.note)
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, NoiseParams(n))
		})
	}
}

func TestTablesCoverEveryNote(t *testing.T) {
	prevPeriod := uint16(0)
	for n := music.NoteLowest; n <= music.NoteHighest; n++ {
		p := Period(n)
		assert.LessOrEqual(t, p, uint16(0x7FF), "note %s", n)
		assert.GreaterOrEqual(t, p, prevPeriod, "note %s", n)
		prevPeriod = p

		assert.LessOrEqual(t, NoiseParams(n), uint16(0xFF), "note %s", n)
	}
}
