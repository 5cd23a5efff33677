package furball

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/valerio/go-furball/furball/device"
	"github.com/valerio/go-furball/furball/music"
)

// pattern builds a pattern from rows in tracker text form, see music.ParseRow.
func pattern(t *testing.T, rows ...string) *music.Pattern {
	t.Helper()
	decoded := make([]music.Row, len(rows))
	for i, s := range rows {
		r, err := music.ParseRow(s)
		require.NoError(t, err, "row %d: %q", i, s)
		decoded[i] = r
	}
	p, err := music.EncodeRows(decoded)
	require.NoError(t, err)
	return p
}

// order lists the patterns of channels 1..4 for one order, nil is silent.
type order [music.Channels]*music.Pattern

// newSong creates a 1:1 tempo song with the given orders.
func newSong(patternLength int, speeds []uint8, orders ...order) *music.Music {
	m := &music.Music{
		Name:                    "test",
		OrderLength:             len(orders),
		PatternLength:           patternLength,
		Speeds:                  speeds,
		VirtualTempoNumerator:   1,
		VirtualTempoDenominator: 1,
	}
	for ch := range m.Orders {
		m.Orders[ch] = make([]*music.Pattern, len(orders))
		for i, o := range orders {
			m.Orders[ch][i] = o[ch]
		}
	}
	return m
}

func newTestEngine(t *testing.T, channels Channels) (*Engine, *device.Recorder) {
	t.Helper()
	rec := device.NewRecorder()
	e := New(rec)
	require.NoError(t, e.Init(&Settings{Channels: channels}))
	return e, rec
}

// ticks advances the engine n times.
func ticks(e *Engine, n int) {
	for i := 0; i < n; i++ {
		e.AdvanceTick()
	}
}

func wave(t *testing.T, v uint8) music.Wavetable {
	t.Helper()
	samples := make([]uint8, 32)
	for i := range samples {
		samples[i] = v
	}
	w, err := music.PackWave(samples, false)
	require.NoError(t, err)
	return w
}

func gbInstrument(vol, envLen, sndLen uint8, up bool) *music.Instrument {
	return &music.Instrument{
		Kind: music.KindGB,
		GB: &music.GBInstrument{
			InitialVolume:  vol,
			EnvelopeLength: envLen,
			SoundLength:    sndLen,
			EnvelopeUp:     up,
		},
	}
}
