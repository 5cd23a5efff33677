package audio_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/valerio/go-furball/furball"
	"github.com/valerio/go-furball/furball/audio"
	"github.com/valerio/go-furball/furball/music"
)

func TestEnginePlaysOnAPU(t *testing.T) {
	var rows []music.Row
	for _, s := range []string{"C-4 .. 0F 1202", "", "", "", "OFF", "", "", ""} {
		r, err := music.ParseRow(s)
		require.NoError(t, err)
		rows = append(rows, r)
	}
	p, err := music.EncodeRows(rows)
	require.NoError(t, err)

	song := &music.Music{
		Name:                    "beep",
		OrderLength:             1,
		PatternLength:           len(rows),
		Speeds:                  []uint8{1},
		VirtualTempoNumerator:   1,
		VirtualTempoDenominator: 1,
	}
	for ch := range song.Orders {
		song.Orders[ch] = []*music.Pattern{nil}
	}
	song.Orders[0][0] = p

	apu := audio.New()
	e := furball.New(apu)
	require.NoError(t, e.Init(nil))
	e.Play(song, furball.Stop)

	peak := func() int16 {
		var m int16
		for _, s := range apu.GetSamples(apu.Buffered()) {
			m = max(m, s)
		}
		return m
	}

	e.AdvanceTick()
	apu.Tick(70224)
	ch1, _, _, _ := apu.GetChannelStatus()
	assert.True(t, ch1)
	assert.Positive(t, peak())

	for i := 0; i < 4; i++ {
		e.AdvanceTick()
		apu.Tick(70224)
	}
	apu.GetSamples(apu.Buffered())
	e.AdvanceTick()
	apu.Tick(70224)
	assert.Zero(t, peak(), "note off silences the channel")

	e.Stop()
	apu.Tick(70224)
	assert.Zero(t, peak())
	assert.Equal(t, furball.Stopped, e.Status())
}
