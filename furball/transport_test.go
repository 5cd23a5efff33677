package furball

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/valerio/go-furball/furball/addr"
)

func TestFirstTickPlaysFirstRow(t *testing.T) {
	e, rec := newTestEngine(t, ChannelsAll)
	e.Play(newSong(4, []uint8{6}, order{pattern(t, "C-4 .. 0F")}), Loop)
	assert.Equal(t, -1, e.Row())
	assert.Zero(t, rec.Count(addr.SND1FREQ))

	e.AdvanceTick()
	assert.Equal(t, 0, e.Order())
	assert.Equal(t, 0, e.Row())
	assert.Equal(t, 1, rec.Count(addr.SND1FREQ))

	ticks(e, 5)
	assert.Equal(t, 0, e.Row())
	e.AdvanceTick()
	assert.Equal(t, 1, e.Row())
}

// Two orders of four rows at speed 6 take 48 ticks; the 49th tick starts the
// song over and retriggers the first note again.
func TestLoopScenario(t *testing.T) {
	e, rec := newTestEngine(t, ChannelsAll)
	notes := pattern(t, "C-4 .. 0F", "", "E-4", "")
	song := newSong(4, []uint8{6}, order{notes}, order{notes})
	e.Play(song, Loop)

	e.AdvanceTick()
	require.Equal(t, 0, e.Order())
	require.Equal(t, 0, e.Row())

	ticks(e, 47)
	assert.Equal(t, 1, e.Order())
	assert.Equal(t, 3, e.Row())
	rec.Clear()

	e.AdvanceTick()
	assert.Equal(t, Playing, e.Status())
	assert.Equal(t, 0, e.Order())
	assert.Equal(t, 0, e.Row())

	freq := rec.WritesTo(addr.SND1FREQ)
	require.Len(t, freq, 1)
	assert.Equal(t, addr.FreqRestart, freq[0]&addr.FreqRestart)
	assert.Equal(t, Period(notes.Row(0).Note), freq[0]&addr.FreqPeriodMask)
}

func TestLoopSettings(t *testing.T) {
	tests := []struct {
		loop     LoopSetting
		expected PlayStatus
	}{
		{Loop, Playing},
		{ForceLoop, Playing},
		{Stop, Stopped},
		{ForceStop, Stopped},
	}

	for _, tt := range tests {
		t.Run(tt.loop.String(), func(t *testing.T) {
			e, _ := newTestEngine(t, ChannelsAll)
			e.Play(newSong(4, []uint8{6}, order{pattern(t, "C-4")}, order{}), tt.loop)

			ticks(e, 48)
			require.Equal(t, Playing, e.Status())

			e.AdvanceTick()
			assert.Equal(t, tt.expected, e.Status())
			if tt.expected == Playing {
				assert.Equal(t, 0, e.Order())
				assert.Equal(t, 0, e.Row())
			} else {
				assert.Equal(t, -1, e.Order())
				assert.Nil(t, e.Music())
			}
		})
	}
}

func TestSpeedTableCycling(t *testing.T) {
	speeds := []uint8{2, 3, 1}
	sum := 6

	e, _ := newTestEngine(t, ChannelsAll)
	e.Play(newSong(64, speeds, order{}), Loop)

	e.AdvanceTick()
	require.Equal(t, 0, e.Row())
	start := e.t.speedIndex

	for cycle := 0; cycle < 3; cycle++ {
		row := e.Row()
		ticks(e, sum)
		assert.Equal(t, start, e.t.speedIndex, "cycle %d", cycle)
		assert.Equal(t, row+len(speeds), e.Row(), "cycle %d", cycle)
	}
}

func TestSpeedTableFollowsEntries(t *testing.T) {
	e, _ := newTestEngine(t, ChannelsAll)
	e.Play(newSong(64, []uint8{2, 3}, order{}), Loop)

	var rowTicks []int
	last := e.Row()
	for tick := 1; tick <= 11; tick++ {
		e.AdvanceTick()
		if e.Row() != last {
			rowTicks = append(rowTicks, tick)
			last = e.Row()
		}
	}
	// first row right away, then 3 ticks (speeds[1]), 2 ticks (speeds[0]), ...
	assert.Equal(t, []int{1, 4, 6, 9, 11}, rowTicks)
}

func TestVirtualTempo(t *testing.T) {
	tests := []struct {
		name     string
		num, den uint16
		rows     []int // row after each tick
	}{
		{"normal", 1, 1, []int{0, 1, 2, 3}},
		{"half", 1, 2, []int{0, 0, 1, 1, 2}},
		{"double", 2, 1, []int{0, 2, 4}},
		{"two thirds", 2, 3, []int{0, 0, 1, 2, 2, 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, _ := newTestEngine(t, ChannelsAll)
			song := newSong(64, []uint8{1}, order{})
			song.VirtualTempoNumerator = tt.num
			song.VirtualTempoDenominator = tt.den
			e.Play(song, Loop)

			var rows []int
			for range tt.rows {
				e.AdvanceTick()
				rows = append(rows, e.Row())
			}
			assert.Equal(t, tt.rows, rows)
		})
	}
}

func TestDegenerateTiming(t *testing.T) {
	e, _ := newTestEngine(t, ChannelsAll)
	song := newSong(4, nil, order{})
	song.VirtualTempoNumerator = 0
	e.Play(song, Loop)

	assert.Equal(t, []uint8{6}, e.t.speeds)
	e.AdvanceTick()
	assert.Equal(t, 0, e.Row())
	ticks(e, 6)
	assert.Equal(t, 1, e.Row())
}

func TestSpeedsAreCopied(t *testing.T) {
	e, _ := newTestEngine(t, ChannelsAll)
	require.NoError(t, e.Init(&Settings{Channels: ChannelsAll, ExtendedEffects: true}))
	song := newSong(4, []uint8{6, 4}, order{pattern(t, "... .. .. 0903 0F02")})
	e.Play(song, Loop)
	e.AdvanceTick()

	assert.Equal(t, []uint8{3, 2}, e.t.speeds)
	assert.Equal(t, []uint8{6, 4}, song.Speeds)

	e.Play(song, Loop)
	assert.Equal(t, []uint8{6, 4}, e.t.speeds)
}

func TestJumpToPattern(t *testing.T) {
	e, _ := newTestEngine(t, ChannelsAll)
	song := newSong(4, []uint8{1},
		order{pattern(t, "... .. .. 0B01")},
		order{pattern(t, "C-4")},
	)
	e.Play(song, Loop)

	e.AdvanceTick()
	assert.Equal(t, pendingJump{kind: jumpOrder, order: 1, row: 0, hasRow: true}, e.t.jump)
	assert.Equal(t, 0, e.Order())

	e.AdvanceTick()
	assert.Equal(t, 1, e.Order())
	assert.Equal(t, 0, e.Row())
	assert.Equal(t, pendingJump{}, e.t.jump)
	assert.True(t, e.ch[0].noteOn)
}

func TestJumpToNextPattern(t *testing.T) {
	e, _ := newTestEngine(t, ChannelsAll)
	song := newSong(4, []uint8{1},
		order{pattern(t, "... .. .. 0D02")},
		order{},
	)
	e.Play(song, Loop)

	e.AdvanceTick()
	assert.Equal(t, pendingJump{kind: jumpOrder, order: 1, row: 2, hasRow: true}, e.t.jump)
	e.AdvanceTick()
	assert.Equal(t, 1, e.Order())
	assert.Equal(t, 2, e.Row())
}

func TestJumpToNextPatternWrapsOrder(t *testing.T) {
	e, _ := newTestEngine(t, ChannelsAll)
	song := newSong(2, []uint8{1}, order{}, order{pattern(t, "... .. .. 0D01")})
	e.Play(song, Stop)
	ticks(e, 3)
	require.Equal(t, 1, e.Order())

	e.AdvanceTick()
	assert.Equal(t, Playing, e.Status())
	assert.Equal(t, 0, e.Order())
	assert.Equal(t, 1, e.Row())
}

func TestJumpCombinesWithRow(t *testing.T) {
	e, _ := newTestEngine(t, ChannelsAll)
	song := newSong(4, []uint8{1},
		order{pattern(t, "... .. .. 0D03 0B02")},
		order{},
		order{},
	)
	e.Play(song, Loop)

	e.AdvanceTick()
	assert.Equal(t, pendingJump{kind: jumpOrder, order: 2, row: 3, hasRow: true}, e.t.jump)
	e.AdvanceTick()
	assert.Equal(t, 2, e.Order())
	assert.Equal(t, 3, e.Row())
}

func TestStopHasPriorityOverJump(t *testing.T) {
	tests := []struct {
		name  string
		order order
	}{
		{"stop then jump", order{pattern(t, "... .. .. FF00 0B01")}},
		{"jump then stop", order{pattern(t, "... .. .. 0B01 FF00")}},
		{"stop then next", order{pattern(t, "... .. .. FF00 0D02")}},
		{"across channels", order{pattern(t, "... .. .. FF00"), pattern(t, "... .. .. 0B01")}},
		{"jump channel first", order{pattern(t, "... .. .. 0B01"), pattern(t, "... .. .. FF00")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, _ := newTestEngine(t, ChannelsAll)
			e.Play(newSong(4, []uint8{1}, tt.order, order{}), Loop)

			e.AdvanceTick()
			assert.Equal(t, jumpStop, e.t.jump.kind)

			e.AdvanceTick()
			assert.Equal(t, Stopped, e.Status())
		})
	}
}

func TestStopEffectWaitsForRowBoundary(t *testing.T) {
	e, _ := newTestEngine(t, ChannelsAll)
	song := newSong(4, []uint8{2}, order{pattern(t, "... .. .. FF00", "C-4")})
	e.Play(song, Loop)
	e.AdvanceTick()
	e.AdvanceTick()
	assert.Equal(t, Playing, e.Status())
	assert.Equal(t, jumpStop, e.t.jump.kind)

	e.AdvanceTick()
	assert.Equal(t, Stopped, e.Status())
}
