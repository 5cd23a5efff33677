package furball

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/valerio/go-furball/furball/addr"
	"github.com/valerio/go-furball/furball/device"
	"github.com/valerio/go-furball/furball/music"
)

func TestInit(t *testing.T) {
	rec := device.NewRecorder()
	e := New(rec)
	assert.False(t, e.Initialized())

	require.NoError(t, e.Init(nil))
	assert.True(t, e.Initialized())
	assert.Equal(t, ChannelsAll, e.settings.Channels)

	v, ok := rec.Value(addr.SNDSTAT)
	require.True(t, ok)
	assert.Equal(t, addr.SndStatMasterEnable, v)
	v, _ = rec.Value(addr.SNDDSCNT)
	assert.Equal(t, addr.DSPSGVolume100, v)

	// idempotent
	require.NoError(t, e.Init(nil))
	assert.True(t, e.Initialized())
}

func TestInitNoChannels(t *testing.T) {
	rec := device.NewRecorder()
	e := New(rec)

	err := e.Init(&Settings{Channels: ChannelsNone})
	assert.ErrorIs(t, err, ErrNoChannels)
	assert.False(t, e.Initialized())
	assert.Empty(t, rec.Writes)
}

func TestReinitStopsPlayback(t *testing.T) {
	e, _ := newTestEngine(t, ChannelsAll)
	e.Play(newSong(4, []uint8{6}, order{pattern(t, "C-4")}), Loop)
	require.Equal(t, Playing, e.Status())

	require.NoError(t, e.Init(&Settings{Channels: Channel1}))
	assert.Equal(t, Stopped, e.Status())
	assert.Equal(t, Channel1, e.settings.Channels)
}

func TestShutdown(t *testing.T) {
	e, rec := newTestEngine(t, ChannelsAll)
	e.Play(newSong(4, []uint8{6}, order{}), Loop)

	e.Shutdown()
	assert.False(t, e.Initialized())
	assert.Equal(t, Stopped, e.Status())

	rec.Clear()
	e.Shutdown()
	e.Play(newSong(4, []uint8{6}, order{}), Loop)
	e.AdvanceTick()
	assert.Empty(t, rec.Writes)
	assert.Equal(t, Stopped, e.Status())
}

func TestUninitializedIsNoop(t *testing.T) {
	rec := device.NewRecorder()
	e := New(rec)

	e.Play(newSong(4, []uint8{6}, order{pattern(t, "C-4")}), Loop)
	e.AdvanceTick()
	e.Pause()
	e.Resume()
	e.Stop()

	assert.Empty(t, rec.Writes)
	assert.Equal(t, Stopped, e.Status())
	assert.Equal(t, -1, e.Order())
	assert.Equal(t, -1, e.Row())
	assert.Nil(t, e.Music())
}

func TestPlaySetsUpHardware(t *testing.T) {
	e, rec := newTestEngine(t, ChannelsAll)
	song := newSong(4, []uint8{6}, order{})
	song.Wavetables = []music.Wavetable{wave(t, 3), wave(t, 9)}
	rec.Clear()

	e.Play(song, Loop)

	// ch3 leaves the mix, bank 1 plays while bank 0 is written, then flips
	dmg := rec.WritesTo(addr.SNDDMGCNT)
	require.Len(t, dmg, 2)
	assert.Zero(t, dmg[0]&(addr.DMGEnableLeft(3)|addr.DMGEnableRight(3)))
	assert.Equal(t, uint16(0xFF77), dmg[1])

	sel := rec.WritesTo(addr.SND3SEL)
	require.Len(t, sel, 2)
	assert.Equal(t, addr.Sel3Bank|addr.Sel3Size32|addr.Sel3Enable, sel[0])
	assert.Equal(t, addr.Sel3Size32|addr.Sel3Enable, sel[1])
	assert.Equal(t, song.Wavetables[0].Data, rec.PlayingWave())

	assert.Equal(t, Playing, e.Status())
	assert.Equal(t, 0, e.Order())
	assert.Equal(t, -1, e.Row())
	assert.Same(t, song, e.Music())
}

func TestPlayPansOnlyManagedChannels(t *testing.T) {
	e, rec := newTestEngine(t, Channel1|Channel4)
	e.Play(newSong(4, []uint8{6}, order{}), Loop)

	v, _ := rec.Value(addr.SNDDMGCNT)
	assert.Equal(t, uint16(0x9977), v)
	assert.Zero(t, rec.Count(addr.SND3SEL))
}

func TestPlayNilIsNoop(t *testing.T) {
	e, rec := newTestEngine(t, ChannelsAll)
	song := newSong(4, []uint8{6}, order{pattern(t, "C-4")})
	e.Play(song, Loop)
	e.AdvanceTick()
	rec.Clear()

	e.Play(nil, Loop)
	assert.Empty(t, rec.Writes)
	assert.Equal(t, Playing, e.Status())
	assert.Same(t, song, e.Music())
}

func TestPlayRestartsSong(t *testing.T) {
	e, _ := newTestEngine(t, ChannelsAll)
	song := newSong(4, []uint8{1}, order{pattern(t, "C-4 00 08")}, order{})
	song.Instruments = []*music.Instrument{gbInstrument(10, 1, music.SoundLengthInfinity, false)}
	e.Play(song, Loop)
	ticks(e, 6)
	require.Equal(t, 1, e.Order())

	e.Play(song, Stop)
	assert.Equal(t, 0, e.Order())
	assert.Equal(t, -1, e.Row())
	assert.Equal(t, Stop, e.t.loop)
	assert.Equal(t, newChannel(), e.ch[0])
}

func TestStopIsIdempotent(t *testing.T) {
	e, rec := newTestEngine(t, ChannelsAll)
	e.Play(newSong(4, []uint8{6}, order{pattern(t, "C-4 .. 0F")}), Loop)
	e.AdvanceTick()

	e.Stop()
	state := e.Snapshot()
	writes := len(rec.Writes)

	e.Stop()
	assert.Equal(t, state, e.Snapshot())
	assert.Len(t, rec.Writes, writes)
	assert.Equal(t, Stopped, e.Status())
	assert.Equal(t, -1, e.Order())
	assert.Equal(t, -1, e.Row())
	assert.Nil(t, e.Music())
}

func TestStopSilencesWithoutPop(t *testing.T) {
	e, rec := newTestEngine(t, ChannelsAll)
	lead := pattern(t, "C-4 .. 0F")
	e.Play(newSong(4, []uint8{6}, order{lead, lead, lead, lead}), Loop)
	e.AdvanceTick()
	rec.Clear()

	e.Stop()

	for ch := 1; ch <= 4; ch++ {
		cnt, ok := rec.Value(addr.CNT(ch))
		require.True(t, ok, "channel %d", ch)
		freq, _ := rec.Value(addr.FREQ(ch))
		assert.Equal(t, addr.FreqRestart, freq, "channel %d", ch)
		if ch == 3 {
			assert.Equal(t, addr.Cnt3Volume0, cnt&addr.Cnt3VolumeMask)
			continue
		}
		assert.Zero(t, cnt>>addr.CntVolumeShift, "channel %d volume", ch)
		assert.Equal(t, addr.CntEnvDirInc, cnt&addr.CntEnvDirInc, "channel %d direction", ch)
		assert.Zero(t, cnt&0x0700, "channel %d step time", ch)
	}
}

func TestStopKeepsUnmanagedChannels(t *testing.T) {
	e, rec := newTestEngine(t, Channel2)
	e.Play(newSong(4, []uint8{6}, order{}), Loop)
	rec.Clear()

	e.Stop()
	assert.Equal(t, 1, rec.Count(addr.SND2CNT))
	assert.Equal(t, 1, rec.Count(addr.SND2FREQ))
	assert.Len(t, rec.Writes, 2)
}

func TestPauseResume(t *testing.T) {
	e, rec := newTestEngine(t, ChannelsAll)
	song := newSong(2, []uint8{2},
		order{pattern(t, "C-4 .. 0F", ""), pattern(t, "E-4 .. 0C", "OFF")},
	)
	e.Play(song, Loop)
	e.AdvanceTick()
	require.Equal(t, 0, e.Row())

	e.Pause()
	assert.Equal(t, Paused, e.Status())
	assert.Equal(t, 0, e.Row())
	assert.Same(t, song, e.Music())
	cnt, _ := rec.Value(addr.SND1CNT)
	assert.Zero(t, cnt>>addr.CntVolumeShift)

	rec.Clear()
	ticks(e, 10)
	e.Pause()
	assert.Empty(t, rec.Writes)
	assert.Equal(t, 0, e.Row())

	e.Resume()
	assert.Equal(t, Playing, e.Status())
	for _, ch := range []int{1, 2} {
		freq, ok := rec.Value(addr.FREQ(ch))
		require.True(t, ok)
		assert.Equal(t, addr.FreqRestart, freq&addr.FreqRestart)
		cnt, _ := rec.Value(addr.CNT(ch))
		assert.NotZero(t, cnt>>addr.CntVolumeShift)
	}
	assert.Zero(t, rec.Count(addr.SND3FREQ))

	// resuming twice does nothing
	rec.Clear()
	e.Resume()
	assert.Empty(t, rec.Writes)

	e.AdvanceTick()
	e.AdvanceTick()
	assert.Equal(t, 1, e.Row())
}

func TestSnapshot(t *testing.T) {
	e, _ := newTestEngine(t, Channel1|Channel2)
	song := newSong(4, []uint8{3, 4}, order{pattern(t, "A-4 .. 0A 1202"), pattern(t, "C-3")})
	e.Play(song, Loop)
	e.AdvanceTick()

	s := e.Snapshot()
	assert.Equal(t, Playing, s.Status)
	assert.Equal(t, 0, s.Order)
	assert.Equal(t, 0, s.Row)
	assert.Equal(t, 1, s.SpeedIndex)
	assert.Equal(t, 4, s.Speed)

	ch1 := s.Channels[0]
	assert.True(t, ch1.Enabled)
	assert.True(t, ch1.NoteOn)
	assert.Equal(t, "A-4", ch1.Note.String())
	assert.Equal(t, uint8(10), ch1.Volume)
	assert.Equal(t, uint8(2), ch1.Duty)
	assert.Equal(t, Period(ch1.Note), ch1.Period)
	assert.Equal(t, -1, ch1.Instrument)
	assert.Equal(t, panBoth, ch1.Pan)

	assert.False(t, s.Channels[2].Enabled)
	assert.False(t, s.Channels[2].NoteOn)
}

func TestRowHook(t *testing.T) {
	type pos struct{ order, row int }
	var rows []pos
	e := New(device.NewRecorder(), WithRowHook(func(order, row int) {
		rows = append(rows, pos{order, row})
	}))
	require.NoError(t, e.Init(nil))
	e.Play(newSong(2, []uint8{1}, order{pattern(t, "C-4", "... .. .. 0B00")}), Stop)

	ticks(e, 4)
	assert.Equal(t, []pos{{0, 0}, {0, 1}, {0, 0}, {0, 1}}, rows)
}
