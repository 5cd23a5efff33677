package furball

import "github.com/valerio/go-furball/furball/music"

const (
	panRight uint8 = 1 << 0
	panLeft  uint8 = 1 << 1
	panBoth        = panLeft | panRight
)

// channel is the runtime state of one DMG channel.
type channel struct {
	inst      *music.Instrument
	instIndex int
	note      music.Note

	freqBase uint16
	freqDiff int16

	vol    uint8 // 0..15
	envLen uint8 // 0..7
	sndLen uint8 // 0..63, music.SoundLengthInfinity for none
	dirUp  bool

	duty       uint8 // 0..3
	pan        uint8
	shortNoise bool

	macros macroCursor

	// one-tick flags, cleared by the register translator
	noteOn              bool
	retrigger           bool
	envelopeInitialized bool
	sndLenEnabled       bool
	panChanged          bool
}

func newChannel() channel {
	gb := music.DefaultGB
	return channel{
		inst:      music.DefaultInstrument,
		instIndex: -1,
		freqBase:  1,
		vol:       gb.InitialVolume,
		envLen:    gb.EnvelopeLength,
		sndLen:    gb.SoundLength,
		dirUp:     gb.EnvelopeUp,
		pan:       panBoth,
	}
}

func (c *channel) period() uint16 {
	return uint16(int16(c.freqBase) + c.freqDiff)
}

func (c *channel) state(enabled bool) ChannelState {
	return ChannelState{
		Enabled:    enabled,
		NoteOn:     c.noteOn,
		Note:       c.note,
		Instrument: c.instIndex,
		Volume:     c.vol,
		Duty:       c.duty,
		Pan:        c.pan,
		Period:     c.period(),
		ShortNoise: c.shortNoise,
		MacroStep:  c.macros.step,
	}
}
