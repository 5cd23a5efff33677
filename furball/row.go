package furball

import (
	"github.com/valerio/go-furball/furball/addr"
	"github.com/valerio/go-furball/furball/music"
)

// processRow decodes the current row of every managed channel, then writes
// the resulting channel state to the device.
func (e *Engine) processRow() {
	t := &e.t
	for ch := 1; ch <= music.Channels; ch++ {
		if !e.settings.Channels.Has(ch) {
			continue
		}
		p := t.song.Pattern(ch, t.order)
		if p == nil {
			continue
		}
		e.decodeRow(ch, p.Row(t.row))
	}
	e.translateAll()
}

// decodeRow applies one row to a channel: instrument first, since it seeds
// the volume and envelope that the volume and note columns may override,
// then volume, note and effects from left to right.
func (e *Engine) decodeRow(ch int, r music.Row) {
	c := &e.ch[ch-1]
	c.macros.advance()

	if r.HasInstrument {
		e.setInstrument(ch, c, int(r.Instrument))
	}

	if r.HasVolume {
		c.vol = uint8(min(r.Volume, 15))
		c.envelopeInitialized = true
	}

	if r.HasNote {
		e.setNote(ch, c, r.Note)
	}

	for _, fx := range r.Effects() {
		e.applyEffect(ch, c, fx)
	}
}

func (e *Engine) setInstrument(ch int, c *channel, index int) {
	inst := e.t.song.Instrument(index)
	if inst == nil {
		inst, index = music.DefaultInstrument, -1
	}

	prev := c.inst
	c.inst, c.instIndex = inst, index
	if prev == inst {
		return
	}

	gb := inst.Params()
	// the wave channel has no envelope, its volume stays where it was
	if ch != 3 {
		c.vol = gb.InitialVolume
	}
	c.envLen = gb.EnvelopeLength
	c.sndLen = gb.SoundLength
	c.dirUp = gb.EnvelopeUp
	c.envelopeInitialized = true
	c.macros.restart(inst)
}

func (e *Engine) setNote(ch int, c *channel, n music.Note) {
	switch {
	case n == music.NoteOff:
		if c.noteOn {
			c.noteOn = false
			c.envelopeInitialized = true
			c.retrigger = true
		}
	case n == music.NoteRelease, n == music.NoteMacroRel:
		// release points are not implemented, the note keeps sounding
	case n.IsPitch():
		if ch == 4 {
			c.freqBase = NoiseParams(n)
		} else {
			c.freqBase = Period(n)
		}
		c.note = n
		if !c.noteOn {
			c.noteOn = true
			c.envelopeInitialized = true
		}
		c.retrigger = true
		c.macros.restart(c.inst)
	}
}

func (e *Engine) applyEffect(ch int, c *channel, fx music.Effect) {
	t := &e.t
	switch fx.Kind {
	case music.EffectJumpToPattern:
		t.jump.jumpTo(int(fx.Value))

	case music.EffectJumpToNextPattern:
		t.jump.jumpToRow(t.nextOrder(), int(fx.Value))

	case music.EffectStopSong:
		t.jump.stop()

	case music.EffectSetSpeed1:
		if e.settings.ExtendedEffects {
			t.setSpeed(0, fx.Value)
		}

	case music.EffectSetSpeed2:
		if e.settings.ExtendedEffects {
			t.setSpeed(1, fx.Value)
		}

	case music.EffectSetWaveform:
		e.loadWave(int(fx.Value))

	case music.EffectSetDutyCycle:
		if ch == 1 || ch == 2 {
			c.duty = fx.Value % 4
			c.envelopeInitialized = true
		}

	case music.EffectSetNoiseLength:
		e.setNoiseWidth(fx.Value != 0)

	case music.EffectSetPanning:
		if !e.settings.ExtendedEffects {
			return
		}
		var pan uint8
		if fx.Value>>4 != 0 {
			pan |= panLeft
		}
		if fx.Value&0xF != 0 {
			pan |= panRight
		}
		if pan != c.pan {
			c.pan = pan
			c.panChanged = true
		}

	case music.EffectSendExternalCommand:
		// reserved for the host
	}
}

// loadWave double buffers a wavetable into wave RAM. Unknown indices fall
// back to the first wavetable.
func (e *Engine) loadWave(index int) {
	waves := e.t.song.Wavetables
	if len(waves) == 0 || !e.settings.Channels.Has(3) {
		return
	}
	if index >= len(waves) {
		index = 0
	}
	e.dev.LoadWave(waves[index].Data)
}

// setNoiseWidth switches the noise LFSR width right away, without
// restarting the channel. The noise effect is chip-wide, whichever channel
// carries it.
func (e *Engine) setNoiseWidth(short bool) {
	if !e.settings.Channels.Has(4) {
		return
	}
	c := &e.ch[3]
	c.shortNoise = short
	e.write(addr.SND4FREQ, noiseFreq(c, false, c.sndLenEnabled))
}
