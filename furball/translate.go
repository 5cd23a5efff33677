package furball

import (
	"github.com/valerio/go-furball/furball/addr"
	"github.com/valerio/go-furball/furball/music"
)

// ch3SoundLength is the fixed wave channel length used whenever the
// instrument has a finite sound length.
const ch3SoundLength = 0xFE

// translateAll writes the state of every managed channel to the device.
func (e *Engine) translateAll() {
	panChanged := false
	for ch := 1; ch <= music.Channels; ch++ {
		if !e.settings.Channels.Has(ch) {
			continue
		}
		c := &e.ch[ch-1]
		panChanged = panChanged || c.panChanged
		c.panChanged = false
		e.translate(ch, c)
	}
	if panChanged {
		e.writePanning()
	}
}

// translate writes only the registers whose content changed: the envelope
// register when the envelope was (re)initialized, the frequency register
// when a retrigger is due or the length counter got enabled or disabled.
func (e *Engine) translate(ch int, c *channel) {
	lenEnabled := c.sndLen != music.SoundLengthInfinity
	freqDirty := c.retrigger || c.sndLenEnabled != lenEnabled

	switch ch {
	case 1, 2:
		if c.envelopeInitialized {
			e.writeCNT(ch, envelopeCNT(c, lenEnabled))
		}
		if freqDirty {
			e.write(addr.FREQ(ch), toneFreq(c, lenEnabled))
		}
	case 3:
		if c.envelopeInitialized {
			cnt := waveVolume(c)
			if lenEnabled {
				cnt |= addr.Cnt3Length(ch3SoundLength)
			}
			e.writeCNT(ch, cnt)
		}
		if freqDirty {
			e.write(addr.SND3FREQ, toneFreq(c, lenEnabled))
		}
	case 4:
		if c.envelopeInitialized {
			e.writeCNT(ch, envelopeCNT(c, lenEnabled))
		}
		if freqDirty {
			e.write(addr.SND4FREQ, noiseFreq(c, c.retrigger, lenEnabled))
		}
	}

	c.sndLenEnabled = lenEnabled
	c.retrigger = false
	c.envelopeInitialized = false
}

// envelopeCNT builds SNDxCNT for the pulse and noise channels. A silent
// channel gets an increasing envelope so its DAC stays on and re-enabling it
// doesn't pop.
func envelopeCNT(c *channel, lenEnabled bool) uint16 {
	var cnt uint16
	if lenEnabled {
		cnt |= addr.CntLength(uint16(music.SoundLengthInfinity - 1 - c.sndLen))
	}
	vol := c.vol
	if !c.noteOn {
		vol = 0
	}
	if c.dirUp || c.vol == 0 {
		cnt |= addr.CntEnvDirInc
	} else {
		cnt |= addr.CntEnvDirDec
	}
	return cnt | addr.CntDuty(c.duty) | addr.CntStepTime(c.envLen) | addr.CntVolume(vol)
}

func toneFreq(c *channel, lenEnabled bool) uint16 {
	freq := addr.FreqPeriod(c.period())
	if c.retrigger {
		freq |= addr.FreqRestart
	}
	if lenEnabled {
		freq |= addr.FreqLengthEnable
	}
	return freq
}

func noiseFreq(c *channel, retrigger, lenEnabled bool) uint16 {
	freq := addr.Freq4Shift(c.freqBase>>4) | addr.Freq4DivRatio(c.freqBase)
	if c.shortNoise {
		freq |= addr.Freq4Width7Bits
	}
	if retrigger {
		freq |= addr.FreqRestart
	}
	if lenEnabled {
		freq |= addr.FreqLengthEnable
	}
	return freq
}

// waveVolume quantizes the channel volume to the wave channel output levels.
func waveVolume(c *channel) uint16 {
	switch {
	case !c.noteOn:
		return addr.Cnt3Volume0
	case c.vol >= 12:
		return addr.Cnt3Volume100
	case c.vol >= 10:
		return addr.Cnt3Volume75
	case c.vol >= 8:
		return addr.Cnt3Volume50
	case c.vol >= 4:
		return addr.Cnt3Volume25
	default:
		return addr.Cnt3Volume0
	}
}

func (e *Engine) writePanning() {
	mask := addr.DMGVolLeft(7) | addr.DMGVolRight(7)
	dmg := e.dmgcnt & mask
	for ch := 1; ch <= music.Channels; ch++ {
		enabledLeft := e.dmgcnt&addr.DMGEnableLeft(ch) != 0
		enabledRight := e.dmgcnt&addr.DMGEnableRight(ch) != 0
		if e.settings.Channels.Has(ch) {
			enabledLeft = e.ch[ch-1].pan&panLeft != 0
			enabledRight = e.ch[ch-1].pan&panRight != 0
		}
		if enabledLeft {
			dmg |= addr.DMGEnableLeft(ch)
		}
		if enabledRight {
			dmg |= addr.DMGEnableRight(ch)
		}
	}
	e.dmgcnt = dmg
	e.write(addr.SNDDMGCNT, dmg)
}
