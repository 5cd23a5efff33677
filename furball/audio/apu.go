package audio

import (
	"sync"

	"github.com/valerio/go-furball/furball/addr"
	"github.com/valerio/go-furball/furball/bit"
)

// channel holds the state of one DMG channel.
type channel struct {
	enabled    bool // running, reported in SNDSTAT
	dacEnabled bool
	muted      bool // debug only

	left, right bool

	period uint16
	phase  uint64 // 32.32 fixed-point position in duty steps or wave samples

	// Pulse channels only (ch1, ch2)
	duty uint8

	// Envelope (ch1, ch2, ch4); ch3 keeps its output level in volume
	volume        uint8
	initialVolume uint8
	envelopeUp    bool
	envelopePace  uint8
	envelopeTimer uint8

	// Length counter
	timer         uint16 // length load value
	lengthCounter uint16
	lengthEnabled bool

	// Sweep (ch1)
	sweepPeriod  uint8
	sweepDown    bool
	sweepStep    uint8
	sweepTimer   uint8
	sweepShadow  uint16
	sweepEnabled bool
}

// APU emulates the DMG sound channels of the GBA sound controller. Register
// writes come from the player, samples are pulled by the audio output from
// another goroutine.
// Reference: https://problemkaputt.de/gbatek.htm#gbasoundchannel1tonesweep
type APU struct {
	// mu protects the channel state against concurrent register writes,
	// ticks and debug controls
	mu sync.Mutex

	enabled    bool // SNDSTAT bit 7
	sampleRate int
	registers  [registerCount]uint16

	volLeft, volRight uint8 // SNDDMGCNT master volume, 0..7
	psgVolume         uint8 // SNDDSCNT PSG ratio code

	ch [4]channel

	// Channel 3: two wave RAM banks, one playing while the other is written
	waveRAM  [2][addr.WaveWords]uint32
	waveBank int
	wave64   bool

	// Channel 4
	lfsr       uint16
	shortNoise bool
	noiseShift uint8
	noiseDiv   uint8

	frameCounter int // frame sequencer step, 0..7
	frameCycles  int
	sampleCycles int64 // cycles * sampleRate since the last sample

	sampleBuffer   []int16
	sampleBufferMu sync.Mutex

	samplesGenerated uint64
}

// New creates a powered-off sound unit producing DefaultSampleRate samples.
func New() *APU {
	return NewWithSampleRate(DefaultSampleRate)
}

// NewWithSampleRate creates a powered-off sound unit producing sampleRate
// stereo frames per second.
func NewWithSampleRate(sampleRate int) *APU {
	if sampleRate <= 0 {
		sampleRate = DefaultSampleRate
	}
	a := &APU{
		sampleRate:   sampleRate,
		sampleBuffer: make([]int16, 0, initialBufferCapacity),
	}
	a.initRegisters()
	return a
}

// initRegisters sets the power-up state: sound off, bias at its midpoint.
func (a *APU) initRegisters() {
	a.registers = [registerCount]uint16{}
	a.registers[regIndex(addr.SNDBIAS)] = 0x200
	a.enabled = false
	a.volLeft, a.volRight, a.psgVolume = 0, 0, 0
	for i := range a.ch {
		muted := a.ch[i].muted
		a.ch[i] = channel{muted: muted}
	}
	a.lfsr = lfsrInitialValue
	a.shortNoise = false
	a.noiseShift, a.noiseDiv = 0, 0
	a.wave64 = false
}

// registerCount covers the 16-bit groups from SND1SWEEP to SNDBIAS.
const registerCount = (addr.SNDBIAS-addr.SND1SWEEP)/2 + 1

func regIndex(address uint32) int {
	return int(address-addr.SND1SWEEP) / 2
}

// SampleRate returns the output rate in stereo frames per second.
func (a *APU) SampleRate() int {
	return a.sampleRate
}

// Tick advances the sound unit by the given number of cycles, clocking the
// frame sequencer and appending the produced samples to the buffer.
func (a *APU) Tick(cycles int) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.enabled {
		a.frameCycles += cycles
		for a.frameCycles >= frameSequencerCycles {
			a.frameCycles -= frameSequencerCycles
			a.updateFrameSequencer()
		}
	}

	// a powered-off unit still outputs silence at the same rate
	a.sampleCycles += int64(cycles) * int64(a.sampleRate)
	for a.sampleCycles >= CPUFrequency {
		a.sampleCycles -= CPUFrequency
		a.generateSample()
	}
}

// updateFrameSequencer advances the frame sequencer which controls
// sweep, length counter, and envelope timing
// The frame sequencer has 8 steps (0-7) and runs at 512 Hz
// Frame sequencer step actions:
//
//	Step   Length  Sweep  Envelope
//	0      Clock   -      -
//	1      -       -      -
//	2      Clock   Clock  -
//	3      -       -      -
//	4      Clock   -      -
//	5      -       -      -
//	6      Clock   Clock  -
//	7      -       -      Clock
//
// Reference: https://gbdev.io/pandocs/Audio_details.html#frame-sequencer
func (a *APU) updateFrameSequencer() {
	switch a.frameCounter {
	case 0, 4:
		a.updateLengthCounters()
	case 2, 6:
		a.updateLengthCounters()
		a.updateSweep()
	case 7:
		a.updateEnvelopes()
	}
	a.frameCounter = (a.frameCounter + 1) & 7
}

func (a *APU) updateLengthCounters() {
	for i := range a.ch {
		c := &a.ch[i]
		if c.lengthEnabled && c.lengthCounter > 0 {
			c.lengthCounter--
			if c.lengthCounter == 0 {
				c.enabled = false
			}
		}
	}
}

func (a *APU) updateSweep() {
	c := &a.ch[0]
	if !c.sweepEnabled || c.sweepPeriod == 0 {
		return
	}
	if c.sweepTimer > 0 {
		c.sweepTimer--
	}
	if c.sweepTimer > 0 {
		return
	}
	c.sweepTimer = c.sweepPeriod

	next, ok := c.sweepNext()
	if !ok {
		c.enabled = false
		return
	}
	if c.sweepStep > 0 {
		c.sweepShadow = next
		c.period = next
	}
}

// sweepNext computes the next sweep period, reporting false on overflow.
func (c *channel) sweepNext() (uint16, bool) {
	delta := c.sweepShadow >> c.sweepStep
	if c.sweepDown {
		return c.sweepShadow - delta, true
	}
	next := c.sweepShadow + delta
	return next, next <= addr.FreqPeriodMask
}

func (a *APU) updateEnvelopes() {
	// ch3 has no envelope
	for _, i := range []int{0, 1, 3} {
		c := &a.ch[i]
		if c.envelopePace == 0 {
			continue
		}
		c.envelopeTimer++
		if c.envelopeTimer < c.envelopePace {
			continue
		}
		c.envelopeTimer = 0
		if c.envelopeUp && c.volume < 15 {
			c.volume++
		} else if !c.envelopeUp && c.volume > 0 {
			c.volume--
		}
	}
}

func (a *APU) generateSample() {
	left, right := a.mixChannels()
	a.samplesGenerated++

	a.sampleBufferMu.Lock()
	a.sampleBuffer = append(a.sampleBuffer, left, right)
	if len(a.sampleBuffer) > maxBufferSize {
		a.sampleBuffer = a.sampleBuffer[len(a.sampleBuffer)-bufferRetainSize:]
	}
	a.sampleBufferMu.Unlock()
}

func (a *APU) mixChannels() (int16, int16) {
	if !a.enabled {
		return 0, 0
	}

	var left, right int32
	outputs := [4]int32{
		a.generatePulseChannel(0),
		a.generatePulseChannel(1),
		a.generateChannel3(),
		a.generateChannel4(),
	}
	for i, v := range outputs {
		if a.ch[i].muted {
			continue
		}
		if a.ch[i].left {
			left += v
		}
		if a.ch[i].right {
			right += v
		}
	}

	shift := psgShift[a.psgVolume&3]
	left = (left * int32(a.volLeft+1) * sampleAmplitude >> 3) >> shift
	right = (right * int32(a.volRight+1) * sampleAmplitude >> 3) >> shift
	return clampSample(left), clampSample(right)
}

func clampSample(v int32) int16 {
	return int16(bit.Clamp(int(v), minSampleValue, maxSampleValue))
}

// phaseIncrement returns the 32.32 fixed-point phase advance per output
// sample of a counter clocked at rate/(2048-period) Hz.
func (a *APU) phaseIncrement(rate uint64, period uint16) uint64 {
	div := uint64(2048-uint32(period&addr.FreqPeriodMask)) * uint64(a.sampleRate)
	return (rate << 32) / div
}

// generatePulseChannel returns the signed output of a pulse channel (ch 0 or
// 1) and advances its duty position.
func (a *APU) generatePulseChannel(ch int) int32 {
	c := &a.ch[ch]
	if !c.enabled || !c.dacEnabled {
		return 0
	}

	// 8 duty steps per period, 131072 Hz / (2048 - period) per cycle
	c.phase += a.phaseIncrement(1048576, c.period)
	step := (c.phase >> 32) & 7
	if (dutyPatterns[c.duty&3]>>(7-step))&1 == 1 {
		return int32(c.volume)
	}
	return -int32(c.volume)
}

func (a *APU) generateChannel3() int32 {
	c := &a.ch[2]
	if !c.enabled || !c.dacEnabled {
		return 0
	}

	c.phase += a.phaseIncrement(2097152, c.period)
	pos := int(c.phase>>32) % waveSamples
	bank := a.waveBank
	if a.wave64 {
		pos = int(c.phase>>32) % (2 * waveSamples)
		if pos >= waveSamples {
			bank, pos = 1-bank, pos-waveSamples
		}
	}

	sample := int32(bit.Nibble(a.waveRAM[bank][pos/8], pos%8))
	return (2*sample - 15) * waveLevels[c.volume&7] / 4
}

// noiseRate returns the LFSR clock in Hz: 524288 / r / 2^(s+1), r=0 as 0.5.
func (a *APU) noiseRate() uint64 {
	if a.noiseDiv == 0 {
		return 1048576 >> a.noiseShift
	}
	return (524288 / uint64(a.noiseDiv)) >> a.noiseShift
}

func (a *APU) generateChannel4() int32 {
	c := &a.ch[3]
	if !c.enabled || !c.dacEnabled {
		return 0
	}

	if a.noiseShift < noiseMaxShift {
		c.phase += (a.noiseRate() << 32) / uint64(a.sampleRate)
		clocks := 0
		for c.phase >= 1<<32 {
			c.phase -= 1 << 32
			if clocks < maxLFSRClocksPerSample {
				a.clockLFSR()
				clocks++
			}
		}
	}

	if a.lfsr&1 == 0 {
		return int32(c.volume)
	}
	return -int32(c.volume)
}

func (a *APU) clockLFSR() {
	feedback := (a.lfsr & 1) ^ ((a.lfsr >> 1) & 1)
	a.lfsr = (a.lfsr >> 1) | (feedback << 14)
	if a.shortNoise {
		a.lfsr = (a.lfsr &^ (1 << 6)) | (feedback << 6)
	}
}

// ReadRegister returns the value latched in a sound register. SNDSTAT
// reports the running channels in its low bits. Wave RAM reads return the
// bank that is not playing.
func (a *APU) ReadRegister(address uint32) uint16 {
	a.mu.Lock()
	defer a.mu.Unlock()

	if address >= addr.WaveRAMStart && address <= addr.WaveRAMEnd {
		offset := address - addr.WaveRAMStart
		word := a.waveRAM[1-a.waveBank][offset/4]
		return uint16(word >> (8 * (offset & 2)))
	}
	if address < addr.SND1SWEEP || address > addr.SNDBIAS || address&1 != 0 {
		return 0
	}

	value := a.registers[regIndex(address)]
	if address == addr.SNDSTAT {
		value &= addr.SndStatMasterEnable
		for i := range a.ch {
			if a.ch[i].enabled {
				value |= 1 << i
			}
		}
	}
	return value
}

// WriteRegister writes a 16-bit sound register group.
func (a *APU) WriteRegister(address uint32, value uint16) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if address >= addr.WaveRAMStart && address <= addr.WaveRAMEnd {
		// writable while powered off
		offset := address - addr.WaveRAMStart
		shift := 8 * (offset & 2)
		w := &a.waveRAM[1-a.waveBank][offset/4]
		*w = (*w &^ (0xFFFF << shift)) | uint32(value)<<shift
		return
	}
	if address < addr.SND1SWEEP || address > addr.SNDBIAS || address&1 != 0 {
		return
	}

	switch address {
	case addr.SNDSTAT:
		wasEnabled := a.enabled
		if value&addr.SndStatMasterEnable == 0 {
			if wasEnabled {
				bias := a.registers[regIndex(addr.SNDBIAS)]
				a.initRegisters()
				a.registers[regIndex(addr.SNDBIAS)] = bias
			}
			return
		}
		a.enabled = true
		if !wasEnabled {
			a.frameCounter = 0
			a.frameCycles = 0
		}
		a.registers[regIndex(address)] = value
		return
	case addr.SNDBIAS:
		a.registers[regIndex(address)] = value
		return
	}

	if !a.enabled {
		return
	}
	a.registers[regIndex(address)] = value
	a.mapRegisterToState(address, value)
}

// LoadWave writes data to the bank that is not playing, then makes it the
// playing bank.
func (a *APU) LoadWave(data [addr.WaveWords]uint32) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.waveRAM[1-a.waveBank] = data
	sel := a.registers[regIndex(addr.SND3SEL)] ^ addr.Sel3Bank
	if a.enabled {
		a.registers[regIndex(addr.SND3SEL)] = sel
		a.mapRegisterToState(addr.SND3SEL, sel)
	} else {
		a.waveBank = 1 - a.waveBank
	}
}

// mapRegisterToState updates internal channel state based on register writes
func (a *APU) mapRegisterToState(address uint32, value uint16) {
	switch address {
	case addr.SND1SWEEP:
		c := &a.ch[0]
		c.sweepStep = uint8(value & 7)
		c.sweepDown = bit.IsSet16(3, value)
		c.sweepPeriod = uint8(bit.Extract16(value, 6, 4))

	case addr.SND1CNT, addr.SND2CNT, addr.SND4CNT:
		c := &a.ch[channelIndex(address)]
		c.timer = value & addr.CntLengthMask
		if address != addr.SND4CNT {
			c.duty = uint8(bit.Extract16(value, 7, 6))
		}
		c.envelopePace = uint8(bit.Extract16(value, 10, 8))
		c.envelopeUp = value&addr.CntEnvDirInc != 0
		c.initialVolume = uint8(value >> addr.CntVolumeShift)
		c.volume = c.initialVolume
		// DAC enabled if bits 11-15 are not all zero
		c.dacEnabled = value&0xF800 != 0
		if !c.dacEnabled {
			c.enabled = false
		}

	case addr.SND1FREQ, addr.SND2FREQ, addr.SND3FREQ:
		i := channelIndex(address)
		c := &a.ch[i]
		c.period = value & addr.FreqPeriodMask
		c.lengthEnabled = value&addr.FreqLengthEnable != 0
		if value&addr.FreqRestart != 0 {
			a.trigger(i)
		}

	case addr.SND3SEL:
		c := &a.ch[2]
		a.wave64 = value&addr.Sel3Size64 != 0
		a.waveBank = int(bit.Extract16(value, 6, 6))
		c.dacEnabled = value&addr.Sel3Enable != 0
		if !c.dacEnabled {
			c.enabled = false
		}

	case addr.SND3CNT:
		c := &a.ch[2]
		c.timer = value & addr.Cnt3LengthMask
		c.volume = uint8(bit.Extract16(value, 15, 13))

	case addr.SND4FREQ:
		c := &a.ch[3]
		a.noiseDiv = uint8(value & addr.Freq4DivRatioMask)
		a.shortNoise = value&addr.Freq4Width7Bits != 0
		a.noiseShift = uint8(bit.Extract16(value, 7, 4))
		c.lengthEnabled = value&addr.FreqLengthEnable != 0
		if value&addr.FreqRestart != 0 {
			a.trigger(3)
		}

	case addr.SNDDMGCNT:
		a.volRight = uint8(value & 7)
		a.volLeft = uint8(bit.Extract16(value, 6, 4))
		for i := range a.ch {
			a.ch[i].right = value&addr.DMGEnableRight(i+1) != 0
			a.ch[i].left = value&addr.DMGEnableLeft(i+1) != 0
		}

	case addr.SNDDSCNT:
		a.psgVolume = uint8(value & addr.DSPSGVolumeMask)
	}
}

// trigger restarts channel i. Channels with the DAC off stay silent.
func (a *APU) trigger(i int) {
	c := &a.ch[i]
	if !c.dacEnabled {
		return
	}
	c.enabled = true
	c.phase = 0
	c.envelopeTimer = 0

	if i == 2 {
		c.lengthCounter = lengthMaxWave - c.timer
		return
	}

	c.volume = c.initialVolume
	c.lengthCounter = lengthMaxTone - c.timer

	switch i {
	case 0:
		c.sweepShadow = c.period
		c.sweepTimer = c.sweepPeriod
		c.sweepEnabled = c.sweepPeriod > 0 || c.sweepStep > 0
		if c.sweepStep > 0 {
			if _, ok := c.sweepNext(); !ok {
				c.enabled = false
			}
		}
	case 3:
		a.lfsr = lfsrInitialValue
	}
}

func channelIndex(address uint32) int {
	switch address {
	case addr.SND1SWEEP, addr.SND1CNT, addr.SND1FREQ:
		return 0
	case addr.SND2CNT, addr.SND2FREQ:
		return 1
	case addr.SND3SEL, addr.SND3CNT, addr.SND3FREQ:
		return 2
	default:
		return 3
	}
}

// GetSamples returns count interleaved stereo samples, padding with silence
// when the buffer runs dry.
func (a *APU) GetSamples(count int) []int16 {
	a.sampleBufferMu.Lock()
	defer a.sampleBufferMu.Unlock()

	samples := make([]int16, count)
	n := copy(samples, a.sampleBuffer)
	a.sampleBuffer = a.sampleBuffer[:copy(a.sampleBuffer, a.sampleBuffer[n:])]
	return samples
}

// Buffered returns the number of samples waiting in the buffer.
func (a *APU) Buffered() int {
	a.sampleBufferMu.Lock()
	defer a.sampleBufferMu.Unlock()
	return len(a.sampleBuffer)
}

// Reset powers the unit off and drops buffered samples. Debug mutes survive.
func (a *APU) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.frameCounter = 0
	a.frameCycles = 0
	a.sampleCycles = 0
	a.waveRAM = [2][addr.WaveWords]uint32{}
	a.waveBank = 0
	a.initRegisters()

	a.sampleBufferMu.Lock()
	a.sampleBuffer = a.sampleBuffer[:0]
	a.sampleBufferMu.Unlock()
}

// MuteChannel mutes or unmutes a specific audio channel for debugging
func (a *APU) MuteChannel(channel int, muted bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if channel >= 1 && channel <= 4 {
		a.ch[channel-1].muted = muted
	}
}

// ToggleChannel toggles muting for a specific channel
func (a *APU) ToggleChannel(channel int) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if channel >= 1 && channel <= 4 {
		a.ch[channel-1].muted = !a.ch[channel-1].muted
	}
}

// SoloChannel mutes all channels except the specified one
func (a *APU) SoloChannel(channel int) {
	a.mu.Lock()
	defer a.mu.Unlock()

	for i := range a.ch {
		a.ch[i].muted = i != channel-1
	}
}

// UnmuteAll unmutes all channels
func (a *APU) UnmuteAll() {
	a.mu.Lock()
	defer a.mu.Unlock()

	for i := range a.ch {
		a.ch[i].muted = false
	}
}

// GetChannelStatus reports which channels are running and not muted.
func (a *APU) GetChannelStatus() (ch1, ch2, ch3, ch4 bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	on := func(i int) bool { return a.ch[i].enabled && !a.ch[i].muted }
	return on(0), on(1), on(2), on(3)
}

// Muted returns the debug mute flag of every channel.
func (a *APU) Muted() (muted [4]bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	for i := range a.ch {
		muted[i] = a.ch[i].muted
	}
	return muted
}

// GetChannelVolumes returns the current volumes after envelope processing.
// The wave channel reports its output level code.
func (a *APU) GetChannelVolumes() (ch1, ch2, ch3, ch4 uint8) {
	a.mu.Lock()
	defer a.mu.Unlock()

	return a.ch[0].volume, a.ch[1].volume, a.ch[2].volume, a.ch[3].volume
}

// SamplesGenerated returns the number of stereo frames produced so far.
func (a *APU) SamplesGenerated() uint64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.samplesGenerated
}
