package audio

// Timing constants. The GBA clocks its DMG channels from the same 4 MiHz
// time base as the original hardware.
// Reference: https://gbdev.io/pandocs/Audio_details.html
const (
	// CPUFrequency is the rate of the cycle counts passed to Tick.
	CPUFrequency = 4194304

	// frameSequencerCycles is the number of cycles per frame sequencer step:
	// 4194304 Hz / 512 Hz = 8192.
	frameSequencerCycles = 8192

	// DefaultSampleRate is the output rate used by New.
	DefaultSampleRate = 44100
)

// Sample buffer sizing, in int16 values (two per stereo frame).
const (
	initialBufferCapacity = 8192
	maxBufferSize         = DefaultSampleRate * 2
	bufferRetainSize      = DefaultSampleRate
)

// Mixing constants. Four channels at volume 15 with master volume 7 and the
// PSG ratio at 100% land just below the int16 range.
const (
	sampleAmplitude = 512
	maxSampleValue  = 32767
	minSampleValue  = -32768
)

// Channel constants.
const (
	lengthMaxTone = 64  // ch1, ch2, ch4
	lengthMaxWave = 256 // ch3

	waveSamples = 32 // samples in one wave RAM bank

	lfsrInitialValue = 0x7FFF

	// maxLFSRClocksPerSample caps the noise work per output sample, higher
	// LFSR rates alias anyway.
	maxLFSRClocksPerSample = 64

	// noiseMaxShift is the first clock shift at which the LFSR stops.
	noiseMaxShift = 14
)

// dutyPatterns holds the 8-step waveforms of the four pulse duties.
var dutyPatterns = [4]uint8{
	0b00000001, // 12.5%
	0b10000001, // 25%
	0b10000111, // 50%
	0b01111110, // 75%
}

// waveLevels maps the SND3CNT output level code (bits 13-15) to a gain in
// quarters.
var waveLevels = [8]int32{0, 4, 2, 1, 3, 3, 3, 3}

// psgShift maps the SNDDSCNT PSG ratio (25%, 50%, 100%, prohibited) to a
// right shift.
var psgShift = [4]uint{2, 1, 0, 0}
