package addr

// IO is the base of the memory-mapped I/O register block.
const IO uint32 = 0x04000000

// Sound registers. Each one is a 16-bit register group combining two of the
// original 8-bit NRxx registers.
// Reference: https://problemkaputt.de/gbatek.htm#gbasoundcontroller
const (
	// Channel 1 - Square wave with sweep
	SND1SWEEP uint32 = IO + 0x60 // NR10: sweep
	SND1CNT   uint32 = IO + 0x62 // NR11, NR12: length, duty & envelope
	SND1FREQ  uint32 = IO + 0x64 // NR13, NR14: period, length enable & restart

	// Channel 2 - Square wave
	SND2CNT  uint32 = IO + 0x68 // NR21, NR22: length, duty & envelope
	SND2FREQ uint32 = IO + 0x6C // NR23, NR24: period, length enable & restart

	// Channel 3 - Custom wave
	SND3SEL  uint32 = IO + 0x70 // NR30: DAC enable, wave RAM bank & size
	SND3CNT  uint32 = IO + 0x72 // NR31, NR32: length & output level
	SND3FREQ uint32 = IO + 0x74 // NR33, NR34: sample rate, length enable & restart

	// Channel 4 - Noise
	SND4CNT  uint32 = IO + 0x78 // NR41, NR42: length & envelope
	SND4FREQ uint32 = IO + 0x7C // NR43, NR44: noise parameters, length enable & restart

	// Global sound control
	SNDDMGCNT uint32 = IO + 0x80 // NR50, NR51: master volume & channel panning
	SNDDSCNT  uint32 = IO + 0x82 // DirectSound control & PSG output ratio
	SNDSTAT   uint32 = IO + 0x84 // NR52: master enable & channel status
	SNDBIAS   uint32 = IO + 0x88 // sound bias & amplitude resolution

	// Wave pattern RAM (4 words, 32 samples of 4 bits), banked
	WaveRAMStart uint32 = IO + 0x90
	WaveRAMEnd   uint32 = IO + 0x9F
)

// WaveWords is the number of 32-bit words in one wave RAM bank.
const WaveWords = 4

// CNT returns the length/duty/envelope register of a channel (1..4).
func CNT(ch int) uint32 {
	switch ch {
	case 1:
		return SND1CNT
	case 2:
		return SND2CNT
	case 3:
		return SND3CNT
	default:
		return SND4CNT
	}
}

// FREQ returns the frequency/control register of a channel (1..4).
func FREQ(ch int) uint32 {
	switch ch {
	case 1:
		return SND1FREQ
	case 2:
		return SND2FREQ
	case 3:
		return SND3FREQ
	default:
		return SND4FREQ
	}
}
