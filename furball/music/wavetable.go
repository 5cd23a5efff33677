package music

import "fmt"

const (
	WaveWidth   = 32
	WaveHeight  = 16
	waveWords   = 4
	waveSamples = waveWords * 8
)

// Wavetable is a 32 sample, 4-bit waveform packed the way the sound unit's
// wave RAM expects it: two samples per byte, high nibble first, bytes in
// little-endian word order.
type Wavetable struct {
	Width  uint16
	Height uint16
	Data   [waveWords]uint32
}

// Sample returns the i-th 4-bit sample (0..31).
func (w *Wavetable) Sample(i int) uint8 {
	word := w.Data[(i/8)%waveWords]
	b := uint8(word >> (8 * ((i % 8) / 2)))
	if i&1 == 0 {
		return b >> 4
	}
	return b & 0x0F
}

// PackWave builds a Wavetable from 32 samples in 0..15. When invert is set
// every sample is stored as 15 - v, matching the sound unit's output
// polarity.
func PackWave(samples []uint8, invert bool) (Wavetable, error) {
	if len(samples) != waveSamples {
		return Wavetable{}, fmt.Errorf("%w: %d samples, want %d", ErrUnsupportedWavetable, len(samples), waveSamples)
	}

	w := Wavetable{Width: WaveWidth, Height: WaveHeight}
	for i, v := range samples {
		if v >= WaveHeight {
			return Wavetable{}, fmt.Errorf("%w: sample %d is %d", ErrUnsupportedWavetable, i, v)
		}
		if invert {
			v = 0xF - v
		}
		shift := 8*uint((i%8)/2) + 4*uint(1-i&1)
		w.Data[i/8] |= uint32(v) << shift
	}
	return w, nil
}
