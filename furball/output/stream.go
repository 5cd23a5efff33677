// Package output plays the sound unit on the host audio device.
package output

import (
	"encoding/binary"

	"github.com/valerio/go-furball/furball/audio"
)

// bytesPerFrame is one stereo frame of signed 16-bit little-endian samples.
const bytesPerFrame = 4

// stream adapts a sample provider to the io.Reader pulled by the audio
// backend.
type stream struct {
	src audio.Provider
}

// Read fills p with whole stereo frames. It never blocks: when the provider
// runs dry the rest is silence.
func (s *stream) Read(p []byte) (int, error) {
	frames := len(p) / bytesPerFrame
	samples := s.src.GetSamples(frames * 2)
	for i, v := range samples {
		binary.LittleEndian.PutUint16(p[2*i:], uint16(v))
	}
	return frames * bytesPerFrame, nil
}
