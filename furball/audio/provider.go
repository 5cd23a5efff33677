package audio

// Provider is what the audio output and the monitor need from a sound unit.
type Provider interface {
	// GetSamples retrieves count interleaved stereo samples for playback.
	GetSamples(count int) []int16

	// Audio debugging controls

	ToggleChannel(channel int)
	SoloChannel(channel int)
	UnmuteAll()
	GetChannelStatus() (ch1, ch2, ch3, ch4 bool)
}

var _ Provider = (*APU)(nil)
