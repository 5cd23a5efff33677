// Package debug derives a human readable view of the sound unit from its
// registers, for the monitor.
package debug

import (
	"math"

	"github.com/valerio/go-furball/furball/addr"
	"github.com/valerio/go-furball/furball/bit"
	"github.com/valerio/go-furball/furball/music"
)

type ChannelStatus struct {
	Enabled   bool
	Frequency float64
	Volume    uint8
	DutyCycle uint8
	Note      string
}

type AudioData struct {
	APUEnabled   bool
	MasterVolume struct {
		Left  uint8
		Right uint8
	}
	PSGVolume  uint8 // percent
	Channels   [4]ChannelStatus
	SampleRate int
}

// RegisterReader reads a sound register group.
type RegisterReader interface {
	ReadRegister(address uint32) uint16
}

// VolumeProvider interface for getting actual channel volumes
type VolumeProvider interface {
	GetChannelVolumes() (ch1, ch2, ch3, ch4 uint8)
}

var psgPercent = [4]uint8{25, 50, 100, 0}

// ExtractAudioData reads the sound registers. When volumes is not nil the
// envelope volumes come from it instead of the initial volumes latched in
// the registers.
func ExtractAudioData(reader RegisterReader, volumes VolumeProvider, sampleRate int) *AudioData {
	data := &AudioData{SampleRate: sampleRate}

	stat := reader.ReadRegister(addr.SNDSTAT)
	data.APUEnabled = stat&addr.SndStatMasterEnable != 0

	dmg := reader.ReadRegister(addr.SNDDMGCNT)
	data.MasterVolume.Left = uint8(bit.Extract16(dmg, 6, 4))
	data.MasterVolume.Right = uint8(bit.Extract16(dmg, 2, 0))
	data.PSGVolume = psgPercent[reader.ReadRegister(addr.SNDDSCNT)&addr.DSPSGVolumeMask]

	for ch := 1; ch <= 4; ch++ {
		extractChannel(reader, ch, &data.Channels[ch-1])
		data.Channels[ch-1].Enabled = bit.IsSet16(uint16(ch-1), stat)
	}

	if volumes != nil {
		v1, v2, _, v4 := volumes.GetChannelVolumes()
		data.Channels[0].Volume = v1
		data.Channels[1].Volume = v2
		data.Channels[3].Volume = v4
	}

	return data
}

func extractChannel(reader RegisterReader, ch int, status *ChannelStatus) {
	cnt := reader.ReadRegister(addr.CNT(ch))
	freq := reader.ReadRegister(addr.FREQ(ch))

	switch ch {
	case 1, 2:
		status.Volume = uint8(cnt >> addr.CntVolumeShift)
		status.DutyCycle = uint8(bit.Extract16(cnt, 7, 6))
		status.Frequency = ToneFrequency(freq & addr.FreqPeriodMask)
		status.Note = FrequencyToNote(status.Frequency)
	case 3:
		switch bit.Extract16(cnt, 15, 13) {
		case 0:
			status.Volume = 0
		case 1:
			status.Volume = 15
		case 2:
			status.Volume = 7
		case 3:
			status.Volume = 3
		default:
			status.Volume = 11
		}
		status.Frequency = WaveFrequency(freq & addr.FreqPeriodMask)
		status.Note = FrequencyToNote(status.Frequency)
	case 4:
		status.Volume = uint8(cnt >> addr.CntVolumeShift)
		status.Frequency = NoiseFrequency(freq)
		status.Note = "noise"
	}
}

// ToneFrequency returns the pulse frequency of an 11-bit period.
func ToneFrequency(period uint16) float64 {
	return 131072.0 / float64(2048-uint32(period&addr.FreqPeriodMask))
}

// WaveFrequency returns the frequency of a 32-sample wave at an 11-bit
// period.
func WaveFrequency(period uint16) float64 {
	return 65536.0 / float64(2048-uint32(period&addr.FreqPeriodMask))
}

// NoiseFrequency returns the LFSR clock of a SND4FREQ value.
func NoiseFrequency(freq uint16) float64 {
	shift := bit.Extract16(freq, 7, 4)
	divisor := float64(freq & addr.Freq4DivRatioMask)
	if divisor == 0 {
		divisor = 0.5
	}
	return 524288.0 / divisor / float64(uint32(1)<<(shift+1))
}

// FrequencyToNote returns the tracker name of the nearest note, "---" outside
// the audible range.
func FrequencyToNote(freq float64) string {
	if freq < 20 || freq > 20000 {
		return "---"
	}
	// A-4 is MIDI note 69 and note value 117
	n := math.Round(69+12*math.Log2(freq/440)) + 48
	if n < float64(music.NoteLowest) || n > float64(music.NoteHighest) {
		return "---"
	}
	return music.Note(n).String()
}

// GenerateWaveformSamples fills channelData with an idealized pulse wave for
// display.
func GenerateWaveformSamples(channelData []float32, dutyCycle uint8, frequency float64, volume uint8, enabled bool, sampleRate int) {
	if !enabled || volume == 0 || frequency == 0 {
		for i := range channelData {
			channelData[i] = 0
		}
		return
	}

	dutyTable := []float64{0.125, 0.25, 0.5, 0.75}
	duty := dutyTable[dutyCycle&0x03]

	samplesPerPeriod := float64(sampleRate) / frequency
	normalizedVolume := float32(volume) / 15.0

	for i := range channelData {
		phase := float64(i) / samplesPerPeriod
		phase -= math.Floor(phase)

		if phase < duty {
			channelData[i] = normalizedVolume
		} else {
			channelData[i] = -normalizedVolume
		}
	}
}
