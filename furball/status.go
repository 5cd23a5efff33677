package furball

import "github.com/valerio/go-furball/furball/music"

// PlayStatus is the transport state.
type PlayStatus uint8

const (
	Stopped PlayStatus = iota
	Playing
	Paused
)

func (s PlayStatus) String() string {
	switch s {
	case Stopped:
		return "stopped"
	case Playing:
		return "playing"
	case Paused:
		return "paused"
	default:
		return "unknown"
	}
}

// State is a read-only view of the engine for monitors and tests.
type State struct {
	Status     PlayStatus
	Order      int
	Row        int
	SpeedIndex int
	Speed      int
	Channels   [music.Channels]ChannelState
}

// ChannelState is the view of one channel.
type ChannelState struct {
	Enabled    bool
	NoteOn     bool
	Note       music.Note
	Instrument int // -1 for the default instrument
	Volume     uint8
	Duty       uint8
	Pan        uint8 // bit 0 right, bit 1 left
	Period     uint16
	ShortNoise bool
	MacroStep  int
}
