package furball

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrNoChannels is returned by Init when no channel is selected.
var ErrNoChannels = errors.New("no channels selected")

// Channels is a set of sound channels managed by the engine.
type Channels uint8

const (
	ChannelsNone Channels = 0
	Channel1     Channels = 1 << 0 // pulse with sweep
	Channel2     Channels = 1 << 1 // pulse
	Channel3     Channels = 1 << 2 // wave
	Channel4     Channels = 1 << 3 // noise

	ChannelsDMG = Channel1 | Channel2 | Channel3 | Channel4
	ChannelsAll = ChannelsDMG
)

// Has reports whether channel ch (1..4) is in the set.
func (c Channels) Has(ch int) bool {
	return ch >= 1 && ch <= 4 && c&(1<<(ch-1)) != 0
}

func (c Channels) String() string {
	if c&ChannelsDMG == ChannelsNone {
		return "none"
	}
	var parts []string
	for ch := 1; ch <= 4; ch++ {
		if c.Has(ch) {
			parts = append(parts, strconv.Itoa(ch))
		}
	}
	return strings.Join(parts, ",")
}

// ParseChannels parses a channel selection: "all", "none", or a comma
// separated list of channel numbers such as "1,2,4".
func ParseChannels(s string) (Channels, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all", "dmg":
		return ChannelsAll, nil
	case "none":
		return ChannelsNone, nil
	}

	var c Channels
	for _, part := range strings.Split(s, ",") {
		ch, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || ch < 1 || ch > 4 {
			return ChannelsNone, fmt.Errorf("invalid channel %q", part)
		}
		c |= 1 << (ch - 1)
	}
	return c, nil
}

// Settings configures Init.
type Settings struct {
	Channels Channels

	// ExtendedEffects enables the speed (09xx, 0Fxx) and panning (08xy)
	// effects. When false they are ignored like any unknown effect.
	ExtendedEffects bool
}

// DefaultSettings manages every DMG channel.
func DefaultSettings() Settings {
	return Settings{Channels: ChannelsAll}
}

// LoopSetting decides what happens at the end of the order list.
type LoopSetting uint8

const (
	// Loop restarts from the first order.
	Loop LoopSetting = iota
	// Stop ends playback.
	Stop
	// ForceLoop and ForceStop are meant to override the song's own loop and
	// stop effects; they currently behave like Loop and Stop.
	ForceLoop
	ForceStop
)

var loopNames = [...]string{"loop", "stop", "force-loop", "force-stop"}

func (l LoopSetting) String() string {
	if int(l) < len(loopNames) {
		return loopNames[l]
	}
	return "unknown"
}

func (l LoopSetting) loops() bool {
	return l == Loop || l == ForceLoop
}

// ParseLoopSetting parses one of loop, stop, force-loop, force-stop.
func ParseLoopSetting(s string) (LoopSetting, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range loopNames {
		if s == name {
			return LoopSetting(i), nil
		}
	}
	return Loop, fmt.Errorf("invalid loop setting %q", s)
}
