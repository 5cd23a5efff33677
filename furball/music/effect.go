package music

// EffectKind identifies a pattern effect command.
type EffectKind uint8

// Effect kinds, using Furnace's effect codes.
const (
	EffectSetPanning          EffectKind = 0x08 // value: xy, x = left, y = right
	EffectSetSpeed1           EffectKind = 0x09
	EffectJumpToPattern       EffectKind = 0x0B // value: order
	EffectJumpToNextPattern   EffectKind = 0x0D // value: row
	EffectSetSpeed2           EffectKind = 0x0F
	EffectSetWaveform         EffectKind = 0x10
	EffectSetNoiseLength      EffectKind = 0x11 // 0: 15-bit LFSR, else 7-bit
	EffectSetDutyCycle        EffectKind = 0x12
	EffectSendExternalCommand EffectKind = 0xEE
	EffectStopSong            EffectKind = 0xFF
)

const effectEmpty = 0xAA

// MaxEffects is the largest number of effect slots a pattern row can carry.
const MaxEffects = 8

// Effect is one non-empty effect slot of a row.
type Effect struct {
	Kind  EffectKind
	Value uint8
}

var effectNames = map[EffectKind]string{
	EffectSetPanning:          "panning",
	EffectSetSpeed1:           "speed1",
	EffectJumpToPattern:       "jump",
	EffectJumpToNextPattern:   "next",
	EffectSetSpeed2:           "speed2",
	EffectSetWaveform:         "wave",
	EffectSetNoiseLength:      "noise",
	EffectSetDutyCycle:        "duty",
	EffectSendExternalCommand: "ext",
	EffectStopSong:            "stop",
}

func (k EffectKind) String() string {
	if name, ok := effectNames[k]; ok {
		return name
	}
	return "unknown"
}

// ParseEffectKind resolves an effect by its short name (as printed by
// String) and returns false for unknown names.
func ParseEffectKind(name string) (EffectKind, bool) {
	for k, n := range effectNames {
		if n == name {
			return k, true
		}
	}
	return 0, false
}
