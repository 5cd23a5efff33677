package music

// SoundLengthInfinity is the GB sound length value that disables the
// hardware length counter.
const SoundLengthInfinity = 64

// InstrumentKind discriminates the payload of an Instrument.
type InstrumentKind uint8

const (
	KindGB InstrumentKind = iota
	KindSample
)

func (k InstrumentKind) String() string {
	switch k {
	case KindGB:
		return "gb"
	case KindSample:
		return "sample"
	default:
		return "unknown"
	}
}

// Instrument is shared by all channels of a song. Only the payload matching
// Kind is meaningful.
type Instrument struct {
	Name string
	Kind InstrumentKind

	GB     *GBInstrument
	Sample *SampleInstrument

	// Macros and WaveSynth are carried with the song but never evaluated
	// by the playback engine.
	Macros    []Macro
	WaveSynth *WaveSynth
}

// GBInstrument holds the static envelope parameters of a DMG instrument.
type GBInstrument struct {
	InitialVolume      uint8 // 0..15
	EnvelopeLength     uint8 // 0..7
	SoundLength        uint8 // 0..63, SoundLengthInfinity for none
	EnvelopeUp         bool
	AlwaysInitEnvelope bool
	SoftwareEnvelope   bool

	HardwareSequence []HWCommand
}

// DefaultGB is used by channels before any instrument is selected, and by
// instruments without a GB payload.
var DefaultGB = GBInstrument{
	InitialVolume:  15,
	EnvelopeLength: 2,
	SoundLength:    SoundLengthInfinity,
	EnvelopeUp:     false,
}

// DefaultInstrument is the instrument every channel starts with.
var DefaultInstrument = &Instrument{Name: "default", Kind: KindGB, GB: &DefaultGB}

// Params returns the GB parameters of the instrument, falling back to
// DefaultGB when the instrument has none.
func (i *Instrument) Params() GBInstrument {
	if i == nil || i.GB == nil {
		return DefaultGB
	}
	return *i.GB
}

// SampleInstrument is a placeholder for the DirectSound instrument kind.
type SampleInstrument struct{}

// HWCommandKind discriminates the payload of a HWCommand.
type HWCommandKind uint8

const (
	HWEnvelope HWCommandKind = iota
	HWSweep
	HWWait
	HWWaitForRelease
	HWLoop
	HWLoopUntilRelease
)

var hwCommandNames = [...]string{"envelope", "sweep", "wait", "wait-release", "loop", "loop-release"}

func (k HWCommandKind) String() string {
	if int(k) < len(hwCommandNames) {
		return hwCommandNames[k]
	}
	return "unknown"
}

// ParseHWCommandKind resolves a hardware sequence command by name.
func ParseHWCommandKind(name string) (HWCommandKind, bool) {
	for i, n := range hwCommandNames {
		if n == name {
			return HWCommandKind(i), true
		}
	}
	return 0, false
}

// HWCommand is one step of a GB hardware sequence.
type HWCommand struct {
	Kind HWCommandKind

	Envelope HWEnvelopeCmd // HWEnvelope
	Sweep    HWSweepCmd    // HWSweep
	Length   uint16        // HWWait: 1..256
	Position uint16        // HWLoop, HWLoopUntilRelease
}

type HWEnvelopeCmd struct {
	Volume         uint8
	EnvelopeLength uint8
	SoundLength    uint8
	Up             bool
}

type HWSweepCmd struct {
	Shift uint8
	Speed uint8
	Down  bool
}

// MacroKind selects the parameter a macro modulates.
type MacroKind uint8

const (
	MacroVolume MacroKind = iota
	MacroArpeggio
	MacroDuty
	MacroWave
	MacroPanLeft
	MacroPanRight
	MacroPitch
	MacroPhaseReset
)

var macroNames = [...]string{"vol", "arp", "duty", "wave", "pan-l", "pan-r", "pitch", "phase-reset"}

func (k MacroKind) String() string {
	if int(k) < len(macroNames) {
		return macroNames[k]
	}
	return "unknown"
}

// ParseMacroKind resolves a macro kind by name.
func ParseMacroKind(name string) (MacroKind, bool) {
	for i, n := range macroNames {
		if n == name {
			return MacroKind(i), true
		}
	}
	return 0, false
}

// MacroNoPosition marks an absent loop or release position.
const MacroNoPosition = 0xFF

// Macro is a per-tick value sequence.
type Macro struct {
	Kind       MacroKind
	Mode       uint8
	LoopPos    uint8
	ReleasePos uint8
	Delay      uint8
	Speed      uint8
	Values     []int16
}

// Len returns the number of steps of the macro.
func (m Macro) Len() int { return len(m.Values) }

// WaveSynth describes the wave channel synthesizer settings of an instrument.
type WaveSynth struct {
	Kind        uint8
	Global      bool
	Wave1       uint8
	Wave2       uint8
	RateDivider uint8
	Speed       uint8
	Amount      uint8
	Power       uint8
}
