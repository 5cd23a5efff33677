package music

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	clone "github.com/huandu/go-clone/generic"
	"gopkg.in/yaml.v3"
)

// songFile is the on-disk song format.
type songFile struct {
	Name          string              `yaml:"name"`
	Author        string              `yaml:"author"`
	Speeds        []uint8             `yaml:"speeds"`
	VirtualTempo  *tempoFile          `yaml:"virtual_tempo"`
	PatternLength int                 `yaml:"pattern_length"`
	Instruments   []instrumentFile    `yaml:"instruments"`
	Wavetables    []wavetableFile     `yaml:"wavetables"`
	Patterns      map[string][]string `yaml:"patterns"`
	Orders        [][Channels]string  `yaml:"orders"`
}

type tempoFile struct {
	Numerator   uint16 `yaml:"numerator"`
	Denominator uint16 `yaml:"denominator"`
}

type instrumentFile struct {
	Name               string          `yaml:"name"`
	Kind               string          `yaml:"kind"`
	Volume             *uint8          `yaml:"volume"`
	EnvelopeLength     *uint8          `yaml:"envelope_length"`
	SoundLength        *uint8          `yaml:"sound_length"`
	EnvelopeUp         bool            `yaml:"envelope_up"`
	AlwaysInitEnvelope bool            `yaml:"always_init_envelope"`
	SoftwareEnvelope   bool            `yaml:"software_envelope"`
	Sequence           []hwCommandFile `yaml:"sequence"`
	Macros             []macroFile     `yaml:"macros"`
	WaveSynth          *WaveSynth      `yaml:"wave_synth"`
}

type hwCommandFile struct {
	Cmd         string `yaml:"cmd"`
	Volume      uint8  `yaml:"volume"`
	Length      uint16 `yaml:"length"`
	SoundLength uint8  `yaml:"sound_length"`
	Up          bool   `yaml:"up"`
	Shift       uint8  `yaml:"shift"`
	Speed       uint8  `yaml:"speed"`
	Down        bool   `yaml:"down"`
	Position    uint16 `yaml:"position"`
}

type macroFile struct {
	Kind    string  `yaml:"kind"`
	Mode    uint8   `yaml:"mode"`
	Loop    *uint8  `yaml:"loop"`
	Release *uint8  `yaml:"release"`
	Delay   uint8   `yaml:"delay"`
	Speed   uint8   `yaml:"speed"`
	Values  []int16 `yaml:"values"`
}

type wavetableFile struct {
	Width   uint16  `yaml:"width"`
	Height  uint16  `yaml:"height"`
	Invert  bool    `yaml:"invert"`
	Samples []uint8 `yaml:"samples"`
}

// LoadFile reads a YAML song file.
func LoadFile(path string) (*Music, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read song: %w", err)
	}
	m, err := Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	if m.Name == "" {
		m.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return m, nil
}

// Decode parses a YAML song and builds its binary patterns. Unknown keys are
// rejected.
func Decode(r io.Reader) (*Music, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var f songFile
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("empty song file")
		}
		return nil, fmt.Errorf("failed to parse song: %w", err)
	}
	return f.build()
}

func (f *songFile) build() (*Music, error) {
	m := &Music{
		Name:                    f.Name,
		Author:                  f.Author,
		Speeds:                  clone.Clone(f.Speeds),
		VirtualTempoNumerator:   1,
		VirtualTempoDenominator: 1,
		OrderLength:             len(f.Orders),
	}
	if f.VirtualTempo != nil {
		m.VirtualTempoNumerator = f.VirtualTempo.Numerator
		m.VirtualTempoDenominator = f.VirtualTempo.Denominator
	}
	if len(m.Speeds) == 0 {
		m.Speeds = []uint8{6}
	}

	if len(f.Instruments) > MaxInstruments {
		return nil, fmt.Errorf("%w: %d > %d", ErrTooManyInstruments, len(f.Instruments), MaxInstruments)
	}
	for i := range f.Instruments {
		inst, err := f.Instruments[i].build()
		if err != nil {
			return nil, fmt.Errorf("instrument %02X: %w", i, err)
		}
		if inst.Kind == KindSample {
			slog.Warn("sample instruments are not played", "instrument", i, "name", inst.Name)
		}
		m.Instruments = append(m.Instruments, inst)
	}

	if len(f.Wavetables) > MaxWavetables {
		return nil, fmt.Errorf("%w: %d > %d", ErrTooManyWavetables, len(f.Wavetables), MaxWavetables)
	}
	for i, wf := range f.Wavetables {
		if (wf.Width != 0 && wf.Width != WaveWidth) || (wf.Height != 0 && wf.Height != WaveHeight) {
			return nil, fmt.Errorf("wavetable %d: %w: %dx%d", i, ErrUnsupportedWavetable, wf.Width, wf.Height)
		}
		w, err := PackWave(wf.Samples, wf.Invert)
		if err != nil {
			return nil, fmt.Errorf("wavetable %d: %w", i, err)
		}
		m.Wavetables = append(m.Wavetables, w)
	}

	m.PatternLength = f.PatternLength
	if m.PatternLength == 0 {
		for _, rows := range f.Patterns {
			m.PatternLength = max(m.PatternLength, len(rows))
		}
	}

	patterns := make(map[string]*Pattern, len(f.Patterns))
	for name, text := range f.Patterns {
		if len(text) > m.PatternLength {
			return nil, fmt.Errorf("pattern %q: %w: %d rows > %d", name, ErrPatternLength, len(text), m.PatternLength)
		}
		rows := make([]Row, m.PatternLength)
		for i, line := range text {
			r, err := ParseRow(line)
			if err != nil {
				return nil, fmt.Errorf("pattern %q row %d: %w", name, i, err)
			}
			rows[i] = r
		}
		p, err := EncodeRows(rows)
		if err != nil {
			return nil, fmt.Errorf("pattern %q: %w", name, err)
		}
		patterns[name] = p
	}

	used := make(map[string]bool)
	for ch := range m.Orders {
		m.Orders[ch] = make([]*Pattern, m.OrderLength)
	}
	for order, names := range f.Orders {
		for ch, name := range names {
			if isEmptyCol(name) {
				continue
			}
			p, ok := patterns[name]
			if !ok {
				return nil, fmt.Errorf("order %d channel %d: %w: %q", order, ch+1, ErrUnknownPattern, name)
			}
			used[name] = true
			m.Orders[ch][order] = p
		}
	}
	for name := range patterns {
		if !used[name] {
			slog.Warn("ignored unused pattern", "pattern", name)
		}
	}

	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

func (f *instrumentFile) build() (*Instrument, error) {
	inst := &Instrument{Name: f.Name}
	switch strings.ToLower(f.Kind) {
	case "", "gb":
		inst.Kind = KindGB
	case "sample":
		inst.Kind = KindSample
		inst.Sample = &SampleInstrument{}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownInstrument, f.Kind)
	}

	if inst.Kind == KindGB {
		gb := clone.Clone(DefaultGB)
		if f.Volume != nil {
			gb.InitialVolume = min(*f.Volume, 15)
		}
		if f.EnvelopeLength != nil {
			gb.EnvelopeLength = min(*f.EnvelopeLength, 7)
		}
		if f.SoundLength != nil {
			gb.SoundLength = min(*f.SoundLength, SoundLengthInfinity)
		}
		gb.EnvelopeUp = f.EnvelopeUp
		gb.AlwaysInitEnvelope = f.AlwaysInitEnvelope
		gb.SoftwareEnvelope = f.SoftwareEnvelope
		for i, c := range f.Sequence {
			cmd, err := c.build()
			if err != nil {
				return nil, fmt.Errorf("sequence %d: %w", i, err)
			}
			gb.HardwareSequence = append(gb.HardwareSequence, cmd)
		}
		inst.GB = &gb
	}

	for i, mf := range f.Macros {
		kind, ok := ParseMacroKind(mf.Kind)
		if !ok {
			return nil, fmt.Errorf("macro %d: unknown kind %q", i, mf.Kind)
		}
		mac := Macro{
			Kind:       kind,
			Mode:       mf.Mode,
			LoopPos:    MacroNoPosition,
			ReleasePos: MacroNoPosition,
			Delay:      mf.Delay,
			Speed:      max(mf.Speed, 1),
			Values:     clone.Clone(mf.Values),
		}
		if mf.Loop != nil {
			mac.LoopPos = *mf.Loop
		}
		if mf.Release != nil {
			mac.ReleasePos = *mf.Release
		}
		inst.Macros = append(inst.Macros, mac)
	}
	if f.WaveSynth != nil {
		ws := clone.Clone(*f.WaveSynth)
		inst.WaveSynth = &ws
	}
	return inst, nil
}

func (c hwCommandFile) build() (HWCommand, error) {
	kind, ok := ParseHWCommandKind(c.Cmd)
	if !ok {
		return HWCommand{}, fmt.Errorf("unknown command %q", c.Cmd)
	}
	cmd := HWCommand{Kind: kind}
	switch kind {
	case HWEnvelope:
		cmd.Envelope = HWEnvelopeCmd{
			Volume:         min(c.Volume, 15),
			EnvelopeLength: uint8(min(c.Length, 7)),
			SoundLength:    min(c.SoundLength, SoundLengthInfinity),
			Up:             c.Up,
		}
	case HWSweep:
		cmd.Sweep = HWSweepCmd{Shift: c.Shift & 7, Speed: c.Speed & 7, Down: c.Down}
	case HWWait:
		cmd.Length = max(min(c.Length, 256), 1)
	case HWLoop, HWLoopUntilRelease:
		cmd.Position = c.Position
	}
	return cmd, nil
}
