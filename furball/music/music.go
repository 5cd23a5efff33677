package music

import "fmt"

// Channels is the number of DMG sound channels a song drives.
const Channels = 4

// Music is an immutable song. All four order lists share OrderLength and all
// patterns share PatternLength. A nil pattern in an order list leaves that
// channel silent for the order.
type Music struct {
	Name   string
	Author string

	Instruments []*Instrument
	Wavetables  []Wavetable

	OrderLength   int
	PatternLength int
	Orders        [Channels][]*Pattern

	Speeds                  []uint8
	VirtualTempoNumerator   uint16
	VirtualTempoDenominator uint16
}

// Pattern returns the pattern of channel ch (1..4) at order, or nil.
func (m *Music) Pattern(ch, order int) *Pattern {
	if ch < 1 || ch > Channels {
		return nil
	}
	list := m.Orders[ch-1]
	if order < 0 || order >= len(list) {
		return nil
	}
	return list[order]
}

// Instrument returns instrument i, or nil when out of range.
func (m *Music) Instrument(i int) *Instrument {
	if i < 0 || i >= len(m.Instruments) {
		return nil
	}
	return m.Instruments[i]
}

// Validate checks the structural limits of the song.
func (m *Music) Validate() error {
	if len(m.Instruments) > MaxInstruments {
		return fmt.Errorf("%w: %d > %d", ErrTooManyInstruments, len(m.Instruments), MaxInstruments)
	}
	if len(m.Wavetables) > MaxWavetables {
		return fmt.Errorf("%w: %d > %d", ErrTooManyWavetables, len(m.Wavetables), MaxWavetables)
	}
	for i, w := range m.Wavetables {
		if w.Width != WaveWidth || w.Height != WaveHeight {
			return fmt.Errorf("wavetable %d: %w: %dx%d", i, ErrUnsupportedWavetable, w.Width, w.Height)
		}
	}
	if m.OrderLength < 0 || m.OrderLength > MaxOrderLength {
		return fmt.Errorf("%w: %d", ErrOrderLength, m.OrderLength)
	}
	for ch, list := range m.Orders {
		if len(list) != m.OrderLength {
			return fmt.Errorf("channel %d: %w: %d != %d", ch+1, ErrOrderLength, len(list), m.OrderLength)
		}
	}
	if m.PatternLength <= 0 || m.PatternLength > MaxPatternRows {
		return fmt.Errorf("%w: %d", ErrPatternLength, m.PatternLength)
	}
	if len(m.Speeds) == 0 || len(m.Speeds) > MaxSpeeds {
		return fmt.Errorf("%w: %d entries", ErrInvalidSpeeds, len(m.Speeds))
	}
	for i, s := range m.Speeds {
		if s == 0 {
			return fmt.Errorf("%w: entry %d is zero", ErrInvalidSpeeds, i)
		}
	}
	if m.VirtualTempoNumerator == 0 || m.VirtualTempoDenominator == 0 {
		return fmt.Errorf("%w: %d/%d", ErrInvalidTempo, m.VirtualTempoNumerator, m.VirtualTempoDenominator)
	}
	return nil
}

// UsedPatterns returns the distinct patterns referenced by all order lists.
func (m *Music) UsedPatterns() int {
	seen := make(map[*Pattern]struct{})
	for _, list := range m.Orders {
		for _, p := range list {
			if p != nil {
				seen[p] = struct{}{}
			}
		}
	}
	return len(seen)
}

// Size returns the number of bytes the song's pattern data occupies.
func (m *Music) Size() int {
	seen := make(map[*Pattern]struct{})
	total := 0
	for _, list := range m.Orders {
		for _, p := range list {
			if p == nil {
				continue
			}
			if _, ok := seen[p]; ok {
				continue
			}
			seen[p] = struct{}{}
			total += len(p.Data)
		}
	}
	return total + len(m.Wavetables)*waveWords*4
}
