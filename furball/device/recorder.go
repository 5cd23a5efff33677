// Package device contains sound device implementations that don't produce
// audio.
package device

import (
	"fmt"
	"strings"

	"github.com/valerio/go-furball/furball/addr"
)

// Write is a single register write.
type Write struct {
	Address uint32
	Value   uint16
}

func (w Write) String() string {
	return fmt.Sprintf("%s=%04X", Name(w.Address), w.Value)
}

// Recorder is a sound device that keeps a log of every write and the last
// value of every register. It models the wave RAM banks so that tests can
// check which wavetable is audible.
type Recorder struct {
	Writes []Write
	Waves  [][addr.WaveWords]uint32

	regs  map[uint32]uint16
	banks [2][addr.WaveWords]uint32
}

// NewRecorder returns an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{regs: make(map[uint32]uint16)}
}

// WriteRegister implements the sound device port.
func (r *Recorder) WriteRegister(address uint32, value uint16) {
	if r.regs == nil {
		r.regs = make(map[uint32]uint16)
	}
	r.Writes = append(r.Writes, Write{Address: address, Value: value})
	r.regs[address] = value
}

// LoadWave writes the bank that is not playing, then flips the bank select
// bit of SND3SEL so that the new data becomes audible.
func (r *Recorder) LoadWave(data [addr.WaveWords]uint32) {
	sel := r.regs[addr.SND3SEL]
	r.banks[1-r.playingBank(sel)] = data
	r.Waves = append(r.Waves, data)
	r.WriteRegister(addr.SND3SEL, sel^addr.Sel3Bank)
}

func (r *Recorder) playingBank(sel uint16) int {
	if sel&addr.Sel3Bank != 0 {
		return 1
	}
	return 0
}

// PlayingWave returns the wave data of the bank selected for playback.
func (r *Recorder) PlayingWave() [addr.WaveWords]uint32 {
	return r.banks[r.playingBank(r.regs[addr.SND3SEL])]
}

// Value returns the last value written to a register.
func (r *Recorder) Value(address uint32) (uint16, bool) {
	v, ok := r.regs[address]
	return v, ok
}

// Count returns the number of logged writes to a register.
func (r *Recorder) Count(address uint32) int {
	n := 0
	for _, w := range r.Writes {
		if w.Address == address {
			n++
		}
	}
	return n
}

// WritesTo returns the logged values written to a register, oldest first.
func (r *Recorder) WritesTo(address uint32) []uint16 {
	var values []uint16
	for _, w := range r.Writes {
		if w.Address == address {
			values = append(values, w.Value)
		}
	}
	return values
}

// Clear drops the write log but keeps the register values.
func (r *Recorder) Clear() {
	r.Writes = nil
	r.Waves = nil
}

func (r *Recorder) String() string {
	parts := make([]string, len(r.Writes))
	for i, w := range r.Writes {
		parts[i] = w.String()
	}
	return strings.Join(parts, " ")
}

var names = map[uint32]string{
	addr.SND1SWEEP: "SND1SWEEP",
	addr.SND1CNT:   "SND1CNT",
	addr.SND1FREQ:  "SND1FREQ",
	addr.SND2CNT:   "SND2CNT",
	addr.SND2FREQ:  "SND2FREQ",
	addr.SND3SEL:   "SND3SEL",
	addr.SND3CNT:   "SND3CNT",
	addr.SND3FREQ:  "SND3FREQ",
	addr.SND4CNT:   "SND4CNT",
	addr.SND4FREQ:  "SND4FREQ",
	addr.SNDDMGCNT: "SNDDMGCNT",
	addr.SNDDSCNT:  "SNDDSCNT",
	addr.SNDSTAT:   "SNDSTAT",
	addr.SNDBIAS:   "SNDBIAS",
}

// Name returns the register name of a sound register address.
func Name(address uint32) string {
	if n, ok := names[address]; ok {
		return n
	}
	return fmt.Sprintf("%08X", address)
}
