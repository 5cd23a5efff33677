package device

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/valerio/go-furball/furball/addr"
)

func TestRecorderLog(t *testing.T) {
	r := NewRecorder()
	r.WriteRegister(addr.SND1CNT, 0xF200)
	r.WriteRegister(addr.SND1FREQ, 0x8000)
	r.WriteRegister(addr.SND1CNT, 0x0800)

	assert.Equal(t, 2, r.Count(addr.SND1CNT))
	assert.Equal(t, []uint16{0xF200, 0x0800}, r.WritesTo(addr.SND1CNT))
	v, ok := r.Value(addr.SND1CNT)
	assert.True(t, ok)
	assert.Equal(t, uint16(0x0800), v)
	assert.Equal(t, "SND1CNT=F200 SND1FREQ=8000 SND1CNT=0800", r.String())

	r.Clear()
	assert.Empty(t, r.Writes)
	v, ok = r.Value(addr.SND1CNT)
	assert.True(t, ok)
	assert.Equal(t, uint16(0x0800), v)

	_, ok = r.Value(addr.SND4CNT)
	assert.False(t, ok)
}

func TestRecorderWaveBanks(t *testing.T) {
	r := NewRecorder()
	a := [addr.WaveWords]uint32{1, 2, 3, 4}
	b := [addr.WaveWords]uint32{5, 6, 7, 8}

	// bank 1 plays while bank 0 is written
	r.WriteRegister(addr.SND3SEL, addr.Sel3Bank|addr.Sel3Enable)
	r.LoadWave(a)
	assert.Equal(t, a, r.PlayingWave())
	v, _ := r.Value(addr.SND3SEL)
	assert.Equal(t, addr.Sel3Enable, v)

	r.LoadWave(b)
	assert.Equal(t, b, r.PlayingWave())
	v, _ = r.Value(addr.SND3SEL)
	assert.Equal(t, addr.Sel3Bank|addr.Sel3Enable, v)

	assert.Equal(t, [][addr.WaveWords]uint32{a, b}, r.Waves)
}

func TestName(t *testing.T) {
	assert.Equal(t, "SNDDMGCNT", Name(addr.SNDDMGCNT))
	assert.Equal(t, "04000000", Name(0x04000000))
}
