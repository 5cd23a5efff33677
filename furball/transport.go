package furball

import (
	clone "github.com/huandu/go-clone/generic"

	"github.com/valerio/go-furball/furball/music"
)

var fallbackSpeeds = []uint8{6}

type jumpKind uint8

const (
	jumpNone jumpKind = iota
	jumpOrder
	jumpStop
)

// pendingJump is a position change requested by an effect, applied at the
// next row boundary. A pending stop is never replaced by a jump.
type pendingJump struct {
	kind   jumpKind
	order  int
	row    int
	hasRow bool
}

func (j *pendingJump) jumpTo(order int) {
	if j.kind == jumpStop {
		return
	}
	j.kind = jumpOrder
	j.order = order
	if !j.hasRow {
		j.row, j.hasRow = 0, true
	}
}

func (j *pendingJump) jumpToRow(nextOrder, row int) {
	if j.kind == jumpStop {
		return
	}
	if j.kind == jumpNone {
		j.kind = jumpOrder
		j.order = nextOrder
	}
	j.row, j.hasRow = row, true
}

func (j *pendingJump) stop() {
	j.kind = jumpStop
}

func (j *pendingJump) clear() {
	*j = pendingJump{}
}

// transport is the playback position and timing of the current song.
type transport struct {
	song   *music.Music
	status PlayStatus
	loop   LoopSetting

	// speeds is a private copy, speed effects rewrite it
	speeds       []uint8
	speedIndex   int
	speedCounter int

	order int
	row   int
	jump  pendingJump

	tempoNum int
	tempoDen int
	tempoAcc int
}

func newTransport(song *music.Music, loop LoopSetting) transport {
	speeds := clone.Clone(song.Speeds)
	if len(speeds) == 0 {
		speeds = clone.Clone(fallbackSpeeds)
	}
	for i, s := range speeds {
		if s == 0 {
			speeds[i] = 1
		}
	}

	num, den := int(song.VirtualTempoNumerator), int(song.VirtualTempoDenominator)
	if num == 0 || den == 0 {
		num, den = 1, 1
	}

	return transport{
		song:         song,
		status:       Playing,
		loop:         loop,
		speeds:       speeds,
		speedCounter: int(speeds[0]) - 1,
		order:        0,
		row:          -1,
		tempoNum:     num,
		tempoDen:     den,
		tempoAcc:     den - num,
	}
}

// setSpeed rewrites one slot of the speed table, wrapping the slot index.
// Zero speeds are ignored.
func (t *transport) setSpeed(slot int, value uint8) {
	if value == 0 || len(t.speeds) == 0 {
		return
	}
	t.speeds[slot%len(t.speeds)] = value
}

// nextOrder is the order after the current one, wrapped to the order list.
func (t *transport) nextOrder() int {
	if t.song.OrderLength == 0 {
		return 0
	}
	return (t.order + 1) % t.song.OrderLength
}

// AdvanceTick moves playback forward by one frame. It must be called at a
// fixed rate, once per frame, and only while no other engine method runs.
func (e *Engine) AdvanceTick() {
	if !e.initialized || e.t.status != Playing {
		return
	}

	t := &e.t
	t.tempoAcc += t.tempoNum
	for t.tempoAcc >= t.tempoDen {
		t.tempoAcc -= t.tempoDen

		t.speedCounter++
		if t.speedCounter < int(t.speeds[t.speedIndex]) {
			continue
		}
		t.speedIndex = (t.speedIndex + 1) % len(t.speeds)
		t.speedCounter = 0

		if !e.advanceRow() {
			return
		}
	}
}

// advanceRow moves to the next row and processes it. It returns false when
// playback stopped instead.
func (e *Engine) advanceRow() bool {
	t := &e.t

	switch t.jump.kind {
	case jumpStop:
		e.log.Debug("stop effect reached", "order", t.order, "row", t.row)
		e.Stop()
		return false
	case jumpOrder:
		t.order = t.jump.order
		t.row = t.jump.row - 1
		t.jump.clear()
	}

	t.row++
	if t.row >= t.song.PatternLength {
		t.row = 0
		t.order++
	}
	if t.order >= t.song.OrderLength {
		if !t.loop.loops() {
			e.log.Debug("end of song", "loop", t.loop)
			e.Stop()
			return false
		}
		e.log.Debug("looping song", "song", t.song.Name)
		t.order = 0
	}

	e.processRow()
	if e.rowHook != nil {
		e.rowHook(t.order, t.row)
	}
	return true
}
