package furball

import "github.com/valerio/go-furball/furball/music"

// macroCursor tracks how far a channel is into its instrument's macros. It
// is advanced once per processed row and restarted on instrument change and
// note-on. Macro values are not applied to the channel yet.
type macroCursor struct {
	inst *music.Instrument
	step int
}

func (m *macroCursor) restart(inst *music.Instrument) {
	m.inst = inst
	m.step = 0
}

func (m *macroCursor) advance() {
	m.step++
}
