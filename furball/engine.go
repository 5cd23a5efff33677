package furball

import (
	"log/slog"

	"github.com/valerio/go-furball/furball/addr"
	"github.com/valerio/go-furball/furball/music"
)

// Engine plays songs on the DMG sound channels of a Device. It is not safe
// for concurrent use: the host calls AdvanceTick once per frame and must not
// call any other method while a tick is running.
type Engine struct {
	dev     Device
	log     *slog.Logger
	rowHook func(order, row int)

	initialized bool
	settings    Settings

	t  transport
	ch [music.Channels]channel

	// shadows of the registers the engine composes bit by bit, the device
	// is never read back
	dmgcnt uint16
	dscnt  uint16
	cnt    [music.Channels]uint16
}

type Option func(*Engine)

// WithLogger sets the logger used for lifecycle events.
func WithLogger(l *slog.Logger) Option { return func(e *Engine) { e.log = l } }

// WithRowHook calls fn after every processed row with its position.
func WithRowHook(fn func(order, row int)) Option { return func(e *Engine) { e.rowHook = fn } }

// New creates an engine driving dev. Init must be called before playing.
func New(dev Device, opts ...Option) *Engine {
	e := &Engine{
		dev: dev,
		log: slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.log = e.log.With("component", "furball")
	for i := range e.ch {
		e.ch[i] = newChannel()
	}
	return e
}

// Init takes ownership of the sound registers of the selected channels.
// A nil settings selects every channel. Calling Init again stops playback
// and applies the new settings.
func (e *Engine) Init(settings *Settings) error {
	if e.initialized {
		e.Stop()
	}

	s := DefaultSettings()
	if settings != nil {
		s = *settings
	}
	if s.Channels&ChannelsDMG == ChannelsNone {
		return ErrNoChannels
	}
	e.settings = s

	e.write(addr.SNDSTAT, addr.SndStatMasterEnable)
	e.dscnt = addr.DSPSGVolume100 | (e.dscnt &^ addr.DSPSGVolumeMask)
	e.write(addr.SNDDSCNT, e.dscnt)

	e.initialized = true
	e.log.Debug("initialized", "channels", s.Channels)
	return nil
}

// Shutdown stops playback and releases the sound registers.
func (e *Engine) Shutdown() {
	if !e.initialized {
		return
	}
	e.Stop()
	e.initialized = false
	e.log.Debug("shut down")
}

// Initialized reports whether Init succeeded and Shutdown wasn't called.
func (e *Engine) Initialized() bool {
	return e.initialized
}

// Play starts song from its first row, stopping whatever was playing.
func (e *Engine) Play(song *music.Music, loop LoopSetting) {
	if !e.initialized || song == nil {
		return
	}
	e.Stop()

	if e.settings.Channels.Has(3) {
		// keep the wave channel out of the mix while its DAC comes up
		e.dmgcnt &^= addr.DMGEnableLeft(3) | addr.DMGEnableRight(3)
		e.write(addr.SNDDMGCNT, e.dmgcnt)

		e.write(addr.SND3SEL, addr.Sel3Bank|addr.Sel3Size32|addr.Sel3Enable)
		if len(song.Wavetables) > 0 {
			e.dev.LoadWave(song.Wavetables[0].Data)
		}
	}

	mask := uint16(e.settings.Channels & ChannelsDMG)
	e.dmgcnt |= mask<<addr.DMGLeftEnableShift | mask<<addr.DMGRightEnableShift |
		addr.DMGVolLeft(7) | addr.DMGVolRight(7)
	e.write(addr.SNDDMGCNT, e.dmgcnt)

	for i := range e.ch {
		e.ch[i] = newChannel()
	}
	e.t = newTransport(song, loop)

	e.log.Debug("playing", "song", song.Name, "loop", loop,
		"orders", song.OrderLength, "rows", song.PatternLength, "speeds", e.t.speeds)
}

// Pause silences the managed channels and freezes the position.
func (e *Engine) Pause() {
	if !e.initialized || e.t.status != Playing {
		return
	}
	e.t.status = Paused
	e.silence()
	e.log.Debug("paused", "order", e.t.order, "row", e.t.row)
}

// Resume continues a paused song, restarting the notes that were sounding.
func (e *Engine) Resume() {
	if !e.initialized || e.t.status != Paused {
		return
	}
	e.t.status = Playing
	for ch := 1; ch <= music.Channels; ch++ {
		c := &e.ch[ch-1]
		if e.settings.Channels.Has(ch) && c.noteOn {
			c.envelopeInitialized = true
			c.retrigger = true
		}
	}
	e.translateAll()
	e.log.Debug("resumed", "order", e.t.order, "row", e.t.row)
}

// Stop ends playback and silences the managed channels. Stopping a stopped
// engine does nothing.
func (e *Engine) Stop() {
	if !e.initialized || e.t.status == Stopped {
		return
	}
	e.t.status = Stopped
	e.silence()
	e.log.Debug("stopped")
}

// silence mutes the managed channels by setting a zero volume, increasing
// envelope and restarting them, which keeps the DACs on and avoids pops.
func (e *Engine) silence() {
	for ch := 1; ch <= music.Channels; ch++ {
		if !e.settings.Channels.Has(ch) {
			continue
		}
		if ch == 3 {
			e.writeCNT(ch, (e.cnt[ch-1]&0x00FF)|addr.Cnt3Volume0)
		} else {
			e.writeCNT(ch, (e.cnt[ch-1]&0x00FF)|addr.CntVolume(0)|addr.CntEnvDirInc|addr.CntStepTime(0))
		}
		e.write(addr.FREQ(ch), addr.FreqRestart)
	}
}

// Status returns the play status.
func (e *Engine) Status() PlayStatus {
	return e.t.status
}

func (e *Engine) active() bool {
	return e.initialized && e.t.status != Stopped
}

// Order returns the current order, or -1 when stopped.
func (e *Engine) Order() int {
	if !e.active() {
		return -1
	}
	return e.t.order
}

// Row returns the current row, or -1 when stopped.
func (e *Engine) Row() int {
	if !e.active() {
		return -1
	}
	return e.t.row
}

// Music returns the song being played, or nil when stopped.
func (e *Engine) Music() *music.Music {
	if !e.active() {
		return nil
	}
	return e.t.song
}

// Snapshot returns a view of the transport and channel state.
func (e *Engine) Snapshot() State {
	s := State{
		Status:     e.t.status,
		Order:      e.Order(),
		Row:        e.Row(),
		SpeedIndex: e.t.speedIndex,
	}
	if e.t.speedIndex < len(e.t.speeds) {
		s.Speed = int(e.t.speeds[e.t.speedIndex])
	}
	for i := range e.ch {
		s.Channels[i] = e.ch[i].state(e.settings.Channels.Has(i + 1))
	}
	return s
}

func (e *Engine) write(address uint32, value uint16) {
	e.dev.WriteRegister(address, value)
}

func (e *Engine) writeCNT(ch int, value uint16) {
	e.cnt[ch-1] = value
	e.dev.WriteRegister(addr.CNT(ch), value)
}
