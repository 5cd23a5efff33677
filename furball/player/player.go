// Package player runs songs on the emulated sound unit one frame at a time.
package player

import (
	"errors"
	"log/slog"
	"time"

	"github.com/valerio/go-furball/furball"
	"github.com/valerio/go-furball/furball/audio"
	"github.com/valerio/go-furball/furball/debug"
	"github.com/valerio/go-furball/furball/monitor"
	"github.com/valerio/go-furball/furball/music"
	"github.com/valerio/go-furball/furball/timing"
	"github.com/valerio/go-furball/furball/wav"
)

// ErrEndless is returned when rendering a looping song without a frame limit.
var ErrEndless = errors.New("looping song needs a frame limit")

// Player owns an engine driving an emulated sound unit.
type Player struct {
	engine *furball.Engine
	apu    *audio.APU
	log    *slog.Logger

	song   *music.Music
	loop   furball.LoopSetting
	frames int

	// rows played since Load, a row seen twice means the song jumped back
	seen   map[position]bool
	looped bool
}

type position struct{ order, row int }

// New creates a player and initializes its engine on apu.
func New(apu *audio.APU, settings *furball.Settings, logger *slog.Logger) (*Player, error) {
	if logger == nil {
		logger = slog.Default()
	}
	p := &Player{
		apu: apu,
		log: logger,
	}
	p.engine = furball.New(apu, furball.WithLogger(logger), furball.WithRowHook(p.rowPlayed))
	if err := p.engine.Init(settings); err != nil {
		return nil, err
	}
	return p, nil
}

// Load starts song from the beginning.
func (p *Player) Load(song *music.Music, loop furball.LoopSetting) {
	p.song = song
	p.loop = loop
	p.frames = 0
	p.seen = make(map[position]bool)
	p.looped = false
	p.engine.Play(song, loop)
	p.log.Info("Playing song", "name", song.Name, "orders", song.OrderLength, "loop", loop)
}

// RunFrame advances the engine by one tick and the sound unit by one frame.
// A paused or stopped song keeps the sound unit producing silence.
func (p *Player) RunFrame() {
	if p.engine.Status() == furball.Playing {
		p.frames++
	}
	p.engine.AdvanceTick()
	p.apu.Tick(timing.CyclesPerFrame)
}

func (p *Player) rowPlayed(order, row int) {
	pos := position{order, row}
	if p.seen[pos] {
		p.looped = true
	}
	p.seen[pos] = true
}

// Looped reports whether playback returned to a row it already played,
// either by wrapping around or through a jump effect.
func (p *Player) Looped() bool {
	return p.looped
}

// Done reports whether the song has stopped.
func (p *Player) Done() bool {
	return p.engine.Status() == furball.Stopped
}

// Frames returns the number of frames played since Load.
func (p *Player) Frames() int {
	return p.frames
}

// Elapsed returns the play time since Load, pauses excluded.
func (p *Player) Elapsed() time.Duration {
	return time.Duration(p.frames) * timing.FrameDuration()
}

// TogglePause pauses a playing song and resumes a paused one.
func (p *Player) TogglePause() {
	switch p.engine.Status() {
	case furball.Playing:
		p.engine.Pause()
		p.log.Info("Paused", "order", p.engine.Order(), "row", p.engine.Row())
	case furball.Paused:
		p.engine.Resume()
		p.log.Info("Resumed")
	}
}

// Restart plays the loaded song again from the beginning.
func (p *Player) Restart() {
	if p.song != nil {
		p.Load(p.song, p.loop)
	}
}

// HandleAction carries out a monitor action. Quit is left to the caller.
func (p *Player) HandleAction(act monitor.Action) {
	switch act {
	case monitor.ActionPause:
		p.TogglePause()
	case monitor.ActionRestart:
		p.Restart()
	case monitor.ActionUnmuteAll:
		p.apu.UnmuteAll()
		p.log.Info("Unmuted all channels")
	case monitor.ActionToggleChannel1, monitor.ActionToggleChannel2,
		monitor.ActionToggleChannel3, monitor.ActionToggleChannel4:
		p.apu.ToggleChannel(act.Channel())
		p.log.Info("Toggled channel", "channel", act.Channel(), "muted", p.apu.Muted()[act.Channel()-1])
	case monitor.ActionSoloChannel1, monitor.ActionSoloChannel2,
		monitor.ActionSoloChannel3, monitor.ActionSoloChannel4:
		p.apu.SoloChannel(act.Channel())
		p.log.Info("Solo channel", "channel", act.Channel())
	}
}

// View collects what the monitor shows.
func (p *Player) View() monitor.View {
	return monitor.View{
		Song:    p.song,
		State:   p.engine.Snapshot(),
		Loop:    p.loop,
		Audio:   debug.ExtractAudioData(p.apu, p.apu, p.apu.SampleRate()),
		Muted:   p.apu.Muted(),
		Elapsed: p.Elapsed(),
	}
}

// Render plays the loaded song into w until it stops or maxFrames frames
// were rendered. maxFrames <= 0 renders until the song stops, which requires
// a loop setting that stops. A song that jumps back to a row it already
// played would never stop, so without a limit the render ends there.
// It returns the number of frames rendered.
func (p *Player) Render(w *wav.Writer, maxFrames int) (int, error) {
	unlimited := maxFrames <= 0
	if unlimited && (p.loop == furball.Loop || p.loop == furball.ForceLoop) {
		return 0, ErrEndless
	}

	n := 0
	for !p.Done() && (unlimited || n < maxFrames) {
		p.RunFrame()
		if unlimited && p.looped {
			p.log.Info("Song loops, stopping render", "order", p.engine.Order(), "row", p.engine.Row())
			break
		}
		n++
		if err := w.Write(p.apu.GetSamples(p.apu.Buffered())); err != nil {
			return n, err
		}
	}
	return n, nil
}

// Close stops playback and releases the sound unit.
func (p *Player) Close() {
	p.engine.Shutdown()
}
