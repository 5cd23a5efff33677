//go:build headless

package output

import (
	"io"

	"github.com/valerio/go-furball/furball/audio"
)

// Player drains the sound unit without an audio device, for builds and CI
// machines without one.
type Player struct {
	src     io.Reader
	started bool
}

func NewPlayer(src audio.Provider, sampleRate int) (*Player, error) {
	return &Player{src: &stream{src: src}}, nil
}

func (p *Player) Start() {
	p.started = true
}

func (p *Player) Close() error {
	p.started = false
	return nil
}

func (p *Player) IsStarted() bool {
	return p.started
}
