package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/urfave/cli"

	"github.com/valerio/go-furball/furball"
	"github.com/valerio/go-furball/furball/audio"
	"github.com/valerio/go-furball/furball/player"
	"github.com/valerio/go-furball/furball/timing"
	"github.com/valerio/go-furball/furball/wav"
)

func renderCommand() cli.Command {
	return cli.Command{
		Name:      "render",
		Usage:     "Render a song to a WAV file",
		ArgsUsage: "<song file>",
		Flags: append(songFlags(furball.Stop),
			cli.StringFlag{
				Name:  "out, o",
				Usage: "Output WAV file (default: <song name>.wav)",
			},
			cli.Float64Flag{
				Name:  "seconds",
				Usage: "Length limit in seconds, required for looping songs",
			},
			cli.IntFlag{
				Name:  "frames",
				Usage: "Length limit in frames, overridden by --seconds",
			},
		),
		Action: runRender,
	}
}

func runRender(c *cli.Context) error {
	song, settings, loop, err := loadSong(c)
	if err != nil {
		return err
	}

	frames := c.Int("frames")
	if secs := c.Float64("seconds"); secs > 0 {
		frames = timing.FramesFor(time.Duration(secs * float64(time.Second)))
	}

	outPath := c.String("out")
	if outPath == "" {
		outPath = song.Name + ".wav"
	}

	apu := audio.NewWithSampleRate(c.Int("sample-rate"))
	p, err := player.New(apu, &settings, slog.Default())
	if err != nil {
		return err
	}
	defer p.Close()
	p.Load(song, loop)

	f, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("failed to create output: %w", err)
	}
	defer f.Close()

	w, err := wav.NewWriter(f, apu.SampleRate())
	if err != nil {
		return err
	}
	n, err := p.Render(w, frames)
	if err != nil {
		return err
	}
	size, err := w.Finish()
	if err != nil {
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	slog.Info("Rendered song", "out", outPath, "frames", n, "samples", w.Frames(),
		"duration", p.Elapsed().Round(time.Millisecond), "bytes", size)
	return nil
}
