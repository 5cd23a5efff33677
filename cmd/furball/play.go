package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli"
	"golang.org/x/term"

	"github.com/valerio/go-furball/furball"
	"github.com/valerio/go-furball/furball/audio"
	"github.com/valerio/go-furball/furball/monitor"
	"github.com/valerio/go-furball/furball/output"
	"github.com/valerio/go-furball/furball/player"
	"github.com/valerio/go-furball/furball/timing"
)

const progressInterval = 5 * time.Second

func playCommand() cli.Command {
	return cli.Command{
		Name:      "play",
		Usage:     "Play a song on the audio device",
		ArgsUsage: "<song file>",
		Flags: append(songFlags(furball.Loop),
			cli.StringFlag{
				Name:  "limiter",
				Usage: "Frame limiter: adaptive, ticker or none",
				Value: "adaptive",
			},
			cli.BoolFlag{
				Name:  "no-monitor",
				Usage: "Log progress instead of showing the terminal monitor",
			},
			cli.Float64Flag{
				Name:  "seconds",
				Usage: "Stop after this many seconds (0 = until the song stops)",
			},
		),
		Action: runPlay,
	}
}

func runPlay(c *cli.Context) error {
	song, settings, loop, err := loadSong(c)
	if err != nil {
		return err
	}

	limiter, err := timing.New(c.String("limiter"))
	if err != nil {
		return err
	}
	if t, ok := limiter.(*timing.TickerLimiter); ok {
		defer t.Stop()
	}

	maxFrames := 0
	if secs := c.Float64("seconds"); secs > 0 {
		maxFrames = timing.FramesFor(time.Duration(secs * float64(time.Second)))
	}

	apu := audio.NewWithSampleRate(c.Int("sample-rate"))
	out, err := output.NewPlayer(apu, apu.SampleRate())
	if err != nil {
		return err
	}
	defer out.Close()

	var mon *monitor.Monitor
	if !c.Bool("no-monitor") && term.IsTerminal(int(os.Stdout.Fd())) {
		logs := monitor.NewLogBuffer(256)
		prev := slog.Default()
		slog.SetDefault(slog.New(monitor.NewLogBufferHandler(logs, logLevel)))
		defer slog.SetDefault(prev)

		mon = monitor.New(nil, logs, logLevel)
		if err := mon.Init(); err != nil {
			return err
		}
		defer mon.Cleanup()
	}

	p, err := player.New(apu, &settings, slog.Default())
	if err != nil {
		return err
	}
	defer p.Close()
	p.Load(song, loop)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// one frame of headroom so the device doesn't start dry
	p.RunFrame()
	out.Start()
	limiter.Reset()

	lastProgress := time.Now()
	for !p.Done() && (maxFrames <= 0 || p.Frames() < maxFrames) {
		limiter.WaitForNextFrame()
		p.RunFrame()

		if mon != nil {
			for _, act := range mon.Update(p.View()) {
				if act == monitor.ActionQuit {
					return nil
				}
				p.HandleAction(act)
			}
			continue
		}

		select {
		case <-ctx.Done():
			slog.Info("Received signal to stop")
			return nil
		default:
		}
		if time.Since(lastProgress) >= progressInterval {
			lastProgress = time.Now()
			state := p.View().State
			slog.Info("Playing", "order", state.Order, "row", state.Row, "elapsed", p.Elapsed().Round(time.Second))
		}
	}

	slog.Info("Playback finished", "frames", p.Frames(), "elapsed", p.Elapsed().Round(time.Millisecond))
	return nil
}
