package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/urfave/cli"

	"github.com/valerio/go-furball/furball"
	"github.com/valerio/go-furball/furball/audio"
	"github.com/valerio/go-furball/furball/music"
)

// logLevel is shared by the stderr handler and the monitor's log pane.
var logLevel = new(slog.LevelVar)

func main() {
	app := newApp()
	if err := app.Run(os.Args); err != nil {
		slog.Error("Error running furball", "error", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = "furball"
	app.Description = "A tracker playback engine for the GBA DMG sound channels"
	app.Usage = "furball [options] <command> <song file>"
	app.Version = "1.0.0"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:   "log-level",
			Usage:  "Log level: debug, info, warn or error",
			Value:  "info",
			EnvVar: "FURBALL_LOG_LEVEL",
		},
	}
	app.Before = func(c *cli.Context) error {
		return setupLogging(c.GlobalString("log-level"))
	}
	app.Commands = []cli.Command{
		playCommand(),
		renderCommand(),
		infoCommand(),
		notesCommand(),
	}
	return app
}

func setupLogging(level string) error {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return fmt.Errorf("invalid log level %q", level)
	}
	logLevel.Set(l)

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	})
	slog.SetDefault(slog.New(handler))
	return nil
}

// songFlags are shared by the commands that play a song.
func songFlags(defaultLoop furball.LoopSetting) []cli.Flag {
	return []cli.Flag{
		cli.StringFlag{
			Name:   "loop",
			Usage:  "What to do at the end of the song: loop, stop, force-loop or force-stop",
			Value:  defaultLoop.String(),
			EnvVar: "FURBALL_LOOP",
		},
		cli.StringFlag{
			Name:   "channels",
			Usage:  "Channels the engine drives: all, or a list such as 1,2,4",
			Value:  "all",
			EnvVar: "FURBALL_CHANNELS",
		},
		cli.IntFlag{
			Name:   "sample-rate",
			Usage:  "Output sample rate in Hz",
			Value:  audio.DefaultSampleRate,
			EnvVar: "FURBALL_SAMPLE_RATE",
		},
		cli.BoolFlag{
			Name:   "extended-effects",
			Usage:  "Honour the speed (09xx, 0Fxx) and panning (08xy) effects",
			EnvVar: "FURBALL_EXTENDED_EFFECTS",
		},
	}
}

// loadSong reads the song named by the first argument and the shared flags.
func loadSong(c *cli.Context) (*music.Music, furball.Settings, furball.LoopSetting, error) {
	var settings furball.Settings

	path := c.Args().First()
	if path == "" {
		cli.ShowCommandHelp(c, c.Command.Name)
		return nil, settings, 0, errors.New("no song file provided")
	}

	loop, err := furball.ParseLoopSetting(c.String("loop"))
	if err != nil {
		return nil, settings, 0, err
	}
	channels, err := furball.ParseChannels(c.String("channels"))
	if err != nil {
		return nil, settings, 0, err
	}
	settings.Channels = channels
	settings.ExtendedEffects = c.Bool("extended-effects")

	song, err := music.LoadFile(path)
	if err != nil {
		return nil, settings, 0, err
	}
	slog.Debug("Loaded song", "path", path, "name", song.Name, "orders", song.OrderLength,
		"instruments", len(song.Instruments), "bytes", song.Size())
	return song, settings, loop, nil
}
