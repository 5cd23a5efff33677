package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/urfave/cli"

	"github.com/valerio/go-furball/furball"
	"github.com/valerio/go-furball/furball/debug"
	"github.com/valerio/go-furball/furball/music"
)

var (
	white   = color.New(color.FgWhite).SprintfFunc()
	cyan    = color.New(color.FgCyan).SprintfFunc()
	magenta = color.New(color.FgMagenta).SprintfFunc()
	yellow  = color.New(color.FgYellow).SprintfFunc()
	green   = color.New(color.FgGreen).SprintfFunc()
)

func infoCommand() cli.Command {
	return cli.Command{
		Name:      "info",
		Usage:     "Describe a song file",
		ArgsUsage: "<song file>",
		Flags:     songFlags(furball.Loop),
		Action: func(c *cli.Context) error {
			song, _, _, err := loadSong(c)
			if err != nil {
				return err
			}
			printSong(c.App.Writer, song)
			return nil
		},
	}
}

func printSong(w io.Writer, m *music.Music) {
	fmt.Fprintf(w, "%s %s\n", white("Name:"), cyan("%s", m.Name))
	if m.Author != "" {
		fmt.Fprintf(w, "%s %s\n", white("Author:"), cyan("%s", m.Author))
	}
	fmt.Fprintf(w, "%s %v  %s %d/%d\n", white("Speeds:"), m.Speeds,
		white("Tempo:"), m.VirtualTempoNumerator, m.VirtualTempoDenominator)
	fmt.Fprintf(w, "%s %d x %d rows, %d patterns, %d bytes\n", white("Orders:"),
		m.OrderLength, m.PatternLength, m.UsedPatterns(), m.Size())

	if len(m.Instruments) > 0 {
		fmt.Fprintln(w, yellow("Instruments:"))
		for i, inst := range m.Instruments {
			fmt.Fprintf(w, "  %s %-16s %s\n", magenta("%02X", i), inst.Name, describeInstrument(inst))
		}
	}
	if len(m.Wavetables) > 0 {
		fmt.Fprintf(w, "%s %d\n", yellow("Wavetables:"), len(m.Wavetables))
	}

	// patterns are numbered in order of first use
	ids := make(map[*music.Pattern]int)
	fmt.Fprintln(w, yellow("Order list:"))
	for order := 0; order < m.OrderLength; order++ {
		cols := make([]string, music.Channels)
		for ch := 1; ch <= music.Channels; ch++ {
			p := m.Pattern(ch, order)
			if p == nil {
				cols[ch-1] = "--"
				continue
			}
			id, ok := ids[p]
			if !ok {
				id = len(ids)
				ids[p] = id
			}
			cols[ch-1] = green("%02X", id)
		}
		fmt.Fprintf(w, "  %s  %s\n", magenta("%02X", order), strings.Join(cols, " "))
	}
}

func describeInstrument(inst *music.Instrument) string {
	if inst.Kind != music.KindGB {
		return inst.Kind.String() + " (not played)"
	}
	gb := inst.Params()
	dir := "down"
	if gb.EnvelopeUp {
		dir = "up"
	}
	length := "inf"
	if gb.SoundLength < music.SoundLengthInfinity {
		length = fmt.Sprintf("%d", gb.SoundLength)
	}
	s := fmt.Sprintf("vol %2d env %d %-4s len %-3s", gb.InitialVolume, gb.EnvelopeLength, dir, length)
	if n := len(gb.HardwareSequence); n > 0 {
		s += fmt.Sprintf(" seq %d", n)
	}
	if n := len(inst.Macros); n > 0 {
		s += fmt.Sprintf(" macros %d", n)
	}
	return s
}

func notesCommand() cli.Command {
	return cli.Command{
		Name:  "notes",
		Usage: "Print the note, period and noise tables",
		Flags: []cli.Flag{
			cli.StringFlag{
				Name:  "from",
				Usage: "First note",
				Value: music.NoteNoiseLow.String(),
			},
			cli.StringFlag{
				Name:  "to",
				Usage: "Last note",
				Value: music.NoteHighest.String(),
			},
		},
		Action: func(c *cli.Context) error {
			from, err := music.ParseNote(c.String("from"))
			if err != nil {
				return err
			}
			to, err := music.ParseNote(c.String("to"))
			if err != nil {
				return err
			}
			if !from.IsPitch() || !to.IsPitch() || from > to {
				return fmt.Errorf("invalid note range %s..%s", from, to)
			}
			printNotes(c.App.Writer, from, to)
			return nil
		},
	}
}

func printNotes(w io.Writer, from, to music.Note) {
	fmt.Fprintln(w, yellow("NOTE MIDI PERIOD      FREQ NOISE"))
	for n := from; n <= to; n++ {
		period := furball.Period(n)
		fmt.Fprintf(w, "%s  %3d  %s %9.2f  %s\n",
			cyan("%-3s", n), int(n)-48, green("0x%03X", period),
			debug.ToneFrequency(period), magenta("0x%02X", furball.NoiseParams(n)))
	}
}
