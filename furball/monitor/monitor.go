// Package monitor draws the playback state on the terminal and turns key
// presses into player actions.
package monitor

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/valerio/go-furball/furball"
	"github.com/valerio/go-furball/furball/debug"
	"github.com/valerio/go-furball/furball/music"
)

const (
	minTermWidth  = 80
	minTermHeight = 24

	headerHeight  = 9
	logHeight     = 6
	channelColumn = 18
)

// Action is a request from the user, carried out by the player loop.
type Action uint8

const (
	ActionQuit Action = iota + 1
	ActionPause
	ActionRestart
	ActionToggleChannel1
	ActionToggleChannel2
	ActionToggleChannel3
	ActionToggleChannel4
	ActionSoloChannel1
	ActionSoloChannel2
	ActionSoloChannel3
	ActionSoloChannel4
	ActionUnmuteAll
)

// Channel returns the channel (1..4) a toggle or solo action refers to, or 0.
func (a Action) Channel() int {
	switch {
	case a >= ActionToggleChannel1 && a <= ActionToggleChannel4:
		return int(a-ActionToggleChannel1) + 1
	case a >= ActionSoloChannel1 && a <= ActionSoloChannel4:
		return int(a-ActionSoloChannel1) + 1
	default:
		return 0
	}
}

func (a Action) String() string {
	switch {
	case a == ActionQuit:
		return "quit"
	case a == ActionPause:
		return "pause"
	case a == ActionRestart:
		return "restart"
	case a == ActionUnmuteAll:
		return "unmute all"
	case a >= ActionToggleChannel1 && a <= ActionToggleChannel4:
		return fmt.Sprintf("toggle channel %d", a.Channel())
	case a >= ActionSoloChannel1 && a <= ActionSoloChannel4:
		return fmt.Sprintf("solo channel %d", a.Channel())
	default:
		return "unknown"
	}
}

var keyMapping = map[tcell.Key]Action{
	tcell.KeyCtrlC:  ActionQuit,
	tcell.KeyEscape: ActionQuit,
	tcell.KeyF1:     ActionSoloChannel1,
	tcell.KeyF2:     ActionSoloChannel2,
	tcell.KeyF3:     ActionSoloChannel3,
	tcell.KeyF4:     ActionSoloChannel4,
}

var runeMapping = map[rune]Action{
	'q': ActionQuit,
	' ': ActionPause,
	'p': ActionPause,
	'r': ActionRestart,
	'1': ActionToggleChannel1,
	'2': ActionToggleChannel2,
	'3': ActionToggleChannel3,
	'4': ActionToggleChannel4,
	'!': ActionSoloChannel1,
	'@': ActionSoloChannel2,
	'#': ActionSoloChannel3,
	'$': ActionSoloChannel4,
	'0': ActionUnmuteAll,
	'u': ActionUnmuteAll,
}

// View is everything the monitor shows for one frame.
type View struct {
	Song    *music.Music
	State   furball.State
	Loop    furball.LoopSetting
	Audio   *debug.AudioData
	Muted   [music.Channels]bool
	Elapsed time.Duration
}

// Monitor renders a View on a tcell screen.
type Monitor struct {
	screen   tcell.Screen
	logs     *LogBuffer
	logLevel *slog.LevelVar
	signals  chan os.Signal
	running  bool
}

// New creates a monitor. A nil screen is replaced by the terminal on Init.
// logLevel filters the log pane and is shared with the LogBufferHandler.
func New(screen tcell.Screen, logs *LogBuffer, logLevel *slog.LevelVar) *Monitor {
	if logLevel == nil {
		logLevel = new(slog.LevelVar)
	}
	return &Monitor{
		screen:   screen,
		logs:     logs,
		logLevel: logLevel,
	}
}

// Init takes over the terminal.
func (m *Monitor) Init() error {
	if m.screen == nil {
		screen, err := tcell.NewScreen()
		if err != nil {
			return fmt.Errorf("failed to create screen: %v", err)
		}
		m.screen = screen
	}
	if err := m.screen.Init(); err != nil {
		return fmt.Errorf("failed to initialize terminal: %v", err)
	}

	m.screen.SetStyle(tcell.StyleDefault.Background(tcell.ColorReset).Foreground(tcell.ColorReset))
	m.screen.Clear()

	m.signals = make(chan os.Signal, 1)
	signal.Notify(m.signals, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	m.running = true
	return nil
}

// Update processes pending key presses and draws v.
func (m *Monitor) Update(v View) []Action {
	var actions []Action

	for m.screen.HasPendingEvent() {
		switch ev := m.screen.PollEvent().(type) {
		case *tcell.EventKey:
			if act, ok := m.processKeyEvent(ev); ok {
				actions = append(actions, act)
			}
		case *tcell.EventResize:
			m.screen.Sync()
		}
	}

	select {
	case sig := <-m.signals:
		slog.Debug("Received signal", "signal", sig)
		actions = append(actions, ActionQuit)
	default:
	}

	for _, act := range actions {
		if act == ActionQuit {
			m.running = false
		}
	}
	if !m.running {
		return actions
	}

	m.render(v)
	m.screen.Show()
	return actions
}

// Running reports whether the user hasn't asked to quit.
func (m *Monitor) Running() bool {
	return m.running
}

// Cleanup gives the terminal back.
func (m *Monitor) Cleanup() {
	if m.signals != nil {
		signal.Stop(m.signals)
	}
	if m.screen != nil {
		m.screen.Fini()
	}
}

func (m *Monitor) processKeyEvent(ev *tcell.EventKey) (Action, bool) {
	if act, ok := keyMapping[ev.Key()]; ok {
		return act, true
	}
	if ev.Key() != tcell.KeyRune {
		return 0, false
	}

	switch ev.Rune() {
	case '+', '=':
		m.changeLogLevel(1)
		return 0, false
	case '-', '_':
		m.changeLogLevel(-1)
		return 0, false
	}

	act, ok := runeMapping[ev.Rune()]
	if ok {
		slog.Debug("Key event", "rune", string(ev.Rune()), "action", act)
	}
	return act, ok
}

// changeLogLevel shows more logs for a positive direction, fewer otherwise.
func (m *Monitor) changeLogLevel(direction int) {
	old := m.logLevel.Level()
	level := old
	switch {
	case direction > 0 && level > slog.LevelDebug:
		level -= 4
	case direction < 0 && level < slog.LevelError:
		level += 4
	}
	if level != old {
		m.logLevel.Set(level)
		slog.Info("Log filter changed", "from", old, "to", level)
	}
}

func (m *Monitor) render(v View) {
	termWidth, termHeight := m.screen.Size()
	m.screen.Clear()

	if termWidth < minTermWidth || termHeight < minTermHeight {
		style := tcell.StyleDefault.Foreground(tcell.ColorRed)
		msg := fmt.Sprintf("Terminal too small! Need at least %dx%d", minTermWidth, minTermHeight)
		m.drawText(0, termHeight/2, termWidth, msg, style)
		return
	}

	m.drawHeader(v, termWidth)
	m.drawChannels(v, 3, termWidth)

	patternY := headerHeight
	logsY := termHeight - logHeight - 1
	m.drawPatterns(v, patternY, logsY-1, termWidth)
	m.drawDivider(logsY-1, termWidth, "Logs")
	m.drawLogs(logsY, termWidth, termHeight-1)
	m.drawHelp(termHeight-1, termWidth)
}

func (m *Monitor) drawHeader(v View, width int) {
	titleStyle := tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	textStyle := tcell.StyleDefault.Foreground(tcell.ColorWhite)

	title := "furball"
	if v.Song != nil {
		title += " | " + v.Song.Name
		if v.Song.Author != "" {
			title += " - " + v.Song.Author
		}
	}
	m.drawText(0, 0, width, title, titleStyle)

	s := v.State
	var line string
	if v.Song != nil && s.Status != furball.Stopped {
		line = fmt.Sprintf("%-7s  order %02X/%02X  row %02X/%02X  speed %d  tempo %d/%d  loop %s  %s",
			s.Status, s.Order, v.Song.OrderLength-1, s.Row, v.Song.PatternLength-1, s.Speed,
			v.Song.VirtualTempoNumerator, v.Song.VirtualTempoDenominator, v.Loop, formatElapsed(v.Elapsed))
	} else {
		line = fmt.Sprintf("%-7s  %s", s.Status, formatElapsed(v.Elapsed))
	}
	m.drawText(0, 1, width, line, textStyle)
}

func formatElapsed(d time.Duration) string {
	d = d.Round(100 * time.Millisecond)
	minutes := int(d / time.Minute)
	seconds := (d % time.Minute).Seconds()
	return fmt.Sprintf("%02d:%04.1f", minutes, seconds)
}

func (m *Monitor) drawChannels(v View, y, width int) {
	headerStyle := tcell.StyleDefault.Foreground(tcell.ColorYellow)
	onStyle := tcell.StyleDefault.Foreground(tcell.ColorGreen)
	offStyle := tcell.StyleDefault.Foreground(tcell.ColorGray)
	mutedStyle := tcell.StyleDefault.Foreground(tcell.ColorRed)

	m.drawText(0, y, width, "CH NOTE INS VOL DUTY PAN PERIOD | UNIT  NOTE  FREQ      VOL", headerStyle)

	for i, c := range v.State.Channels {
		style := offStyle
		if c.Enabled && c.NoteOn {
			style = onStyle
		}

		note := "---"
		if c.NoteOn {
			note = c.Note.String()
		}
		inst := ".."
		if c.Instrument >= 0 {
			inst = fmt.Sprintf("%02X", c.Instrument)
		}
		duty := fmt.Sprintf("%d", c.Duty)
		if i == 2 {
			duty = "-"
		} else if i == 3 {
			duty = "15b"
			if c.ShortNoise {
				duty = "7b"
			}
		}

		line := fmt.Sprintf("%d  %-4s %-3s %-3d %-4s %-3s %03X   ",
			i+1, note, inst, c.Volume, duty, panString(c.Pan), c.Period)
		if !c.Enabled {
			line = fmt.Sprintf("%d  not managed                    ", i+1)
		}

		if v.Audio != nil {
			a := v.Audio.Channels[i]
			if a.Enabled {
				line += fmt.Sprintf(" | on    %-5s %8.1fHz %-2d", a.Note, a.Frequency, a.Volume)
			} else {
				line += " | off"
			}
		}
		if v.Muted[i] {
			style = mutedStyle
			line += "  MUTED"
		}
		m.drawText(0, y+1+i, width, line, style)
	}
}

func panString(pan uint8) string {
	switch pan & 3 {
	case 3:
		return "LR"
	case 2:
		return "L"
	case 1:
		return "R"
	default:
		return "-"
	}
}

// drawPatterns shows the rows around the current one for every channel, with
// the current row in the middle.
func (m *Monitor) drawPatterns(v View, top, bottom, width int) {
	if v.Song == nil || bottom <= top+2 {
		return
	}
	m.drawDivider(top, width, "Patterns")

	headerStyle := tcell.StyleDefault.Foreground(tcell.ColorYellow)
	rowStyle := tcell.StyleDefault.Foreground(tcell.ColorWhite)
	currentStyle := tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorTeal)
	numberStyle := tcell.StyleDefault.Foreground(tcell.ColorGray)

	s := v.State
	order := s.Order
	if order < 0 {
		order = 0
	}

	for ch := 1; ch <= music.Channels; ch++ {
		x := 4 + (ch-1)*channelColumn
		label := fmt.Sprintf("CH%d", ch)
		if p := v.Song.Pattern(ch, order); p != nil {
			label += fmt.Sprintf(" %02X", order)
		}
		m.drawText(x, top+1, channelColumn-1, label, headerStyle)
	}

	firstY := top + 2
	visible := bottom - firstY
	center := firstY + visible/2
	for y := firstY; y < bottom; y++ {
		row := s.Row + (y - center)
		if row < 0 || row >= v.Song.PatternLength {
			continue
		}

		style := rowStyle
		if row == s.Row && s.Status != furball.Stopped {
			style = currentStyle
		}
		m.drawText(0, y, 3, fmt.Sprintf("%02X", row), numberStyle)

		for ch := 1; ch <= music.Channels; ch++ {
			x := 4 + (ch-1)*channelColumn
			text := "... .. .."
			if p := v.Song.Pattern(ch, order); p != nil {
				text = p.Row(row).String()
			}
			m.drawText(x, y, channelColumn-1, text, style)
		}
	}
}

func (m *Monitor) drawDivider(y, width int, title string) {
	borderStyle := tcell.StyleDefault.Foreground(tcell.ColorWhite)
	titleStyle := tcell.StyleDefault.Foreground(tcell.ColorYellow)

	for x := 0; x < width; x++ {
		m.screen.SetContent(x, y, tcell.RuneHLine, nil, borderStyle)
	}
	m.drawText(2, y, width-2, " "+title+" ", titleStyle)
}

func (m *Monitor) drawLogs(top, width, bottom int) {
	if m.logs == nil {
		return
	}
	height := bottom - top
	if height <= 0 {
		return
	}

	logs := m.logs.Recent(height, m.logLevel.Level())

	debugStyle := tcell.StyleDefault.Foreground(tcell.ColorGray)
	infoStyle := tcell.StyleDefault.Foreground(tcell.ColorBlue)
	warnStyle := tcell.StyleDefault.Foreground(tcell.ColorYellow)
	errStyle := tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)

	for i, entry := range logs {
		style := infoStyle
		switch {
		case entry.Level < slog.LevelInfo:
			style = debugStyle
		case entry.Level >= slog.LevelError:
			style = errStyle
		case entry.Level >= slog.LevelWarn:
			style = warnStyle
		}
		m.drawText(0, top+i, width, entry.String(), style)
	}
}

func (m *Monitor) drawHelp(y, width int) {
	style := tcell.StyleDefault.Foreground(tcell.ColorGray)
	m.drawText(0, y, width,
		"space pause  r restart  1-4 mute  F1-F4 solo  0 unmute  +/- logs  q quit", style)
}

// drawText writes text from x, truncating it with "..." past width.
func (m *Monitor) drawText(x, y, width int, text string, style tcell.Style) {
	runes := []rune(text)
	if len(runes) > width {
		if width > 3 {
			runes = append(runes[:width-3], '.', '.', '.')
		} else if width > 0 {
			runes = runes[:width]
		} else {
			return
		}
	}
	for i, r := range runes {
		m.screen.SetContent(x+i, y, r, nil, style)
	}
}
