package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nathoo/olympos/cli"
	"github.com/nathoo/olympos/engine"
	"github.com/nathoo/olympos/engine/effects"
)

// rawLine stores an unstyled output line with its classification,
// so we can re-wrap and re-style when the terminal is resized.
type rawLine struct {
	text     string
	kind     lineKind
	isInput  bool // true for echoed player input
	isSystem bool // true for system messages
}

// Model is the Bubble Tea model for the olympos TUI.
type Model struct {
	engine *engine.Engine

	viewport viewport.Model
	input    textinput.Model
	history  *History

	rawLines []rawLine // accumulated event lines (unstyled, for re-wrapping)

	// interval is the real-time tick period; zero means turn-based.
	interval time.Duration
	paused   bool

	width    int
	height   int
	ready    bool
	trace    bool
	dead     bool
	quitting bool
	lastCmd  string
}

// outputMsg carries lines into the Update loop.
type outputMsg struct {
	input    string   // echoed player input (empty for engine output)
	lines    []string // output lines
	isSystem bool     // true for meta-command output
}

// tickMsg fires once per real-time interval.
type tickMsg time.Time

// New creates a TUI model wired to the given engine. A positive interval
// makes the world advance on its own.
func New(eng *engine.Engine, interval time.Duration) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Focus()
	ti.CharLimit = 256
	ti.PromptStyle = styleInputPrompt

	return Model{
		engine:   eng,
		input:    ti,
		history:  NewHistory(100),
		interval: interval,
	}
}

// Run starts the Bubble Tea program.
func Run(eng *engine.Engine, interval time.Duration) error {
	m := New(eng, interval)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := p.Run()
	return err
}

// Init starts the cursor blink, prints the intro and, in real-time mode,
// schedules the first tick.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink, m.initialOutput()}
	if m.interval > 0 {
		cmds = append(cmds, m.scheduleTick())
	}
	return tea.Batch(cmds...)
}

func (m Model) initialOutput() tea.Cmd {
	return func() tea.Msg {
		var lines []string
		if m.engine.Scenario != "" {
			lines = append(lines, m.engine.Scenario)
		}
		lines = append(lines, "Type /help for commands.")
		return outputMsg{lines: lines, isSystem: true}
	}
}

func (m Model) scheduleTick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// mapHeight is the number of rows the map takes, clipped so the event log
// keeps at least a few lines.
func (m Model) mapHeight() int {
	h := m.engine.World.Height
	if limit := m.height - 6; h > limit {
		h = max(limit, 0)
	}
	return h
}

// Update handles messages (key presses, window resize, ticks, output).
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		// map + status bar + input line
		vpHeight := m.height - m.mapHeight() - 2
		if vpHeight < 1 {
			vpHeight = 1
		}

		if !m.ready {
			m.viewport = viewport.New(m.width, vpHeight)
			m.viewport.KeyMap = viewportKeyMap()
			m.ready = true
		} else {
			m.viewport.Width = m.width
			m.viewport.Height = vpHeight
		}

		m.refreshViewport()

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.quitting = true
			return m, tea.Quit

		case "enter":
			return m.handleEnter()

		case "up":
			if prev, ok := m.history.Prev(); ok {
				m.input.SetValue(prev)
				m.input.CursorEnd()
			}
			return m, nil

		case "down":
			if next, ok := m.history.Next(); ok {
				m.input.SetValue(next)
				m.input.CursorEnd()
			} else {
				m.input.SetValue("")
				m.history.ResetCursor()
			}
			return m, nil

		case "pgup", "pgdown":
			var vpCmd tea.Cmd
			m.viewport, vpCmd = m.viewport.Update(msg)
			return m, vpCmd
		}

	case tickMsg:
		if m.dead || m.quitting {
			return m, nil
		}
		if !m.paused {
			m = m.applyResult(m.engine.Advance())
		}
		return m, m.scheduleTick()

	case outputMsg:
		m = m.appendOutput(msg)
	}

	var inputCmd tea.Cmd
	m.input, inputCmd = m.input.Update(msg)
	cmds = append(cmds, inputCmd)

	return m, tea.Batch(cmds...)
}

// handleEnter processes the submitted input line.
func (m Model) handleEnter() (tea.Model, tea.Cmd) {
	input := strings.TrimSpace(m.input.Value())
	m.input.SetValue("")

	if input == "" {
		return m, nil
	}

	m.history.Push(input)
	m.history.ResetCursor()

	// Meta-commands.
	if strings.HasPrefix(input, "/") {
		output, quit := m.handleMeta(input)
		m = m.appendOutput(outputMsg{input: input, lines: output, isSystem: true})
		if quit {
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil
	}

	if m.dead {
		m = m.appendOutput(outputMsg{input: input, lines: []string{"You are dead. /quit to leave."}, isSystem: true})
		return m, nil
	}

	// Handle "again" / "g".
	lower := strings.ToLower(input)
	if lower == "again" || lower == "g" {
		if m.lastCmd == "" {
			m = m.appendOutput(outputMsg{
				input: input, lines: []string{"Nothing to repeat."}, isSystem: true,
			})
			return m, nil
		}
		input = m.lastCmd
	} else {
		m.lastCmd = input
	}

	// Real time: queue for the next tick. Turn-based: run a tick now.
	if m.interval > 0 {
		msg, ok := m.engine.Submit(input)
		var lines []string
		if !ok && msg != "" {
			lines = []string{msg}
		}
		m = m.appendOutput(outputMsg{input: input, lines: lines, isSystem: !ok})
		return m, nil
	}

	m = m.appendOutput(outputMsg{input: input})
	m = m.applyResult(m.engine.Step(input))
	return m, nil
}

// applyResult appends a step's events and notes death.
func (m Model) applyResult(r engine.Result) Model {
	lines := r.Output
	if r.Err != nil {
		lines = append(lines, fmt.Sprintf("Error: %v", r.Err))
	}
	if m.trace {
		lines = append(lines, m.formatTrace(r)...)
	}
	if r.Dead {
		m.dead = true
	}
	if len(lines) == 0 {
		return m
	}
	return m.appendOutput(outputMsg{lines: lines})
}

// appendOutput adds lines to the event log and refreshes the viewport.
func (m Model) appendOutput(msg outputMsg) Model {
	if msg.input != "" {
		m.rawLines = append(m.rawLines, rawLine{
			text: "> " + msg.input, isInput: true,
		})
	}

	for _, line := range msg.lines {
		rl := rawLine{text: line, isSystem: msg.isSystem}
		if !msg.isSystem {
			rl.kind = classifyLine(line)
		}
		m.rawLines = append(m.rawLines, rl)
	}

	m.refreshViewport()

	return m
}

// refreshViewport re-wraps and re-styles all raw lines at the current width
// and updates the viewport content.
func (m *Model) refreshViewport() {
	if !m.ready {
		return
	}

	width := m.width
	if width < 10 {
		width = 10
	}

	var styled []string
	for _, rl := range m.rawLines {
		if rl.text == "" {
			styled = append(styled, "")
			continue
		}

		wrapped := wordWrap(rl.text, width)

		switch {
		case rl.isInput:
			styled = append(styled, stylePlayerInput.Render(wrapped))
		case rl.isSystem:
			styled = append(styled, styledSystemMsg(wrapped))
		default:
			styled = append(styled, renderLineKind(wrapped, rl.kind))
		}
	}

	m.viewport.SetContent(strings.Join(styled, "\n"))
	m.viewport.GotoBottom()
}

// wordWrap wraps text to fit within the given width, breaking at word
// boundaries.
func wordWrap(text string, width int) string {
	if width <= 0 || len(text) <= width {
		return text
	}

	var result strings.Builder
	lineLen := 0
	for i, word := range strings.Fields(text) {
		switch {
		case i == 0:
			lineLen = len(word)
		case lineLen+1+len(word) > width:
			result.WriteString("\n")
			lineLen = len(word)
		default:
			result.WriteString(" ")
			lineLen += 1 + len(word)
		}
		result.WriteString(word)
	}
	return result.String()
}

// renderMap draws the visible part of the map, clipped to the terminal.
func (m Model) renderMap() string {
	rows := m.engine.Map()
	if h := m.mapHeight(); len(rows) > h {
		rows = rows[:h]
	}
	var b strings.Builder
	for i, row := range rows {
		if i > 0 {
			b.WriteByte('\n')
		}
		for x, r := range row {
			if m.width > 0 && x >= m.width {
				break
			}
			b.WriteString(styleGlyph(r))
		}
	}
	return b.String()
}

// View renders the full TUI layout: map + status bar + event log + input.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "Loading..."
	}

	parts := []string{}
	if m.mapHeight() > 0 {
		parts = append(parts, m.renderMap())
	}
	parts = append(parts, m.renderStatusBar(), m.viewport.View(), m.input.View())
	return strings.Join(parts, "\n")
}

// handleMeta dispatches meta-commands. Returns output lines and quit flag.
func (m *Model) handleMeta(input string) ([]string, bool) {
	parts := strings.Fields(input)
	cmd := parts[0]

	switch cmd {
	case "/quit", "/exit":
		return []string{"Goodbye."}, true

	case "/help":
		lines := cli.HelpLines(m.engine)
		if m.interval > 0 {
			lines = append(lines, "", "  /pause        Pause or resume the clock")
		}
		return append(lines, "", "Navigation: PgUp/PgDn to scroll, Up/Down for command history"), false

	case "/look":
		p := m.engine.Player()
		if p == nil {
			return []string{"There is no one to look at."}, false
		}
		return effects.FullInfo(p), false

	case "/info":
		var out []string
		for _, block := range m.engine.World.Information() {
			out = append(out, block...)
			out = append(out, "")
		}
		if len(out) == 0 {
			return []string{"Nothing observed yet."}, false
		}
		return out, false

	case "/map":
		return []string{"The map is always shown above."}, false

	case "/wait":
		if m.dead {
			return []string{"You are dead. /quit to leave."}, false
		}
		r := m.engine.Advance()
		*m = m.applyResult(r)
		return []string{fmt.Sprintf("Waited until tick %d.", r.Tick)}, false

	case "/pause":
		if m.interval == 0 {
			return []string{"The clock only runs in real-time mode."}, false
		}
		m.paused = !m.paused
		if m.paused {
			return []string{"Paused."}, false
		}
		return []string{"Resumed."}, false

	case "/trace":
		m.trace = !m.trace
		if m.trace {
			return []string{"Trace output enabled."}, false
		}
		return []string{"Trace output disabled."}, false

	default:
		return []string{fmt.Sprintf("Unknown command: %s. Type /help for available commands.", cmd)}, false
	}
}

func (m *Model) formatTrace(r engine.Result) []string {
	lines := []string{fmt.Sprintf("[trace] tick %d, %d entities, %d random draws",
		r.Tick, m.engine.World.Len(), m.engine.RNG.Position())}
	for _, ev := range m.engine.World.Events() {
		lines = append(lines, fmt.Sprintf("[trace]   %d,%d %s", ev.Pos.Y, ev.Pos.X, ev.Message))
	}
	return lines
}

// viewportKeyMap returns a viewport keymap with Up/Down disabled
// (we use those for input history).
func viewportKeyMap() viewport.KeyMap {
	return viewport.KeyMap{
		PageDown:     key.NewBinding(key.WithKeys("pgdown")),
		PageUp:       key.NewBinding(key.WithKeys("pgup")),
		HalfPageDown: key.NewBinding(key.WithKeys("ctrl+d")),
		HalfPageUp:   key.NewBinding(key.WithKeys("ctrl+u")),
		Up:           key.NewBinding(key.WithDisabled()),
		Down:         key.NewBinding(key.WithDisabled()),
	}
}
