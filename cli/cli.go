// Package cli provides plain terminal I/O and meta-command dispatch for
// the olympos engine. It is used for pipes, scripts and --plain.
package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/nathoo/olympos/engine"
	"github.com/nathoo/olympos/engine/ability"
	"github.com/nathoo/olympos/engine/effects"
)

// CLI handles terminal interaction with the player.
type CLI struct {
	Engine    *engine.Engine
	In        io.Reader
	Out       io.Writer
	Trace     bool
	ShowMap   bool   // redraw the map after every tick
	EchoInput bool   // echo each input line after the prompt (for script playback)
	lastCmd   string // for "again"/"g" repeat
}

// New creates a CLI wired to the given engine.
func New(eng *engine.Engine) *CLI {
	return &CLI{
		Engine:  eng,
		In:      os.Stdin,
		Out:     os.Stdout,
		ShowMap: true,
	}
}

// Run starts the loop: it shows the map, then reads a command, runs a tick
// and prints what the player can see, until input ends, /quit, or the
// player dies.
func (c *CLI) Run() {
	if c.Engine.Scenario != "" {
		c.printLine(c.Engine.Scenario)
		c.printLine("")
	}
	c.printMap()

	scanner := bufio.NewScanner(c.In)
	for {
		c.print("> ")
		if !scanner.Scan() {
			break
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		// Skip comment lines (for script files).
		if strings.HasPrefix(input, "#") {
			continue
		}
		if c.EchoInput {
			c.printLine(input)
		}

		if strings.HasPrefix(input, "/") {
			if c.handleMeta(input) {
				return
			}
			continue
		}

		// "again" / "g" repeats the last game command.
		lower := strings.ToLower(input)
		if lower == "again" || lower == "g" {
			if c.lastCmd == "" {
				c.printLine("Nothing to repeat.")
				continue
			}
			input = c.lastCmd
		} else {
			c.lastCmd = input
		}

		if c.show(c.Engine.Step(input)) {
			return
		}
	}
}

// show prints a step result and reports whether the game is over.
func (c *CLI) show(r engine.Result) bool {
	for _, line := range r.Output {
		c.printLine(line)
	}
	if r.Err != nil {
		c.printSystem(fmt.Sprintf("Error: %v", r.Err))
	}
	if r.Tick > 0 && c.ShowMap && !r.Dead {
		c.printMap()
	}
	if c.Trace {
		c.printTrace(r)
	}
	return r.Dead
}

// handleMeta dispatches meta-commands. Returns true if the game should exit.
func (c *CLI) handleMeta(input string) bool {
	parts := strings.Fields(input)
	cmd := parts[0]
	var arg string
	if len(parts) > 1 {
		arg = parts[1]
	}

	switch cmd {
	case "/quit", "/exit":
		c.printSystem("Goodbye.")
		return true

	case "/help":
		c.cmdHelp()

	case "/look":
		c.cmdLook()

	case "/map":
		c.printMap()

	case "/info":
		c.cmdInfo()

	case "/wait":
		n := 1
		if arg != "" {
			v, err := strconv.Atoi(arg)
			if err != nil || v < 1 {
				c.printSystem("Usage: /wait [ticks]")
				return false
			}
			n = v
		}
		for i := 0; i < n; i++ {
			if c.show(c.Engine.Advance()) {
				return true
			}
		}

	case "/trace":
		c.Trace = !c.Trace
		if c.Trace {
			c.printSystem("Trace output enabled.")
		} else {
			c.printSystem("Trace output disabled.")
		}

	default:
		c.printSystem(fmt.Sprintf("Unknown command: %s. Type /help for available commands.", cmd))
	}

	return false
}

func (c *CLI) cmdHelp() {
	for _, line := range HelpLines(c.Engine) {
		c.printLine(line)
	}
}

// HelpLines lists the meta-commands and the player's current abilities.
func HelpLines(eng *engine.Engine) []string {
	lines := []string{
		"System:",
		"  /quit         Exit",
		"  /help         Show this help",
		"  /look         Describe yourself",
		"  /map          Draw the map",
		"  /info         Show the latest information blocks",
		"  /wait [n]     Let n ticks pass (default 1)",
		"  /trace        Toggle debug trace output",
		"",
		"Abilities (a unique prefix is enough; n/s/e/w for directions):",
	}
	p := eng.Player()
	if p == nil {
		return append(lines, "  none")
	}
	for _, name := range engine.Known(p) {
		if name == ability.AttackAlias {
			continue
		}
		lines = append(lines, "  "+ability.Usage(p.Details[name]))
	}
	return append(lines,
		"  attack                Your most recently learned attack",
		"  again (g)             Repeat your last command",
		"  <n> <ability>         Repeat an ability n times in one tick",
	)
}

func (c *CLI) cmdLook() {
	p := c.Engine.Player()
	if p == nil {
		c.printSystem("There is no one to look at.")
		return
	}
	for _, line := range effects.FullInfo(p) {
		c.printLine(line)
	}
}

func (c *CLI) cmdInfo() {
	blocks := c.Engine.World.Information()
	if len(blocks) == 0 {
		c.printSystem("Nothing observed yet.")
		return
	}
	for _, block := range blocks {
		for _, line := range block {
			c.printLine(line)
		}
		c.printLine("")
	}
}

func (c *CLI) printMap() {
	for _, row := range c.Engine.Map() {
		c.printLine(row)
	}
}

func (c *CLI) printTrace(r engine.Result) {
	c.printSystem(fmt.Sprintf("[trace] tick %d, %d entities, %d random draws, run %s",
		r.Tick, c.Engine.World.Len(), c.Engine.RNG.Position(), c.Engine.RunID))
	for _, ev := range c.Engine.World.Events() {
		c.printSystem(fmt.Sprintf("[trace]   %d,%d %s", ev.Pos.Y, ev.Pos.X, ev.Message))
	}
}

func (c *CLI) printLine(text string) {
	fmt.Fprintln(c.Out, text)
}

func (c *CLI) print(text string) {
	fmt.Fprint(c.Out, text)
}

func (c *CLI) printSystem(text string) {
	fmt.Fprintf(c.Out, "[%s]\n", text)
}
