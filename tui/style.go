package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Styles used throughout the TUI.
var (
	styleStatusBar = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("252")).
			Bold(true)

	styleInputPrompt = lipgloss.NewStyle().
				Foreground(lipgloss.Color("34"))

	styleEvent = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255"))

	styleSelf = lipgloss.NewStyle().
			Foreground(lipgloss.Color("114"))

	styleTick = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	styleSystem = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	styleError = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	stylePlayerInput = lipgloss.NewStyle().
				Foreground(lipgloss.Color("34"))

	styleTrace = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	styleDeath = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)
)

// Map glyph styles.
var (
	glyphPlayer = lipgloss.NewStyle().Foreground(lipgloss.Color("46")).Bold(true)
	glyphWall   = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	glyphFloor  = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
	glyphItem   = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	glyphAttack = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	glyphArea   = lipgloss.NewStyle().Foreground(lipgloss.Color("75"))
	glyphMob    = lipgloss.NewStyle().Foreground(lipgloss.Color("208"))
)

// lineKind identifies the type of an output line for styling.
type lineKind int

const (
	kindEvent lineKind = iota
	kindSelf
	kindTick
	kindSystem
	kindError
	kindTrace
	kindDeath
)

// classifyLine determines what kind of output line this is.
func classifyLine(line string) lineKind {
	switch {
	case strings.HasPrefix(line, "[trace]"):
		return kindTrace
	case strings.HasPrefix(line, "=========="):
		return kindTick
	case line == "You have died.":
		return kindDeath
	case strings.HasPrefix(line, "Error:"):
		return kindError
	case strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]"):
		return kindSystem
	case strings.HasPrefix(line, "You "):
		return kindSelf
	default:
		return kindEvent
	}
}

// renderLineKind applies the style for a given lineKind.
func renderLineKind(line string, kind lineKind) string {
	switch kind {
	case kindSelf:
		return styleSelf.Render(line)
	case kindTick:
		return styleTick.Render(line)
	case kindSystem:
		return styleSystem.Render(line)
	case kindError:
		return styleError.Render(line)
	case kindTrace:
		return styleTrace.Render(line)
	case kindDeath:
		return styleDeath.Render(line)
	default:
		return styleEvent.Render(line)
	}
}

// styleGlyph colors one map character.
func styleGlyph(r rune) string {
	s := string(r)
	switch {
	case r == '@':
		return glyphPlayer.Render(s)
	case r == '#':
		return glyphWall.Render(s)
	case r == '.':
		return glyphFloor.Render(s)
	case r == '!':
		return glyphItem.Render(s)
	case r == '*':
		return glyphAttack.Render(s)
	case r == '+':
		return glyphArea.Render(s)
	default:
		return glyphMob.Render(s)
	}
}

// styledSystemMsg renders a system message in gray with brackets.
func styledSystemMsg(text string) string {
	return styleSystem.Render("[" + text + "]")
}
