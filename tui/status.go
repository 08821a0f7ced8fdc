package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nathoo/olympos/engine/state"
)

// statusLeft describes the player: name and resources, or their absence.
func statusLeft(p *state.Entity) string {
	if p == nil {
		return " (no player)"
	}
	if p.Stats == nil {
		return " " + p.Name
	}
	s := p.Stats
	return fmt.Sprintf(" %s | HP %d/%d | ST %d/%d | MP %d/%d",
		p.Name,
		s.Health, state.MaxHealth(s),
		s.Stamina, state.MaxStamina(s),
		s.Mana, state.MaxMana(s))
}

// renderStatusBar produces a full-width inverted status line showing the
// player's resources on the left and the tick, position and mode on the
// right.
func (m Model) renderStatusBar() string {
	p := m.engine.Player()
	left := statusLeft(p)

	mode := "turn"
	if m.interval > 0 {
		mode = "live"
		if m.paused {
			mode = "paused"
		}
	}
	right := fmt.Sprintf("T:%d | %s ", m.engine.World.Tick(), mode)
	if p != nil {
		candidate := fmt.Sprintf("%d,%d | %s", p.Pos.Y, p.Pos.X, right)
		if lipgloss.Width(left)+lipgloss.Width(candidate)+2 < m.width {
			right = candidate
		}
	}

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}

	bar := left + strings.Repeat(" ", gap) + right
	return styleStatusBar.Width(m.width).Render(bar)
}
