package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/moment-festival/momentd/internal/toast"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("12"))
	statsStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	helpStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	pendingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	emptyStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true)
)

const (
	kindWidth    = 9
	timeLayout   = "15:04:05"
	helpText     = "r: refresh  b: book sample  d: dismiss  j/k: scroll  q: quit"
	emptyMessage = "No active notifications."
)

// View renders the console.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("momentd console"))
	b.WriteString("\n")
	b.WriteString(statsStyle.Render(m.statsLine()))
	b.WriteString("\n")
	b.WriteString(m.viewport.View())
	b.WriteString("\n")
	b.WriteString(helpStyle.Render(helpText))
	return b.String()
}

func (m *Model) statsLine() string {
	if m.statsErr != nil {
		return fmt.Sprintf("store unavailable: %v", m.statsErr)
	}
	return fmt.Sprintf("festivals: %d  reservations: %d  moments: %d",
		m.stats.festivals, m.stats.reservations, m.stats.moments)
}

// renderToasts formats the active toasts oldest first, matching the order
// the surface keeps them in.
func renderToasts(toasts []toast.Toast, width int) string {
	if len(toasts) == 0 {
		return emptyStyle.Render(emptyMessage)
	}

	rows := make([]string, 0, len(toasts))
	for _, t := range toasts {
		label := kindStyle(t.Kind).Render(padKind(t.Kind))
		text := t.Text
		if width > 0 {
			text = truncate(text, width-kindWidth-len(timeLayout)-4)
		}
		rows = append(rows, fmt.Sprintf("%s  %s  %s",
			t.CreatedAt.Local().Format(timeLayout), label, text))
	}
	return strings.Join(rows, "\n")
}

func kindStyle(kind toast.Kind) lipgloss.Style {
	switch kind {
	case toast.KindSuccess:
		return successStyle
	case toast.KindError:
		return errorStyle
	case toast.KindPending:
		return pendingStyle
	default:
		return infoStyle
	}
}

func padKind(kind toast.Kind) string {
	return fmt.Sprintf("%-*s", kindWidth, "["+kind.String()+"]")
}

func truncate(s string, max int) string {
	if max <= 0 || len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}

// Run starts the console program and blocks until it exits.
func Run(m *Model) error {
	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("console exited: %w", err)
	}
	return nil
}
