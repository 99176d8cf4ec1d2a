package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/five82/viewlog/internal/session"
)

// renderLogs renders the bordered log pane.
func (m Model) renderLogs() string {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(m.theme.BorderFocus)).
		BorderBackground(lipgloss.Color(m.theme.Background)).
		Render(m.pane.View())
}

// renderLogContent draws only the visible window of the buffer, one entry
// per row.
func (m *Model) renderLogContent() string {
	bg := NewBgStyle(m.theme.FocusBg)
	styles := m.theme.Styles()
	width := m.pane.Width

	if len(m.visible) == 0 {
		return bg.FillLine(bg.Render(m.emptyMessage(), styles.MutedText), width)
	}

	var b strings.Builder
	for i, entry := range m.visible {
		gutter := bg.Render(fmt.Sprintf("%6d │ ", entry.Seq+1), styles.FaintText)
		text := ansi.Truncate(flattenLine(entry.Text), max(width-gutterWidth, 1), "…")
		b.WriteString(bg.FillLine(gutter+bg.Render(text, styles.Text), width))
		if i < len(m.visible)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (m *Model) emptyMessage() string {
	switch m.conn {
	case session.StateClosed:
		return "Connection closed before any log lines arrived"
	case session.StateReconnecting:
		return "Reconnecting..."
	case session.StateOpen:
		return "Connected, waiting for log lines"
	default:
		return "Connecting to " + m.endpoint
	}
}

// flattenLine turns an arbitrary payload into a single printable row. Escape
// sequences are stripped, line breaks become a visible marker and tabs are
// expanded. Other control characters are dropped.
func flattenLine(text string) string {
	text = ansi.Strip(rowBreaks.Replace(text))

	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if r < 0x20 || r == 0x7f || (r >= 0x80 && r < 0xa0) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

var rowBreaks = strings.NewReplacer("\r\n", "↵", "\n", "↵", "\r", "↵", "\t", "    ")
