package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/five82/viewlog/internal/session"
)

// renderHeader renders the connection line: logo, state badge, endpoint and
// the latest problem.
func (m Model) renderHeader() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)
	compact := m.width < LayoutCompactWidth

	parts := []string{
		bg.Render("viewlog", styles.Logo),
		styles.StateStyle(m.conn).Render(strings.ToUpper(m.conn.String())),
	}

	endpointMax := 60
	if compact {
		endpointMax = 30
	}
	parts = append(parts, bg.Render(truncateMiddle(m.endpoint, endpointMax), styles.MutedText))

	if m.lastErr != nil && m.conn != session.StateOpen {
		parts = append(parts, bg.Render(classifyConnectionError(m.lastErr), styles.DangerText))
	}
	if m.closeCode != 0 && m.conn == session.StateClosed {
		detail := fmt.Sprintf("code %d", m.closeCode)
		if m.closeReason != "" {
			detail += " " + truncate(m.closeReason, 30)
		}
		parts = append(parts, bg.Render(detail, styles.WarningText))
	}
	if m.opens > 1 {
		parts = append(parts, bg.Render(fmt.Sprintf("reconnects %d", m.opens-1), styles.FaintText))
	}
	if !compact && m.sessionID != "" {
		parts = append(parts, bg.Render("session "+truncate(m.sessionID, 8), styles.FaintText))
	}

	return styles.Header.Width(m.width).Render(bg.Join(parts, "  "))
}

// renderStatusBar renders buffer statistics and the autoscroll control.
func (m Model) renderStatusBar() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)
	colon := bg.Render(":", styles.FaintText)

	snap := m.snapshot
	segments := []string{
		bg.Render(fmt.Sprintf("lines %d/%d", snap.Len(), snap.Capacity()), styles.Text),
	}
	if start, end := m.control.Range(); end > start {
		segments = append(segments, bg.Render(fmt.Sprintf("view %d-%d", start+1, end), styles.MutedText))
	}
	if evicted := snap.Evicted(); evicted > 0 {
		segments = append(segments, bg.Render(fmt.Sprintf("evicted %d", evicted), styles.WarningText))
	}
	if pending := m.pipeline.Pending(); pending > 0 {
		segments = append(segments, bg.Render(fmt.Sprintf("pending %d", pending), styles.InfoText))
	}
	if m.width >= LayoutCompactWidth && !m.lastFlush.IsZero() {
		segments = append(segments, bg.Render("updated "+m.lastFlush.Format(time.TimeOnly), styles.FaintText))
	}

	toggleStyle := styles.SuccessText
	if !m.control.Autoscroll() {
		toggleStyle = styles.WarningText
	}
	segments = append(segments,
		bg.Render("Space", styles.AccentText)+colon+bg.Render(m.control.ToggleLabel(), toggleStyle),
		bg.Render("T", styles.AccentText)+colon+bg.Render(m.theme.Name, styles.FaintText),
		bg.Render("?", styles.AccentText)+colon+bg.Render("Help", styles.MutedText),
	)

	return styles.Header.Width(m.width).Render(bg.Join(segments, "  "))
}

// classifyConnectionError returns a short description of the connection error.
func classifyConnectionError(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, "connection refused"):
		return "OFFLINE"
	case strings.Contains(msg, "no such host"):
		return "HOST NOT FOUND"
	case strings.Contains(msg, "bad handshake"):
		return "HANDSHAKE REJECTED"
	case strings.Contains(msg, "certificate"), strings.Contains(msg, "tls:"):
		return "TLS ERROR"
	case strings.Contains(msg, "timeout"):
		return "TIMEOUT"
	case strings.Contains(msg, "unexpected EOF"), strings.Contains(msg, "reset by peer"):
		return "CONNECTION LOST"
	default:
		return "ERROR"
	}
}

// truncate truncates a string to max length with ellipsis.
func truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	if len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}

// truncateMiddle keeps both ends of s, which matters for URLs whose path is
// the interesting part.
func truncateMiddle(s string, max int) string {
	if max <= 0 {
		return ""
	}
	if len(s) <= max {
		return s
	}
	if max <= 5 {
		return s[:max]
	}
	endLen := (max - 3) * 2 / 3
	startLen := max - 3 - endLen
	return s[:startLen] + "..." + s[len(s)-endLen:]
}
