package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// renderHeader renders the status bar: view scope, controller activity and
// reload health.
func (m Model) renderHeader() string {
	// Header uses Surface background
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	parts := []string{
		bg.Render("damview", styles.Logo),
		bg.Render(categoryName(m.snapshot.Categories, m.snapshot.Query.CategoryID), styles.AccentText.Bold(true)),
	}
	if q := m.snapshot.Query.Search; q != "" {
		parts = append(parts, bg.Render("search", styles.FaintText)+bg.Space()+bg.Render(truncate(q, 24), styles.Text))
	}

	if act := activityLabel(m); act != "" {
		parts = append(parts, bg.Render(act, styles.InfoText))
	}
	if m.snapshot.Paused {
		parts = append(parts, bg.Render("PAUSED", styles.WarningText.Bold(true)))
	}

	switch {
	case m.snapshot.IsOffline():
		parts = append(parts, bg.Render("DAM "+classifyConnectionError(m.snapshot.LastError), styles.DangerText))
	case m.snapshot.LastError != nil:
		parts = append(parts, bg.Render("reload failed", styles.WarningText))
	}

	parts = append(parts, bg.Render("updated "+humanizeAge(time.Now(), m.snapshot.LastUpdated), styles.MutedText))

	return lipgloss.NewStyle().
		Background(lipgloss.Color(m.theme.Surface)).
		Foreground(lipgloss.Color(m.theme.Text)).
		Width(m.width).
		Render(bg.Join(parts, "  "))
}

// activityLabel reports the running controllers, e.g. "polling 3 · batch 2 · refresh 4/8".
func activityLabel(m Model) string {
	act := m.activity
	if act.Idle() {
		return ""
	}
	var parts []string
	if act.RecordPolls > 0 {
		parts = append(parts, fmt.Sprintf("polling %d", act.RecordPolls))
	}
	if act.BatchActive {
		parts = append(parts, fmt.Sprintf("batch %d", act.BatchAttempts))
	}
	if act.RefreshRunning {
		parts = append(parts, fmt.Sprintf("refresh %d", act.RefreshAttempts))
	}
	return strings.Join(parts, " · ")
}

// classifyConnectionError turns a reload error into a short status word.
func classifyConnectionError(err error) string {
	if err == nil {
		return "OFFLINE"
	}
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "connection refused"):
		return "UNREACHABLE"
	case strings.Contains(msg, "deadline exceeded"), strings.Contains(msg, "timeout"):
		return "TIMEOUT"
	case strings.Contains(msg, "status 401"), strings.Contains(msg, "status 403"):
		return "UNAUTHORIZED"
	case strings.Contains(msg, "returned status"):
		return "ERROR"
	default:
		return "OFFLINE"
	}
}
