package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/damview/internal/asset"
	"github.com/five82/damview/internal/dam"
)

// handleGridKey moves the selection. Moving past the last revealed row
// reveals the next batch.
func (m *Model) handleGridKey(msg tea.KeyMsg) {
	total := len(m.snapshot.Assets)
	count := m.window.Count(total)
	if count == 0 {
		return
	}
	half := max(m.listHeight()/2, 1)

	switch {
	case key.Matches(msg, m.keys.Down):
		if m.selected < count-1 {
			m.selected++
		} else if m.window.HasMore(total) {
			m.window.LoadMore(total)
			m.selected++
		}
	case key.Matches(msg, m.keys.Up):
		if m.selected > 0 {
			m.selected--
		}
	case key.Matches(msg, m.keys.Top):
		m.selected = 0
	case key.Matches(msg, m.keys.Bottom):
		m.selected = count - 1
	case key.Matches(msg, m.keys.HalfPageDown):
		m.selected = min(m.selected+half, count-1)
	case key.Matches(msg, m.keys.HalfPageUp):
		m.selected = max(m.selected-half, 0)
	}
}

// cycleCategory returns the category id step positions away from current.
// The empty id stands for all categories and comes first.
func cycleCategory(categories []dam.Category, current string, step int) string {
	ids := make([]string, 0, len(categories)+1)
	ids = append(ids, "")
	for _, c := range categories {
		ids = append(ids, c.ID)
	}
	idx := 0
	for i, id := range ids {
		if id == current {
			idx = i
			break
		}
	}
	n := len(ids)
	return ids[((idx+step)%n+n)%n]
}

func categoryName(categories []dam.Category, id string) string {
	if id == "" {
		return "All assets"
	}
	for _, c := range categories {
		if c.ID == id {
			return c.Name
		}
	}
	return id
}

// listHeight is the number of asset rows that fit between header and footer.
func (m Model) listHeight() int {
	return max(m.height-3, 1)
}

// renderMain renders the full UI.
func (m Model) renderMain() string {
	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderList())
	b.WriteString("\n")
	b.WriteString(m.renderFooter())
	return b.String()
}

func (m Model) renderList() string {
	styles := m.theme.Styles()
	height := m.listHeight()

	visible := m.visibleAssets()
	if len(visible) == 0 {
		msg := "No assets in this view"
		if m.snapshot.LastUpdated.IsZero() {
			msg = "Loading assets..."
		}
		return lipgloss.Place(m.width, height, lipgloss.Center, lipgloss.Center, styles.MutedText.Render(msg))
	}

	offset := 0
	if m.selected >= height {
		offset = m.selected - height + 1
	}
	end := min(offset+height, len(visible))

	lines := make([]string, 0, height)
	for i := offset; i < end; i++ {
		lines = append(lines, m.renderRow(visible[i], i == m.selected))
	}
	for len(lines) < height {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderRow(a *asset.Asset, selected bool) string {
	styles := m.theme.Styles()
	st := asset.Classify(a)

	chip := styles.StatusStyle(chipKey(a, st)).Render(padRight(chipLabel(a, st), 11))

	// leading space, padded chip, separators and the filename column
	used := 1 + 13 + 1 + 29
	if m.width >= LayoutCompactWidth {
		used += 27
	}
	if m.width >= LayoutWideWidth {
		used += 19
	}
	titleWidth := max(m.width-used, 12)

	parts := []string{
		padRight(truncate(displayTitle(a), titleWidth), titleWidth),
		padRight(truncateMiddle(a.OriginalFilename, 28), 28),
	}
	if m.width >= LayoutCompactWidth {
		parts = append(parts, padRight(truncate(a.MimeType, 26), 26))
	}
	if m.width >= LayoutWideWidth {
		parts = append(parts, padRight(renditionLabel(a), 18))
	}

	text := strings.Join(parts, " ")
	if selected {
		text = styles.Selected.Render(text)
	} else {
		text = styles.Text.Render(text)
	}
	return " " + chip + " " + text
}

func (m Model) renderFooter() string {
	styles := m.theme.Styles()
	total := len(m.snapshot.Assets)
	shown := m.window.Count(total)

	parts := []string{fmt.Sprintf("Showing %d of %d", shown, total)}
	if m.window.HasMore(total) {
		parts = append(parts, "m load more")
	}
	if m.searching {
		return styles.Footer.Width(m.width).Render(m.searchInput.View())
	}
	parts = append(parts, "/ search", "c category", "enter details", "? help")
	if m.busy {
		parts = append(parts, styles.WarningText.Render("working..."))
	}
	if m.notice != "" {
		parts = append(parts, styles.DangerText.Render(truncate(m.notice, 60)))
	}
	return styles.Footer.Width(m.width).Render(strings.Join(parts, "  ·  "))
}

func displayTitle(a *asset.Asset) string {
	if t := strings.TrimSpace(a.Title); t != "" {
		return t
	}
	if a.OriginalFilename != "" {
		return a.OriginalFilename
	}
	return a.ID
}

// chipKey picks the theme color: raw status while work is in flight,
// otherwise the classified state.
func chipKey(a *asset.Asset, st asset.ThumbnailState) string {
	if st == asset.StatePending && a.ThumbnailStatus.Normalize() == asset.StatusProcessing {
		return string(asset.StatusProcessing)
	}
	return st.String()
}

func chipLabel(a *asset.Asset, st asset.ThumbnailState) string {
	switch st {
	case asset.StateAvailable:
		return "ready"
	case asset.StateFailed:
		return "failed"
	case asset.StateNotSupported:
		return "no preview"
	}
	if a.ThumbnailStatus.Normalize() == asset.StatusProcessing {
		return "processing"
	}
	return "pending"
}

// renditionLabel summarises which thumbnail the asset would render.
func renditionLabel(a *asset.Asset) string {
	switch {
	case a.FinalThumbnailURL != nil && strings.TrimSpace(*a.FinalThumbnailURL) != "":
		if a.ThumbnailVersion != nil {
			return "final v" + string(*a.ThumbnailVersion)
		}
		return "final"
	case a.PreviewThumbnailURL != nil && strings.TrimSpace(*a.PreviewThumbnailURL) != "":
		return "preview"
	case a.ThumbnailURL != nil && strings.TrimSpace(*a.ThumbnailURL) != "":
		return "legacy"
	default:
		return "-"
	}
}
