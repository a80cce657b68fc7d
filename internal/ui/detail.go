package ui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/damview/internal/asset"
)

// renderDetail renders the asset detail modal. The asset is looked up by id on
// every frame so poll deliveries show up while the modal is open.
func (m Model) renderDetail() string {
	styles := m.theme.Styles()
	a := asset.Find(m.snapshot.Assets, m.detailID)

	var b strings.Builder
	if a == nil {
		b.WriteString(styles.MutedText.Render("This asset is no longer in the view."))
	} else {
		st := asset.Classify(a)
		b.WriteString(styles.Text.Bold(true).Render(truncate(displayTitle(a), 60)))
		b.WriteString("  ")
		b.WriteString(styles.StatusStyle(chipKey(a, st)).Render(chipLabel(a, st)))
		b.WriteString("\n")
		b.WriteString(styles.FaintText.Render(strings.Repeat("─", 40)))
		b.WriteString("\n\n")

		for _, row := range detailRows(a) {
			b.WriteString(styles.MutedText.Width(14).Render(row[0]))
			b.WriteString(styles.Text.Render(row[1]))
			b.WriteString("\n")
		}

		if len(a.Metadata) > 0 {
			b.WriteString("\n")
			b.WriteString(styles.AccentText.Bold(true).Render("Metadata"))
			b.WriteString("\n")
			keys := make([]string, 0, len(a.Metadata))
			for k := range a.Metadata {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				b.WriteString(styles.MutedText.Width(14).Render(truncate(k, 13)))
				b.WriteString(styles.Text.Render(truncate(fmt.Sprint(a.Metadata[k]), 50)))
				b.WriteString("\n")
			}
		}
	}
	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render("esc to close · updates pause while open"))

	modal := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(m.theme.Accent)).
		Padding(1, 2).
		Width(min(72, max(m.width-4, 20)))

	return lipgloss.Place(
		m.width,
		m.height,
		lipgloss.Center,
		lipgloss.Center,
		modal.Render(b.String()),
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(lipgloss.Color(m.theme.Background)),
	)
}

// detailRows lists label/value pairs for the modal. Empty values are skipped.
func detailRows(a *asset.Asset) [][2]string {
	rows := [][2]string{
		{"ID", a.ID},
		{"File", a.OriginalFilename},
		{"Type", a.MimeType},
		{"Lifecycle", a.Lifecycle},
		{"Status", string(a.ThumbnailStatus)},
		{"Rendition", renditionLabel(a)},
		{"Thumbnail", truncateMiddle(a.DisplayURL(), 54)},
	}
	if a.ThumbnailError != nil {
		rows = append(rows, [2]string{"Error", truncate(*a.ThumbnailError, 54)})
	}
	if a.ThumbnailsGeneratedAt != nil {
		rows = append(rows, [2]string{"Generated", *a.ThumbnailsGeneratedAt})
	}
	if a.IsPDF {
		pages := "unknown"
		if a.PDFPageCount != nil {
			pages = fmt.Sprintf("%d", *a.PDFPageCount)
		}
		rows = append(rows, [2]string{"PDF pages", pages})
		if a.FirstPageURL != nil {
			rows = append(rows, [2]string{"First page", truncateMiddle(*a.FirstPageURL, 54)})
		}
	}

	out := rows[:0]
	for _, r := range rows {
		if strings.TrimSpace(r[1]) != "" {
			out = append(out, r)
		}
	}
	return out
}
