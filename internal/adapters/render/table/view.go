package table

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const (
	defaultMaxCellWidth = 48
	columnGap           = "  "
	ellipsis            = "…"
)

type Table struct {
	Title   string
	Columns []string
	Rows    [][]string
	// Empty is shown instead of the header when there are no rows.
	Empty string
}

type RenderOptions struct {
	MaxCellWidth int
	// IDColumn highlights that column; -1 disables highlighting.
	IDColumn int
}

func renderView(t Table, opts RenderOptions, s styles) string {
	lines := make([]string, 0, len(t.Rows)+3)
	if t.Title != "" {
		lines = append(lines, s.title.Render(t.Title))
	}
	lines = append(lines, s.count.Render(fmt.Sprintf("entries: %d", len(t.Rows))))

	if len(t.Rows) == 0 {
		empty := t.Empty
		if empty == "" {
			empty = "Nothing to show."
		}
		lines = append(lines, s.empty.Render(empty))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	maxWidth := opts.MaxCellWidth
	if maxWidth <= 0 {
		maxWidth = defaultMaxCellWidth
	}

	rows := make([][]string, len(t.Rows))
	for i, row := range t.Rows {
		rows[i] = make([]string, len(t.Columns))
		for col := range t.Columns {
			if col < len(row) {
				rows[i][col] = truncate(singleLine(row[col]), maxWidth)
			}
		}
	}
	widths := columnWidths(t.Columns, rows)

	header := make([]string, len(t.Columns))
	for col, name := range t.Columns {
		header[col] = s.header.Render(pad(name, widths[col]))
	}
	lines = append(lines, strings.TrimRight(strings.Join(header, columnGap), " "))

	for _, row := range rows {
		cells := make([]string, len(row))
		for col, cell := range row {
			style := s.cell
			if col == opts.IDColumn {
				style = s.id
			}
			cells[col] = style.Render(pad(cell, widths[col]))
		}
		lines = append(lines, strings.TrimRight(strings.Join(cells, columnGap), " "))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func columnWidths(columns []string, rows [][]string) []int {
	widths := make([]int, len(columns))
	for col, name := range columns {
		widths[col] = lipgloss.Width(name)
	}
	for _, row := range rows {
		for col, cell := range row {
			if w := lipgloss.Width(cell); w > widths[col] {
				widths[col] = w
			}
		}
	}
	return widths
}

func pad(text string, width int) string {
	gap := width - lipgloss.Width(text)
	if gap <= 0 {
		return text
	}
	return text + strings.Repeat(" ", gap)
}

func singleLine(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

func truncate(text string, maxWidth int) string {
	if lipgloss.Width(text) <= maxWidth {
		return text
	}
	runes := []rune(text)
	for length := len(runes) - 1; length >= 0; length-- {
		candidate := string(runes[:length])
		if lipgloss.Width(candidate)+lipgloss.Width(ellipsis) <= maxWidth {
			return candidate + ellipsis
		}
	}
	return ""
}
