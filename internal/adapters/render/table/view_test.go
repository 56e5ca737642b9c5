package table

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderAlignsColumns(t *testing.T) {
	output, err := Render(Table{
		Title:   "Projects",
		Columns: []string{"ID", "TITLE", "CATEGORY"},
		Rows: [][]string{
			{"p-1", "Portfolio", "web"},
			{"p-22", "CLI", "tooling"},
		},
	}, RenderOptions{IDColumn: 0})
	require.NoError(t, err)

	assert.Contains(t, output, "Projects")
	assert.Contains(t, output, "entries: 2")
	assert.Contains(t, output, "Portfolio")
	assert.Contains(t, output, "tooling")

	var header, first string
	for _, line := range strings.Split(output, "\n") {
		switch {
		case strings.Contains(line, "TITLE"):
			header = line
		case strings.Contains(line, "Portfolio"):
			first = line
		}
	}
	require.NotEmpty(t, header)
	require.NotEmpty(t, first)
	assert.Equal(t, strings.Index(header, "TITLE"), strings.Index(first, "Portfolio"))
}

func TestRenderEmptyTable(t *testing.T) {
	output, err := Render(Table{
		Title:   "Reviews",
		Columns: []string{"ID", "NAME"},
		Empty:   "No reviews found.",
	}, RenderOptions{})
	require.NoError(t, err)

	assert.Contains(t, output, "entries: 0")
	assert.Contains(t, output, "No reviews found.")
	assert.NotContains(t, output, "NAME")
}

func TestRenderTruncatesLongCells(t *testing.T) {
	output, err := Render(Table{
		Columns: []string{"ID", "BIO"},
		Rows:    [][]string{{"1", strings.Repeat("x", 80)}},
	}, RenderOptions{MaxCellWidth: 10, IDColumn: -1})
	require.NoError(t, err)

	assert.Contains(t, output, "xxxxxxxxx…")
	assert.NotContains(t, output, strings.Repeat("x", 11))
}

func TestRenderFlattensMultilineCells(t *testing.T) {
	output, err := Render(Table{
		Columns: []string{"ID", "MESSAGE"},
		Rows:    [][]string{{"m-1", "hello\nthere"}},
	}, RenderOptions{IDColumn: -1})
	require.NoError(t, err)

	assert.Contains(t, output, "hello there")
}

func TestTruncateHandlesWideRunes(t *testing.T) {
	got := truncate("日本語テキスト", 7)
	assert.LessOrEqual(t, lipgloss.Width(got), 7)
	assert.True(t, strings.HasSuffix(got, "…"))
}
