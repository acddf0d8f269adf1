package diffviewer

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/vines/internal/diff"
)

func fileFixture() diff.File {
	return diff.File{
		OldPath:   "main.go",
		NewPath:   "main.go",
		Additions: 1,
		Deletions: 1,
		Hunks: []diff.Hunk{{
			OldStart: 1, OldCount: 3, NewStart: 1, NewCount: 3,
			Header: "@@ -1,3 +1,3 @@",
			Lines: []diff.Line{
				{Type: diff.LineHunkHeader},
				{Type: diff.LineContext, OldNum: 1, NewNum: 1, Content: "package main"},
				{Type: diff.LineDeletion, OldNum: 2, Content: "count := 1"},
				{Type: diff.LineAddition, NewNum: 2, Content: "count := 2"},
				{Type: diff.LineContext, OldNum: 3, NewNum: 3, Content: "return count"},
			},
		}},
	}
}

func unifiedOpts() viewOptions {
	return viewOptions{Width: 120, Cursor: 0, Focused: true}
}

func TestRenderFile_Unified(t *testing.T) {
	m := diff.NewFileModel(fileFixture())
	lines := renderFile(m, unifiedOpts())

	require.Len(t, lines, 6, "file header, hunk header, four body lines")
	require.Contains(t, lines[0], "main.go")
	require.Contains(t, lines[0], "+1")
	require.Contains(t, lines[0], "-1")
	require.Contains(t, lines[1], "@@ -1,3 +1,3 @@")
	require.Contains(t, lines[2], "package main")
	require.Contains(t, lines[3], "-")
	require.Contains(t, lines[3], "count := 1")
	require.Contains(t, lines[4], "+")
	require.Contains(t, lines[4], "count := 2")
}

func TestRenderFile_GutterNumbers(t *testing.T) {
	m := diff.NewFileModel(fileFixture())
	lines := renderFile(m, unifiedOpts())

	require.Contains(t, lines[2], "1", "context keeps both numbers")
	require.Contains(t, lines[3], "2")
	require.Contains(t, lines[3], "│")
}

func TestRenderFile_WordDiffSegments(t *testing.T) {
	m := diff.NewFileModel(fileFixture())
	opts := unifiedOpts()
	opts.WordDiff = true
	lines := renderFile(m, opts)

	// Segment rendering reassembles the full line content.
	require.Contains(t, lines[3], "count := 1")
	require.Contains(t, lines[4], "count := 2")
}

func TestRenderFile_SideBySide(t *testing.T) {
	m := diff.NewFileModel(fileFixture())
	opts := viewOptions{Width: 140, SideBySide: true, Focused: true}
	lines := renderFile(m, opts)

	require.Len(t, lines, 5, "deletion and addition share one row")
	modRow := lines[3]
	require.Contains(t, modRow, "count := 1")
	require.Contains(t, modRow, "count := 2")
}

func TestRenderFile_SideBySideFallsBackWhenNarrow(t *testing.T) {
	m := diff.NewFileModel(fileFixture())
	opts := viewOptions{Width: 60, SideBySide: true}

	require.Len(t, renderFile(m, opts), 6, "narrow panes render unified")
}

func TestRenderFile_SelectedHunkMarker(t *testing.T) {
	m := diff.NewFileModel(fileFixture())
	focused := renderFile(m, viewOptions{Width: 120, Cursor: 0, Focused: true})
	require.Contains(t, focused[1], "▌")

	blurred := renderFile(m, viewOptions{Width: 120, Cursor: 0})
	require.NotContains(t, blurred[1], "▌")
}

func TestRenderFile_StagedBadge(t *testing.T) {
	m := diff.NewFileModel(fileFixture())
	require.NoError(t, m.BeginStage(0))
	require.NoError(t, m.Settle(0, true))

	lines := renderFile(m, unifiedOpts())
	require.Contains(t, lines[1], "✓")
}

func TestRenderFile_Binary(t *testing.T) {
	f := diff.File{OldPath: "logo.png", NewPath: "logo.png", IsBinary: true}
	lines := renderFile(diff.NewFileModel(f), unifiedOpts())

	require.Contains(t, strings.Join(lines, "\n"), "Binary file not shown")
}

func TestRenderFile_NoModel(t *testing.T) {
	lines := renderFile(nil, unifiedOpts())
	require.Len(t, lines, 1)
	require.Contains(t, lines[0], "No changes")
}

func TestRenderFile_TruncatesToWidth(t *testing.T) {
	f := fileFixture()
	f.Hunks[0].Lines[1].Content = strings.Repeat("wide ", 40)
	m := diff.NewFileModel(f)

	for _, line := range renderFile(m, viewOptions{Width: 50}) {
		require.LessOrEqual(t, lipgloss.Width(line), 50)
	}
}

func TestHunkOffsets(t *testing.T) {
	f := fileFixture()
	second := f.Hunks[0]
	second.Header = "@@ -10,2 +10,2 @@"
	f.Hunks = append(f.Hunks, second)
	m := diff.NewFileModel(f)

	offsets := hunkOffsets(m, unifiedOpts())
	require.Equal(t, []int{1, 6}, offsets)

	lines := renderFile(m, unifiedOpts())
	require.Contains(t, lines[offsets[1]], "@@ -10,2 +10,2 @@")
}
