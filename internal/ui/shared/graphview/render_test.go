package graphview

import (
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/vines/internal/graph"
)

func commit(hash, subject string, parents ...string) graph.Commit {
	return graph.Commit{
		Hash:      hash,
		ShortHash: hash[:min(7, len(hash))],
		Parents:   parents,
		Subject:   subject,
		Author:    "ada",
		Date:      time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC),
	}
}

func layoutOf(commits ...graph.Commit) graph.Layout {
	return graph.NewEngine(8).Extend(commits)
}

func TestRenderRows_LinearChain(t *testing.T) {
	layout := layoutOf(
		commit("aaaaaaa", "third", "bbbbbbb"),
		commit("bbbbbbb", "second", "ccccccc"),
		commit("ccccccc", "first"),
	)

	out := renderRows(layout, 0, 0, 80, 3, true)
	lines := strings.Split(out, "\n")

	require.Len(t, lines, 3)
	for i, want := range []string{"third", "second", "first"} {
		require.Contains(t, lines[i], glyphCommit)
		require.Contains(t, lines[i], want)
		require.Contains(t, lines[i], "ada")
	}
}

func TestRenderRows_MergeGlyph(t *testing.T) {
	layout := layoutOf(
		commit("mmmmmmm", "merge branch", "aaaaaaa", "bbbbbbb"),
		commit("aaaaaaa", "mainline"),
		commit("bbbbbbb", "feature"),
	)

	lines := strings.Split(renderRows(layout, 0, 0, 80, 3, true), "\n")

	require.Contains(t, lines[0], glyphMerge, "merge commits use the hollow glyph")
	require.Contains(t, lines[0], glyphBranchR, "second parent lane branches out on the merge row")
	require.Contains(t, lines[1], glyphVertical, "feature lane passes through the mainline row")
	require.Contains(t, lines[2], glyphMergeL, "feature lane bends into its commit")
}

func TestRenderRows_SelectionIndicator(t *testing.T) {
	layout := layoutOf(commit("aaaaaaa", "only"))

	focused := renderRows(layout, 0, 0, 60, 1, true)
	require.Contains(t, focused, "▶")

	unfocused := renderRows(layout, 0, 0, 60, 1, false)
	require.NotContains(t, unfocused, "▶")
}

func TestRenderRows_Refs(t *testing.T) {
	c := commit("aaaaaaa", "tip")
	c.Refs = []graph.Ref{
		{Name: "main", Type: graph.RefTypeBranch, IsHead: true},
		{Name: "v1.0", Type: graph.RefTypeTag},
	}
	layout := layoutOf(c)

	out := renderRows(layout, 0, 0, 100, 1, true)
	require.Contains(t, out, "HEAD -> ")
	require.Contains(t, out, "main")
	require.Contains(t, out, "tag: v1.0")
}

func TestRenderRows_ScrollWindow(t *testing.T) {
	layout := layoutOf(
		commit("aaaaaaa", "newest", "bbbbbbb"),
		commit("bbbbbbb", "middle", "ccccccc"),
		commit("ccccccc", "oldest"),
	)

	out := renderRows(layout, 2, 1, 80, 2, true)

	require.NotContains(t, out, "newest", "scrolled-off rows are not rendered")
	require.Contains(t, out, "middle")
	require.Contains(t, out, "oldest")
}

func TestRenderRows_WidthRespected(t *testing.T) {
	layout := layoutOf(commit("aaaaaaa", strings.Repeat("long subject ", 20)))

	out := renderRows(layout, 0, 0, 40, 1, true)
	for _, line := range strings.Split(out, "\n") {
		require.LessOrEqual(t, lipgloss.Width(line), 40)
	}
}

func TestRenderRows_Empty(t *testing.T) {
	out := renderRows(graph.Layout{}, 0, 0, 40, 3, true)
	require.Contains(t, out, "No commits yet")
}

func TestRenderRows_PadsToHeight(t *testing.T) {
	layout := layoutOf(commit("aaaaaaa", "only"))

	out := renderRows(layout, 0, 0, 40, 5, true)
	require.Len(t, strings.Split(out, "\n"), 5)
}
