package graphview

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/zjrosen/vines/internal/graph"
	"github.com/zjrosen/vines/internal/ui/styles"
)

// Gutter glyphs. One cell per lane, one row per commit; lanes that pass
// through a row render as a vertical bar, branch and merge transitions as
// rounded corners.
const (
	glyphCommit     = "●"
	glyphMerge      = "○"
	glyphVertical   = "│"
	glyphHorizontal = "─"
	glyphBranchR    = "╮"
	glyphBranchL    = "╭"
	glyphMergeR     = "╯"
	glyphMergeL     = "╰"
)

// laneCell is one gutter cell before styling.
type laneCell struct {
	glyph string
	color int
}

// gutterRow computes the styled lane gutter for one row of the layout.
// pending holds the edges still travelling toward parents below this row,
// keyed by parent hash; outgoing holds this commit's own parent edges.
func gutterRow(row graph.Row, pending map[string][]graph.Edge, outgoing []graph.Edge, laneCount int) string {
	cells := make([]laneCell, laneCount)

	// Pass-through lanes: edges heading to parents that are not this commit
	for target, edges := range pending {
		if target == row.Commit.Hash {
			continue
		}
		for _, e := range edges {
			if e.ToColumn < laneCount && cells[e.ToColumn].glyph == "" {
				cells[e.ToColumn] = laneCell{glyphVertical, e.ColorIndex}
			}
		}
	}

	// Edges terminating here from another column bend into the node
	for _, e := range pending[row.Commit.Hash] {
		if e.FromColumn == e.ToColumn {
			continue
		}
		drawTransition(cells, e.FromColumn, row.Column, e.ColorIndex, glyphMergeR, glyphMergeL)
	}

	// Branch-out corners for parents claimed into other columns
	for _, e := range outgoing {
		if e.ToColumn == e.FromColumn {
			continue
		}
		drawTransition(cells, e.ToColumn, row.Column, e.ColorIndex, glyphBranchR, glyphBranchL)
	}

	node := glyphCommit
	if row.Commit.IsMerge() {
		node = glyphMerge
	}
	if row.Column < laneCount {
		cells[row.Column] = laneCell{node, row.ColorIndex}
	}

	var b strings.Builder
	for i, cell := range cells {
		if i > 0 {
			b.WriteString(" ")
		}
		if cell.glyph == "" {
			b.WriteString(" ")
			continue
		}
		b.WriteString(styles.ColorIndexStyle(cell.color).Render(cell.glyph))
	}
	return b.String()
}

// drawTransition draws a corner at endCol bending toward nodeCol, filling
// the span between with horizontal strokes. Occupied cells are left alone.
func drawTransition(cells []laneCell, endCol, nodeCol, color int, rightGlyph, leftGlyph string) {
	if endCol < 0 || endCol >= len(cells) {
		return
	}
	corner := rightGlyph
	if endCol < nodeCol {
		corner = leftGlyph
	}
	if cells[endCol].glyph == "" || cells[endCol].glyph == glyphVertical {
		cells[endCol] = laneCell{corner, color}
	}
	lo, hi := min(endCol, nodeCol), max(endCol, nodeCol)
	for i := lo + 1; i < hi; i++ {
		if cells[i].glyph == "" {
			cells[i] = laneCell{glyphHorizontal, color}
		}
	}
}

// renderRefs renders a commit's decorations: (HEAD -> main, origin/main, tag: v1.0)
func renderRefs(refs []graph.Ref) string {
	if len(refs) == 0 {
		return ""
	}

	parts := make([]string, 0, len(refs))
	for _, r := range refs {
		switch {
		case r.Type == graph.RefTypeHead:
			parts = append(parts, styles.HeadBadgeStyle.Render("HEAD"))
		case r.Type == graph.RefTypeTag:
			parts = append(parts, styles.TagRefStyle.Render("tag: "+r.Name))
		case r.IsHead:
			parts = append(parts, styles.HeadBadgeStyle.Render("HEAD -> ")+styles.BranchRefStyle.Render(r.Name))
		default:
			parts = append(parts, styles.BranchRefStyle.Render(r.Name))
		}
	}
	return styles.SubjectDimStyle.Render("(") + strings.Join(parts, styles.SubjectDimStyle.Render(", ")) + styles.SubjectDimStyle.Render(") ")
}

// renderCommitRow renders one full graph line: selection margin, lane
// gutter, short hash, refs, subject, author and date, truncated to width.
func renderCommitRow(row graph.Row, pending map[string][]graph.Edge, outgoing []graph.Edge, laneCount int, selected, focused bool, width int) string {
	if width < 1 {
		return ""
	}

	margin := "  "
	if selected && focused {
		margin = styles.SelectionIndicatorStyle.Render("▶ ")
	}

	gutter := gutterRow(row, pending, outgoing, laneCount)

	hash := styles.HashStyle.Render(row.Commit.ShortHash)
	refs := renderRefs(row.Commit.Refs)

	subjectStyle := styles.SummaryStyle
	if selected && focused {
		subjectStyle = subjectStyle.Bold(true)
	}
	subject := subjectStyle.Render(row.Commit.Subject)

	meta := styles.AuthorStyle.Render(row.Commit.Author) + " " +
		styles.DateStyle.Render(row.Commit.Date.Format("2006-01-02"))

	line := margin + gutter + " " + hash + " " + refs + subject + " " + meta
	if lipgloss.Width(line) > width {
		line = ansi.Truncate(line, width, "…")
	}
	if pad := width - lipgloss.Width(line); pad > 0 {
		line += strings.Repeat(" ", pad)
	}
	return line
}

// renderRows renders the visible window of the layout. Edge bookkeeping is
// replayed from the top so pass-through lanes are correct regardless of
// scroll position.
func renderRows(layout graph.Layout, cursor, scrollTop, width, height int, focused bool) string {
	if height < 1 || width < 1 {
		return ""
	}
	if len(layout.Rows) == 0 {
		return renderEmptyPlaceholder(width, height)
	}

	byChild := edgesByChild(layout.Edges)
	pending := make(map[string][]graph.Edge)

	end := min(scrollTop+height, len(layout.Rows))
	var lines []string

	for i, row := range layout.Rows {
		if i >= end {
			break
		}
		if i >= scrollTop {
			lines = append(lines, renderCommitRow(row, pending, byChild[row.Commit.Hash], layout.MaxColumn, i == cursor, focused, width))
		}
		delete(pending, row.Commit.Hash)
		for _, e := range byChild[row.Commit.Hash] {
			pending[e.ToHash] = append(pending[e.ToHash], e)
		}
	}

	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}
	return strings.Join(lines, "\n")
}

func edgesByChild(edges []graph.Edge) map[string][]graph.Edge {
	m := make(map[string][]graph.Edge)
	for _, e := range edges {
		m[e.FromHash] = append(m[e.FromHash], e)
	}
	return m
}

func renderEmptyPlaceholder(width, height int) string {
	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center).
		Foreground(styles.TextMutedColor).
		Render("No commits yet")
}
