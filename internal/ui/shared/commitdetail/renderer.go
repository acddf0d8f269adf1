package commitdetail

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/zjrosen/vines/internal/diff"
	"github.com/zjrosen/vines/internal/graph"
	"github.com/zjrosen/vines/internal/ui/styles"
)

var mutedStyle = lipgloss.NewStyle().Foreground(styles.TextMutedColor)

// renderDetail produces the full line list for a commit; the model
// windows it for display.
func renderDetail(c *graph.Commit, body string, files []diff.File, loading bool, err error, width int) []string {
	if c == nil {
		return []string{mutedStyle.Render("No commit selected")}
	}

	lines := []string{
		styles.HashStyle.Render(c.ShortHash) + " " + styles.SummaryStyle.Bold(true).Render(c.Subject),
		mutedStyle.Render(fmt.Sprintf("%s · %s", c.Author, c.Date.Format("2006-01-02 15:04"))),
	}
	if refs := renderRefs(c.Refs); refs != "" {
		lines = append(lines, refs)
	}
	if len(c.Parents) > 1 {
		lines = append(lines, mutedStyle.Render(fmt.Sprintf("merge of %d parents", len(c.Parents))))
	}

	if body != "" {
		lines = append(lines, "")
		lines = append(lines, strings.Split(strings.TrimRight(body, "\n"), "\n")...)
	}

	lines = append(lines, "")
	switch {
	case err != nil:
		lines = append(lines, styles.ErrorStyle.Render(err.Error()))
	case loading:
		lines = append(lines, mutedStyle.Render("Loading changes..."))
	case len(files) == 0:
		lines = append(lines, mutedStyle.Render("No changes"))
	default:
		lines = append(lines, renderStats(files)...)
	}
	return truncateAll(lines, width)
}

// renderStats is a diffstat: one row per file plus a totals row.
func renderStats(files []diff.File) []string {
	adds, dels := 0, 0
	out := make([]string, 0, len(files)+1)
	for _, f := range files {
		adds += f.Additions
		dels += f.Deletions
		name := f.Path()
		if f.IsRenamed {
			name = fmt.Sprintf("%s -> %s", f.OldPath, f.NewPath)
		}
		counts := styles.DiffAddedStyle.Render(fmt.Sprintf("+%d", f.Additions)) + " " +
			styles.DiffRemovedStyle.Render(fmt.Sprintf("-%d", f.Deletions))
		if f.IsBinary {
			counts = mutedStyle.Render("binary")
		}
		out = append(out, fmt.Sprintf("  %s  %s", styles.SummaryStyle.Render(name), counts))
	}
	out = append(out, mutedStyle.Render(fmt.Sprintf("%d file(s) changed, %d insertion(s), %d deletion(s)", len(files), adds, dels)))
	return out
}

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
	return strings.Join(parts, mutedStyle.Render(", "))
}

// window slices lines to the viewport and pads to height.
func window(lines []string, scroll, width, height int) string {
	end := min(scroll+height, len(lines))
	start := min(scroll, end)
	visible := make([]string, 0, height)
	visible = append(visible, lines[start:end]...)
	for len(visible) < height {
		visible = append(visible, "")
	}
	return strings.Join(visible, "\n")
}

func truncateAll(lines []string, width int) []string {
	if width <= 0 {
		return lines
	}
	for i, line := range lines {
		if lipgloss.Width(line) > width {
			lines[i] = ansi.Truncate(line, width, "…")
		}
	}
	return lines
}
