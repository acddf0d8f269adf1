package diffviewer

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/zjrosen/vines/internal/diff"
	"github.com/zjrosen/vines/internal/ui/styles"
)

// sideBySideMinWidth is the narrowest pane that still fits two readable
// columns. Below it the viewer falls back to unified rendering.
const sideBySideMinWidth = 100

var mutedStyle = lipgloss.NewStyle().Foreground(styles.TextMutedColor)

type viewOptions struct {
	Width      int
	SideBySide bool
	WordDiff   bool
	Cursor     int
	Focused    bool
}

// useSideBySide resolves the requested layout against available width.
func (o viewOptions) useSideBySide() bool {
	return o.SideBySide && o.Width >= sideBySideMinWidth
}

// renderFile produces every display line for a file diff. Scrolling is
// the caller's concern; this always renders the full file.
func renderFile(m *diff.FileModel, opts viewOptions) []string {
	if m == nil {
		return []string{mutedStyle.Render("No changes")}
	}
	file := m.File()
	lines := renderFileHeader(file)
	if file.IsBinary {
		lines = append(lines, mutedStyle.Render("Binary file not shown"))
		return truncateAll(lines, opts.Width)
	}
	if len(file.Hunks) == 0 {
		lines = append(lines, mutedStyle.Render("No changes"))
		return truncateAll(lines, opts.Width)
	}

	for i := range file.Hunks {
		lines = append(lines, renderHunkHeader(m, i, opts))
		if opts.useSideBySide() {
			lines = append(lines, renderSideBySideHunk(m, i, opts)...)
		} else {
			lines = append(lines, renderUnifiedHunk(m, i, opts)...)
		}
	}
	return truncateAll(lines, opts.Width)
}

// hunkOffsets returns the display line index of each hunk header, for
// scrolling the cursor's hunk into view. Must mirror renderFile's line
// accounting exactly.
func hunkOffsets(m *diff.FileModel, opts viewOptions) []int {
	if m == nil {
		return nil
	}
	file := m.File()
	offsets := make([]int, 0, len(file.Hunks))
	pos := len(renderFileHeader(file))
	for _, h := range file.Hunks {
		offsets = append(offsets, pos)
		pos++ // hunk header row
		if opts.useSideBySide() {
			pos += len(alignHunk(bodyOf(h)))
		} else {
			pos += len(bodyOf(h).Lines)
		}
	}
	return offsets
}

// bodyOf strips the hunk header pseudo line; the header row renders it.
func bodyOf(h diff.Hunk) diff.Hunk {
	if len(h.Lines) > 0 && h.Lines[0].Type == diff.LineHunkHeader {
		h.Lines = h.Lines[1:]
	}
	return h
}

func renderFileHeader(f diff.File) []string {
	name := f.Path()
	switch {
	case f.IsRenamed:
		name = fmt.Sprintf("%s -> %s", f.OldPath, f.NewPath)
	case f.IsNew || f.IsUntracked:
		name += " (new)"
	case f.IsDeleted:
		name += " (deleted)"
	}
	counts := fmt.Sprintf(" %s %s",
		styles.DiffAddedStyle.Render(fmt.Sprintf("+%d", f.Additions)),
		styles.DiffRemovedStyle.Render(fmt.Sprintf("-%d", f.Deletions)))
	return []string{styles.DiffFileHeaderStyle.Render(name) + counts}
}

func renderHunkHeader(m *diff.FileModel, i int, opts viewOptions) string {
	h, err := m.Hunk(i)
	if err != nil {
		return ""
	}
	badge := stateBadge(m.State(i))
	header := styles.DiffHunkHeaderStyle.Render(h.Header)
	if i == opts.Cursor && opts.Focused {
		return styles.HunkSelectedStyle.Render("▌") + badge + " " + header
	}
	return " " + badge + " " + header
}

func stateBadge(s diff.HunkState) string {
	switch {
	case s == diff.HunkStaged:
		return styles.HunkStagedStyle.Render("✓")
	case s.InFlight():
		return styles.HunkPendingStyle.Render("~")
	default:
		return styles.DiffLineNumberStyle.Render("·")
	}
}

func renderUnifiedHunk(m *diff.FileModel, hunkIdx int, opts viewOptions) []string {
	h, err := m.Hunk(hunkIdx)
	if err != nil {
		return nil
	}
	body := bodyOf(h)
	skipped := len(h.Lines) - len(body.Lines)

	out := make([]string, 0, len(body.Lines))
	for li, line := range body.Lines {
		gutter := styles.DiffLineNumberStyle.Render(
			fmt.Sprintf("%4s %4s │ ", lineNum(line.OldNum), lineNum(line.NewNum)))
		out = append(out, gutter+renderContent(m, hunkIdx, li+skipped, line, opts))
	}
	return out
}

// renderContent colors one line body, with word level segments when a
// deletion/addition pair exists for it.
func renderContent(m *diff.FileModel, hunkIdx, lineIdx int, line diff.Line, opts viewOptions) string {
	switch line.Type {
	case diff.LineAddition:
		if opts.WordDiff {
			if res, ok := m.WordDiffFor(hunkIdx, lineIdx); ok {
				return "+" + renderSegments(res.New, styles.DiffAddedStyle, styles.WordAddedStyle)
			}
		}
		return styles.DiffAddedStyle.Render("+" + line.Content)
	case diff.LineDeletion:
		if opts.WordDiff {
			if res, ok := m.WordDiffFor(hunkIdx, lineIdx); ok {
				return "-" + renderSegments(res.Old, styles.DiffRemovedStyle, styles.WordRemovedStyle)
			}
		}
		return styles.DiffRemovedStyle.Render("-" + line.Content)
	default:
		return styles.DiffContextStyle.Render(" " + line.Content)
	}
}

// renderSegments styles a word change list, highlighting the changed
// runs against the line's base color.
func renderSegments(changes []diff.WordChange, base, highlight lipgloss.Style) string {
	var b strings.Builder
	for _, c := range changes {
		if c.Added || c.Removed {
			b.WriteString(highlight.Render(c.Value))
		} else {
			b.WriteString(base.Render(c.Value))
		}
	}
	return b.String()
}

func renderSideBySideHunk(m *diff.FileModel, hunkIdx int, opts viewOptions) []string {
	h, err := m.Hunk(hunkIdx)
	if err != nil {
		return nil
	}
	body := bodyOf(h)
	skipped := len(h.Lines) - len(body.Lines)
	paneWidth := (opts.Width - 3) / 2
	sep := styles.DiffLineNumberStyle.Render(" │ ")

	// Word diff results are keyed by line index within the hunk; track
	// each body line's original index so modified pairs can look theirs
	// up after alignment reorders them.
	indexOf := make(map[*diff.Line]int, len(body.Lines))
	for i := range body.Lines {
		indexOf[&body.Lines[i]] = i + skipped
	}

	pairs := alignHunk(body)
	out := make([]string, 0, len(pairs))
	for _, p := range pairs {
		left := sideCell(m, hunkIdx, indexOf, p.Left, true, p.IsModification(), opts, paneWidth)
		right := sideCell(m, hunkIdx, indexOf, p.Right, false, p.IsModification(), opts, paneWidth)
		out = append(out, left+sep+right)
	}
	return out
}

// sideCell renders one half of a side by side row, padded to width.
func sideCell(m *diff.FileModel, hunkIdx int, indexOf map[*diff.Line]int, line *diff.Line, old, modified bool, opts viewOptions, width int) string {
	if line == nil {
		return strings.Repeat(" ", max(width, 0))
	}

	num := line.NewNum
	if old {
		num = line.OldNum
	}
	gutter := styles.DiffLineNumberStyle.Render(fmt.Sprintf("%4s │ ", lineNum(num)))

	var content string
	switch {
	case line.Type == diff.LineContext:
		content = styles.DiffContextStyle.Render(line.Content)
	case old:
		content = styles.DiffRemovedStyle.Render(line.Content)
	default:
		content = styles.DiffAddedStyle.Render(line.Content)
	}

	if modified && opts.WordDiff && line.Type != diff.LineContext {
		if res, ok := m.WordDiffFor(hunkIdx, indexOf[line]); ok {
			if old {
				content = renderSegments(res.Old, styles.DiffRemovedStyle, styles.WordRemovedStyle)
			} else {
				content = renderSegments(res.New, styles.DiffAddedStyle, styles.WordAddedStyle)
			}
		}
	}

	cell := gutter + content
	cell = ansi.Truncate(cell, width, "…")
	if pad := width - lipgloss.Width(cell); pad > 0 {
		cell += strings.Repeat(" ", pad)
	}
	return cell
}

func lineNum(n int) string {
	if n == 0 {
		return ""
	}
	return fmt.Sprintf("%d", n)
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
