package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
)

// Border characters (rounded)
const (
	borderTopLeft     = "╭"
	borderTopRight    = "╮"
	borderBottomLeft  = "╰"
	borderBottomRight = "╯"
	borderHorizontal  = "─"
	borderVertical    = "│"
)

// RenderPane renders content inside a rounded border with the title embedded
// in the top edge, lazygit style: ╭─ Title ─────╮
// The border uses BorderFocusColor when focused, BorderDefaultColor otherwise.
func RenderPane(content, title string, width, height int, focused bool) string {
	var borderColor lipgloss.TerminalColor = BorderDefaultColor
	if focused {
		borderColor = BorderFocusColor
	}

	borderStyle := lipgloss.NewStyle().Foreground(borderColor)
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(borderColor)

	innerWidth := max(width-2, 1)
	contentHeight := max(height-2, 1)

	topBorder := paneTopBorder(title, innerWidth, borderStyle, titleStyle)
	bottomBorder := borderStyle.Render(borderBottomLeft + strings.Repeat(borderHorizontal, innerWidth) + borderBottomRight)

	// Width/Height constrain and wrap the content before bordering
	constrained := lipgloss.NewStyle().Width(innerWidth).Height(contentHeight).Render(content)
	contentLines := strings.Split(constrained, "\n")

	rows := make([]string, 0, contentHeight+2)
	rows = append(rows, topBorder)
	for i := 0; i < contentHeight; i++ {
		var line string
		if i < len(contentLines) {
			line = contentLines[i]
		}
		if pad := innerWidth - lipgloss.Width(line); pad > 0 {
			line += strings.Repeat(" ", pad)
		}
		rows = append(rows, borderStyle.Render(borderVertical)+line+borderStyle.Render(borderVertical))
	}
	rows = append(rows, bottomBorder)

	return strings.Join(rows, "\n")
}

func paneTopBorder(title string, innerWidth int, borderStyle, titleStyle lipgloss.Style) string {
	// Narrow panes and untitled panes get a plain edge
	if title == "" || innerWidth < 6 {
		return borderStyle.Render(borderTopLeft + strings.Repeat(borderHorizontal, max(innerWidth, 0)) + borderTopRight)
	}

	// ╭─ Title ──────╮
	// "─ " before the title and " " after cost 3 columns.
	display := TruncateString(title, innerWidth-4)
	dashes := max(innerWidth-3-lipgloss.Width(display), 0)

	return borderStyle.Render(borderTopLeft+borderHorizontal+" ") +
		titleStyle.Render(display) +
		borderStyle.Render(" "+strings.Repeat(borderHorizontal, dashes)+borderTopRight)
}

// TruncateString truncates a string to fit within maxWidth, adding an
// ellipsis if anything was cut.
func TruncateString(s string, maxWidth int) string {
	if maxWidth < 1 {
		return ""
	}
	if lipgloss.Width(s) <= maxWidth {
		return s
	}
	if maxWidth <= 1 {
		return "…"
	}
	return truncate.StringWithTail(s, uint(maxWidth), "…")
}
