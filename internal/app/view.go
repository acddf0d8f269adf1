package app

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/zjrosen/vines/internal/ui/styles"
)

// View implements tea.Model.
func (m Model) View() string {
	if m.width <= 0 || m.height <= 0 {
		return ""
	}

	graphPane := styles.RenderPane(m.graph.View(), "Commits", m.graphW, m.bodyH, m.focus == focusGraph)
	detailPane := styles.RenderPane(m.detail.View(), "Commit", m.rightW, m.detailH, m.focus == focusDetail)
	diffPane := styles.RenderPane(m.diffContent(), m.diffTitle(), m.rightW, m.diffH, m.focus == focusDiff)

	right := lipgloss.JoinVertical(lipgloss.Left, detailPane, diffPane)
	body := lipgloss.JoinHorizontal(lipgloss.Top, graphPane, right)

	switch {
	case m.helpVisible:
		return body + "\n" + m.help.View(m.keymap)
	case m.showStatus:
		return body + "\n" + m.statusBar()
	default:
		return body
	}
}

func (m Model) diffContent() string {
	if m.hasDiff {
		return m.diff.View()
	}
	if f := m.currentFile(); f != nil && f.IsUntracked {
		return m.renderUntracked()
	}
	placeholder := "Working tree clean"
	if m.err != nil {
		placeholder = m.err.Error()
	}
	return lipgloss.NewStyle().
		Width(max(m.rightW-2, 1)).
		Height(max(m.diffH-2, 1)).
		Align(lipgloss.Center, lipgloss.Center).
		Foreground(styles.TextMutedColor).
		Render(placeholder)
}

func (m Model) diffTitle() string {
	f := m.currentFile()
	if f == nil {
		return "Diff"
	}
	return fmt.Sprintf("%s (%d/%d)", f.Path(), m.fileIdx+1, len(m.files))
}

// renderUntracked shows an untracked file as all additions, with a
// hint that s stages the whole file.
func (m Model) renderUntracked() string {
	width := max(m.rightW-2, 1)
	height := max(m.diffH-2, 1)

	lines := []string{
		lipgloss.NewStyle().Foreground(styles.TextMutedColor).Render("untracked · s stages the whole file"),
	}
	for _, line := range strings.Split(strings.TrimRight(m.untrackedContent, "\n"), "\n") {
		lines = append(lines, styles.DiffAddedStyle.Render("+"+line))
		if len(lines) > height {
			break
		}
	}
	for i, line := range lines {
		if lipgloss.Width(line) > width {
			lines[i] = ansi.Truncate(line, width, "…")
		}
	}
	return strings.Join(lines[:min(len(lines), height)], "\n")
}

func (m Model) statusBar() string {
	parts := []string{"vines"}
	if m.branch != "" {
		parts = append(parts, styles.BranchRefStyle.Render(m.branch))
	}
	if n := len(m.files); n > 0 {
		parts = append(parts, fmt.Sprintf("%d changed file(s)", n))
	}
	switch {
	case m.note != "":
		parts = append(parts, m.note)
	case m.err != nil:
		parts = append(parts, lipgloss.NewStyle().Foreground(styles.StatusErrorColor).Render(m.err.Error()))
	}

	left := styles.StatusBarStyle.Render(strings.Join(parts, " · "))
	hints := styles.StatusBarStyle.Render(m.help.View(m.keymap))

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(hints)
	if gap < 1 {
		return ansi.Truncate(left, m.width, "…")
	}
	return left + strings.Repeat(" ", gap) + hints
}
