// Package styles contains Lip Gloss style definitions.
package styles

import "github.com/charmbracelet/lipgloss"

var (
	// Semantic color names - Text hierarchy
	TextPrimaryColor     = lipgloss.AdaptiveColor{Light: "#2E3440", Dark: "#CCCCCC"} // Main/primary text
	TextSecondaryColor   = lipgloss.AdaptiveColor{Light: "#AAAAAA", Dark: "#BBBBBB"} // Secondary info
	TextMutedColor       = lipgloss.AdaptiveColor{Light: "#999999", Dark: "#696969"} // Hints, help text, footers
	TextPlaceholderColor = lipgloss.AdaptiveColor{Light: "#666666", Dark: "#777777"} // Input placeholders

	// Semantic color names - Border
	BorderDefaultColor = lipgloss.AdaptiveColor{Light: "#D9DCCF", Dark: "#696969"} // Unfocused borders
	BorderFocusColor   = lipgloss.AdaptiveColor{Light: "#54A0FF", Dark: "#54A0FF"} // Focused pane border

	// Semantic color names - Status
	StatusSuccessColor = lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"} // Success states
	StatusWarningColor = lipgloss.AdaptiveColor{Light: "#FECA57", Dark: "#FECA57"} // Warnings
	StatusErrorColor   = lipgloss.AdaptiveColor{Light: "#FF6B6B", Dark: "#FF8787"} // Errors

	// Selection
	SelectionIndicatorColor = lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#FFFFFF"}
	SelectionBgColor        = lipgloss.AdaptiveColor{Light: "#E8E8E8", Dark: "#333333"}

	// Branch lane palette. Lane colors cycle through these in column order;
	// pinned branch colors index into the same slice.
	BranchColors = []lipgloss.AdaptiveColor{
		{Light: "#1E66F5", Dark: "#89B4FA"}, // blue
		{Light: "#D20F39", Dark: "#F38BA8"}, // red
		{Light: "#40A02B", Dark: "#A6E3A1"}, // green
		{Light: "#DF8E1D", Dark: "#F9E2AF"}, // yellow
		{Light: "#8839EF", Dark: "#CBA6F7"}, // mauve
		{Light: "#179299", Dark: "#94E2D5"}, // teal
		{Light: "#FE640B", Dark: "#FAB387"}, // peach
		{Light: "#EA76CB", Dark: "#F5C2E7"}, // pink
	}

	// Commit metadata colors
	GraphHashColor   = lipgloss.AdaptiveColor{Light: "#DF8E1D", Dark: "#F9E2AF"}
	GraphAuthorColor = lipgloss.AdaptiveColor{Light: "#179299", Dark: "#94E2D5"}
	GraphDateColor   = lipgloss.AdaptiveColor{Light: "#9CA0B0", Dark: "#6C7086"}
	GraphHeadColor   = lipgloss.AdaptiveColor{Light: "#40A02B", Dark: "#A6E3A1"}
	GraphBranchColor = lipgloss.AdaptiveColor{Light: "#1E66F5", Dark: "#89B4FA"}
	GraphTagColor    = lipgloss.AdaptiveColor{Light: "#FE640B", Dark: "#FAB387"}

	// Diff colors
	DiffAddedColor      = lipgloss.AdaptiveColor{Light: "#40A02B", Dark: "#A6E3A1"}
	DiffRemovedColor    = lipgloss.AdaptiveColor{Light: "#D20F39", Dark: "#F38BA8"}
	DiffContextColor    = lipgloss.AdaptiveColor{Light: "#4C4F69", Dark: "#CDD6F4"}
	DiffHunkHeaderColor = lipgloss.AdaptiveColor{Light: "#179299", Dark: "#94E2D5"}
	DiffFileHeaderColor = lipgloss.AdaptiveColor{Light: "#8839EF", Dark: "#CBA6F7"}
	DiffWordAddBgColor  = lipgloss.AdaptiveColor{Light: "#CCE8CC", Dark: "#2D4A2D"}
	DiffWordDelBgColor  = lipgloss.AdaptiveColor{Light: "#F0D0D0", Dark: "#4A2D2D"}
	DiffLineNumberColor = lipgloss.AdaptiveColor{Light: "#9CA0B0", Dark: "#6C7086"}

	// Hunk staging state colors
	HunkStagedColor   = lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"}
	HunkPendingColor  = lipgloss.AdaptiveColor{Light: "#FECA57", Dark: "#FECA57"}
	HunkSelectedColor = lipgloss.AdaptiveColor{Light: "#54A0FF", Dark: "#54A0FF"}

	// Loading spinner color
	SpinnerColor = lipgloss.AdaptiveColor{Light: "#874BFD", Dark: "#FFF"}

	// Selection indicator style (used for ">" prefix in lists)
	SelectionIndicatorStyle = lipgloss.NewStyle().Bold(true).Foreground(SelectionIndicatorColor)
	SelectedRowStyle        = lipgloss.NewStyle().Background(SelectionBgColor)

	// Commit metadata styles
	HashStyle       = lipgloss.NewStyle().Foreground(GraphHashColor)
	AuthorStyle     = lipgloss.NewStyle().Foreground(GraphAuthorColor)
	DateStyle       = lipgloss.NewStyle().Foreground(GraphDateColor)
	HeadBadgeStyle  = lipgloss.NewStyle().Foreground(GraphHeadColor).Bold(true)
	BranchRefStyle  = lipgloss.NewStyle().Foreground(GraphBranchColor).Bold(true)
	TagRefStyle     = lipgloss.NewStyle().Foreground(GraphTagColor)
	SummaryStyle    = lipgloss.NewStyle().Foreground(TextPrimaryColor)
	MergeDotStyle   = lipgloss.NewStyle().Foreground(TextMutedColor)
	SubjectDimStyle = lipgloss.NewStyle().Foreground(TextMutedColor)

	// Diff styles
	DiffAddedStyle      = lipgloss.NewStyle().Foreground(DiffAddedColor)
	DiffRemovedStyle    = lipgloss.NewStyle().Foreground(DiffRemovedColor)
	DiffContextStyle    = lipgloss.NewStyle().Foreground(DiffContextColor)
	DiffHunkHeaderStyle = lipgloss.NewStyle().Foreground(DiffHunkHeaderColor).Bold(true)
	DiffFileHeaderStyle = lipgloss.NewStyle().Foreground(DiffFileHeaderColor).Bold(true)
	WordAddedStyle      = lipgloss.NewStyle().Foreground(DiffAddedColor).Background(DiffWordAddBgColor)
	WordRemovedStyle    = lipgloss.NewStyle().Foreground(DiffRemovedColor).Background(DiffWordDelBgColor)
	DiffLineNumberStyle = lipgloss.NewStyle().Foreground(DiffLineNumberColor)

	// Hunk staging state styles
	HunkStagedStyle   = lipgloss.NewStyle().Foreground(HunkStagedColor)
	HunkPendingStyle  = lipgloss.NewStyle().Foreground(HunkPendingColor)
	HunkSelectedStyle = lipgloss.NewStyle().Foreground(HunkSelectedColor).Bold(true)

	// Status bar
	StatusBarStyle = lipgloss.NewStyle().
			Foreground(TextSecondaryColor).
			Padding(0, 1)

	// Error display
	ErrorStyle = lipgloss.NewStyle().
			Foreground(StatusErrorColor).
			Bold(true).
			Padding(1, 2)
)

// BranchStyle returns the foreground style for a graph column. Columns
// beyond the palette wrap around.
func BranchStyle(column int) lipgloss.Style {
	if column < 0 {
		column = 0
	}
	return lipgloss.NewStyle().Foreground(BranchColors[column%len(BranchColors)])
}

// ColorIndexStyle returns the style for a pinned branch color index, as
// assigned by the graph color registry.
func ColorIndexStyle(index int) lipgloss.Style {
	if index < 0 {
		index = 0
	}
	return lipgloss.NewStyle().Foreground(BranchColors[index%len(BranchColors)])
}
