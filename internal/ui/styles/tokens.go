// Package styles contains Lip Gloss style definitions.
package styles

// ColorToken represents a named, themeable color.
type ColorToken string

// Color tokens organized by category.
// These are the keys users can override in their config.
const (
	// Text hierarchy
	TokenTextPrimary     ColorToken = "text.primary"
	TokenTextSecondary   ColorToken = "text.secondary"
	TokenTextMuted       ColorToken = "text.muted"
	TokenTextPlaceholder ColorToken = "text.placeholder"

	// Borders
	TokenBorderDefault ColorToken = "border.default"
	TokenBorderFocus   ColorToken = "border.focus"

	// Status indicators
	TokenStatusSuccess ColorToken = "status.success"
	TokenStatusWarning ColorToken = "status.warning"
	TokenStatusError   ColorToken = "status.error"

	// Selection
	TokenSelectionIndicator ColorToken = "selection.indicator"
	TokenSelectionBg        ColorToken = "selection.bg"

	// Commit graph
	TokenGraphBranch1 ColorToken = "graph.branch.1"
	TokenGraphBranch2 ColorToken = "graph.branch.2"
	TokenGraphBranch3 ColorToken = "graph.branch.3"
	TokenGraphBranch4 ColorToken = "graph.branch.4"
	TokenGraphBranch5 ColorToken = "graph.branch.5"
	TokenGraphBranch6 ColorToken = "graph.branch.6"
	TokenGraphBranch7 ColorToken = "graph.branch.7"
	TokenGraphBranch8 ColorToken = "graph.branch.8"
	TokenGraphHash    ColorToken = "graph.hash"
	TokenGraphAuthor  ColorToken = "graph.author"
	TokenGraphDate    ColorToken = "graph.date"
	TokenGraphHead    ColorToken = "graph.head"
	TokenGraphBranch  ColorToken = "graph.ref.branch"
	TokenGraphTag     ColorToken = "graph.ref.tag"

	// Diff
	TokenDiffAdded      ColorToken = "diff.added"
	TokenDiffRemoved    ColorToken = "diff.removed"
	TokenDiffContext    ColorToken = "diff.context"
	TokenDiffHunkHeader ColorToken = "diff.hunk_header"
	TokenDiffFileHeader ColorToken = "diff.file_header"
	TokenDiffWordAddBg  ColorToken = "diff.word.add_bg"
	TokenDiffWordDelBg  ColorToken = "diff.word.del_bg"
	TokenDiffLineNumber ColorToken = "diff.line_number"

	// Hunk staging state
	TokenHunkStaged   ColorToken = "hunk.staged"
	TokenHunkPending  ColorToken = "hunk.pending"
	TokenHunkSelected ColorToken = "hunk.selected"

	// Misc
	TokenSpinner ColorToken = "spinner"
)

// AllTokens returns all valid color tokens for validation.
func AllTokens() []ColorToken {
	return []ColorToken{
		// Text hierarchy
		TokenTextPrimary,
		TokenTextSecondary,
		TokenTextMuted,
		TokenTextPlaceholder,

		// Borders
		TokenBorderDefault,
		TokenBorderFocus,

		// Status indicators
		TokenStatusSuccess,
		TokenStatusWarning,
		TokenStatusError,

		// Selection
		TokenSelectionIndicator,
		TokenSelectionBg,

		// Commit graph
		TokenGraphBranch1,
		TokenGraphBranch2,
		TokenGraphBranch3,
		TokenGraphBranch4,
		TokenGraphBranch5,
		TokenGraphBranch6,
		TokenGraphBranch7,
		TokenGraphBranch8,
		TokenGraphHash,
		TokenGraphAuthor,
		TokenGraphDate,
		TokenGraphHead,
		TokenGraphBranch,
		TokenGraphTag,

		// Diff
		TokenDiffAdded,
		TokenDiffRemoved,
		TokenDiffContext,
		TokenDiffHunkHeader,
		TokenDiffFileHeader,
		TokenDiffWordAddBg,
		TokenDiffWordDelBg,
		TokenDiffLineNumber,

		// Hunk staging state
		TokenHunkStaged,
		TokenHunkPending,
		TokenHunkSelected,

		// Misc
		TokenSpinner,
	}
}
