// Package styles contains Lip Gloss style definitions.
package styles

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// styleRebuilders holds callbacks to rebuild styles in other packages.
// This avoids import cycles (styles can't import the view packages, but
// they can register).
var styleRebuilders []func()

// RegisterStyleRebuilder adds a callback that will be called after ApplyTheme
// updates colors. Use this to rebuild styles in packages that depend on styles.
func RegisterStyleRebuilder(fn func()) {
	styleRebuilders = append(styleRebuilders, fn)
}

// ThemeConfig mirrors config.ThemeConfig to avoid circular imports.
type ThemeConfig struct {
	Mode   string
	Colors map[string]string
}

// ApplyTheme applies a theme configuration.
// Order of application:
// 1. Force light/dark rendering if mode is set
// 2. Apply individual color overrides
// 3. Rebuild all Style objects
func ApplyTheme(cfg ThemeConfig) error {
	switch cfg.Mode {
	case "", "auto":
		// Leave background detection to the terminal
	case "dark":
		lipgloss.SetHasDarkBackground(true)
	case "light":
		lipgloss.SetHasDarkBackground(false)
	default:
		return fmt.Errorf("unknown theme mode: %s", cfg.Mode)
	}

	for key, value := range cfg.Colors {
		token := ColorToken(key)
		if !isValidToken(token) {
			return fmt.Errorf("unknown color token: %s", key)
		}
		if !isValidHexColor(value) {
			return fmt.Errorf("invalid hex color for %s: %s", key, value)
		}
		applyColor(token, value)
	}

	rebuildStyles()
	return nil
}

func applyColor(token ColorToken, hex string) {
	// Overrides apply to both light and dark rendering
	c := lipgloss.AdaptiveColor{Light: hex, Dark: hex}

	switch token {
	case TokenTextPrimary:
		TextPrimaryColor = c
	case TokenTextSecondary:
		TextSecondaryColor = c
	case TokenTextMuted:
		TextMutedColor = c
	case TokenTextPlaceholder:
		TextPlaceholderColor = c
	case TokenBorderDefault:
		BorderDefaultColor = c
	case TokenBorderFocus:
		BorderFocusColor = c
	case TokenStatusSuccess:
		StatusSuccessColor = c
	case TokenStatusWarning:
		StatusWarningColor = c
	case TokenStatusError:
		StatusErrorColor = c
	case TokenSelectionIndicator:
		SelectionIndicatorColor = c
	case TokenSelectionBg:
		SelectionBgColor = c
	case TokenGraphBranch1, TokenGraphBranch2, TokenGraphBranch3, TokenGraphBranch4,
		TokenGraphBranch5, TokenGraphBranch6, TokenGraphBranch7, TokenGraphBranch8:
		num := strings.TrimPrefix(string(token), "graph.branch.")
		if i, err := strconv.Atoi(num); err == nil && i >= 1 && i <= len(BranchColors) {
			BranchColors[i-1] = c
		}
	case TokenGraphHash:
		GraphHashColor = c
	case TokenGraphAuthor:
		GraphAuthorColor = c
	case TokenGraphDate:
		GraphDateColor = c
	case TokenGraphHead:
		GraphHeadColor = c
	case TokenGraphBranch:
		GraphBranchColor = c
	case TokenGraphTag:
		GraphTagColor = c
	case TokenDiffAdded:
		DiffAddedColor = c
	case TokenDiffRemoved:
		DiffRemovedColor = c
	case TokenDiffContext:
		DiffContextColor = c
	case TokenDiffHunkHeader:
		DiffHunkHeaderColor = c
	case TokenDiffFileHeader:
		DiffFileHeaderColor = c
	case TokenDiffWordAddBg:
		DiffWordAddBgColor = c
	case TokenDiffWordDelBg:
		DiffWordDelBgColor = c
	case TokenDiffLineNumber:
		DiffLineNumberColor = c
	case TokenHunkStaged:
		HunkStagedColor = c
	case TokenHunkPending:
		HunkPendingColor = c
	case TokenHunkSelected:
		HunkSelectedColor = c
	case TokenSpinner:
		SpinnerColor = c
	}
}

// rebuildStyles recreates all Style objects with updated colors.
// lipgloss.Style objects capture colors at creation time, so every style
// derived from a themeable color has to be rebuilt here.
func rebuildStyles() {
	SelectionIndicatorStyle = lipgloss.NewStyle().Bold(true).Foreground(SelectionIndicatorColor)
	SelectedRowStyle = lipgloss.NewStyle().Background(SelectionBgColor)

	HashStyle = lipgloss.NewStyle().Foreground(GraphHashColor)
	AuthorStyle = lipgloss.NewStyle().Foreground(GraphAuthorColor)
	DateStyle = lipgloss.NewStyle().Foreground(GraphDateColor)
	HeadBadgeStyle = lipgloss.NewStyle().Foreground(GraphHeadColor).Bold(true)
	BranchRefStyle = lipgloss.NewStyle().Foreground(GraphBranchColor).Bold(true)
	TagRefStyle = lipgloss.NewStyle().Foreground(GraphTagColor)
	SummaryStyle = lipgloss.NewStyle().Foreground(TextPrimaryColor)
	MergeDotStyle = lipgloss.NewStyle().Foreground(TextMutedColor)
	SubjectDimStyle = lipgloss.NewStyle().Foreground(TextMutedColor)

	DiffAddedStyle = lipgloss.NewStyle().Foreground(DiffAddedColor)
	DiffRemovedStyle = lipgloss.NewStyle().Foreground(DiffRemovedColor)
	DiffContextStyle = lipgloss.NewStyle().Foreground(DiffContextColor)
	DiffHunkHeaderStyle = lipgloss.NewStyle().Foreground(DiffHunkHeaderColor).Bold(true)
	DiffFileHeaderStyle = lipgloss.NewStyle().Foreground(DiffFileHeaderColor).Bold(true)
	WordAddedStyle = lipgloss.NewStyle().Foreground(DiffAddedColor).Background(DiffWordAddBgColor)
	WordRemovedStyle = lipgloss.NewStyle().Foreground(DiffRemovedColor).Background(DiffWordDelBgColor)
	DiffLineNumberStyle = lipgloss.NewStyle().Foreground(DiffLineNumberColor)

	HunkStagedStyle = lipgloss.NewStyle().Foreground(HunkStagedColor)
	HunkPendingStyle = lipgloss.NewStyle().Foreground(HunkPendingColor)
	HunkSelectedStyle = lipgloss.NewStyle().Foreground(HunkSelectedColor).Bold(true)

	StatusBarStyle = lipgloss.NewStyle().
		Foreground(TextSecondaryColor).
		Padding(0, 1)

	ErrorStyle = lipgloss.NewStyle().
		Foreground(StatusErrorColor).
		Bold(true).
		Padding(1, 2)

	for _, fn := range styleRebuilders {
		fn()
	}
}

func isValidToken(token ColorToken) bool {
	return slices.Contains(AllTokens(), token)
}

func isValidHexColor(s string) bool {
	if !strings.HasPrefix(s, "#") {
		return false
	}
	hex := s[1:]
	if len(hex) != 3 && len(hex) != 6 {
		return false
	}
	_, err := strconv.ParseUint(hex, 16, 64)
	return err == nil
}
