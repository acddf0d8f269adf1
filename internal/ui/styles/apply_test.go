package styles

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/require"
)

func TestApplyTheme_EmptyConfig(t *testing.T) {
	err := ApplyTheme(ThemeConfig{})
	require.NoError(t, err, "empty theme should apply cleanly")
}

func TestApplyTheme_ValidOverrides(t *testing.T) {
	err := ApplyTheme(ThemeConfig{
		Colors: map[string]string{
			"diff.added":     "#00FF00",
			"diff.removed":   "#FF0000",
			"graph.branch.1": "#123456",
		},
	})
	require.NoError(t, err)

	require.Equal(t, "#00FF00", DiffAddedColor.Dark)
	require.Equal(t, "#FF0000", DiffRemovedColor.Dark)
	require.Equal(t, "#123456", BranchColors[0].Dark)
}

func TestApplyTheme_UnknownToken(t *testing.T) {
	err := ApplyTheme(ThemeConfig{
		Colors: map[string]string{"diff.bogus": "#FFFFFF"},
	})
	require.Error(t, err)
	require.Contains(t, err.Error(), "unknown color token")
}

func TestApplyTheme_InvalidHex(t *testing.T) {
	tests := []string{"red", "#GGGGGG", "#12345", "123456"}

	for _, value := range tests {
		t.Run(value, func(t *testing.T) {
			err := ApplyTheme(ThemeConfig{
				Colors: map[string]string{"diff.added": value},
			})
			require.Error(t, err)
			require.Contains(t, err.Error(), "invalid hex color")
		})
	}
}

func TestApplyTheme_ShortHexAccepted(t *testing.T) {
	err := ApplyTheme(ThemeConfig{
		Colors: map[string]string{"status.error": "#F00"},
	})
	require.NoError(t, err, "3 digit hex colors should be accepted")
}

func TestApplyTheme_UnknownMode(t *testing.T) {
	err := ApplyTheme(ThemeConfig{Mode: "sepia"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "unknown theme mode")
}

func TestApplyTheme_RebuildsStyles(t *testing.T) {
	err := ApplyTheme(ThemeConfig{
		Colors: map[string]string{"diff.added": "#ABCDEF"},
	})
	require.NoError(t, err)

	// The style must capture the new color, not the default
	require.Equal(t,
		lipgloss.AdaptiveColor{Light: "#ABCDEF", Dark: "#ABCDEF"},
		DiffAddedStyle.GetForeground())
}

func TestApplyTheme_CallsRebuilders(t *testing.T) {
	called := false
	RegisterStyleRebuilder(func() { called = true })

	err := ApplyTheme(ThemeConfig{})
	require.NoError(t, err)
	require.True(t, called, "registered rebuilder should run after ApplyTheme")
}

func TestAllTokens_Unique(t *testing.T) {
	seen := make(map[ColorToken]bool)
	for _, token := range AllTokens() {
		require.False(t, seen[token], "duplicate token %s", token)
		seen[token] = true
	}
}

func TestBranchStyle_WrapsPalette(t *testing.T) {
	require.Equal(t, BranchStyle(0).GetForeground(), BranchStyle(len(BranchColors)).GetForeground(),
		"columns beyond the palette should wrap")
	require.Equal(t, BranchStyle(0).GetForeground(), BranchStyle(-1).GetForeground(),
		"negative columns should clamp to the first color")
}
