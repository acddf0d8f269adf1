package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func readYAML(t *testing.T, path string) map[string]any {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var out map[string]any
	require.NoError(t, yaml.Unmarshal(data, &out))
	return out
}

func TestSaveUI_NewFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	require.NoError(t, SaveUI(path, UIConfig{
		WordDiff:      "semantic",
		ShowStatusBar: true,
		SideBySide:    true,
	}))

	doc := readYAML(t, path)
	ui, ok := doc["ui"].(map[string]any)
	require.True(t, ok)
	require.Equal(t, "semantic", ui["word_diff"])
	require.Equal(t, true, ui["show_status_bar"])
	require.Equal(t, true, ui["side_by_side"])
}

func TestSaveUI_DefaultsEmptyWordDiff(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, SaveUI(path, UIConfig{}))

	doc := readYAML(t, path)
	ui := doc["ui"].(map[string]any)
	require.Equal(t, "greedy", ui["word_diff"])
}

func TestSaveUI_ReplacesExistingSection(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	initial := "auto_refresh: false\nui:\n  word_diff: greedy\npalette: 4\n"
	require.NoError(t, os.WriteFile(path, []byte(initial), 0o600))

	require.NoError(t, SaveUI(path, UIConfig{WordDiff: "semantic", ShowStatusBar: true}))

	doc := readYAML(t, path)
	require.Equal(t, false, doc["auto_refresh"])
	require.Equal(t, 4, doc["palette"])
	ui := doc["ui"].(map[string]any)
	require.Equal(t, "semantic", ui["word_diff"])
}

func TestSaveUI_PreservesComments(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	initial := "# my settings\nauto_refresh: true\n\nui:\n  word_diff: greedy\n"
	require.NoError(t, os.WriteFile(path, []byte(initial), 0o600))

	require.NoError(t, SaveUI(path, UIConfig{WordDiff: "greedy"}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "# my settings")
}

func TestSaveTheme(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	require.NoError(t, SaveTheme(path, ThemeConfig{
		Mode: "dark",
		Colors: map[string]any{
			"diff.addition": "#73F59F",
		},
	}))

	doc := readYAML(t, path)
	theme := doc["theme"].(map[string]any)
	require.Equal(t, "dark", theme["mode"])
	colors := theme["colors"].(map[string]any)
	require.Equal(t, "#73F59F", colors["diff.addition"])
}

func TestSaveUI_NoLeftoverTempFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, SaveUI(path, UIConfig{}))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "config.yaml", entries[0].Name())
}
