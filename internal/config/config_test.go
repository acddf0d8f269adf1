package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/vines/internal/diff"
)

func TestDefaults(t *testing.T) {
	cfg := Defaults()
	require.True(t, cfg.AutoRefresh)
	require.Equal(t, 400*time.Millisecond, cfg.AutoRefreshDebounce)
	require.Equal(t, 200, cfg.CommitBatchSize)
	require.Equal(t, 8, cfg.Palette)
	require.Equal(t, "greedy", cfg.UI.WordDiff)
	require.True(t, cfg.UI.ShowStatusBar)
	require.False(t, cfg.Tracing.Enabled)
	require.NoError(t, Validate(cfg))
}

func TestUIConfig_WordDiffMode(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want diff.WordDiffMode
	}{
		{name: "default", in: "", want: diff.WordDiffGreedy},
		{name: "greedy", in: "greedy", want: diff.WordDiffGreedy},
		{name: "semantic", in: "semantic", want: diff.WordDiffSemantic},
		{name: "unknown falls back to greedy", in: "wat", want: diff.WordDiffGreedy},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ui := UIConfig{WordDiff: tt.in}
			require.Equal(t, tt.want, ui.WordDiffMode())
		})
	}
}

func TestValidateUI(t *testing.T) {
	require.NoError(t, ValidateUI(UIConfig{}))
	require.NoError(t, ValidateUI(UIConfig{WordDiff: "semantic", MarkdownStyle: "light"}))

	err := ValidateUI(UIConfig{WordDiff: "lcs"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "ui.word_diff")

	err = ValidateUI(UIConfig{MarkdownStyle: "neon"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "ui.markdown_style")
}

func TestValidateTracing(t *testing.T) {
	require.NoError(t, ValidateTracing(TracingConfig{}))
	require.NoError(t, ValidateTracing(TracingConfig{Exporter: "stdout", SampleRate: 0.5}))

	err := ValidateTracing(TracingConfig{SampleRate: 1.5})
	require.Error(t, err)
	require.Contains(t, err.Error(), "sample_rate")

	err = ValidateTracing(TracingConfig{Exporter: "otlp"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "exporter")

	err = ValidateTracing(TracingConfig{Enabled: true, Exporter: "file"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "file_path")
}

func TestValidate_Ranges(t *testing.T) {
	cfg := Defaults()
	cfg.CommitBatchSize = -1
	require.Error(t, Validate(cfg))

	cfg = Defaults()
	cfg.Palette = -2
	require.Error(t, Validate(cfg))
}

func TestThemeConfig_FlattenedColors(t *testing.T) {
	theme := ThemeConfig{
		Colors: map[string]any{
			"diff": map[string]any{
				"addition": "#73F59F",
				"deletion": "#FF8787",
			},
			"branch.0": "#54A0FF",
		},
	}

	flat := theme.FlattenedColors()
	require.Equal(t, map[string]string{
		"diff.addition": "#73F59F",
		"diff.deletion": "#FF8787",
		"branch.0":      "#54A0FF",
	}, flat)
}

func TestThemeConfig_FlattenedColors_MapAnyAny(t *testing.T) {
	// YAML sometimes decodes nested maps with any keys.
	theme := ThemeConfig{
		Colors: map[string]any{
			"diff": map[any]any{
				"context": "#888888",
			},
		},
	}
	require.Equal(t, map[string]string{"diff.context": "#888888"}, theme.FlattenedColors())
}

func TestWriteDefaultConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "config.yaml")

	require.NoError(t, WriteDefaultConfig(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "auto_refresh: true")
	require.Contains(t, string(data), "word_diff: greedy")
	require.Contains(t, string(data), "commit_batch_size: 200")
}
