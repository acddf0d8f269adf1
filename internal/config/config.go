// Package config provides configuration types and defaults for vines.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/zjrosen/vines/internal/diff"
	"github.com/zjrosen/vines/internal/log"
)

// Config holds all configuration options for vines.
type Config struct {
	// Path is the repository to open. Default: current directory.
	Path string `mapstructure:"path"`

	// AutoRefresh reloads the graph and diffs when the repository
	// changes on disk.
	AutoRefresh bool `mapstructure:"auto_refresh"`

	// AutoRefreshDebounce coalesces bursts of filesystem events.
	AutoRefreshDebounce time.Duration `mapstructure:"auto_refresh_debounce"`

	// CommitBatchSize is the page size for graph pagination.
	CommitBatchSize int `mapstructure:"commit_batch_size"`

	// Palette is the number of branch colors to cycle through.
	Palette int `mapstructure:"palette"`

	UI      UIConfig      `mapstructure:"ui"`
	Theme   ThemeConfig   `mapstructure:"theme"`
	Tracing TracingConfig `mapstructure:"tracing"`
}

// UIConfig holds user interface configuration options.
type UIConfig struct {
	// WordDiff selects the intra-line highlight algorithm.
	// Valid values: "greedy" (default), "semantic"
	WordDiff string `mapstructure:"word_diff"`

	ShowStatusBar bool `mapstructure:"show_status_bar"`

	// SideBySide starts the diff pane in split view.
	SideBySide bool `mapstructure:"side_by_side"`

	// MarkdownStyle is the glamour style for commit bodies.
	// Valid values: "dark" (default), "light"
	MarkdownStyle string `mapstructure:"markdown_style"`
}

// WordDiffMode converts the configured name to the diff package mode.
// Unknown values fall back to greedy; semantic is opt-in only.
func (u UIConfig) WordDiffMode() diff.WordDiffMode {
	if u.WordDiff == "semantic" {
		return diff.WordDiffSemantic
	}
	return diff.WordDiffGreedy
}

// ThemeConfig holds theme customization options.
type ThemeConfig struct {
	// Mode forces light or dark mode. If empty, uses terminal detection.
	// Valid values: "light", "dark", ""
	Mode string `mapstructure:"mode"`

	// Colors allows overriding individual color tokens.
	// Supports both nested YAML structure and dot notation.
	// Example YAML:
	//   colors:
	//     diff:
	//       addition: "#00FF00"
	// Or quoted dot notation:
	//   colors:
	//     "diff.addition": "#00FF00"
	Colors map[string]any `mapstructure:"colors"`
}

// FlattenedColors returns the Colors map flattened to dot-notation keys.
// This handles both nested YAML structures and already-flat keys.
func (t ThemeConfig) FlattenedColors() map[string]string {
	result := make(map[string]string)
	flattenColors("", t.Colors, result)
	return result
}

// flattenColors recursively flattens a nested map into dot-notation keys.
func flattenColors(prefix string, m map[string]any, result map[string]string) {
	for k, v := range m {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}

		switch val := v.(type) {
		case string:
			result[key] = val
		case map[string]any:
			flattenColors(key, val, result)
		case map[any]any:
			// YAML sometimes produces map[any]any instead of map[string]any
			converted := make(map[string]any)
			for mk, mv := range val {
				if strKey, ok := mk.(string); ok {
					converted[strKey] = mv
				}
			}
			flattenColors(key, converted, result)
		}
	}
}

// TracingConfig holds tracing configuration.
type TracingConfig struct {
	// Enabled controls whether tracing is active.
	// Default: false
	Enabled bool `mapstructure:"enabled"`

	// Exporter selects the trace export backend.
	// Options: "none", "file", "stdout"
	// Default: "file"
	Exporter string `mapstructure:"exporter"`

	// FilePath is the output file for "file" exporter.
	// Default: ~/.config/vines/traces/traces.jsonl
	FilePath string `mapstructure:"file_path"`

	// SampleRate controls trace sampling (0.0 to 1.0).
	// Default: 1.0
	SampleRate float64 `mapstructure:"sample_rate"`
}

// DefaultTracesFilePath returns the default path for trace file export.
// Returns ~/.config/vines/traces/traces.jsonl or empty string if home dir unavailable.
func DefaultTracesFilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "vines", "traces", "traces.jsonl")
}

// Validate checks the whole configuration for errors.
func Validate(cfg Config) error {
	if cfg.CommitBatchSize < 0 {
		return fmt.Errorf("commit_batch_size must be positive, got %d", cfg.CommitBatchSize)
	}
	if cfg.Palette < 0 {
		return fmt.Errorf("palette must be positive, got %d", cfg.Palette)
	}
	if err := ValidateUI(cfg.UI); err != nil {
		return err
	}
	return ValidateTracing(cfg.Tracing)
}

// ValidateUI checks UI configuration for errors.
// Returns nil if the configuration is valid (empty values use defaults).
func ValidateUI(ui UIConfig) error {
	switch ui.WordDiff {
	case "", "greedy", "semantic":
	default:
		return fmt.Errorf("ui.word_diff must be \"greedy\" or \"semantic\", got %q", ui.WordDiff)
	}
	switch ui.MarkdownStyle {
	case "", "dark", "light":
	default:
		return fmt.Errorf("ui.markdown_style must be \"dark\" or \"light\", got %q", ui.MarkdownStyle)
	}
	return nil
}

// ValidateTracing checks tracing configuration for errors.
// Returns nil if the configuration is valid (empty values use defaults).
func ValidateTracing(tracing TracingConfig) error {
	if tracing.SampleRate < 0.0 || tracing.SampleRate > 1.0 {
		return fmt.Errorf("tracing.sample_rate must be between 0.0 and 1.0, got %v", tracing.SampleRate)
	}

	if tracing.Exporter != "" {
		switch tracing.Exporter {
		case "none", "file", "stdout":
			// Valid
		default:
			return fmt.Errorf("tracing.exporter must be \"none\", \"file\", or \"stdout\", got %q", tracing.Exporter)
		}
	}

	if tracing.Enabled && tracing.Exporter == "file" && tracing.FilePath == "" {
		return fmt.Errorf("tracing.file_path is required when exporter is \"file\"")
	}

	return nil
}

// Defaults returns a Config with sensible default values.
func Defaults() Config {
	return Config{
		AutoRefresh:         true,
		AutoRefreshDebounce: 400 * time.Millisecond,
		CommitBatchSize:     200,
		Palette:             8,
		UI: UIConfig{
			WordDiff:      "greedy",
			ShowStatusBar: true,
			SideBySide:    false,
			MarkdownStyle: "dark",
		},
		Tracing: TracingConfig{
			Enabled:    false,
			Exporter:   "file",
			FilePath:   "", // Derived from config dir at runtime
			SampleRate: 1.0,
		},
	}
}

// DefaultConfigTemplate returns the default config as a YAML string with comments.
func DefaultConfigTemplate() string {
	return `# Vines Configuration

# Repository to open (default: current directory)
# path: /path/to/repo

# Reload the graph and diffs when the repository changes
auto_refresh: true

# Coalesce filesystem events before refreshing
auto_refresh_debounce: 400ms

# Commits fetched per "load more" page
commit_batch_size: 200

# Number of branch colors to cycle through
palette: 8

# UI settings
ui:
  word_diff: greedy       # Intra-line highlight: "greedy" (default) or "semantic"
  show_status_bar: true   # Show status bar at bottom
  side_by_side: false     # Start the diff pane in split view
  # markdown_style: dark  # Commit body rendering: "dark" (default) or "light"

# Theme configuration
theme:
  # Force light or dark mode (default: detect from terminal)
  # mode: dark
  #
  # Override specific colors:
  # colors:
  #   diff.addition: "#73F59F"
  #   diff.deletion: "#FF8787"
  #   branch.0: "#54A0FF"

# Tracing configuration
# Records a span per git invocation
# tracing:
#   enabled: false              # Enable/disable tracing (default: false)
#   exporter: file              # Export backend: none, file, stdout (default: file)
#   file_path: ~/.config/vines/traces/traces.jsonl
#   sample_rate: 1.0            # Trace sampling rate 0.0-1.0 (default: 1.0)
`
}

// WriteDefaultConfig creates a config file at the given path with default settings and comments.
// Creates the parent directory if it doesn't exist.
func WriteDefaultConfig(configPath string) error {
	log.Debug(log.CatConfig, "Writing default config", "path", configPath)

	// Create parent directory if needed
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to create config directory", err, "dir", dir)
		return fmt.Errorf("creating config directory: %w", err)
	}

	// Write the template
	if err := os.WriteFile(configPath, []byte(DefaultConfigTemplate()), 0o600); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to write config file", err, "path", configPath)
		return fmt.Errorf("writing config file: %w", err)
	}

	log.Info(log.CatConfig, "Created default config", "path", configPath)
	return nil
}
