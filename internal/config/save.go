// Package config provides configuration types, defaults, and persistence for vines.
package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// SaveUI updates the ui section in the config file. Other sections keep
// their comments and formatting because the document is edited as a
// yaml.Node tree rather than re-marshaled from the struct.
func SaveUI(configPath string, ui UIConfig) error {
	node, err := buildUINode(ui)
	if err != nil {
		return fmt.Errorf("building ui node: %w", err)
	}
	return saveSection(configPath, "ui", node)
}

// SaveTheme updates the theme section in the config file.
func SaveTheme(configPath string, theme ThemeConfig) error {
	node, err := buildThemeNode(theme)
	if err != nil {
		return fmt.Errorf("building theme node: %w", err)
	}
	return saveSection(configPath, "theme", node)
}

// saveSection replaces one top-level key of the config document and
// writes the result atomically.
func saveSection(configPath, key string, value *yaml.Node) error {
	data, err := os.ReadFile(configPath) //nolint:gosec // G304: user's own config path
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("reading config: %w", err)
	}

	// Parse into yaml.Node to preserve comments
	var doc yaml.Node
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return fmt.Errorf("parsing config: %w", err)
		}
	}

	if doc.Kind == 0 {
		// Empty or new file - create document structure
		doc = yaml.Node{
			Kind: yaml.DocumentNode,
			Content: []*yaml.Node{
				{
					Kind: yaml.MappingNode,
					Content: []*yaml.Node{
						{Kind: yaml.ScalarNode, Value: key},
						value,
					},
				},
			},
		}
	} else if doc.Kind == yaml.DocumentNode && len(doc.Content) > 0 {
		root := doc.Content[0]
		if root.Kind == yaml.MappingNode {
			// Find and replace the key, or append it
			found := false
			for i := 0; i < len(root.Content)-1; i += 2 {
				if root.Content[i].Value == key {
					root.Content[i+1] = value
					found = true
					break
				}
			}
			if !found {
				root.Content = append(root.Content,
					&yaml.Node{Kind: yaml.ScalarNode, Value: key},
					value,
				)
			}
		}
	}

	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(&doc); err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	_ = encoder.Close()

	return writeAtomic(configPath, buf.Bytes())
}

// writeAtomic writes to a temp file in the target directory then renames.
func writeAtomic(configPath string, data []byte) error {
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	temp, err := os.CreateTemp(dir, ".vines.yaml.tmp.*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tempPath := temp.Name()

	if _, err := temp.Write(data); err != nil {
		_ = temp.Close()
		_ = os.Remove(tempPath)
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := temp.Close(); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("closing temp file: %w", err)
	}

	if err := os.Rename(tempPath, configPath); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}

	return nil
}

// buildUINode marshals the UI config through yaml tags derived from the
// mapstructure field names.
func buildUINode(ui UIConfig) (*yaml.Node, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	appendScalar := func(key, value string) {
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: key},
			&yaml.Node{Kind: yaml.ScalarNode, Value: value},
		)
	}

	wordDiff := ui.WordDiff
	if wordDiff == "" {
		wordDiff = "greedy"
	}
	appendScalar("word_diff", wordDiff)
	appendScalar("show_status_bar", boolValue(ui.ShowStatusBar))
	appendScalar("side_by_side", boolValue(ui.SideBySide))
	if ui.MarkdownStyle != "" {
		appendScalar("markdown_style", ui.MarkdownStyle)
	}
	return node, nil
}

func buildThemeNode(theme ThemeConfig) (*yaml.Node, error) {
	var node yaml.Node
	data, err := yaml.Marshal(map[string]any{
		"mode":   theme.Mode,
		"colors": theme.Colors,
	})
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, err
	}
	if node.Kind == yaml.DocumentNode && len(node.Content) > 0 {
		return node.Content[0], nil
	}
	return &node, nil
}

func boolValue(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
