// Package config provides configuration types and defaults for lineconsole.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"

	"github.com/zjrosen/lineconsole/internal/log"
	"github.com/zjrosen/lineconsole/internal/tracing"
)

// Config holds all configuration options for lineconsole.
type Config struct {
	Prompt     string          `mapstructure:"prompt"`
	NoPrompt   bool            `mapstructure:"no_prompt"`
	FullScreen bool            `mapstructure:"full_screen"`
	InPlace    bool            `mapstructure:"in_place"` // Draw without the bordered container
	Height     int             `mapstructure:"height"`   // Container rows; 0 fills the terminal
	Theme      ThemeConfig     `mapstructure:"theme"`
	Tracing    tracing.Config  `mapstructure:"tracing"`
	Flags      map[string]bool `mapstructure:"flags"`
	Watch      bool            `mapstructure:"watch"` // Reload prompt and theme when the config file changes
}

// ThemeConfig holds color options.
type ThemeConfig struct {
	// NoColor renders everything without color.
	NoColor bool `mapstructure:"no_color"`

	// Colors maps color tags (the color argument of Console.Write) to a hex
	// color or an ANSI color number. Tags may be nested:
	//   colors:
	//     status:
	//       error: "#FF0000"
	// which is the same as
	//   colors:
	//     "status.error": "#FF0000"
	Colors map[string]any `mapstructure:"colors"`
}

// FlattenedColors returns the Colors map flattened to dot-notation keys.
func (t ThemeConfig) FlattenedColors() map[string]string {
	result := make(map[string]string)
	flattenColors("", t.Colors, result)
	return result
}

func flattenColors(prefix string, m map[string]any, result map[string]string) {
	for k, v := range m {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}

		switch val := v.(type) {
		case string:
			result[key] = val
		case int:
			result[key] = strconv.Itoa(val)
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

// DefaultColors returns the built-in color tags.
func DefaultColors() map[string]string {
	return map[string]string{
		"prompt":  "#BD93F9",
		"red":     "#FF5555",
		"green":   "#50FA7B",
		"yellow":  "#F1FA8C",
		"blue":    "#6272A4",
		"magenta": "#FF79C6",
		"cyan":    "#8BE9FD",
		"gray":    "#888888",
	}
}

// Palette returns the default colors overlaid with the configured ones.
func (t ThemeConfig) Palette() map[string]string {
	palette := DefaultColors()
	for tag, color := range t.FlattenedColors() {
		palette[tag] = color
	}
	return palette
}

var hexColor = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// ValidColor reports whether s is a hex color (#RGB or #RRGGBB) or an
// ANSI color number (0-255).
func ValidColor(s string) bool {
	if hexColor.MatchString(s) {
		return true
	}
	n, err := strconv.Atoi(s)
	return err == nil && n >= 0 && n <= 255
}

// ValidateTheme checks every configured color.
func ValidateTheme(theme ThemeConfig) error {
	for tag, color := range theme.FlattenedColors() {
		if !ValidColor(color) {
			return fmt.Errorf("theme.colors.%s: invalid color %q (want #RRGGBB or 0-255)", tag, color)
		}
	}
	return nil
}

// ValidateTracing checks tracing configuration for errors.
// Returns nil if the configuration is valid (empty values use defaults).
func ValidateTracing(cfg tracing.Config) error {
	if cfg.SampleRate < 0.0 || cfg.SampleRate > 1.0 {
		return fmt.Errorf("tracing.sample_rate must be between 0.0 and 1.0, got %v", cfg.SampleRate)
	}

	if cfg.Exporter != "" {
		switch cfg.Exporter {
		case "none", "file", "stdout":
		default:
			return fmt.Errorf("tracing.exporter must be \"none\", \"file\", or \"stdout\", got %q", cfg.Exporter)
		}
	}

	if cfg.Enabled && cfg.Exporter == "file" && cfg.FilePath == "" {
		return fmt.Errorf("tracing.file_path is required when exporter is \"file\"")
	}
	return nil
}

// Validate checks the whole configuration.
func (c Config) Validate() error {
	if c.Height < 0 {
		return fmt.Errorf("height must not be negative, got %d", c.Height)
	}
	if err := ValidateTheme(c.Theme); err != nil {
		return err
	}
	return ValidateTracing(c.Tracing)
}

// ConsolePrompt returns the prompt new lines should show, "" for none.
func (c Config) ConsolePrompt() string {
	if c.NoPrompt {
		return ""
	}
	if c.Prompt == "" {
		return DefaultPrompt
	}
	return c.Prompt
}

// DefaultPrompt is the prompt used when none is configured.
const DefaultPrompt = "$ "

// DefaultConfigDir returns ~/.config/lineconsole.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "lineconsole")
}

// DefaultTracesFilePath returns the default trace output file.
func DefaultTracesFilePath() string {
	dir := DefaultConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "traces", "traces.jsonl")
}

// Defaults returns a Config with sensible default values.
func Defaults() Config {
	tr := tracing.DefaultConfig()
	tr.FilePath = DefaultTracesFilePath()
	return Config{
		Prompt:  DefaultPrompt,
		Height:  0,
		Theme:   ThemeConfig{},
		Tracing: tr,
		Flags:   map[string]bool{},
		Watch:   true,
	}
}

// DefaultConfigTemplate returns the default config as a YAML string with comments.
func DefaultConfigTemplate() string {
	return `# lineconsole configuration

# Prompt shown at the start of every new line
prompt: "$ "

# Hide the prompt entirely
# no_prompt: false

# Start in full-screen (alternate screen) mode; toggle with ctrl+t
full_screen: false

# Draw directly on the terminal instead of inside a bordered box
in_place: false

# Rows of the bordered box (0 fills the terminal)
height: 0

# Reload prompt and theme when this file changes
watch: true

# Colors used by the color tags of written text
theme:
  no_color: false
  # colors:
  #   red: "#FF5555"
  #   prompt: "#BD93F9"
  #   status.error: 196

# Command dispatch tracing
# tracing:
#   enabled: false
#   exporter: file        # none, file, or stdout
#   file_path: ~/.config/lineconsole/traces/traces.jsonl
#   sample_rate: 1.0

# Feature flags
# flags:
#   trace-keys: false     # log raw key events and their normalized action
#   strip-ansi: false     # strip ANSI escape sequences from written text
`
}

// WriteDefaultConfig creates a config file at the given path with default settings and comments.
// Creates the parent directory if it doesn't exist.
func WriteDefaultConfig(configPath string) error {
	log.Debug(log.CatConfig, "Writing default config", "path", configPath)

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to create config directory", err, "dir", dir)
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(configPath, []byte(DefaultConfigTemplate()), 0o600); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to write config file", err, "path", configPath)
		return fmt.Errorf("writing config file: %w", err)
	}

	log.Info(log.CatConfig, "Created default config", "path", configPath)
	return nil
}
