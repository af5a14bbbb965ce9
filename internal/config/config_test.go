package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/lineconsole/internal/tracing"
)

// loadConfigFromYAML loads a Config the way the CLI does: defaults first,
// then the file on top.
func loadConfigFromYAML(t *testing.T, yaml string) Config {
	t.Helper()

	configPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte(yaml), 0o644))

	// Custom key delimiter so dotted color tags like "status.error" are not
	// treated as nested paths.
	v := viper.NewWithOptions(viper.KeyDelimiter("::"))
	v.SetConfigFile(configPath)
	require.NoError(t, v.ReadInConfig())

	cfg := Defaults()
	require.NoError(t, v.Unmarshal(&cfg))
	return cfg
}

func TestDefaults(t *testing.T) {
	cfg := Defaults()

	require.Equal(t, "$ ", cfg.Prompt)
	require.False(t, cfg.NoPrompt)
	require.False(t, cfg.FullScreen)
	require.True(t, cfg.Watch)
	require.False(t, cfg.Tracing.Enabled)
	require.Equal(t, "file", cfg.Tracing.Exporter)
	require.NoError(t, cfg.Validate())
}

func TestDefaultConfigTemplate_MatchesDefaults(t *testing.T) {
	cfg := loadConfigFromYAML(t, DefaultConfigTemplate())

	require.Equal(t, Defaults().Prompt, cfg.Prompt)
	require.Equal(t, Defaults().FullScreen, cfg.FullScreen)
	require.Equal(t, Defaults().Watch, cfg.Watch)
	require.NoError(t, cfg.Validate())
}

func TestLoad_AllFields(t *testing.T) {
	cfg := loadConfigFromYAML(t, `
prompt: "> "
no_prompt: true
full_screen: true
in_place: true
height: 20
watch: false
theme:
  no_color: true
  colors:
    red: "#FF0000"
    status:
      error: 196
    "status.ok": "#0F0"
tracing:
  enabled: true
  exporter: stdout
  sample_rate: 0.5
flags:
  trace-keys: true
`)

	require.Equal(t, "> ", cfg.Prompt)
	require.True(t, cfg.NoPrompt)
	require.True(t, cfg.FullScreen)
	require.True(t, cfg.InPlace)
	require.Equal(t, 20, cfg.Height)
	require.False(t, cfg.Watch)
	require.True(t, cfg.Theme.NoColor)
	require.Equal(t, map[string]string{
		"red":          "#FF0000",
		"status.error": "196",
		"status.ok":    "#0F0",
	}, cfg.Theme.FlattenedColors())
	require.True(t, cfg.Tracing.Enabled)
	require.Equal(t, "stdout", cfg.Tracing.Exporter)
	require.InDelta(t, 0.5, cfg.Tracing.SampleRate, 1e-9)
	require.True(t, cfg.Flags["trace-keys"])
	require.NoError(t, cfg.Validate())
}

func TestConsolePrompt(t *testing.T) {
	require.Equal(t, "$ ", Config{}.ConsolePrompt())
	require.Equal(t, "> ", Config{Prompt: "> "}.ConsolePrompt())
	require.Equal(t, "", Config{Prompt: "> ", NoPrompt: true}.ConsolePrompt())
}

func TestThemeConfig_Palette(t *testing.T) {
	theme := ThemeConfig{Colors: map[string]any{"red": "#AA0000", "custom": "42"}}

	palette := theme.Palette()

	require.Equal(t, "#AA0000", palette["red"])
	require.Equal(t, "42", palette["custom"])
	require.Equal(t, DefaultColors()["green"], palette["green"])
}

func TestValidColor(t *testing.T) {
	for _, ok := range []string{"#fff", "#FF00aa", "0", "255"} {
		require.True(t, ValidColor(ok), ok)
	}
	for _, bad := range []string{"", "red", "#ff", "#GGGGGG", "256", "-1"} {
		require.False(t, ValidColor(bad), bad)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"negative height", func(c *Config) { c.Height = -1 }, "height must not be negative"},
		{"bad color", func(c *Config) { c.Theme.Colors = map[string]any{"red": "crimson"} }, `theme.colors.red: invalid color "crimson"`},
		{"sample rate too high", func(c *Config) { c.Tracing.SampleRate = 1.5 }, "sample_rate must be between"},
		{"unknown exporter", func(c *Config) { c.Tracing.Exporter = "otlp" }, "tracing.exporter must be"},
		{"file exporter without path", func(c *Config) {
			c.Tracing = tracing.Config{Enabled: true, Exporter: "file", SampleRate: 1}
		}, "file_path is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			require.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidateTracing_DisabledFileWithoutPath(t *testing.T) {
	require.NoError(t, ValidateTracing(tracing.Config{Exporter: "file", SampleRate: 1}))
}

func TestWriteDefaultConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	require.NoError(t, WriteDefaultConfig(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, DefaultConfigTemplate(), string(data))
}
