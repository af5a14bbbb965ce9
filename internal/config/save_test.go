package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSavePrompt_CreatesNewFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "sub", "config.yaml")

	require.NoError(t, SavePrompt(configPath, "λ "))

	cfg := loadConfigFromYAML(t, readFile(t, configPath))
	require.Equal(t, "λ ", cfg.Prompt)
}

func TestSavePrompt_PreservesOtherConfig(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	initial := `# my console
prompt: "$ " # shown on every line
height: 12
theme:
  colors:
    red: "#FF0000"
`
	require.NoError(t, os.WriteFile(configPath, []byte(initial), 0o644))

	require.NoError(t, SavePrompt(configPath, "> "))

	content := readFile(t, configPath)
	assert.Contains(t, content, "# my console")
	assert.Contains(t, content, "# shown on every line")
	assert.Contains(t, content, "height: 12")
	assert.Contains(t, content, "#FF0000")

	cfg := loadConfigFromYAML(t, content)
	require.Equal(t, "> ", cfg.Prompt)
	require.Equal(t, 12, cfg.Height)
}

func TestSavePrompt_AppendsMissingKey(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("height: 3\n"), 0o644))

	require.NoError(t, SavePrompt(configPath, "# "))

	cfg := loadConfigFromYAML(t, readFile(t, configPath))
	require.Equal(t, "# ", cfg.Prompt)
	require.Equal(t, 3, cfg.Height)
}

func TestSavePrompt_EmptyExistingFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("\n"), 0o644))

	require.NoError(t, SavePrompt(configPath, "> "))

	require.Contains(t, readFile(t, configPath), `prompt: "> "`)
}

func TestSavePrompt_RejectsNonMapping(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("- a\n- b\n"), 0o644))

	err := SavePrompt(configPath, "> ")

	require.Error(t, err)
	require.Contains(t, err.Error(), "not a mapping")
}

func TestSavePrompt_InvalidYAML(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("prompt: [unclosed\n"), 0o644))

	err := SavePrompt(configPath, "> ")

	require.Error(t, err)
	require.Contains(t, err.Error(), "parsing config")
}

func TestSaveFullScreen(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, WriteDefaultConfig(configPath))

	require.NoError(t, SaveFullScreen(configPath, true))

	cfg := loadConfigFromYAML(t, readFile(t, configPath))
	require.True(t, cfg.FullScreen)
	require.Contains(t, readFile(t, configPath), "# lineconsole configuration")
}

func TestSave_AtomicWriteLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")

	require.NoError(t, SavePrompt(configPath, "a"))
	require.NoError(t, SavePrompt(configPath, "b"))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "config.yaml", entries[0].Name())
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}
