package hxo

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/assert/v2"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, "hxo.yaml")

	err := os.WriteFile(path, []byte(content), 0o644)
	assert.NoError(t, err)

	return path
}

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	config, err := LoadConfig(filepath.Join(t.TempDir(), "hxo.yaml"))
	assert.NoError(t, err)

	assert.Equal(t, "@hxo", config.RuntimePath)
	assert.Equal(t, []string{"js"}, config.Targets)
	assert.Equal(t, "dist", config.OutputDir)
	assert.Equal(t, ".", config.InputDir)
	assert.True(t, config.SourceMap)
}

func TestLoadConfig_ValidConfig(t *testing.T) {
	path := writeConfig(t, `
runtime_path: "@acme/hxo"
targets: [js, ssr, hydrate, css, dts]
output_dir: build
minify_css: true
scope_id: app
i18n:
  locale: ja-JP
  fallback: en
  files:
    - locales/ja.yaml
`)

	config, err := LoadConfig(path)
	assert.NoError(t, err)

	assert.Equal(t, "@acme/hxo", config.RuntimePath)
	assert.Equal(t, "build", config.OutputDir)
	assert.Equal(t, ".", config.InputDir)
	assert.True(t, config.MinifyCSS)
	assert.Equal(t, "app", config.ScopeID)
	assert.Equal(t, "ja-JP", config.I18n.Locale)
	assert.Equal(t, []string{filepath.Join(filepath.Dir(path), "locales", "ja.yaml")}, config.I18n.Files)

	targets, err := config.ParsedTargets()
	assert.NoError(t, err)
	assert.Equal(t, Targets, targets)
}

func TestLoadConfig_StrictModeRejectsUnknownKeys(t *testing.T) {
	path := writeConfig(t, `
targets: [js]
unknown_key: "should cause error"
`)

	_, err := LoadConfig(path)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config file")
}

func TestLoadConfig_Validation(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{
			name:    "unknown target",
			content: "targets: [js, wasm]\n",
			want:    `"wasm"`,
		},
		{
			name:    "invalid locale",
			content: "i18n:\n  locale: not_a-locale!\n",
			want:    "i18n.locale",
		},
		{
			name:    "invalid fallback",
			content: "i18n:\n  fallback: '!!'\n",
			want:    "i18n.fallback",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tt.content))
			assert.Error(t, err)
			assert.True(t, errors.Is(err, ErrConfigValidation))
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadConfig_ExpandsEnvironment(t *testing.T) {
	t.Setenv("HXO_TEST_OUTPUT", "public/assets")

	config, err := LoadConfig(writeConfig(t, "output_dir: ${HXO_TEST_OUTPUT}\n"))
	assert.NoError(t, err)
	assert.Equal(t, "public/assets", config.OutputDir)
}

func TestLoadConfig_ReadsDotEnvNextToConfig(t *testing.T) {
	t.Cleanup(func() { os.Unsetenv("HXO_TEST_RUNTIME") })

	path := writeConfig(t, "runtime_path: $HXO_TEST_RUNTIME\n")

	err := os.WriteFile(filepath.Join(filepath.Dir(path), ".env"), []byte("HXO_TEST_RUNTIME=/vendor/hxo\n"), 0o644)
	assert.NoError(t, err)

	config, err := LoadConfig(path)
	assert.NoError(t, err)
	assert.Equal(t, "/vendor/hxo", config.RuntimePath)
}

func TestParseTarget(t *testing.T) {
	target, err := ParseTarget("hydrate")
	assert.NoError(t, err)
	assert.Equal(t, TargetHydrate, target)

	_, err = ParseTarget("html")
	assert.True(t, errors.Is(err, ErrUnknownTarget))
}
