package i18n

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/shibukawa/hxo/ir"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	assert.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	return path
}

func TestLoadFile(t *testing.T) {
	path := writeFile(t, "messages.yaml", `en:
  greeting: Hello
  button:
    save: Save
ja:
  greeting: こんにちは
`)

	table, err := LoadFile(path)
	assert.NoError(t, err)
	assert.Equal(t, []string{"en", "ja"}, table.Locales())
	assert.Equal(t, "Save", table.Messages("en")["button.save"])
	assert.Equal(t, "こんにちは", table.Messages("ja")["greeting"])
}

func TestLoadFileRejectsBadLocale(t *testing.T) {
	path := writeFile(t, "messages.yaml", "not a locale!:\n  a: b\n")

	_, err := LoadFile(path)
	assert.True(t, errors.Is(err, ErrInvalidLocale))
}

func TestLoadLocaleFileTakesLocaleFromName(t *testing.T) {
	path := writeFile(t, "messages.de.yaml", "greeting: Hallo\ncount: 3\n")

	table, err := LoadLocaleFile(path, "")
	assert.NoError(t, err)
	assert.Equal(t, map[string]string{"greeting": "Hallo", "count": "3"}, table.Messages("de"))
}

func TestFromValues(t *testing.T) {
	table := FromValues(map[string]ir.Value{
		"en": ir.Object(map[string]ir.Value{
			"title": ir.String("Counter"),
			"nav":   ir.Object(map[string]ir.Value{"home": ir.String("Home")}),
		}),
		"version": ir.Int(2),
	})

	assert.Equal(t, []string{"en"}, table.Locales())
	assert.Equal(t, map[string]string{"title": "Counter", "nav.home": "Home"}, table.Messages("en"))

	single := FromLocaleValues("fr", map[string]ir.Value{"title": ir.String("Compteur")})
	assert.Equal(t, "Compteur", single.Messages("fr")["title"])
}

func TestMergeInto(t *testing.T) {
	dst := map[string]map[string]string{"en": {"a": "1", "b": "2"}}
	Table{"en": {"b": "3"}, "ja": {"a": "一"}}.MergeInto(dst)

	assert.Equal(t, map[string]map[string]string{
		"en": {"a": "1", "b": "3"},
		"ja": {"a": "一"},
	}, dst)
}

func TestNegotiate(t *testing.T) {
	available := []string{"en", "ja"}

	tests := []struct {
		preferred string
		fallback  string
		want      string
	}{
		{"ja-JP", "en", "ja"},
		{"en-GB", "ja", "en"},
		{"fr", "en", "en"},
		{"", "ja", "ja"},
		{"fr", "", "en"},
	}

	for _, tt := range tests {
		t.Run(tt.preferred+"/"+tt.fallback, func(t *testing.T) {
			assert.Equal(t, tt.want, Negotiate(available, tt.preferred, tt.fallback))
		})
	}

	assert.Equal(t, "en", Negotiate(nil, "ja", "en"))
}
