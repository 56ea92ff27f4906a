// Package i18n holds translation tables: locale -> message key -> text.
package i18n

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/goccy/go-yaml"
	"golang.org/x/text/language"

	"github.com/shibukawa/hxo/ir"
)

// Sentinel errors
var (
	ErrInvalidLocale = errors.New("invalid locale tag")
	ErrNotMapping    = errors.New("locale file must be a mapping")
)

// Table maps a locale tag to its messages. Nested keys are flattened with dots.
type Table map[string]map[string]string

// Messages returns the messages of locale, or nil.
func (t Table) Messages(locale string) map[string]string {
	return t[locale]
}

// Locales returns the locale tags in sorted order.
func (t Table) Locales() []string {
	locales := make([]string, 0, len(t))
	for l := range t {
		locales = append(locales, l)
	}

	sort.Strings(locales)

	return locales
}

// MergeInto copies every message into dst. Later tables win on conflicts.
func (t Table) MergeInto(dst map[string]map[string]string) {
	for locale, msgs := range t {
		if dst[locale] == nil {
			dst[locale] = map[string]string{}
		}

		for k, v := range msgs {
			dst[locale][k] = v
		}
	}
}

// FromValues reads a `locale: {key: text}` mapping.
// Top-level scalars are ignored since they name no locale.
func FromValues(values map[string]ir.Value) Table {
	t := Table{}

	for locale, v := range values {
		if v.Kind != ir.ObjectValue {
			continue
		}

		msgs := map[string]string{}
		flattenValue("", v, msgs)
		t[locale] = msgs
	}

	return t
}

// FromLocaleValues reads a flat `key: text` mapping for a single locale.
func FromLocaleValues(locale string, values map[string]ir.Value) Table {
	msgs := map[string]string{}
	flattenValue("", ir.Object(values), msgs)

	return Table{locale: msgs}
}

func flattenValue(prefix string, v ir.Value, out map[string]string) {
	switch v.Kind {
	case ir.ObjectValue:
		for k, child := range v.Fields {
			flattenValue(join(prefix, k), child, out)
		}
	case ir.StringValue, ir.RawValue:
		out[prefix] = v.Str
	case ir.NumberValue:
		out[prefix] = v.Number.String()
	case ir.BoolValue:
		out[prefix] = fmt.Sprint(v.Bool)
	case ir.NullValue:
		out[prefix] = ""
	case ir.ArrayValue:
		for i, item := range v.Items {
			flattenValue(join(prefix, fmt.Sprint(i)), item, out)
		}
	}
}

func flattenAny(prefix string, v any, out map[string]string) {
	switch v := v.(type) {
	case map[string]any:
		for k, child := range v {
			flattenAny(join(prefix, k), child, out)
		}
	case map[any]any:
		for k, child := range v {
			flattenAny(join(prefix, fmt.Sprint(k)), child, out)
		}
	case []any:
		for i, item := range v {
			flattenAny(join(prefix, fmt.Sprint(i)), item, out)
		}
	case nil:
		out[prefix] = ""
	default:
		out[prefix] = fmt.Sprint(v)
	}
}

func join(prefix, key string) string {
	if prefix == "" {
		return key
	}

	return prefix + "." + key
}

// LoadFile reads a YAML file of the form `locale: {key: text}`.
func LoadFile(path string) (Table, error) {
	root, err := readMapping(path)
	if err != nil {
		return nil, err
	}

	t := Table{}

	for locale, v := range root {
		if _, err := language.Parse(locale); err != nil {
			return nil, fmt.Errorf("%w: %q in %s", ErrInvalidLocale, locale, path)
		}

		msgs := map[string]string{}
		flattenAny("", v, msgs)
		t[locale] = msgs
	}

	return t, nil
}

// LoadLocaleFile reads a flat YAML file of messages for locale.
// An empty locale is taken from the file name, e.g. `messages.ja.yaml`.
func LoadLocaleFile(path, locale string) (Table, error) {
	if locale == "" {
		locale = localeFromFileName(path)
	}

	if _, err := language.Parse(locale); err != nil {
		return nil, fmt.Errorf("%w: %q for %s", ErrInvalidLocale, locale, path)
	}

	root, err := readMapping(path)
	if err != nil {
		return nil, err
	}

	msgs := map[string]string{}
	flattenAny("", map[string]any(root), msgs)

	return Table{locale: msgs}, nil
}

func readMapping(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var root map[string]any
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("%w: %s: %s", ErrNotMapping, path, err.Error())
	}

	return root, nil
}

func localeFromFileName(path string) string {
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	if i := strings.LastIndex(base, "."); i >= 0 {
		return base[i+1:]
	}

	return base
}

// Negotiate picks the best of available for preferred.
// fallback is returned when nothing matches or preferred does not parse;
// when fallback is empty the first available locale is used.
func Negotiate(available []string, preferred, fallback string) string {
	if len(available) == 0 {
		return fallback
	}

	if fallback == "" {
		fallback = available[0]
	}

	want, err := language.Parse(preferred)
	if err != nil {
		return fallback
	}

	var (
		tags  []language.Tag
		names []string
	)

	// The matcher answers with the first tag on no match, so fallback goes first.
	if tag, err := language.Parse(fallback); err == nil {
		tags = append(tags, tag)
		names = append(names, fallback)
	}

	for _, a := range available {
		tag, err := language.Parse(a)
		if err != nil || a == fallback {
			continue
		}

		tags = append(tags, tag)
		names = append(names, a)
	}

	if len(tags) == 0 {
		return fallback
	}

	_, index, confidence := language.NewMatcher(tags).Match(want)
	if confidence == language.No {
		return fallback
	}

	return names[index]
}
