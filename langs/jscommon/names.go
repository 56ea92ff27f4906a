package jscommon

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

func eventParts(event string) []string {
	// modifiers such as .prevent do not take part in the name
	event, _, _ = strings.Cut(event, ".")

	return strings.FieldsFunc(event, func(r rune) bool { return r == '-' || r == ':' || r == '_' })
}

// EventProp returns the vnode property for an event: click → onClick,
// update:model-value → onUpdateModelValue.
func EventProp(event string) string {
	caser := cases.Title(language.English)

	var sb strings.Builder

	sb.WriteString("on")

	for _, part := range eventParts(event) {
		sb.WriteString(caser.String(part))
	}

	return sb.String()
}

// EventName returns the camel-cased DOM event name: click → click,
// mouse-over → mouseOver.
func EventName(event string) string {
	parts := eventParts(event)
	if len(parts) == 0 {
		return ""
	}

	caser := cases.Title(language.English)

	var sb strings.Builder

	sb.WriteString(strings.ToLower(parts[0]))

	for _, part := range parts[1:] {
		sb.WriteString(caser.String(part))
	}

	return sb.String()
}
