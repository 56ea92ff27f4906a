package optimizer

import (
	"strings"

	"github.com/google/uuid"

	"github.com/shibukawa/hxo/ir"
	"github.com/shibukawa/hxo/scanner"
)

// ScopePrefix starts every scope token.
const ScopePrefix = "data-h-"

var scopeNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://hxo.dev/scope"))

// GenerateScopeID derives a stable scope token from a component name.
func GenerateScopeID(name string) string {
	return ScopePrefix + uuid.NewSHA1(scopeNamespace, []byte(name)).String()[:8]
}

// ScopeProcessor tags every element with the scope attribute and rewrites
// the selectors of scoped style blocks to require it. A token is derived from
// the module name only when a scoped style exists and none was supplied.
type ScopeProcessor struct{}

func (s *ScopeProcessor) Name() string { return "ScopeProcessor" }

func (s *ScopeProcessor) Process(ctx *Context) {
	m := ctx.Module

	token := ctx.ScopeID
	if token == "" {
		token = m.ScopeID
	}

	if token == "" && m.HasScopedStyle() {
		token = GenerateScopeID(m.Name)
	}

	if token == "" {
		return
	}

	m.ScopeID = token

	ir.WalkTemplate(m.Template, func(n ir.TemplateNode) bool {
		el, ok := n.(*ir.Element)
		if !ok {
			return true
		}

		for _, a := range el.Attributes {
			if a.Name == token {
				return true
			}
		}

		el.Attributes = append(el.Attributes, ir.NewAttribute(token, nil, scanner.UnknownSpan()))

		return true
	})

	for i := range m.Styles {
		if m.Styles[i].Scoped {
			m.Styles[i].Code = ScopeCSS(m.Styles[i].Code, token)
		}
	}
}

// At-rules whose bodies hold qualified rules that must be scoped.
var scopedAtRules = []string{"@media", "@supports", "@layer", "@container", "@document", "@scope"}

// Legacy single-colon pseudo-elements.
var legacyPseudoElements = []string{":before", ":after", ":first-line", ":first-letter"}

// ScopeCSS appends `[token]` to every selector of every qualified rule in css.
// Grouping at-rules and nested rules are rewritten recursively; other
// at-rules such as @keyframes and @font-face are copied unchanged, as are
// comments and declarations.
func ScopeCSS(css, token string) string {
	var b strings.Builder

	scopeRules(&b, css, "["+token+"]")

	return b.String()
}

func scopeRules(b *strings.Builder, css, attr string) {
	segment := 0
	i := 0

	for i < len(css) {
		switch css[i] {
		case '/':
			if strings.HasPrefix(css[i:], "/*") {
				i = skipComment(css, i)
				continue
			}
		case '"', '\'':
			i = skipString(css, i)
			continue
		case ';':
			b.WriteString(css[segment : i+1])
			i++
			segment = i

			continue
		case '{':
			end := matchingBrace(css, i)
			prelude := css[segment:i]
			body := css[i+1 : end]

			writePrelude(b, prelude, attr)
			b.WriteByte('{')

			head := strings.TrimSpace(stripTrivia(prelude))

			switch {
			case !strings.HasPrefix(head, "@"):
				scopeRules(b, body, attr)
			case hasAnyPrefix(head, scopedAtRules):
				scopeRules(b, body, attr)
			default:
				b.WriteString(body)
			}

			if end < len(css) {
				b.WriteByte('}')
			}

			i = end + 1
			segment = i

			continue
		}

		i++
	}

	if segment < len(css) {
		b.WriteString(css[segment:])
	}
}

// writePrelude scopes the selector list of a qualified rule, keeping the
// surrounding whitespace and any leading comments.
func writePrelude(b *strings.Builder, prelude, attr string) {
	lead := leadingTrivia(prelude)
	rest := prelude[len(lead):]
	selector := trimTrailingTrivia(rest)
	trail := rest[len(selector):]

	b.WriteString(lead)

	if strings.HasPrefix(selector, "@") || selector == "" {
		b.WriteString(selector)
	} else {
		b.WriteString(scopeSelectorList(selector, attr))
	}

	b.WriteString(trail)
}

func scopeSelectorList(list, attr string) string {
	parts := splitTopLevel(list, ',')
	for i, p := range parts {
		parts[i] = scopeSelector(strings.TrimSpace(p), attr)
	}

	return strings.Join(parts, ", ")
}

// scopeSelector adds attr to the last compound selector, before any pseudo-element.
func scopeSelector(sel, attr string) string {
	if sel == "" || strings.Contains(sel, attr) {
		return sel
	}

	start := lastCompoundStart(sel)
	compound := sel[start:]

	if at := pseudoElementIndex(compound); at >= 0 {
		return sel[:start+at] + attr + sel[start+at:]
	}

	return sel + attr
}

func lastCompoundStart(sel string) int {
	depth := 0
	start := 0

	for i := 0; i < len(sel); i++ {
		switch sel[i] {
		case '(', '[':
			depth++
		case ')', ']':
			depth--
		case ' ', '\t', '\n', '>', '+', '~':
			if depth == 0 {
				start = i + 1
			}
		}
	}

	return start
}

func pseudoElementIndex(compound string) int {
	depth := 0

	for i := 0; i < len(compound); i++ {
		switch compound[i] {
		case '(', '[':
			depth++
		case ')', ']':
			depth--
		case ':':
			if depth != 0 {
				continue
			}

			if strings.HasPrefix(compound[i:], "::") {
				return i
			}

			for _, p := range legacyPseudoElements {
				if strings.HasPrefix(compound[i:], p) {
					return i
				}
			}
		}
	}

	return -1
}

func splitTopLevel(s string, sep byte) []string {
	var parts []string

	depth := 0
	start := 0

	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(', '[':
			depth++
		case ')', ']':
			depth--
		case '"', '\'':
			i = skipString(s, i) - 1
		default:
			if s[i] == sep && depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}

	return append(parts, s[start:])
}

// matchingBrace returns the index of the brace closing the one at open, or
// len(css) when it is missing.
func matchingBrace(css string, open int) int {
	depth := 0

	for i := open; i < len(css); {
		switch css[i] {
		case '/':
			if strings.HasPrefix(css[i:], "/*") {
				i = skipComment(css, i)
				continue
			}
		case '"', '\'':
			i = skipString(css, i)
			continue
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}

		i++
	}

	return len(css)
}

func skipComment(css string, i int) int {
	end := strings.Index(css[i+2:], "*/")
	if end < 0 {
		return len(css)
	}

	return i + 2 + end + 2
}

func skipString(css string, i int) int {
	quote := css[i]

	for j := i + 1; j < len(css); j++ {
		switch css[j] {
		case '\\':
			j++
		case quote:
			return j + 1
		}
	}

	return len(css)
}

func leadingTrivia(s string) string {
	i := 0

	for i < len(s) {
		switch {
		case s[i] == ' ' || s[i] == '\t' || s[i] == '\r' || s[i] == '\n':
			i++
		case strings.HasPrefix(s[i:], "/*"):
			i = skipComment(s, i)
		default:
			return s[:i]
		}
	}

	return s
}

func trimTrailingTrivia(s string) string {
	for {
		s = strings.TrimRight(s, " \t\r\n")
		if !strings.HasSuffix(s, "*/") {
			return s
		}

		open := strings.LastIndex(s, "/*")
		if open < 0 {
			return s
		}

		s = s[:open]
	}
}

func stripTrivia(s string) string {
	return s[len(leadingTrivia(s)):]
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}

	return false
}
