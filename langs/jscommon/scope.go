package jscommon

import (
	"strings"

	"github.com/shibukawa/hxo/ir"
)

// Scope tracks names bound inside an expression (arrow parameters, block
// declarations). Bound names shadow component bindings and are printed as is.
type Scope struct {
	layers []map[string]bool
}

func (s *Scope) Lookup(name string) bool {
	for i := len(s.layers) - 1; i >= 0; i-- {
		if s.layers[i][name] {
			return true
		}
	}

	return false
}

func (s *Scope) Push(names ...string) {
	layer := make(map[string]bool, len(names))
	for _, n := range names {
		layer[n] = true
	}

	s.layers = append(s.layers, layer)
}

// Bind adds names to the innermost layer.
func (s *Scope) Bind(names ...string) {
	if len(s.layers) == 0 {
		s.Push()
	}

	for _, n := range names {
		s.layers[len(s.layers)-1][n] = true
	}
}

func (s *Scope) Pop() {
	if len(s.layers) > 0 {
		s.layers = s.layers[:len(s.layers)-1]
	}
}

// ParamNames returns the names bound by written parameters such as
// `a = 1`, `...rest` or `{ x, y }`.
func ParamNames(params []string) []string {
	var names []string

	for _, p := range params {
		p = strings.TrimPrefix(strings.TrimSpace(p), "...")

		if !strings.HasPrefix(p, "[") && !strings.HasPrefix(p, "{") {
			if name, _, found := strings.Cut(p, "="); found {
				p = name
			}

			if p = strings.TrimSpace(p); p != "" {
				names = append(names, p)
			}

			continue
		}

		names = append(names, (&ir.VariableDecl{Pattern: p}).BoundNames()...)
	}

	return names
}

// Globals are identifiers that always refer to the JS environment.
var Globals = map[string]bool{
	"undefined": true, "NaN": true, "Infinity": true, "globalThis": true,
	"window": true, "document": true, "console": true, "navigator": true,
	"Math": true, "JSON": true, "Date": true, "Number": true, "String": true,
	"Boolean": true, "Array": true, "Object": true, "Promise": true, "Symbol": true,
	"Map": true, "Set": true, "RegExp": true, "Intl": true, "Error": true,
	"parseInt": true, "parseFloat": true, "isNaN": true, "isFinite": true,
	"encodeURIComponent": true, "decodeURIComponent": true,
	"setTimeout": true, "clearTimeout": true, "fetch": true,
	"$event": true,
}
