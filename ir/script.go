package ir

import (
	"strings"

	"github.com/shibukawa/hxo/scanner"
)

// Expression is a closed sum of script expression nodes.
type Expression interface {
	Span() scanner.Span
	expressionNode()
}

type Identifier struct {
	Name string
	Loc  scanner.Span
}

type Literal struct {
	Value Value
	Loc   scanner.Span
}

// Unary is an operator applied to one operand: !x, -x, ++x, x++, ...x, typeof x.
type Unary struct {
	Op       string
	Argument Expression
	Postfix  bool
	Loc      scanner.Span
}

type Binary struct {
	Left  Expression
	Op    string
	Right Expression
	Loc   scanner.Span
}

type Call struct {
	Callee Expression
	Args   []Expression
	Loc    scanner.Span
}

// Member is a property access. For computed access Index holds the bracketed
// expression and Property its best textual form.
type Member struct {
	Object   Expression
	Property string
	Computed bool
	Optional bool
	Index    Expression
	Loc      scanner.Span
}

// Conditional is `Test ? Consequent : Alternate`.
type Conditional struct {
	Test       Expression
	Consequent Expression
	Alternate  Expression
	Loc        scanner.Span
}

type ArrayLiteral struct {
	Elements []Expression
	Loc      scanner.Span
}

// Property is one key of an object literal. Keys keep source order.
// A spread entry has an empty Key and a Unary "..." value.
type Property struct {
	Key   string
	Value Expression
}

type ObjectLiteral struct {
	Properties []Property
	Loc        scanner.Span
}

// Lookup returns the value expression for key.
func (o *ObjectLiteral) Lookup(key string) (Expression, bool) {
	for _, p := range o.Properties {
		if p.Key == key {
			return p.Value, true
		}
	}

	return nil, false
}

// ArrowFunction has either an expression Body or a statement Block.
type ArrowFunction struct {
	Async  bool
	Params []string
	Body   Expression
	Block  []Statement
	Loc    scanner.Span
}

// ElementAttribute is an attribute of an element literal; Value is nil for bare attributes.
type ElementAttribute struct {
	Name  string
	Value Expression
	Loc   scanner.Span
}

// ElementLiteral is markup embedded in script: <tag attr={expr}>{child}</tag>.
type ElementLiteral struct {
	Tag        string
	Attributes []ElementAttribute
	Children   []Expression
	Loc        scanner.Span
}

// TemplateLiteral is a backquoted string. Quasis hold the raw text around each
// `${}` substitution; there is always one more quasi than expression.
type TemplateLiteral struct {
	Quasis      []string
	Expressions []Expression
	Loc         scanner.Span
}

// OtherExpr carries source text the parser does not model.
type OtherExpr struct {
	Raw string
	Loc scanner.Span
}

func (e *Identifier) Span() scanner.Span      { return e.Loc }
func (e *Literal) Span() scanner.Span         { return e.Loc }
func (e *Unary) Span() scanner.Span           { return e.Loc }
func (e *Binary) Span() scanner.Span          { return e.Loc }
func (e *Call) Span() scanner.Span            { return e.Loc }
func (e *Member) Span() scanner.Span          { return e.Loc }
func (e *Conditional) Span() scanner.Span     { return e.Loc }
func (e *ArrayLiteral) Span() scanner.Span    { return e.Loc }
func (e *ObjectLiteral) Span() scanner.Span   { return e.Loc }
func (e *ArrowFunction) Span() scanner.Span   { return e.Loc }
func (e *ElementLiteral) Span() scanner.Span  { return e.Loc }
func (e *TemplateLiteral) Span() scanner.Span { return e.Loc }
func (e *OtherExpr) Span() scanner.Span       { return e.Loc }

func (*Identifier) expressionNode()      {}
func (*Literal) expressionNode()         {}
func (*Unary) expressionNode()           {}
func (*Binary) expressionNode()          {}
func (*Call) expressionNode()            {}
func (*Member) expressionNode()          {}
func (*Conditional) expressionNode()     {}
func (*ArrayLiteral) expressionNode()    {}
func (*ObjectLiteral) expressionNode()   {}
func (*ArrowFunction) expressionNode()   {}
func (*ElementLiteral) expressionNode()  {}
func (*TemplateLiteral) expressionNode() {}
func (*OtherExpr) expressionNode()       {}

// Statement is a closed sum of script statement nodes.
type Statement interface {
	Span() scanner.Span
	statementNode()
}

type ExpressionStmt struct {
	Expr Expression
	Loc  scanner.Span
}

// VariableDecl is `kind pattern = init`. Pattern keeps destructuring text verbatim.
type VariableDecl struct {
	Kind    string
	Pattern string
	Init    Expression
	Loc     scanner.Span
}

// Import is `import Default, * as Namespace, { Specifiers } from 'Source'`.
// Specifiers keep their written form ("a", "b as c").
type Import struct {
	Source     string
	Default    string
	Namespace  string
	Specifiers []string
	Loc        scanner.Span
}

// Names returns the local bindings introduced by the import.
func (s *Import) Names() []string {
	var names []string
	if s.Default != "" {
		names = append(names, s.Default)
	}

	if s.Namespace != "" {
		names = append(names, s.Namespace)
	}

	for _, spec := range s.Specifiers {
		if i := strings.LastIndex(spec, " as "); i >= 0 {
			spec = spec[i+4:]
		}

		names = append(names, strings.TrimSpace(spec))
	}

	return names
}

type Export struct {
	Declaration Statement
	Default     bool
	Loc         scanner.Span
}

type ExportAll struct {
	Source string
	Loc    scanner.Span
}

// ExportNamed is `export { a, b } [from 'src']`; Source is empty without a from clause.
type ExportNamed struct {
	Source     string
	Specifiers []string
	Loc        scanner.Span
}

// FunctionDecl params keep their written form, including defaults and rest markers.
type FunctionDecl struct {
	Name   string
	Async  bool
	Params []string
	Body   []Statement
	Loc    scanner.Span
}

// OtherStmt is a statement captured verbatim (loops, conditionals, classes, ...).
type OtherStmt struct {
	Raw string
	Loc scanner.Span
}

func (s *ExpressionStmt) Span() scanner.Span { return s.Loc }
func (s *VariableDecl) Span() scanner.Span   { return s.Loc }
func (s *Import) Span() scanner.Span         { return s.Loc }
func (s *Export) Span() scanner.Span         { return s.Loc }
func (s *ExportAll) Span() scanner.Span      { return s.Loc }
func (s *ExportNamed) Span() scanner.Span    { return s.Loc }
func (s *FunctionDecl) Span() scanner.Span   { return s.Loc }
func (s *OtherStmt) Span() scanner.Span      { return s.Loc }

func (*ExpressionStmt) statementNode() {}
func (*VariableDecl) statementNode()   {}
func (*Import) statementNode()         {}
func (*Export) statementNode()         {}
func (*ExportAll) statementNode()      {}
func (*ExportNamed) statementNode()    {}
func (*FunctionDecl) statementNode()   {}
func (*OtherStmt) statementNode()      {}

// BoundNames returns the identifiers the declaration binds.
// `[a, setA]` binds a and setA; `{ x, y: z }` binds x and z.
func (s *VariableDecl) BoundNames() []string {
	p := strings.TrimSpace(s.Pattern)
	if !strings.HasPrefix(p, "[") && !strings.HasPrefix(p, "{") {
		return []string{p}
	}

	inner := strings.Trim(p, "[]{} \t\n")

	var names []string

	for _, part := range strings.Split(inner, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		if i := strings.Index(part, ":"); i >= 0 {
			part = strings.TrimSpace(part[i+1:])
		}

		if i := strings.Index(part, "="); i >= 0 {
			part = strings.TrimSpace(part[:i])
		}

		part = strings.TrimPrefix(part, "...")
		if part != "" {
			names = append(names, part)
		}
	}

	return names
}

// Program is a parsed script block.
type Program struct {
	Body []Statement
	Loc  scanner.Span
}

func (p *Program) Span() scanner.Span { return p.Loc }
