// Package optimizer rewrites a parsed Module in place before code generation.
package optimizer

import (
	"github.com/shibukawa/hxo/ir"
	"github.com/shibukawa/hxo/styleengine"
)

// DefaultStyleCall is the script function whose string arguments are collected as classes.
const DefaultStyleCall = "addStyle"

// Processor is one optimization stage. Stages never fail on well-formed IR.
type Processor interface {
	Process(ctx *Context)
	Name() string
}

// Context is shared by the stages of one Execute call.
type Context struct {
	Module   *ir.Module
	ScopeID  string
	Messages map[string]string

	Styles    *styleengine.Engine
	StyleCall string
}

type options struct {
	scopeID   string
	messages  map[string]string
	resolver  styleengine.Resolver
	styleCall string
}

// Option configures a Pipeline.
type Option func(*options)

// WithScopeID fixes the scope token instead of deriving it from the module name.
func WithScopeID(id string) Option {
	return func(o *options) { o.scopeID = id }
}

// WithMessages supplies the translations for `$t("key")` substitution.
func WithMessages(messages map[string]string) Option {
	return func(o *options) { o.messages = messages }
}

// WithResolver replaces the built-in utility class resolver.
func WithResolver(r styleengine.Resolver) Option {
	return func(o *options) { o.resolver = r }
}

// WithStyleCall changes the name of the style-registration call.
func WithStyleCall(name string) Option {
	return func(o *options) { o.styleCall = name }
}

// Pipeline runs processors in order over a module.
type Pipeline struct {
	opts       options
	processors []Processor
}

// NewPipeline returns a pipeline with no processors.
func NewPipeline(opts ...Option) *Pipeline {
	o := options{styleCall: DefaultStyleCall}
	for _, opt := range opts {
		opt(&o)
	}

	return &Pipeline{opts: o}
}

// New returns the default pipeline: static classification, scope, i18n,
// call counts and style collection.
func New(opts ...Option) *Pipeline {
	p := NewPipeline(opts...)

	p.AddProcessor(&StaticClassifier{})
	p.AddProcessor(&ScopeProcessor{})
	p.AddProcessor(&I18nProcessor{})
	p.AddProcessor(&CallCounter{})
	p.AddProcessor(&StyleCollector{})

	return p
}

// AddProcessor appends a stage.
func (p *Pipeline) AddProcessor(proc Processor) {
	p.processors = append(p.processors, proc)
}

// Names lists the stages in execution order.
func (p *Pipeline) Names() []string {
	names := make([]string, len(p.processors))
	for i, proc := range p.processors {
		names[i] = proc.Name()
	}

	return names
}

// Execute runs every stage over m.
func (p *Pipeline) Execute(m *ir.Module) {
	ctx := &Context{
		Module:    m,
		ScopeID:   p.opts.scopeID,
		Messages:  p.opts.messages,
		Styles:    styleengine.New(p.opts.resolver),
		StyleCall: p.opts.styleCall,
	}

	for _, proc := range p.processors {
		proc.Process(ctx)
	}
}
