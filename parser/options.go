package parser

// Options controls how non-fatal block failures are surfaced.
type Options struct {
	// OnSkip is called when a style, metadata, i18n or custom block is dropped
	// because its sub-parser is missing or failed. The parse itself goes on.
	OnSkip func(block, lang string, err error)
}

// DefaultOptions drops skipped blocks silently.
var DefaultOptions = Options{}

func (o Options) skip(block, lang string, err error) {
	if o.OnSkip != nil {
		o.OnSkip(block, lang, err)
	}
}
