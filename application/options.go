package application

import (
	"io"

	"github.com/felixgeelhaar/tabletop/domain/command"
	"github.com/felixgeelhaar/tabletop/domain/middleware"
)

// Option configures a Processor.
type Option func(*Processor)

// WithSink sets the output sink.
func WithSink(sink Sink) Option {
	return func(p *Processor) {
		if sink != nil {
			p.sink = sink
		}
	}
}

// WithWriter directs output to an io.Writer.
func WithWriter(w io.Writer) Option {
	return func(p *Processor) {
		if w != nil {
			p.sink = WriterSink(w)
		}
	}
}

// WithFormatter sets the report formatter.
func WithFormatter(f Formatter) Option {
	return func(p *Processor) {
		if f != nil {
			p.formatter = f
		}
	}
}

// WithMiddleware appends middleware to the dispatch chain, outermost
// first.
func WithMiddleware(mw ...middleware.Middleware) Option {
	return func(p *Processor) {
		p.middleware = append(p.middleware, mw...)
	}
}

// WithRegistry replaces the command registry.
func WithRegistry(r command.Registry) Option {
	return func(p *Processor) {
		if r != nil {
			p.registry = r
		}
	}
}
