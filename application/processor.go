package application

import (
	"context"
	"io"
	"regexp"
	"strings"
	"time"

	"github.com/felixgeelhaar/tabletop/domain/command"
	"github.com/felixgeelhaar/tabletop/domain/middleware"
	"github.com/felixgeelhaar/tabletop/domain/robot"
	"github.com/felixgeelhaar/tabletop/infrastructure/logging"
	"github.com/felixgeelhaar/tabletop/infrastructure/statemachine"
	"github.com/felixgeelhaar/tabletop/infrastructure/storage/memory"
)

// Outcome signals whether the processor should keep accepting commands.
type Outcome int

// Processing outcomes.
const (
	// OutcomeContinue means the session accepts further commands.
	OutcomeContinue Outcome = iota
	// OutcomeTerminate means an exit command ended the session.
	OutcomeTerminate
)

// Sink receives the zero or one message a processed command emits.
type Sink interface {
	Write(message string) error
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(message string) error

// Write calls the function.
func (f SinkFunc) Write(message string) error {
	return f(message)
}

// WriterSink writes newline-terminated messages to an io.Writer.
func WriterSink(w io.Writer) Sink {
	return SinkFunc(func(message string) error {
		_, err := io.WriteString(w, message+"\n")
		return err
	})
}

// Formatter renders a canonical report string for presentation.
// Formatting is presentation-only; implementations are interchangeable.
type Formatter interface {
	Format(report string) string
}

// identityFormatter passes reports through unchanged.
type identityFormatter struct{}

func (identityFormatter) Format(report string) string { return report }

// reportPattern matches the canonical report shape. Only messages of
// this shape are routed through the formatter; other output (such as
// the goodbye message) passes through unchanged.
var reportPattern = regexp.MustCompile(`^\d+,\d+,(NORTH|SOUTH|EAST|WEST)$`)

// Processor is the top-level façade composing parser, registry,
// middleware chain, dispatcher, and output routing. Process never
// returns an error; every failure mode is absorbed into a no-op or a
// logged result.
type Processor struct {
	robot      *robot.Robot
	registry   command.Registry
	handler    middleware.Handler
	sink       Sink
	formatter  Formatter
	session    *statemachine.Session
	middleware []middleware.Middleware
}

// NewProcessor creates a processor for the given robot.
func NewProcessor(r *robot.Robot, opts ...Option) (*Processor, error) {
	session, err := statemachine.NewSession(r.ID())
	if err != nil {
		return nil, err
	}

	p := &Processor{
		robot:     r,
		registry:  memory.NewCommandRegistry(),
		sink:      SinkFunc(func(string) error { return nil }),
		formatter: identityFormatter{},
		session:   session,
	}
	for _, opt := range opts {
		opt(p)
	}

	p.handler = middleware.Chain(p.middleware...)(Dispatch)
	return p, nil
}

// Process runs one raw command line through the pipeline and reports
// whether the session continues. Unparseable lines are silently dropped;
// domain errors are logged, never printed.
func (p *Processor) Process(ctx context.Context, line string) Outcome {
	if p.session.Terminated() {
		return OutcomeTerminate
	}

	line = strings.TrimSpace(line)
	cmd, ok := p.resolve(line)
	if !ok {
		logging.Debug().
			Add(logging.AgentID(p.robot.ID())).
			Add(logging.Raw(line)).
			Msg("dropped unparseable command")
		return OutcomeContinue
	}

	execCtx := &middleware.ExecutionContext{
		AgentID:   p.robot.ID(),
		Raw:       line,
		Signature: p.robot.Signature(),
		Command:   cmd,
		Robot:     p.robot,
	}

	start := time.Now()
	res, err := p.handler(ctx, execCtx)
	if err != nil {
		logging.Error().
			Add(logging.AgentID(p.robot.ID())).
			Add(logging.Cmd(cmd.Name())).
			Add(logging.ErrorField(err)).
			Msg("dispatch failed")
		return OutcomeContinue
	}

	p.session.CommandProcessed()
	logging.Debug().
		Add(logging.AgentID(p.robot.ID())).
		Add(logging.Cmd(cmd.Name())).
		Add(logging.Cached(res.Cached)).
		Add(logging.Duration(time.Since(start))).
		Msg("command processed")

	p.route(res)

	if res.Terminate {
		p.session.Terminate(line)
		return OutcomeTerminate
	}
	return OutcomeContinue
}

// resolve parses the line, falling back to the registry for dynamically
// registered commands. Commands that fail their own validity check are
// treated as parse failures.
func (p *Processor) resolve(line string) (command.Command, bool) {
	cmd, ok := command.Parse(line)
	if !ok && p.registry != nil {
		name, args := command.Split(line)
		cmd, ok = p.registry.Create(name, args)
	}
	if !ok || cmd == nil || !cmd.Valid() {
		return nil, false
	}
	return cmd, true
}

// route forwards a result's message to the sink, applying the formatter
// to canonical report strings only.
func (p *Processor) route(res command.Result) {
	switch {
	case res.IsOutput():
		message := res.Message
		if reportPattern.MatchString(message) {
			message = p.formatter.Format(message)
		}
		if err := p.sink.Write(message); err != nil {
			logging.Warn().
				Add(logging.AgentID(p.robot.ID())).
				Add(logging.ErrorField(err)).
				Msg("sink write failed")
		}
	case res.IsError():
		logging.Debug().
			Add(logging.AgentID(p.robot.ID())).
			Add(logging.Str("error_kind", string(res.ErrorKind))).
			Add(logging.Str("error", res.Message)).
			Msg("command rejected")
	}
}

// Register adds a command constructor under the given name, making the
// pipeline extensible without modification.
func (p *Processor) Register(name string, ctor command.Constructor) {
	p.registry.Register(name, ctor)
}

// Robot returns the robot the processor drives.
func (p *Processor) Robot() *robot.Robot {
	return p.robot
}

// Session returns the session lifecycle for inspection.
func (p *Processor) Session() *statemachine.Session {
	return p.session
}

// Close releases session resources.
func (p *Processor) Close() {
	p.session.Stop()
}
