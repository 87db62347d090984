// Package statemachine provides the statekit-backed session lifecycle
// for the command processor. A session accepts commands until an exit
// command terminates it; termination is final.
package statemachine

import (
	"github.com/felixgeelhaar/statekit"
)

// Context carries session state through the state machine.
type Context struct {
	// AgentID identifies the robot the session drives.
	AgentID string
	// Commands counts processed command lines.
	Commands int
	// TerminatedBy holds the raw command text that ended the session.
	TerminatedBy string
}

// State IDs for the session statechart.
const (
	stateAccepting  statekit.StateID = "accepting"
	stateTerminated statekit.StateID = "terminated"
)

// eventTerminate ends the session.
const eventTerminate statekit.EventType = "TERMINATE"

// TerminatePayload carries the terminating command with the event.
type TerminatePayload struct {
	Raw string
}

// recordTermination stores the terminating command on the context.
// In statekit, actions receive a pointer to the context; since our
// context is *Context, actions receive **Context.
func recordTermination(ctx **Context, event statekit.Event) {
	if ctx == nil || *ctx == nil {
		return
	}
	if payload, ok := event.Payload.(TerminatePayload); ok {
		(*ctx).TerminatedBy = payload.Raw
	}
}

// NewSessionMachine creates the session statechart.
func NewSessionMachine() (*statekit.MachineConfig[*Context], error) {
	return statekit.NewMachine[*Context]("session").
		WithInitial(stateAccepting).
		WithContext(&Context{}).
		WithAction("recordTermination", recordTermination).
		State(stateAccepting).
		On(eventTerminate).Target(stateTerminated).Do("recordTermination").
		Done().
		State(stateTerminated).
		Final().
		Done().
		Build()
}

// Session wraps the statekit interpreter for the processor.
type Session struct {
	interp *statekit.Interpreter[*Context]
	ctx    *Context
}

// NewSession creates and starts a session for the given agent.
func NewSession(agentID string) (*Session, error) {
	machine, err := NewSessionMachine()
	if err != nil {
		return nil, err
	}

	ctx := &Context{AgentID: agentID}
	interp := statekit.NewInterpreter(machine)
	interp.UpdateContext(func(c **Context) {
		*c = ctx
	})
	interp.Start()

	return &Session{interp: interp, ctx: ctx}, nil
}

// Accepting reports whether the session still accepts commands.
func (s *Session) Accepting() bool {
	return !s.interp.Done()
}

// Terminated reports whether the session has ended.
func (s *Session) Terminated() bool {
	return s.interp.Done()
}

// Terminate ends the session, recording the command that ended it.
// Terminating an already terminated session is a no-op.
func (s *Session) Terminate(raw string) {
	if s.Terminated() {
		return
	}
	s.interp.Send(statekit.Event{
		Type:    eventTerminate,
		Payload: TerminatePayload{Raw: raw},
	})
}

// CommandProcessed counts a processed command line.
func (s *Session) CommandProcessed() {
	s.ctx.Commands++
}

// Commands returns the number of processed command lines.
func (s *Session) Commands() int {
	return s.ctx.Commands
}

// TerminatedBy returns the raw command that ended the session.
func (s *Session) TerminatedBy() string {
	return s.ctx.TerminatedBy
}

// AgentID returns the agent the session drives.
func (s *Session) AgentID() string {
	return s.ctx.AgentID
}

// Stop stops the underlying interpreter.
func (s *Session) Stop() {
	s.interp.Stop()
}
