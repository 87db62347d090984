package command

import (
	"encoding/json"
	"errors"

	"github.com/felixgeelhaar/tabletop/domain/grid"
	"github.com/felixgeelhaar/tabletop/domain/robot"
)

// Kind discriminates the result variants.
type Kind string

// Result variants.
const (
	// KindSuccess is a silent success (PLACE, MOVE, LEFT, RIGHT).
	KindSuccess Kind = "success"
	// KindOutput carries a user-visible message (REPORT, EXIT).
	KindOutput Kind = "output"
	// KindError is a converted domain error; never user-visible by default.
	KindError Kind = "error"
)

// ErrorKind classifies a converted domain error.
type ErrorKind string

// Error kinds mirroring the domain error taxonomy.
const (
	ErrorNotPlaced        ErrorKind = "not_placed"
	ErrorInvalidPosition  ErrorKind = "invalid_position"
	ErrorInvalidDirection ErrorKind = "invalid_direction"
	ErrorInternal         ErrorKind = "internal"
)

// Result is the outcome of executing a command. Produced once per
// execution, never mutated, serializable for cache storage.
type Result struct {
	Kind      Kind      `json:"kind"`
	Message   string    `json:"message,omitempty"`
	ErrorKind ErrorKind `json:"error_kind,omitempty"`
	Terminate bool      `json:"terminate,omitempty"`
	Cached    bool      `json:"cached,omitempty"`
}

// Success creates a silent success result.
func Success() Result {
	return Result{Kind: KindSuccess}
}

// Output creates a result with a user-visible message.
func Output(message string) Result {
	return Result{Kind: KindOutput, Message: message}
}

// Failure converts a domain error to an Error result.
func Failure(err error) Result {
	return Result{
		Kind:      KindError,
		Message:   err.Error(),
		ErrorKind: classify(err),
	}
}

// classify maps a domain error to its kind.
func classify(err error) ErrorKind {
	switch {
	case errors.Is(err, robot.ErrNotPlaced):
		return ErrorNotPlaced
	case errors.Is(err, robot.ErrInvalidPosition):
		return ErrorInvalidPosition
	case errors.Is(err, grid.ErrInvalidDirection):
		return ErrorInvalidDirection
	default:
		return ErrorInternal
	}
}

// IsSuccess reports whether the result is a silent success.
func (r Result) IsSuccess() bool {
	return r.Kind == KindSuccess
}

// IsOutput reports whether the result carries a user-visible message.
func (r Result) IsOutput() bool {
	return r.Kind == KindOutput
}

// IsError reports whether the result is a converted domain error.
func (r Result) IsError() bool {
	return r.Kind == KindError
}

// Marshal serializes the result for cache storage.
func (r Result) Marshal() ([]byte, error) {
	return json.Marshal(r)
}

// UnmarshalResult deserializes a result from cache storage.
func UnmarshalResult(data []byte) (Result, error) {
	var r Result
	if err := json.Unmarshal(data, &r); err != nil {
		return Result{}, err
	}
	return r, nil
}
