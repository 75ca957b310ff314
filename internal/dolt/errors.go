package dolt

import (
	"errors"
	"fmt"
)

// Kind classifies a failed operation. The set is closed: adapters
// (CLI, admin) only map kinds to exit codes and HTTP statuses, they
// never introduce new ones.
type Kind int

const (
	// KindConnection means the database could not be reached.
	KindConnection Kind = iota
	// KindProcedureNotAvailable means the target database lacks the
	// Dolt version-control procedures (not a Dolt-backed database).
	KindProcedureNotAvailable
	// KindValidation means a caller-supplied argument was invalid.
	KindValidation
	// KindEmptyResult means the operation produced no rows where one
	// was expected, e.g. a commit with nothing staged.
	KindEmptyResult
	// KindRemoteOperation means a push, pull, or fetch failed. The
	// message carries the engine-reported reason verbatim.
	KindRemoteOperation
)

func (k Kind) String() string {
	switch k {
	case KindConnection:
		return "connection"
	case KindProcedureNotAvailable:
		return "procedure_not_available"
	case KindValidation:
		return "validation"
	case KindEmptyResult:
		return "empty_result"
	case KindRemoteOperation:
		return "remote_operation"
	default:
		return "unknown"
	}
}

// Sentinels for errors.Is matching against the closed taxonomy.
var (
	ErrConnection            = errors.New("connection failed")
	ErrProcedureNotAvailable = errors.New("dolt procedures not available")
	ErrValidation            = errors.New("invalid argument")
	ErrEmptyResult           = errors.New("empty result")
	ErrRemoteOperation       = errors.New("remote operation failed")
)

func (k Kind) sentinel() error {
	switch k {
	case KindConnection:
		return ErrConnection
	case KindProcedureNotAvailable:
		return ErrProcedureNotAvailable
	case KindValidation:
		return ErrValidation
	case KindEmptyResult:
		return ErrEmptyResult
	case KindRemoteOperation:
		return ErrRemoteOperation
	default:
		return nil
	}
}

// Error is the structured error returned by every Service operation.
type Error struct {
	Kind    Kind
	Op      string // facade operation: "add", "commit", "push", ...
	Message string
	Err     error // underlying driver error, if any
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Kind)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches the kind sentinels, so callers can write
// errors.Is(err, dolt.ErrEmptyResult).
func (e *Error) Is(target error) bool {
	return target == e.Kind.sentinel()
}

func newError(kind Kind, op, message string, err error) *Error {
	return &Error{Kind: kind, Op: op, Message: message, Err: err}
}
