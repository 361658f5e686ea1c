package trace

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingHeader means the log does not start with a "Players:" line.
	ErrMissingHeader = errors.New("missing Players: header")
	// ErrBadPlayerLine means a player declaration lacks the "- <n>: <name>" shape.
	ErrBadPlayerLine = errors.New("malformed player declaration")
	// ErrPlayerIndex means a line refers to a player that was never declared.
	ErrPlayerIndex = errors.New("player index out of range")
	// ErrBadNumber means a numeric field does not fit in an int.
	ErrBadNumber = errors.New("invalid number")
)

// ParseError reports the line at which parsing failed.
type ParseError struct {
	Line int
	Text string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %v: %q", e.Line, e.Err, e.Text)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
