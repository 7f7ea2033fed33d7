package transport

import (
	"errors"
	"fmt"
)

var (
	// ErrPortClosed resolves blocking receive/listen operations whose port
	// was closed concurrently, and rejects operations on closed ports.
	ErrPortClosed = errors.New("port closed")

	// ErrInvalidArgument reports a caller contract violation: a zero or
	// negative chunk size, a response whose transaction metadata does not
	// match an outstanding request, a specifier with the wrong role.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrUnsupported marks declared but unimplemented features, such as
	// redundant multi-transport construction.
	ErrUnsupported = errors.New("unsupported")
)

// OutOfRangeError reports a data-specifier numeric field outside its valid
// closed interval. It is raised at construction time, never later.
type OutOfRangeError struct {
	Field string
	Value int
	Min   int
	Max   int
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("%s %d out of range [%d, %d]", e.Field, e.Value, e.Min, e.Max)
}
