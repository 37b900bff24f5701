package tablespec

import "fmt"

// MissingArgumentError indicates that a required argument was not supplied.
type MissingArgumentError struct {
	Argument string
}

func (e *MissingArgumentError) Error() string {
	return fmt.Sprintf("%s expected", e.Argument)
}

// InvalidIdentifierError indicates a source or entity name that cannot name a table.
type InvalidIdentifierError struct {
	Identifier string
	Reason     string
}

func (e *InvalidIdentifierError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Identifier, e.Reason)
}

// ParseError reports a malformed line of a pipe-delimited specification.
type ParseError struct {
	Line    int
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Message)
}

// ErrMissingArgument creates a MissingArgumentError for the named argument.
func ErrMissingArgument(argument string) *MissingArgumentError {
	return &MissingArgumentError{Argument: argument}
}

// ErrInvalidIdentifier creates an InvalidIdentifierError with a formatted reason.
func ErrInvalidIdentifier(identifier, format string, args ...interface{}) *InvalidIdentifierError {
	return &InvalidIdentifierError{Identifier: identifier, Reason: fmt.Sprintf(format, args...)}
}
