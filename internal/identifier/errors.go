package identifier

import (
	"errors"
	"fmt"
)

// ErrInvalidSyntax is returned when a hierarchical identifier is malformed.
var ErrInvalidSyntax = errors.New("identifier: invalid syntax")

// SyntaxError describes a malformed hierarchical identifier.
type SyntaxError struct {
	Input  string
	Reason string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("invalid identifier %q: %s", e.Input, e.Reason)
}

// Is reports whether target is ErrInvalidSyntax.
func (e *SyntaxError) Is(target error) bool {
	return target == ErrInvalidSyntax
}
