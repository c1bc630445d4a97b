package cli

import (
	"errors"
	"strings"

	"github.com/nerrad567/impt/internal/identifier"
	"github.com/nerrad567/impt/internal/platform"
	"github.com/nerrad567/impt/internal/resolver"
)

// Process exit codes.
const (
	ExitOK           = 0
	ExitError        = 1
	ExitUsage        = 2
	ExitNoIdentifier = 3
	ExitNotFound     = 4
	ExitAmbiguous    = 5
	ExitUpstream     = 6
)

// Failure kinds reported by the JSON error output.
const (
	kindError        = "error"
	kindUsage        = "usage"
	kindSyntax       = "invalid_syntax"
	kindNoIdentifier = "no_identifier"
	kindNotFound     = "not_found"
	kindAmbiguous    = "ambiguous"
	kindUpstream     = "upstream"
	kindUnauthorized = "unauthorized"
	kindConflict     = "conflict"
)

// usageError marks a command line that could not be parsed.
type usageError struct {
	err error
}

func (e *usageError) Error() string { return e.err.Error() }

func (e *usageError) Unwrap() error { return e.err }

func newUsageError(err error) error {
	return &usageError{err: err}
}

// classify maps err onto an exit code and a failure kind. Resolver
// classifications win over the platform error they may wrap.
func classify(err error) (code int, kind string) {
	var usage *usageError
	switch {
	case err == nil:
		return ExitOK, ""
	case errors.As(err, &usage), isCobraUsage(err):
		return ExitUsage, kindUsage
	case errors.Is(err, identifier.ErrInvalidSyntax):
		return ExitUsage, kindSyntax
	case errors.Is(err, resolver.ErrNoIdentifier):
		return ExitNoIdentifier, kindNoIdentifier
	case errors.Is(err, resolver.ErrAmbiguous):
		return ExitAmbiguous, kindAmbiguous
	case errors.Is(err, platform.ErrUnauthorized):
		return ExitUpstream, kindUnauthorized
	case errors.Is(err, resolver.ErrUpstream):
		return ExitUpstream, kindUpstream
	case errors.Is(err, resolver.ErrNotFound), errors.Is(err, platform.ErrNotFound):
		return ExitNotFound, kindNotFound
	case errors.Is(err, platform.ErrConflict):
		return ExitError, kindConflict
	case errors.Is(err, platform.ErrRequestFailed):
		return ExitUpstream, kindUpstream
	}
	return ExitError, kindError
}

// isCobraUsage recognises the argument errors cobra raises itself.
func isCobraUsage(err error) bool {
	msg := err.Error()
	return strings.HasPrefix(msg, "unknown command") ||
		strings.HasPrefix(msg, "unknown flag") ||
		strings.HasPrefix(msg, "unknown shorthand flag")
}
