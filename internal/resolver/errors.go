package resolver

import (
	"errors"
	"fmt"

	"github.com/nerrad567/impt/internal/entity"
)

// Classification sentinels. Every error returned by the resolver matches
// exactly one of these (or identifier.ErrInvalidSyntax) via errors.Is.
var (
	// ErrNoIdentifier is returned when a required identifier is absent or a
	// scoped position was given as "{}".
	ErrNoIdentifier = errors.New("resolver: no identifier is specified")

	// ErrNotFound is returned when every candidate attribute matched nothing.
	ErrNotFound = errors.New("resolver: entity not found")

	// ErrAmbiguous is returned when a candidate attribute matched several entities.
	ErrAmbiguous = errors.New("resolver: ambiguous identifier")

	// ErrUpstream is returned when the gateway itself failed.
	ErrUpstream = errors.New("resolver: upstream failure")
)

// NoIdentifierError reports that no identifier was supplied for Type.
type NoIdentifierError struct {
	Type entity.Type
}

func (e *NoIdentifierError) Error() string {
	return fmt.Sprintf("no %s identifier is specified", e.Type)
}

// Is reports whether target is ErrNoIdentifier.
func (e *NoIdentifierError) Is(target error) bool { return target == ErrNoIdentifier }

// NotFoundError reports that Token matched no entity of Type.
type NotFoundError struct {
	Type  entity.Type
	Token string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q is not found", e.Type, e.Token)
}

// Is reports whether target is ErrNotFound.
func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// AmbiguousError reports that Token matched Count entities of Type on
// Attribute.
type AmbiguousError struct {
	Type      entity.Type
	Token     string
	Attribute string
	Count     int
}

func (e *AmbiguousError) Error() string {
	return fmt.Sprintf("multiple %s match %q by %s (%d found), use a unique identifier",
		e.Type.Plural(), e.Token, e.Attribute, e.Count)
}

// Is reports whether target is ErrAmbiguous.
func (e *AmbiguousError) Is(target error) bool { return target == ErrAmbiguous }

// UpstreamError wraps a gateway failure unchanged.
type UpstreamError struct {
	Op  string
	Err error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

// Is reports whether target is ErrUpstream.
func (e *UpstreamError) Is(target error) bool { return target == ErrUpstream }

// Unwrap returns the gateway error.
func (e *UpstreamError) Unwrap() error { return e.Err }

// upstream wraps err unless it is already classified.
func upstream(op string, err error) error {
	var up *UpstreamError
	if errors.As(err, &up) {
		return err
	}
	return &UpstreamError{Op: op, Err: err}
}
