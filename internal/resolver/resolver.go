package resolver

import (
	"context"
	"fmt"
	"strings"

	"github.com/nerrad567/impt/internal/entity"
	"github.com/nerrad567/impt/internal/identifier"
)

// Logger defines the logging interface used by the Resolver.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Resolver resolves identifiers to entities through a Gateway.
//
// A Resolver has no mutable state besides its collaborators and may be used
// from several goroutines if the Gateway allows it.
type Resolver struct {
	gateway Gateway
	logger  Logger
}

// New creates a Resolver backed by gateway.
func New(gateway Gateway) *Resolver {
	return &Resolver{
		gateway: gateway,
		logger:  noopLogger{},
	}
}

// SetLogger sets the logger for the resolver.
func (r *Resolver) SetLogger(logger Logger) {
	if logger == nil {
		logger = noopLogger{}
	}
	r.logger = logger
}

// Resolve resolves the raw flag value of an entity argument to exactly one
// entity of type t.
//
// When raw is empty the optional hint (typically the device group of the
// current project) is used: a hint of type t is returned as is, and a hint
// related to an entity of type t (a device group's product) resolves that
// relation. Without a usable hint the result is a *NoIdentifierError.
//
// A hint of type Account or Product also narrows simple-token lookups of
// the types it contains.
func (r *Resolver) Resolve(ctx context.Context, t entity.Type, raw string, hint *entity.Entity) (*entity.Entity, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return r.fromHint(ctx, t, hint)
	}

	ref, err := identifier.Parse(raw)
	if err != nil {
		return nil, err
	}
	return r.ResolveReference(ctx, t, ref, hint)
}

// ResolveReference resolves an already parsed reference.
func (r *Resolver) ResolveReference(ctx context.Context, t entity.Type, ref identifier.Reference, hint *entity.Entity) (*entity.Entity, error) {
	if !t.IsValid() {
		return nil, fmt.Errorf("resolver: unknown entity type %q", t)
	}

	switch ref := ref.(type) {
	case identifier.Simple:
		if ref == "" {
			return r.fromHint(ctx, t, hint)
		}
		return r.resolveSimple(ctx, t, string(ref), scopeFromHint(t, hint))
	case *identifier.Scoped:
		return r.resolveScoped(ctx, t, ref)
	default:
		return nil, fmt.Errorf("resolver: unsupported reference %T", ref)
	}
}

// resolveSimple walks the candidate list for token and returns the first
// unique match.
func (r *Resolver) resolveSimple(ctx context.Context, t entity.Type, token string, scope Scope) (*entity.Entity, error) {
	for _, c := range Candidates(t, token) {
		matches, err := r.gateway.Lookup(ctx, t, c.Attribute, c.Value, scope)
		if err != nil {
			return nil, upstream(fmt.Sprintf("looking up %s by %s", t, c.Attribute), err)
		}

		r.logger.Debug("resolution candidate",
			"type", string(t),
			"attribute", c.Attribute,
			"matches", len(matches),
		)

		switch len(matches) {
		case 0:
			continue
		case 1:
			return checked(t, &matches[0])
		default:
			return nil, &AmbiguousError{
				Type:      t,
				Token:     token,
				Attribute: c.Attribute,
				Count:     len(matches),
			}
		}
	}

	return nil, &NotFoundError{Type: t, Token: token}
}

// resolveScoped resolves {owner}{product}{child}. Empty positions are
// rejected before any lookup, in owner, product, child order.
func (r *Resolver) resolveScoped(ctx context.Context, t entity.Type, ref *identifier.Scoped) (*entity.Entity, error) {
	if t != entity.TypeDeviceGroup && t != entity.TypeDevice {
		return nil, &identifier.SyntaxError{
			Input:  ref.Raw(),
			Reason: fmt.Sprintf("a hierarchical identifier cannot denote a %s", t),
		}
	}

	switch {
	case ref.Owner == "":
		return nil, &NoIdentifierError{Type: entity.TypeAccount}
	case ref.Product == "":
		return nil, &NoIdentifierError{Type: entity.TypeProduct}
	case ref.Child == "":
		return nil, &NoIdentifierError{Type: t}
	}

	owner, err := r.resolveOwner(ctx, ref)
	if err != nil {
		return nil, err
	}

	product, err := r.resolveSimple(ctx, entity.TypeProduct, ref.Product, Scope{OwnerID: owner.ID})
	if err != nil {
		return nil, err
	}

	return r.resolveSimple(ctx, t, ref.Child, Scope{OwnerID: owner.ID, ProductID: product.ID})
}

// resolveOwner binds the owner position of a scoped reference.
func (r *Resolver) resolveOwner(ctx context.Context, ref *identifier.Scoped) (*entity.Entity, error) {
	if !ref.OwnerIsMe() {
		return r.resolveSimple(ctx, entity.TypeAccount, ref.Owner, Scope{})
	}

	me, err := r.gateway.CurrentAccount(ctx)
	if err != nil {
		return nil, upstream("getting current account", err)
	}
	return checked(entity.TypeAccount, me)
}

// fromHint resolves an absent identifier from the scope hint.
func (r *Resolver) fromHint(ctx context.Context, t entity.Type, hint *entity.Entity) (*entity.Entity, error) {
	if hint == nil {
		return nil, &NoIdentifierError{Type: t}
	}
	if hint.Type == t {
		return checked(t, hint.DeepCopy())
	}

	id, ok := hint.Related(t)
	if !ok {
		return nil, &NoIdentifierError{Type: t}
	}

	matches, err := r.gateway.Lookup(ctx, t, entity.AttrID, id, Scope{})
	if err != nil {
		return nil, upstream(fmt.Sprintf("looking up %s by id", t), err)
	}
	switch len(matches) {
	case 0:
		return nil, &NotFoundError{Type: t, Token: id}
	case 1:
		return checked(t, &matches[0])
	default:
		return nil, upstream(fmt.Sprintf("looking up %s by id", t),
			fmt.Errorf("%d entities share the id %q", len(matches), id))
	}
}

// scopeFromHint derives a lookup scope from an Account or Product hint.
func scopeFromHint(t entity.Type, hint *entity.Entity) Scope {
	if hint == nil {
		return Scope{}
	}

	switch hint.Type {
	case entity.TypeAccount:
		if t == entity.TypeProduct || t == entity.TypeDeviceGroup || t == entity.TypeDevice {
			return Scope{OwnerID: hint.ID}
		}
	case entity.TypeProduct:
		if t == entity.TypeDeviceGroup || t == entity.TypeDevice {
			owner, _ := hint.Related(entity.TypeAccount)
			return Scope{OwnerID: owner, ProductID: hint.ID}
		}
	}
	return Scope{}
}

// checked enforces the resolved-entity invariants on gateway output.
func checked(t entity.Type, e *entity.Entity) (*entity.Entity, error) {
	if err := e.Validate(); err != nil {
		return nil, upstream("validating gateway result", err)
	}
	if e.Type != t {
		return nil, upstream("validating gateway result",
			fmt.Errorf("got %s %q, want a %s", e.Type, e.ID, t))
	}
	return e, nil
}
