package resolver

import (
	"context"

	"github.com/nerrad567/impt/internal/entity"
)

// Scope narrows a lookup to an owner account and/or a product.
// Empty fields do not filter.
type Scope struct {
	OwnerID   string
	ProductID string
}

// IsZero reports whether the scope applies no filter.
func (s Scope) IsZero() bool {
	return s.OwnerID == "" && s.ProductID == ""
}

// Gateway is the boundary to the remote platform.
//
// Implementations perform blocking round-trips and own timeouts and
// retries. Lookup must return every match for (attribute, value) within the
// scope and must not try to disambiguate.
type Gateway interface {
	// Lookup returns the entities of type t whose attribute equals value.
	Lookup(ctx context.Context, t entity.Type, attribute, value string, scope Scope) ([]entity.Entity, error)

	// CurrentAccount returns the authenticated caller.
	CurrentAccount(ctx context.Context) (*entity.Entity, error)

	// ListMembers returns the devices assigned to a device group.
	ListMembers(ctx context.Context, deviceGroupID string) ([]entity.Entity, error)

	// CurrentDeployment returns the group's current build, or nil if none.
	CurrentDeployment(ctx context.Context, deviceGroupID string) (*entity.Build, error)
}
