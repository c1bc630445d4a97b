package sandbox

import (
	"context"
	"errors"

	"github.com/nerrad567/impt/internal/entity"
	"github.com/nerrad567/impt/internal/fleet"
	"github.com/nerrad567/impt/internal/resolver"
)

// errNoCaller is returned by CurrentAccount outside an authenticated request.
var errNoCaller = errors.New("sandbox: no authenticated account")

// fleetGateway lets the sandbox resolve identifiers against its own store,
// the same way the CLI resolves them over HTTP.
type fleetGateway struct {
	repo *fleet.Repository
}

func (g *fleetGateway) Lookup(ctx context.Context, t entity.Type, attribute, value string, scope resolver.Scope) ([]entity.Entity, error) {
	return g.repo.Find(ctx, t, attribute, value, scope)
}

func (g *fleetGateway) CurrentAccount(ctx context.Context) (*entity.Entity, error) {
	caller := callerFrom(ctx)
	if caller == nil {
		return nil, errNoCaller
	}
	return caller.DeepCopy(), nil
}

func (g *fleetGateway) ListMembers(ctx context.Context, deviceGroupID string) ([]entity.Entity, error) {
	return g.repo.ListMembers(ctx, deviceGroupID)
}

func (g *fleetGateway) CurrentDeployment(ctx context.Context, deviceGroupID string) (*entity.Build, error) {
	return g.repo.CurrentDeployment(ctx, deviceGroupID)
}
