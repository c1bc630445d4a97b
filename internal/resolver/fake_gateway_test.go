package resolver

import (
	"context"
	"sync"

	"github.com/nerrad567/impt/internal/entity"
)

// lookupCall records one Lookup invocation.
type lookupCall struct {
	Type      entity.Type
	Attribute string
	Value     string
	Scope     Scope
}

// fakeGateway is an in-memory Gateway with call recording.
type fakeGateway struct {
	mu       sync.Mutex
	entities []entity.Entity
	me       string
	calls    []lookupCall

	// For testing error paths
	lookupErr  error
	accountErr error
	failOn     string // attribute whose lookup returns lookupErr; empty means all
}

func newFakeGateway(me string, entities ...entity.Entity) *fakeGateway {
	return &fakeGateway{entities: entities, me: me}
}

func (g *fakeGateway) Lookup(_ context.Context, t entity.Type, attribute, value string, scope Scope) ([]entity.Entity, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.calls = append(g.calls, lookupCall{Type: t, Attribute: attribute, Value: value, Scope: scope})
	if g.lookupErr != nil && (g.failOn == "" || g.failOn == attribute) {
		return nil, g.lookupErr
	}

	var out []entity.Entity
	for _, e := range g.entities {
		if e.Type != t || e.Attr(attribute) != value || value == "" {
			continue
		}
		if !g.inScope(e, scope) {
			continue
		}
		out = append(out, *e.DeepCopy())
	}
	return out, nil
}

func (g *fakeGateway) CurrentAccount(_ context.Context) (*entity.Entity, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.accountErr != nil {
		return nil, g.accountErr
	}
	e := g.byID(g.me)
	if e == nil {
		return nil, nil
	}
	return e.DeepCopy(), nil
}

func (g *fakeGateway) ListMembers(_ context.Context, deviceGroupID string) ([]entity.Entity, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	var out []entity.Entity
	for _, e := range g.entities {
		if e.Type == entity.TypeDevice && e.Relations[entity.TypeDeviceGroup] == deviceGroupID {
			out = append(out, *e.DeepCopy())
		}
	}
	return out, nil
}

func (g *fakeGateway) CurrentDeployment(context.Context, string) (*entity.Build, error) {
	return nil, nil
}

// lookups returns a copy of the recorded calls.
func (g *fakeGateway) lookups() []lookupCall {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]lookupCall(nil), g.calls...)
}

func (g *fakeGateway) byID(id string) *entity.Entity {
	for i := range g.entities {
		if g.entities[i].ID == id {
			return &g.entities[i]
		}
	}
	return nil
}

// inScope follows relations upwards: device -> group -> product -> owner.
func (g *fakeGateway) inScope(e entity.Entity, scope Scope) bool {
	productID, ownerID := "", ""
	switch e.Type {
	case entity.TypeProduct:
		productID, ownerID = e.ID, e.Relations[entity.TypeAccount]
	case entity.TypeDeviceGroup:
		productID = e.Relations[entity.TypeProduct]
	case entity.TypeDevice:
		if group := g.byID(e.Relations[entity.TypeDeviceGroup]); group != nil {
			productID = group.Relations[entity.TypeProduct]
		}
	}
	if ownerID == "" {
		if product := g.byID(productID); product != nil {
			ownerID = product.Relations[entity.TypeAccount]
		}
	}

	if scope.OwnerID != "" && scope.OwnerID != ownerID {
		return false
	}
	if scope.ProductID != "" && e.Type != entity.TypeProduct && scope.ProductID != productID {
		return false
	}
	return true
}

func account(id, username, email string) entity.Entity {
	return entity.Entity{
		Type:       entity.TypeAccount,
		ID:         id,
		Name:       username,
		Attributes: map[string]string{entity.AttrUsername: username, entity.AttrEmail: email},
	}
}

func product(id, name, ownerID string) entity.Entity {
	return entity.Entity{
		Type:      entity.TypeProduct,
		ID:        id,
		Name:      name,
		Relations: map[entity.Type]string{entity.TypeAccount: ownerID},
	}
}

func group(id, name, productID string) entity.Entity {
	return entity.Entity{
		Type:       entity.TypeDeviceGroup,
		ID:         id,
		Name:       name,
		Attributes: map[string]string{entity.AttrType: "development"},
		Relations:  map[entity.Type]string{entity.TypeProduct: productID},
	}
}

func device(id, name, mac, agentID, groupID string) entity.Entity {
	e := entity.Entity{
		Type: entity.TypeDevice,
		ID:   id,
		Name: name,
		Attributes: map[string]string{
			entity.AttrMACAddress: mac,
			entity.AttrAgentID:    agentID,
		},
	}
	if groupID != "" {
		e.Relations = map[entity.Type]string{entity.TypeDeviceGroup: groupID}
	}
	return e
}
