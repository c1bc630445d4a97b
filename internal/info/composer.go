package info

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/nerrad567/impt/internal/entity"
	"github.com/nerrad567/impt/internal/resolver"
)

// ErrMissingRelation is returned when a mandatory relation (a device
// group's product) cannot be loaded.
var ErrMissingRelation = errors.New("info: mandatory relation is missing")

// Depth selects how far a view expands.
type Depth int

const (
	// Shallow includes the entity and its immediate parents.
	Shallow Depth = iota
	// Full additionally expands deployments and member lists.
	Full
)

// String returns the depth name.
func (d Depth) String() string {
	if d == Full {
		return "full"
	}
	return "shallow"
}

// Logger defines the logging interface used by the Composer.
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

// Composer builds Views using a resolver.Gateway.
type Composer struct {
	gateway resolver.Gateway
	logger  Logger
}

// New creates a Composer backed by gateway.
func New(gateway resolver.Gateway) *Composer {
	return &Composer{
		gateway: gateway,
		logger:  noopLogger{},
	}
}

// SetLogger sets the logger for the composer.
func (c *Composer) SetLogger(logger Logger) {
	if logger == nil {
		logger = noopLogger{}
	}
	c.logger = logger
}

// Compose builds the view of e at the requested depth.
//
// Independent second-hop lookups run concurrently. A failure loading an
// optional relation is logged and the relation is omitted; a failure
// loading a mandatory one is returned.
func (c *Composer) Compose(ctx context.Context, e *entity.Entity, depth Depth) (*View, error) {
	if err := e.Validate(); err != nil {
		return nil, fmt.Errorf("info: %w", err)
	}

	view := &View{
		Entity: *e.DeepCopy(),
		Depth:  depth,
	}

	var err error
	switch e.Type {
	case entity.TypeDevice:
		err = c.composeDevice(ctx, view)
	case entity.TypeDeviceGroup:
		err = c.composeGroup(ctx, view)
	case entity.TypeProduct:
		view.Owner = c.optional(ctx, entity.TypeAccount, &view.Entity)
	case entity.TypeAccount:
	}
	if err != nil {
		return nil, err
	}
	return view, nil
}

// composeDevice adds the device's group, the group's product and, at full
// depth, the group's current deployment.
func (c *Composer) composeDevice(ctx context.Context, view *View) error {
	groupID, ok := view.Entity.Related(entity.TypeDeviceGroup)
	if !ok {
		return nil
	}

	group, err := c.byID(ctx, entity.TypeDeviceGroup, groupID)
	if err != nil {
		c.logger.Warn("omitting device group from view",
			"device_id", view.Entity.ID,
			"device_group_id", groupID,
			"error", err,
		)
		return nil
	}
	if group == nil {
		// The group went away between the device read and this one.
		c.logger.Debug("device group of device not found",
			"device_id", view.Entity.ID,
			"device_group_id", groupID,
		)
		return nil
	}
	view.DeviceGroup = group

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		product, err := c.mandatory(gctx, entity.TypeProduct, group)
		view.Product = product
		return err
	})
	if view.Depth == Full {
		g.Go(func() error {
			view.Deployment = c.deployment(gctx, group.ID)
			return nil
		})
	}
	return g.Wait()
}

// composeGroup adds the group's product and, at full depth, its current
// deployment and members.
func (c *Composer) composeGroup(ctx context.Context, view *View) error {
	group := &view.Entity

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		product, err := c.mandatory(gctx, entity.TypeProduct, group)
		view.Product = product
		return err
	})
	if view.Depth == Full {
		g.Go(func() error {
			view.Deployment = c.deployment(gctx, group.ID)
			return nil
		})
		g.Go(func() error {
			view.Members = c.members(gctx, group.ID)
			return nil
		})
	}
	return g.Wait()
}

// mandatory loads the related entity of type t, failing if it is absent.
func (c *Composer) mandatory(ctx context.Context, t entity.Type, from *entity.Entity) (*entity.Entity, error) {
	id, ok := from.Related(t)
	if !ok {
		return nil, fmt.Errorf("%w: %s has no %s", ErrMissingRelation, from.Label(), t)
	}

	related, err := c.byID(ctx, t, id)
	if err != nil {
		return nil, err
	}
	if related == nil {
		return nil, fmt.Errorf("%w: %s %q of %s not found", ErrMissingRelation, t, id, from.Label())
	}
	return related, nil
}

// optional loads the related entity of type t, degrading to nil.
func (c *Composer) optional(ctx context.Context, t entity.Type, from *entity.Entity) *entity.Entity {
	id, ok := from.Related(t)
	if !ok {
		return nil
	}

	related, err := c.byID(ctx, t, id)
	if err != nil {
		c.logger.Warn("omitting relation from view",
			"from", from.Label(),
			"relation", t.String(),
			"error", err,
		)
		return nil
	}
	return related
}

// deployment returns the group's current build, degrading to nil.
func (c *Composer) deployment(ctx context.Context, groupID string) *entity.Build {
	build, err := c.gateway.CurrentDeployment(ctx, groupID)
	if err != nil {
		c.logger.Warn("omitting current deployment from view",
			"device_group_id", groupID,
			"error", err,
		)
		return nil
	}
	return build
}

// members returns the group's devices sorted by name then id. A failed
// listing degrades to nil; a group without devices yields an empty slice.
func (c *Composer) members(ctx context.Context, groupID string) []entity.Entity {
	devices, err := c.gateway.ListMembers(ctx, groupID)
	if err != nil {
		c.logger.Warn("omitting devices from view",
			"device_group_id", groupID,
			"error", err,
		)
		return nil
	}

	out := make([]entity.Entity, 0, len(devices))
	for i := range devices {
		if err := devices[i].Validate(); err != nil {
			c.logger.Warn("skipping invalid member device",
				"device_group_id", groupID,
				"error", err,
			)
			continue
		}
		out = append(out, *devices[i].DeepCopy())
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// byID looks up a single entity by id. A missing entity is (nil, nil).
func (c *Composer) byID(ctx context.Context, t entity.Type, id string) (*entity.Entity, error) {
	matches, err := c.gateway.Lookup(ctx, t, entity.AttrID, id, resolver.Scope{})
	if err != nil {
		return nil, &resolver.UpstreamError{Op: fmt.Sprintf("looking up %s %q", t, id), Err: err}
	}

	switch len(matches) {
	case 0:
		return nil, nil
	case 1:
		if err := matches[0].Validate(); err != nil {
			return nil, &resolver.UpstreamError{Op: fmt.Sprintf("looking up %s %q", t, id), Err: err}
		}
		return matches[0].DeepCopy(), nil
	default:
		return nil, &resolver.UpstreamError{
			Op:  fmt.Sprintf("looking up %s %q", t, id),
			Err: fmt.Errorf("%d entities share the id", len(matches)),
		}
	}
}
