package platform

import (
	"time"

	"github.com/nerrad567/impt/internal/entity"
)

// APIPrefix is the path every platform endpoint lives under.
const APIPrefix = "/api/v1"

// Query parameters used by collection lookups.
const (
	// FilterOwner narrows a lookup to entities owned by an account.
	FilterOwner = "owner.id"
	// FilterProduct narrows a lookup to entities inside a product.
	FilterProduct = "product.id"
	// ParamForce allows deleting an entity that is still in use.
	ParamForce = "force"
)

// FilterParam returns the query parameter name for a filter key, e.g.
// filter[mac_address].
func FilterParam(key string) string {
	return "filter[" + key + "]"
}

// Resource is one entity as it travels on the wire. The name is carried in
// Attributes under "name"; Relationships maps a related entity's type to
// its id.
type Resource struct {
	Type          string            `json:"type"`
	ID            string            `json:"id"`
	Attributes    map[string]string `json:"attributes"`
	Relationships map[string]string `json:"relationships,omitempty"`
}

// Document is a collection response.
type Document struct {
	Data []Resource `json:"data"`
}

// ResourceDocument is a single-entity response.
type ResourceDocument struct {
	Data Resource `json:"data"`
}

// BuildDocument is a deployment response. Data is null when a device group
// has never been deployed to.
type BuildDocument struct {
	Data *entity.Build `json:"data"`
}

// ErrorBody is the error envelope returned with every non-2xx status.
type ErrorBody struct {
	Status  int    `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// LoginRequest exchanges an account identifier (id, email or username)
// for a bearer token.
type LoginRequest struct {
	Account string `json:"account"`
}

// LoginResponse carries the bearer token and the account it is bound to.
type LoginResponse struct {
	AccessToken string   `json:"access_token"`
	TokenType   string   `json:"token_type"`
	ExpiresIn   int      `json:"expires_in"`
	Account     Resource `json:"account"`
}

// CreateProductRequest creates a product owned by the caller.
type CreateProductRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// CreateDeviceGroupRequest creates a device group inside a product.
type CreateDeviceGroupRequest struct {
	Name        string `json:"name"`
	Type        string `json:"type,omitempty"`
	Description string `json:"description,omitempty"`
	ProductID   string `json:"product_id"`
}

// UpdateDeviceRequest renames a device.
type UpdateDeviceRequest struct {
	Name string `json:"name"`
}

// AssignRequest moves a device into a device group.
type AssignRequest struct {
	DeviceGroupID string `json:"device_group_id"`
}

// RestartRequest asks a device to restart; a conditional restart waits
// until the device's application allows it.
type RestartRequest struct {
	Conditional bool `json:"conditional"`
}

// DeployRequest records a new build for a device group.
type DeployRequest struct {
	SHA         string `json:"sha,omitempty"`
	Description string `json:"description,omitempty"`
}

// NewResource converts an entity for the wire.
func NewResource(e entity.Entity) Resource {
	attrs := make(map[string]string, len(e.Attributes)+1)
	for k, v := range e.Attributes {
		attrs[k] = v
	}
	if e.Name != "" {
		attrs[entity.AttrName] = e.Name
	}

	var rels map[string]string
	if len(e.Relations) > 0 {
		rels = make(map[string]string, len(e.Relations))
		for t, id := range e.Relations {
			rels[string(t)] = id
		}
	}

	return Resource{
		Type:          string(e.Type),
		ID:            e.ID,
		Attributes:    attrs,
		Relationships: rels,
	}
}

// NewDocument converts a list of entities for the wire. The data array is
// never null.
func NewDocument(entities []entity.Entity) Document {
	doc := Document{Data: make([]Resource, 0, len(entities))}
	for _, e := range entities {
		doc.Data = append(doc.Data, NewResource(e))
	}
	return doc
}

// Entity converts a wire resource back to an entity. Relationships to
// unknown types are dropped.
func (r Resource) Entity() entity.Entity {
	e := entity.Entity{
		Type:       entity.Type(r.Type),
		ID:         r.ID,
		Name:       r.Attributes[entity.AttrName],
		Attributes: make(map[string]string, len(r.Attributes)),
	}
	for k, v := range r.Attributes {
		if k == entity.AttrName {
			continue
		}
		e.Attributes[k] = v
	}
	for k, id := range r.Relationships {
		t := entity.Type(k)
		if !t.IsValid() || id == "" {
			continue
		}
		if e.Relations == nil {
			e.Relations = make(map[entity.Type]string, len(r.Relationships))
		}
		e.Relations[t] = id
	}
	return e
}

// ExpiresAt converts a login response's lifetime into an absolute time.
func (r LoginResponse) ExpiresAt(now time.Time) time.Time {
	return now.Add(time.Duration(r.ExpiresIn) * time.Second)
}
