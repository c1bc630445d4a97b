package entity

import (
	"fmt"
	"slices"
	"sort"
	"strings"
	"time"
)

// Type identifies the kind of remote entity an identifier refers to.
type Type string

const (
	// TypeDevice is a physical device known to the platform.
	TypeDevice Type = "device"
	// TypeDeviceGroup is a named set of devices inside a product.
	TypeDeviceGroup Type = "devicegroup"
	// TypeProduct is a container of device groups owned by an account.
	TypeProduct Type = "product"
	// TypeAccount is a platform user account.
	TypeAccount Type = "account"
)

// AllTypes lists every entity type in resolution order of their scopes.
var AllTypes = []Type{TypeAccount, TypeProduct, TypeDeviceGroup, TypeDevice}

// Attribute names shared by the gateway, the matcher and the output layer.
const (
	AttrID         = "id"
	AttrName       = "name"
	AttrMACAddress = "mac_address"
	AttrAgentID    = "agent_id"
	AttrEmail      = "email"
	AttrUsername   = "username"
	AttrType       = "type"
	AttrOnline     = "device_online"
)

// String returns the human-readable name of the type as used in messages.
func (t Type) String() string {
	switch t {
	case TypeDevice:
		return "Device"
	case TypeDeviceGroup:
		return "Device Group"
	case TypeProduct:
		return "Product"
	case TypeAccount:
		return "Account"
	default:
		return string(t)
	}
}

// Plural returns the human-readable plural used in listings.
func (t Type) Plural() string {
	return t.String() + "s"
}

// Collection returns the REST collection path segment for the type.
func (t Type) Collection() string {
	switch t {
	case TypeDeviceGroup:
		return "devicegroups"
	default:
		return string(t) + "s"
	}
}

// IsValid reports whether t is one of the known entity types.
func (t Type) IsValid() bool {
	return slices.Contains(AllTypes, t)
}

// ParseType converts a wire or display name into a Type.
func ParseType(s string) (Type, error) {
	switch strings.ToLower(strings.ReplaceAll(strings.TrimSpace(s), " ", "")) {
	case "device", "devices":
		return TypeDevice, nil
	case "devicegroup", "devicegroups", "dg":
		return TypeDeviceGroup, nil
	case "product", "products":
		return TypeProduct, nil
	case "account", "accounts":
		return TypeAccount, nil
	}
	return "", fmt.Errorf("unknown entity type %q", s)
}

// Entity is a resolved remote object.
//
// ID is the immutable platform identifier and is never empty for a value
// returned by a lookup. Attributes carries type-specific fields such as
// mac_address and agent_id for devices. Relations maps the type of a
// related entity to its id (a device's device group, a group's product,
// a product's owner). An absent key means the relation does not exist.
type Entity struct {
	Type       Type              `json:"type"`
	ID         string            `json:"id"`
	Name       string            `json:"name"`
	Attributes map[string]string `json:"attributes,omitempty"`
	Relations  map[Type]string   `json:"relations,omitempty"`
}

// Validate checks the invariants every resolved entity must satisfy.
func (e *Entity) Validate() error {
	if e == nil {
		return fmt.Errorf("entity is nil")
	}
	if !e.Type.IsValid() {
		return fmt.Errorf("entity %q: invalid type %q", e.ID, e.Type)
	}
	if e.ID == "" {
		return fmt.Errorf("%s entity without id", e.Type)
	}
	return nil
}

// Attr returns an attribute value, or the empty string when it is not set.
func (e *Entity) Attr(name string) string {
	switch name {
	case AttrID:
		return e.ID
	case AttrName:
		return e.Name
	}
	if e.Attributes == nil {
		return ""
	}
	return e.Attributes[name]
}

// Related returns the id of the related entity of type t, if any.
func (e *Entity) Related(t Type) (string, bool) {
	if e.Relations == nil {
		return "", false
	}
	id, ok := e.Relations[t]
	if !ok || id == "" {
		return "", false
	}
	return id, true
}

// AttributeNames returns the attribute keys in a stable order.
func (e *Entity) AttributeNames() []string {
	names := make([]string, 0, len(e.Attributes))
	for k := range e.Attributes {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// DeepCopy returns a copy that shares no maps with the receiver.
func (e *Entity) DeepCopy() *Entity {
	if e == nil {
		return nil
	}
	cp := *e
	if e.Attributes != nil {
		cp.Attributes = make(map[string]string, len(e.Attributes))
		for k, v := range e.Attributes {
			cp.Attributes[k] = v
		}
	}
	if e.Relations != nil {
		cp.Relations = make(map[Type]string, len(e.Relations))
		for k, v := range e.Relations {
			cp.Relations[k] = v
		}
	}
	return &cp
}

// Label returns the quoted form used in user-facing messages,
// e.g. Device "kitchen-imp".
func (e *Entity) Label() string {
	ref := e.Name
	if ref == "" {
		ref = e.ID
	}
	return fmt.Sprintf("%s %q", e.Type, ref)
}

// Build is a reference to a deployment made to a device group.
type Build struct {
	ID          string    `json:"id"`
	SHA         string    `json:"sha,omitempty"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
