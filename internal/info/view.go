package info

import (
	"time"

	"github.com/nerrad567/impt/internal/entity"
	"github.com/nerrad567/impt/internal/output"
)

// Keys of the nested sections of a rendered view.
const (
	KeyDeployment = "Current Deployment"
	KeyDevices    = "Devices"
	KeyOwner      = "Owner"
)

// View is a composed read view rooted at Entity.
//
// A nil relation is absent: it was not requested at this depth, it does
// not exist, or loading an optional relation failed.
type View struct {
	Entity entity.Entity
	Depth  Depth

	// DeviceGroup is the group a device is assigned to.
	DeviceGroup *entity.Entity
	// Product is the product of the device's group, or of the group itself.
	Product *entity.Entity
	// Owner is a product's owning account.
	Owner *entity.Entity
	// Deployment is the current deployment of the group (full depth).
	Deployment *entity.Build
	// Members are the devices of a group (full depth). Nil means the
	// listing is absent; an empty slice means the group has no devices.
	Members []entity.Entity
}

// alwaysShown lists attributes rendered for every entity of a type, with an
// empty value when unset. An unassigned device therefore shows agent_id "".
var alwaysShown = map[entity.Type][]string{
	entity.TypeDevice:      {entity.AttrMACAddress, entity.AttrAgentID},
	entity.TypeDeviceGroup: {entity.AttrType},
	entity.TypeAccount:     {entity.AttrUsername, entity.AttrEmail},
}

// Tree renders the view as an ordered output object with a single root
// key naming the entity type.
func (v *View) Tree() *output.Object {
	root := details(&v.Entity)

	switch v.Entity.Type {
	case entity.TypeDevice:
		if v.DeviceGroup != nil {
			group := summary(v.DeviceGroup)
			if v.Deployment != nil {
				group.Set(KeyDeployment, buildTree(v.Deployment))
			}
			root.Set(entity.TypeDeviceGroup.String(), group)
		}
		if v.Product != nil {
			root.Set(entity.TypeProduct.String(), summary(v.Product))
		}

	case entity.TypeDeviceGroup:
		if v.Product != nil {
			root.Set(entity.TypeProduct.String(), summary(v.Product))
		}
		if v.Deployment != nil {
			root.Set(KeyDeployment, buildTree(v.Deployment))
		}
		if v.Members != nil {
			devices := make([]*output.Object, 0, len(v.Members))
			for i := range v.Members {
				devices = append(devices, output.NewObject().
					Set(entity.TypeDevice.String(), summary(&v.Members[i])))
			}
			root.Set(KeyDevices, devices)
		}

	case entity.TypeProduct:
		if v.Owner != nil {
			root.Set(KeyOwner, summary(v.Owner))
		}
	}

	return output.NewObject().Set(v.Entity.Type.String(), root)
}

// summary renders the identifying fields of e.
func summary(e *entity.Entity) *output.Object {
	obj := output.NewObject().Set(entity.AttrID, e.ID)
	if e.Type != entity.TypeAccount {
		obj.Set(entity.AttrName, e.Name)
	}
	for _, attr := range alwaysShown[e.Type] {
		obj.Set(attr, e.Attr(attr))
	}
	return obj
}

// details renders the summary plus every remaining attribute in name order.
func details(e *entity.Entity) *output.Object {
	obj := summary(e)
	for _, attr := range e.AttributeNames() {
		if _, ok := obj.Get(attr); ok {
			continue
		}
		obj.Set(attr, e.Attributes[attr])
	}
	return obj
}

func buildTree(b *entity.Build) *output.Object {
	obj := output.NewObject().Set(entity.AttrID, b.ID)
	if b.SHA != "" {
		obj.Set("sha", b.SHA)
	}
	if b.Description != "" {
		obj.Set("description", b.Description)
	}
	if !b.CreatedAt.IsZero() {
		obj.Set("created_at", b.CreatedAt.UTC().Format(time.RFC3339))
	}
	return obj
}
