// Package info composes read views of resolved entities.
//
// A view starts at one entity and follows its relations outwards:
//
//	Device        -> Device Group -> Current Deployment (full)
//	              -> Product
//	Device Group  -> Product (always)
//	              -> Current Deployment, member Devices (full)
//	Product       -> Owner
//
// Relations that may legitimately be missing (an unassigned device, a group
// that was never deployed) are left out of the view entirely. A device
// group's product is mandatory; failing to load it fails the composition.
//
// The Composer never mutates remote state and keeps nothing between calls.
package info
