// Package entity defines the remotely-managed objects an operator addresses
// from the command line: devices, device groups, products and accounts.
//
// Entities are owned by the remote platform. Values of this package are
// read-only snapshots returned by a lookup; nothing here caches or mutates
// platform state.
//
// # Key Types
//
//   - Type: which remote collection an identifier refers to
//   - Entity: a resolved remote object with its attributes and relations
//   - Build: a deployment reference attached to a device group
package entity
