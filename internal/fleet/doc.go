// Package fleet is the sandbox's store of accounts, products, device
// groups, devices and deployments.
//
// Repository reads and writes the SQLite schema in migrations/ and hands
// back entity.Entity values shaped exactly like the remote platform returns
// them, so the sandbox API can serve them without further mapping.
//
// Lookups go through Find, which accepts only whitelisted attribute names
// per entity type and an optional owner/product scope. Every matching row
// is returned; the caller decides what ambiguity means.
//
// Mutations keep two invariants the client relies on:
//   - an unassigned device has an empty agent id and no device group
//   - assigning a device always issues a fresh agent id
package fleet
