// Package cli implements the impt command tree.
//
// Every entity flag (-d/--device, -g/--dg, -p/--product, -u/--user)
// accepts any identifier form the resolver understands: an id, a name, a
// MAC address or agent id for devices, an email or username for accounts,
// or the scoped form {owner}{product}{name}. When a device group or
// product flag is omitted, the device group named by the project file in
// the working directory is used instead.
//
// Each failure kind has its own exit code:
//
//	0  success
//	1  any other failure
//	2  invalid usage or identifier syntax
//	3  no identifier is specified
//	4  entity not found
//	5  ambiguous identifier
//	6  platform request failed
package cli
