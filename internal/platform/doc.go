// Package platform talks to the remote IoT platform's REST API.
//
// The wire types in this package are shared by both sides: the Client
// decodes them and the sandbox server encodes them. Client implements
// resolver.Gateway, so identifiers given on the command line are resolved
// with one filtered collection query per candidate attribute:
//
//	GET /api/v1/devices?filter[mac_address]=0c2a69000001
//	GET /api/v1/devicegroups?filter[name]=dev&filter[owner.id]=...&filter[product.id]=...
//
// Collection queries answer with an empty list when nothing matches, so
// "not found" is decided by the resolver, not by HTTP status. Every failure
// the Client returns matches ErrRequestFailed; the status-specific
// sentinels ErrUnauthorized, ErrNotFound and ErrConflict refine it.
package platform
