// Package sandbox is a local stand-in for the remote IoT platform.
//
// It serves the REST surface the impt client resolves identifiers against,
// backed by the fleet SQLite store:
//
//	GET    /api/v1/{accounts,products,devicegroups,devices}?filter[attr]=value
//	GET    /api/v1/accounts/me
//	GET    /api/v1/devicegroups/{id}/devices
//	GET    /api/v1/devicegroups/{id}/deployment
//	POST   /api/v1/auth/login
//	GET    /api/v1/audit?entity_id=...&limit=...
//
// plus the mutations behind the device, product, device group and build
// commands. Every route except health and login needs a bearer token from
// login; the token's account is what "me" means.
//
// Restarts are published to devices over MQTT when a broker is configured,
// device status messages update the online flag, and every mutation is
// appended to the SQLite audit trail and written to the InfluxDB event
// timeline when that sink is enabled.
package sandbox
