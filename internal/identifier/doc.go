// Package identifier parses the identifier strings operators pass to
// entity flags such as --device, --dg, --product and --owner.
//
// Two forms are recognised:
//
//	kitchen-imp                      simple token
//	{me}{Thermostats}{Production}    scoped reference: {owner}{product}{child}
//
// A scoped reference keeps all three positions. An empty group ("{}") is
// kept as an absent token, which is distinct from a token that fails to
// resolve later on.
//
// Parsing never touches the network; interpretation of a token is left to
// the resolver.
package identifier
