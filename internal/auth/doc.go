// Package auth issues and validates the sandbox's bearer tokens.
//
// A token is an HS256-signed JWT whose subject is the caller's account id.
// The sandbox binds that account to the request so "me" in a scoped
// identifier resolves to it. Tokens are validated by signature and expiry
// only; there is no session store.
package auth
