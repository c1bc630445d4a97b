// Package resolver turns an operator-supplied identifier into exactly one
// remote entity.
//
// # Architecture
//
//	┌──────────────────────────────────────────────────────────────────┐
//	│                        Reference Resolver                         │
//	│                                                                   │
//	│  ┌────────────────┐   ┌────────────────┐   ┌──────────────────┐  │
//	│  │   identifier   │   │    Matcher     │   │     Resolver     │  │
//	│  │    .Parse      │──▶│ (matcher.go)   │──▶│  (resolver.go)   │  │
//	│  │                │   │ • id first     │   │ • first unique   │  │
//	│  │ • simple       │   │ • mac/agent/@  │   │ • stop on many   │  │
//	│  │ • {o}{p}{c}    │   │ • name last    │   │ • scoped chain   │  │
//	│  └────────────────┘   └────────────────┘   └──────────────────┘  │
//	│                                                     │             │
//	└─────────────────────────────────────────────────────│─────────────┘
//	                                                      ▼
//	                                            ┌──────────────────┐
//	                                            │     Gateway      │
//	                                            │ (platform client)│
//	                                            └──────────────────┘
//
// Candidates are tried strictly in order. A candidate yielding exactly one
// match wins; a candidate yielding several fails the resolution with an
// *AmbiguousError without trying weaker candidates; zero matches moves on.
//
// Errors are classified (NoIdentifier, NotFound, Ambiguous, Upstream, plus
// identifier.ErrInvalidSyntax) and stay distinguishable with errors.Is all
// the way to the command layer.
//
// The resolver holds no state between calls; every resolution is a fresh
// round of gateway lookups.
package resolver
