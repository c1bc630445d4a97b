package identifier

import (
	"strings"
)

// MeSentinel is the owner token that binds to the authenticated caller.
const MeSentinel = "me"

// scopedGroups is the number of brace groups in a scoped reference.
const scopedGroups = 3

// Reference is the parsed form of an identifier: either Simple or *Scoped.
type Reference interface {
	// Raw returns the identifier as the operator typed it (trimmed).
	Raw() string
	isReference()
}

// Simple is an unscoped token whose meaning depends on the entity type.
type Simple string

// Raw returns the token.
func (s Simple) Raw() string { return string(s) }

func (Simple) isReference() {}

// Scoped is a hierarchical {owner}{product}{child} reference.
// An empty field means the corresponding group was given as "{}".
type Scoped struct {
	Owner   string
	Product string
	Child   string
	raw     string
}

// Raw returns the identifier as given.
func (s *Scoped) Raw() string { return s.raw }

// OwnerIsMe reports whether the owner position holds the "me" sentinel.
func (s *Scoped) OwnerIsMe() bool {
	return s.Owner == MeSentinel
}

func (*Scoped) isReference() {}

// Parse converts raw into a Reference.
//
// Surrounding whitespace is trimmed. A string beginning with "{" must be
// exactly three balanced, non-nested brace groups with nothing between or
// after them; anything else starting with "{" is a *SyntaxError, as is text
// followed by three brace groups. All other strings become a Simple token
// verbatim.
//
// The empty string is not handled here: an absent identifier is rejected by
// the caller before parsing.
func Parse(raw string) (Reference, error) {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "{") {
		if looksScoped(s) {
			return nil, &SyntaxError{Input: s, Reason: "text before the first brace group"}
		}
		return Simple(s), nil
	}

	groups, reason := splitGroups(s)
	if reason != "" {
		return nil, &SyntaxError{Input: s, Reason: reason}
	}
	if len(groups) != scopedGroups {
		return nil, &SyntaxError{
			Input:  s,
			Reason: "expected {owner}{product}{child}",
		}
	}

	return &Scoped{
		Owner:   strings.TrimSpace(groups[0]),
		Product: strings.TrimSpace(groups[1]),
		Child:   strings.TrimSpace(groups[2]),
		raw:     s,
	}, nil
}

// splitGroups walks s (which starts with "{") and returns the content of each
// brace group. A non-empty reason is returned for unbalanced or nested braces
// and for text outside the groups.
func splitGroups(s string) ([]string, string) {
	var groups []string
	var current strings.Builder
	open := false

	for _, r := range s {
		switch {
		case r == '{':
			if open {
				return nil, "nested '{'"
			}
			open = true
			current.Reset()
		case r == '}':
			if !open {
				return nil, "unbalanced '}'"
			}
			open = false
			groups = append(groups, current.String())
		case open:
			current.WriteRune(r)
		default:
			return nil, "text outside brace groups"
		}
	}

	if open {
		return nil, "unterminated '{'"
	}
	return groups, ""
}

// looksScoped reports whether s ends with three brace groups, which
// indicates an attempted hierarchical identifier with a stray prefix (e.g.
// "x{a}{b}{c}"). Names that merely contain braces, such as "lamp}{2}", do
// not qualify.
func looksScoped(s string) bool {
	for i := 0; i < scopedGroups; i++ {
		if !strings.HasSuffix(s, "}") {
			return false
		}
		open := strings.LastIndexAny(s[:len(s)-1], "{}")
		if open < 0 || s[open] != '{' {
			return false
		}
		s = s[:open]
	}
	return true
}
