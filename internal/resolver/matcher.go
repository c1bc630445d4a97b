package resolver

import (
	"regexp"
	"strings"

	"github.com/nerrad567/impt/internal/entity"
)

// Candidate is one (attribute, value) pair to look up.
type Candidate struct {
	Attribute string
	Value     string
}

// rule describes one matchable attribute of an entity type.
type rule struct {
	attribute string
	// applies reports whether the token could be a value of attribute.
	// A nil applies means always.
	applies func(token string) bool
	// normalise maps the token to the platform's stored form.
	// A nil normalise keeps the token unchanged.
	normalise func(token string) string
}

// candidateRules is the priority table. Order matters: the first rule
// yielding exactly one match wins. id always comes first because ids and
// attribute values share no format guarantee.
var candidateRules = map[entity.Type][]rule{
	entity.TypeDevice: {
		{attribute: entity.AttrID},
		{attribute: entity.AttrMACAddress, applies: IsMACAddress, normalise: NormaliseMAC},
		{attribute: entity.AttrAgentID, applies: IsAgentID},
		{attribute: entity.AttrName},
	},
	entity.TypeDeviceGroup: {
		{attribute: entity.AttrID},
		{attribute: entity.AttrName},
	},
	entity.TypeProduct: {
		{attribute: entity.AttrID},
		{attribute: entity.AttrName},
	},
	entity.TypeAccount: {
		{attribute: entity.AttrID},
		{attribute: entity.AttrEmail, applies: isEmail},
		{attribute: entity.AttrUsername},
	},
}

var (
	// macSeparated matches six hex pairs joined by ':' or '-'.
	macSeparated = regexp.MustCompile(`^[0-9A-Fa-f]{2}([:-])[0-9A-Fa-f]{2}(?:[:-][0-9A-Fa-f]{2}){4}$`)
	// macBare matches the unseparated 12-hex-digit form.
	macBare = regexp.MustCompile(`^[0-9A-Fa-f]{12}$`)
	// agentIDPattern matches the platform's 12-character agent id.
	agentIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{12}$`)
)

// Candidates returns the ordered (attribute, value) pairs a simple token is
// tried against for type t. An empty token yields no candidates.
func Candidates(t entity.Type, token string) []Candidate {
	if token == "" {
		return nil
	}

	rules := candidateRules[t]
	out := make([]Candidate, 0, len(rules))
	for _, r := range rules {
		if r.applies != nil && !r.applies(token) {
			continue
		}
		value := token
		if r.normalise != nil {
			value = r.normalise(token)
		}
		if value == "" {
			continue
		}
		out = append(out, Candidate{Attribute: r.attribute, Value: value})
	}
	return out
}

// IsMACAddress reports whether token has the shape of a MAC address:
// six hex pairs separated consistently by ':' or '-', or twelve bare hex
// digits.
func IsMACAddress(token string) bool {
	if macBare.MatchString(token) {
		return true
	}
	m := macSeparated.FindStringSubmatch(token)
	if m == nil {
		return false
	}
	// Mixed separators ("0c:2a-69...") are not a MAC.
	sep := m[1]
	return strings.Count(token, sep) == 5
}

// NormaliseMAC converts a MAC address to the lowercase bare-hex form the
// platform stores.
func NormaliseMAC(mac string) string {
	mac = strings.ToLower(strings.TrimSpace(mac))
	mac = strings.ReplaceAll(mac, ":", "")
	mac = strings.ReplaceAll(mac, "-", "")
	return mac
}

// IsAgentID reports whether token has the shape of an agent id.
func IsAgentID(token string) bool {
	return agentIDPattern.MatchString(token)
}

func isEmail(token string) bool {
	return strings.Contains(token, "@")
}
