package resolver

import (
	"reflect"
	"testing"

	"github.com/nerrad567/impt/internal/entity"
)

func TestCandidates(t *testing.T) {
	tests := []struct {
		name  string
		typ   entity.Type
		token string
		want  []Candidate
	}{
		{
			name:  "device plain name",
			typ:   entity.TypeDevice,
			token: "kitchen",
			want:  []Candidate{{"id", "kitchen"}, {"name", "kitchen"}},
		},
		{
			name:  "device colon mac is normalised",
			typ:   entity.TypeDevice,
			token: "0C:2A:69:08:BD:5E",
			want:  []Candidate{{"id", "0C:2A:69:08:BD:5E"}, {"mac_address", "0c2a6908bd5e"}, {"name", "0C:2A:69:08:BD:5E"}},
		},
		{
			name:  "device hyphen mac",
			typ:   entity.TypeDevice,
			token: "0c-2a-69-08-bd-5e",
			want:  []Candidate{{"id", "0c-2a-69-08-bd-5e"}, {"mac_address", "0c2a6908bd5e"}, {"name", "0c-2a-69-08-bd-5e"}},
		},
		{
			name:  "device bare mac also has agent id shape",
			typ:   entity.TypeDevice,
			token: "0c2a6908bd5e",
			want:  []Candidate{{"id", "0c2a6908bd5e"}, {"mac_address", "0c2a6908bd5e"}, {"agent_id", "0c2a6908bd5e"}, {"name", "0c2a6908bd5e"}},
		},
		{
			name:  "device agent id",
			typ:   entity.TypeDevice,
			token: "T1oUmIZ-bFzq",
			want:  []Candidate{{"id", "T1oUmIZ-bFzq"}, {"agent_id", "T1oUmIZ-bFzq"}, {"name", "T1oUmIZ-bFzq"}},
		},
		{
			name:  "device group",
			typ:   entity.TypeDeviceGroup,
			token: "0c2a6908bd5e",
			want:  []Candidate{{"id", "0c2a6908bd5e"}, {"name", "0c2a6908bd5e"}},
		},
		{
			name:  "product",
			typ:   entity.TypeProduct,
			token: "Thermostats",
			want:  []Candidate{{"id", "Thermostats"}, {"name", "Thermostats"}},
		},
		{
			name:  "account email",
			typ:   entity.TypeAccount,
			token: "ops@example.com",
			want:  []Candidate{{"id", "ops@example.com"}, {"email", "ops@example.com"}, {"username", "ops@example.com"}},
		},
		{
			name:  "account username",
			typ:   entity.TypeAccount,
			token: "ops",
			want:  []Candidate{{"id", "ops"}, {"username", "ops"}},
		},
		{
			name:  "empty token",
			typ:   entity.TypeDevice,
			token: "",
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Candidates(tt.typ, tt.token)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Candidates(%s, %q) = %v, want %v", tt.typ, tt.token, got, tt.want)
			}
		})
	}
}

func TestCandidates_IDAlwaysFirst(t *testing.T) {
	tokens := []string{"kitchen", "0c:2a:69:08:bd:5e", "T1oUmIZ-bFzq", "a@b.c", "234776801163a9ee"}
	for _, typ := range entity.AllTypes {
		for _, token := range tokens {
			got := Candidates(typ, token)
			if len(got) == 0 || got[0].Attribute != entity.AttrID || got[0].Value != token {
				t.Errorf("Candidates(%s, %q)[0] = %v, want id=%q", typ, token, got, token)
			}
		}
	}
}

func TestIsMACAddress(t *testing.T) {
	tests := []struct {
		token string
		want  bool
	}{
		{"0c:2a:69:08:bd:5e", true},
		{"0C-2A-69-08-BD-5E", true},
		{"0c2a6908bd5e", true},
		{"0c:2a-69:08:bd:5e", false},
		{"0c:2a:69:08:bd", false},
		{"0c:2a:69:08:bd:5e:11", false},
		{"zz:2a:69:08:bd:5e", false},
		{"kitchen", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := IsMACAddress(tt.token); got != tt.want {
			t.Errorf("IsMACAddress(%q) = %v, want %v", tt.token, got, tt.want)
		}
	}
}

func TestIsAgentID(t *testing.T) {
	tests := []struct {
		token string
		want  bool
	}{
		{"T1oUmIZ-bFzq", true},
		{"abc_DEF-1234", true},
		{"T1oUmIZ-bFz", false},
		{"T1oUmIZ-bFzqq", false},
		{"T1oUm Z-bFzq", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := IsAgentID(tt.token); got != tt.want {
			t.Errorf("IsAgentID(%q) = %v, want %v", tt.token, got, tt.want)
		}
	}
}

func TestNormaliseMAC(t *testing.T) {
	if got := NormaliseMAC(" 0C:2A:69:08:BD:5E "); got != "0c2a6908bd5e" {
		t.Errorf("NormaliseMAC() = %q, want %q", got, "0c2a6908bd5e")
	}
}
