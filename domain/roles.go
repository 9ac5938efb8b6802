package domain

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Role is a permission tag granted to a user
type Role string

const (
	RoleUser       Role = "user"
	RoleAdmin      Role = "admin"
	RoleRestaurant Role = "restaurant"
	RoleCourier    Role = "courier"
)

var knownRoles = map[Role]struct{}{
	RoleUser:       {},
	RoleAdmin:      {},
	RoleRestaurant: {},
	RoleCourier:    {},
}

// ParseRole converts a name into a Role, rejecting unknown names
func ParseRole(name string) (Role, error) {
	r := Role(strings.ToLower(strings.TrimSpace(name)))
	if _, ok := knownRoles[r]; !ok {
		return "", fmt.Errorf("%w: unknown role %q", ErrInvalidRole, name)
	}
	return r, nil
}

// PolicySubject is the Casbin subject used for the role
func (r Role) PolicySubject() string {
	return "role_" + string(r)
}

// RoleSet is an unordered collection of roles
type RoleSet map[Role]struct{}

// NewRoleSet builds a set from roles
func NewRoleSet(roles ...Role) RoleSet {
	s := make(RoleSet, len(roles))
	for _, r := range roles {
		s[r] = struct{}{}
	}
	return s
}

// ParseRoleSet builds a set from role names, failing on the first unknown name
func ParseRoleSet(names []string) (RoleSet, error) {
	s := make(RoleSet, len(names))
	for _, n := range names {
		r, err := ParseRole(n)
		if err != nil {
			return nil, err
		}
		s[r] = struct{}{}
	}
	return s, nil
}

// Has reports membership
func (s RoleSet) Has(r Role) bool {
	_, ok := s[r]
	return ok
}

// Add inserts r. The receiver must be non-nil.
func (s RoleSet) Add(r Role) {
	s[r] = struct{}{}
}

// Remove deletes r
func (s RoleSet) Remove(r Role) {
	delete(s, r)
}

// Intersects reports whether any of roles is in the set
func (s RoleSet) Intersects(roles ...Role) bool {
	for _, r := range roles {
		if s.Has(r) {
			return true
		}
	}
	return false
}

// Slice returns the roles sorted by name
func (s RoleSet) Slice() []Role {
	out := make([]Role, 0, len(s))
	for r := range s {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Strings returns the sorted role names
func (s RoleSet) Strings() []string {
	roles := s.Slice()
	out := make([]string, len(roles))
	for i, r := range roles {
		out[i] = string(r)
	}
	return out
}

// Clone returns an independent copy
func (s RoleSet) Clone() RoleSet {
	out := make(RoleSet, len(s))
	for r := range s {
		out[r] = struct{}{}
	}
	return out
}

// MarshalJSON encodes the set as a sorted array
func (s RoleSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Strings())
}

// UnmarshalJSON decodes an array of role names
func (s *RoleSet) UnmarshalJSON(data []byte) error {
	var names []string
	if err := json.Unmarshal(data, &names); err != nil {
		return err
	}
	set, err := ParseRoleSet(names)
	if err != nil {
		return err
	}
	*s = set
	return nil
}
