// Package role defines the closed set of access roles used across the API.
package role

import (
	"encoding/json"
	"fmt"
)

// Role governs access to privileged views and operations.
// The zero value is not a valid role and stands for "no session".
type Role string

const (
	Owner Role = "OWNER"
	Team  Role = "TEAM"
	Guest Role = "GUEST"
)

// All returns every valid role, highest privilege first.
func All() []Role {
	return []Role{Owner, Team, Guest}
}

// Parse converts a wire string into a Role.
// Any value outside the closed set is rejected.
func Parse(s string) (Role, error) {
	switch Role(s) {
	case Owner:
		return Owner, nil
	case Team:
		return Team, nil
	case Guest:
		return Guest, nil
	default:
		return "", fmt.Errorf("unknown role %q", s)
	}
}

// Valid reports whether r is a member of the closed set.
func (r Role) Valid() bool {
	switch r {
	case Owner, Team, Guest:
		return true
	default:
		return false
	}
}

func (r Role) String() string {
	return string(r)
}

// privilege maps roles onto their total order: OWNER > TEAM > GUEST.
// The numbers carry no meaning beyond comparison.
func (r Role) privilege() int {
	switch r {
	case Owner:
		return 3
	case Team:
		return 2
	case Guest:
		return 1
	default:
		return 0
	}
}

// AtLeast reports whether r holds at least the privilege of min.
// An invalid role never satisfies any minimum.
func (r Role) AtLeast(min Role) bool {
	if !r.Valid() || !min.Valid() {
		return false
	}
	return r.privilege() >= min.privilege()
}

// MarshalJSON emits the role as its literal wire string.
func (r Role) MarshalJSON() ([]byte, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("cannot marshal unknown role %q", string(r))
	}
	return json.Marshal(string(r))
}

// UnmarshalJSON decodes a role, rejecting anything outside the closed set.
func (r *Role) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := Parse(s)
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}
