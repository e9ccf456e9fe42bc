// Package guard decides whether the current session may render a view.
//
// The guard is advisory: it exists to redirect early and keep the UI
// honest. It is never the authorization boundary — every privileged
// mutation is re-checked server-side against the directory-held role.
package guard

import (
	"github.com/Kamalprakash2110/oct4crypt-dev/internal/role"
)

// Requirement describes who may open a view: everyone, or a set of roles.
type Requirement struct {
	public bool
	roles  []role.Role
}

// Public returns a requirement satisfied by any session, including none.
func Public() Requirement {
	return Requirement{public: true}
}

// Roles returns a requirement satisfied only by the given roles.
func Roles(rs ...role.Role) Requirement {
	return Requirement{roles: rs}
}

// Authenticated returns a requirement satisfied by any valid role.
func Authenticated() Requirement {
	return Roles(role.All()...)
}

// IsPublic reports whether the requirement is open to everyone.
func (req Requirement) IsPublic() bool {
	return req.public
}

// Allows reports whether a session holding r satisfies the requirement.
// The zero Role stands for "no session" and satisfies only public views.
func (req Requirement) Allows(r role.Role) bool {
	if req.public {
		return true
	}
	if !r.Valid() {
		return false
	}
	for _, allowed := range req.roles {
		if r == allowed {
			return true
		}
	}
	return false
}

// Decision is the outcome of evaluating a navigation.
type Decision int

const (
	// Unresolved means the session is not yet known; render nothing.
	Unresolved Decision = iota
	// Allowed means the view may render.
	Allowed
	// Denied means the viewer must be redirected to the landing view.
	Denied
)

func (d Decision) String() string {
	switch d {
	case Unresolved:
		return "unresolved"
	case Allowed:
		return "allowed"
	case Denied:
		return "denied"
	}
	return "unknown"
}

// DeniedRedirect is the public landing view a denied navigation falls
// back to. Denial is a redirect plus a notice, never a failure.
const DeniedRedirect = "/"

// Decide evaluates a requirement against the session state. Until the
// session resolves, navigation stays Unresolved so dependent UI can
// distinguish "not yet known" from "known to be signed out".
func Decide(req Requirement, resolved bool, current role.Role) Decision {
	if !resolved {
		return Unresolved
	}
	if req.Allows(current) {
		return Allowed
	}
	return Denied
}
