package guard

import "github.com/Kamalprakash2110/oct4crypt-dev/internal/role"

// routes maps every navigable view to its requirement. Defined at build
// time, immutable at runtime.
var routes = map[string]Requirement{
	"/":         Public(),
	"/apps":     Public(),
	"/projects": Public(),
	"/blog":     Public(),
	"/about":    Public(),
	"/contact":  Public(),
	"/login":    Public(),
	"/profile":  Authenticated(),
	"/editor":   Roles(role.Owner, role.Team),
	"/admin":    Roles(role.Owner),
}

// ForView returns the requirement for a view path. Unknown views are
// public; the site serves its own not-found page for them.
func ForView(path string) Requirement {
	if req, ok := routes[path]; ok {
		return req
	}
	return Public()
}
