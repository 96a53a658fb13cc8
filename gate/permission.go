package gate

import "strings"

// Permission represents an allowed action on a menu section.
// Format: "section:action" (e.g., "invoices:create", "recycle-bin:restore")
type Permission string

// NewPermission creates a permission from a section key and action.
func NewPermission(section string, action Action) Permission {
	return Permission(section + ":" + string(action))
}

// SectionPermission grants every action on a section ("section:*"). Menu
// access is all-or-nothing per section.
func SectionPermission(section string) Permission {
	return Permission(section + ":" + WildcardAll)
}

// Parse splits a permission into section and action.
func (p Permission) Parse() (section string, action Action) {
	s, a, ok := strings.Cut(string(p), ":")
	if !ok {
		return "", ""
	}
	return s, Action(a)
}

// Wildcards for super permissions
const (
	WildcardAll                     = "*"
	PermissionSuperAdmin Permission = "*:*"
)

// Matches checks if this permission matches a requested permission.
// "*:*" matches all, "invoices:*" matches every invoices action.
func (p Permission) Matches(requested Permission) bool {
	if p == PermissionSuperAdmin || p == requested {
		return true
	}
	sec, act := p.Parse()
	reqSec, _ := requested.Parse()
	return sec != "" && sec == reqSec && string(act) == WildcardAll
}
