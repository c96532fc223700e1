package access

import (
	"slices"
	"strings"
)

// Operation is one of the per-class rights a role can grant.
type Operation string

const (
	OpCreate Operation = "create"
	OpFind   Operation = "find"
	OpGet    Operation = "get"
	OpUpdate Operation = "update"
	OpDelete Operation = "delete"
)

// Operations lists the known operations.
func Operations() []Operation {
	return []Operation{OpCreate, OpFind, OpGet, OpUpdate, OpDelete}
}

// ParseOperation maps a case-insensitive name to an Operation.
func ParseOperation(value string) (Operation, bool) {
	op := Operation(strings.ToLower(strings.TrimSpace(value)))
	if !slices.Contains(Operations(), op) {
		return "", false
	}
	return op, true
}

// Rights holds the CRUD flags of a RightsItem. A missing flag is false.
type Rights struct {
	Create bool `json:"create"`
	Find   bool `json:"find"`
	Get    bool `json:"get"`
	Update bool `json:"update"`
	Delete bool `json:"delete"`
}

// RightsFromMap reads rights from a loosely typed map; unknown keys are
// ignored.
func RightsFromMap(values map[string]bool) Rights {
	return Rights{
		Create: values[string(OpCreate)],
		Find:   values[string(OpFind)],
		Get:    values[string(OpGet)],
		Update: values[string(OpUpdate)],
		Delete: values[string(OpDelete)],
	}
}

// Allows reports the flag for op. Unknown operations are denied.
func (r Rights) Allows(op Operation) bool {
	switch op {
	case OpCreate:
		return r.Create
	case OpFind:
		return r.Find
	case OpGet:
		return r.Get
	case OpUpdate:
		return r.Update
	case OpDelete:
		return r.Delete
	default:
		return false
	}
}

// RightsItem grants rights on one resource class.
type RightsItem struct {
	ClassName string `json:"className"`
	Rights    Rights `json:"rights"`
}

// RoleLike is anything that carries rights items, such as a stored role or
// a session role.
type RoleLike interface {
	RightsItems() []RightsItem
}

// Named is implemented by roles that expose their name.
type Named interface {
	RoleName() string
}

// Role is the plain role value used by the role store and by tests.
type Role struct {
	Name   string       `json:"name"`
	Rights []RightsItem `json:"rights"`
}

func (r Role) RightsItems() []RightsItem { return r.Rights }

func (r Role) RoleName() string { return r.Name }

// RightsFor returns the rights a role holds on className. When a role lists
// the class more than once the last item wins.
func RightsFor(role RoleLike, className string) (Rights, bool) {
	if role == nil {
		return Rights{}, false
	}
	var (
		rights Rights
		found  bool
	)
	for _, item := range role.RightsItems() {
		if item.ClassName != className {
			continue
		}
		rights = item.Rights
		found = true
	}
	return rights, found
}

// CanAccessTo reports whether any role grants op on resourceClass. Class
// names match exactly. Empty role lists, unknown classes and unknown
// operations are denied. Role hierarchy is not evaluated here.
func CanAccessTo(roles []RoleLike, resourceClass string, op Operation) bool {
	for _, role := range roles {
		rights, ok := RightsFor(role, resourceClass)
		if ok && rights.Allows(op) {
			return true
		}
	}
	return false
}

// HasRole reports whether a role named name is present, ignoring case like
// role identifiers do. Calling code uses it for sentinel roles such as the
// administrator, separately from CanAccessTo.
func HasRole(roles []RoleLike, name string) bool {
	name = strings.TrimSpace(name)
	if name == "" {
		return false
	}
	for _, role := range roles {
		named, ok := role.(Named)
		if ok && strings.EqualFold(strings.TrimSpace(named.RoleName()), name) {
			return true
		}
	}
	return false
}

// Roles converts concrete roles into the interface slice CanAccessTo takes.
func Roles(roles ...Role) []RoleLike {
	out := make([]RoleLike, 0, len(roles))
	for _, role := range roles {
		out = append(out, role)
	}
	return out
}
