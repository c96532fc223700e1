package access

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var ErrForbidden = errors.New("access: forbidden")

// Error names the class and operation that was refused.
type Error struct {
	Class     string
	Operation Operation
}

func (e Error) Error() string {
	if strings.TrimSpace(e.Class) == "" {
		return ErrForbidden.Error()
	}
	return fmt.Sprintf("%s: %s", ErrForbidden.Error(), Token(e.Class, e.Operation))
}

func (e Error) Unwrap() error {
	return ErrForbidden
}

// Token renders a "<class>:<operation>" permission token.
func Token(class string, op Operation) string {
	class = strings.TrimSpace(class)
	if class == "" || op == "" {
		return ""
	}
	return class + ":" + string(op)
}

// SplitToken parses a permission token. The class keeps its case; the
// operation does not.
func SplitToken(token string) (string, Operation, bool) {
	class, rawOp, found := strings.Cut(strings.TrimSpace(token), ":")
	if !found || class == "" {
		return "", "", false
	}
	op, ok := ParseOperation(rawOp)
	if !ok {
		return "", "", false
	}
	return class, op, true
}

// Checker answers permission token checks.
type Checker interface {
	Allowed(permission string) bool
}

// CheckerFunc adapts a function into a Checker.
type CheckerFunc func(permission string) bool

func (fn CheckerFunc) Allowed(permission string) bool {
	if fn == nil {
		return false
	}
	return fn(permission)
}

// NewChecker returns a Checker backed by CanAccessTo over roles.
func NewChecker(roles ...RoleLike) Checker {
	held := append([]RoleLike(nil), roles...)
	return CheckerFunc(func(permission string) bool {
		class, op, ok := SplitToken(permission)
		if !ok {
			return false
		}
		return CanAccessTo(held, class, op)
	})
}

type contextKey string

const (
	rolesKey        contextKey = "translated.access.roles"
	unrestrictedKey contextKey = "translated.access.unrestricted"
)

// Principals that bypass per-class rights.
const (
	PrincipalAdmin  = "admin"
	PrincipalSystem = "system"
)

// WithRoles stores the session roles on ctx.
func WithRoles(ctx context.Context, roles []RoleLike) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, rolesKey, append([]RoleLike(nil), roles...))
}

// RolesFromContext returns the roles stored by WithRoles, if any.
func RolesFromContext(ctx context.Context) ([]RoleLike, bool) {
	if ctx == nil {
		return nil, false
	}
	roles, ok := ctx.Value(rolesKey).([]RoleLike)
	return roles, ok
}

// WithAdmin marks ctx as an administrator session. Rights are not checked for
// such a context.
func WithAdmin(ctx context.Context) context.Context {
	return withUnrestricted(ctx, PrincipalAdmin)
}

// WithSystem marks ctx as trusted tooling, such as an import run from the
// command line.
func WithSystem(ctx context.Context) context.Context {
	return withUnrestricted(ctx, PrincipalSystem)
}

// Unrestricted returns the principal set by WithAdmin or WithSystem.
func Unrestricted(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	principal, ok := ctx.Value(unrestrictedKey).(string)
	return principal, ok && principal != ""
}

func withUnrestricted(ctx context.Context, principal string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, unrestrictedKey, principal)
}

// Allowed checks op on class for the roles on ctx. Unrestricted contexts are
// allowed; a context without roles is denied.
func Allowed(ctx context.Context, class string, op Operation) bool {
	if _, ok := Unrestricted(ctx); ok {
		return true
	}
	roles, ok := RolesFromContext(ctx)
	if !ok {
		return false
	}
	return CanAccessTo(roles, class, op)
}

// Require is Allowed returning an Error that unwraps to ErrForbidden.
func Require(ctx context.Context, class string, op Operation) error {
	if Allowed(ctx, class, op) {
		return nil
	}
	return Error{Class: class, Operation: op}
}
