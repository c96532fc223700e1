package roles

import (
	"errors"
	"slices"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-translated/internal/access"
	"github.com/goliatone/go-translated/internal/identity"
)

var (
	ErrRoleNotFound = errors.New("roles: role not found")
	ErrInvalidRole  = errors.New("roles: invalid role")
)

// Role is the stored form of an access.Role.
type Role struct {
	bun.BaseModel `bun:"table:roles,alias:r"`

	ID        uuid.UUID           `bun:",pk,type:uuid" json:"id"`
	Name      string              `bun:"name,notnull,unique" json:"name"`
	Rights    []access.RightsItem `bun:"rights,type:jsonb,notnull" json:"rights"`
	CreatedAt time.Time           `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt time.Time           `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
}

func (r *Role) RightsItems() []access.RightsItem { return r.Rights }

func (r *Role) RoleName() string { return r.Name }

// Access returns the role as a plain access.Role.
func (r *Role) Access() access.Role {
	return access.Role{Name: r.Name, Rights: slices.Clone(r.Rights)}
}

func (r *Role) clone() *Role {
	out := *r
	out.Rights = slices.Clone(r.Rights)
	return &out
}

// NewRole builds the stored form of role. The ID is derived from the name so
// upserts of the same name address the same row.
func NewRole(role access.Role) *Role {
	name := strings.TrimSpace(role.Name)
	return &Role{
		ID:     identity.RoleUUID(name),
		Name:   name,
		Rights: slices.Clone(role.Rights),
	}
}

// Validate requires a name and a class name on every rights item.
func Validate(role access.Role) error {
	err := validation.ValidateStruct(&role,
		validation.Field(&role.Name, validation.Required),
		validation.Field(&role.Rights, validation.Each(validation.By(func(value any) error {
			item, _ := value.(access.RightsItem)
			if strings.TrimSpace(item.ClassName) == "" {
				return validation.NewError("roles.class_required", "className is required")
			}
			return nil
		}))),
	)
	if err != nil {
		return errors.Join(ErrInvalidRole, err)
	}
	return nil
}

// NotFoundError names the missing role.
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string {
	if e == nil || e.Name == "" {
		return ErrRoleNotFound.Error()
	}
	return ErrRoleNotFound.Error() + ": " + e.Name
}

func (e *NotFoundError) Unwrap() error {
	return ErrRoleNotFound
}
