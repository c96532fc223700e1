package forms

import (
	"errors"

	"github.com/goliatone/go-translated/internal/access"
)

var (
	ErrClassRequired      = errors.New("forms: class is required")
	ErrUnknownClass       = errors.New("forms: class is not registered")
	ErrDuplicateClass     = errors.New("forms: class already registered")
	ErrInvalidDefinition  = errors.New("forms: invalid definition")
	ErrRepositoryRequired = errors.New("forms: entity repository is required")
	ErrRegistryRequired   = errors.New("forms: locale registry is required")
	// ErrForbidden is returned, wrapped in an access.Error, when a gated
	// service refuses an operation.
	ErrForbidden = access.ErrForbidden
)
