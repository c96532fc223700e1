package entities

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound      = errors.New("entities: entity not found")
	ErrClassRequired = errors.New("entities: class is required")
)

// NotFoundError names the missing entity.
type NotFoundError struct {
	Key string
}

func (e *NotFoundError) Error() string {
	if e == nil || strings.TrimSpace(e.Key) == "" {
		return ErrNotFound.Error()
	}
	return fmt.Sprintf("%s: %s", ErrNotFound.Error(), e.Key)
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}
