package commands

import (
	"context"
	"errors"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-translated/internal/access"
	"github.com/goliatone/go-translated/internal/entities"
	"github.com/goliatone/go-translated/internal/forms"
	"github.com/goliatone/go-translated/internal/validation"
)

const (
	commandValidationCode   = "COMMAND_VALIDATION_FAILED"
	commandContextCanceled  = "COMMAND_CONTEXT_CANCELED"
	commandContextTimeout   = "COMMAND_CONTEXT_TIMEOUT"
	commandContextErrorCode = "COMMAND_CONTEXT_ERROR"
	commandExecuteFailed    = "COMMAND_EXECUTION_FAILED"
	commandForbidden        = "COMMAND_FORBIDDEN"
	commandEntityNotFound   = "COMMAND_ENTITY_NOT_FOUND"
	commandRecordInvalid    = "COMMAND_RECORD_INVALID"
	commandUnknownClass     = "COMMAND_UNKNOWN_CLASS"
)

// executeErrorKinds maps domain sentinels to the category and text code a
// failed command reports. The first match wins.
var executeErrorKinds = []struct {
	target   error
	category goerrors.Category
	code     string
	message  string
}{
	{access.ErrForbidden, goerrors.CategoryAuthz, commandForbidden, "command not permitted"},
	{entities.ErrNotFound, goerrors.CategoryNotFound, commandEntityNotFound, "entity not found"},
	{validation.ErrRecordValidation, goerrors.CategoryValidation, commandRecordInvalid, "record validation failed"},
	{forms.ErrUnknownClass, goerrors.CategoryBadInput, commandUnknownClass, "entity class is not registered"},
}

func wrapValidationError(err error) error {
	if err == nil {
		return nil
	}
	if goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.Wrap(err, goerrors.CategoryValidation, "command validation failed").
		WithTextCode(commandValidationCode)
}

func wrapContextError(err error) error {
	if err == nil {
		return nil
	}
	if goerrors.IsWrapped(err) {
		return err
	}
	switch err {
	case context.Canceled:
		return goerrors.Wrap(err, goerrors.CategoryCommand, "command execution cancelled").
			WithTextCode(commandContextCanceled)
	case context.DeadlineExceeded:
		return goerrors.Wrap(err, goerrors.CategoryCommand, "command execution deadline exceeded").
			WithTextCode(commandContextTimeout)
	default:
		return goerrors.Wrap(err, goerrors.CategoryCommand, "command context error").
			WithTextCode(commandContextErrorCode)
	}
}

func wrapExecuteError(err error) error {
	if err == nil {
		return nil
	}
	if goerrors.IsWrapped(err) {
		return err
	}
	for _, kind := range executeErrorKinds {
		if !errors.Is(err, kind.target) {
			continue
		}
		wrapped := goerrors.Wrap(err, kind.category, kind.message).WithTextCode(kind.code)
		if issues := validation.Issues(err); kind.target == validation.ErrRecordValidation && len(issues) > 0 {
			wrapped = wrapped.WithMetadata(map[string]any{"issues": issues})
		}
		return wrapped
	}
	return goerrors.Wrap(err, goerrors.CategoryCommand, "command execution failed").
		WithTextCode(commandExecuteFailed)
}
