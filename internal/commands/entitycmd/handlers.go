package entitycmd

import (
	"context"
	"io/fs"
	"os"

	"github.com/goliatone/go-translated/internal/access"
	"github.com/goliatone/go-translated/internal/commands"
	"github.com/goliatone/go-translated/internal/fields"
	"github.com/goliatone/go-translated/internal/forms"
	"github.com/goliatone/go-translated/internal/locales"
	"github.com/goliatone/go-translated/internal/markdown"
	"github.com/goliatone/go-translated/pkg/interfaces"
)

// scoped gates svc by the session on ctx. Admin and system contexts run
// ungated; any other context is checked against its roles, so a context
// without roles is denied every operation.
func scoped(ctx context.Context, svc forms.Service) forms.Service {
	if _, ok := access.Unrestricted(ctx); ok {
		return svc
	}
	roles, _ := access.RolesFromContext(ctx)
	return svc.WithAccess(roles)
}

// SubmitEntityHandler creates or updates entities through the form service.
type SubmitEntityHandler struct {
	inner *commands.Handler[SubmitEntityCommand]
}

func NewSubmitEntityHandler(service forms.Service, logger interfaces.Logger, opts ...commands.HandlerOption[SubmitEntityCommand]) *SubmitEntityHandler {
	exec := func(ctx context.Context, msg SubmitEntityCommand) error {
		svc := scoped(ctx, service)
		flat := fields.FlatRecord(msg.Values)
		if msg.ID == nil {
			_, err := svc.Create(ctx, msg.Class, flat)
			return err
		}
		_, err := svc.Update(ctx, *msg.ID, flat)
		return err
	}

	handlerOpts := []commands.HandlerOption[SubmitEntityCommand]{
		commands.WithLogger[SubmitEntityCommand](logger),
		commands.WithOperation[SubmitEntityCommand]("entity.submit"),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &SubmitEntityHandler{
		inner: commands.NewHandler[SubmitEntityCommand](exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[SubmitEntityCommand].Execute.
func (h *SubmitEntityHandler) Execute(ctx context.Context, msg SubmitEntityCommand) error {
	return h.inner.Execute(ctx, msg)
}

// DeleteEntityHandler soft deletes entities.
type DeleteEntityHandler struct {
	inner *commands.Handler[DeleteEntityCommand]
}

func NewDeleteEntityHandler(service forms.Service, logger interfaces.Logger, opts ...commands.HandlerOption[DeleteEntityCommand]) *DeleteEntityHandler {
	exec := func(ctx context.Context, msg DeleteEntityCommand) error {
		return scoped(ctx, service).Delete(ctx, msg.ID)
	}

	handlerOpts := []commands.HandlerOption[DeleteEntityCommand]{
		commands.WithLogger[DeleteEntityCommand](logger),
		commands.WithOperation[DeleteEntityCommand]("entity.delete"),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &DeleteEntityHandler{
		inner: commands.NewHandler[DeleteEntityCommand](exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[DeleteEntityCommand].Execute.
func (h *DeleteEntityHandler) Execute(ctx context.Context, msg DeleteEntityCommand) error {
	return h.inner.Execute(ctx, msg)
}

// ImportDirectoryHandler loads a markdown tree and imports it.
type ImportDirectoryHandler struct {
	inner *commands.Handler[ImportDirectoryCommand]
}

// NewImportDirectoryHandler builds the handler. open maps the command
// directory to a filesystem and defaults to os.DirFS.
func NewImportDirectoryHandler(service forms.Service, registry *locales.Registry, open func(dir string) fs.FS, logger interfaces.Logger, opts ...commands.HandlerOption[ImportDirectoryCommand]) *ImportDirectoryHandler {
	if open == nil {
		open = os.DirFS
	}
	exec := func(ctx context.Context, msg ImportDirectoryCommand) error {
		docs, err := markdown.LoadDirectory(ctx, open(msg.Directory), ".", registry)
		if err != nil {
			return err
		}
		_, err = scoped(ctx, service).Import(ctx, msg.Class, docs)
		return err
	}

	handlerOpts := []commands.HandlerOption[ImportDirectoryCommand]{
		commands.WithLogger[ImportDirectoryCommand](logger),
		commands.WithOperation[ImportDirectoryCommand]("entity.import_directory"),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &ImportDirectoryHandler{
		inner: commands.NewHandler[ImportDirectoryCommand](exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[ImportDirectoryCommand].Execute.
func (h *ImportDirectoryHandler) Execute(ctx context.Context, msg ImportDirectoryCommand) error {
	return h.inner.Execute(ctx, msg)
}
