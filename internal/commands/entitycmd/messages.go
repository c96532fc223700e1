package entitycmd

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

const (
	submitEntityMessageType    = "translated.entity.submit"
	deleteEntityMessageType    = "translated.entity.delete"
	importDirectoryMessageType = "translated.entity.import_directory"
)

// SubmitEntityCommand carries a submitted form. Without an ID the values
// create a new entity of Class; with one they update it.
type SubmitEntityCommand struct {
	Class  string         `json:"class"`
	ID     *uuid.UUID     `json:"id,omitempty"`
	Values map[string]any `json:"values"`
}

// Type implements command.Message.
func (SubmitEntityCommand) Type() string { return submitEntityMessageType }

func (m SubmitEntityCommand) Validate() error {
	errs := validation.Errors{}
	if m.ID == nil && strings.TrimSpace(m.Class) == "" {
		errs["class"] = validation.NewError("translated.entity.submit.class_required", "class is required when creating")
	}
	if m.ID != nil && *m.ID == uuid.Nil {
		errs["id"] = validation.NewError("translated.entity.submit.id_invalid", "id must not be empty")
	}
	if len(m.Values) == 0 {
		errs["values"] = validation.NewError("translated.entity.submit.values_required", "values are required")
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// DeleteEntityCommand moves an entity to the trash.
type DeleteEntityCommand struct {
	ID uuid.UUID `json:"id"`
}

// Type implements command.Message.
func (DeleteEntityCommand) Type() string { return deleteEntityMessageType }

func (m DeleteEntityCommand) Validate() error {
	if m.ID == uuid.Nil {
		return validation.Errors{
			"id": validation.NewError("translated.entity.delete.id_required", "id is required"),
		}
	}
	return nil
}

// ImportDirectoryCommand imports the markdown documents under Directory as
// entities of Class.
type ImportDirectoryCommand struct {
	Directory string `json:"directory"`
	Class     string `json:"class"`
}

// Type implements command.Message.
func (ImportDirectoryCommand) Type() string { return importDirectoryMessageType }

func (cmd ImportDirectoryCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.Directory, validation.Required, validation.By(notBlank("directory"))),
		validation.Field(&cmd.Class, validation.Required, validation.By(notBlank("class"))),
	)
}

func notBlank(name string) validation.RuleFunc {
	return func(value any) error {
		if strings.TrimSpace(value.(string)) == "" {
			return validation.NewError("translated.entity.import_directory."+name+"_required", name+" is required")
		}
		return nil
	}
}
