package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/bnema/folio-admin-cli/internal/domain"
)

var ErrSubmitInProgress = errors.New("submit already in progress")

// FormDraftController holds the draft behind one create/edit form. A failed
// submit keeps the draft open with the operator's values intact.
type FormDraftController struct {
	schema   domain.Schema
	validate *validator.Validate

	mu         sync.Mutex
	draft      *domain.Draft
	err        error
	submitting bool
}

func NewFormDraftController(schema domain.Schema) *FormDraftController {
	return &FormDraftController{
		schema:   schema,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (f *FormDraftController) OpenForCreate() {
	draft := f.schema.BlankDraft()

	f.mu.Lock()
	f.draft = &draft
	f.err = nil
	f.mu.Unlock()
}

// OpenForEdit seeds the draft from entity. File fields start empty whatever
// the entity currently hosts.
func (f *FormDraftController) OpenForEdit(entity domain.Editable) {
	values := entity.DraftFields()
	draft := domain.Draft{
		Fields:          make(map[string]domain.Value, len(f.schema.Fields)),
		EditingTargetID: entity.EntityID(),
	}
	for _, field := range f.schema.Fields {
		if field.Kind == domain.FieldFile {
			draft.Fields[field.Name] = domain.Null()
			continue
		}
		draft.Fields[field.Name] = domain.Text(values[field.Name])
	}

	f.mu.Lock()
	f.draft = &draft
	f.err = nil
	f.mu.Unlock()
}

// SetField checks only that value has the right kind for the field.
func (f *FormDraftController) SetField(name string, value domain.Value) error {
	field, ok := f.schema.Field(name)
	if !ok {
		return &domain.ValidationError{Fields: map[string]string{name: "is not a " + f.schema.Label + " field"}}
	}

	switch field.Kind {
	case domain.FieldFile:
		if value.Kind == domain.ValueText {
			return &domain.ValidationError{Fields: map[string]string{name: "expects a file"}}
		}
		if value.Kind == domain.ValueFile && value.File == nil {
			value = domain.Null()
		}
	default:
		switch value.Kind {
		case domain.ValueFile:
			return &domain.ValidationError{Fields: map[string]string{name: "expects text"}}
		case domain.ValueNull:
			value = domain.Text("")
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.draft == nil {
		return domain.ErrDraftClosed
	}
	f.draft.Fields[name] = value
	return nil
}

func (f *FormDraftController) Close() {
	f.mu.Lock()
	f.draft = nil
	f.err = nil
	f.mu.Unlock()
}

// Submit validates the draft and hands it to target as a create or an
// update depending on the draft mode. The draft closes only on success.
func (f *FormDraftController) Submit(ctx context.Context, target Submitter) error {
	f.mu.Lock()
	if f.draft == nil {
		f.mu.Unlock()
		return domain.ErrDraftClosed
	}
	if f.submitting {
		f.mu.Unlock()
		return ErrSubmitInProgress
	}
	snapshot := f.draft.Clone()
	f.submitting = true
	f.mu.Unlock()

	err := f.check(snapshot)
	if err == nil {
		if snapshot.IsCreate() {
			err = target.Create(ctx, snapshot)
		} else {
			err = target.Update(ctx, snapshot.EditingTargetID, snapshot)
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	f.submitting = false
	if err != nil {
		f.err = err
		return err
	}
	f.draft = nil
	f.err = nil
	return nil
}

func (f *FormDraftController) check(draft domain.Draft) error {
	failures := make(map[string]string)
	for _, field := range f.schema.Fields {
		if field.Rule == "" {
			continue
		}

		if field.Kind == domain.FieldFile {
			if !draft.IsCreate() || !hasRule(field.Rule, "required") {
				continue
			}
			if v := draft.Fields[field.Name]; v.Kind != domain.ValueFile || v.File == nil {
				failures[field.Name] = "is required"
			}
			continue
		}

		value := strings.TrimSpace(draft.Text(field.Name))
		if err := f.validate.Var(value, field.Rule); err != nil {
			failures[field.Name] = ruleMessage(err)
		}
	}

	if len(failures) > 0 {
		return &domain.ValidationError{Fields: failures}
	}
	return nil
}

func hasRule(rule, name string) bool {
	for _, part := range strings.Split(rule, ",") {
		if part == name {
			return true
		}
	}
	return false
}

func ruleMessage(err error) string {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return err.Error()
	}

	switch tag := fieldErrs[0].Tag(); tag {
	case "required":
		return "is required"
	case "url":
		return "must be a valid URL"
	case "email":
		return "must be a valid email address"
	default:
		return fmt.Sprintf("failed %q rule", tag)
	}
}

func (f *FormDraftController) IsOpen() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.draft != nil
}

// Draft returns a copy of the open draft.
func (f *FormDraftController) Draft() (domain.Draft, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.draft == nil {
		return domain.Draft{}, false
	}
	return f.draft.Clone(), true
}

// Err is the error of the last failed submit, for inline display.
func (f *FormDraftController) Err() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.err
}

func (f *FormDraftController) Submitting() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.submitting
}
