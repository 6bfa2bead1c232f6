package ops

import (
	"context"
	"strings"

	"github.com/kmkohl117-gif/brainbucket-android/internal/capture"
	"github.com/kmkohl117-gif/brainbucket-android/internal/errors"
	"github.com/kmkohl117-gif/brainbucket-android/internal/store"
)

// AddTemplateInput contains parameters for the AddTemplate operation.
// Blank items are dropped; at least one must remain.
type AddTemplateInput struct {
	Name  string   `json:"name" validate:"required,max=100"`
	Icon  string   `json:"icon" validate:"max=50"`
	Color string   `json:"color" validate:"omitempty,hexcolor"`
	Items []string `json:"items" validate:"required,min=1,dive,max=500"`
}

// AddTemplate creates a quick template.
func AddTemplate(ctx context.Context, st *store.Store, input AddTemplateInput) (*capture.QuickTemplate, error) {
	if err := checkCtx(ctx, "add template"); err != nil {
		return nil, err
	}

	input.Name = strings.TrimSpace(input.Name)
	input.Icon = strings.TrimSpace(input.Icon)
	input.Color = strings.TrimSpace(input.Color)
	input.Items = capture.CleanStrings(input.Items)
	if err := validateInput(input); err != nil {
		return nil, err
	}
	if input.Icon == "" {
		input.Icon = "ListChecks"
	}
	if input.Color == "" {
		input.Color = DefaultBucketColor
	}

	id, err := newID()
	if err != nil {
		return nil, err
	}

	next := st.Dispatch(store.AddTemplate{Template: capture.QuickTemplate{
		ID:    id,
		Name:  input.Name,
		Icon:  input.Icon,
		Color: input.Color,
		Items: input.Items,
	}})
	return lookupTemplate(&next, id)
}

// UpdateTemplateInput contains parameters for the UpdateTemplate operation.
type UpdateTemplateInput struct {
	ID    string    `json:"id" validate:"required"`
	Name  *string   `json:"name" validate:"omitempty,max=100"`
	Icon  *string   `json:"icon" validate:"omitempty,max=50"`
	Color *string   `json:"color" validate:"omitempty,hexcolor"`
	Items *[]string `json:"items" validate:"omitempty,dive,max=500"`
}

// UpdateTemplate edits a quick template.
func UpdateTemplate(ctx context.Context, st *store.Store, input UpdateTemplateInput) (*capture.QuickTemplate, error) {
	if err := checkCtx(ctx, "update template"); err != nil {
		return nil, err
	}

	input.ID = strings.TrimSpace(input.ID)
	input.Name = trimPtr(input.Name)
	input.Icon = trimPtr(input.Icon)
	input.Color = trimPtr(input.Color)
	if input.Items != nil {
		cleaned := capture.CleanStrings(*input.Items)
		if len(cleaned) == 0 {
			return nil, errors.NewValidation(map[string]string{"items": "must contain at least 1 item(s)"})
		}
		input.Items = &cleaned
	}
	if input.Name == nil && input.Icon == nil && input.Color == nil && input.Items == nil {
		return nil, errors.NewInvalidRequest("no fields to update")
	}
	if input.Name != nil && *input.Name == "" {
		return nil, errors.NewValidation(map[string]string{"name": "is required"})
	}
	if err := validateInput(input); err != nil {
		return nil, err
	}

	s := st.State()
	t, err := lookupTemplate(&s, input.ID)
	if err != nil {
		return nil, err
	}
	if input.Name != nil {
		t.Name = *input.Name
	}
	if input.Icon != nil && *input.Icon != "" {
		t.Icon = *input.Icon
	}
	if input.Color != nil && *input.Color != "" {
		t.Color = *input.Color
	}
	if input.Items != nil {
		t.Items = *input.Items
	}

	next := st.Dispatch(store.UpdateTemplate{Template: *t})
	return lookupTemplate(&next, input.ID)
}

// DeleteTemplate removes a quick template.
func DeleteTemplate(ctx context.Context, st *store.Store, id string) (*DeleteOutput, error) {
	if err := checkCtx(ctx, "delete template"); err != nil {
		return nil, err
	}

	id = strings.TrimSpace(id)
	s := st.State()
	if _, err := lookupTemplate(&s, id); err != nil {
		return nil, err
	}
	st.Dispatch(store.DeleteTemplate{ID: id})
	return &DeleteOutput{ID: id, Deleted: true}, nil
}

// ListTemplatesOutput contains every quick template.
type ListTemplatesOutput struct {
	Items []capture.QuickTemplate `json:"items"`
}

// ListTemplates returns all quick templates.
func ListTemplates(ctx context.Context, st *store.Store) (*ListTemplatesOutput, error) {
	if err := checkCtx(ctx, "list templates"); err != nil {
		return nil, err
	}
	s := st.State()
	return &ListTemplatesOutput{Items: s.Templates}, nil
}

func lookupTemplate(s *store.State, id string) (*capture.QuickTemplate, error) {
	if id == "" {
		return nil, errors.NewInvalidRequest("template id is required")
	}
	t, ok := s.Template(id)
	if !ok {
		return nil, errors.NewNotFound("template", id)
	}
	t = t.Clone()
	return &t, nil
}
