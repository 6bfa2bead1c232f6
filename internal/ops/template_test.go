package ops

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kmkohl117-gif/brainbucket-android/internal/capture"
	"github.com/kmkohl117-gif/brainbucket-android/internal/errors"
)

func TestListTemplates_Seeded(t *testing.T) {
	out, err := ListTemplates(context.Background(), newTestStore(t))
	require.NoError(t, err)
	require.Equal(t, capture.DefaultTemplates(), out.Items)
}

func TestAddTemplate(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	tpl, err := AddTemplate(ctx, st, AddTemplateInput{Name: "Packing", Items: []string{" socks ", "", "charger"}})
	require.NoError(t, err)
	require.Equal(t, "Packing", tpl.Name)
	require.Equal(t, "ListChecks", tpl.Icon)
	require.Equal(t, DefaultBucketColor, tpl.Color)
	require.Equal(t, []string{"socks", "charger"}, tpl.Items)

	out, _ := ListTemplates(ctx, st)
	require.Len(t, out.Items, 4)
	require.Equal(t, tpl.ID, out.Items[3].ID)
}

func TestAddTemplate_Validation(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	_, err := AddTemplate(ctx, st, AddTemplateInput{Name: "x", Items: []string{"  "}})
	requireCode(t, err, errors.ErrInvalidRequest)

	_, err = AddTemplate(ctx, st, AddTemplateInput{Items: []string{"a"}})
	requireCode(t, err, errors.ErrInvalidRequest)

	_, err = AddTemplate(ctx, st, AddTemplateInput{Name: "x", Items: []string{"a"}, Color: "green"})
	requireCode(t, err, errors.ErrInvalidRequest)
}

func TestUpdateTemplate(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	tpl, err := UpdateTemplate(ctx, st, UpdateTemplateInput{ID: "2", Items: &[]string{"Oat milk", " "}})
	require.NoError(t, err)
	require.Equal(t, "Grocery List", tpl.Name)
	require.Equal(t, []string{"Oat milk"}, tpl.Items)

	_, err = UpdateTemplate(ctx, st, UpdateTemplateInput{ID: "2", Items: &[]string{" "}})
	requireCode(t, err, errors.ErrInvalidRequest)

	_, err = UpdateTemplate(ctx, st, UpdateTemplateInput{ID: "2"})
	requireCode(t, err, errors.ErrInvalidRequest)

	_, err = UpdateTemplate(ctx, st, UpdateTemplateInput{ID: "missing", Name: stringPtr("x")})
	requireCode(t, err, errors.ErrNotFound)
}

func TestDeleteTemplate(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	out, err := DeleteTemplate(ctx, st, "1")
	require.NoError(t, err)
	require.True(t, out.Deleted)

	list, _ := ListTemplates(ctx, st)
	require.Len(t, list.Items, 2)

	_, err = DeleteTemplate(ctx, st, "1")
	requireCode(t, err, errors.ErrNotFound)
}
