package ops

import (
	"context"
	"testing"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/require"

	"github.com/kmkohl117-gif/brainbucket-android/internal/config"
	"github.com/kmkohl117-gif/brainbucket-android/internal/errors"
	"github.com/kmkohl117-gif/brainbucket-android/internal/store"
)

// newTestStore returns an in-memory store seeded with the first-run state.
func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.New(context.Background(), store.Options{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close(context.Background()) })
	return st
}

func stringPtr(s string) *string { return &s }
func boolPtr(b bool) *bool       { return &b }

// mustAddCapture adds a capture with text to bucketID (and folderID, if set).
func mustAddCapture(t *testing.T, st *store.Store, text, bucketID, folderID string) string {
	t.Helper()
	c, err := AddCapture(context.Background(), st, config.DefaultConfig(), AddCaptureInput{
		Text:     text,
		BucketID: bucketID,
		FolderID: folderID,
	})
	require.NoError(t, err)
	return c.ID
}

func mustAddFolder(t *testing.T, st *store.Store, bucketID, name string) string {
	t.Helper()
	f, err := AddFolder(context.Background(), st, AddFolderInput{BucketID: bucketID, Name: name})
	require.NoError(t, err)
	return f.ID
}

func requireCode(t *testing.T, err error, code errors.ErrorCode) {
	t.Helper()
	require.Error(t, err)
	require.True(t, errors.Is(err, code), "want %s, got %v", code, err)
}

func TestPaginate(t *testing.T) {
	items := []int{0, 1, 2, 3, 4}

	page, p := paginate(items, 2, 0)
	require.Equal(t, []int{0, 1}, page)
	require.Equal(t, Pagination{Limit: 2, Offset: 0, HasMore: true, Total: 5}, p)

	page, p = paginate(items, 2, 4)
	require.Equal(t, []int{4}, page)
	require.False(t, p.HasMore)

	page, p = paginate(items, 0, 10)
	require.Empty(t, page)
	require.Equal(t, DefaultListLimit, p.Limit)

	_, p = paginate(items, MaxListLimit+1, -3)
	require.Equal(t, MaxListLimit, p.Limit)
	require.Equal(t, 0, p.Offset)
}

func TestPaginate_DoesNotAlias(t *testing.T) {
	items := []int{1, 2, 3}
	page, _ := paginate(items, 2, 0)
	page[0] = 99
	require.Equal(t, 1, items[0])
}

func TestNewID_Monotonic(t *testing.T) {
	prev := ""
	for range 100 {
		id, err := newID()
		require.NoError(t, err)
		_, err = ulid.ParseStrict(id)
		require.NoError(t, err)
		require.Greater(t, id, prev)
		prev = id
	}
}

func TestNewMediaID(t *testing.T) {
	a, err := newMediaID()
	require.NoError(t, err)
	b, err := newMediaID()
	require.NoError(t, err)
	require.Len(t, a, 21)
	require.NotEqual(t, a, b)
}

func TestValidateInput_FieldNamesFromJSON(t *testing.T) {
	err := validateInput(AddBucketInput{Color: "blue"})
	requireCode(t, err, errors.ErrInvalidRequest)

	appErr, ok := err.(*errors.AppError)
	require.True(t, ok)
	fields, ok := appErr.Details["fields"].(map[string]string)
	require.True(t, ok)
	require.Equal(t, "is required", fields["name"])
	require.Equal(t, "must be a hex color like #3b82f6", fields["color"])
}

func TestCheckCtx_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	requireCode(t, checkCtx(ctx, "test"), errors.ErrCancelled)

	_, err := ListBuckets(ctx, newTestStore(t))
	requireCode(t, err, errors.ErrCancelled)
}

func TestTrimPtr(t *testing.T) {
	require.Nil(t, trimPtr(nil))
	require.Equal(t, "x", *trimPtr(stringPtr("  x \n")))
}
