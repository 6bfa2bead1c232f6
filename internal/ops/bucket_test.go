package ops

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kmkohl117-gif/brainbucket-android/internal/capture"
	"github.com/kmkohl117-gif/brainbucket-android/internal/errors"
)

func TestAddBucket(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	b, err := AddBucket(ctx, st, AddBucketInput{Name: " Work "})
	require.NoError(t, err)
	require.Equal(t, "Work", b.Name)
	require.Equal(t, DefaultBucketIcon, b.Icon)
	require.Equal(t, DefaultBucketColor, b.Color)
	require.Zero(t, b.ItemCount)

	s := st.State()
	require.Len(t, s.Buckets, len(capture.DefaultBuckets())+1)
	require.Equal(t, b.ID, s.Buckets[len(s.Buckets)-1].ID)
	require.Equal(t, capture.UnsortedBucketID, s.Buckets[0].ID)
}

func TestAddBucket_Validation(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	_, err := AddBucket(ctx, st, AddBucketInput{Name: "  "})
	requireCode(t, err, errors.ErrInvalidRequest)

	_, err = AddBucket(ctx, st, AddBucketInput{Name: "x", Color: "red"})
	requireCode(t, err, errors.ErrInvalidRequest)

	b, err := AddBucket(ctx, st, AddBucketInput{Name: "x", Color: "#abc", Icon: "Star"})
	require.NoError(t, err)
	require.Equal(t, "#abc", b.Color)
	require.Equal(t, "Star", b.Icon)
}

func TestUpdateBucket_KeepsCounts(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	mustAddCapture(t, st, "a", "1", "")
	mustAddCapture(t, st, "b", "1", "")

	b, err := UpdateBucket(ctx, st, UpdateBucketInput{ID: "1", Name: stringPtr("Todo"), Color: stringPtr("#000000")})
	require.NoError(t, err)
	require.Equal(t, "Todo", b.Name)
	require.Equal(t, "#000000", b.Color)
	require.Equal(t, "CheckSquare", b.Icon)
	require.Equal(t, 2, b.ItemCount)
	require.True(t, b.HasInboxItems)
}

func TestUpdateBucket_Errors(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	_, err := UpdateBucket(ctx, st, UpdateBucketInput{ID: "1"})
	requireCode(t, err, errors.ErrInvalidRequest)

	_, err = UpdateBucket(ctx, st, UpdateBucketInput{ID: "1", Name: stringPtr("")})
	requireCode(t, err, errors.ErrInvalidRequest)

	_, err = UpdateBucket(ctx, st, UpdateBucketInput{ID: "missing", Name: stringPtr("x")})
	requireCode(t, err, errors.ErrNotFound)
}

func TestUpdateBucket_UnsortedCanBeRenamed(t *testing.T) {
	st := newTestStore(t)
	b, err := UpdateBucket(context.Background(), st, UpdateBucketInput{ID: capture.UnsortedBucketID, Name: stringPtr("Inbox")})
	require.NoError(t, err)
	require.Equal(t, "Inbox", b.Name)
	require.Equal(t, capture.UnsortedBucketID, b.ID)
}

func TestDeleteBucket_Cascades(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	folderID := mustAddFolder(t, st, "1", "Errands")
	inFolder := mustAddCapture(t, st, "a", "1", folderID)
	mustAddCapture(t, st, "b", "1", "")
	survivor := mustAddCapture(t, st, "c", "2", "")

	_, err := Navigate(ctx, st, NavigateInput{
		View:      "capture-view",
		BucketID:  stringPtr("1"),
		FolderID:  stringPtr(folderID),
		CaptureID: stringPtr(inFolder),
	})
	require.NoError(t, err)

	out, err := DeleteBucket(ctx, st, "1")
	require.NoError(t, err)
	require.Equal(t, &DeleteOutput{ID: "1", Deleted: true, Folders: 1, Captures: 2}, out)

	s := st.State()
	_, ok := s.Bucket("1")
	require.False(t, ok)
	require.Empty(t, s.Folders)
	require.Len(t, s.Captures, 1)
	require.Equal(t, survivor, s.Captures[0].ID)
	require.Empty(t, s.ActiveBucketID)
	require.Empty(t, s.ActiveFolderID)
	require.Empty(t, s.ActiveCaptureID)
}

func TestDeleteBucket_UnsortedRejected(t *testing.T) {
	st := newTestStore(t)
	mustAddCapture(t, st, "keep", "", "")

	_, err := DeleteBucket(context.Background(), st, capture.UnsortedBucketID)
	requireCode(t, err, errors.ErrInvalidRequest)

	s := st.State()
	_, ok := s.Bucket(capture.UnsortedBucketID)
	require.True(t, ok)
	require.Len(t, s.Captures, 1)
}

func TestDeleteBucket_NotFound(t *testing.T) {
	_, err := DeleteBucket(context.Background(), newTestStore(t), "missing")
	requireCode(t, err, errors.ErrNotFound)
}

func TestGetBucket(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	second := mustAddFolder(t, st, "1", "Second")
	first := mustAddFolder(t, st, "1", "First")
	_, err := ReorderFolders(ctx, st, ReorderFoldersInput{BucketID: "1", FolderIDs: []string{first, second}})
	require.NoError(t, err)

	mustAddCapture(t, st, "filed", "1", first)
	plain := mustAddCapture(t, st, "plain", "1", "")
	starred := mustAddCapture(t, st, "starred", "1", "")
	_, err = ToggleStar(ctx, st, starred)
	require.NoError(t, err)
	mustAddCapture(t, st, "elsewhere", "2", "")

	out, err := GetBucket(ctx, st, "1")
	require.NoError(t, err)
	require.Equal(t, 3, out.Bucket.ItemCount)
	require.Len(t, out.Folders, 2)
	require.Equal(t, first, out.Folders[0].ID)
	require.Len(t, out.Inbox, 2)
	require.Equal(t, starred, out.Inbox[0].ID)
	require.Equal(t, plain, out.Inbox[1].ID)
}

func TestListBuckets(t *testing.T) {
	out, err := ListBuckets(context.Background(), newTestStore(t))
	require.NoError(t, err)
	require.Len(t, out.Items, 7)
	require.Equal(t, capture.UnsortedBucketID, out.Items[0].ID)
}
