package ops

import (
	"context"
	"strings"

	"github.com/kmkohl117-gif/brainbucket-android/internal/capture"
	"github.com/kmkohl117-gif/brainbucket-android/internal/errors"
	"github.com/kmkohl117-gif/brainbucket-android/internal/store"
)

// DefaultBucketColor is used when a new bucket omits its color.
const DefaultBucketColor = "#6b7280"

// DefaultBucketIcon is used when a new bucket omits its icon.
const DefaultBucketIcon = "Folder"

// AddBucketInput contains parameters for the AddBucket operation.
type AddBucketInput struct {
	Name  string `json:"name" validate:"required,max=100"`
	Icon  string `json:"icon" validate:"max=50"`
	Color string `json:"color" validate:"omitempty,hexcolor"`
}

// AddBucket creates a bucket at the end of the bucket list.
func AddBucket(ctx context.Context, st *store.Store, input AddBucketInput) (*capture.Bucket, error) {
	if err := checkCtx(ctx, "add bucket"); err != nil {
		return nil, err
	}

	input.Name = strings.TrimSpace(input.Name)
	input.Icon = strings.TrimSpace(input.Icon)
	input.Color = strings.TrimSpace(input.Color)
	if err := validateInput(input); err != nil {
		return nil, err
	}
	if input.Icon == "" {
		input.Icon = DefaultBucketIcon
	}
	if input.Color == "" {
		input.Color = DefaultBucketColor
	}

	id, err := newID()
	if err != nil {
		return nil, err
	}

	next := st.Dispatch(store.AddBucket{Bucket: capture.Bucket{
		ID:    id,
		Name:  input.Name,
		Icon:  input.Icon,
		Color: input.Color,
	}})
	return lookupBucket(&next, id)
}

// UpdateBucketInput contains parameters for the UpdateBucket operation.
type UpdateBucketInput struct {
	ID    string  `json:"id" validate:"required"`
	Name  *string `json:"name" validate:"omitempty,max=100"`
	Icon  *string `json:"icon" validate:"omitempty,max=50"`
	Color *string `json:"color" validate:"omitempty,hexcolor"`
}

// UpdateBucket renames or restyles a bucket. Counts are always recomputed.
func UpdateBucket(ctx context.Context, st *store.Store, input UpdateBucketInput) (*capture.Bucket, error) {
	if err := checkCtx(ctx, "update bucket"); err != nil {
		return nil, err
	}

	input.ID = strings.TrimSpace(input.ID)
	input.Name = trimPtr(input.Name)
	input.Icon = trimPtr(input.Icon)
	input.Color = trimPtr(input.Color)
	if input.Name == nil && input.Icon == nil && input.Color == nil {
		return nil, errors.NewInvalidRequest("no fields to update")
	}
	if input.Name != nil && *input.Name == "" {
		return nil, errors.NewValidation(map[string]string{"name": "is required"})
	}
	if err := validateInput(input); err != nil {
		return nil, err
	}

	s := st.State()
	b, err := lookupBucket(&s, input.ID)
	if err != nil {
		return nil, err
	}
	if input.Name != nil {
		b.Name = *input.Name
	}
	if input.Icon != nil && *input.Icon != "" {
		b.Icon = *input.Icon
	}
	if input.Color != nil && *input.Color != "" {
		b.Color = *input.Color
	}

	next := st.Dispatch(store.UpdateBucket{Bucket: *b})
	return lookupBucket(&next, input.ID)
}

// DeleteBucket removes a bucket with all of its folders and captures.
// The reserved unsorted bucket cannot be deleted.
func DeleteBucket(ctx context.Context, st *store.Store, id string) (*DeleteOutput, error) {
	if err := checkCtx(ctx, "delete bucket"); err != nil {
		return nil, err
	}

	id = strings.TrimSpace(id)
	if id == capture.UnsortedBucketID {
		return nil, errors.NewInvalidRequest("the unsorted bucket cannot be deleted")
	}

	s := st.State()
	if _, err := lookupBucket(&s, id); err != nil {
		return nil, err
	}

	out := &DeleteOutput{ID: id, Deleted: true}
	for _, f := range s.Folders {
		if f.BucketID == id {
			out.Folders++
		}
	}
	for _, c := range s.Captures {
		if c.BucketID == id {
			out.Captures++
		}
	}

	st.Dispatch(store.DeleteBucket{ID: id})
	return out, nil
}

// ListBucketsOutput contains every bucket in display order.
type ListBucketsOutput struct {
	Items []capture.Bucket `json:"items"`
}

// ListBuckets returns all buckets, the reserved bucket first.
func ListBuckets(ctx context.Context, st *store.Store) (*ListBucketsOutput, error) {
	if err := checkCtx(ctx, "list buckets"); err != nil {
		return nil, err
	}
	s := st.State()
	return &ListBucketsOutput{Items: s.Buckets}, nil
}

// GetBucketOutput is a bucket's detail view: its folders by order and its inbox.
type GetBucketOutput struct {
	Bucket  capture.Bucket    `json:"bucket"`
	Folders []capture.Folder  `json:"folders"`
	Inbox   []capture.Capture `json:"inbox"`
}

// GetBucket returns a bucket with its folders and unfiled captures.
func GetBucket(ctx context.Context, st *store.Store, id string) (*GetBucketOutput, error) {
	if err := checkCtx(ctx, "get bucket"); err != nil {
		return nil, err
	}

	var (
		out *GetBucketOutput
		err error
	)
	st.Read(func(s store.State) {
		var b *capture.Bucket
		if b, err = lookupBucket(&s, strings.TrimSpace(id)); err != nil {
			return
		}
		inbox := make([]capture.Capture, 0)
		for i := range s.Captures {
			if c := &s.Captures[i]; c.BucketID == b.ID && c.FolderID == "" {
				inbox = append(inbox, c.Clone())
			}
		}
		out = &GetBucketOutput{Bucket: *b, Folders: s.FoldersIn(b.ID), Inbox: inbox}
	})
	if err != nil {
		return nil, err
	}
	capture.SortForDisplay(out.Inbox)
	return out, nil
}

func lookupBucket(s *store.State, id string) (*capture.Bucket, error) {
	if id == "" {
		return nil, errors.NewInvalidRequest("bucket id is required")
	}
	b, ok := s.Bucket(id)
	if !ok {
		return nil, errors.NewNotFound("bucket", id)
	}
	return &b, nil
}
