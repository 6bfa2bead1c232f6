package ops

import (
	"context"
	"fmt"
	"strings"

	"github.com/kmkohl117-gif/brainbucket-android/internal/capture"
	"github.com/kmkohl117-gif/brainbucket-android/internal/errors"
	"github.com/kmkohl117-gif/brainbucket-android/internal/store"
)

// AddFolderInput contains parameters for the AddFolder operation.
type AddFolderInput struct {
	BucketID string `json:"bucket_id" validate:"required"`
	Name     string `json:"name" validate:"required,max=100"`
	Icon     string `json:"icon" validate:"max=50"`
	Color    string `json:"color" validate:"omitempty,hexcolor"`
}

// AddFolder creates a folder after the last folder of its bucket.
func AddFolder(ctx context.Context, st *store.Store, input AddFolderInput) (*capture.Folder, error) {
	if err := checkCtx(ctx, "add folder"); err != nil {
		return nil, err
	}

	input.BucketID = strings.TrimSpace(input.BucketID)
	input.Name = strings.TrimSpace(input.Name)
	input.Icon = strings.TrimSpace(input.Icon)
	input.Color = strings.TrimSpace(input.Color)
	if err := validateInput(input); err != nil {
		return nil, err
	}

	id, err := newID()
	if err != nil {
		return nil, err
	}

	next, err := st.Update(func(s store.State) (store.Action, error) {
		if _, err := lookupBucket(&s, input.BucketID); err != nil {
			return nil, err
		}
		return store.AddFolder{Folder: capture.Folder{
			ID:       id,
			Name:     input.Name,
			BucketID: input.BucketID,
			Order:    capture.NextFolderOrder(s.Folders, input.BucketID),
			Icon:     input.Icon,
			Color:    input.Color,
		}}, nil
	})
	if err != nil {
		return nil, err
	}
	return lookupFolder(&next, id)
}

// UpdateFolderInput contains parameters for the UpdateFolder operation.
// A folder cannot change buckets.
type UpdateFolderInput struct {
	ID    string  `json:"id" validate:"required"`
	Name  *string `json:"name" validate:"omitempty,max=100"`
	Icon  *string `json:"icon" validate:"omitempty,max=50"`
	Color *string `json:"color" validate:"omitempty,hexcolor"`
}

// UpdateFolder renames or restyles a folder.
func UpdateFolder(ctx context.Context, st *store.Store, input UpdateFolderInput) (*capture.Folder, error) {
	if err := checkCtx(ctx, "update folder"); err != nil {
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
	f, err := lookupFolder(&s, input.ID)
	if err != nil {
		return nil, err
	}
	if input.Name != nil {
		f.Name = *input.Name
	}
	if input.Icon != nil {
		f.Icon = *input.Icon
	}
	if input.Color != nil {
		f.Color = *input.Color
	}

	next := st.Dispatch(store.UpdateFolder{Folder: *f})
	return lookupFolder(&next, input.ID)
}

// DeleteFolder removes a folder. Its captures stay in the bucket, unfiled.
func DeleteFolder(ctx context.Context, st *store.Store, id string) (*DeleteOutput, error) {
	if err := checkCtx(ctx, "delete folder"); err != nil {
		return nil, err
	}

	id = strings.TrimSpace(id)
	s := st.State()
	if _, err := lookupFolder(&s, id); err != nil {
		return nil, err
	}

	out := &DeleteOutput{ID: id, Deleted: true}
	for _, c := range s.Captures {
		if c.FolderID == id {
			out.Unfiled++
		}
	}

	st.Dispatch(store.DeleteFolder{ID: id})
	return out, nil
}

// ReorderFoldersInput lists every folder of a bucket in the desired order.
type ReorderFoldersInput struct {
	BucketID  string   `json:"bucket_id" validate:"required"`
	FolderIDs []string `json:"folder_ids" validate:"required,min=1,dive,required"`
}

// ReorderFolders sets each folder's order to its position in FolderIDs.
// FolderIDs must name exactly the folders of the bucket.
func ReorderFolders(ctx context.Context, st *store.Store, input ReorderFoldersInput) (*ListFoldersOutput, error) {
	if err := checkCtx(ctx, "reorder folders"); err != nil {
		return nil, err
	}

	input.BucketID = strings.TrimSpace(input.BucketID)
	input.FolderIDs = capture.CleanStrings(input.FolderIDs)
	if err := validateInput(input); err != nil {
		return nil, err
	}

	s := st.State()
	if _, err := lookupBucket(&s, input.BucketID); err != nil {
		return nil, err
	}

	current := s.FoldersIn(input.BucketID)
	if len(current) != len(input.FolderIDs) {
		return nil, errors.NewInvalidRequest(
			fmt.Sprintf("folder_ids must list all %d folders of bucket %s", len(current), input.BucketID))
	}

	seen := make(map[string]bool, len(input.FolderIDs))
	folders := make([]capture.Folder, 0, len(input.FolderIDs))
	for i, id := range input.FolderIDs {
		if seen[id] {
			return nil, errors.NewInvalidRequest("duplicate folder id: " + id)
		}
		seen[id] = true

		f, err := lookupFolder(&s, id)
		if err != nil {
			return nil, err
		}
		if f.BucketID != input.BucketID {
			return nil, errors.NewInvalidRequest(
				fmt.Sprintf("folder %s belongs to bucket %s, not %s", id, f.BucketID, input.BucketID))
		}
		f.Order = i
		folders = append(folders, *f)
	}

	next := st.Dispatch(store.ReorderFolders{BucketID: input.BucketID, Folders: folders})
	return &ListFoldersOutput{BucketID: input.BucketID, Items: next.FoldersIn(input.BucketID)}, nil
}

// ListFoldersOutput contains the folders of a bucket in display order.
type ListFoldersOutput struct {
	BucketID string           `json:"bucket_id"`
	Items    []capture.Folder `json:"items"`
}

// ListFolders returns the folders of a bucket sorted by order.
func ListFolders(ctx context.Context, st *store.Store, bucketID string) (*ListFoldersOutput, error) {
	if err := checkCtx(ctx, "list folders"); err != nil {
		return nil, err
	}

	bucketID = strings.TrimSpace(bucketID)
	s := st.State()
	if _, err := lookupBucket(&s, bucketID); err != nil {
		return nil, err
	}
	return &ListFoldersOutput{BucketID: bucketID, Items: s.FoldersIn(bucketID)}, nil
}

// GetFolderOutput is a folder's detail view.
type GetFolderOutput struct {
	Folder   capture.Folder    `json:"folder"`
	Bucket   capture.Bucket    `json:"bucket"`
	Captures []capture.Capture `json:"captures"`
}

// GetFolder returns a folder, its bucket, and its captures in display order.
func GetFolder(ctx context.Context, st *store.Store, id string) (*GetFolderOutput, error) {
	if err := checkCtx(ctx, "get folder"); err != nil {
		return nil, err
	}

	s := st.State()
	f, err := lookupFolder(&s, strings.TrimSpace(id))
	if err != nil {
		return nil, err
	}
	b, err := lookupBucket(&s, f.BucketID)
	if err != nil {
		return nil, err
	}

	items := make([]capture.Capture, 0)
	for _, c := range s.Captures {
		if c.FolderID == f.ID {
			items = append(items, c)
		}
	}
	capture.SortForDisplay(items)

	return &GetFolderOutput{Folder: *f, Bucket: *b, Captures: items}, nil
}

func lookupFolder(s *store.State, id string) (*capture.Folder, error) {
	if id == "" {
		return nil, errors.NewInvalidRequest("folder id is required")
	}
	f, ok := s.Folder(id)
	if !ok {
		return nil, errors.NewNotFound("folder", id)
	}
	return &f, nil
}
