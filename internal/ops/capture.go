package ops

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/kmkohl117-gif/brainbucket-android/internal/capture"
	"github.com/kmkohl117-gif/brainbucket-android/internal/config"
	"github.com/kmkohl117-gif/brainbucket-android/internal/errors"
	"github.com/kmkohl117-gif/brainbucket-android/internal/store"
)

// MediaInput describes an attachment to add to a capture.
type MediaInput struct {
	Type string `json:"type" validate:"required,oneof=image document link"`
	URL  string `json:"url" validate:"required,max=2048"`
	Name string `json:"name" validate:"max=200"`
}

// AddCaptureInput contains parameters for the AddCapture operation.
type AddCaptureInput struct {
	Text        string       `json:"text" validate:"required"`
	Type        string       `json:"type" validate:"omitempty,oneof=task idea reference"` // default: task
	BucketID    string       `json:"bucket_id"`                                           // default: unsorted
	FolderID    string       `json:"folder_id"`                                           // optional, must belong to BucketID
	Description string       `json:"description" validate:"max=10000"`
	Links       []string     `json:"links" validate:"dive,url"`
	Media       []MediaInput `json:"media" validate:"dive"`
	Starred     bool         `json:"starred"`
}

// AddCapture creates a capture at the head of the capture list.
func AddCapture(ctx context.Context, st *store.Store, cfg *config.Config, input AddCaptureInput) (*capture.Capture, error) {
	if err := checkCtx(ctx, "add capture"); err != nil {
		return nil, err
	}

	input.Text = strings.TrimSpace(input.Text)
	input.Description = strings.TrimSpace(input.Description)
	input.Links = capture.CleanStrings(input.Links)
	if err := validateInput(input); err != nil {
		return nil, err
	}
	if err := checkTextLength(cfg, input.Text); err != nil {
		return nil, err
	}

	kind := capture.KindTask
	if input.Type != "" {
		kind = capture.Kind(input.Type)
	}

	media, err := buildMedia(input.Media)
	if err != nil {
		return nil, err
	}

	id, err := newID()
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	c := capture.Capture{
		ID:          id,
		Text:        input.Text,
		Kind:        kind,
		IsStarred:   input.Starred,
		Description: input.Description,
		Media:       media,
		Links:       input.Links,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	next, err := st.Update(func(s store.State) (store.Action, error) {
		bucketID, folderID, err := resolveLocation(&s, input.BucketID, input.FolderID)
		if err != nil {
			return nil, err
		}
		c.BucketID, c.FolderID = bucketID, folderID
		return store.AddCapture{Capture: c}, nil
	})
	if err != nil {
		return nil, err
	}
	return lookupCapture(&next, id)
}

// UpdateCaptureInput contains parameters for the UpdateCapture operation.
// Nil fields are left unchanged.
type UpdateCaptureInput struct {
	ID          string        `json:"id" validate:"required"`
	Text        *string       `json:"text"`
	Type        *string       `json:"type" validate:"omitempty,oneof=task idea reference"`
	Description *string       `json:"description" validate:"omitempty,max=10000"`
	Links       *[]string     `json:"links" validate:"omitempty,dive,url"`
	Media       *[]MediaInput `json:"media" validate:"omitempty,dive"`
	Starred     *bool         `json:"starred"`
	Completed   *bool         `json:"completed"`
}

// UpdateCapture edits a capture in place. Its bucket and folder are changed with MoveCapture.
func UpdateCapture(ctx context.Context, st *store.Store, cfg *config.Config, input UpdateCaptureInput) (*capture.Capture, error) {
	if err := checkCtx(ctx, "update capture"); err != nil {
		return nil, err
	}

	input.ID = strings.TrimSpace(input.ID)
	input.Text = trimPtr(input.Text)
	input.Description = trimPtr(input.Description)
	if input.Links != nil {
		cleaned := capture.CleanStrings(*input.Links)
		input.Links = &cleaned
	}
	if input.Text == nil && input.Type == nil && input.Description == nil && input.Links == nil &&
		input.Media == nil && input.Starred == nil && input.Completed == nil {
		return nil, errors.NewInvalidRequest("no fields to update")
	}
	if input.Text != nil && *input.Text == "" {
		return nil, errors.NewValidation(map[string]string{"text": "is required"})
	}
	if err := validateInput(input); err != nil {
		return nil, err
	}

	if input.Text != nil {
		if err := checkTextLength(cfg, *input.Text); err != nil {
			return nil, err
		}
	}
	var media []capture.MediaItem
	if input.Media != nil {
		var err error
		if media, err = buildMedia(*input.Media); err != nil {
			return nil, err
		}
	}

	// The record is read and replaced under one lock so a concurrent move is not undone.
	next, err := st.Update(func(s store.State) (store.Action, error) {
		c, err := lookupCapture(&s, input.ID)
		if err != nil {
			return nil, err
		}
		if input.Text != nil {
			c.Text = *input.Text
		}
		if input.Type != nil {
			c.Kind = capture.Kind(*input.Type)
		}
		if input.Description != nil {
			c.Description = *input.Description
		}
		if input.Links != nil {
			c.Links = *input.Links
		}
		if input.Media != nil {
			c.Media = media
		}
		if input.Starred != nil {
			c.IsStarred = *input.Starred
		}
		if input.Completed != nil {
			c.IsCompleted = *input.Completed
		}
		c.UpdatedAt = time.Now().UTC()
		return store.UpdateCapture{Capture: *c}, nil
	})
	if err != nil {
		return nil, err
	}
	return lookupCapture(&next, input.ID)
}

// GetCapture returns one capture.
func GetCapture(ctx context.Context, st *store.Store, id string) (*capture.Capture, error) {
	if err := checkCtx(ctx, "get capture"); err != nil {
		return nil, err
	}
	s := st.State()
	return lookupCapture(&s, strings.TrimSpace(id))
}

// ToggleStar flips a capture's starred flag.
func ToggleStar(ctx context.Context, st *store.Store, id string) (*capture.Capture, error) {
	return toggle(ctx, st, id, "toggle star", func(id string) store.Action { return store.ToggleStar{ID: id} })
}

// ToggleComplete flips a capture's completed flag.
func ToggleComplete(ctx context.Context, st *store.Store, id string) (*capture.Capture, error) {
	return toggle(ctx, st, id, "toggle complete", func(id string) store.Action { return store.ToggleComplete{ID: id} })
}

func toggle(ctx context.Context, st *store.Store, id, op string, action func(string) store.Action) (*capture.Capture, error) {
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}
	id = strings.TrimSpace(id)
	next, err := st.Update(func(s store.State) (store.Action, error) {
		if _, err := lookupCapture(&s, id); err != nil {
			return nil, err
		}
		return action(id), nil
	})
	if err != nil {
		return nil, err
	}
	return lookupCapture(&next, id)
}

// MoveCaptureInput contains parameters for the MoveCapture operation.
type MoveCaptureInput struct {
	ID       string `json:"id" validate:"required"`
	BucketID string `json:"bucket_id" validate:"required"`
	FolderID string `json:"folder_id"` // empty sends the capture to the bucket inbox
}

// MoveCapture reassigns a capture to another bucket and/or folder.
func MoveCapture(ctx context.Context, st *store.Store, input MoveCaptureInput) (*capture.Capture, error) {
	if err := checkCtx(ctx, "move capture"); err != nil {
		return nil, err
	}

	input.ID = strings.TrimSpace(input.ID)
	input.BucketID = strings.TrimSpace(input.BucketID)
	if err := validateInput(input); err != nil {
		return nil, err
	}

	next, err := st.Update(func(s store.State) (store.Action, error) {
		if _, err := lookupCapture(&s, input.ID); err != nil {
			return nil, err
		}
		bucketID, folderID, err := resolveLocation(&s, input.BucketID, input.FolderID)
		if err != nil {
			return nil, err
		}
		return store.MoveCapture{ID: input.ID, BucketID: bucketID, FolderID: folderID}, nil
	})
	if err != nil {
		return nil, err
	}
	return lookupCapture(&next, input.ID)
}

// DeleteOutput contains the result of a delete operation.
type DeleteOutput struct {
	ID      string `json:"id"`
	Deleted bool   `json:"deleted"`
	// Cascade counts are set when deleting a bucket or folder.
	Folders  int `json:"folders_deleted,omitempty"`
	Captures int `json:"captures_deleted,omitempty"`
	Unfiled  int `json:"captures_unfiled,omitempty"`
}

// DeleteCapture removes a capture permanently.
func DeleteCapture(ctx context.Context, st *store.Store, id string) (*DeleteOutput, error) {
	if err := checkCtx(ctx, "delete capture"); err != nil {
		return nil, err
	}
	id = strings.TrimSpace(id)
	_, err := st.Update(func(s store.State) (store.Action, error) {
		if _, err := lookupCapture(&s, id); err != nil {
			return nil, err
		}
		return store.DeleteCapture{ID: id}, nil
	})
	if err != nil {
		return nil, err
	}
	return &DeleteOutput{ID: id, Deleted: true}, nil
}

// resolveLocation defaults an empty bucket to the reserved bucket and checks that
// the bucket exists and the folder (if any) exists inside it.
func resolveLocation(s *store.State, bucketID, folderID string) (string, string, error) {
	bucketID = strings.TrimSpace(bucketID)
	folderID = strings.TrimSpace(folderID)
	if bucketID == "" {
		bucketID = capture.UnsortedBucketID
	}
	if _, ok := s.Bucket(bucketID); !ok {
		return "", "", errors.NewNotFound("bucket", bucketID)
	}
	if folderID == "" {
		return bucketID, "", nil
	}
	f, ok := s.Folder(folderID)
	if !ok {
		return "", "", errors.NewNotFound("folder", folderID)
	}
	if f.BucketID != bucketID {
		return "", "", errors.NewInvalidRequest(
			fmt.Sprintf("folder %s belongs to bucket %s, not %s", folderID, f.BucketID, bucketID))
	}
	return bucketID, folderID, nil
}

func checkTextLength(cfg *config.Config, text string) error {
	if cfg == nil || cfg.CaptureMaxChars <= 0 {
		return nil
	}
	if n := capture.CountChars(text); n > cfg.CaptureMaxChars {
		return errors.NewTextTooLong(cfg.CaptureMaxChars, n)
	}
	return nil
}

func buildMedia(in []MediaInput) ([]capture.MediaItem, error) {
	if len(in) == 0 {
		return nil, nil
	}
	out := make([]capture.MediaItem, 0, len(in))
	for _, m := range in {
		id, err := newMediaID()
		if err != nil {
			return nil, err
		}
		out = append(out, capture.MediaItem{
			ID:   id,
			Kind: capture.MediaKind(m.Type),
			URL:  strings.TrimSpace(m.URL),
			Name: strings.TrimSpace(m.Name),
		})
	}
	return out, nil
}

func lookupCapture(s *store.State, id string) (*capture.Capture, error) {
	if id == "" {
		return nil, errors.NewInvalidRequest("id is required")
	}
	c, ok := s.Capture(id)
	if !ok {
		return nil, errors.NewNotFound("capture", id)
	}
	c = c.Clone()
	return &c, nil
}
