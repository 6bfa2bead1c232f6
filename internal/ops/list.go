package ops

import (
	"context"
	"strings"

	"github.com/kmkohl117-gif/brainbucket-android/internal/capture"
	"github.com/kmkohl117-gif/brainbucket-android/internal/errors"
	"github.com/kmkohl117-gif/brainbucket-android/internal/store"
)

// DisplaySort names the capture ordering used by every list.
const DisplaySort = "starred_first_updated_at_desc"

// ListCapturesInput contains parameters for the ListCaptures operation.
// Empty or nil filters match everything.
type ListCapturesInput struct {
	BucketID  string `json:"bucket_id"`
	FolderID  string `json:"folder_id"`
	InboxOnly bool   `json:"inbox_only"` // unfiled captures only; requires BucketID
	Type      string `json:"type" validate:"omitempty,oneof=task idea reference"`
	Starred   *bool  `json:"starred"`
	Completed *bool  `json:"completed"`
	Limit     int    `json:"limit" validate:"gte=0"`
	Offset    int    `json:"offset" validate:"gte=0"`
}

// ListCapturesOutput contains the result of a capture listing.
type ListCapturesOutput struct {
	Items      []capture.Capture `json:"items"`
	Pagination Pagination        `json:"pagination"`
	Sort       string            `json:"sort"`
}

// ListCaptures returns captures matching the filters, starred first, then most recently updated.
func ListCaptures(ctx context.Context, st *store.Store, input ListCapturesInput) (*ListCapturesOutput, error) {
	if err := checkCtx(ctx, "list captures"); err != nil {
		return nil, err
	}

	input.BucketID = strings.TrimSpace(input.BucketID)
	input.FolderID = strings.TrimSpace(input.FolderID)
	if err := validateInput(input); err != nil {
		return nil, err
	}
	if input.InboxOnly && input.FolderID != "" {
		return nil, errors.NewInvalidRequest("inbox_only cannot be combined with folder_id")
	}

	var (
		matches []capture.Capture
		err     error
	)
	// Filter in place under the lock; only matches are copied out.
	st.Read(func(s store.State) {
		if input.BucketID != "" {
			if _, ok := s.Bucket(input.BucketID); !ok {
				err = errors.NewNotFound("bucket", input.BucketID)
				return
			}
		}
		if input.FolderID != "" {
			if _, ok := s.Folder(input.FolderID); !ok {
				err = errors.NewNotFound("folder", input.FolderID)
				return
			}
		}

		matches = make([]capture.Capture, 0)
		for i := range s.Captures {
			c := &s.Captures[i]
			if input.BucketID != "" && c.BucketID != input.BucketID {
				continue
			}
			if input.FolderID != "" && c.FolderID != input.FolderID {
				continue
			}
			if input.InboxOnly && c.FolderID != "" {
				continue
			}
			if input.Type != "" && string(c.Kind) != input.Type {
				continue
			}
			if input.Starred != nil && c.IsStarred != *input.Starred {
				continue
			}
			if input.Completed != nil && c.IsCompleted != *input.Completed {
				continue
			}
			matches = append(matches, c.Clone())
		}
	})
	if err != nil {
		return nil, err
	}
	capture.SortForDisplay(matches)

	items, page := paginate(matches, input.Limit, input.Offset)
	return &ListCapturesOutput{Items: items, Pagination: page, Sort: DisplaySort}, nil
}

// SearchInput contains parameters for the Search operation.
type SearchInput struct {
	Query    string `json:"query" validate:"required"`
	BucketID string `json:"bucket_id"` // optional scope
	Limit    int    `json:"limit" validate:"gte=0"`
	Offset   int    `json:"offset" validate:"gte=0"`
}

// SearchOutput contains the result of a search.
type SearchOutput struct {
	Query      string            `json:"query"`
	Items      []capture.Capture `json:"items"`
	Pagination Pagination        `json:"pagination"`
	Sort       string            `json:"sort"`
}

// Search finds captures whose text or description contains the query,
// ignoring case. The query is also recorded as the active search.
func Search(ctx context.Context, st *store.Store, input SearchInput) (*SearchOutput, error) {
	if err := checkCtx(ctx, "search"); err != nil {
		return nil, err
	}

	input.Query = strings.TrimSpace(input.Query)
	input.BucketID = strings.TrimSpace(input.BucketID)
	if err := validateInput(input); err != nil {
		return nil, err
	}

	s, err := st.Update(func(s store.State) (store.Action, error) {
		if input.BucketID != "" {
			if _, ok := s.Bucket(input.BucketID); !ok {
				return nil, errors.NewNotFound("bucket", input.BucketID)
			}
		}
		return store.SetSearchQuery{Query: input.Query}, nil
	})
	if err != nil {
		return nil, err
	}

	matches := make([]capture.Capture, 0)
	for i := range s.Captures {
		c := &s.Captures[i]
		if input.BucketID != "" && c.BucketID != input.BucketID {
			continue
		}
		if capture.Matches(c, input.Query) {
			matches = append(matches, *c)
		}
	}
	capture.SortForDisplay(matches)

	items, page := paginate(matches, input.Limit, input.Offset)
	return &SearchOutput{Query: input.Query, Items: items, Pagination: page, Sort: DisplaySort}, nil
}
