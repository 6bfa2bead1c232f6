package ops

import (
	"context"
	"net/url"
	"strings"

	"github.com/kmkohl117-gif/brainbucket-android/internal/capture"
	"github.com/kmkohl117-gif/brainbucket-android/internal/errors"
	"github.com/kmkohl117-gif/brainbucket-android/internal/store"
)

// NavigateInput moves the view-layer pointers. Nil pointers are left unchanged;
// an empty string clears the pointer.
type NavigateInput struct {
	View      string  `json:"view"`
	BucketID  *string `json:"bucket_id"`
	FolderID  *string `json:"folder_id"`
	CaptureID *string `json:"capture_id"`
}

// NavigationOutput is the current navigation state.
type NavigationOutput struct {
	View        capture.View `json:"view"`
	BucketID    string       `json:"bucket_id,omitempty"`
	FolderID    string       `json:"folder_id,omitempty"`
	CaptureID   string       `json:"capture_id,omitempty"`
	SearchQuery string       `json:"search_query,omitempty"`
}

// Navigate validates the target view and entities and dispatches the matching setters.
func Navigate(ctx context.Context, st *store.Store, input NavigateInput) (*NavigationOutput, error) {
	if err := checkCtx(ctx, "navigate"); err != nil {
		return nil, err
	}

	s := st.State()
	var actions []store.Action

	if v := strings.TrimSpace(input.View); v != "" {
		view, ok := capture.ParseView(v)
		if !ok {
			return nil, errors.NewInvalidRequest("unknown view: " + v)
		}
		actions = append(actions, store.SetActiveView{View: view})
	}
	if input.BucketID != nil {
		id := strings.TrimSpace(*input.BucketID)
		if id != "" {
			if _, err := lookupBucket(&s, id); err != nil {
				return nil, err
			}
		}
		actions = append(actions, store.SetActiveBucket{ID: id})
	}
	if input.FolderID != nil {
		id := strings.TrimSpace(*input.FolderID)
		if id != "" {
			if _, err := lookupFolder(&s, id); err != nil {
				return nil, err
			}
		}
		actions = append(actions, store.SetActiveFolder{ID: id})
	}
	if input.CaptureID != nil {
		id := strings.TrimSpace(*input.CaptureID)
		if id != "" {
			if _, err := lookupCapture(&s, id); err != nil {
				return nil, err
			}
		}
		actions = append(actions, store.SetActiveCapture{ID: id})
	}

	for _, a := range actions {
		s = st.Dispatch(a)
	}
	return navigationOf(&s), nil
}

// CurrentNavigation returns the navigation pointers without changing them.
func CurrentNavigation(ctx context.Context, st *store.Store) (*NavigationOutput, error) {
	if err := checkCtx(ctx, "navigation"); err != nil {
		return nil, err
	}
	s := st.State()
	return navigationOf(&s), nil
}

func navigationOf(s *store.State) *NavigationOutput {
	return &NavigationOutput{
		View:        s.ActiveView,
		BucketID:    s.ActiveBucketID,
		FolderID:    s.ActiveFolderID,
		CaptureID:   s.ActiveCaptureID,
		SearchQuery: s.SearchQuery,
	}
}

// DecodeShared turns text handed over by another app (share sheet, ?shared= query)
// into capture text. Percent-encoding is undone when valid; the result is trimmed.
func DecodeShared(raw string) string {
	if decoded, err := url.QueryUnescape(raw); err == nil {
		raw = decoded
	}
	return strings.TrimSpace(raw)
}
