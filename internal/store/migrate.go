package store

import (
	"slices"

	"github.com/kmkohl117-gif/brainbucket-android/internal/capture"
)

// Migrate turns a loaded state into a current one. A nil state is a first run.
// Collections absent from the persisted blob fall back to their defaults; a state
// written before the reserved bucket existed gets it prepended so captures that
// reference it resolve. Derived fields are not touched here; callers Recompute.
func Migrate(loaded *State) State {
	if loaded == nil {
		return InitialState()
	}

	defaults := InitialState()
	s := *loaded

	if s.Captures == nil {
		s.Captures = defaults.Captures
	}
	if s.Buckets == nil {
		s.Buckets = defaults.Buckets
	}
	if s.Folders == nil {
		s.Folders = defaults.Folders
	}
	if s.Templates == nil {
		s.Templates = defaults.Templates
	}
	if _, ok := capture.ParseView(string(s.ActiveView)); !ok {
		s.ActiveView = capture.ViewCapture
	}

	if indexOf(s.Buckets, capture.UnsortedBucketID, bucketID) < 0 {
		s.Buckets = append([]capture.Bucket{capture.UnsortedBucket()}, slices.Clone(s.Buckets)...)
	}

	s.SchemaVersion = CurrentSchemaVersion
	return s
}
