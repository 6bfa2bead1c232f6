package store

import "github.com/kmkohl117-gif/brainbucket-android/internal/capture"

// CurrentSchemaVersion is the persisted state layout version.
// Version 0 is the unversioned layout that may lack the reserved bucket.
const CurrentSchemaVersion = 1

// State is the aggregate root. It is treated as immutable between transitions:
// Apply and Recompute always build new slices instead of writing into existing ones.
type State struct {
	SchemaVersion int                     `json:"schemaVersion"`
	Captures      []capture.Capture       `json:"captures"`
	Buckets       []capture.Bucket        `json:"buckets"`
	Folders       []capture.Folder        `json:"folders"`
	Templates     []capture.QuickTemplate `json:"templates"`

	ActiveView      capture.View `json:"activeView"`
	ActiveBucketID  string       `json:"activeBucketId,omitempty"`
	ActiveFolderID  string       `json:"activeFolderId,omitempty"`
	ActiveCaptureID string       `json:"activeCaptureId,omitempty"`
	SearchQuery     string       `json:"searchQuery"`
}

// InitialState returns the first-run state: the reserved bucket, six seed buckets,
// three seed templates, no captures, and the capture view active.
func InitialState() State {
	return State{
		SchemaVersion: CurrentSchemaVersion,
		Captures:      []capture.Capture{},
		Buckets:       capture.DefaultBuckets(),
		Folders:       []capture.Folder{},
		Templates:     capture.DefaultTemplates(),
		ActiveView:    capture.ViewCapture,
	}
}

// Clone returns a deep copy of s.
func (s State) Clone() State {
	out := s
	out.Captures = make([]capture.Capture, len(s.Captures))
	for i, c := range s.Captures {
		out.Captures[i] = c.Clone()
	}
	out.Buckets = append([]capture.Bucket{}, s.Buckets...)
	out.Folders = append([]capture.Folder{}, s.Folders...)
	out.Templates = make([]capture.QuickTemplate, len(s.Templates))
	for i, t := range s.Templates {
		out.Templates[i] = t.Clone()
	}
	return out
}

// Capture returns the capture with id, if present.
func (s State) Capture(id string) (capture.Capture, bool) {
	if i := indexOf(s.Captures, id, captureID); i >= 0 {
		return s.Captures[i], true
	}
	return capture.Capture{}, false
}

// Bucket returns the bucket with id, if present.
func (s State) Bucket(id string) (capture.Bucket, bool) {
	if i := indexOf(s.Buckets, id, bucketID); i >= 0 {
		return s.Buckets[i], true
	}
	return capture.Bucket{}, false
}

// Folder returns the folder with id, if present.
func (s State) Folder(id string) (capture.Folder, bool) {
	if i := indexOf(s.Folders, id, folderID); i >= 0 {
		return s.Folders[i], true
	}
	return capture.Folder{}, false
}

// Template returns the template with id, if present.
func (s State) Template(id string) (capture.QuickTemplate, bool) {
	if i := indexOf(s.Templates, id, templateID); i >= 0 {
		return s.Templates[i], true
	}
	return capture.QuickTemplate{}, false
}

// FoldersIn returns the folders of bucketID sorted by display order.
func (s State) FoldersIn(bucketID string) []capture.Folder {
	out := make([]capture.Folder, 0)
	for _, f := range s.Folders {
		if f.BucketID == bucketID {
			out = append(out, f)
		}
	}
	capture.SortFolders(out)
	return out
}

func captureID(c capture.Capture) string        { return c.ID }
func bucketID(b capture.Bucket) string          { return b.ID }
func folderID(f capture.Folder) string          { return f.ID }
func templateID(t capture.QuickTemplate) string { return t.ID }

func indexOf[T any](items []T, id string, key func(T) string) int {
	for i, item := range items {
		if key(item) == id {
			return i
		}
	}
	return -1
}
