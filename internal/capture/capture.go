package capture

import "time"

// Kind is the closed set of capture types.
type Kind string

const (
	KindTask      Kind = "task"
	KindIdea      Kind = "idea"
	KindReference Kind = "reference"
)

// Kinds lists every valid Kind in display order.
var Kinds = []Kind{KindTask, KindIdea, KindReference}

// ParseKind returns the Kind for s, or false if s is not a known kind.
func ParseKind(s string) (Kind, bool) {
	for _, k := range Kinds {
		if string(k) == s {
			return k, true
		}
	}
	return "", false
}

// MediaKind is the closed set of attachment types.
type MediaKind string

const (
	MediaImage    MediaKind = "image"
	MediaDocument MediaKind = "document"
	MediaLink     MediaKind = "link"
)

// ParseMediaKind returns the MediaKind for s, or false if s is not a known kind.
func ParseMediaKind(s string) (MediaKind, bool) {
	switch MediaKind(s) {
	case MediaImage, MediaDocument, MediaLink:
		return MediaKind(s), true
	}
	return "", false
}

// MediaItem is attachment metadata owned by exactly one Capture.
type MediaItem struct {
	ID   string    `json:"id"`
	Kind MediaKind `json:"type"`
	URL  string    `json:"url"`
	Name string    `json:"name"`
}

// Capture is an atomic user-recorded item.
// FolderID is empty when the capture sits in its bucket's inbox.
type Capture struct {
	ID          string      `json:"id"`
	Text        string      `json:"text"`
	Kind        Kind        `json:"type"`
	BucketID    string      `json:"bucketId"`
	FolderID    string      `json:"folderId,omitempty"`
	IsStarred   bool        `json:"isStarred"`
	IsCompleted bool        `json:"isCompleted"`
	Description string      `json:"description,omitempty"`
	Media       []MediaItem `json:"media,omitempty"`
	Links       []string    `json:"links,omitempty"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

// InInbox reports whether c counts toward its bucket's inbox indicator.
func (c *Capture) InInbox() bool {
	return c.FolderID == "" && !c.IsCompleted
}

// Clone returns a copy of c that shares no slices with it.
func (c Capture) Clone() Capture {
	if c.Media != nil {
		c.Media = append([]MediaItem(nil), c.Media...)
	}
	if c.Links != nil {
		c.Links = append([]string(nil), c.Links...)
	}
	return c
}

// Bucket is a top-level organizational container.
// ItemCount and HasInboxItems are derived by the store and never source-of-truth.
type Bucket struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Icon          string `json:"icon"`
	Color         string `json:"color"`
	HasInboxItems bool   `json:"hasInboxItems"`
	ItemCount     int    `json:"itemCount"`
}

// Folder is a sub-container scoped to exactly one Bucket.
// ItemCount is derived by the store.
type Folder struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	BucketID  string `json:"bucketId"`
	Order     int    `json:"order"`
	ItemCount int    `json:"itemCount"`
	Icon      string `json:"icon,omitempty"`
	Color     string `json:"color,omitempty"`
}

// QuickTemplate is a named, reusable list of suggested capture texts.
type QuickTemplate struct {
	ID    string   `json:"id"`
	Name  string   `json:"name"`
	Icon  string   `json:"icon"`
	Color string   `json:"color"`
	Items []string `json:"items"`
}

// Clone returns a copy of t that shares no slices with it.
func (t QuickTemplate) Clone() QuickTemplate {
	if t.Items != nil {
		t.Items = append([]string(nil), t.Items...)
	}
	return t
}

// View is the closed set of navigation targets.
type View string

const (
	ViewCapture      View = "capture"
	ViewSearch       View = "search"
	ViewBuckets      View = "buckets"
	ViewBucketDetail View = "bucket-detail"
	ViewFolderDetail View = "folder-detail"
	ViewCaptureView  View = "capture-view"
	ViewCaptureEdit  View = "capture-edit"
)

// Views lists every valid View.
var Views = []View{
	ViewCapture, ViewSearch, ViewBuckets, ViewBucketDetail,
	ViewFolderDetail, ViewCaptureView, ViewCaptureEdit,
}

// ParseView returns the View for s, or false if s is not a known view.
func ParseView(s string) (View, bool) {
	for _, v := range Views {
		if string(v) == s {
			return v, true
		}
	}
	return "", false
}
