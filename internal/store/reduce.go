package store

import (
	"slices"
	"time"

	"github.com/kmkohl117-gif/brainbucket-android/internal/capture"
)

// Reduce is the only sanctioned way to produce a new state:
// apply the action, then recompute every derived field.
func Reduce(s State, a Action, now time.Time) State {
	return Recompute(Apply(s, a, now))
}

// Apply returns the state that results from a. It never mutates s, never fails,
// and returns s unchanged when a references an id that does not exist.
// now stamps UpdatedAt on toggles and moves.
func Apply(s State, a Action, now time.Time) State {
	switch a := a.(type) {
	case AddCapture:
		if indexOf(s.Captures, a.Capture.ID, captureID) >= 0 {
			return s
		}
		c := reconcileFolder(&s, a.Capture.Clone())
		s.Captures = append([]capture.Capture{c}, s.Captures...)
		return s

	case UpdateCapture:
		i := indexOf(s.Captures, a.Capture.ID, captureID)
		if i < 0 {
			return s
		}
		s.Captures = replaceAt(s.Captures, i, reconcileFolder(&s, a.Capture.Clone()))
		return s

	case DeleteCapture:
		i := indexOf(s.Captures, a.ID, captureID)
		if i < 0 {
			return s
		}
		s.Captures = slices.Delete(slices.Clone(s.Captures), i, i+1)
		if s.ActiveCaptureID == a.ID {
			s.ActiveCaptureID = ""
		}
		return s

	case ToggleStar:
		i := indexOf(s.Captures, a.ID, captureID)
		if i < 0 {
			return s
		}
		c := s.Captures[i]
		c.IsStarred = !c.IsStarred
		c.UpdatedAt = now
		s.Captures = replaceAt(s.Captures, i, c)
		return s

	case ToggleComplete:
		i := indexOf(s.Captures, a.ID, captureID)
		if i < 0 {
			return s
		}
		c := s.Captures[i]
		c.IsCompleted = !c.IsCompleted
		c.UpdatedAt = now
		s.Captures = replaceAt(s.Captures, i, c)
		return s

	case MoveCapture:
		i := indexOf(s.Captures, a.ID, captureID)
		if i < 0 {
			return s
		}
		c := s.Captures[i]
		c.BucketID = a.BucketID
		c.FolderID = a.FolderID
		c.UpdatedAt = now
		s.Captures = replaceAt(s.Captures, i, reconcileFolder(&s, c))
		return s

	case AddBucket:
		if indexOf(s.Buckets, a.Bucket.ID, bucketID) >= 0 {
			return s
		}
		s.Buckets = append(slices.Clone(s.Buckets), a.Bucket)
		return s

	case UpdateBucket:
		i := indexOf(s.Buckets, a.Bucket.ID, bucketID)
		if i < 0 {
			return s
		}
		s.Buckets = replaceAt(s.Buckets, i, a.Bucket)
		return s

	case DeleteBucket:
		if a.ID == capture.UnsortedBucketID {
			return s
		}
		if indexOf(s.Buckets, a.ID, bucketID) < 0 {
			return s
		}
		return deleteBucket(s, a.ID)

	case AddFolder:
		if indexOf(s.Folders, a.Folder.ID, folderID) >= 0 {
			return s
		}
		s.Folders = append(slices.Clone(s.Folders), a.Folder)
		return s

	case UpdateFolder:
		i := indexOf(s.Folders, a.Folder.ID, folderID)
		if i < 0 {
			return s
		}
		f := a.Folder
		f.BucketID = s.Folders[i].BucketID
		s.Folders = replaceAt(s.Folders, i, f)
		return s

	case DeleteFolder:
		i := indexOf(s.Folders, a.ID, folderID)
		if i < 0 {
			return s
		}
		s.Folders = slices.Delete(slices.Clone(s.Folders), i, i+1)
		s.Captures = mapSlice(s.Captures, func(c capture.Capture) capture.Capture {
			if c.FolderID == a.ID {
				c.FolderID = ""
			}
			return c
		})
		if s.ActiveFolderID == a.ID {
			s.ActiveFolderID = ""
		}
		return s

	case ReorderFolders:
		orders := make(map[string]int, len(a.Folders))
		for _, f := range a.Folders {
			orders[f.ID] = f.Order
		}
		s.Folders = mapSlice(s.Folders, func(f capture.Folder) capture.Folder {
			if order, ok := orders[f.ID]; ok && f.BucketID == a.BucketID {
				f.Order = order
			}
			return f
		})
		return s

	case AddTemplate:
		if indexOf(s.Templates, a.Template.ID, templateID) >= 0 {
			return s
		}
		s.Templates = append(slices.Clone(s.Templates), a.Template.Clone())
		return s

	case UpdateTemplate:
		i := indexOf(s.Templates, a.Template.ID, templateID)
		if i < 0 {
			return s
		}
		s.Templates = replaceAt(s.Templates, i, a.Template.Clone())
		return s

	case DeleteTemplate:
		i := indexOf(s.Templates, a.ID, templateID)
		if i < 0 {
			return s
		}
		s.Templates = slices.Delete(slices.Clone(s.Templates), i, i+1)
		return s

	case SetActiveView:
		s.ActiveView = a.View
		return s
	case SetActiveBucket:
		s.ActiveBucketID = a.ID
		return s
	case SetActiveFolder:
		s.ActiveFolderID = a.ID
		return s
	case SetActiveCapture:
		s.ActiveCaptureID = a.ID
		return s
	case SetSearchQuery:
		s.SearchQuery = a.Query
		return s
	}
	return s
}

// deleteBucket removes bucket id and cascades to its folders and captures.
// Navigation pointers that referenced removed entities are cleared.
func deleteBucket(s State, id string) State {
	removedFolders := make(map[string]bool)
	for _, f := range s.Folders {
		if f.BucketID == id {
			removedFolders[f.ID] = true
		}
	}
	removedCaptures := make(map[string]bool)
	for _, c := range s.Captures {
		if c.BucketID == id {
			removedCaptures[c.ID] = true
		}
	}

	s.Buckets = filterSlice(s.Buckets, func(b capture.Bucket) bool { return b.ID != id })
	s.Folders = filterSlice(s.Folders, func(f capture.Folder) bool { return f.BucketID != id })
	s.Captures = filterSlice(s.Captures, func(c capture.Capture) bool { return c.BucketID != id })

	if s.ActiveBucketID == id {
		s.ActiveBucketID = ""
	}
	if removedFolders[s.ActiveFolderID] {
		s.ActiveFolderID = ""
	}
	if removedCaptures[s.ActiveCaptureID] {
		s.ActiveCaptureID = ""
	}
	return s
}

// reconcileFolder clears c.FolderID when it names a folder that is missing
// or belongs to a different bucket than c.
func reconcileFolder(s *State, c capture.Capture) capture.Capture {
	if c.FolderID == "" {
		return c
	}
	f, ok := s.Folder(c.FolderID)
	if !ok || f.BucketID != c.BucketID {
		c.FolderID = ""
	}
	return c
}

// Recompute derives Bucket.ItemCount, Bucket.HasInboxItems and Folder.ItemCount
// from the capture collection. Bucket and folder stats depend only on captures.
func Recompute(s State) State {
	type bucketStats struct {
		count int
		inbox bool
	}
	buckets := make(map[string]bucketStats, len(s.Buckets))
	folders := make(map[string]int, len(s.Folders))

	for i := range s.Captures {
		c := &s.Captures[i]
		st := buckets[c.BucketID]
		st.count++
		if c.InInbox() {
			st.inbox = true
		}
		buckets[c.BucketID] = st
		if c.FolderID != "" {
			folders[c.FolderID]++
		}
	}

	s.Buckets = mapSlice(s.Buckets, func(b capture.Bucket) capture.Bucket {
		st := buckets[b.ID]
		b.ItemCount = st.count
		b.HasInboxItems = st.inbox
		return b
	})
	s.Folders = mapSlice(s.Folders, func(f capture.Folder) capture.Folder {
		f.ItemCount = folders[f.ID]
		return f
	})
	return s
}

func replaceAt[T any](items []T, i int, v T) []T {
	out := slices.Clone(items)
	out[i] = v
	return out
}

// mapSlice returns a new slice with fn applied to each element. nil stays nil.
func mapSlice[T any](items []T, fn func(T) T) []T {
	if items == nil {
		return nil
	}
	out := make([]T, len(items))
	for i, item := range items {
		out[i] = fn(item)
	}
	return out
}

func filterSlice[T any](items []T, keep func(T) bool) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		if keep(item) {
			out = append(out, item)
		}
	}
	return out
}
