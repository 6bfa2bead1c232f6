package capture

import (
	"cmp"
	"slices"
	"time"

	"github.com/dustin/go-humanize"
)

// SortForDisplay orders captures starred first, then most recently updated.
// The sort is stable so equal captures keep their collection order (newest-first).
func SortForDisplay(captures []Capture) {
	slices.SortStableFunc(captures, func(a, b Capture) int {
		if a.IsStarred != b.IsStarred {
			if a.IsStarred {
				return -1
			}
			return 1
		}
		return b.UpdatedAt.Compare(a.UpdatedAt)
	})
}

// SortFolders orders folders by their Order field.
func SortFolders(folders []Folder) {
	slices.SortStableFunc(folders, func(a, b Folder) int {
		return cmp.Compare(a.Order, b.Order)
	})
}

// NextFolderOrder returns the order value for a new folder in bucketID:
// max(existing order)+1, or 0 when the bucket has no folders yet.
func NextFolderOrder(folders []Folder, bucketID string) int {
	maxOrder := -1
	found := false
	for _, f := range folders {
		if f.BucketID != bucketID {
			continue
		}
		if !found || f.Order > maxOrder {
			maxOrder = f.Order
			found = true
		}
	}
	return maxOrder + 1
}

// RelativeTime renders t relative to now the way capture lists show it:
// "just now" under a minute, "3 minutes ago" within a week, a date after that.
func RelativeTime(t, now time.Time) string {
	d := now.Sub(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < 7*24*time.Hour:
		return humanize.RelTime(t, now, "ago", "from now")
	default:
		return t.Format("2006-01-02")
	}
}
