package capture

import (
	"math"
	"testing"
	"time"
)

func TestSortForDisplay(t *testing.T) {
	base := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	captures := []Capture{
		{ID: "old", UpdatedAt: base},
		{ID: "starred-old", IsStarred: true, UpdatedAt: base},
		{ID: "new", UpdatedAt: base.Add(time.Hour)},
		{ID: "starred-new", IsStarred: true, UpdatedAt: base.Add(2 * time.Hour)},
	}

	SortForDisplay(captures)

	want := []string{"starred-new", "starred-old", "new", "old"}
	for i, id := range want {
		if captures[i].ID != id {
			t.Errorf("captures[%d] = %q, want %q", i, captures[i].ID, id)
		}
	}
}

func TestSortFolders(t *testing.T) {
	folders := []Folder{{ID: "c", Order: 2}, {ID: "a", Order: 0}, {ID: "b", Order: 1}}
	SortFolders(folders)
	if folders[0].ID != "a" || folders[1].ID != "b" || folders[2].ID != "c" {
		t.Errorf("SortFolders = %v", folders)
	}
}

func TestSortFolders_ExtremeOrders(t *testing.T) {
	folders := []Folder{{ID: "max", Order: math.MaxInt}, {ID: "min", Order: math.MinInt}, {ID: "zero", Order: 0}}
	SortFolders(folders)
	if folders[0].ID != "min" || folders[1].ID != "zero" || folders[2].ID != "max" {
		t.Errorf("SortFolders = %v", folders)
	}
}

func TestNextFolderOrder(t *testing.T) {
	folders := []Folder{
		{ID: "f1", BucketID: "1", Order: 0},
		{ID: "f2", BucketID: "1", Order: 4},
		{ID: "f3", BucketID: "2", Order: 9},
	}

	tests := []struct {
		bucket string
		want   int
	}{
		{"1", 5},
		{"2", 10},
		{"3", 0},
	}
	for _, tt := range tests {
		if got := NextFolderOrder(folders, tt.bucket); got != tt.want {
			t.Errorf("NextFolderOrder(%q) = %d, want %d", tt.bucket, got, tt.want)
		}
	}
}

func TestRelativeTime(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		t    time.Time
		want string
	}{
		{"seconds", now.Add(-30 * time.Second), "just now"},
		{"minutes", now.Add(-3 * time.Minute), "3 minutes ago"},
		{"hours", now.Add(-2 * time.Hour), "2 hours ago"},
		{"old", time.Date(2025, 1, 2, 8, 0, 0, 0, time.UTC), "2025-01-02"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RelativeTime(tt.t, now); got != tt.want {
				t.Errorf("RelativeTime = %q, want %q", got, tt.want)
			}
		})
	}
}
