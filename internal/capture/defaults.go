package capture

// UnsortedBucketID is the id of the reserved bucket that always exists.
// Bucket ids must stay stable across launches to keep persisted data resolvable.
const UnsortedBucketID = "unsorted"

// UnsortedBucket returns the reserved default landing bucket.
func UnsortedBucket() Bucket {
	return Bucket{ID: UnsortedBucketID, Name: "Unsorted", Icon: "Inbox", Color: "#6b7280"}
}

// DefaultBuckets returns the reserved bucket followed by the six seed buckets.
func DefaultBuckets() []Bucket {
	return []Bucket{
		UnsortedBucket(),
		{ID: "1", Name: "To-Dos", Icon: "CheckSquare", Color: "#3b82f6"},
		{ID: "2", Name: "Creatives", Icon: "Palette", Color: "#8b5cf6"},
		{ID: "3", Name: "Shopping Lists", Icon: "ShoppingCart", Color: "#06b6d4"},
		{ID: "4", Name: "Ideas & Dreams", Icon: "Lightbulb", Color: "#10b981"},
		{ID: "5", Name: "Vault", Icon: "Lock", Color: "#f59e0b"},
		{ID: "6", Name: "Health", Icon: "Heart", Color: "#ef4444"},
	}
}

// DefaultTemplates returns the seed quick templates.
func DefaultTemplates() []QuickTemplate {
	return []QuickTemplate{
		{
			ID:    "1",
			Name:  "Cleaning Tasks",
			Icon:  "Sparkles",
			Color: "#06b6d4",
			Items: []string{"Vacuum living room", "Clean bathroom", "Do laundry", "Wash dishes", "Take out trash"},
		},
		{
			ID:    "2",
			Name:  "Grocery List",
			Icon:  "ShoppingCart",
			Color: "#10b981",
			Items: []string{"Milk", "Bread", "Eggs", "Fruits", "Vegetables"},
		},
		{
			ID:    "3",
			Name:  "Daily Goals",
			Icon:  "Target",
			Color: "#8b5cf6",
			Items: []string{"Morning exercise", "Read for 30 minutes", "Drink 8 glasses of water", "Meditate"},
		},
	}
}
