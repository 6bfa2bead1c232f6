package capture

// Entity names used in export records.
const (
	EntityBucket   = "bucket"
	EntityFolder   = "folder"
	EntityCapture  = "capture"
	EntityTemplate = "template"
)

// ExportRecord is one line of a JSONL export file.
// The header line sets BrainBucketExport; every other line carries exactly one entity.
type ExportRecord struct {
	// Header fields (only present in header line)
	BrainBucketExport bool   `json:"_brainbucket_export,omitempty"`
	SchemaVersion     string `json:"schema_version,omitempty"`
	ExportedAt        int64  `json:"exported_at,omitempty"`

	Entity   string         `json:"entity,omitempty"`
	Bucket   *Bucket        `json:"bucket,omitempty"`
	Folder   *Folder        `json:"folder,omitempty"`
	Capture  *Capture       `json:"capture,omitempty"`
	Template *QuickTemplate `json:"template,omitempty"`
}

// EntityID returns the id of the entity carried by r, or "" for a header or malformed record.
func (r *ExportRecord) EntityID() string {
	switch r.Entity {
	case EntityBucket:
		if r.Bucket != nil {
			return r.Bucket.ID
		}
	case EntityFolder:
		if r.Folder != nil {
			return r.Folder.ID
		}
	case EntityCapture:
		if r.Capture != nil {
			return r.Capture.ID
		}
	case EntityTemplate:
		if r.Template != nil {
			return r.Template.ID
		}
	}
	return ""
}

// BucketRecord wraps b for export. Derived fields are zeroed; the importer recomputes them.
func BucketRecord(b Bucket) ExportRecord {
	b.ItemCount = 0
	b.HasInboxItems = false
	return ExportRecord{Entity: EntityBucket, Bucket: &b}
}

// FolderRecord wraps f for export with its derived count zeroed.
func FolderRecord(f Folder) ExportRecord {
	f.ItemCount = 0
	return ExportRecord{Entity: EntityFolder, Folder: &f}
}

// CaptureRecord wraps c for export.
func CaptureRecord(c Capture) ExportRecord {
	return ExportRecord{Entity: EntityCapture, Capture: &c}
}

// TemplateRecord wraps t for export.
func TemplateRecord(t QuickTemplate) ExportRecord {
	return ExportRecord{Entity: EntityTemplate, Template: &t}
}
