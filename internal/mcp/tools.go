package mcp

import "github.com/mark3labs/mcp-go/mcp"

// Shared property descriptions
const (
	descCaptureID = "Capture ID"
	descBucketID  = "Bucket ID (the reserved inbox bucket is \"unsorted\")"
	descFolderID  = "Folder ID; must belong to the bucket"
	descLimit     = "Max items to return (default 50, max 500)"
	descOffset    = "Items to skip for pagination"
	descColor     = "Hex color like #3b82f6"
)

var mediaItemSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"type": map[string]any{"type": "string", "enum": []string{"image", "document", "link"}},
		"url":  map[string]any{"type": "string"},
		"name": map[string]any{"type": "string"},
	},
	"required": []string{"type", "url"},
}

// Capture tools

var captureAddToolDef = mcp.NewTool("capture_add",
	mcp.WithDescription("Record a new capture. It lands in the unsorted inbox unless bucket_id is given."),
	mcp.WithString("text", mcp.Required(), mcp.Description("Capture text")),
	mcp.WithString("type", mcp.Description("Capture type (default task)"), mcp.Enum("task", "idea", "reference")),
	mcp.WithString("bucket_id", mcp.Description(descBucketID)),
	mcp.WithString("folder_id", mcp.Description(descFolderID)),
	mcp.WithString("description", mcp.Description("Longer notes (markdown)")),
	mcp.WithArray("links", mcp.Description("URLs related to the capture"), mcp.WithStringItems()),
	mcp.WithArray("media", mcp.Description("Attachment metadata"), mcp.Items(mediaItemSchema)),
	mcp.WithBoolean("starred", mcp.Description("Star the capture")),
)

var captureGetToolDef = mcp.NewTool("capture_get",
	mcp.WithDescription("Get one capture by ID."),
	mcp.WithString("id", mcp.Required(), mcp.Description(descCaptureID)),
	mcp.WithReadOnlyHintAnnotation(true),
)

var captureUpdateToolDef = mcp.NewTool("capture_update",
	mcp.WithDescription("Edit a capture. Omitted fields are left unchanged. Use capture_move to change bucket or folder."),
	mcp.WithString("id", mcp.Required(), mcp.Description(descCaptureID)),
	mcp.WithString("text", mcp.Description("New text")),
	mcp.WithString("type", mcp.Enum("task", "idea", "reference")),
	mcp.WithString("description", mcp.Description("New description")),
	mcp.WithArray("links", mcp.Description("Replaces all links"), mcp.WithStringItems()),
	mcp.WithArray("media", mcp.Description("Replaces all media"), mcp.Items(mediaItemSchema)),
	mcp.WithBoolean("starred"),
	mcp.WithBoolean("completed"),
)

var captureMoveToolDef = mcp.NewTool("capture_move",
	mcp.WithDescription("Move a capture to another bucket and optionally into one of its folders. Without folder_id the capture goes to the bucket inbox."),
	mcp.WithString("id", mcp.Required(), mcp.Description(descCaptureID)),
	mcp.WithString("bucket_id", mcp.Required(), mcp.Description(descBucketID)),
	mcp.WithString("folder_id", mcp.Description(descFolderID)),
)

var captureStarToolDef = mcp.NewTool("capture_star",
	mcp.WithDescription("Toggle a capture's starred flag."),
	mcp.WithString("id", mcp.Required(), mcp.Description(descCaptureID)),
)

var captureCompleteToolDef = mcp.NewTool("capture_complete",
	mcp.WithDescription("Toggle a capture's completed flag. Completed captures leave the inbox indicator."),
	mcp.WithString("id", mcp.Required(), mcp.Description(descCaptureID)),
)

var captureDeleteToolDef = mcp.NewTool("capture_delete",
	mcp.WithDescription("Delete a capture permanently."),
	mcp.WithString("id", mcp.Required(), mcp.Description(descCaptureID)),
	mcp.WithDestructiveHintAnnotation(true),
)

var captureListToolDef = mcp.NewTool("capture_list",
	mcp.WithDescription("List captures, starred first then most recently updated."),
	mcp.WithString("bucket_id", mcp.Description("Only captures in this bucket")),
	mcp.WithString("folder_id", mcp.Description("Only captures in this folder")),
	mcp.WithBoolean("inbox_only", mcp.Description("Only captures not filed in a folder")),
	mcp.WithString("type", mcp.Enum("task", "idea", "reference")),
	mcp.WithBoolean("starred"),
	mcp.WithBoolean("completed"),
	mcp.WithNumber("limit", mcp.Description(descLimit)),
	mcp.WithNumber("offset", mcp.Description(descOffset)),
	mcp.WithReadOnlyHintAnnotation(true),
)

var captureSearchToolDef = mcp.NewTool("capture_search",
	mcp.WithDescription("Case-insensitive substring search over capture text and description."),
	mcp.WithString("query", mcp.Required(), mcp.Description("Text to look for")),
	mcp.WithString("bucket_id", mcp.Description("Limit the search to one bucket")),
	mcp.WithNumber("limit", mcp.Description(descLimit)),
	mcp.WithNumber("offset", mcp.Description(descOffset)),
)

// Bucket tools

var bucketListToolDef = mcp.NewTool("bucket_list",
	mcp.WithDescription("List all buckets with their item counts and inbox indicator."),
	mcp.WithReadOnlyHintAnnotation(true),
)

var bucketGetToolDef = mcp.NewTool("bucket_get",
	mcp.WithDescription("Get a bucket with its folders and inbox captures."),
	mcp.WithString("id", mcp.Required(), mcp.Description(descBucketID)),
	mcp.WithReadOnlyHintAnnotation(true),
)

var bucketAddToolDef = mcp.NewTool("bucket_add",
	mcp.WithDescription("Create a bucket."),
	mcp.WithString("name", mcp.Required()),
	mcp.WithString("icon", mcp.Description("Icon name")),
	mcp.WithString("color", mcp.Description(descColor)),
)

var bucketUpdateToolDef = mcp.NewTool("bucket_update",
	mcp.WithDescription("Rename or restyle a bucket."),
	mcp.WithString("id", mcp.Required(), mcp.Description(descBucketID)),
	mcp.WithString("name"),
	mcp.WithString("icon"),
	mcp.WithString("color", mcp.Description(descColor)),
)

var bucketDeleteToolDef = mcp.NewTool("bucket_delete",
	mcp.WithDescription("Delete a bucket together with all of its folders and captures. The unsorted bucket cannot be deleted."),
	mcp.WithString("id", mcp.Required(), mcp.Description(descBucketID)),
	mcp.WithDestructiveHintAnnotation(true),
)

// Folder tools

var folderListToolDef = mcp.NewTool("folder_list",
	mcp.WithDescription("List the folders of a bucket in display order."),
	mcp.WithString("bucket_id", mcp.Required(), mcp.Description(descBucketID)),
	mcp.WithReadOnlyHintAnnotation(true),
)

var folderGetToolDef = mcp.NewTool("folder_get",
	mcp.WithDescription("Get a folder with its captures."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Folder ID")),
	mcp.WithReadOnlyHintAnnotation(true),
)

var folderAddToolDef = mcp.NewTool("folder_add",
	mcp.WithDescription("Create a folder at the end of a bucket's folder list."),
	mcp.WithString("bucket_id", mcp.Required(), mcp.Description(descBucketID)),
	mcp.WithString("name", mcp.Required()),
	mcp.WithString("icon"),
	mcp.WithString("color", mcp.Description(descColor)),
)

var folderUpdateToolDef = mcp.NewTool("folder_update",
	mcp.WithDescription("Rename or restyle a folder. Folders cannot change buckets."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Folder ID")),
	mcp.WithString("name"),
	mcp.WithString("icon"),
	mcp.WithString("color", mcp.Description(descColor)),
)

var folderDeleteToolDef = mcp.NewTool("folder_delete",
	mcp.WithDescription("Delete a folder. Its captures stay in the bucket inbox."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Folder ID")),
	mcp.WithDestructiveHintAnnotation(true),
)

var folderReorderToolDef = mcp.NewTool("folder_reorder",
	mcp.WithDescription("Set folder order within a bucket. folder_ids must list every folder of the bucket."),
	mcp.WithString("bucket_id", mcp.Required(), mcp.Description(descBucketID)),
	mcp.WithArray("folder_ids", mcp.Required(), mcp.WithStringItems()),
)

// Template tools

var templateListToolDef = mcp.NewTool("template_list",
	mcp.WithDescription("List quick templates."),
	mcp.WithReadOnlyHintAnnotation(true),
)

var templateAddToolDef = mcp.NewTool("template_add",
	mcp.WithDescription("Create a quick template."),
	mcp.WithString("name", mcp.Required()),
	mcp.WithString("icon"),
	mcp.WithString("color", mcp.Description(descColor)),
	mcp.WithArray("items", mcp.Required(), mcp.Description("Suggested capture texts"), mcp.WithStringItems()),
)

var templateUpdateToolDef = mcp.NewTool("template_update",
	mcp.WithDescription("Edit a quick template. items replaces the whole list."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Template ID")),
	mcp.WithString("name"),
	mcp.WithString("icon"),
	mcp.WithString("color", mcp.Description(descColor)),
	mcp.WithArray("items", mcp.WithStringItems()),
)

var templateDeleteToolDef = mcp.NewTool("template_delete",
	mcp.WithDescription("Delete a quick template."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Template ID")),
	mcp.WithDestructiveHintAnnotation(true),
)

// State tools

var stateNavigateToolDef = mcp.NewTool("state_navigate",
	mcp.WithDescription("Change the active view and selection. Omitted fields are unchanged; an empty string clears."),
	mcp.WithString("view", mcp.Enum("capture", "search", "buckets", "bucket-detail", "folder-detail", "capture-view", "capture-edit")),
	mcp.WithString("bucket_id"),
	mcp.WithString("folder_id"),
	mcp.WithString("capture_id"),
)

var stateExportToolDef = mcp.NewTool("state_export",
	mcp.WithDescription("Export all buckets, folders, captures and templates to a JSONL file."),
	mcp.WithString("path", mcp.Description("Output path (default: <data dir>/exports/brainbucket-<timestamp>.jsonl)")),
)

var stateImportToolDef = mcp.NewTool("state_import",
	mcp.WithDescription("Merge a JSONL export into the current data."),
	mcp.WithString("path", mcp.Required()),
	mcp.WithString("mode", mcp.Description("skip keeps existing ids (default); replace overwrites them"), mcp.Enum("skip", "replace")),
)
