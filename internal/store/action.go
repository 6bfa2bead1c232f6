package store

import "github.com/kmkohl117-gif/brainbucket-android/internal/capture"

// ActionType is the stable name of an action variant, used in logs and tool output.
type ActionType string

const (
	TypeAddCapture       ActionType = "add_capture"
	TypeUpdateCapture    ActionType = "update_capture"
	TypeDeleteCapture    ActionType = "delete_capture"
	TypeToggleStar       ActionType = "toggle_star"
	TypeToggleComplete   ActionType = "toggle_complete"
	TypeMoveCapture      ActionType = "move_capture"
	TypeAddBucket        ActionType = "add_bucket"
	TypeUpdateBucket     ActionType = "update_bucket"
	TypeDeleteBucket     ActionType = "delete_bucket"
	TypeAddFolder        ActionType = "add_folder"
	TypeUpdateFolder     ActionType = "update_folder"
	TypeDeleteFolder     ActionType = "delete_folder"
	TypeReorderFolders   ActionType = "reorder_folders"
	TypeAddTemplate      ActionType = "add_template"
	TypeUpdateTemplate   ActionType = "update_template"
	TypeDeleteTemplate   ActionType = "delete_template"
	TypeSetActiveView    ActionType = "set_active_view"
	TypeSetActiveBucket  ActionType = "set_active_bucket"
	TypeSetActiveFolder  ActionType = "set_active_folder"
	TypeSetActiveCapture ActionType = "set_active_capture"
	TypeSetSearchQuery   ActionType = "set_search_query"
)

// Action is the closed set of state transitions. Only types in this package
// can implement it; Apply switches over every variant.
type Action interface {
	Type() ActionType
	action()
}

// AddCapture inserts Capture at the head of the collection.
type AddCapture struct{ Capture capture.Capture }

// UpdateCapture replaces the capture with the same id.
type UpdateCapture struct{ Capture capture.Capture }

// DeleteCapture removes the capture with ID.
type DeleteCapture struct{ ID string }

// ToggleStar flips IsStarred on the capture with ID.
type ToggleStar struct{ ID string }

// ToggleComplete flips IsCompleted on the capture with ID.
type ToggleComplete struct{ ID string }

// MoveCapture reassigns a capture's bucket and folder. An empty FolderID sends it to the bucket inbox.
type MoveCapture struct {
	ID       string
	BucketID string
	FolderID string
}

// AddBucket appends Bucket.
type AddBucket struct{ Bucket capture.Bucket }

// UpdateBucket replaces the bucket with the same id.
type UpdateBucket struct{ Bucket capture.Bucket }

// DeleteBucket removes a bucket together with its folders and captures.
type DeleteBucket struct{ ID string }

// AddFolder appends Folder.
type AddFolder struct{ Folder capture.Folder }

// UpdateFolder replaces the folder with the same id. The folder keeps its bucket.
type UpdateFolder struct{ Folder capture.Folder }

// DeleteFolder removes a folder and sends its captures back to the bucket inbox.
type DeleteFolder struct{ ID string }

// ReorderFolders copies Order from Folders onto the matching folders of BucketID.
type ReorderFolders struct {
	BucketID string
	Folders  []capture.Folder
}

// AddTemplate appends Template.
type AddTemplate struct{ Template capture.QuickTemplate }

// UpdateTemplate replaces the template with the same id.
type UpdateTemplate struct{ Template capture.QuickTemplate }

// DeleteTemplate removes the template with ID.
type DeleteTemplate struct{ ID string }

// SetActiveView sets the navigation view.
type SetActiveView struct{ View capture.View }

// SetActiveBucket sets the active bucket pointer. Empty clears it.
type SetActiveBucket struct{ ID string }

// SetActiveFolder sets the active folder pointer. Empty clears it.
type SetActiveFolder struct{ ID string }

// SetActiveCapture sets the active capture pointer. Empty clears it.
type SetActiveCapture struct{ ID string }

// SetSearchQuery sets the search box contents.
type SetSearchQuery struct{ Query string }

func (AddCapture) Type() ActionType       { return TypeAddCapture }
func (UpdateCapture) Type() ActionType    { return TypeUpdateCapture }
func (DeleteCapture) Type() ActionType    { return TypeDeleteCapture }
func (ToggleStar) Type() ActionType       { return TypeToggleStar }
func (ToggleComplete) Type() ActionType   { return TypeToggleComplete }
func (MoveCapture) Type() ActionType      { return TypeMoveCapture }
func (AddBucket) Type() ActionType        { return TypeAddBucket }
func (UpdateBucket) Type() ActionType     { return TypeUpdateBucket }
func (DeleteBucket) Type() ActionType     { return TypeDeleteBucket }
func (AddFolder) Type() ActionType        { return TypeAddFolder }
func (UpdateFolder) Type() ActionType     { return TypeUpdateFolder }
func (DeleteFolder) Type() ActionType     { return TypeDeleteFolder }
func (ReorderFolders) Type() ActionType   { return TypeReorderFolders }
func (AddTemplate) Type() ActionType      { return TypeAddTemplate }
func (UpdateTemplate) Type() ActionType   { return TypeUpdateTemplate }
func (DeleteTemplate) Type() ActionType   { return TypeDeleteTemplate }
func (SetActiveView) Type() ActionType    { return TypeSetActiveView }
func (SetActiveBucket) Type() ActionType  { return TypeSetActiveBucket }
func (SetActiveFolder) Type() ActionType  { return TypeSetActiveFolder }
func (SetActiveCapture) Type() ActionType { return TypeSetActiveCapture }
func (SetSearchQuery) Type() ActionType   { return TypeSetSearchQuery }

func (AddCapture) action()       {}
func (UpdateCapture) action()    {}
func (DeleteCapture) action()    {}
func (ToggleStar) action()       {}
func (ToggleComplete) action()   {}
func (MoveCapture) action()      {}
func (AddBucket) action()        {}
func (UpdateBucket) action()     {}
func (DeleteBucket) action()     {}
func (AddFolder) action()        {}
func (UpdateFolder) action()     {}
func (DeleteFolder) action()     {}
func (ReorderFolders) action()   {}
func (AddTemplate) action()      {}
func (UpdateTemplate) action()   {}
func (DeleteTemplate) action()   {}
func (SetActiveView) action()    {}
func (SetActiveBucket) action()  {}
func (SetActiveFolder) action()  {}
func (SetActiveCapture) action() {}
func (SetSearchQuery) action()   {}
