package mcp

import (
	"context"
	"encoding/json"
	stderrors "errors"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/kmkohl117-gif/brainbucket-android/internal/config"
	"github.com/kmkohl117-gif/brainbucket-android/internal/errors"
	"github.com/kmkohl117-gif/brainbucket-android/internal/ops"
	"github.com/kmkohl117-gif/brainbucket-android/internal/store"
)

// Handlers holds dependencies for MCP tool handlers.
type Handlers struct {
	st      *store.Store
	cfg     *config.Config
	dataDir string
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(st *store.Store, cfg *config.Config, dataDir string) *Handlers {
	return &Handlers{st: st, cfg: cfg, dataDir: dataDir}
}

// Request types for each tool

// IDRequest is the argument shape of every tool that takes only an id.
type IDRequest struct {
	ID string `json:"id"`
}

// CaptureAddRequest represents the arguments for capture_add.
type CaptureAddRequest struct {
	Text        string           `json:"text"`
	Type        string           `json:"type,omitempty"`
	BucketID    string           `json:"bucket_id,omitempty"`
	FolderID    string           `json:"folder_id,omitempty"`
	Description string           `json:"description,omitempty"`
	Links       []string         `json:"links,omitempty"`
	Media       []ops.MediaInput `json:"media,omitempty"`
	Starred     bool             `json:"starred,omitempty"`
}

// CaptureUpdateRequest represents the arguments for capture_update.
type CaptureUpdateRequest struct {
	ID          string            `json:"id"`
	Text        *string           `json:"text,omitempty"`
	Type        *string           `json:"type,omitempty"`
	Description *string           `json:"description,omitempty"`
	Links       *[]string         `json:"links,omitempty"`
	Media       *[]ops.MediaInput `json:"media,omitempty"`
	Starred     *bool             `json:"starred,omitempty"`
	Completed   *bool             `json:"completed,omitempty"`
}

// CaptureMoveRequest represents the arguments for capture_move.
type CaptureMoveRequest struct {
	ID       string `json:"id"`
	BucketID string `json:"bucket_id"`
	FolderID string `json:"folder_id,omitempty"`
}

// CaptureListRequest represents the arguments for capture_list.
type CaptureListRequest struct {
	BucketID  string `json:"bucket_id,omitempty"`
	FolderID  string `json:"folder_id,omitempty"`
	InboxOnly bool   `json:"inbox_only,omitempty"`
	Type      string `json:"type,omitempty"`
	Starred   *bool  `json:"starred,omitempty"`
	Completed *bool  `json:"completed,omitempty"`
	Limit     int    `json:"limit,omitempty"`
	Offset    int    `json:"offset,omitempty"`
}

// CaptureSearchRequest represents the arguments for capture_search.
type CaptureSearchRequest struct {
	Query    string `json:"query"`
	BucketID string `json:"bucket_id,omitempty"`
	Limit    int    `json:"limit,omitempty"`
	Offset   int    `json:"offset,omitempty"`
}

// StyleRequest covers the add/update arguments shared by buckets and folders.
type StyleRequest struct {
	ID       string  `json:"id,omitempty"`
	BucketID string  `json:"bucket_id,omitempty"`
	Name     *string `json:"name,omitempty"`
	Icon     *string `json:"icon,omitempty"`
	Color    *string `json:"color,omitempty"`
}

// FolderListRequest represents the arguments for folder_list.
type FolderListRequest struct {
	BucketID string `json:"bucket_id"`
}

// FolderReorderRequest represents the arguments for folder_reorder.
type FolderReorderRequest struct {
	BucketID  string   `json:"bucket_id"`
	FolderIDs []string `json:"folder_ids"`
}

// TemplateRequest represents the arguments for template_add and template_update.
type TemplateRequest struct {
	ID    string    `json:"id,omitempty"`
	Name  *string   `json:"name,omitempty"`
	Icon  *string   `json:"icon,omitempty"`
	Color *string   `json:"color,omitempty"`
	Items *[]string `json:"items,omitempty"`
}

// NavigateRequest represents the arguments for state_navigate.
type NavigateRequest struct {
	View      string  `json:"view,omitempty"`
	BucketID  *string `json:"bucket_id,omitempty"`
	FolderID  *string `json:"folder_id,omitempty"`
	CaptureID *string `json:"capture_id,omitempty"`
}

// ExportRequest represents the arguments for state_export.
type ExportRequest struct {
	Path string `json:"path,omitempty"`
}

// ImportRequest represents the arguments for state_import.
type ImportRequest struct {
	Path string `json:"path"`
	Mode string `json:"mode,omitempty"`
}

// Capture handlers

// HandleCaptureAdd handles the capture_add tool call.
func (h *Handlers) HandleCaptureAdd(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[CaptureAddRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	return respond(ops.AddCapture(ctx, h.st, h.cfg, ops.AddCaptureInput{
		Text:        input.Text,
		Type:        input.Type,
		BucketID:    input.BucketID,
		FolderID:    input.FolderID,
		Description: input.Description,
		Links:       input.Links,
		Media:       input.Media,
		Starred:     input.Starred,
	}))
}

// HandleCaptureGet handles the capture_get tool call.
func (h *Handlers) HandleCaptureGet(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[IDRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}
	return respond(ops.GetCapture(ctx, h.st, input.ID))
}

// HandleCaptureUpdate handles the capture_update tool call.
func (h *Handlers) HandleCaptureUpdate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[CaptureUpdateRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	return respond(ops.UpdateCapture(ctx, h.st, h.cfg, ops.UpdateCaptureInput{
		ID:          input.ID,
		Text:        input.Text,
		Type:        input.Type,
		Description: input.Description,
		Links:       input.Links,
		Media:       input.Media,
		Starred:     input.Starred,
		Completed:   input.Completed,
	}))
}

// HandleCaptureMove handles the capture_move tool call.
func (h *Handlers) HandleCaptureMove(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[CaptureMoveRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}
	return respond(ops.MoveCapture(ctx, h.st, ops.MoveCaptureInput{
		ID:       input.ID,
		BucketID: input.BucketID,
		FolderID: input.FolderID,
	}))
}

// HandleCaptureStar handles the capture_star tool call.
func (h *Handlers) HandleCaptureStar(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[IDRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}
	return respond(ops.ToggleStar(ctx, h.st, input.ID))
}

// HandleCaptureComplete handles the capture_complete tool call.
func (h *Handlers) HandleCaptureComplete(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[IDRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}
	return respond(ops.ToggleComplete(ctx, h.st, input.ID))
}

// HandleCaptureDelete handles the capture_delete tool call.
func (h *Handlers) HandleCaptureDelete(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[IDRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}
	return respond(ops.DeleteCapture(ctx, h.st, input.ID))
}

// HandleCaptureList handles the capture_list tool call.
func (h *Handlers) HandleCaptureList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[CaptureListRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}
	return respond(ops.ListCaptures(ctx, h.st, ops.ListCapturesInput{
		BucketID:  input.BucketID,
		FolderID:  input.FolderID,
		InboxOnly: input.InboxOnly,
		Type:      input.Type,
		Starred:   input.Starred,
		Completed: input.Completed,
		Limit:     input.Limit,
		Offset:    input.Offset,
	}))
}

// HandleCaptureSearch handles the capture_search tool call.
func (h *Handlers) HandleCaptureSearch(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[CaptureSearchRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}
	return respond(ops.Search(ctx, h.st, ops.SearchInput{
		Query:    input.Query,
		BucketID: input.BucketID,
		Limit:    input.Limit,
		Offset:   input.Offset,
	}))
}

// Bucket handlers

// HandleBucketList handles the bucket_list tool call.
func (h *Handlers) HandleBucketList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return respond(ops.ListBuckets(ctx, h.st))
}

// HandleBucketGet handles the bucket_get tool call.
func (h *Handlers) HandleBucketGet(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[IDRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}
	return respond(ops.GetBucket(ctx, h.st, input.ID))
}

// HandleBucketAdd handles the bucket_add tool call.
func (h *Handlers) HandleBucketAdd(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[StyleRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}
	return respond(ops.AddBucket(ctx, h.st, ops.AddBucketInput{
		Name:  deref(input.Name),
		Icon:  deref(input.Icon),
		Color: deref(input.Color),
	}))
}

// HandleBucketUpdate handles the bucket_update tool call.
func (h *Handlers) HandleBucketUpdate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[StyleRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}
	return respond(ops.UpdateBucket(ctx, h.st, ops.UpdateBucketInput{
		ID:    input.ID,
		Name:  input.Name,
		Icon:  input.Icon,
		Color: input.Color,
	}))
}

// HandleBucketDelete handles the bucket_delete tool call.
func (h *Handlers) HandleBucketDelete(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[IDRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}
	return respond(ops.DeleteBucket(ctx, h.st, input.ID))
}

// Folder handlers

// HandleFolderList handles the folder_list tool call.
func (h *Handlers) HandleFolderList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[FolderListRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}
	return respond(ops.ListFolders(ctx, h.st, input.BucketID))
}

// HandleFolderGet handles the folder_get tool call.
func (h *Handlers) HandleFolderGet(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[IDRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}
	return respond(ops.GetFolder(ctx, h.st, input.ID))
}

// HandleFolderAdd handles the folder_add tool call.
func (h *Handlers) HandleFolderAdd(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[StyleRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}
	return respond(ops.AddFolder(ctx, h.st, ops.AddFolderInput{
		BucketID: input.BucketID,
		Name:     deref(input.Name),
		Icon:     deref(input.Icon),
		Color:    deref(input.Color),
	}))
}

// HandleFolderUpdate handles the folder_update tool call.
func (h *Handlers) HandleFolderUpdate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[StyleRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}
	return respond(ops.UpdateFolder(ctx, h.st, ops.UpdateFolderInput{
		ID:    input.ID,
		Name:  input.Name,
		Icon:  input.Icon,
		Color: input.Color,
	}))
}

// HandleFolderDelete handles the folder_delete tool call.
func (h *Handlers) HandleFolderDelete(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[IDRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}
	return respond(ops.DeleteFolder(ctx, h.st, input.ID))
}

// HandleFolderReorder handles the folder_reorder tool call.
func (h *Handlers) HandleFolderReorder(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[FolderReorderRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}
	return respond(ops.ReorderFolders(ctx, h.st, ops.ReorderFoldersInput{
		BucketID:  input.BucketID,
		FolderIDs: input.FolderIDs,
	}))
}

// Template handlers

// HandleTemplateList handles the template_list tool call.
func (h *Handlers) HandleTemplateList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return respond(ops.ListTemplates(ctx, h.st))
}

// HandleTemplateAdd handles the template_add tool call.
func (h *Handlers) HandleTemplateAdd(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[TemplateRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}
	var items []string
	if input.Items != nil {
		items = *input.Items
	}
	return respond(ops.AddTemplate(ctx, h.st, ops.AddTemplateInput{
		Name:  deref(input.Name),
		Icon:  deref(input.Icon),
		Color: deref(input.Color),
		Items: items,
	}))
}

// HandleTemplateUpdate handles the template_update tool call.
func (h *Handlers) HandleTemplateUpdate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[TemplateRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}
	return respond(ops.UpdateTemplate(ctx, h.st, ops.UpdateTemplateInput{
		ID:    input.ID,
		Name:  input.Name,
		Icon:  input.Icon,
		Color: input.Color,
		Items: input.Items,
	}))
}

// HandleTemplateDelete handles the template_delete tool call.
func (h *Handlers) HandleTemplateDelete(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[IDRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}
	return respond(ops.DeleteTemplate(ctx, h.st, input.ID))
}

// State handlers

// HandleStateNavigate handles the state_navigate tool call.
// With no arguments it reports the current navigation.
func (h *Handlers) HandleStateNavigate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[NavigateRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}
	return respond(ops.Navigate(ctx, h.st, ops.NavigateInput{
		View:      input.View,
		BucketID:  input.BucketID,
		FolderID:  input.FolderID,
		CaptureID: input.CaptureID,
	}))
}

// HandleStateExport handles the state_export tool call.
func (h *Handlers) HandleStateExport(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ExportRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}
	return respond(ops.Export(ctx, h.st, h.cfg, h.dataDir, ops.ExportInput{Path: input.Path}))
}

// HandleStateImport handles the state_import tool call.
func (h *Handlers) HandleStateImport(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ImportRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}
	return respond(ops.Import(ctx, h.st, h.cfg, h.dataDir, ops.ImportInput{
		Path: input.Path,
		Mode: ops.ImportMode(input.Mode),
	}))
}

// Result helpers

// respond turns an ops result into a tool result.
func respond(result any, err error) (*mcp.CallToolResult, error) {
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// errorResult creates an MCP error result from any error.
// Uses IsError: true so MCP clients recognize failures properly.
// Internal error details are never exposed.
func errorResult(err error) *mcp.CallToolResult {
	var payload map[string]any

	var appErr *errors.AppError
	if stderrors.As(err, &appErr) {
		errorObj := map[string]any{
			"code":    appErr.Code,
			"message": appErr.Message,
			"status":  appErr.Status,
		}
		if appErr.Code != errors.ErrInternal && appErr.Details != nil {
			errorObj["details"] = appErr.Details
		}
		payload = map[string]any{"error": errorObj}
	} else {
		payload = map[string]any{
			"error": map[string]any{
				"code":    "INTERNAL",
				"message": "an internal error occurred",
				"status":  500,
			},
		}
	}

	content, _ := json.Marshal(payload)
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.TextContent{Type: "text", Text: string(content)}},
		IsError: true,
	}
}

// successResult creates an MCP success result from any data.
func successResult(data any) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultJSON(data)
}
