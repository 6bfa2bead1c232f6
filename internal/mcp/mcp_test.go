package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/require"

	"github.com/kmkohl117-gif/brainbucket-android/internal/config"
	"github.com/kmkohl117-gif/brainbucket-android/internal/errors"
	"github.com/kmkohl117-gif/brainbucket-android/internal/ops"
	"github.com/kmkohl117-gif/brainbucket-android/internal/store"
)

// testSetup creates an in-memory store, default config and a data dir.
func testSetup(t *testing.T) (*Handlers, *store.Store, *config.Config) {
	t.Helper()

	st, err := store.New(context.Background(), store.Options{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close(context.Background()) })

	dataDir := t.TempDir()
	require.NoError(t, os.MkdirAll(ops.ExportsDir(dataDir), 0700))

	cfg := config.DefaultConfig()
	return NewHandlers(st, cfg, dataDir), st, cfg
}

// makeRequest creates a CallToolRequest with the given arguments.
func makeRequest(args map[string]any) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Arguments: args,
		},
	}
}

type handlerFunc func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error)

// call invokes a handler and fails the test on a transport-level error.
func call(t *testing.T, fn handlerFunc, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	result, err := fn(context.Background(), makeRequest(args))
	require.NoError(t, err)
	require.NotNil(t, result)
	return result
}

func TestHandleCaptureAdd(t *testing.T) {
	h, _, _ := testSetup(t)

	tests := []struct {
		name      string
		args      map[string]any
		errorCode string
	}{
		{
			name: "minimal",
			args: map[string]any{"text": "buy milk"},
		},
		{
			name: "all fields",
			args: map[string]any{
				"text":        "plan trip",
				"type":        "idea",
				"bucket_id":   "4",
				"description": "somewhere warm",
				"links":       []any{"https://example.com"},
				"media":       []any{map[string]any{"type": "link", "url": "https://example.com/a"}},
				"starred":     true,
			},
		},
		{
			name:      "missing text",
			args:      map[string]any{"type": "idea"},
			errorCode: "INVALID_REQUEST",
		},
		{
			name:      "unknown bucket",
			args:      map[string]any{"text": "x", "bucket_id": "nope"},
			errorCode: "NOT_FOUND",
		},
		{
			name:      "wrong argument type",
			args:      map[string]any{"text": 42},
			errorCode: "INVALID_REQUEST",
		},
		{
			name:      "too long",
			args:      map[string]any{"text": strings.Repeat("a", 501)},
			errorCode: "TEXT_TOO_LONG",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := call(t, h.HandleCaptureAdd, tt.args)
			if tt.errorCode != "" {
				require.True(t, result.IsError)
				assertErrorCode(t, result, tt.errorCode)
				return
			}
			out := parseOutput(t, result)
			require.NotEmpty(t, out["id"])
			require.Equal(t, tt.args["text"], out["text"])
		})
	}
}

func TestHandleCaptureLifecycle(t *testing.T) {
	h, st, _ := testSetup(t)

	folder := parseOutput(t, call(t, h.HandleFolderAdd, map[string]any{"bucket_id": "1", "name": "Errands"}))
	folderID := folder["id"].(string)

	added := parseOutput(t, call(t, h.HandleCaptureAdd, map[string]any{"text": "draft"}))
	id := added["id"].(string)
	require.Equal(t, "unsorted", added["bucketId"])

	updated := parseOutput(t, call(t, h.HandleCaptureUpdate, map[string]any{"id": id, "text": "final", "type": "reference"}))
	require.Equal(t, "final", updated["text"])
	require.Equal(t, "reference", updated["type"])

	moved := parseOutput(t, call(t, h.HandleCaptureMove, map[string]any{"id": id, "bucket_id": "1", "folder_id": folderID}))
	require.Equal(t, folderID, moved["folderId"])

	starred := parseOutput(t, call(t, h.HandleCaptureStar, map[string]any{"id": id}))
	require.Equal(t, true, starred["isStarred"])

	completed := parseOutput(t, call(t, h.HandleCaptureComplete, map[string]any{"id": id}))
	require.Equal(t, true, completed["isCompleted"])

	got := parseOutput(t, call(t, h.HandleCaptureGet, map[string]any{"id": id}))
	require.Equal(t, "final", got["text"])

	s := st.State()
	f, _ := s.Folder(folderID)
	require.Equal(t, 1, f.ItemCount)

	deleted := parseOutput(t, call(t, h.HandleCaptureDelete, map[string]any{"id": id}))
	require.Equal(t, true, deleted["deleted"])

	result := call(t, h.HandleCaptureGet, map[string]any{"id": id})
	require.True(t, result.IsError)
	assertErrorCode(t, result, "NOT_FOUND")
}

func TestHandleCaptureListAndSearch(t *testing.T) {
	h, _, _ := testSetup(t)

	for i := range 3 {
		call(t, h.HandleCaptureAdd, map[string]any{"text": fmt.Sprintf("note %d", i), "bucket_id": "1"})
	}
	call(t, h.HandleCaptureAdd, map[string]any{"text": "groceries", "bucket_id": "3"})

	out := parseOutput(t, call(t, h.HandleCaptureList, map[string]any{"bucket_id": "1", "limit": 2}))
	require.Len(t, out["items"], 2)
	page := out["pagination"].(map[string]any)
	require.Equal(t, true, page["has_more"])
	require.Equal(t, float64(3), page["total"])

	out = parseOutput(t, call(t, h.HandleCaptureSearch, map[string]any{"query": "GROCER"}))
	require.Len(t, out["items"], 1)

	result := call(t, h.HandleCaptureSearch, map[string]any{})
	require.True(t, result.IsError)
	assertErrorCode(t, result, "INVALID_REQUEST")
}

func TestHandleBuckets(t *testing.T) {
	h, _, _ := testSetup(t)

	list := parseOutput(t, call(t, h.HandleBucketList, nil))
	require.Len(t, list["items"], 7)

	added := parseOutput(t, call(t, h.HandleBucketAdd, map[string]any{"name": "Work", "color": "#123456"}))
	id := added["id"].(string)
	require.Equal(t, "#123456", added["color"])

	updated := parseOutput(t, call(t, h.HandleBucketUpdate, map[string]any{"id": id, "name": "Office"}))
	require.Equal(t, "Office", updated["name"])

	call(t, h.HandleCaptureAdd, map[string]any{"text": "x", "bucket_id": id})
	detail := parseOutput(t, call(t, h.HandleBucketGet, map[string]any{"id": id}))
	require.Len(t, detail["inbox"], 1)

	deleted := parseOutput(t, call(t, h.HandleBucketDelete, map[string]any{"id": id}))
	require.Equal(t, float64(1), deleted["captures_deleted"])

	result := call(t, h.HandleBucketDelete, map[string]any{"id": "unsorted"})
	require.True(t, result.IsError)
	assertErrorCode(t, result, "INVALID_REQUEST")

	result = call(t, h.HandleBucketAdd, map[string]any{"name": "x", "color": "blue"})
	require.True(t, result.IsError)
	assertErrorCode(t, result, "INVALID_REQUEST")
}

func TestHandleFolders(t *testing.T) {
	h, _, _ := testSetup(t)

	a := parseOutput(t, call(t, h.HandleFolderAdd, map[string]any{"bucket_id": "2", "name": "A"}))["id"].(string)
	b := parseOutput(t, call(t, h.HandleFolderAdd, map[string]any{"bucket_id": "2", "name": "B"}))["id"].(string)

	reordered := parseOutput(t, call(t, h.HandleFolderReorder, map[string]any{"bucket_id": "2", "folder_ids": []any{b, a}}))
	items := reordered["items"].([]any)
	require.Equal(t, b, items[0].(map[string]any)["id"])

	list := parseOutput(t, call(t, h.HandleFolderList, map[string]any{"bucket_id": "2"}))
	require.Len(t, list["items"], 2)

	renamed := parseOutput(t, call(t, h.HandleFolderUpdate, map[string]any{"id": a, "name": "Alpha"}))
	require.Equal(t, "Alpha", renamed["name"])

	call(t, h.HandleCaptureAdd, map[string]any{"text": "x", "bucket_id": "2", "folder_id": a})
	detail := parseOutput(t, call(t, h.HandleFolderGet, map[string]any{"id": a}))
	require.Len(t, detail["captures"], 1)

	deleted := parseOutput(t, call(t, h.HandleFolderDelete, map[string]any{"id": a}))
	require.Equal(t, float64(1), deleted["captures_unfiled"])

	result := call(t, h.HandleFolderReorder, map[string]any{"bucket_id": "2", "folder_ids": []any{}})
	require.True(t, result.IsError)
	assertErrorCode(t, result, "INVALID_REQUEST")
}

func TestHandleTemplates(t *testing.T) {
	h, _, _ := testSetup(t)

	list := parseOutput(t, call(t, h.HandleTemplateList, nil))
	require.Len(t, list["items"], 3)

	added := parseOutput(t, call(t, h.HandleTemplateAdd, map[string]any{"name": "Packing", "items": []any{"socks", " "}}))
	id := added["id"].(string)
	require.Equal(t, []any{"socks"}, added["items"])

	updated := parseOutput(t, call(t, h.HandleTemplateUpdate, map[string]any{"id": id, "items": []any{"socks", "charger"}}))
	require.Len(t, updated["items"], 2)

	parseOutput(t, call(t, h.HandleTemplateDelete, map[string]any{"id": id}))

	result := call(t, h.HandleTemplateAdd, map[string]any{"name": "Empty"})
	require.True(t, result.IsError)
	assertErrorCode(t, result, "INVALID_REQUEST")
}

func TestHandleStateNavigate(t *testing.T) {
	h, st, _ := testSetup(t)

	out := parseOutput(t, call(t, h.HandleStateNavigate, map[string]any{"view": "bucket-detail", "bucket_id": "1"}))
	require.Equal(t, "bucket-detail", out["view"])
	require.Equal(t, "1", st.State().ActiveBucketID)

	out = parseOutput(t, call(t, h.HandleStateNavigate, nil))
	require.Equal(t, "bucket-detail", out["view"])

	result := call(t, h.HandleStateNavigate, map[string]any{"view": "nowhere"})
	require.True(t, result.IsError)
	assertErrorCode(t, result, "INVALID_REQUEST")
}

func TestHandleExportImport(t *testing.T) {
	h, _, cfg := testSetup(t)
	call(t, h.HandleCaptureAdd, map[string]any{"text": "keep me", "bucket_id": "5"})

	exported := parseOutput(t, call(t, h.HandleStateExport, nil))
	path := exported["path"].(string)
	require.FileExists(t, path)
	require.Equal(t, filepath.Join(h.dataDir, "exports"), filepath.Dir(path))

	other, err := store.New(context.Background(), store.Options{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = other.Close(context.Background()) })
	h2 := NewHandlers(other, cfg, h.dataDir)

	imported := parseOutput(t, call(t, h2.HandleStateImport, map[string]any{"path": path}))
	require.Equal(t, float64(1), imported["imported"])

	list := parseOutput(t, call(t, h2.HandleCaptureList, nil))
	require.Len(t, list["items"], 1)

	result := call(t, h2.HandleStateImport, map[string]any{"path": filepath.Join(t.TempDir(), "x.jsonl")})
	require.True(t, result.IsError)
	assertErrorCode(t, result, "INVALID_REQUEST")
}

func TestHandle_CancelledContext(t *testing.T) {
	h, _, _ := testSetup(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := h.HandleBucketList(ctx, makeRequest(nil))
	require.NoError(t, err)
	require.True(t, result.IsError)
	assertErrorCode(t, result, "CANCELLED")
}

func TestServerRegistration(t *testing.T) {
	h, st, cfg := testSetup(t)

	s := NewServer(st, cfg, h.dataDir, "test")
	tools := s.ListTools()
	require.Len(t, tools, len(toolRegistry))

	for name := range toolRegistry {
		_, ok := tools[name]
		require.True(t, ok, "missing registered tool: %s", name)
	}
}

func TestServerRegistration_WithDisabledTools(t *testing.T) {
	h, st, cfg := testSetup(t)

	cfg.DisabledTools = []string{"bucket_delete", "capture_delete", "capture_delete"}
	tools := NewServer(st, cfg, h.dataDir, "test").ListTools()

	require.Len(t, tools, len(toolRegistry)-2)
	_, ok := tools["bucket_delete"]
	require.False(t, ok)
	_, ok = tools["capture_add"]
	require.True(t, ok)
}

func TestServerRegistration_WithDisabledTypes(t *testing.T) {
	h, st, cfg := testSetup(t)

	cfg.DisabledTypes = []string{"template", "state"}
	tools := NewServer(st, cfg, h.dataDir, "test").ListTools()

	for name := range tools {
		typ := GetTypeForTool(name)
		require.NotEqual(t, "template", typ)
		require.NotEqual(t, "state", typ)
	}
	_, ok := tools["folder_reorder"]
	require.True(t, ok)
}

func TestServerRegistration_AllToolsDisabled(t *testing.T) {
	h, st, cfg := testSetup(t)

	cfg.DisabledTools = AllToolNames()
	require.Empty(t, NewServer(st, cfg, h.dataDir, "test").ListTools())
}

func TestValidateDisabledTools(t *testing.T) {
	tests := []struct {
		name    string
		input   []string
		wantLen int
	}{
		{"all valid", []string{"capture_delete", "bucket_delete"}, 0},
		{"one unknown", []string{"capture_delete", "capsule_store"}, 1},
		{"all unknown", []string{"foo", "bar", "baz"}, 3},
		{"empty list", []string{}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Len(t, ValidateDisabledTools(tt.input), tt.wantLen)
		})
	}
}

func TestValidateDisabledTypes(t *testing.T) {
	require.Empty(t, ValidateDisabledTypes(KnownTypes))
	require.Equal(t, []string{"capsule"}, ValidateDisabledTypes([]string{"capture", "capsule"}))
}

func TestAllToolNames_MatchKnownTypes(t *testing.T) {
	names := AllToolNames()
	require.Len(t, names, len(toolRegistry))
	require.Empty(t, ValidateDisabledTools(names))

	known := make(map[string]bool)
	for _, typ := range KnownTypes {
		known[typ] = true
	}
	for _, name := range names {
		require.True(t, known[GetTypeForTool(name)], "tool %s has unknown type", name)
	}
}

func TestExpandTypesToTools(t *testing.T) {
	require.Nil(t, ExpandTypesToTools(nil))

	tools := ExpandTypesToTools([]string{"template"})
	sort.Strings(tools)
	require.Equal(t, []string{"template_add", "template_delete", "template_list", "template_update"}, tools)
}

func TestGetTypeForTool(t *testing.T) {
	require.Equal(t, "capture", GetTypeForTool("capture_add"))
	require.Equal(t, "state", GetTypeForTool("state_navigate"))
	require.Equal(t, "", GetTypeForTool("noprefix"))
	require.Equal(t, "", GetTypeForTool("_leading"))
}

func TestErrorResult_InternalDoesNotExposeDetails(t *testing.T) {
	r := errorResult(errors.NewInternal(fmt.Errorf("sql error: open /tmp/secret.db: permission denied")))
	require.True(t, r.IsError)

	errObj := errorObject(t, r)
	require.Equal(t, string(errors.ErrInternal), errObj["code"])
	_, ok := errObj["details"]
	require.False(t, ok)
}

func TestErrorResult_WrappedAppError(t *testing.T) {
	r := errorResult(fmt.Errorf("capture 3: %w", errors.NewNotFound("capture", "abc")))
	errObj := errorObject(t, r)
	require.Equal(t, string(errors.ErrNotFound), errObj["code"])
	require.Contains(t, errObj, "details")
}

func TestErrorResult_PlainError(t *testing.T) {
	r := errorResult(fmt.Errorf("boom"))
	errObj := errorObject(t, r)
	require.Equal(t, "INTERNAL", errObj["code"])
	require.Equal(t, "an internal error occurred", errObj["message"])
}

// Helper functions

// parseOutput extracts and unmarshals the JSON output from an MCP result.
func parseOutput(t *testing.T, result *mcp.CallToolResult) map[string]any {
	t.Helper()
	require.False(t, result.IsError, "expected success, got error: %v", extractErrorMessage(result))

	var output map[string]any
	require.NoError(t, json.Unmarshal([]byte(result.Content[0].(mcp.TextContent).Text), &output))
	return output
}

func errorObject(t *testing.T, result *mcp.CallToolResult) map[string]any {
	t.Helper()
	var payload map[string]any
	require.NoError(t, json.Unmarshal([]byte(result.Content[0].(mcp.TextContent).Text), &payload))
	errObj, ok := payload["error"].(map[string]any)
	require.True(t, ok, "no error object in payload")
	return errObj
}

func assertErrorCode(t *testing.T, result *mcp.CallToolResult, expectedCode string) {
	t.Helper()
	require.NotEmpty(t, result.Content, "no content in error result")
	require.Equal(t, expectedCode, errorObject(t, result)["code"])
}

func extractErrorMessage(result *mcp.CallToolResult) string {
	if len(result.Content) == 0 {
		return "<no content>"
	}

	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		return "<not text content>"
	}

	return text.Text
}
