package mcp

import (
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/kmkohl117-gif/brainbucket-android/internal/config"
	"github.com/kmkohl117-gif/brainbucket-android/internal/store"
)

// KnownTypes lists all valid type names.
var KnownTypes = []string{"capture", "bucket", "folder", "template", "state"}

// toolEntry pairs a tool definition with a handler factory.
type toolEntry struct {
	def     mcp.Tool
	handler func(*Handlers) server.ToolHandlerFunc
}

// toolRegistry maps tool names to their definitions and handler factories.
var toolRegistry = map[string]toolEntry{
	"capture_add": {
		def:     captureAddToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleCaptureAdd },
	},
	"capture_get": {
		def:     captureGetToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleCaptureGet },
	},
	"capture_update": {
		def:     captureUpdateToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleCaptureUpdate },
	},
	"capture_move": {
		def:     captureMoveToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleCaptureMove },
	},
	"capture_star": {
		def:     captureStarToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleCaptureStar },
	},
	"capture_complete": {
		def:     captureCompleteToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleCaptureComplete },
	},
	"capture_delete": {
		def:     captureDeleteToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleCaptureDelete },
	},
	"capture_list": {
		def:     captureListToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleCaptureList },
	},
	"capture_search": {
		def:     captureSearchToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleCaptureSearch },
	},
	"bucket_list": {
		def:     bucketListToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleBucketList },
	},
	"bucket_get": {
		def:     bucketGetToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleBucketGet },
	},
	"bucket_add": {
		def:     bucketAddToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleBucketAdd },
	},
	"bucket_update": {
		def:     bucketUpdateToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleBucketUpdate },
	},
	"bucket_delete": {
		def:     bucketDeleteToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleBucketDelete },
	},
	"folder_list": {
		def:     folderListToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleFolderList },
	},
	"folder_get": {
		def:     folderGetToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleFolderGet },
	},
	"folder_add": {
		def:     folderAddToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleFolderAdd },
	},
	"folder_update": {
		def:     folderUpdateToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleFolderUpdate },
	},
	"folder_delete": {
		def:     folderDeleteToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleFolderDelete },
	},
	"folder_reorder": {
		def:     folderReorderToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleFolderReorder },
	},
	"template_list": {
		def:     templateListToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleTemplateList },
	},
	"template_add": {
		def:     templateAddToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleTemplateAdd },
	},
	"template_update": {
		def:     templateUpdateToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleTemplateUpdate },
	},
	"template_delete": {
		def:     templateDeleteToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleTemplateDelete },
	},
	"state_navigate": {
		def:     stateNavigateToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleStateNavigate },
	},
	"state_export": {
		def:     stateExportToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleStateExport },
	},
	"state_import": {
		def:     stateImportToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleStateImport },
	},
}

// AllToolNames returns a list of all valid tool names.
func AllToolNames() []string {
	names := make([]string, 0, len(toolRegistry))
	for name := range toolRegistry {
		names = append(names, name)
	}
	return names
}

// ValidateDisabledTools returns a list of unknown tool names from the given list.
func ValidateDisabledTools(names []string) []string {
	unknown := make([]string, 0)
	for _, name := range names {
		if _, ok := toolRegistry[name]; !ok {
			unknown = append(unknown, name)
		}
	}
	return unknown
}

// ValidateDisabledTypes returns a list of unknown type names from the given list.
func ValidateDisabledTypes(names []string) []string {
	known := make(map[string]bool, len(KnownTypes))
	for _, t := range KnownTypes {
		known[t] = true
	}

	unknown := make([]string, 0)
	for _, name := range names {
		if !known[name] {
			unknown = append(unknown, name)
		}
	}
	return unknown
}

// GetTypeForTool extracts the type name from a tool name.
// Tool names follow the pattern "type_action" (e.g., "capture_add" → "capture").
func GetTypeForTool(toolName string) string {
	if idx := strings.Index(toolName, "_"); idx > 0 {
		return toolName[:idx]
	}
	return ""
}

// ExpandTypesToTools returns all tool names belonging to the given types.
func ExpandTypesToTools(types []string) []string {
	if len(types) == 0 {
		return nil
	}

	typeSet := make(map[string]bool, len(types))
	for _, t := range types {
		typeSet[t] = true
	}

	tools := make([]string, 0)
	for name := range toolRegistry {
		if typeSet[GetTypeForTool(name)] {
			tools = append(tools, name)
		}
	}
	return tools
}

// NewServer creates an MCP server exposing the store as tools.
// Tools listed in cfg.DisabledTools or belonging to cfg.DisabledTypes
// are excluded from registration.
func NewServer(st *store.Store, cfg *config.Config, dataDir, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"brainbucket",
		version,
		server.WithToolCapabilities(true),
	)

	h := NewHandlers(st, cfg, dataDir)

	disabled := make(map[string]bool)
	for _, tool := range ExpandTypesToTools(cfg.DisabledTypes) {
		disabled[tool] = true
	}
	for _, name := range cfg.DisabledTools {
		disabled[name] = true
	}

	for name, entry := range toolRegistry {
		if disabled[name] {
			continue
		}
		s.AddTool(entry.def, entry.handler(h))
	}

	return s
}

// Run serves MCP over stdio until stdin closes.
func Run(st *store.Store, cfg *config.Config, dataDir, version string) error {
	return server.ServeStdio(NewServer(st, cfg, dataDir, version))
}
