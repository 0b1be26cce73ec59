package tools

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/arbiter-l10n/arbiter/internal/store"
)

// Server wraps the MCP server with tool handlers.
type Server struct {
	mcp   *mcp.Server
	store *store.Store

	// scanMu serializes scans so a tool-triggered run cannot race the
	// auto-sync watcher over the same sources.
	scanMu sync.Mutex
}

// NewServer creates a new MCP server with all tools registered.
func NewServer(s *store.Store) *Server {
	srv := &Server{
		store: s,
		mcp: mcp.NewServer(
			&mcp.Implementation{
				Name:    "arbiter",
				Version: "0.1.0",
			},
			nil,
		),
	}
	srv.registerTools()
	return srv
}

// MCPServer returns the underlying MCP server.
func (s *Server) MCPServer() *mcp.Server {
	return s.mcp
}

func (s *Server) registerTools() {
	// 1. scan_project
	s.mcp.AddTool(&mcp.Tool{
		Name:        "scan_project",
		Description: "Scan a Flutter project for hard-coded user-facing string literals. Parses Dart sources, classifies each literal's UI role (button, title, hint, error, ...), assigns stable localization keys, records everything in the catalog, and merges new keys into the project's ARB bundle. Incremental: unchanged files are skipped via content hashing. Does not modify Dart sources.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"project_path": {
					"type": "string",
					"description": "Absolute path to the Flutter project root (the directory holding pubspec.yaml)"
				}
			},
			"required": ["project_path"]
		}`),
	}, s.handleScanProject)

	// 2. apply_replacements
	s.mcp.AddTool(&mcp.Tool{
		Name:        "apply_replacements",
		Description: "Rewrite a project's Dart sources in place, replacing each catalogued literal with its localization accessor call and inserting the accessor import where missing. Runs a fresh scan first so byte offsets are exact; literals that cannot be relocated safely are skipped with a reason rather than guessed at. This modifies source files.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"project_path": {
					"type": "string",
					"description": "Absolute path to the Flutter project root"
				}
			},
			"required": ["project_path"]
		}`),
	}, s.handleApplyReplacements)

	// 3. list_strings
	s.mcp.AddTool(&mcp.Tool{
		Name:        "list_strings",
		Description: "List catalogued string literals for a project with their location, UI role, screen group, assigned key, replacement expression, and status (pending, applied, or skipped). Supports filtering by role and status.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"project_name": {
					"type": "string",
					"description": "Name of the scanned project (see project_status)"
				},
				"role": {
					"type": "string",
					"description": "Filter by UI role: title, button, message, hint, label, error, placeholder, description, confirmation, navigation, unknown"
				},
				"status": {
					"type": "string",
					"description": "Filter by status: pending, applied, skipped",
					"enum": ["pending", "applied", "skipped"]
				},
				"limit": {
					"type": "integer",
					"description": "Max results (default 50, max 200)"
				}
			},
			"required": ["project_name"]
		}`),
	}, s.handleListStrings)

	// 4. project_status
	s.mcp.AddTool(&mcp.Tool{
		Name:        "project_status",
		Description: "Report scan state. Without project_name, lists all scanned projects with their root path and last scan time. With project_name, adds literal counts broken down by UI role and by status.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"project_name": {
					"type": "string",
					"description": "Name of the project to inspect (optional)"
				}
			}
		}`),
	}, s.handleProjectStatus)

	// 5. delete_project
	s.mcp.AddTool(&mcp.Tool{
		Name:        "delete_project",
		Description: "Delete a project's catalog data (literals, file hashes, project record). Does not touch the project's sources or ARB bundle. This action is irreversible.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"project_name": {
					"type": "string",
					"description": "Name of the project to delete"
				}
			},
			"required": ["project_name"]
		}`),
	}, s.handleDeleteProject)
}

// jsonResult marshals data to JSON and returns as tool result.
func jsonResult(data any) *mcp.CallToolResult {
	b, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return errResult("json marshal err=" + err.Error())
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(b)},
		},
	}
}

// errResult returns a tool result indicating an error.
func errResult(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: msg},
		},
		IsError: true,
	}
}

// parseArgs unmarshals the raw JSON arguments into a map.
func parseArgs(req *mcp.CallToolRequest) (map[string]any, error) {
	if req.Params.Arguments == nil || len(req.Params.Arguments) == 0 {
		return map[string]any{}, nil
	}
	var m map[string]any
	if err := json.Unmarshal(req.Params.Arguments, &m); err != nil {
		return nil, fmt.Errorf("invalid arguments: %w", err)
	}
	return m, nil
}

// getStringArg extracts a string argument from parsed args.
func getStringArg(args map[string]any, key string) string {
	v, ok := args[key]
	if !ok {
		return ""
	}
	s, ok := v.(string)
	if !ok {
		return ""
	}
	return s
}

// getIntArg extracts an integer argument with a default value.
func getIntArg(args map[string]any, key string, defaultVal int) int {
	v, ok := args[key]
	if !ok {
		return defaultVal
	}
	f, ok := v.(float64) // JSON numbers decode as float64
	if !ok {
		return defaultVal
	}
	return int(f)
}
