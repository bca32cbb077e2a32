// tools_util.go extracts typed parameters from MCP requests.
//
// Optional parameters fall back to a default when missing or of the wrong
// type; LLM clients often omit them or send "true" for true.

package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/uttaparsa/notes-api/internal/store"
)

// getString returns a string parameter or def.
func getString(req mcp.CallToolRequest, name, def string) string {
	if v, err := req.RequireString(name); err == nil {
		return v
	}
	return def
}

// getInt returns a numeric parameter or def. JSON numbers decode as float64.
func getInt(req mcp.CallToolRequest, name string, def int) int {
	args, ok := req.Params.Arguments.(map[string]any)
	if !ok {
		return def
	}
	if v, ok := args[name].(float64); ok {
		return int(v)
	}
	return def
}

// requireInt64 returns a required numeric parameter.
func requireInt64(req mcp.CallToolRequest, name string) (int64, bool) {
	args, ok := req.Params.Arguments.(map[string]any)
	if !ok {
		return 0, false
	}
	v, ok := args[name].(float64)
	return int64(v), ok
}

// getStrings returns a string array parameter, skipping non-string items.
// Nil when absent.
func getStrings(req mcp.CallToolRequest, name string) []string {
	args, ok := req.Params.Arguments.(map[string]any)
	if !ok {
		return nil
	}
	arr, ok := args[name].([]any)
	if !ok {
		return nil
	}
	result := make([]string, 0, len(arr))
	for _, v := range arr {
		if s, ok := v.(string); ok {
			result = append(result, s)
		}
	}
	return result
}

// jsonResult wraps v as indented JSON text. Marshal failures become tool
// errors so every failure reaches the client the same way.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := store.MarshalJSON(v)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}
