// tools_documents.go implements catalog tools.

package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/uttaparsa/notes-api/internal/log"
)

func (h *handlers) track(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ids := getStrings(req, "documents")
	if len(ids) == 0 {
		return mcp.NewToolResultError("documents is required"), nil
	}

	n, err := h.cat.Track(ctx, ids...)
	log.Event("mcp:noterev_track", "track").Author("mcp").Detail("documents", ids).Detail("added", n).Write(err)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(map[string]int{"added": n})
}

func (h *handlers) documents(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	docs, err := h.cat.List(ctx)
	log.Event("mcp:noterev_documents", "list").Author("mcp").Detail("count", len(docs)).Write(err)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(docs)
}
