// Package mcp implements the Model Context Protocol server, exposing the
// revision engine to LLM clients over stdio.
package mcp

import (
	"context"
	"errors"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/uttaparsa/notes-api/internal/catalog"
	"github.com/uttaparsa/notes-api/internal/logging"
	"github.com/uttaparsa/notes-api/internal/revision"
)

// Version is advertised to clients for capability negotiation.
const Version = "1.0.0"

// Catalog is the subset of the document catalog the tools use.
type Catalog interface {
	Track(ctx context.Context, ids ...string) (int, error)
	List(ctx context.Context) ([]catalog.Document, error)
}

// handlers gives tool handlers access to the engine.
type handlers struct {
	svc    *revision.Service
	cat    Catalog
	logger logging.Logger
}

// NewServer builds an MCP server with every noterev tool and resource
// registered.
func NewServer(svc *revision.Service, cat Catalog, logger logging.Logger) *server.MCPServer {
	h := &handlers{svc: svc, cat: cat, logger: logger}

	s := server.NewMCPServer(
		"noterev",
		Version,
		server.WithResourceCapabilities(true, false),
		server.WithToolCapabilities(true),
	)
	registerResources(s, h)
	registerTools(s, h)
	return s
}

// Serve runs s over stdio until the client disconnects.
func Serve(s *server.MCPServer, logger logging.Logger) error {
	logger.Infow("noterev MCP server ready", "version", Version, "transport", "stdio")

	err := server.ServeStdio(s)
	if errors.Is(err, context.Canceled) {
		logger.Infow("server stopped")
		return nil
	}
	return err
}

// registerResources adds URI access to revision texts.
func registerResources(s *server.MCPServer, h *handlers) {
	s.AddResourceTemplate(
		mcp.NewResourceTemplate(
			"noterev://documents/{document}/revisions/{revision}",
			"Revision",
			mcp.WithTemplateDescription("Full text of a document at a revision"),
			mcp.WithTemplateMIMEType("text/markdown"),
		),
		h.readRevision,
	)
}

// registerTools exposes the engine as MCP tools.
func registerTools(s *server.MCPServer, h *handlers) {
	s.AddTool(
		mcp.NewTool("noterev_track",
			mcp.WithDescription("Register documents so their edits can be recorded"),
			mcp.WithArray("documents", mcp.Required(), mcp.Description("Document IDs"), mcp.WithStringItems()),
		),
		h.track,
	)

	s.AddTool(
		mcp.NewTool("noterev_documents",
			mcp.WithDescription("List tracked documents"),
		),
		h.documents,
	)

	s.AddTool(
		mcp.NewTool("noterev_record",
			mcp.WithDescription("Record that a document's text has changed. Edits close together are merged into one revision."),
			mcp.WithString("document", mcp.Required(), mcp.Description("Document ID")),
			mcp.WithString("text", mcp.Required(), mcp.Description("Full new text of the document")),
			mcp.WithString("author", mcp.Description("Author attribution for the audit log")),
		),
		h.record,
	)

	s.AddTool(
		mcp.NewTool("noterev_seed",
			mcp.WithDescription("Create the initial revision for a document with no history"),
			mcp.WithString("document", mcp.Required(), mcp.Description("Document ID")),
			mcp.WithString("text", mcp.Required(), mcp.Description("Current text of the document")),
			mcp.WithString("author", mcp.Description("Author attribution for the audit log")),
		),
		h.seed,
	)

	s.AddTool(
		mcp.NewTool("noterev_history",
			mcp.WithDescription("List a document's revisions, newest first"),
			mcp.WithString("document", mcp.Required(), mcp.Description("Document ID")),
			mcp.WithNumber("limit", mcp.Description("Maximum revisions to return")),
		),
		h.history,
	)

	s.AddTool(
		mcp.NewTool("noterev_show",
			mcp.WithDescription("Get a document's full text at a revision"),
			mcp.WithString("document", mcp.Required(), mcp.Description("Document ID")),
			mcp.WithNumber("revision", mcp.Required(), mcp.Description("Revision ID")),
		),
		h.show,
	)

	s.AddTool(
		mcp.NewTool("noterev_patch",
			mcp.WithDescription("Unified diff introduced by a revision"),
			mcp.WithString("document", mcp.Required(), mcp.Description("Document ID")),
			mcp.WithNumber("revision", mcp.Required(), mcp.Description("Revision ID")),
		),
		h.patch,
	)

	s.AddTool(
		mcp.NewTool("noterev_stats",
			mcp.WithDescription("Revisions created per UTC day"),
			mcp.WithNumber("days", mcp.Description("Days to look back (default 7)")),
		),
		h.stats,
	)

	s.AddTool(
		mcp.NewTool("noterev_verify",
			mcp.WithDescription("Check revision chains and cached diffs"),
			mcp.WithString("document", mcp.Description("Document ID (default: every document with history)")),
		),
		h.verify,
	)

	s.AddTool(
		mcp.NewTool("noterev_prune",
			mcp.WithDescription("Collapse a document's oldest revisions down to the configured limit"),
			mcp.WithString("document", mcp.Required(), mcp.Description("Document ID")),
		),
		h.prune,
	)
}
