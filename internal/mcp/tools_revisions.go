// tools_revisions.go implements the revision tools.
//
// Every tool returns JSON (or patch text) and reports failures as tool
// errors rather than Go errors, so the client gets a message it can act on.

package mcp

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/uttaparsa/notes-api/internal/log"
	"github.com/uttaparsa/notes-api/internal/revision"
	"github.com/uttaparsa/notes-api/internal/store"
)

// recordResult is the JSON shape of a record call.
type recordResult struct {
	Outcome  revision.Outcome   `json:"outcome"`
	Revision store.RevisionJSON `json:"revision"`
	Pruned   int                `json:"pruned"`
	Warning  string             `json:"warning,omitempty"`
}

func (h *handlers) record(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	doc, err := req.RequireString("document")
	if err != nil {
		return mcp.NewToolResultError("document is required"), nil
	}
	text, err := req.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError("text is required"), nil
	}
	author := getString(req, "author", "mcp")

	res, err := h.svc.RecordEdit(ctx, doc, text)
	l := log.Event("mcp:noterev_record", "record").Author(author).Document(doc)
	if res.Revision.ID != 0 {
		l.Outcome(res.Outcome.String()).Revision(res.Revision.ID).Pruned(res.Pruned)
	}
	l.Write(err)

	// A prune failure still leaves the edit recorded.
	if err != nil && res.Revision.ID == 0 {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out := recordResult{
		Outcome:  res.Outcome,
		Revision: res.Revision.ToJSON(false),
		Pruned:   res.Pruned,
	}
	if err != nil {
		out.Warning = err.Error()
	}
	return jsonResult(out)
}

func (h *handlers) seed(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	doc, err := req.RequireString("document")
	if err != nil {
		return mcp.NewToolResultError("document is required"), nil
	}
	text, err := req.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError("text is required"), nil
	}

	created, err := h.svc.Seed(ctx, doc, text)
	log.Event("mcp:noterev_seed", "seed").Author(getString(req, "author", "mcp")).Document(doc).Detail("created", created).Write(err)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(map[string]bool{"created": created})
}

func (h *handlers) history(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	doc, err := req.RequireString("document")
	if err != nil {
		return mcp.NewToolResultError("document is required"), nil
	}

	revs, err := h.svc.History(ctx, doc)
	log.Event("mcp:noterev_history", "read").Author("mcp").Document(doc).Detail("count", len(revs)).Write(err)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if limit := getInt(req, "limit", 0); limit > 0 && limit < len(revs) {
		revs = revs[:limit]
	}

	out := make([]store.RevisionJSON, len(revs))
	for i := range revs {
		out[i] = revs[i].ToJSON(false)
	}
	return jsonResult(out)
}

func (h *handlers) show(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	doc, err := req.RequireString("document")
	if err != nil {
		return mcp.NewToolResultError("document is required"), nil
	}
	id, ok := requireInt64(req, "revision")
	if !ok {
		return mcp.NewToolResultError("revision is required"), nil
	}

	r, err := h.svc.Revision(ctx, doc, id)
	log.Event("mcp:noterev_show", "read").Author("mcp").Document(doc).Revision(id).Write(err)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(r.ToJSON(true))
}

func (h *handlers) patch(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	doc, err := req.RequireString("document")
	if err != nil {
		return mcp.NewToolResultError("document is required"), nil
	}
	id, ok := requireInt64(req, "revision")
	if !ok {
		return mcp.NewToolResultError("revision is required"), nil
	}

	p, err := h.svc.Patch(ctx, doc, id)
	log.Event("mcp:noterev_patch", "read").Author("mcp").Document(doc).Revision(id).Write(err)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(p) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("revision %d makes no changes", id)), nil
	}
	return mcp.NewToolResultText(string(p)), nil
}

func (h *handlers) stats(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	days := getInt(req, "days", revision.DefaultStatsDays)

	counts, err := h.svc.Stats(ctx, days)
	log.Event("mcp:noterev_stats", "stats").Author("mcp").Detail("days", days).Write(err)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(counts)
}

func (h *handlers) verify(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	docs := []string{getString(req, "document", "")}
	if docs[0] == "" {
		var err error
		if docs, err = h.svc.Documents(ctx); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
	}

	reports := make([]revision.Report, 0, len(docs))
	issues := 0
	for _, d := range docs {
		r, err := h.svc.Verify(ctx, d)
		if err != nil {
			log.Event("mcp:noterev_verify", "verify").Author("mcp").Document(d).Write(err)
			return mcp.NewToolResultError(err.Error()), nil
		}
		issues += len(r.Issues)
		reports = append(reports, r)
	}
	log.Event("mcp:noterev_verify", "verify").Author("mcp").Detail("documents", len(docs)).Detail("issues", issues).Write(nil)
	return jsonResult(reports)
}

func (h *handlers) prune(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	doc, err := req.RequireString("document")
	if err != nil {
		return mcp.NewToolResultError("document is required"), nil
	}

	n, err := h.svc.Prune(ctx, doc)
	log.Event("mcp:noterev_prune", "prune").Author("mcp").Document(doc).Pruned(n).Write(err)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(map[string]int{"pruned": n})
}
