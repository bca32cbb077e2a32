// resources.go serves revision texts as MCP resources at
// noterev://documents/{document}/revisions/{revision}.

package mcp

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

var (
	// ErrInvalidURI indicates a malformed resource URI.
	ErrInvalidURI = errors.New("invalid URI")
	// ErrEmptyDocument indicates a resource URI without a document ID.
	ErrEmptyDocument = errors.New("empty document ID")
)

const uriPrefix = "noterev://documents/"

func (h *handlers) readRevision(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	uri := req.Params.URI
	doc, id, err := parseRevisionURI(uri)
	if err != nil {
		return nil, err
	}

	text, err := h.svc.Reconstruct(ctx, doc, id)
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "text/markdown",
			Text:     text,
		},
	}, nil
}

// parseRevisionURI extracts the document ID and revision ID. The document
// ID may contain slashes and is path-unescaped.
func parseRevisionURI(uri string) (string, int64, error) {
	if !strings.HasPrefix(uri, uriPrefix) {
		return "", 0, fmt.Errorf("%w: %s", ErrInvalidURI, uri)
	}
	rest := strings.TrimPrefix(uri, uriPrefix)

	i := strings.LastIndex(rest, "/revisions/")
	if i < 0 {
		return "", 0, fmt.Errorf("%w: missing /revisions/ in %s", ErrInvalidURI, uri)
	}
	doc, err := url.PathUnescape(rest[:i])
	if err != nil {
		return "", 0, fmt.Errorf("%w: %v", ErrInvalidURI, err)
	}
	if doc == "" {
		return "", 0, ErrEmptyDocument
	}
	id, err := strconv.ParseInt(rest[i+len("/revisions/"):], 10, 64)
	if err != nil || id <= 0 {
		return "", 0, fmt.Errorf("%w: bad revision in %s", ErrInvalidURI, uri)
	}
	return doc, id, nil
}
