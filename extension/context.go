// context.go defines what extensions can reach of the opened workspace.

package extension

import (
	"github.com/uttaparsa/notes-api/internal/catalog"
	"github.com/uttaparsa/notes-api/internal/config"
	"github.com/uttaparsa/notes-api/internal/revision"
	"github.com/uttaparsa/notes-api/internal/workspace"
)

// Context gives extensions access to shared resources.
type Context interface {
	// Service returns the revision service.
	Service() *revision.Service

	// Catalog returns the registry of tracked documents.
	Catalog() *catalog.SQLiteCatalog

	// Config returns the loaded configuration.
	Config() *config.Config

	// Dir returns the .noterev directory.
	Dir() string
}

type wsContext struct {
	ws *workspace.Workspace
}

// NewContext wraps an opened workspace.
func NewContext(ws *workspace.Workspace) Context {
	return &wsContext{ws: ws}
}

func (c *wsContext) Service() *revision.Service      { return c.ws.Service() }
func (c *wsContext) Catalog() *catalog.SQLiteCatalog { return c.ws.Repo().Catalog }
func (c *wsContext) Config() *config.Config          { return c.ws.Config() }
func (c *wsContext) Dir() string                     { return c.ws.Dir() }
