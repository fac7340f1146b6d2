package editor

import (
	"context"

	"github.com/dmitrijs2005/lubecatalog/internal/catalog"
)

// Backend is the catalog service the editor persists drafts through.
// client.GRPCClient implements it.
type Backend interface {
	GetProduct(ctx context.Context, id string) (*catalog.Product, error)
	CreateProduct(ctx context.Context, patch catalog.Patch) (*catalog.Product, error)
	UpdateProduct(ctx context.Context, id string, patch catalog.Patch) (*catalog.Product, error)
	ReplaceSubcollection(ctx context.Context, id string, kind catalog.Kind, items []string) error
	UploadMedia(ctx context.Context, id string, kind catalog.MediaKind, name, contentType string, data []byte) (*catalog.Media, error)
}
