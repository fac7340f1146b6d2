package client

import (
	"context"

	"github.com/dmitrijs2005/lubecatalog/internal/catalog"
)

type Client interface {
	Close() error
	Login(ctx context.Context, username string, password []byte) error
	Ping(ctx context.Context) error
	GetProduct(ctx context.Context, id string) (*catalog.Product, error)
	CreateProduct(ctx context.Context, patch catalog.Patch) (*catalog.Product, error)
	UpdateProduct(ctx context.Context, id string, patch catalog.Patch) (*catalog.Product, error)
	ReplaceSubcollection(ctx context.Context, id string, kind catalog.Kind, items []string) error
	UploadMedia(ctx context.Context, id string, kind catalog.MediaKind, name, contentType string, data []byte) (*catalog.Media, error)
}
