package models

import (
	"time"

	"github.com/dmitrijs2005/lubecatalog/internal/catalog"
)

// Upload states of a media row.
const (
	UploadPending   = "pending"
	UploadCompleted = "completed"
)

// Media describes a file attached to a product. The bytes live in object
// storage under StorageKey and are served from PublicURL.
type Media struct {
	ID          string
	ProductID   string
	Kind        catalog.MediaKind
	FileName    string
	ContentType string
	Size        int64
	StorageKey  string
	PublicURL   string
	Status      string
	CreatedAt   time.Time
}
