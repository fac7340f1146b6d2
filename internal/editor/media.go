package editor

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/lubecatalog/internal/catalog"
)

// UploadMedia uploads a file for the saved product and stores the returned
// URL in the matching field (imageUrl or datasheetUrl) as a regular edit.
func (e *Editor) UploadMedia(ctx context.Context, kind catalog.MediaKind, name, contentType string, data []byte) (*catalog.Media, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: media kind %q", ErrInvalidField, kind)
	}

	e.mu.Lock()
	d, err := e.draftLocked()
	if err != nil {
		e.mu.Unlock()
		return nil, err
	}
	if d.id == "" {
		e.mu.Unlock()
		return nil, ErrNotPersisted
	}
	id := d.id
	e.mu.Unlock()

	m, err := e.backend.UploadMedia(ctx, id, kind, name, contentType, data)

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.draft != d {
		if err != nil {
			return nil, err
		}
		return nil, ErrNoDraft
	}
	if err != nil {
		e.logger.Warn(ctx, "upload failed", "product_id", id, "kind", kind, "error", err)
		d.uploadErr = err.Error()
		e.notifyLocked()
		return nil, fmt.Errorf("upload %s: %w", kind, err)
	}

	d.uploadErr = ""
	if err := e.setFieldLocked(d, kind.Field(), m.URL); err != nil {
		return nil, err
	}
	return m, nil
}
