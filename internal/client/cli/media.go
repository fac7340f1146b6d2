package cli

import (
	"context"
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"

	"github.com/dmitrijs2005/lubecatalog/internal/catalog"
)

// readFile is a test seam for os.ReadFile.
var readFile = os.ReadFile

// Upload reads path and attaches it to the saved product as its image or
// datasheet.
func (a *App) Upload(ctx context.Context, kind, path string) error {
	mk := catalog.MediaKind(kind)
	if !mk.Valid() {
		return fmt.Errorf("unknown media kind %q, want image or datasheet", kind)
	}

	data, err := readFile(path)
	if err != nil {
		return err
	}

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	m, err := a.editor.UploadMedia(ctx, mk, filepath.Base(path), contentType(path, data), data)
	if err != nil {
		return err
	}
	a.println("Uploaded:", m.URL)
	return nil
}

// contentType prefers the extension and falls back to sniffing the data.
func contentType(path string, data []byte) string {
	if ct := mime.TypeByExtension(filepath.Ext(path)); ct != "" {
		return ct
	}
	return http.DetectContentType(data)
}
