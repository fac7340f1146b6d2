package editor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/lubecatalog/internal/catalog"
)

type replaceCall struct {
	id    string
	kind  catalog.Kind
	items []string
}

// fakeBackend keeps products in memory and records every call.
type fakeBackend struct {
	mu sync.Mutex

	products map[string]*catalog.Product
	nextID   int

	getErr     error
	updateErr  error
	replaceErr error
	uploadErr  error

	getCalls int
	updates  []catalog.Patch
	creates  []catalog.Patch
	replaced []replaceCall
	uploads  int

	// When gate is set, UpdateProduct signals started and then blocks until
	// gate is closed or receives.
	gate    chan struct{}
	started chan struct{}
}

func newFakeBackend(products ...*catalog.Product) *fakeBackend {
	f := &fakeBackend{products: map[string]*catalog.Product{}}
	for _, p := range products {
		f.products[p.ID] = p.Clone()
	}
	return f
}

func (f *fakeBackend) blockUpdates() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gate = make(chan struct{})
	f.started = make(chan struct{}, 16)
}

// release unblocks the pending update and lets later ones through.
func (f *fakeBackend) release() {
	f.mu.Lock()
	g := f.gate
	f.gate = nil
	f.mu.Unlock()
	if g != nil {
		close(g)
	}
}

func (f *fakeBackend) GetProduct(ctx context.Context, id string) (*catalog.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.getCalls++
	if f.getErr != nil {
		return nil, f.getErr
	}
	p, ok := f.products[id]
	if !ok {
		return nil, fmt.Errorf("product %s: not found", id)
	}
	return p.Clone(), nil
}

func (f *fakeBackend) CreateProduct(ctx context.Context, patch catalog.Patch) (*catalog.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.creates = append(f.creates, clonePatch(patch))
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	f.nextID++
	p := &catalog.Product{ID: fmt.Sprintf("new-%d", f.nextID), Fields: catalog.Fields{}, CreatedAt: time.Unix(100, 0)}
	applyPatch(p, patch)
	f.products[p.ID] = p
	return p.Clone(), nil
}

func (f *fakeBackend) UpdateProduct(ctx context.Context, id string, patch catalog.Patch) (*catalog.Product, error) {
	f.mu.Lock()
	gate, started := f.gate, f.started
	f.updates = append(f.updates, clonePatch(patch))
	f.mu.Unlock()

	if gate != nil {
		started <- struct{}{}
		<-gate
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	p, ok := f.products[id]
	if !ok {
		return nil, fmt.Errorf("product %s: not found", id)
	}
	applyPatch(p, patch)
	return p.Clone(), nil
}

func (f *fakeBackend) ReplaceSubcollection(ctx context.Context, id string, kind catalog.Kind, items []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.replaced = append(f.replaced, replaceCall{id: id, kind: kind, items: append([]string(nil), items...)})
	if f.replaceErr != nil {
		return f.replaceErr
	}
	if p, ok := f.products[id]; ok {
		p.SetItems(kind, append([]string(nil), items...))
	}
	return nil
}

func (f *fakeBackend) UploadMedia(ctx context.Context, id string, kind catalog.MediaKind, name, contentType string, data []byte) (*catalog.Media, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.uploads++
	if f.uploadErr != nil {
		return nil, f.uploadErr
	}
	return &catalog.Media{ID: "m1", URL: "https://cdn.example.com/" + id + "/" + name}, nil
}

func (f *fakeBackend) updateCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.updates)
}

func (f *fakeBackend) lastUpdate() catalog.Patch {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.updates) == 0 {
		return nil
	}
	return f.updates[len(f.updates)-1]
}

func (f *fakeBackend) replaceCalls() []replaceCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]replaceCall(nil), f.replaced...)
}

func clonePatch(p catalog.Patch) catalog.Patch {
	return catalog.Patch(catalog.Fields(p).Clone())
}

func applyPatch(p *catalog.Product, patch catalog.Patch) {
	for k, v := range catalog.Fields(patch).Clone() {
		p.Fields[k] = v
	}
	p.UpdatedAt = p.UpdatedAt.Add(time.Second)
}

func oilX() *catalog.Product {
	img := "https://cdn.example.com/oil-x.png"
	return &catalog.Product{
		ID: "p1",
		Fields: catalog.Fields{
			catalog.FieldName:           "Oil X",
			catalog.FieldSlug:           "oil-x",
			catalog.FieldBrand:          "Lube Co",
			catalog.FieldDescription:    "",
			catalog.FieldImageURL:       &img,
			catalog.FieldDatasheetURL:   (*string)(nil),
			catalog.FieldIsActive:       true,
			catalog.FieldIsFeatured:     false,
			catalog.FieldViscosityGrade: "5W-30",
		},
		Features:     []string{"Low ash"},
		Applications: []string{"Passenger cars", "Vans"},
		PackSizes:    nil,
		CreatedAt:    time.Unix(10, 0),
		UpdatedAt:    time.Unix(20, 0),
	}
}
