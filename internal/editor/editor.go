package editor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/lubecatalog/internal/catalog"
	"github.com/dmitrijs2005/lubecatalog/internal/logging"
)

// Editor owns the draft of a single product. It is safe for concurrent use.
type Editor struct {
	backend     Backend
	delay       time.Duration
	saveTimeout time.Duration
	logger      logging.Logger
	now         func() time.Time

	ctx    context.Context
	cancel context.CancelFunc

	// slot admits one save of the main record at a time.
	slot chan struct{}

	mu      sync.Mutex
	draft   *draft
	closed  bool
	subs    map[int]chan State
	nextSub int
}

func NewEditor(backend Backend, opts ...Option) *Editor {
	ctx, cancel := context.WithCancel(context.Background())
	e := &Editor{
		backend:     backend,
		delay:       DefaultAutoSaveDelay,
		saveTimeout: DefaultSaveTimeout,
		logger:      logging.Discard(),
		now:         time.Now,
		ctx:         ctx,
		cancel:      cancel,
		slot:        make(chan struct{}, 1),
		subs:        make(map[int]chan State),
	}
	for _, o := range opts {
		o(e)
	}
	e.logger = e.logger.With("module", "editor")
	return e
}

// Load fetches product id and replaces the current draft with it. On failure
// the current draft is kept and the returned error wraps ErrLoad.
func (e *Editor) Load(ctx context.Context, id string) error {
	if err := e.checkOpen(); err != nil {
		return err
	}

	p, err := e.backend.GetProduct(ctx, id)
	if err != nil {
		e.logger.Warn(ctx, "load failed", "product_id", id, "error", err)
		return fmt.Errorf("%w: %w", ErrLoad, err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrClosed
	}
	e.replaceLocked(newDraft(p))
	e.logger.Info(ctx, "product loaded", "product_id", p.ID)
	return nil
}

// New starts a draft for a product that does not exist yet. The first
// successful save creates it.
func (e *Editor) New() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrClosed
	}
	e.replaceLocked(newDraft(nil))
	return nil
}

// Discard drops the draft and cancels any pending autosave. Nothing is sent
// to the server; a save already in flight completes but its result is ignored.
func (e *Editor) Discard() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.replaceLocked(nil)
}

// Close discards the draft, closes all subscriptions and makes every further
// call fail with ErrClosed. Subscribers see their channel closed without a
// final state.
func (e *Editor) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	if e.draft != nil {
		e.draft.stopTimer()
		e.draft = nil
	}
	e.closed = true
	e.cancel()
	for id, ch := range e.subs {
		close(ch)
		delete(e.subs, id)
	}
}

func (e *Editor) replaceLocked(d *draft) {
	if e.draft != nil {
		e.draft.stopTimer()
	}
	e.draft = d
	e.notifyLocked()
}

// SetField sets one editable field of the draft. It never contacts the
// server. Setting the slug directly switches to manual slug mode; setting the
// name in auto mode re-derives the slug.
func (e *Editor) SetField(f catalog.Field, v any) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	d, err := e.draftLocked()
	if err != nil {
		return err
	}
	return e.setFieldLocked(d, f, v)
}

func (e *Editor) setFieldLocked(d *draft, f catalog.Field, v any) error {
	nv, err := catalog.NormalizeValue(f, v)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidField, err)
	}

	switch f {
	case catalog.FieldSlug:
		d.slugMode = SlugManual
		nv = catalog.SanitizeSlugInput(nv.(string))
	case catalog.FieldName:
		if d.slugMode == SlugAuto {
			d.fields[catalog.FieldSlug] = catalog.DeriveSlug(nv.(string))
		}
	}
	d.fields[f] = nv

	e.touchLocked(d)
	return nil
}

// SetSlugMode switches between derived and hand-edited slugs. Switching to
// auto overwrites the slug from the current name at once.
func (e *Editor) SetSlugMode(m SlugMode) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	d, err := e.draftLocked()
	if err != nil {
		return err
	}

	d.slugMode = m
	if m == SlugAuto {
		slug := catalog.DeriveSlug(d.fields.String(catalog.FieldName))
		if slug != d.fields.String(catalog.FieldSlug) {
			d.fields[catalog.FieldSlug] = slug
			e.touchLocked(d)
			return nil
		}
	}
	e.notifyLocked()
	return nil
}

// touchLocked records a mutation of the main record and restarts the
// autosave timer.
func (e *Editor) touchLocked(d *draft) {
	d.dirty = true
	d.rev++
	d.status = StatusIdle
	d.message = ""
	e.scheduleAutoSaveLocked(d)
	e.notifyLocked()
}

// Snapshot returns a copy of the current state.
func (e *Editor) Snapshot() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stateLocked()
}

// Subscribe returns a channel that receives the state after every change.
// The channel holds only the newest state; a slow reader skips intermediate
// ones. The current state is delivered immediately. cancel closes the channel.
func (e *Editor) Subscribe() (<-chan State, func()) {
	e.mu.Lock()
	defer e.mu.Unlock()

	ch := make(chan State, 1)
	if e.closed {
		close(ch)
		return ch, func() {}
	}

	id := e.nextSub
	e.nextSub++
	e.subs[id] = ch
	ch <- e.stateLocked()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			e.mu.Lock()
			defer e.mu.Unlock()
			if c, ok := e.subs[id]; ok {
				delete(e.subs, id)
				close(c)
			}
		})
	}
}

func (e *Editor) stateLocked() State {
	if e.draft == nil {
		return State{}
	}
	return e.draft.state()
}

func (e *Editor) notifyLocked() {
	if len(e.subs) == 0 {
		return
	}
	st := e.stateLocked()
	for _, ch := range e.subs {
		select {
		case <-ch:
		default:
		}
		ch <- st
	}
}

func (e *Editor) draftLocked() (*draft, error) {
	if e.closed {
		return nil, ErrClosed
	}
	if e.draft == nil {
		return nil, ErrNoDraft
	}
	return e.draft, nil
}

func (e *Editor) checkOpen() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrClosed
	}
	return nil
}
