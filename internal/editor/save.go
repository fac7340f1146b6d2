package editor

import (
	"context"
	"strings"
	"time"

	"github.com/dmitrijs2005/lubecatalog/internal/catalog"
)

// scheduleAutoSaveLocked (re)starts the debounce timer of d.
func (e *Editor) scheduleAutoSaveLocked(d *draft) {
	d.stopTimer()
	seq := d.timerSeq
	d.timer = time.AfterFunc(e.delay, func() { e.autoSave(d, seq) })
}

// autoSave runs when the debounce timer of d fires.
func (e *Editor) autoSave(d *draft, seq uint64) {
	e.mu.Lock()
	if e.closed || e.draft != d || d.timerSeq != seq {
		e.mu.Unlock()
		return
	}
	d.timer = nil
	dirty := d.dirty
	e.mu.Unlock()

	if !dirty {
		return
	}

	select {
	case e.slot <- struct{}{}:
	default:
		// A save is in flight; it re-arms the timer when it settles if
		// the draft changed meanwhile.
		e.logger.Debug(e.ctx, "autosave skipped, save in flight")
		return
	}
	defer func() { <-e.slot }()

	ctx, cancel := context.WithTimeout(e.ctx, e.saveTimeout)
	defer cancel()

	if err := e.save(ctx, d, true); err != nil {
		e.logger.Debug(ctx, "autosave not completed", "error", err)
	}
}

// SaveNow saves the draft immediately. It cancels the pending autosave and,
// if a save is in flight, waits for it to settle before building its own
// patch from the latest local fields.
func (e *Editor) SaveNow(ctx context.Context) error {
	e.mu.Lock()
	d, err := e.draftLocked()
	if err != nil {
		e.mu.Unlock()
		return err
	}
	d.stopTimer()
	e.mu.Unlock()

	select {
	case e.slot <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	}
	defer func() { <-e.slot }()

	return e.save(ctx, d, false)
}

// save is the routine shared by autosave and SaveNow. The caller holds the
// save slot. An autosave of a clean draft does nothing.
func (e *Editor) save(ctx context.Context, d *draft, auto bool) error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return ErrClosed
	}
	if e.draft != d {
		e.mu.Unlock()
		return ErrNoDraft
	}
	if auto && !d.dirty {
		e.mu.Unlock()
		return nil
	}
	if strings.TrimSpace(d.fields.String(catalog.FieldName)) == "" {
		e.mu.Unlock()
		return ErrNameRequired
	}

	patch := d.buildPatch()
	rev := d.rev
	id := d.id
	d.status = StatusSaving
	d.message = ""
	e.notifyLocked()
	e.mu.Unlock()

	var (
		p   *catalog.Product
		err error
	)
	if id == "" {
		p, err = e.backend.CreateProduct(ctx, patch)
	} else {
		p, err = e.backend.UpdateProduct(ctx, id, patch)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.draft != d {
		// discarded while the request was in flight
		return err
	}

	edited := d.rev != rev
	if err != nil {
		e.logger.Warn(ctx, "save failed", "product_id", id, "error", err)
		d.status = StatusError
		d.message = err.Error()
	} else {
		d.snapshot = p.Clone()
		if d.id == "" {
			d.id = p.ID
		}
		d.savedAt = e.now()
		if !edited {
			d.dirty = false
			d.status = StatusSaved
		}
		e.logger.Info(ctx, "product saved", "product_id", d.id, "fields", len(patch))
	}

	if edited && d.dirty && !e.closed {
		e.scheduleAutoSaveLocked(d)
	}
	e.notifyLocked()
	return err
}

// buildPatch collects the fields to send. name is always present, trimmed.
// Other strings are sent only when non-blank, nullable strings only when set
// and non-blank, flags always. The slug is left out in manual mode while it
// is invalid, and in auto mode while it is empty.
func (d *draft) buildPatch() catalog.Patch {
	p := catalog.Patch{
		catalog.FieldName: strings.TrimSpace(d.fields.String(catalog.FieldName)),
	}

	for f, v := range d.fields {
		switch f {
		case catalog.FieldName:
			continue
		case catalog.FieldSlug:
			s, _ := v.(string)
			if d.slugMode == SlugManual && !catalog.SlugValid(s) {
				continue
			}
			if s != "" {
				p[f] = s
			}
			continue
		}

		switch v := v.(type) {
		case string:
			if strings.TrimSpace(v) != "" {
				p[f] = v
			}
		case bool:
			p[f] = v
		case *string:
			if v != nil && strings.TrimSpace(*v) != "" {
				s := *v
				p[f] = &s
			}
		}
	}
	return p
}
