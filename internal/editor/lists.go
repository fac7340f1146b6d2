package editor

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/lubecatalog/internal/catalog"
)

// List is a handle on one ordered sub-collection of the open draft. Edits are
// kept in memory until Sync. Lists are never part of the main record patch and
// do not trigger autosave.
type List struct {
	e    *Editor
	kind catalog.Kind
}

func (e *Editor) List(kind catalog.Kind) *List {
	return &List{e: e, kind: kind}
}

func (e *Editor) Features() *List     { return e.List(catalog.KindFeatures) }
func (e *Editor) Applications() *List { return e.List(catalog.KindApplications) }
func (e *Editor) PackSizes() *List    { return e.List(catalog.KindPackSizes) }

func (l *List) Kind() catalog.Kind { return l.kind }

// lockedList locks the editor and returns the draft and list. On error the
// lock is released.
func (l *List) lockedList() (*draft, *subList, error) {
	l.e.mu.Lock()
	d, err := l.e.draftLocked()
	if err != nil {
		l.e.mu.Unlock()
		return nil, nil, err
	}
	sl, ok := d.lists[l.kind]
	if !ok {
		l.e.mu.Unlock()
		return nil, nil, fmt.Errorf("%w: %q", ErrInvalidKind, l.kind)
	}
	return d, sl, nil
}

// Items returns a copy of the list.
func (l *List) Items() ([]string, error) {
	_, sl, err := l.lockedList()
	if err != nil {
		return nil, err
	}
	defer l.e.mu.Unlock()
	return append([]string(nil), sl.items...), nil
}

// Add appends item to the end of the list.
func (l *List) Add(item string) error {
	_, sl, err := l.lockedList()
	if err != nil {
		return err
	}
	defer l.e.mu.Unlock()

	sl.items = append(sl.items, item)
	sl.touch()
	l.e.notifyLocked()
	return nil
}

// Remove deletes the item at index i.
func (l *List) Remove(i int) error {
	_, sl, err := l.lockedList()
	if err != nil {
		return err
	}
	defer l.e.mu.Unlock()

	if i < 0 || i >= len(sl.items) {
		return fmt.Errorf("%w: %d of %d", ErrIndexOutOfRange, i, len(sl.items))
	}
	sl.items = append(sl.items[:i:i], sl.items[i+1:]...)
	sl.touch()
	l.e.notifyLocked()
	return nil
}

// Reorder takes the item at from out of the list and inserts it at to in the
// shortened list. Both indices must be valid for the current length.
func (l *List) Reorder(from, to int) error {
	_, sl, err := l.lockedList()
	if err != nil {
		return err
	}
	defer l.e.mu.Unlock()

	n := len(sl.items)
	if from < 0 || from >= n {
		return fmt.Errorf("%w: from %d of %d", ErrIndexOutOfRange, from, n)
	}
	if to < 0 || to >= n {
		return fmt.Errorf("%w: to %d of %d", ErrIndexOutOfRange, to, n)
	}

	sl.items = move(sl.items, from, to)
	sl.touch()
	l.e.notifyLocked()
	return nil
}

func move(items []string, from, to int) []string {
	item := items[from]
	rest := make([]string, 0, len(items))
	rest = append(rest, items[:from]...)
	rest = append(rest, items[from+1:]...)
	if to > len(rest) {
		to = len(rest)
	}

	out := make([]string, 0, len(items))
	out = append(out, rest[:to]...)
	out = append(out, item)
	return append(out, rest[to:]...)
}

// Sync replaces the list on the server with the local one. The product must
// have been saved at least once. The in-memory list is left as is whatever
// the outcome; the dirty flag clears only if the list was not edited while the
// request was in flight.
func (l *List) Sync(ctx context.Context) error {
	d, sl, err := l.lockedList()
	if err != nil {
		return err
	}
	if d.id == "" {
		l.e.mu.Unlock()
		return ErrNotPersisted
	}

	id := d.id
	items := append([]string(nil), sl.items...)
	rev := sl.rev
	sl.status = SyncSyncing
	sl.message = ""
	l.e.notifyLocked()
	l.e.mu.Unlock()

	err = l.e.backend.ReplaceSubcollection(ctx, id, l.kind, items)

	l.e.mu.Lock()
	defer l.e.mu.Unlock()

	if l.e.draft != d {
		return err
	}
	if err != nil {
		l.e.logger.Warn(ctx, "sync failed", "product_id", id, "kind", l.kind, "error", err)
		sl.status = SyncFailed
		sl.message = err.Error()
	} else {
		l.e.logger.Info(ctx, "list synced", "product_id", id, "kind", l.kind, "items", len(items))
		sl.status = SyncSynced
		sl.syncedAt = l.e.now()
		if sl.rev == rev {
			sl.dirty = false
		}
	}
	l.e.notifyLocked()
	return err
}
