package editor

import (
	"time"

	"github.com/dmitrijs2005/lubecatalog/internal/catalog"
)

// SaveStatus is the outcome of the most recent save of the main record.
type SaveStatus int

const (
	StatusIdle SaveStatus = iota
	StatusSaving
	StatusSaved
	StatusError
)

func (s SaveStatus) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusSaving:
		return "saving"
	case StatusSaved:
		return "saved"
	case StatusError:
		return "error"
	}
	return "unknown"
}

// SlugMode tells whether the slug follows the name.
type SlugMode int

const (
	SlugAuto SlugMode = iota
	SlugManual
)

func (m SlugMode) String() string {
	if m == SlugManual {
		return "manual"
	}
	return "auto"
}

// SyncStatus is the outcome of the most recent sync of one sub-collection.
type SyncStatus int

const (
	SyncIdle SyncStatus = iota
	SyncSyncing
	SyncSynced
	SyncFailed
)

func (s SyncStatus) String() string {
	switch s {
	case SyncIdle:
		return "idle"
	case SyncSyncing:
		return "syncing"
	case SyncSynced:
		return "synced"
	case SyncFailed:
		return "failed"
	}
	return "unknown"
}

// ListState is a copy of one sub-collection and its sync bookkeeping.
type ListState struct {
	Items    []string
	Dirty    bool
	Status   SyncStatus
	SyncedAt time.Time
	Message  string
}

// State is a point-in-time copy of the editor. Mutating it has no effect on
// the editor.
type State struct {
	// Open is false when no draft is loaded.
	Open bool
	// ID is empty for a new product that was never saved.
	ID       string
	Snapshot *catalog.Product
	Fields   catalog.Fields

	SlugMode  SlugMode
	SlugValid bool

	Dirty   bool
	Status  SaveStatus
	SavedAt time.Time
	Message string

	Lists map[catalog.Kind]ListState

	UploadErr string
}

// Persisted reports whether the draft has a server-side record.
func (s State) Persisted() bool {
	return s.ID != ""
}

type subList struct {
	items    []string
	dirty    bool
	rev      uint64
	status   SyncStatus
	syncedAt time.Time
	message  string
}

func (l *subList) state() ListState {
	return ListState{
		Items:    append([]string(nil), l.items...),
		Dirty:    l.dirty,
		Status:   l.status,
		SyncedAt: l.syncedAt,
		Message:  l.message,
	}
}

// touch records a local mutation of the list.
func (l *subList) touch() {
	l.dirty = true
	l.rev++
	l.status = SyncIdle
	l.message = ""
}

type draft struct {
	id       string
	snapshot *catalog.Product
	fields   catalog.Fields
	slugMode SlugMode

	dirty   bool
	rev     uint64
	status  SaveStatus
	savedAt time.Time
	message string

	timer    *time.Timer
	timerSeq uint64

	lists     map[catalog.Kind]*subList
	uploadErr string
}

func newDraft(p *catalog.Product) *draft {
	d := &draft{
		fields: catalog.Fields{},
		lists:  make(map[catalog.Kind]*subList, len(catalog.Kinds)),
	}
	for _, k := range catalog.Kinds {
		d.lists[k] = &subList{}
	}
	if p == nil {
		return d
	}

	d.id = p.ID
	d.snapshot = p.Clone()
	d.fields = p.Fields.Clone()
	if d.fields == nil {
		d.fields = catalog.Fields{}
	}
	for _, k := range catalog.Kinds {
		d.lists[k].items = append([]string(nil), p.Items(k)...)
	}

	name := d.fields.String(catalog.FieldName)
	slug := d.fields.String(catalog.FieldSlug)
	if slug != "" && slug != catalog.DeriveSlug(name) {
		d.slugMode = SlugManual
	}
	return d
}

func (d *draft) state() State {
	st := State{
		Open:      true,
		ID:        d.id,
		Snapshot:  d.snapshot.Clone(),
		Fields:    d.fields.Clone(),
		SlugMode:  d.slugMode,
		SlugValid: catalog.SlugValid(d.fields.String(catalog.FieldSlug)),
		Dirty:     d.dirty,
		Status:    d.status,
		SavedAt:   d.savedAt,
		Message:   d.message,
		Lists:     make(map[catalog.Kind]ListState, len(d.lists)),
		UploadErr: d.uploadErr,
	}
	for k, l := range d.lists {
		st.Lists[k] = l.state()
	}
	return st
}

func (d *draft) stopTimer() {
	d.timerSeq++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
