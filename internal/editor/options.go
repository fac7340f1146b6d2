package editor

import (
	"time"

	"github.com/dmitrijs2005/lubecatalog/internal/logging"
)

// DefaultAutoSaveDelay is the quiet period after the last edit before the
// draft is saved in the background.
const DefaultAutoSaveDelay = 2 * time.Second

// DefaultSaveTimeout bounds background saves, which have no caller context.
const DefaultSaveTimeout = 30 * time.Second

type Option func(*Editor)

// WithAutoSaveDelay sets the debounce delay. Non-positive values keep the default.
func WithAutoSaveDelay(d time.Duration) Option {
	return func(e *Editor) {
		if d > 0 {
			e.delay = d
		}
	}
}

// WithSaveTimeout sets the deadline of background saves.
func WithSaveTimeout(d time.Duration) Option {
	return func(e *Editor) {
		if d > 0 {
			e.saveTimeout = d
		}
	}
}

func WithLogger(l logging.Logger) Option {
	return func(e *Editor) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithClock replaces time.Now for save and sync timestamps.
func WithClock(now func() time.Time) Option {
	return func(e *Editor) {
		if now != nil {
			e.now = now
		}
	}
}
