package cli

import (
	"fmt"
	"time"

	"github.com/dmitrijs2005/lubecatalog/internal/catalog"
	"github.com/dmitrijs2005/lubecatalog/internal/editor"
)

// watchState prints save and sync outcomes as they arrive until states is
// closed. Intermediate states are not reported.
func (a *App) watchState(states <-chan editor.State) {
	var prev editor.State
	for st := range states {
		for _, msg := range stateChanges(prev, st) {
			a.println(msg)
		}
		prev = st
	}
}

// stateChanges lists the user-visible outcomes between two states.
func stateChanges(prev, cur editor.State) []string {
	if !cur.Open {
		return nil
	}

	var out []string

	if cur.Status != prev.Status || !cur.SavedAt.Equal(prev.SavedAt) || cur.Message != prev.Message {
		switch cur.Status {
		case editor.StatusSaved:
			out = append(out, fmt.Sprintf("%s %s at %s", green("saved"), cur.ID, cur.SavedAt.Format(time.TimeOnly)))
		case editor.StatusError:
			out = append(out, fmt.Sprintf("%s %s", red("save failed:"), cur.Message))
		}
	}

	for _, k := range catalog.Kinds {
		p, c := prev.Lists[k], cur.Lists[k]
		if c.Status == p.Status && c.SyncedAt.Equal(p.SyncedAt) && c.Message == p.Message {
			continue
		}
		switch c.Status {
		case editor.SyncSynced:
			out = append(out, fmt.Sprintf("%s %s", k, green("synced")))
		case editor.SyncFailed:
			out = append(out, fmt.Sprintf("%s %s %s", k, red("sync failed:"), c.Message))
		}
	}
	return out
}
