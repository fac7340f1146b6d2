package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/dmitrijs2005/lubecatalog/internal/catalog"
	"github.com/dmitrijs2005/lubecatalog/internal/editor"
)

// List runs one sub-collection command: list, add, rm, mv or sync.
func (a *App) List(ctx context.Context, kind catalog.Kind, args []string) error {
	l := a.editor.List(kind)

	switch args[0] {
	case "list", "ls":
		items, err := l.Items()
		if err != nil {
			return err
		}
		a.println(formatItems(kind, items))
		return nil

	case "add":
		if len(args) < 2 || args[1] == "" {
			return fmt.Errorf("usage: %s add <text...>", kind)
		}
		return l.Add(args[1])

	case "rm":
		if len(args) != 2 {
			return fmt.Errorf("usage: %s rm <index>", kind)
		}
		i, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("bad index %q", args[1])
		}
		return l.Remove(i)

	case "mv":
		if len(args) != 3 {
			return fmt.Errorf("usage: %s mv <from> <to>", kind)
		}
		from, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("bad index %q", args[1])
		}
		to, err := strconv.Atoi(args[2])
		if err != nil {
			return fmt.Errorf("bad index %q", args[2])
		}
		return l.Reorder(from, to)

	case "sync":
		ctx, cancel := a.withTimeout(ctx)
		defer cancel()
		err := l.Sync(ctx)
		if err != nil && a.editor.Snapshot().Lists[kind].Status == editor.SyncFailed {
			// already reported by the state watcher
			return nil
		}
		return err
	}

	return fmt.Errorf("unknown %s command %q", kind, args[0])
}
