package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/lubecatalog/internal/catalog"
	"github.com/dmitrijs2005/lubecatalog/internal/editor"
)

func (a *App) New(ctx context.Context) error {
	if err := a.editor.New(); err != nil {
		return err
	}
	a.println("New product draft. Set a name and save to create it.")
	return nil
}

func (a *App) Open(ctx context.Context, id string) error {
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	if err := a.editor.Load(ctx, id); err != nil {
		return err
	}
	return a.Show(ctx)
}

func (a *App) Show(ctx context.Context) error {
	st := a.editor.Snapshot()
	if !st.Open {
		return editor.ErrNoDraft
	}
	a.println(formatDraft(st))
	return nil
}

func (a *App) Status(ctx context.Context) error {
	st := a.editor.Snapshot()
	if !st.Open {
		return editor.ErrNoDraft
	}
	a.println(formatStatus(st))
	return nil
}

// Set parses value according to the kind of field and applies it.
func (a *App) Set(ctx context.Context, name, value string) error {
	f, err := parseField(name)
	if err != nil {
		return err
	}

	var v any = value
	if k, _ := f.Kind(); k == catalog.KindBool {
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%s wants true or false", f)
		}
		v = b
	}

	if err := a.editor.SetField(f, v); err != nil {
		return err
	}

	st := a.editor.Snapshot()
	if f == catalog.FieldSlug || (f == catalog.FieldName && st.SlugMode == editor.SlugAuto) {
		a.println("slug:", formatSlug(st))
	}
	return nil
}

// Unset clears a field: NULL for nullable fields, "" for text and false for flags.
func (a *App) Unset(ctx context.Context, name string) error {
	f, err := parseField(name)
	if err != nil {
		return err
	}

	var v any
	switch k, _ := f.Kind(); k {
	case catalog.KindString:
		v = ""
	case catalog.KindBool:
		v = false
	case catalog.KindNullableString:
		v = nil
	}
	return a.editor.SetField(f, v)
}

func (a *App) Slug(ctx context.Context, mode string) error {
	var m editor.SlugMode
	switch mode {
	case "auto":
		m = editor.SlugAuto
	case "manual":
		m = editor.SlugManual
	default:
		return fmt.Errorf("unknown slug mode %q", mode)
	}

	if err := a.editor.SetSlugMode(m); err != nil {
		return err
	}
	a.println("slug:", formatSlug(a.editor.Snapshot()))
	return nil
}

func (a *App) Save(ctx context.Context) error {
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	err := a.editor.SaveNow(ctx)
	if err != nil && a.editor.Snapshot().Status == editor.StatusError {
		// already reported by the state watcher
		return nil
	}
	return err
}

func (a *App) CloseDraft(ctx context.Context) error {
	st := a.editor.Snapshot()
	if !st.Open {
		return editor.ErrNoDraft
	}
	if st.Dirty {
		a.println("Discarding unsaved changes.")
	}
	a.editor.Discard()
	return nil
}

var fieldsByName = func() map[string]catalog.Field {
	m := make(map[string]catalog.Field)
	for _, f := range catalog.AllFields() {
		m[strings.ToLower(string(f))] = f
	}
	return m
}()

// parseField resolves a field name case-insensitively.
func parseField(name string) (catalog.Field, error) {
	f, ok := fieldsByName[strings.ToLower(name)]
	if !ok {
		return "", fmt.Errorf("%w: %q", editor.ErrInvalidField, name)
	}
	return f, nil
}
