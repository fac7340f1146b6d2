package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/lubecatalog/internal/catalog"
	"github.com/dmitrijs2005/lubecatalog/internal/editor"
	"github.com/fatih/color"
)

var (
	green  = color.New(color.FgGreen).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	faint  = color.New(color.Faint).SprintFunc()
)

func (a *App) getStatus() string {
	var parts []string
	if a.userName != "" {
		parts = append(parts, a.userName)
	}

	st := a.editor.Snapshot()
	if st.Open {
		id := st.ID
		if id == "" {
			id = "new"
		}
		parts = append(parts, id)
		if st.Dirty {
			parts = append(parts, yellow("*"))
		}
	}

	if len(parts) == 0 {
		return ""
	}
	return "(" + strings.Join(parts, " ") + ") "
}

func colorSaveStatus(st editor.State) string {
	switch st.Status {
	case editor.StatusSaving:
		return yellow("saving")
	case editor.StatusSaved:
		return green("saved")
	case editor.StatusError:
		return red("error")
	}
	return st.Status.String()
}

func colorSyncStatus(s editor.SyncStatus) string {
	switch s {
	case editor.SyncSyncing:
		return yellow("syncing")
	case editor.SyncSynced:
		return green("synced")
	case editor.SyncFailed:
		return red("failed")
	}
	return s.String()
}

func formatSlug(st editor.State) string {
	slug := st.Fields.String(catalog.FieldSlug)
	s := fmt.Sprintf("%q (%s)", slug, st.SlugMode)
	if !st.SlugValid {
		s += " " + red("invalid, not sent while manual")
	}
	return s
}

func formatValue(v any) string {
	switch x := v.(type) {
	case string:
		return fmt.Sprintf("%q", x)
	case bool:
		return fmt.Sprintf("%t", x)
	case *string:
		if x == nil {
			return faint("null")
		}
		return fmt.Sprintf("%q", *x)
	}
	return faint("-")
}

func formatDraft(st editor.State) string {
	var b strings.Builder

	id := st.ID
	if id == "" {
		id = "(not saved yet)"
	}
	fmt.Fprintf(&b, "product %s\n", id)

	for _, f := range catalog.AllFields() {
		v, ok := st.Fields[f]
		if !ok {
			v = nil
		}
		line := fmt.Sprintf("  %-17s %s", f, formatValue(v))
		if f == catalog.FieldSlug {
			line = fmt.Sprintf("  %-17s %s", f, formatSlug(st))
		}
		b.WriteString(line + "\n")
	}

	for _, k := range catalog.Kinds {
		b.WriteString(formatItems(k, st.Lists[k].Items) + "\n")
	}
	b.WriteString(formatStatus(st))
	return b.String()
}

func formatItems(kind catalog.Kind, items []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s (%d)", kind, len(items))
	for i, it := range items {
		fmt.Fprintf(&b, "\n  [%d] %s", i, it)
	}
	return b.String()
}

func formatStatus(st editor.State) string {
	var b strings.Builder

	fmt.Fprintf(&b, "record: %s", colorSaveStatus(st))
	if st.Dirty {
		b.WriteString(", unsaved changes")
	}
	if !st.SavedAt.IsZero() {
		fmt.Fprintf(&b, ", last saved %s", st.SavedAt.Format(time.TimeOnly))
	}
	if st.Message != "" {
		fmt.Fprintf(&b, ": %s", st.Message)
	}

	for _, k := range catalog.Kinds {
		ls := st.Lists[k]
		fmt.Fprintf(&b, "\n%s: %s", k, colorSyncStatus(ls.Status))
		if ls.Dirty {
			b.WriteString(", not synced")
		}
		if ls.Message != "" {
			fmt.Fprintf(&b, ": %s", ls.Message)
		}
	}

	if st.UploadErr != "" {
		fmt.Fprintf(&b, "\nupload: %s", red(st.UploadErr))
	}
	return b.String()
}
