package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/lubecatalog/internal/catalog"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Login(ctx context.Context) error
	New(ctx context.Context) error
	Open(ctx context.Context, id string) error
	Show(ctx context.Context) error
	Status(ctx context.Context) error
	Set(ctx context.Context, field, value string) error
	Unset(ctx context.Context, field string) error
	Slug(ctx context.Context, mode string) error
	Save(ctx context.Context) error
	List(ctx context.Context, kind catalog.Kind, args []string) error
	Upload(ctx context.Context, kind, path string) error
	CloseDraft(ctx context.Context) error
}

const helpText = `Available commands:
  login                               log in again
  new                                 start a new product
  open <id>                           load a product
  show                                print the draft
  status                              print save and sync status
  set <field> <value...>              edit a field (slug edits switch to manual)
  unset <field>                       clear a field
  slug auto|manual                    choose how the slug is maintained
  save                                save now
  features|applications|packs list    print a sub-collection
    ... add <text...>                 append an item
    ... rm <index>                    remove an item
    ... mv <from> <to>                move an item
    ... sync                          replace the list on the server
  upload image|datasheet <path>       upload a file and link it
  close                               discard the draft
  exit | quit                         leave the program`

// runREPL starts a simple read–eval–print loop for the product editor.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Errors returned by handlers are
// printed and the loop goes on. The loop exits on scanner EOF or when the
// user types "exit" or "quit".
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("lube %s> ", statusFn()))
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]
		args := parts[1:]

		var err error
		switch cmd {
		case "help":
			printlnFn(helpText)

		case "login":
			err = a.Login(ctx)

		case "new":
			err = a.New(ctx)

		case "open":
			if len(args) != 1 {
				printlnFn("Usage: open <id>")
				continue
			}
			err = a.Open(ctx, args[0])

		case "show":
			err = a.Show(ctx)

		case "status":
			err = a.Status(ctx)

		case "set":
			if len(args) < 1 {
				printlnFn("Usage: set <field> <value...>")
				continue
			}
			err = a.Set(ctx, args[0], rest(line, 2))

		case "unset":
			if len(args) != 1 {
				printlnFn("Usage: unset <field>")
				continue
			}
			err = a.Unset(ctx, args[0])

		case "slug":
			if len(args) != 1 {
				printlnFn("Usage: slug auto|manual")
				continue
			}
			err = a.Slug(ctx, args[0])

		case "save":
			err = a.Save(ctx)

		case "features", "applications", "apps", "packs", "packSizes":
			kind, _ := catalog.ParseKind(cmd)
			if len(args) == 0 {
				args = []string{"list"}
			}
			if args[0] == "add" {
				// keep the item text as typed
				args = []string{"add", rest(line, 2)}
			}
			err = a.List(ctx, kind, args)

		case "upload":
			if len(args) != 2 {
				printlnFn("Usage: upload image|datasheet <path>")
				continue
			}
			err = a.Upload(ctx, args[0], args[1])

		case "close":
			err = a.CloseDraft(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if err != nil {
			printlnFn("Error:", err)
		}
	}
}

// rest returns line with its first n whitespace-separated tokens removed,
// keeping the spacing of what follows.
func rest(line string, n int) string {
	s := strings.TrimLeft(line, " \t")
	for i := 0; i < n; i++ {
		idx := strings.IndexAny(s, " \t")
		if idx < 0 {
			return ""
		}
		s = strings.TrimLeft(s[idx:], " \t")
	}
	return s
}
