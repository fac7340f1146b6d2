// Package cli provides the interactive product editor.
//
// It wires configuration, the catalog client and the draft engine into a
// REPL. Typical flow: log in, open or create a product, edit fields and
// sub-collections, and watch background saves being reported as they happen.
//
// Key features:
//   - login, new, open <id>, close
//   - show / status of the open draft
//   - set <field> <value>, unset <field>, slug auto|manual, save
//   - features|applications|packs list|add|rm|mv|sync
//   - upload image|datasheet <path>
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App, runREPL and watchState for details.
package cli
