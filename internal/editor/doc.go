// Package editor implements the draft engine behind the product editor.
//
// # Overview
//
// An Editor holds one product draft at a time. It keeps the last record
// confirmed by the server (the snapshot) apart from the locally edited
// fields, derives the URL slug from the name while in auto slug mode, and
// persists edits through a Backend:
//
//  1. SetField mutates local state synchronously and arms a debounce timer.
//     When the timer fires the draft is saved in the background.
//  2. SaveNow saves immediately. It cancels the pending timer and waits for
//     any save already in flight, so its patch is always built from the
//     latest local fields.
//  3. The ordered sub-collections (features, applications, pack sizes) are
//     edited through List handles and pushed with an explicit Sync that
//     replaces the whole list on the server.
//
// # Saves
//
// Saves never overlap. An autosave that fires while another save is in
// flight does nothing; once that save settles the timer is re-armed if the
// draft was edited in the meantime. A successful save clears the dirty flag
// only when no edit happened after its patch was built.
//
// # Observing state
//
// Failures are recorded in the editor state as well as returned. Snapshot
// returns a copy of the current State; Subscribe delivers the latest State
// after each change on a channel that keeps only the newest value.
package editor
