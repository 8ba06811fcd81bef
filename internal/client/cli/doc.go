// Package cli provides the interactive gymadmin command-line client.
//
// It wires configuration, the local credential store, API services and one
// list view per collection (members, classes, payments) into a REPL. Typical
// flow: restore or prompt for a session, start a background session
// watcher, then execute operator commands against the current screen.
//
// Key features:
//   - Login / Logout, with the session revalidated in the background
//   - Members, classes and payments screens with search, status filter and
//     page navigation
//   - Add / edit / delete (with confirmation) on the current screen
//   - Dashboard metrics, membership report, branding and card access checks
//
// The REPL is started via App.Run(ctx), which blocks until the operator exits.
// See App, StartSessionWatcher and runREPL for details.
package cli
