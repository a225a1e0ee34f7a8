// Package cli provides the interactive chatdesk console.
//
// It wires configuration, the key/value store and its change bus, the API
// client and the services, and drives the views from a REPL. Typical flow:
// restore the previous session, then read commands until the user exits.
//
// Key features:
//   - Account flows: register, verify, set/reset password, login, logout
//   - Profile and password changes
//   - Chat roster: list, start, open, rename, delete
//   - Return to the sign-in screen when the backend expires the session
//
// The REPL is started via App.Root(ctx), which blocks until the user exits.
// See App, App.Navigate and runREPL for details.
package cli
