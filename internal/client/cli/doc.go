// Package cli provides the interactive Aurahood command-line client.
//
// It wires configuration, the metadata storage backend, the authenticator,
// the session store and an interactive REPL. Views only see the session
// through session.Consumer: they read the current snapshot and request
// sign-in, registration, demo access, profile updates and sign-out.
//
// Key features:
//   - Register / Login / Demo, then the dashboard view
//   - Profile and Wallet screens for the signed-in identity
//   - Settings: field=value edits merged into the identity
//   - Logout, back to the landing view
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App, NewApp and runREPL for details.
package cli
