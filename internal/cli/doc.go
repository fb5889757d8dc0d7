// Package cli provides the interactive AuthVault terminal front end.
//
// It wires configuration, the local credential store, the session manager,
// and an interactive REPL whose available commands follow the route guard:
// while the session is loading nothing renders, an anonymous session offers
// the public commands (signup, login), and an authenticated session offers
// the protected ones (whoami, logout).
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App and runREPL for details.
package cli
