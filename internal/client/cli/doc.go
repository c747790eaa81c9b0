// Package cli provides the interactive MedQuery command-line client.
//
// It wires configuration, local session storage, the API client, the session
// manager and the assistant service, then runs an interactive REPL. Typical
// flow: resolve the remembered session, greet the user, execute commands.
//
// Key features:
//   - Signup / Login (optionally remembered) / Logout / WhoAmI
//   - Ask the assistant and review recent questions
//   - Upload, list, search and download documents
//   - Search PubMed and show paper details
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App, runREPL and the session package for details.
package cli
