// Package session reconciles the locally remembered login with what the
// backend says about it, and exposes login, signup and logout.
//
// A session starts Unresolved and leaves that state exactly once:
//
//   - no token: Unauthenticated, without calling the server;
//   - token and cached user: Authenticated at once, confirmed in the
//     background;
//   - token only: Start blocks until the server answers.
//
// Any answer from the server other than a user ends the session and clears
// the token and cached user. An unreachable server never ends an
// optimistic session.
//
// Transitions are computed by a pure reducer. Background results are
// tagged with the epoch they were issued under; a login or logout in the
// meantime advances the epoch and the late result is dropped.
package session
