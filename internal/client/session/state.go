package session

import "github.com/dmitrijs2005/medquery/internal/client/models"

// Status is the coarse session state.
type Status int

const (
	// Unresolved is the initial state, before startup reconciliation has
	// decided. It is never re-entered.
	Unresolved Status = iota
	Unauthenticated
	Authenticated
)

func (s Status) String() string {
	switch s {
	case Unresolved:
		return "unresolved"
	case Unauthenticated:
		return "unauthenticated"
	case Authenticated:
		return "authenticated"
	}
	return "unknown"
}

// State is an immutable snapshot of the session.
//
// User is set only when Status is Authenticated. Verified is false while the
// user comes from the local cache and the server has not yet confirmed it.
// Epoch counts explicit logins and logouts; results of calls issued under an
// older epoch are discarded.
type State struct {
	Status   Status
	User     *models.User
	Verified bool
	Epoch    uint64
}

func (s State) Authenticated() bool {
	return s.Status == Authenticated
}

type eventKind int

const (
	evNoToken eventKind = iota
	evCacheHit
	evVerified
	evRejected
	evUnreachable
	evLoginStarted
	evLoggedIn
	evLoggedOut
)

var eventNames = map[eventKind]string{
	evNoToken:     "no_token",
	evCacheHit:    "cache_hit",
	evVerified:    "verified",
	evRejected:    "rejected",
	evUnreachable: "unreachable",
	evLoginStarted: "login_started",
	evLoggedIn:    "logged_in",
	evLoggedOut:   "logged_out",
}

func (k eventKind) String() string {
	if n, ok := eventNames[k]; ok {
		return n
	}
	return "unknown"
}

// event is an input to reduce. Verification outcomes carry the epoch they
// were issued under.
type event struct {
	kind  eventKind
	user  *models.User
	epoch uint64
}

// fenced reports whether e is a verification outcome issued under an epoch
// that is no longer current.
func fenced(s State, e event) bool {
	switch e.kind {
	case evVerified, evRejected, evUnreachable:
		return e.epoch != s.Epoch
	}
	return false
}

// reduce computes the next state. ok is false when e was fenced off and s is
// returned unchanged. It has no side effects; persisting the cached user and
// clearing the token are left to the manager.
func reduce(s State, e event) (next State, ok bool) {
	if fenced(s, e) {
		return s, false
	}
	return transition(s, e), true
}

func transition(s State, e event) State {

	switch e.kind {
	case evNoToken:
		if s.Status == Unresolved {
			return State{Status: Unauthenticated, Epoch: s.Epoch}
		}
	case evCacheHit:
		if s.Status == Unresolved && e.user != nil {
			return State{Status: Authenticated, User: e.user, Epoch: s.Epoch}
		}
	case evVerified:
		if e.user != nil {
			return State{Status: Authenticated, User: e.user, Verified: true, Epoch: s.Epoch}
		}
	case evRejected:
		return State{Status: Unauthenticated, Epoch: s.Epoch}
	case evUnreachable:
		// An optimistic session survives a network failure; a blocked
		// startup resolves without a user.
		if s.Status == Unresolved {
			return State{Status: Unauthenticated, Epoch: s.Epoch}
		}
	case evLoginStarted:
		// A new token is about to be issued. Outcomes of earlier calls no
		// longer speak for the session.
		s.Epoch++
		return s
	case evLoggedIn:
		if e.user != nil {
			return State{Status: Authenticated, User: e.user, Verified: true, Epoch: s.Epoch}
		}
	case evLoggedOut:
		return State{Status: Unauthenticated, Epoch: s.Epoch + 1}
	}
	return s
}
