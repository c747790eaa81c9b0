// Package logging is the client's structured-logging seam.
//
// Packages take a Logger at construction and tag it with Component. Levels
// are used consistently: Debug for per-request detail, Info for session
// transitions and user actions, Warn for failures the client absorbs (storage
// errors, unverifiable sessions) and Error for failures it reports. Access
// tokens and passwords are never passed as args.
package logging

import "context"

// ComponentKey is the attribute that names the emitting package.
const ComponentKey = "component"

// Logger is a context-aware, structured logger. Args are key/value pairs:
//
//	log.Info(ctx, "session resolved", "status", st.Status, "reason", "cached user")
type Logger interface {
	Debug(ctx context.Context, msg string, args ...any)
	Info(ctx context.Context, msg string, args ...any)
	Warn(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger that always includes args.
	With(args ...any) Logger
}

// Component returns l tagged with name. A nil l yields a discarding logger.
func Component(l Logger, name string) Logger {
	if l == nil {
		l = Nop()
	}
	return l.With(ComponentKey, name)
}
