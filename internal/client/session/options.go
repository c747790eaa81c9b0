package session

import "time"

type Option func(*Manager)

// WithVerifyTimeout bounds every current-user call the manager makes. Zero,
// the default, waits as long as the backend client does.
func WithVerifyTimeout(d time.Duration) Option {
	return func(m *Manager) {
		m.verifyTimeout = d
	}
}

type loginOptions struct {
	remember bool
}

type LoginOption func(*loginOptions)

// WithRemember keeps the access token in storage so the session survives a
// restart.
func WithRemember(remember bool) LoginOption {
	return func(o *loginOptions) {
		o.remember = remember
	}
}
