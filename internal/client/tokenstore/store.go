// Package tokenstore holds the process-wide access token together with its
// persistence mode.
//
// The in-memory token is authoritative while the process runs. A token is
// written through to storage only when the caller asks for it to be durable;
// an ephemeral token lives in memory alone and is gone after a restart.
// Storage failures never surface as errors: the store keeps working from
// memory and logs a warning.
package tokenstore

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/medquery/internal/client/storage"
	"github.com/dmitrijs2005/medquery/internal/logging"
)

// Mode says where the access token is kept.
type Mode string

const (
	// ModeEphemeral keeps the token in memory only.
	ModeEphemeral Mode = "ephemeral"
	// ModeDurable also writes the token to storage so it survives a restart.
	ModeDurable Mode = "durable"
)

func parseMode(b []byte) Mode {
	if Mode(b) == ModeDurable {
		return ModeDurable
	}
	return ModeEphemeral
}

// Store is safe for concurrent use. Token is read on every outbound request.
type Store struct {
	mu          sync.RWMutex
	token       string
	initialized bool

	storage *storage.Safe
	log     logging.Logger
}

// New builds a store over s. A nil s means no persistent storage is
// available: the store works in memory and Mode always reports ephemeral.
func New(s storage.Storage, log logging.Logger) *Store {
	log = logging.Component(log, "tokenstore")
	return &Store{storage: storage.NewSafe(s, log), log: log}
}

// Initialize loads a durable token from storage. Only the first call has an
// effect.
func (s *Store) Initialize(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.initialized {
		return
	}
	s.initialized = true

	mode, _ := s.storage.Get(ctx, storage.KeyAccessTokenMode)
	if parseMode(mode) != ModeDurable {
		return
	}
	if token, ok := s.storage.Get(ctx, storage.KeyAccessToken); ok && len(token) > 0 {
		s.token = string(token)
		s.log.Debug(ctx, "durable token restored")
	}
}

// SetToken replaces the in-memory token. With persist the token and the
// durable marker are written to storage; without it any persisted token is
// removed and the marker is set to ephemeral.
func (s *Store) SetToken(ctx context.Context, token string, persist bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = token
	s.initialized = true

	if persist {
		s.storage.Set(ctx, storage.KeyAccessToken, []byte(token))
		s.storage.Set(ctx, storage.KeyAccessTokenMode, []byte(ModeDurable))
		return
	}
	s.storage.Delete(ctx, storage.KeyAccessToken)
	s.storage.Set(ctx, storage.KeyAccessTokenMode, []byte(ModeEphemeral))
}

// Clear forgets the token in memory and in storage, whatever its mode.
func (s *Store) Clear(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = ""
	s.storage.Delete(ctx, storage.KeyAccessToken, storage.KeyAccessTokenMode)
}

// Token returns the in-memory token. It never touches storage.
func (s *Store) Token() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token, s.token != ""
}

func (s *Store) HasToken() bool {
	_, ok := s.Token()
	return ok
}

// Mode reads the persisted marker on every call. Missing, unknown or
// unreadable markers read as ephemeral.
func (s *Store) Mode(ctx context.Context) Mode {
	mode, _ := s.storage.Get(ctx, storage.KeyAccessTokenMode)
	return parseMode(mode)
}
