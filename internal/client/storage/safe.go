package storage

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/medquery/internal/logging"
)

// Safe wraps a Storage so that no failure escapes: errors and panics are
// logged at warn level and reported as a false/absent result. A Safe over a
// nil Storage is the headless variant: reads find nothing, writes do nothing.
type Safe struct {
	s   Storage
	log logging.Logger
}

func NewSafe(s Storage, log logging.Logger) *Safe {
	return &Safe{s: s, log: logging.Component(log, "storage")}
}

// Available reports whether a persistent backend is attached.
func (s *Safe) Available() bool {
	return s.s != nil
}

// Get returns the value and true, or nil and false when the key is absent,
// storage is unavailable, or the read failed.
func (s *Safe) Get(ctx context.Context, key string) ([]byte, bool) {
	if s.s == nil {
		return nil, false
	}
	var value []byte
	err := guard(func() error {
		var err error
		value, err = s.s.Get(ctx, key)
		return err
	})
	if err != nil {
		s.log.Warn(ctx, "storage read failed", "key", key, "error", err)
		return nil, false
	}
	return value, value != nil
}

// Set reports whether the write reached storage.
func (s *Safe) Set(ctx context.Context, key string, value []byte) bool {
	if s.s == nil {
		return false
	}
	if err := guard(func() error { return s.s.Set(ctx, key, value) }); err != nil {
		s.log.Warn(ctx, "storage write failed", "key", key, "error", err)
		return false
	}
	return true
}

// Delete reports whether the removal reached storage.
func (s *Safe) Delete(ctx context.Context, keys ...string) bool {
	if s.s == nil {
		return false
	}
	if err := guard(func() error { return s.s.Delete(ctx, keys...) }); err != nil {
		s.log.Warn(ctx, "storage delete failed", "keys", keys, "error", err)
		return false
	}
	return true
}

func guard(fn func() error) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("storage panic: %v", p)
		}
	}()
	return fn()
}
