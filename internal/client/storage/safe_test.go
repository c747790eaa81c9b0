package storage

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/dmitrijs2005/medquery/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type brokenStorage struct {
	err   error
	panic bool
}

func (b *brokenStorage) fail() error {
	if b.panic {
		panic("quota exceeded")
	}
	return b.err
}

func (b *brokenStorage) Get(context.Context, string) ([]byte, error) { return nil, b.fail() }
func (b *brokenStorage) Set(context.Context, string, []byte) error   { return b.fail() }
func (b *brokenStorage) Delete(context.Context, ...string) error     { return b.fail() }

func bufLogger() (logging.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(&buf, nil))), &buf
}

func TestSafe_PassesThroughWorkingStorage(t *testing.T) {
	s := NewSafe(NewMemoryStorage(), nil)
	ctx := context.Background()

	require.True(t, s.Available())
	require.True(t, s.Set(ctx, "k", []byte("v")))

	v, ok := s.Get(ctx, "k")
	require.True(t, ok)
	assert.Equal(t, []byte("v"), v)

	require.True(t, s.Delete(ctx, "k"))
	_, ok = s.Get(ctx, "k")
	assert.False(t, ok)
}

func TestSafe_SwallowsErrors(t *testing.T) {
	log, buf := bufLogger()
	s := NewSafe(&brokenStorage{err: errors.New("disk full")}, log)
	ctx := context.Background()

	_, ok := s.Get(ctx, "k")
	assert.False(t, ok)
	assert.False(t, s.Set(ctx, "k", []byte("v")))
	assert.False(t, s.Delete(ctx, "k"))

	assert.Contains(t, buf.String(), "disk full")
	assert.Contains(t, buf.String(), "component=storage")
}

func TestSafe_RecoversPanics(t *testing.T) {
	log, buf := bufLogger()
	s := NewSafe(&brokenStorage{panic: true}, log)
	ctx := context.Background()

	require.NotPanics(t, func() {
		s.Get(ctx, "k")
		s.Set(ctx, "k", nil)
		s.Delete(ctx, "k")
	})
	assert.Contains(t, buf.String(), "quota exceeded")
}

func TestSafe_Headless(t *testing.T) {
	s := NewSafe(nil, nil)
	ctx := context.Background()

	assert.False(t, s.Available())
	_, ok := s.Get(ctx, "k")
	assert.False(t, ok)
	assert.False(t, s.Set(ctx, "k", []byte("v")))
	assert.False(t, s.Delete(ctx, "k"))
}

func TestMemoryStorage_CopiesValues(t *testing.T) {
	m := NewMemoryStorage()
	ctx := context.Background()

	in := []byte("abc")
	require.NoError(t, m.Set(ctx, "k", in))
	in[0] = 'x'

	out, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), out)
	assert.Equal(t, 1, m.Len())
}
