//go:build cgo

package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/clibridge/clibridge/internal/config"
)

func TestOpenInMemory(t *testing.T) {
	ctx := context.Background()

	s, err := Open(ctx, config.SessionsConfig{Path: ":memory:"})
	require.NoError(t, err)
	defer func() { _ = s.Close() }()

	require.Equal(t, "libsql", s.Driver())
	require.NoError(t, s.Ping(ctx))
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), config.SessionsConfig{
		Driver: "postgres",
		Path:   ":memory:",
	})
	require.Error(t, err)
}

func TestSessionForStableMapping(t *testing.T) {
	ctx := context.Background()

	s, err := Open(ctx, config.SessionsConfig{Path: ":memory:"})
	require.NoError(t, err)
	defer func() { _ = s.Close() }()

	first, err := s.SessionFor(ctx, "caller-a")
	require.NoError(t, err)
	require.NotEmpty(t, first)

	again, err := s.SessionFor(ctx, "caller-a")
	require.NoError(t, err)
	require.Equal(t, first, again)

	other, err := s.SessionFor(ctx, "caller-b")
	require.NoError(t, err)
	require.NotEqual(t, first, other)
}

func TestSessionForEmptyCaller(t *testing.T) {
	ctx := context.Background()

	s, err := Open(ctx, config.SessionsConfig{Path: ":memory:"})
	require.NoError(t, err)
	defer func() { _ = s.Close() }()

	id, err := s.SessionFor(ctx, "")
	require.NoError(t, err)
	require.Empty(t, id)
}

func TestDropSession(t *testing.T) {
	ctx := context.Background()

	s, err := Open(ctx, config.SessionsConfig{Path: ":memory:"})
	require.NoError(t, err)
	defer func() { _ = s.Close() }()

	first, err := s.SessionFor(ctx, "caller-a")
	require.NoError(t, err)

	require.NoError(t, s.DropSession(ctx, "caller-a"))

	second, err := s.SessionFor(ctx, "caller-a")
	require.NoError(t, err)
	require.NotEqual(t, first, second)
}
