package pebblestore

import (
	"context"
	"testing"

	"github.com/ruteri/svalbard/svalbard"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := OpenOrCreate(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, s.Close()) })
	return s
}

func TestStoreRetrieveDelete(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	require.NoError(t, s.Store(ctx, "id1", []byte("share bytes")))

	got, err := s.Retrieve(ctx, "id1")
	require.NoError(t, err)
	require.Equal(t, []byte("share bytes"), got)

	require.NoError(t, s.Delete(ctx, "id1"))
	_, err = s.Retrieve(ctx, "id1")
	require.ErrorIs(t, err, svalbard.ErrShareNotFound)
}

func TestStoreRejectsDuplicateAndEmptyInputs(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	require.ErrorIs(t, s.Store(ctx, "", []byte("x")), svalbard.ErrInvalidShareID)
	require.ErrorIs(t, s.Store(ctx, "id", nil), svalbard.ErrInvalidShareValue)

	require.NoError(t, s.Store(ctx, "id", []byte("x")))
	require.ErrorIs(t, s.Store(ctx, "id", []byte("y")), svalbard.ErrShareAlreadyExists)
}

func TestDataSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	s1, err := OpenOrCreate(dir)
	require.NoError(t, err)
	require.NoError(t, s1.Store(ctx, "durable-id", []byte("durable value")))
	require.NoError(t, s1.Close())

	s2, err := OpenOrCreate(dir)
	require.NoError(t, err)
	defer s2.Close()
	got, err := s2.Retrieve(ctx, "durable-id")
	require.NoError(t, err)
	require.Equal(t, []byte("durable value"), got)
}
