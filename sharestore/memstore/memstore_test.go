package memstore

import (
	"context"
	"testing"

	"github.com/ruteri/svalbard/svalbard"
	"github.com/stretchr/testify/require"
)

func TestStoreRetrieveDelete(t *testing.T) {
	ctx := context.Background()
	s := New()

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
	s := New()

	require.ErrorIs(t, s.Store(ctx, "", []byte("x")), svalbard.ErrInvalidShareID)
	require.ErrorIs(t, s.Store(ctx, "id", nil), svalbard.ErrInvalidShareValue)

	require.NoError(t, s.Store(ctx, "id", []byte("x")))
	require.ErrorIs(t, s.Store(ctx, "id", []byte("y")), svalbard.ErrShareAlreadyExists)
}

func TestDeleteAndRetrieveMissing(t *testing.T) {
	ctx := context.Background()
	s := New()

	_, err := s.Retrieve(ctx, "missing")
	require.ErrorIs(t, err, svalbard.ErrShareNotFound)

	require.ErrorIs(t, s.Delete(ctx, "missing"), svalbard.ErrShareNotFound)
}
