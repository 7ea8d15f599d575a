package shareid

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGetLiteralVectors(t *testing.T) {
	got, err := Get("a", "b", "c")
	require.NoError(t, err)
	require.Equal(t, "e998ba073ec38976e56156523126e98679eb916063d8cb5f1d9bd8193467dc25", got)

	got, err = Get("abc", "xyz", "efg")
	require.NoError(t, err)
	require.Equal(t, "7d97f68401fb8217b4beab14598eb88af5b5ab8c4282731a67b464ad47e2793b", got)
}

func TestGetRejectsMissingFields(t *testing.T) {
	_, err := Get("", "b", "c")
	require.ErrorIs(t, err, ErrMissingOwnerType)

	_, err = Get("a", "", "c")
	require.ErrorIs(t, err, ErrMissingOwnerID)

	_, err = Get("a", "b", "")
	require.ErrorIs(t, err, ErrMissingSecretName)
}

func TestGetIsDeterministic(t *testing.T) {
	a, err := Get("file", "owner-1", "my-secret")
	require.NoError(t, err)
	b, err := Get("file", "owner-1", "my-secret")
	require.NoError(t, err)
	require.Equal(t, a, b)
}

func TestGetIsInjectiveOverDistinctTriples(t *testing.T) {
	a, err := Get("file", "owner-1", "my-secret")
	require.NoError(t, err)
	b, err := Get("file", "owner-2", "my-secret")
	require.NoError(t, err)
	require.NotEqual(t, a, b)
}
