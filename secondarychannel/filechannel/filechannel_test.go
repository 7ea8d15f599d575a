package filechannel

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/ruteri/svalbard/svalbard"
	"github.com/stretchr/testify/require"
)

func TestSendWritesToPerRecipientFilesInclDuplicates(t *testing.T) {
	ctx := context.Background()
	rootDir := t.TempDir()
	sc := NewChannel(rootDir)

	tests := []struct {
		recipient svalbard.RecipientID
		data      svalbard.TokenMsgData
	}{
		{svalbard.RecipientID{IDType: "file", ID: "alice"}, svalbard.TokenMsgData{RequestID: "req42", Token: "asdfie"}},
		{svalbard.RecipientID{IDType: "FILE", ID: "Bob"}, svalbard.TokenMsgData{RequestID: "26g3", Token: "AEUHE"}},
		{svalbard.RecipientID{IDType: "FIle", ID: "Bob"}, svalbard.TokenMsgData{RequestID: "636328", Token: "yqggyod"}},
		{svalbard.RecipientID{IDType: "File", ID: "Mary"}, svalbard.TokenMsgData{RequestID: "3682a", Token: "Uye83gh"}},
		{svalbard.RecipientID{IDType: "FilE", ID: "Mary"}, svalbard.TokenMsgData{RequestID: "362843a", Token: "ABueyge63"}},
		{svalbard.RecipientID{IDType: "fILe", ID: "alice"}, svalbard.TokenMsgData{RequestID: "req42", Token: "asdfie"}},
		{svalbard.RecipientID{IDType: "fiLE", ID: "alice"}, svalbard.TokenMsgData{RequestID: "req42", Token: "asdfie"}},
	}

	expectedContent := make(map[string][]byte)
	for _, tt := range tests {
		require.NoError(t, sc.Send(ctx, tt.recipient, tt.data))

		msg, err := svalbard.GetMsgWithToken(tt.data)
		require.NoError(t, err)
		expectedContent[tt.recipient.ID] = append(expectedContent[tt.recipient.ID], []byte(msg+"\n")...)

		filename := filepath.Join(rootDir, tt.recipient.ID+"_secondary_channel.txt")
		actual, err := os.ReadFile(filename)
		require.NoError(t, err)
		require.Equal(t, expectedContent[tt.recipient.ID], actual)
	}
}

func TestReadTokenFindsTheRightRequest(t *testing.T) {
	ctx := context.Background()
	rootDir := t.TempDir()
	sc := NewChannel(rootDir)

	owner := svalbard.RecipientID{IDType: "FILE", ID: "alice"}
	require.NoError(t, sc.Send(ctx, owner, svalbard.TokenMsgData{RequestID: "req1", Token: "tok1"}))
	require.NoError(t, sc.Send(ctx, owner, svalbard.TokenMsgData{RequestID: "req2", Token: "tok2"}))

	token, err := sc.ReadToken(ctx, owner, "req2")
	require.NoError(t, err)
	require.Equal(t, "tok2", token)

	token, err = sc.ReadToken(ctx, owner, "req1")
	require.NoError(t, err)
	require.Equal(t, "tok1", token)

	_, err = sc.ReadToken(ctx, owner, "req-missing")
	require.ErrorIs(t, err, svalbard.ErrTokenNotFound)
}

func TestReadTokenRejectsUnsupportedOwnerIDType(t *testing.T) {
	ctx := context.Background()
	sc := NewChannel(t.TempDir())
	_, err := sc.ReadToken(ctx, svalbard.RecipientID{IDType: "SMS", ID: "alice"}, "req1")
	require.ErrorIs(t, err, svalbard.ErrUnsupportedOwnerIDType)
}

func TestSendRejectsUnsupportedOwnerIDTypes(t *testing.T) {
	ctx := context.Background()
	sc := NewChannel(t.TempDir())

	tests := []struct {
		recipient svalbard.RecipientID
		data      svalbard.TokenMsgData
	}{
		{svalbard.RecipientID{IDType: "SMS", ID: "alice"}, svalbard.TokenMsgData{RequestID: "req42", Token: "hehggeo"}},
		{svalbard.RecipientID{IDType: "email", ID: "Mary"}, svalbard.TokenMsgData{RequestID: "76263", Token: "662563"}},
		{svalbard.RecipientID{IDType: "foo", ID: "Bob"}, svalbard.TokenMsgData{RequestID: "63tg3", Token: "63hgg3"}},
	}
	for _, tt := range tests {
		require.ErrorIs(t, sc.Send(ctx, tt.recipient, tt.data), svalbard.ErrUnsupportedOwnerIDType)
	}
}
