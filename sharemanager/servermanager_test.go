package sharemanager

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ruteri/svalbard/custodyserver"
	"github.com/ruteri/svalbard/secondarychannel/filechannel"
	"github.com/ruteri/svalbard/sharestore/memstore"
	"github.com/ruteri/svalbard/svalbard"
	"github.com/ruteri/svalbard/tokenstore"
	"github.com/stretchr/testify/require"
)

func newTestCustodyServer(t *testing.T) (*httptest.Server, *filechannel.Channel) {
	t.Helper()
	tokens, err := tokenstore.NewStore(5, 5*time.Second)
	require.NoError(t, err)
	channel := filechannel.NewChannel(t.TempDir())
	handler := custodyserver.NewServer(tokens, memstore.New(), channel)

	mux := http.NewServeMux()
	mux.HandleFunc("/get_storage_token", handler.GetStorageTokenHandler)
	mux.HandleFunc("/store_share", handler.StoreShareHandler)
	mux.HandleFunc("/get_retrieval_token", handler.GetRetrievalTokenHandler)
	mux.HandleFunc("/retrieve_share", handler.RetrieveShareHandler)
	mux.HandleFunc("/get_deletion_token", handler.GetDeletionTokenHandler)
	mux.HandleFunc("/delete_share", handler.DeleteShareHandler)

	srv := httptest.NewTLSServer(mux)
	return srv, channel
}

func TestServerManagerStoreRetrieveDeleteRoundTrip(t *testing.T) {
	srv, channel := newTestCustodyServer(t)
	defer srv.Close()

	manager := NewServerManager(srv.Client(), channel)
	location := svalbard.ShareLocation{
		Type:        svalbard.LocationServer,
		Name:        srv.URL,
		OwnerIDType: "FILE",
		OwnerID:     "alice",
	}
	ctx := context.Background()
	shareValue := []byte{0x01, 0x02, 0xFF, 0x00, 0x10}

	require.NoError(t, manager.StoreShare(ctx, "my-secret", location, "req1", shareValue))

	got, err := manager.RetrieveShare(ctx, "my-secret", location, "req2")
	require.NoError(t, err)
	require.Equal(t, shareValue, got)

	require.NoError(t, manager.DeleteShare(ctx, "my-secret", location, "req3"))

	_, err = manager.RetrieveShare(ctx, "my-secret", location, "req4")
	require.Error(t, err)
}

func TestServerManagerRejectsNonHTTPSLocation(t *testing.T) {
	manager := NewServerManager(nil, nil)
	location := svalbard.ShareLocation{
		Type:        svalbard.LocationServer,
		Name:        "http://insecure.example",
		OwnerIDType: "FILE",
		OwnerID:     "alice",
	}
	err := manager.StoreShare(context.Background(), "secret", location, "req1", []byte("x"))
	require.Error(t, err)
}
