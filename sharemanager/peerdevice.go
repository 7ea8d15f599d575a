package sharemanager

import (
	"context"

	"github.com/ruteri/svalbard/svalbard"
)

// PeerRequestFunc asks a peer device identified by location to perform
// one operation on a share, returning the share value for retrieval (nil
// otherwise). The peer is expected to prompt its own user interactively
// before complying.
type PeerRequestFunc func(ctx context.Context, secretName string, location svalbard.ShareLocation, op svalbard.Operation, shareValue []byte) ([]byte, error)

// PeerDeviceManager implements svalbard.ShareManager for
// svalbard.LocationPeerDevice: every operation is forwarded to Request,
// which is responsible for whatever interactive protocol the peer
// speaks (a push notification, a local network RPC, ...). This manager
// only shapes the three ShareManager calls into that single request
// function; it carries no transport of its own.
type PeerDeviceManager struct {
	Request PeerRequestFunc
}

// NewPeerDeviceManager builds a PeerDeviceManager dispatching through request.
func NewPeerDeviceManager(request PeerRequestFunc) *PeerDeviceManager {
	return &PeerDeviceManager{Request: request}
}

func (m *PeerDeviceManager) call(ctx context.Context, secretName string, location svalbard.ShareLocation, op svalbard.Operation, shareValue []byte) ([]byte, error) {
	if m.Request == nil {
		return nil, ErrManualActionRequired
	}
	return m.Request(ctx, secretName, location, op, shareValue)
}

// StoreShare implements svalbard.ShareManager.
func (m *PeerDeviceManager) StoreShare(ctx context.Context, secretName string, location svalbard.ShareLocation, _ string, shareValue []byte) error {
	_, err := m.call(ctx, secretName, location, svalbard.OpStoreShare, shareValue)
	return err
}

// RetrieveShare implements svalbard.ShareManager.
func (m *PeerDeviceManager) RetrieveShare(ctx context.Context, secretName string, location svalbard.ShareLocation, _ string) ([]byte, error) {
	return m.call(ctx, secretName, location, svalbard.OpRetrieveShare, nil)
}

// DeleteShare implements svalbard.ShareManager.
func (m *PeerDeviceManager) DeleteShare(ctx context.Context, secretName string, location svalbard.ShareLocation, _ string) error {
	_, err := m.call(ctx, secretName, location, svalbard.OpDeleteShare, nil)
	return err
}
