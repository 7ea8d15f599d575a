// Package sharemanager provides svalbard.ShareManager implementations for
// each supported custody location type, and a small registry that
// dispatches by LocationType — the Go analogue of the reference client's
// per-LocationType manager selection in ServerShareManager/ShareManager.
package sharemanager

import (
	"github.com/ruteri/svalbard/svalbard"
)

// NewRegistry builds the map[LocationType]ShareManager that
// svalbard.NewClient expects, one entry per non-nil manager supplied.
// Callers typically pass a *ServerManager for LocationServer and,
// optionally, a *PrintedCopyManager / *PeerDeviceManager for the
// offline location types.
func NewRegistry(server, printedCopy, peerDevice svalbard.ShareManager) map[svalbard.LocationType]svalbard.ShareManager {
	registry := make(map[svalbard.LocationType]svalbard.ShareManager)
	if server != nil {
		registry[svalbard.LocationServer] = server
	}
	if printedCopy != nil {
		registry[svalbard.LocationPrintedCopy] = printedCopy
	}
	if peerDevice != nil {
		registry[svalbard.LocationPeerDevice] = peerDevice
	}
	return registry
}
