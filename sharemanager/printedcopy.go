package sharemanager

import (
	"context"
	"errors"

	"github.com/ruteri/svalbard/svalbard"
)

// ErrManualActionRequired is returned by PrintedCopyManager and
// PeerDeviceManager when no callback was configured for an operation that
// can only be completed by a human or another device, never silently.
var ErrManualActionRequired = errors.New("sharemanager: manual action required")

// PrintFunc hands a freshly produced share to whatever process turns it
// into a physical copy (a label printer, a QR code on screen, ...).
type PrintFunc func(ctx context.Context, secretName string, location svalbard.ShareLocation, shareValue []byte) error

// ReadBackFunc prompts a human to transcribe a printed share back in
// during recovery.
type ReadBackFunc func(ctx context.Context, secretName string, location svalbard.ShareLocation) ([]byte, error)

// PrintedCopyManager implements svalbard.ShareManager for
// svalbard.LocationPrintedCopy: a share at this location lives on paper,
// so "storage" means handing it to Print and "retrieval" means asking a
// human to read it back via ReadBack. Deletion of a printed copy is
// inherently out of band (shredding a piece of paper), so DeleteShare
// always fails with ErrManualActionRequired.
type PrintedCopyManager struct {
	Print    PrintFunc
	ReadBack ReadBackFunc
}

// NewPrintedCopyManager builds a PrintedCopyManager. Either callback may
// be nil, in which case the corresponding operation fails with
// ErrManualActionRequired instead of panicking.
func NewPrintedCopyManager(print PrintFunc, readBack ReadBackFunc) *PrintedCopyManager {
	return &PrintedCopyManager{Print: print, ReadBack: readBack}
}

// StoreShare implements svalbard.ShareManager.
func (m *PrintedCopyManager) StoreShare(ctx context.Context, secretName string, location svalbard.ShareLocation, _ string, shareValue []byte) error {
	if m.Print == nil {
		return ErrManualActionRequired
	}
	return m.Print(ctx, secretName, location, shareValue)
}

// RetrieveShare implements svalbard.ShareManager.
func (m *PrintedCopyManager) RetrieveShare(ctx context.Context, secretName string, location svalbard.ShareLocation, _ string) ([]byte, error) {
	if m.ReadBack == nil {
		return nil, ErrManualActionRequired
	}
	return m.ReadBack(ctx, secretName, location)
}

// DeleteShare implements svalbard.ShareManager. Destroying a printed
// copy happens outside this process entirely.
func (m *PrintedCopyManager) DeleteShare(context.Context, string, svalbard.ShareLocation, string) error {
	return ErrManualActionRequired
}
