package svalbard

import "context"

// ShareStore persists opaque second-level share blobs keyed by a share id
// (see shareid.Get). Implementations must be safe for concurrent use.
type ShareStore interface {
	// Store creates a new entry for shareID. It returns ErrShareAlreadyExists
	// if one is already present: stores never overwrite silently.
	Store(ctx context.Context, shareID string, value []byte) error
	// Retrieve returns the value previously stored under shareID, or
	// ErrShareNotFound.
	Retrieve(ctx context.Context, shareID string) ([]byte, error)
	// Delete removes the entry for shareID, or returns ErrShareNotFound.
	Delete(ctx context.Context, shareID string) error
}

// SecondaryChannel delivers a one-way message to a recipient over a
// channel distinct from the one the request itself travelled on, so that
// possession of neither channel alone is enough to exfiltrate a share.
type SecondaryChannel interface {
	Send(ctx context.Context, recipient RecipientID, data TokenMsgData) error
}

// ShareManager stores, retrieves, and deletes shares for one ShareLocation
// type. For LocationServer this is the token dance: request a token over
// the secondary channel, then use it on the custody server.
type ShareManager interface {
	StoreShare(ctx context.Context, secretName string, location ShareLocation, requestID string, shareValue []byte) error
	RetrieveShare(ctx context.Context, secretName string, location ShareLocation, requestID string) ([]byte, error)
	DeleteShare(ctx context.Context, secretName string, location ShareLocation, requestID string) error
}

// TokenReader is the client side of a SecondaryChannel: it reads back a
// token the server delivered out-of-band for one request id, addressed
// to one recipient.
type TokenReader interface {
	ReadToken(ctx context.Context, recipient RecipientID, requestID string) (string, error)
}
