// Package svalbard defines the core data types, error taxonomy, and the
// two-level Shamir sharing client for long-term custody of short,
// high-value secrets. It is the shared vocabulary used by tokenstore,
// sharestore, secondarychannel, sharemanager and custodyserver.
package svalbard

// LocationType names the kind of custodian a ShareLocation points at.
type LocationType string

const (
	// LocationServer is a Svalbard custody HTTP server reachable over the
	// network, requiring a token obtained via a secondary channel.
	LocationServer LocationType = "SVALBARD_SERVER"
	// LocationPrintedCopy is a physical, offline copy of a share (e.g. on
	// paper), which a human must transcribe back in during recovery.
	LocationPrintedCopy LocationType = "PRINTED_COPY"
	// LocationPeerDevice is a share held by a peer device that must be
	// interactively asked to release it.
	LocationPeerDevice LocationType = "PEER_DEVICE"
)

// Operation names one of the three actions a custody token authorizes.
type Operation string

const (
	OpStoreShare    Operation = "store_share"
	OpRetrieveShare Operation = "retrieve_share"
	OpDeleteShare   Operation = "delete_share"
)

// ShareLocation identifies where one share of a sharing lives.
type ShareLocation struct {
	// Type selects which ShareManager handles this location.
	Type LocationType
	// Name is the location's address: an "https"-prefixed base URL for
	// LocationServer, a human-readable label otherwise.
	Name string
	// OwnerIDType and OwnerID identify, together with the secret name, the
	// share stored at this location (see shareid.Get).
	OwnerIDType string
	OwnerID     string
}

// Scheme names the field this sharing's shares are points over, so future
// field changes are detected rather than silently misinterpreted.
type Scheme struct {
	FieldID string
	K       int
	N       int
}

// ShareMetadata records everything needed to retrieve and verify one share
// of a sharing, without revealing the share value itself.
type ShareMetadata struct {
	Location  ShareLocation
	ShareHash []byte
}

// SharingMetadata is everything needed to recover a secret, other than the
// shares themselves: the scheme, the integrity material, and where every
// share lives.
type SharingMetadata struct {
	Scheme      Scheme
	SecretName  string
	SecretMask  []byte
	HashSalt    []byte
	Shares      []ShareMetadata
}

// RecipientID names the party a secondary channel message is addressed to.
type RecipientID struct {
	IDType string
	ID     string
}

// TokenMsgData is the payload carried over a secondary channel: a token
// authorizing one operation against one request.
type TokenMsgData struct {
	RequestID string
	Token     string
}
