package svalbard

import "errors"

// Errors returned by the ShareStore interface. Implementations (memstore,
// pebblestore) must return these sentinels so callers can branch on outcome
// without depending on a particular backend's error types.
var (
	ErrInvalidShareID    = errors.New("svalbard: invalid share id")
	ErrInvalidShareValue = errors.New("svalbard: invalid share value")
	ErrShareAlreadyExists = errors.New("svalbard: share already exists")
	ErrShareNotFound     = errors.New("svalbard: share not found")
)

// Errors returned while validating or computing a salted hash.
var (
	ErrSaltTooShort = errors.New("svalbard: hash salt must not be empty")
	ErrSaltTooLong  = errors.New("svalbard: hash salt must be at most 255 bytes")
)

// Errors returned while issuing or validating a custody token.
var (
	ErrTokenNotFound = errors.New("svalbard: token not found")
	ErrTokenExpired  = errors.New("svalbard: token expired")
	ErrTokenNotValid = errors.New("svalbard: token not valid")
)

// Errors returned by GetMsgWithToken/ParseMsgWithToken.
var (
	// ErrInvalidParametersForMsgWithToken is returned when a requestID or
	// token contains a colon, which is the field separator on the wire.
	ErrInvalidParametersForMsgWithToken = errors.New("svalbard: request id or token must not contain ':'")
	// ErrInvalidMsgWithToken is returned when a received message does not
	// parse as "SVBD:<requestID>:<token>".
	ErrInvalidMsgWithToken = errors.New("svalbard: malformed token message")
)

// Errors returned while validating sharing/recovery metadata or inputs to
// the sharing client.
var (
	ErrMissingSecretName    = errors.New("svalbard: secret name must not be empty")
	ErrEmptySecret          = errors.New("svalbard: secret must not be empty")
	ErrNoLocations          = errors.New("svalbard: at least one share location is required")
	ErrLocationCountMismatch = errors.New("svalbard: number of locations must equal n")
	ErrUnsupportedScheme    = errors.New("svalbard: unsupported sharing scheme")
	ErrUnsupportedLocationType = errors.New("svalbard: unsupported location type")
	ErrIncorrectHash        = errors.New("svalbard: reconstructed secret failed integrity check")
	ErrMalformedMetadata    = errors.New("svalbard: malformed sharing metadata")
	ErrInsufficientShares   = errors.New("svalbard: not enough shares recovered to reconstruct the secret")
)

// Errors surfaced by secondary channel implementations.
var (
	ErrUnsupportedOwnerIDType = errors.New("svalbard: unsupported owner id type")
)
