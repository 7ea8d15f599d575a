package svalbard

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"

	"golang.org/x/sync/errgroup"

	"github.com/ruteri/svalbard/shamir"
)

// ShareResult is the outcome of storing or retrieving one share.
type ShareResult struct {
	Metadata ShareMetadata
	Err      error
}

// SharingResult is returned by Client.Share. Metadata is complete and
// covers every requested location regardless of whether storage for that
// location succeeded; Failed lists the subset that must be stored by some
// other means (e.g. handed to the owner as a printed copy).
type SharingResult struct {
	Metadata SharingMetadata
	Failed   []ShareMetadata
}

// RecoveryResult is returned by Client.Recover. Shares records the
// per-location outcome so a caller can see which custodians responded.
type RecoveryResult struct {
	Secret []byte
	Shares []ShareResult
}

// Client orchestrates sharing and recovery of secrets across a set of
// ShareManagers, one per LocationType.
type Client struct {
	managers map[LocationType]ShareManager
}

// NewClient builds a Client dispatching to managers by location type.
func NewClient(managers map[LocationType]ShareManager) *Client {
	return &Client{managers: managers}
}

func (c *Client) managerFor(t LocationType) (ShareManager, error) {
	m, ok := c.managers[t]
	if !ok || m == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedLocationType, t)
	}
	return m, nil
}

// newRequestID draws a short random decimal request identifier, following
// the reference client's convention of a small, human-transcribable number
// rather than a full UUID (the request id rides over the secondary
// channel, in earshot of anyone reading it over a phone).
func newRequestID() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(10000))
	if err != nil {
		return "", err
	}
	return n.String(), nil
}

// Share splits secret into a k-of-n two-level Shamir sharing (n =
// len(locations)) and dispatches each second-level share to its location's
// ShareManager. Per-location storage failures never abort the others: the
// returned SharingResult always carries metadata for every location, with
// the subset that failed storage listed separately.
func (c *Client) Share(ctx context.Context, secretName string, secret []byte, locations []ShareLocation, k int) (SharingResult, error) {
	if secretName == "" {
		return SharingResult{}, ErrMissingSecretName
	}
	if len(secret) == 0 {
		return SharingResult{}, ErrEmptySecret
	}
	n := len(locations)
	if n == 0 {
		return SharingResult{}, ErrNoLocations
	}
	if k < 1 || k > n {
		return SharingResult{}, fmt.Errorf("%w: k=%d n=%d", shamir.ErrInvalidK, k, n)
	}

	hashSalt := make([]byte, HashSaltSize)
	if _, err := rand.Read(hashSalt); err != nil {
		return SharingResult{}, err
	}
	secretMask := make([]byte, len(secret))
	if _, err := rand.Read(secretMask); err != nil {
		return SharingResult{}, err
	}

	svHash, err := SaltedHash(secret, hashSalt)
	if err != nil {
		return SharingResult{}, err
	}
	sh2 := XOR(secret, secretMask)
	blob := append(append([]byte{}, svHash...), sh2...)

	shares, err := shamir.Split(blob, n, k)
	if err != nil {
		return SharingResult{}, err
	}

	results := make([]ShareResult, n)
	var g errgroup.Group
	for i := range locations {
		i := i
		shareHash, herr := SaltedHash(shares[i].Bytes, hashSalt)
		if herr != nil {
			return SharingResult{}, herr
		}
		meta := ShareMetadata{Location: locations[i], ShareHash: shareHash}

		g.Go(func() error {
			result := ShareResult{Metadata: meta}
			manager, merr := c.managerFor(locations[i].Type)
			if merr != nil {
				result.Err = merr
				results[i] = result
				return nil
			}
			requestID, rerr := newRequestID()
			if rerr != nil {
				result.Err = rerr
				results[i] = result
				return nil
			}
			result.Err = manager.StoreShare(ctx, secretName, locations[i], requestID, shares[i].Bytes)
			results[i] = result
			return nil
		})
	}
	g.Wait()

	metadata := SharingMetadata{
		Scheme:     Scheme{FieldID: shamir.FieldID, K: k, N: n},
		SecretName: secretName,
		SecretMask: secretMask,
		HashSalt:   hashSalt,
		Shares:     make([]ShareMetadata, n),
	}
	var failed []ShareMetadata
	for i, r := range results {
		metadata.Shares[i] = r.Metadata
		if r.Err != nil {
			failed = append(failed, r.Metadata)
		}
	}
	return SharingResult{Metadata: metadata, Failed: failed}, nil
}

// validateMetadata checks that metadata is well-formed enough to attempt
// recovery, mirroring the reference client's pre-flight checks before any
// network I/O is attempted.
func validateMetadata(metadata SharingMetadata) error {
	if metadata.Scheme.FieldID != shamir.FieldID {
		return fmt.Errorf("%w: %s", ErrUnsupportedScheme, metadata.Scheme.FieldID)
	}
	if metadata.SecretName == "" {
		return ErrMissingSecretName
	}
	if len(metadata.SecretMask) == 0 {
		return ErrMalformedMetadata
	}
	if len(metadata.HashSalt) == 0 {
		return ErrMalformedMetadata
	}
	if len(metadata.Shares) == 0 {
		return ErrNoLocations
	}
	for _, s := range metadata.Shares {
		if s.Location.Name == "" {
			return ErrMalformedMetadata
		}
		if s.Location.Type == LocationServer && (s.Location.OwnerIDType == "" || s.Location.OwnerID == "") {
			return ErrMalformedMetadata
		}
		if len(s.ShareHash) == 0 {
			return ErrMalformedMetadata
		}
	}
	return nil
}

// Recover retrieves shares for every location in metadata, verifies each
// against its recorded hash, reconstructs the second-level secret once at
// least Scheme.K shares have been verified, unmasks it, and checks the
// result against the top-level salted hash before returning it. A
// custodian that fails to respond, or returns a share failing its
// integrity check, is recorded in the result but never aborts recovery of
// the others.
func (c *Client) Recover(ctx context.Context, metadata SharingMetadata, requestID string) (RecoveryResult, error) {
	if err := validateMetadata(metadata); err != nil {
		return RecoveryResult{}, err
	}

	n := len(metadata.Shares)
	results := make([]ShareResult, n)
	shareBytes := make([][]byte, n)
	var g errgroup.Group
	for i := range metadata.Shares {
		i := i
		g.Go(func() error {
			sm := metadata.Shares[i]
			result := ShareResult{Metadata: sm}
			manager, merr := c.managerFor(sm.Location.Type)
			if merr != nil {
				result.Err = merr
				results[i] = result
				return nil
			}
			value, rerr := manager.RetrieveShare(ctx, metadata.SecretName, sm.Location, requestID)
			if rerr != nil {
				result.Err = rerr
				results[i] = result
				return nil
			}
			ok, herr := CheckHash(value, metadata.HashSalt, sm.ShareHash)
			if herr != nil {
				result.Err = herr
				results[i] = result
				return nil
			}
			if !ok {
				result.Err = ErrIncorrectHash
				results[i] = result
				return nil
			}
			shareBytes[i] = value
			results[i] = result
			return nil
		})
	}
	g.Wait()

	var recovered []shamir.Share
	for i, b := range shareBytes {
		if b != nil {
			recovered = append(recovered, shamir.Share{Point: uint8(i + 1), Bytes: b})
		}
	}
	if len(recovered) < metadata.Scheme.K {
		return RecoveryResult{Shares: results}, ErrInsufficientShares
	}

	blob, err := shamir.Reconstruct(recovered)
	if err != nil {
		return RecoveryResult{Shares: results}, err
	}
	if len(blob) != HashSize+len(metadata.SecretMask) {
		return RecoveryResult{Shares: results}, ErrMalformedMetadata
	}
	svHash, maskedSecret := blob[:HashSize], blob[HashSize:]
	secret := XOR(maskedSecret, metadata.SecretMask)

	ok, err := CheckHash(secret, metadata.HashSalt, svHash)
	if err != nil {
		return RecoveryResult{Shares: results}, err
	}
	if !ok {
		return RecoveryResult{Shares: results}, ErrIncorrectHash
	}

	return RecoveryResult{Secret: secret, Shares: results}, nil
}
