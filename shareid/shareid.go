// Package shareid derives the server-side share identifier from an owner's
// identity and a secret name.
package shareid

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
)

var (
	// ErrMissingOwnerType is returned when ownerIDType is empty.
	ErrMissingOwnerType = errors.New("shareid: owner id type must not be empty")
	// ErrMissingOwnerID is returned when ownerID is empty.
	ErrMissingOwnerID = errors.New("shareid: owner id must not be empty")
	// ErrMissingSecretName is returned when secretName is empty.
	ErrMissingSecretName = errors.New("shareid: secret name must not be empty")
)

// Get derives the share id for (ownerIDType, ownerID, secretName): the
// lowercase hex SHA-256 digest of "[ownerIDType][ownerID][secretName]".
func Get(ownerIDType, ownerID, secretName string) (string, error) {
	if ownerIDType == "" {
		return "", ErrMissingOwnerType
	}
	if ownerID == "" {
		return "", ErrMissingOwnerID
	}
	if secretName == "" {
		return "", ErrMissingSecretName
	}
	input := "[" + ownerIDType + "][" + ownerID + "][" + secretName + "]"
	sum := sha256.Sum256([]byte(input))
	return hex.EncodeToString(sum[:]), nil
}
