// Package tokenstore issues and validates the short-lived tokens a custody
// server hands out over a secondary channel to authorize one operation on
// one share.
package tokenstore

import (
	"crypto/rand"
	"errors"
	"sync"
	"time"

	"github.com/ruteri/svalbard/svalbard"
)

// Lower bounds enforced by NewStore, so a misconfigured server can't issue
// tokens too short to resist guessing or expiring before the secondary
// channel can deliver them. No upper bound is placed on either.
const (
	MinTokenLength           = 5
	MinTokenValidityDuration = 2 * time.Second
)

// Errors returned by NewStore.
var (
	ErrTokenLengthTooSmall           = errors.New("tokenstore: token length too small")
	ErrTokenValidityDurationTooShort = errors.New("tokenstore: token validity duration too short")
)

const letters = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

func randomString(length int) (string, error) {
	b := make([]byte, length)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	for i := range b {
		b[i] = letters[int(b[i])%len(letters)]
	}
	return string(b), nil
}

type tokenData struct {
	validTill time.Time
	shareID   string
	op        svalbard.Operation
}

// Store issues and validates tokens in memory, guarded by a RWMutex so
// issuance and validation can proceed concurrently across requests.
type Store struct {
	tokenLength           int
	tokenValidityDuration time.Duration

	mu    sync.RWMutex
	store map[string]tokenData
}

// NewStore returns a Store issuing tokens of tokenLength characters, valid
// for tokenValidityDuration from issuance.
func NewStore(tokenLength int, tokenValidityDuration time.Duration) (*Store, error) {
	if tokenLength < MinTokenLength {
		return nil, ErrTokenLengthTooSmall
	}
	if tokenValidityDuration < MinTokenValidityDuration {
		return nil, ErrTokenValidityDurationTooShort
	}
	return &Store{
		tokenLength:           tokenLength,
		tokenValidityDuration: tokenValidityDuration,
		store:                 make(map[string]tokenData),
	}, nil
}

// GetNewToken issues a fresh token authorizing op on shareID until the
// store's validity duration elapses.
func (s *Store) GetNewToken(shareID string, op svalbard.Operation) (string, error) {
	token, err := randomString(s.tokenLength)
	if err != nil {
		return "", err
	}
	data := tokenData{
		validTill: time.Now().Add(s.tokenValidityDuration),
		shareID:   shareID,
		op:        op,
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.store[token] = data
	return token, nil
}

// IsTokenValidNow reports whether token currently authorizes op on
// shareID. The returned error never discloses more than "not found",
// "expired", or the generic svalbard.ErrTokenNotValid for a shareID/op
// mismatch, so a caller probing with a token valid for a different share
// learns nothing about that share's existence.
func (s *Store) IsTokenValidNow(token, shareID string, op svalbard.Operation) error {
	if len(token) != s.tokenLength {
		return svalbard.ErrTokenNotValid
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.store[token]
	if !ok {
		return svalbard.ErrTokenNotFound
	}
	if data.validTill.Before(time.Now()) {
		return svalbard.ErrTokenExpired
	}
	if data.shareID != shareID || data.op != op {
		return svalbard.ErrTokenNotValid
	}
	return nil
}
