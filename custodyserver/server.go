// Package custodyserver implements the custody HTTP API: token issuance
// and share storage/retrieval/deletion handlers backed by a token store, a
// share store, and a secondary channel.
package custodyserver

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/ruteri/svalbard/shareid"
	"github.com/ruteri/svalbard/svalbard"
	"github.com/ruteri/svalbard/tokenstore"
)

// Errors returned directly by the HTTP handlers, as opposed to those
// forwarded from shareid or the token/share stores.
var (
	ErrMissingRequestID  = errors.New("missing request_id")
	ErrMissingToken      = errors.New("missing token")
	ErrMissingShareValue = errors.New("missing share_value")
	ErrExpectedPostRequest = errors.New("expected a POST request")
)

// Server implements the six custody endpoints. It holds no HTTP transport
// concerns of its own — see HTTPServer for routing, health checks, and
// lifecycle management.
type Server struct {
	tokens  *tokenstore.Store
	shares  svalbard.ShareStore
	channel svalbard.SecondaryChannel
}

// NewServer builds a Server dispatching tokens through tokens, shares
// through shares, and token-delivery messages through channel.
func NewServer(tokens *tokenstore.Store, shares svalbard.ShareStore, channel svalbard.SecondaryChannel) *Server {
	return &Server{tokens: tokens, shares: shares, channel: channel}
}

func writeError(w http.ResponseWriter, err error, status int) {
	http.Error(w, err.Error(), status)
}

// requireParam reads a required form field, writing a 400 response and
// reporting failure if it is absent.
func requireParam(w http.ResponseWriter, r *http.Request, name string, missing error) (string, bool) {
	v := r.FormValue(name)
	if v == "" {
		writeError(w, missing, http.StatusBadRequest)
		return "", false
	}
	return v, true
}

// resolveShareID reads owner_id_type, owner_id, and secret_name from the
// request and derives the corresponding share id, writing a 400 response
// on the first missing field.
func resolveShareID(w http.ResponseWriter, r *http.Request) (shareID, ownerIDType, ownerID, secretName string, ok bool) {
	ownerIDType = r.FormValue("owner_id_type")
	ownerID = r.FormValue("owner_id")
	secretName = r.FormValue("secret_name")
	id, err := shareid.Get(ownerIDType, ownerID, secretName)
	if err != nil {
		writeError(w, err, http.StatusBadRequest)
		return "", "", "", "", false
	}
	return id, ownerIDType, ownerID, secretName, true
}

func requirePost(w http.ResponseWriter, r *http.Request) bool {
	if r.Method != http.MethodPost {
		writeError(w, ErrExpectedPostRequest, http.StatusBadRequest)
		return false
	}
	return true
}

func shareStoredResponse(secretName, ownerIDType, ownerID string) string {
	return fmt.Sprintf("Stored a share of secret [%s] for owner [%s:%s]", secretName, ownerIDType, ownerID)
}

func shareDeletedResponse(secretName, ownerIDType, ownerID string) string {
	return fmt.Sprintf("Deleted a share of secret [%s] of owner [%s:%s]", secretName, ownerIDType, ownerID)
}

func shareNotFoundResponse(reqID string) string {
	return "Req. " + reqID + ": share not found.\n"
}

func tokenSentResponse(reqID, ownerIDType, ownerID, secretName, operation string) string {
	return fmt.Sprintf("Req. %s: %s token for share of [%s] sent to [%s:%s]", reqID, operation, secretName, ownerIDType, ownerID)
}

// issueToken is the shared body of GetStorageTokenHandler,
// GetRetrievalTokenHandler, and GetDeletionTokenHandler: validate the
// request, optionally require the share to already exist, mint a token,
// and deliver it over the secondary channel.
func (s *Server) issueToken(w http.ResponseWriter, r *http.Request, op svalbard.Operation, operationName string, requireExisting bool) {
	if !requirePost(w, r) {
		return
	}
	reqID, ok := requireParam(w, r, "request_id", ErrMissingRequestID)
	if !ok {
		return
	}
	shareID, ownerIDType, ownerID, secretName, ok := resolveShareID(w, r)
	if !ok {
		return
	}

	ctx := r.Context()
	if requireExisting {
		if _, err := s.shares.Retrieve(ctx, shareID); errors.Is(err, svalbard.ErrShareNotFound) {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(shareNotFoundResponse(reqID)))
			return
		} else if err != nil {
			writeError(w, err, http.StatusInternalServerError)
			return
		}
	}

	token, err := s.tokens.GetNewToken(shareID, op)
	if err != nil {
		writeError(w, err, http.StatusInternalServerError)
		return
	}
	recipient := svalbard.RecipientID{IDType: ownerIDType, ID: ownerID}
	if err := s.channel.Send(ctx, recipient, svalbard.TokenMsgData{RequestID: reqID, Token: token}); err != nil {
		writeError(w, err, http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte(tokenSentResponse(reqID, ownerIDType, ownerID, secretName, operationName)))
}

// GetStorageTokenHandler issues a token authorizing StoreShareHandler for
// one (owner, secret) pair. It never checks whether a share already
// exists: that is StoreShareHandler's job, so a client can always ask for
// a fresh attempt.
func (s *Server) GetStorageTokenHandler(w http.ResponseWriter, r *http.Request) {
	s.issueToken(w, r, svalbard.OpStoreShare, "storage", false)
}

// GetRetrievalTokenHandler issues a token authorizing RetrieveShareHandler
// for an existing share, or 404s if no share is on file yet.
func (s *Server) GetRetrievalTokenHandler(w http.ResponseWriter, r *http.Request) {
	s.issueToken(w, r, svalbard.OpRetrieveShare, "retrieval", true)
}

// GetDeletionTokenHandler issues a token authorizing DeleteShareHandler
// for an existing share, or 404s if no share is on file yet.
func (s *Server) GetDeletionTokenHandler(w http.ResponseWriter, r *http.Request) {
	s.issueToken(w, r, svalbard.OpDeleteShare, "deletion", true)
}

// checkToken validates token for op against shareID, folding every
// failure mode (not found, expired, bound to a different share or
// operation) into the single public svalbard.ErrTokenNotValid so a caller
// learns nothing about which check failed.
func (s *Server) checkToken(token, shareID string, op svalbard.Operation) error {
	if err := s.tokens.IsTokenValidNow(token, shareID, op); err != nil {
		return svalbard.ErrTokenNotValid
	}
	return nil
}

// StoreShareHandler stores a share under a token minted by
// GetStorageTokenHandler. The share value is treated as an opaque blob:
// callers are expected to base64-encode binary share bytes themselves
// before placing them in the share_value field, since the server never
// interprets it.
func (s *Server) StoreShareHandler(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}
	token, ok := requireParam(w, r, "token", ErrMissingToken)
	if !ok {
		return
	}
	shareID, ownerIDType, ownerID, secretName, ok := resolveShareID(w, r)
	if !ok {
		return
	}
	shareValue, ok := requireParam(w, r, "share_value", ErrMissingShareValue)
	if !ok {
		return
	}

	if err := s.checkToken(token, shareID, svalbard.OpStoreShare); err != nil {
		writeError(w, fmt.Errorf("could not store the share: %w", err), http.StatusForbidden)
		return
	}
	if err := s.shares.Store(r.Context(), shareID, []byte(shareValue)); err != nil {
		writeError(w, fmt.Errorf("could not store the share: %w", err), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte(shareStoredResponse(secretName, ownerIDType, ownerID)))
}

// RetrieveShareHandler returns a previously stored share under a token
// minted by GetRetrievalTokenHandler. The response body is the share
// value exactly as stored, with no additional framing.
func (s *Server) RetrieveShareHandler(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}
	token, ok := requireParam(w, r, "token", ErrMissingToken)
	if !ok {
		return
	}
	shareID, _, _, _, ok := resolveShareID(w, r)
	if !ok {
		return
	}

	if err := s.checkToken(token, shareID, svalbard.OpRetrieveShare); err != nil {
		writeError(w, fmt.Errorf("could not retrieve the share: %w", err), http.StatusForbidden)
		return
	}
	value, err := s.shares.Retrieve(r.Context(), shareID)
	if err != nil {
		writeError(w, fmt.Errorf("could not retrieve the share: %w", err), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write(value)
}

// DeleteShareHandler removes a stored share under a token minted by
// GetDeletionTokenHandler.
func (s *Server) DeleteShareHandler(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}
	token, ok := requireParam(w, r, "token", ErrMissingToken)
	if !ok {
		return
	}
	shareID, ownerIDType, ownerID, secretName, ok := resolveShareID(w, r)
	if !ok {
		return
	}

	if err := s.checkToken(token, shareID, svalbard.OpDeleteShare); err != nil {
		writeError(w, fmt.Errorf("could not delete the share: %w", err), http.StatusForbidden)
		return
	}
	if err := s.shares.Delete(r.Context(), shareID); err != nil {
		// A share missing at delete time (e.g. deleted concurrently since
		// the token was issued) is reported as a server error rather than
		// a 404: by the time we have a valid deletion token, the caller
		// has already been told the share exists.
		writeError(w, fmt.Errorf("could not delete the share: %w", err), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte(shareDeletedResponse(secretName, ownerIDType, ownerID)))
}
