package sharemanager

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/ruteri/svalbard/svalbard"
)

// userAgent identifies requests from this client to a custody server, in
// the spirit of ServerShareManager.java's own fixed User-Agent.
const userAgent = "Svalbard-Go/1.0.0"

// ServerManager is the svalbard.ShareManager for svalbard.LocationServer:
// it drives the token dance (request a token, read it back over a
// TokenReader, then use it) against a custody HTTP server, base64-encoding
// share bytes on the wire since the server itself treats share_value as
// an opaque string.
type ServerManager struct {
	client *http.Client
	tokens svalbard.TokenReader
}

// NewServerManager builds a ServerManager using client for HTTP requests
// and tokens to read back tokens delivered over the secondary channel.
func NewServerManager(client *http.Client, tokens svalbard.TokenReader) *ServerManager {
	if client == nil {
		client = http.DefaultClient
	}
	return &ServerManager{client: client, tokens: tokens}
}

func (m *ServerManager) getOperationToken(ctx context.Context, location svalbard.ShareLocation, requestID, operation, secretName string) (string, error) {
	if location.Type != svalbard.LocationServer {
		return "", fmt.Errorf("%w: %s", svalbard.ErrUnsupportedLocationType, location.Type)
	}
	if location.Name == "" {
		return "", fmt.Errorf("svalbard: missing location name")
	}
	if !strings.HasPrefix(location.Name, "https") {
		return "", fmt.Errorf("svalbard: location name must start with 'https'")
	}

	form := url.Values{}
	form.Set("request_id", requestID)
	form.Set("owner_id_type", location.OwnerIDType)
	form.Set("owner_id", location.OwnerID)
	form.Set("secret_name", secretName)

	if err := m.post(ctx, location.Name+"/get_"+operation+"_token", form, fmt.Sprintf("request for a %s token", operation)); err != nil {
		return "", err
	}

	recipient := svalbard.RecipientID{IDType: location.OwnerIDType, ID: location.OwnerID}
	return m.tokens.ReadToken(ctx, recipient, requestID)
}

func (m *ServerManager) post(ctx context.Context, targetURL string, form url.Values, action string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, targetURL, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := m.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s failed: %s", action, string(body))
	}
	return nil
}

// StoreShare implements svalbard.ShareManager.
func (m *ServerManager) StoreShare(ctx context.Context, secretName string, location svalbard.ShareLocation, requestID string, shareValue []byte) error {
	token, err := m.getOperationToken(ctx, location, requestID, "storage", secretName)
	if err != nil {
		return err
	}

	form := url.Values{}
	form.Set("owner_id_type", location.OwnerIDType)
	form.Set("owner_id", location.OwnerID)
	form.Set("secret_name", secretName)
	form.Set("share_value", base64.StdEncoding.EncodeToString(shareValue))
	form.Set("token", token)

	return m.post(ctx, location.Name+"/store_share", form, "request to store a share")
}

// RetrieveShare implements svalbard.ShareManager.
func (m *ServerManager) RetrieveShare(ctx context.Context, secretName string, location svalbard.ShareLocation, requestID string) ([]byte, error) {
	token, err := m.getOperationToken(ctx, location, requestID, "retrieval", secretName)
	if err != nil {
		return nil, err
	}

	form := url.Values{}
	form.Set("owner_id_type", location.OwnerIDType)
	form.Set("owner_id", location.OwnerID)
	form.Set("secret_name", secretName)
	form.Set("token", token)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, location.Name+"/retrieve_share", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := m.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("request to retrieve a share failed: %s", string(body))
	}

	return base64.StdEncoding.DecodeString(string(body))
}

// DeleteShare implements svalbard.ShareManager.
func (m *ServerManager) DeleteShare(ctx context.Context, secretName string, location svalbard.ShareLocation, requestID string) error {
	token, err := m.getOperationToken(ctx, location, requestID, "deletion", secretName)
	if err != nil {
		return err
	}

	form := url.Values{}
	form.Set("owner_id_type", location.OwnerIDType)
	form.Set("owner_id", location.OwnerID)
	form.Set("secret_name", secretName)
	form.Set("token", token)

	return m.post(ctx, location.Name+"/delete_share", form, "request to delete a share")
}
