// Package syncapi speaks the sync endpoint of the remote task service.
package syncapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/amonks/tuido/model"
)

// DefaultBaseURL is the production sync API.
const DefaultBaseURL = "https://api.todoist.com/sync/v9"

const maxErrorBodyBytes = 4096

// Transport sends a sync request and returns the decoded response.
// Implementations return an error when no complete response was received;
// network, status and decoding failures are *TransportError.
type Transport interface {
	Sync(ctx context.Context, request model.Request) (*model.Response, error)
}

// Client is the HTTP Transport.
type Client struct {
	baseURL string
	token   string
	client  *http.Client
}

// NewClient creates a client for the sync API at baseURL that authenticates
// with token. A nil httpClient uses a default client; callers bound each
// exchange with the context they pass to Sync.
func NewClient(baseURL, token string, httpClient *http.Client) *Client {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{baseURL: baseURL, token: token, client: httpClient}
}

// BaseURL returns the endpoint root the client posts to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Sync posts request to {base}/sync.
func (c *Client) Sync(ctx context.Context, request model.Request) (*model.Response, error) {
	payload, err := json.Marshal(request)
	if err != nil {
		return nil, &TransportError{Op: "encode", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/sync", bytes.NewReader(payload))
	if err != nil {
		return nil, &TransportError{Op: "send", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &TransportError{Op: "send", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &TransportError{Op: "status", Status: resp.StatusCode, Err: readErrorResponse(resp)}
	}

	var response model.Response
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, &TransportError{Op: "decode", Status: resp.StatusCode, Err: err}
	}
	if response.SyncToken == "" {
		return nil, &TransportError{Op: "decode", Status: resp.StatusCode, Err: fmt.Errorf("response has no sync_token")}
	}
	return &response, nil
}

func readErrorResponse(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))

	message := ""
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Error != "" {
		message = payload.Error
	} else {
		message = strings.TrimSpace(string(body))
	}

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		if message == "" {
			return ErrUnauthorized
		}
		return fmt.Errorf("%w: %s", ErrUnauthorized, message)
	}
	if message == "" {
		return fmt.Errorf("server error: %s", resp.Status)
	}
	return fmt.Errorf("server error: %s", message)
}
