package control

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/foxseedlab/honyakun/internal/control"
)

const (
	createSessionPath    = "/v1/speech/sessions"
	reconnectSessionPath = "/v1/speech/sessions/reconnect"

	maxErrorBodyBytes = 2048
)

type HTTPClient struct {
	baseURL string
	authKey string
	client  *http.Client
}

func NewHTTPClient(baseURL, authKey string) control.Client {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		authKey: authKey,
		client:  &http.Client{},
	}
}

type createSessionRequest struct {
	SourceLanguage  string   `json:"source_language,omitempty"`
	TargetLanguages []string `json:"target_languages"`
	ContentType     string   `json:"content_type"`
	Formality       string   `json:"formality,omitempty"`
	GlossaryID      string   `json:"glossary_id,omitempty"`
}

type reconnectSessionRequest struct {
	Credential string `json:"credential"`
}

type sessionGrantResponse struct {
	SessionID  string `json:"session_id"`
	Credential string `json:"credential"`
	StreamURL  string `json:"stream_url"`
}

func (c *HTTPClient) CreateSession(ctx context.Context, params control.CreateSessionParams) (*control.SessionGrant, error) {
	grant, err := c.post(ctx, createSessionPath, createSessionRequest{
		SourceLanguage:  params.SourceLanguage,
		TargetLanguages: params.TargetLanguages,
		ContentType:     params.ContentType,
		Formality:       params.Formality,
		GlossaryID:      params.GlossaryID,
	})
	if err != nil {
		return nil, err
	}
	if grant.SessionID == "" || grant.Credential == "" || grant.StreamURL == "" {
		return nil, fmt.Errorf("session-control response is missing session id, credential, or stream url")
	}
	return grant, nil
}

func (c *HTTPClient) ReconnectSession(ctx context.Context, previousCredential string) (*control.SessionGrant, error) {
	grant, err := c.post(ctx, reconnectSessionPath, reconnectSessionRequest{Credential: previousCredential})
	if err != nil {
		return nil, err
	}
	if grant.Credential == "" {
		return nil, fmt.Errorf("session-control response is missing a credential")
	}
	return grant, nil
}

func (c *HTTPClient) post(ctx context.Context, path string, payload any) (*control.SessionGrant, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.authKey)
	req.Header.Set("X-Request-ID", uuid.NewString())

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if !isHTTPSuccessStatus(resp.StatusCode) {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		return nil, fmt.Errorf("session-control returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var grant sessionGrantResponse
	if err := json.NewDecoder(resp.Body).Decode(&grant); err != nil {
		return nil, fmt.Errorf("decode session-control response: %w", err)
	}
	return &control.SessionGrant{
		SessionID:  grant.SessionID,
		Credential: grant.Credential,
		StreamURL:  grant.StreamURL,
	}, nil
}

func isHTTPSuccessStatus(statusCode int) bool {
	return statusCode >= 200 && statusCode < 300
}
