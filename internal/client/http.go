package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tplgallery/header/internal/session"
)

// HTTPClient makes REST calls to the identity provider.
type HTTPClient struct {
	baseURL string
	token   string
	client  *http.Client
}

// NewHTTPClient creates a client targeting the given base URL (e.g. "http://127.0.0.1:8080").
func NewHTTPClient(baseURL, token string) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// EndSession sends POST /api/session/end.
func (c *HTTPClient) EndSession(ctx context.Context) error {
	return c.post(ctx, "/api/session/end", nil, nil)
}

// StartSession sends POST /api/session/start for a seeded account.
func (c *HTTPClient) StartSession(ctx context.Context, uid string) (*session.Session, error) {
	body := map[string]string{"uid": uid}
	var out SessionPayload
	if err := c.post(ctx, "/api/session/start", body, &out); err != nil {
		return nil, err
	}
	return out.Session, nil
}

// GetSession fetches /api/session. A nil session means nobody is signed in.
func (c *HTTPClient) GetSession(ctx context.Context) (*session.Session, error) {
	var out SessionPayload
	if err := c.get(ctx, "/api/session", &out); err != nil {
		return nil, err
	}
	return out.Session, nil
}

func (c *HTTPClient) get(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	c.setAuth(req)
	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("GET %s: %d %s", path, resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *HTTPClient) post(ctx context.Context, path string, body interface{}, out interface{}) error {
	var r io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		r = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, r)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.setAuth(req)
	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("POST %s: %d %s", path, resp.StatusCode, strings.TrimSpace(string(respBody)))
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

func (c *HTTPClient) setAuth(req *http.Request) {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
}

func authHeader(token string) http.Header {
	h := http.Header{}
	if token != "" {
		h.Set("Authorization", "Bearer "+token)
	}
	return h
}

// IdentityProvider joins the session stream and the REST calls into one
// session.Provider.
type IdentityProvider struct {
	*WSClient
	*HTTPClient
}

// NewIdentityProvider derives the HTTP base URL from the WebSocket URL.
func NewIdentityProvider(wsURL, token string) *IdentityProvider {
	return &IdentityProvider{
		WSClient:   NewWSClient(wsURL, token),
		HTTPClient: NewHTTPClient(DeriveHTTPBase(wsURL), token),
	}
}

// DeriveHTTPBase converts ws://host:port/ws → http://host:port
func DeriveHTTPBase(wsURL string) string {
	u, err := url.Parse(wsURL)
	if err != nil || u.Host == "" {
		return "http://127.0.0.1:8080"
	}
	scheme := "http"
	if strings.HasPrefix(u.Scheme, "wss") || u.Scheme == "https" {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s", scheme, u.Host)
}

var _ session.Provider = (*IdentityProvider)(nil)
