// Package transport wraps every outbound API call so callers never handle
// bearer-token attachment or the refresh handshake themselves.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/jrsteele09/go-skillgap-client/credentials"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

const (
	refreshPath    = "/auth/refresh"
	defaultTimeout = 30 * time.Second
)

// errNoRefreshToken is internal: the caller sees the original 401 instead.
var errNoRefreshToken = errors.New("no refresh token stored")

// Client issues authenticated JSON requests against the skill-gap API.
type Client struct {
	baseURL    string
	store      *credentials.Store
	httpClient *http.Client
}

// Option modifies a Client instance.
type Option func(*Client)

// WithHTTPClient substitutes the underlying http.Client (primarily for tests).
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// New creates a Client for the given API base URL, reading and writing
// credentials through the given store.
func New(baseURL string, store *credentials.Store, options ...Option) (*Client, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, errors.New("[transport.New] baseURL is required")
	}
	if store == nil {
		return nil, errors.New("[transport.New] credential store is required")
	}

	client := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		store:      store,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range options {
		opt(client)
	}
	return client, nil
}

// Get issues an authenticated GET and decodes the 2xx body into out.
func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) error {
	return c.do(ctx, &call{method: http.MethodGet, path: path, query: query}, out)
}

// Post issues an authenticated POST with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body any, out any) error {
	raw, err := encodeBody(body)
	if err != nil {
		return errors.Wrap(err, "[Client.Post] encode body")
	}
	return c.do(ctx, &call{method: http.MethodPost, path: path, body: raw}, out)
}

// Put issues an authenticated PUT with a JSON body.
func (c *Client) Put(ctx context.Context, path string, body any, out any) error {
	raw, err := encodeBody(body)
	if err != nil {
		return errors.Wrap(err, "[Client.Put] encode body")
	}
	return c.do(ctx, &call{method: http.MethodPut, path: path, body: raw}, out)
}

// call describes one originating request as it moves through the pipeline.
// refreshAttempted is the one-shot guard: a call that has already entered
// the refresh branch never enters it again.
type call struct {
	method           string
	path             string
	query            url.Values
	body             []byte
	refreshAttempted bool
}

func (c *Client) do(ctx context.Context, cl *call, out any) error {
	statusCode, responseBody, err := c.send(ctx, cl)
	if err != nil {
		return err
	}

	if statusCode >= 200 && statusCode < 300 {
		return decodeBody(responseBody, out)
	}

	if statusCode == http.StatusUnauthorized && !cl.refreshAttempted {
		cl.refreshAttempted = true
		if refreshErr := c.refreshAccessToken(ctx); refreshErr != nil {
			// Without a refresh token there is no handshake to attempt:
			// the original 401 propagates untouched.
			if errors.Is(refreshErr, errNoRefreshToken) {
				return decodeError(statusCode, responseBody)
			}
			return refreshErr
		}
		return c.do(ctx, cl, out)
	}

	return decodeError(statusCode, responseBody)
}

// send dispatches one HTTP round trip, attaching the bearer token when one
// is stored. A transport-level failure (no response at all) maps to
// ErrConnectivity.
func (c *Client) send(ctx context.Context, cl *call) (int, []byte, error) {
	endpoint := c.baseURL + cl.path
	if len(cl.query) > 0 {
		endpoint += "?" + cl.query.Encode()
	}

	var bodyReader io.Reader
	if cl.body != nil {
		bodyReader = bytes.NewReader(cl.body)
	}

	req, err := http.NewRequestWithContext(ctx, cl.method, endpoint, bodyReader)
	if err != nil {
		return 0, nil, errors.Wrap(err, "[Client.send] http.NewRequestWithContext")
	}
	req.Header.Set("Accept", "application/json")
	if cl.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.store.AccessToken(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, errors.Wrapf(ErrConnectivity, "[Client.send] %s %s: %s", cl.method, cl.path, err.Error())
	}
	defer resp.Body.Close()

	responseBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, errors.Wrapf(ErrConnectivity, "[Client.send] read body: %s", err.Error())
	}
	return resp.StatusCode, responseBody, nil
}

// tokenResponse is the refresh endpoint's payload. The refresh token is
// only present when the server rotated it.
type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
}

// refreshAccessToken performs the one-shot refresh handshake. Without a
// stored refresh token it fails immediately and leaves the store untouched.
// A rejected handshake clears all credentials: the session is gone and the
// caller must route the user back to login. A connectivity failure clears
// nothing; the refresh token is still presumed good.
func (c *Client) refreshAccessToken(ctx context.Context) error {
	refreshToken := c.store.RefreshToken()
	if refreshToken == "" {
		return errNoRefreshToken
	}

	log.Debug().Msg("access token rejected, attempting refresh")

	statusCode, responseBody, err := c.send(ctx, &call{
		method:           http.MethodPost,
		path:             refreshPath,
		body:             mustEncode(map[string]string{"refresh_token": refreshToken}),
		refreshAttempted: true,
	})
	if err != nil {
		return err
	}

	if statusCode < 200 || statusCode >= 300 {
		if clearErr := c.store.ClearAll(); clearErr != nil {
			log.Err(clearErr).Msg("failed to clear credentials after refresh failure")
		}
		return &SessionExpiredError{Cause: decodeError(statusCode, responseBody)}
	}

	var tokens tokenResponse
	if err := json.Unmarshal(responseBody, &tokens); err != nil || tokens.AccessToken == "" {
		if clearErr := c.store.ClearAll(); clearErr != nil {
			log.Err(clearErr).Msg("failed to clear credentials after refresh failure")
		}
		return &SessionExpiredError{Cause: errors.New("malformed refresh response")}
	}

	if err := c.store.SetTokens(tokens.AccessToken, tokens.RefreshToken); err != nil {
		return errors.Wrap(err, "[Client.refreshAccessToken] persist tokens")
	}
	log.Debug().Bool("rotated_refresh_token", tokens.RefreshToken != "").Msg("access token refreshed")
	return nil
}

func encodeBody(body any) ([]byte, error) {
	if body == nil {
		return nil, nil
	}
	return json.Marshal(body)
}

func mustEncode(body any) []byte {
	raw, err := json.Marshal(body)
	if err != nil {
		panic(err)
	}
	return raw
}

func decodeBody(body []byte, out any) error {
	if out == nil || len(body) == 0 {
		return nil
	}
	return errors.Wrap(json.Unmarshal(body, out), "[transport] decode response")
}
