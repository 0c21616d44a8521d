// Package client is the data layer used by the blog CLI to talk to the API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const defaultErrorMessage = "Request failed"

// APIError is returned for every non-2xx response.
type APIError struct {
	Status  int
	Message string
	Code    string
}

func (e *APIError) Error() string {
	return e.Message
}

// IsStatus reports whether err is an *APIError with the given status.
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == status
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenStore
}

type Option func(*Client)

// WithHTTPClient replaces the default client (15s timeout).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func New(baseURL string, tokens TokenStore, opts ...Option) *Client {
	if tokens == nil {
		tokens = &MemoryTokenStore{}
	}
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 15 * time.Second},
		tokens:     tokens,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Tokens exposes the store the client reads its bearer token from.
func (c *Client) Tokens() TokenStore { return c.tokens }

// Do sends a JSON request. The stored token, if any, is attached as a bearer
// token. out may be nil; a 204 response never decodes.
func (c *Client) Do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	token, err := c.tokens.Load()
	if err != nil {
		return err
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeAPIError(resp)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func decodeAPIError(resp *http.Response) *APIError {
	apiErr := &APIError{Status: resp.StatusCode, Message: defaultErrorMessage}

	var body struct {
		Error string `json:"error"`
		Code  string `json:"code"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil {
		if body.Error != "" {
			apiErr.Message = body.Error
		}
		apiErr.Code = body.Code
	}
	return apiErr
}

// Register creates an account and stores the returned token.
func (c *Client) Register(ctx context.Context, email, password string) (*Session, error) {
	return c.authenticate(ctx, "/auth/register", email, password)
}

// Login stores the returned token on success.
func (c *Client) Login(ctx context.Context, email, password string) (*Session, error) {
	return c.authenticate(ctx, "/auth/login", email, password)
}

func (c *Client) authenticate(ctx context.Context, path, email, password string) (*Session, error) {
	var session Session
	body := map[string]string{"email": email, "password": password}
	if err := c.Do(ctx, http.MethodPost, path, body, &session); err != nil {
		return nil, err
	}
	if err := c.tokens.Save(session.Token); err != nil {
		return nil, err
	}
	return &session, nil
}

// Logout forgets the stored token. Tokens are stateless so the server is not
// contacted.
func (c *Client) Logout() error {
	return c.tokens.Clear()
}

func (c *Client) Me(ctx context.Context) (*Profile, error) {
	var p Profile
	if err := c.Do(ctx, http.MethodGet, "/auth/me", nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) ListPosts(ctx context.Context, params ListParams) (*PostList, error) {
	q := url.Values{}
	if params.Tag != "" {
		q.Set("tag", params.Tag)
	}
	if params.Q != "" {
		q.Set("q", params.Q)
	}
	if params.Page > 0 {
		q.Set("page", strconv.Itoa(params.Page))
	}
	if params.PageSize > 0 {
		q.Set("pageSize", strconv.Itoa(params.PageSize))
	}

	path := "/posts"
	if encoded := q.Encode(); encoded != "" {
		path += "?" + encoded
	}

	var list PostList
	if err := c.Do(ctx, http.MethodGet, path, nil, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

func (c *Client) GetPost(ctx context.Context, id string) (*Post, error) {
	var p Post
	if err := c.Do(ctx, http.MethodGet, "/posts/"+url.PathEscape(id), nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) CreatePost(ctx context.Context, in PostInput) (*Post, error) {
	var p Post
	if err := c.Do(ctx, http.MethodPost, "/posts", in, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) UpdatePost(ctx context.Context, id string, patch PostPatch) (*Post, error) {
	var p Post
	if err := c.Do(ctx, http.MethodPut, "/posts/"+url.PathEscape(id), patch, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) DeletePost(ctx context.Context, id string) error {
	return c.Do(ctx, http.MethodDelete, "/posts/"+url.PathEscape(id), nil, nil)
}

// Health returns the health body for both 200 and 503 responses.
func (c *Client) Health(ctx context.Context) (*Health, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("GET /health: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusServiceUnavailable {
		return nil, decodeAPIError(resp)
	}

	var h Health
	if err := json.NewDecoder(resp.Body).Decode(&h); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &h, nil
}
