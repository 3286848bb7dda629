package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/viktorkr/authapp/internal/client/models"
)

// HTTPClient implements Client against the server's JSON API.
type HTTPClient struct {
	baseURL string
	http    *http.Client
}

// NewHTTPClient builds a client for the given base URL, e.g.
// "http://127.0.0.1:8080". The timeout bounds each request end to end.
func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// errorResponse is the server's failure body.
type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// do sends a JSON request and decodes a JSON response into out (when out is
// non-nil). Transport failures map to ErrUnavailable; non-2xx statuses map
// to an *APIError wrapping the matching sentinel.
func (c *HTTPClient) do(ctx context.Context, method, path, token string, body, out any) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.asAPIError(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("response decoding error: %w", err)
	}
	return nil
}

func (c *HTTPClient) asAPIError(resp *http.Response) error {
	var body errorResponse
	// A non-JSON error body still yields a usable APIError.
	_ = json.NewDecoder(io.LimitReader(resp.Body, 4096)).Decode(&body)

	kind := error(nil)
	switch resp.StatusCode {
	case http.StatusUnauthorized:
		kind = ErrUnauthorized
	case http.StatusConflict:
		kind = ErrConflict
	case http.StatusServiceUnavailable, http.StatusBadGateway, http.StatusGatewayTimeout:
		kind = ErrUnavailable
	}

	return &APIError{Status: resp.StatusCode, Kind: kind, Message: body.Message}
}

func (c *HTTPClient) Ping(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/ping", "", nil, nil)
}

func (c *HTTPClient) SignUp(ctx context.Context, req SignUpRequest) (*models.Session, error) {
	var session models.Session
	if err := c.do(ctx, http.MethodPost, "/auth/signup", "", req, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (c *HTTPClient) SignIn(ctx context.Context, email, password string) (*models.Session, error) {
	body := map[string]string{"email": email, "password": password}

	var session models.Session
	if err := c.do(ctx, http.MethodPost, "/auth/signin", "", body, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (c *HTTPClient) SignOut(ctx context.Context, token string) error {
	return c.do(ctx, http.MethodPost, "/auth/signout", token, nil, nil)
}

func (c *HTTPClient) Profile(ctx context.Context, token string) (*models.User, error) {
	var user models.User
	if err := c.do(ctx, http.MethodGet, "/api/me", token, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *HTTPClient) UpdateProfile(ctx context.Context, token string, update ProfileUpdate) (*models.User, error) {
	var user models.User
	if err := c.do(ctx, http.MethodPut, "/api/me", token, update, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Close exists to satisfy Client; the underlying transport needs no
// explicit teardown.
func (c *HTTPClient) Close() error {
	c.http.CloseIdleConnections()
	return nil
}
