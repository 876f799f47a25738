package httpgateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/jrsteele09/merchant-portal/auth"
	apperrors "github.com/jrsteele09/merchant-portal/internal/errors"
	"github.com/jrsteele09/merchant-portal/sessions"
)

var _ auth.Gateway = (*Client)(nil)

// Client is an auth.Gateway that calls the backend login API over JSON/HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
	nowFunc    func() time.Time
}

type Option func(*Client)

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

func WithNowFunc(nowFunc func() time.Time) Option {
	return func(c *Client) {
		c.nowFunc = nowFunc
	}
}

// New creates a client for the API rooted at baseURL (e.g. "http://localhost:5000/api").
func New(baseURL string, timeout time.Duration, options ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		nowFunc: time.Now,
	}
	for _, opt := range options {
		opt(c)
	}
	return c
}

func (c *Client) Authenticate(ctx context.Context, tenantID, username, password string) (sessions.Session, error) {
	path := auth.PathAdminLogin
	wantRole := sessions.RoleAdmin
	if tenantID != "" {
		path = strings.Replace(auth.PathMerchantLogin, "{subdomain}", url.PathEscape(tenantID), 1)
		wantRole = sessions.RoleMerchant
	}

	var resp auth.Envelope[auth.LoginResponse]
	err := c.doRequest(ctx, http.MethodPost, path, "", auth.LoginRequest{Username: username, Password: password}, &resp)
	if err != nil {
		return sessions.Session{}, classify("httpgateway.Authenticate", err)
	}
	if !resp.Success {
		return sessions.Session{}, apperrors.ErrInvalidCredentials
	}

	// A backend answering for a different role or tenant than asked is treated as a mismatch.
	data := resp.Data
	if data.Role != wantRole || (wantRole == sessions.RoleMerchant && data.MerchantSubdomain != tenantID) {
		return sessions.Session{}, apperrors.ErrInvalidCredentials
	}

	session := data.Session(c.nowFunc())
	if err := session.Validate(); err != nil {
		return sessions.Session{}, fmt.Errorf("httpgateway.Authenticate: backend returned %v: %w", err, apperrors.ErrGatewayUnreachable)
	}
	return session, nil
}

// Logout is best-effort, so failures are returned as they came without mapping them
// onto the login error kinds.
func (c *Client) Logout(ctx context.Context, token string) error {
	if err := c.doRequest(ctx, http.MethodPost, auth.PathLogout, token, nil, nil); err != nil {
		return fmt.Errorf("httpgateway.Logout: %w", err)
	}
	return nil
}

// classify maps transport and status failures onto the gateway error kinds.
func classify(op string, err error) error {
	switch {
	case errors.Is(err, context.Canceled):
		return fmt.Errorf("%s: %w", op, err)
	case IsStatus(err, http.StatusTooManyRequests):
		return fmt.Errorf("%s: %v: %w", op, err, apperrors.ErrGatewayUnreachable)
	}

	var httpErr *HTTPError
	if errors.As(err, &httpErr) && httpErr.StatusCode < http.StatusInternalServerError {
		return fmt.Errorf("%s: %v: %w", op, err, apperrors.ErrInvalidCredentials)
	}
	return fmt.Errorf("%s: %v: %w", op, err, apperrors.ErrGatewayUnreachable)
}

func (c *Client) doRequest(ctx context.Context, method, path, token string, body any, out any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck // best-effort close

	if resp.StatusCode >= 400 {
		respBody, readErr := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		if readErr != nil {
			return &HTTPError{StatusCode: resp.StatusCode, Message: fmt.Sprintf("failed to read body: %v", readErr)}
		}
		var apiErr auth.Envelope[json.RawMessage]
		if json.Unmarshal(respBody, &apiErr) == nil && apiErr.Message != "" {
			return &HTTPError{StatusCode: resp.StatusCode, Message: apiErr.Message}
		}
		return &HTTPError{StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}
