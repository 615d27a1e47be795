// Package api is the certcli side of the certshowcase HTTP API: request
// construction and typed decoding, nothing else. Every decoded record is
// shape-checked before it is handed out.
package api

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

	"github.com/dmitrijs2005/certshowcase/internal/common"
	"github.com/dmitrijs2005/certshowcase/internal/models"
)

// TokenStore holds the current session. The client reads the bearer token
// from it and writes back sessions minted by a refresh.
type TokenStore interface {
	Load() (*models.Session, error)
	Save(s *models.Session) error
}

// Client talks to one certshowcase server.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenStore
}

type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout sets the timeout of the default http.Client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// WithTokenStore enables authenticated calls.
func WithTokenStore(ts TokenStore) Option {
	return func(c *Client) { c.tokens = ts }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// request describes one call. body is JSON-encoded unless raw is set.
type request struct {
	method      string
	path        string
	query       url.Values
	body        any
	raw         io.Reader
	contentType string
	auth        bool
}

// do sends r and decodes a 2xx answer into out (when non-nil). An
// authenticated call answered with token_expired is retried once after a
// refresh.
func (c *Client) do(ctx context.Context, r request, out any) error {
	if r.raw != nil && r.auth {
		// a streamed body cannot be replayed, so refresh up front
		if err := c.refreshIfExpired(ctx); err != nil {
			return err
		}
	}

	err := c.send(ctx, r, out)

	var apiErr *Error
	if r.auth && r.raw == nil && errors.As(err, &apiErr) && apiErr.Code == "token_expired" {
		if rerr := c.refresh(ctx); rerr != nil {
			return rerr
		}
		err = c.send(ctx, r, out)
	}
	return err
}

func (c *Client) send(ctx context.Context, r request, out any) error {
	u, err := url.JoinPath(c.baseURL, r.path)
	if err != nil {
		return fmt.Errorf("build url: %w", err)
	}
	if len(r.query) > 0 {
		u += "?" + r.query.Encode()
	}

	body := r.raw
	contentType := r.contentType
	if r.body != nil {
		b, err := json.Marshal(r.body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
		contentType = "application/json"
	}

	req, err := http.NewRequestWithContext(ctx, r.method, u, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")

	if r.auth {
		session, err := c.session()
		if err != nil {
			return err
		}
		req.Header.Set("Authorization", "Bearer "+session.AccessToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", r.method, r.path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %s %s: %v", common.ErrUnexpectedShape, r.method, r.path, err)
	}
	return nil
}

func (c *Client) session() (*models.Session, error) {
	if c.tokens == nil {
		return nil, common.ErrorUnauthorized
	}
	session, err := c.tokens.Load()
	if err != nil {
		return nil, err
	}
	if session == nil || session.AccessToken == "" {
		return nil, common.ErrorUnauthorized
	}
	return session, nil
}

func (c *Client) refreshIfExpired(ctx context.Context) error {
	session, err := c.session()
	if err != nil {
		return err
	}
	if !session.ExpiresAt.IsZero() && time.Now().After(session.ExpiresAt) {
		return c.refresh(ctx)
	}
	return nil
}

func (c *Client) refresh(ctx context.Context) error {
	current, err := c.session()
	if err != nil {
		return err
	}
	if current.RefreshToken == "" {
		return common.ErrTokenExpired
	}
	session, err := c.Refresh(ctx, current.RefreshToken)
	if err != nil {
		return err
	}
	return c.tokens.Save(session)
}
