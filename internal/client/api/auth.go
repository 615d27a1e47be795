package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/certshowcase/internal/common"
	"github.com/dmitrijs2005/certshowcase/internal/models"
)

// SignIn exchanges credentials for a session. A rejected sign-in returns an
// *Error whose message is the server's text, e.g. "Invalid login credentials".
func (c *Client) SignIn(ctx context.Context, email, password string) (*models.Session, error) {
	body := map[string]string{"email": email, "password": password}
	return c.sessionCall(ctx, request{method: http.MethodPost, path: "/api/auth/signin", body: body})
}

func (c *Client) Refresh(ctx context.Context, refreshToken string) (*models.Session, error) {
	body := map[string]string{"refresh_token": refreshToken}
	return c.sessionCall(ctx, request{method: http.MethodPost, path: "/api/auth/refresh", body: body})
}

// SignOut revokes the stored access token and drops its refresh token.
func (c *Client) SignOut(ctx context.Context) error {
	session, err := c.session()
	if err != nil {
		return err
	}
	body := map[string]string{"refresh_token": session.RefreshToken}
	return c.do(ctx, request{method: http.MethodPost, path: "/api/auth/signout", body: body, auth: true}, nil)
}

// CurrentUser reports who the stored session belongs to.
func (c *Client) CurrentUser(ctx context.Context) (*models.User, *models.Profile, error) {
	var out struct {
		User    *models.User    `json:"user"`
		Profile *models.Profile `json:"profile"`
	}
	if err := c.do(ctx, request{method: http.MethodGet, path: "/api/auth/session", auth: true}, &out); err != nil {
		return nil, nil, err
	}
	if out.User == nil || out.User.ID == "" {
		return nil, nil, fmt.Errorf("%w: session without user", common.ErrUnexpectedShape)
	}
	return out.User, out.Profile, nil
}

func (c *Client) sessionCall(ctx context.Context, r request) (*models.Session, error) {
	var out models.Session
	if err := c.do(ctx, r, &out); err != nil {
		return nil, err
	}
	if out.AccessToken == "" || out.User.ID == "" {
		return nil, fmt.Errorf("%w: session without token or user", common.ErrUnexpectedShape)
	}
	return &out, nil
}
