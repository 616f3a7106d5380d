package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/mlobankov/resume-pilot/internal/core/domain"
)

// Login authenticates and returns the server's grant. A 401 here is the
// caller's to render ("invalid credentials"), never a teardown trigger.
func (c *Client) Login(ctx context.Context, creds domain.Credentials) (*domain.AuthGrant, error) {
	var grant domain.AuthGrant
	err := c.do(ctx, call{
		op:         "user_login",
		method:     http.MethodPost,
		path:       "/v1/user/login",
		payload:    creds,
		out:        &grant,
		authExempt: true,
	})
	if err != nil {
		return nil, err
	}
	return &grant, nil
}

func (c *Client) Register(ctx context.Context, reg domain.Registration) (*domain.AuthGrant, error) {
	var grant domain.AuthGrant
	err := c.do(ctx, call{
		op:         "user_register",
		method:     http.MethodPost,
		path:       "/v1/user/register",
		payload:    reg,
		out:        &grant,
		authExempt: true,
	})
	if err != nil {
		return nil, err
	}
	return &grant, nil
}

// Logout notifies the backend. Failures are the session manager's to log;
// a 401 on an already-dead session must not recurse into teardown.
func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, call{
		op:         "user_logout",
		method:     http.MethodPost,
		path:       "/v1/user/logout",
		authExempt: true,
	})
}

func (c *Client) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	var user domain.User
	err := c.do(ctx, call{
		op:         "user_get",
		method:     http.MethodGet,
		path:       fmt.Sprintf("/v1/user/%d", id),
		out:        &user,
		idempotent: true,
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) UpdateUser(ctx context.Context, id int64, profile domain.Profile) (*domain.User, error) {
	var user domain.User
	err := c.do(ctx, call{
		op:      "user_update",
		method:  http.MethodPut,
		path:    fmt.Sprintf("/v1/user/%d", id),
		payload: profile,
		out:     &user,
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}
