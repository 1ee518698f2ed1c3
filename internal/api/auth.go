package api

import (
	"context"
)

type User struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role,omitempty"`
}

// Me validates the current session credential by fetching the logged-in
// user. A rejected credential surfaces as *Error with Unauthorized() true.
func (c *Client) Me(ctx context.Context) (*User, error) {
	var user User
	if err := c.get(ctx, "/admin/auth/me", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Login exchanges credentials for a session token. Storing the token is
// the session store's job, not the client's.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	body := map[string]string{
		"email":    email,
		"password": password,
	}
	var resp struct {
		Token string `json:"token"`
	}
	if err := c.post(ctx, "/admin/auth/login", body, &resp); err != nil {
		return "", err
	}
	return resp.Token, nil
}
