package api

import "context"

type LoginUser struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	CompanyID int64  `json:"companyId"`
}

type loginResponse struct {
	User  LoginUser `json:"user"`
	Token string    `json:"token"`
}

// Login authenticates against the backend. The request itself carries
// no bearer token; the returned one is what the session stores.
func (c *Client) Login(ctx context.Context, email, password string) (LoginUser, string, error) {
	var out loginResponse
	body := map[string]string{"email": email, "password": password}
	if err := c.send(ctx, "POST", "/auth/login", body, &out); err != nil {
		return LoginUser{}, "", err
	}
	return out.User, out.Token, nil
}
