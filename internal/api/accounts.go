package api

import "context"

type Account struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

type AccountPage struct {
	Data       []Account `json:"data"`
	Total      int       `json:"total"`
	TotalPages int       `json:"totalPages"`
}

func (c *Client) ListAccounts(ctx context.Context, p ListParams) (*AccountPage, error) {
	var out AccountPage
	if err := c.get(ctx, "/accounts", p.query(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

type AccountInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password,omitempty"`
	Role     string `json:"role"`
}

func (c *Client) CreateAccount(ctx context.Context, in AccountInput) error {
	return c.send(ctx, "POST", "/accounts", in, nil)
}

func (c *Client) UpdateAccount(ctx context.Context, id int64, in AccountInput) error {
	return c.send(ctx, "PATCH", pathID("/accounts", id), in, nil)
}

func (c *Client) DeleteAccount(ctx context.Context, id int64) error {
	return c.send(ctx, "DELETE", pathID("/accounts", id), nil, nil)
}
