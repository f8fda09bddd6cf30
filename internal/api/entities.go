package api

import "context"

// Entity is a business partner (proveedor/cliente) identified by a
// fiscal document number.
type Entity struct {
	ID             int64  `json:"id"`
	Name           string `json:"name"`
	DocumentNumber string `json:"documentNumber"`
}

type EntityPage struct {
	Data       []Entity `json:"data"`
	Total      int      `json:"total"`
	TotalPages int      `json:"totalPages"`
}

func (c *Client) ListEntities(ctx context.Context, p ListParams) (*EntityPage, error) {
	var out EntityPage
	if err := c.get(ctx, "/entities", p.query(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

type EntityInput struct {
	Name           string `json:"name"`
	DocumentNumber string `json:"documentNumber"`
}

func (c *Client) CreateEntity(ctx context.Context, in EntityInput) error {
	return c.send(ctx, "POST", "/entities", in, nil)
}

func (c *Client) UpdateEntity(ctx context.Context, id int64, in EntityInput) error {
	return c.send(ctx, "PATCH", pathID("/entities", id), in, nil)
}

func (c *Client) DeleteEntity(ctx context.Context, id int64) error {
	return c.send(ctx, "DELETE", pathID("/entities", id), nil, nil)
}
