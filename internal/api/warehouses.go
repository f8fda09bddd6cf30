package api

import (
	"context"
	"fmt"
)

func pathID(base string, id int64) string { return fmt.Sprintf("%s/%d", base, id) }

type Warehouse struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address"`
	Active  bool   `json:"active"`
}

type WarehousePage struct {
	Data       []Warehouse `json:"data"`
	Total      int         `json:"total"`
	TotalPages int         `json:"totalPages"`
}

func (c *Client) ListWarehouses(ctx context.Context, p ListParams) (*WarehousePage, error) {
	var out WarehousePage
	if err := c.get(ctx, "/warehouses", p.query(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

type WarehouseInput struct {
	Name    string `json:"name"`
	Address string `json:"address"`
}

func (c *Client) CreateWarehouse(ctx context.Context, in WarehouseInput) error {
	return c.send(ctx, "POST", "/warehouses", in, nil)
}

func (c *Client) UpdateWarehouse(ctx context.Context, id int64, in WarehouseInput) error {
	return c.send(ctx, "PATCH", pathID("/warehouses", id), in, nil)
}

func (c *Client) DeleteWarehouse(ctx context.Context, id int64) error {
	return c.send(ctx, "DELETE", pathID("/warehouses", id), nil, nil)
}
