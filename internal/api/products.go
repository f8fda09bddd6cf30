package api

import "context"

type Product struct {
	ID      int64   `json:"id"`
	Name    string  `json:"name"`
	Unit    string  `json:"unit"`
	Barcode string  `json:"barcode"`
	Price   float64 `json:"price"`
}

type ProductPage struct {
	Data       []Product `json:"data"`
	Total      int       `json:"total"`
	TotalPages int       `json:"totalPages"`
}

func (c *Client) ListProducts(ctx context.Context, p ListParams) (*ProductPage, error) {
	var out ProductPage
	if err := c.get(ctx, "/products", p.query(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetProductByBarcode resolves one scanned/typed code. A missing
// product comes back as a 404 api.Error; callers use IsNotFound.
func (c *Client) GetProductByBarcode(ctx context.Context, barcode string) (*Product, error) {
	var out Product
	if err := c.get(ctx, "/products/barcode", map[string]string{"barcode": barcode}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

type ProductInput struct {
	Name    string  `json:"name"`
	Unit    string  `json:"unit"`
	Barcode string  `json:"barcode"`
	Price   float64 `json:"price"`
}

func (c *Client) CreateProduct(ctx context.Context, in ProductInput) error {
	return c.send(ctx, "POST", "/products", in, nil)
}

func (c *Client) UpdateProduct(ctx context.Context, id int64, in ProductInput) error {
	return c.send(ctx, "PATCH", pathID("/products", id), in, nil)
}

func (c *Client) DeleteProduct(ctx context.Context, id int64) error {
	return c.send(ctx, "DELETE", pathID("/products", id), nil, nil)
}
