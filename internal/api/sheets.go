package api

import (
	"context"
	"strconv"
)

type InventorySheet struct {
	ID           int64  `json:"id"`
	WarehouseID  int64  `json:"warehouseId"`
	EmissionDate string `json:"emissionDate"`
	State        string `json:"state"`
	Series       string `json:"series"`
	Entity       string `json:"entity"`
	Observation  string `json:"observation"`
}

type SheetPage struct {
	Data       []InventorySheet `json:"data"`
	Total      int              `json:"total"`
	TotalPages int              `json:"totalPages"`
}

// SheetFilters extends the common list params with the report filters
// of the inventory-sheet listing.
type SheetFilters struct {
	ListParams
	State       string
	WarehouseID int64
	DateFrom    string
	DateTo      string
	Entity      string
}

func (f SheetFilters) query() map[string]string {
	q := f.ListParams.query()
	// this endpoint names its search param "query"
	if f.Search != "" {
		delete(q, "search")
		q["query"] = f.Search
	}
	if f.State != "" {
		q["state"] = f.State
	}
	if f.WarehouseID > 0 {
		q["warehouseId"] = strconv.FormatInt(f.WarehouseID, 10)
	}
	if f.DateFrom != "" {
		q["dateFrom"] = f.DateFrom
	}
	if f.DateTo != "" {
		q["dateTo"] = f.DateTo
	}
	if f.Entity != "" {
		q["entity"] = f.Entity
	}
	return q
}

func (c *Client) ListInventorySheets(ctx context.Context, f SheetFilters) (*SheetPage, error) {
	var out SheetPage
	if err := c.get(ctx, "/inventory-sheets", f.query(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DetailRow is how the backend returns persisted line items: the
// product id plus its barcode, so the editor can show codes without a
// lookup per row.
type DetailRow struct {
	ProductID int64   `json:"productId"`
	Barcode   string  `json:"barcode"`
	Quantity  float64 `json:"quantity"`
	Unit      string  `json:"unit"`
	Price     float64 `json:"price"`
}

type SheetWithDetails struct {
	Sheet   InventorySheet `json:"sheet"`
	Details []DetailRow    `json:"details"`
}

func (c *Client) GetInventorySheet(ctx context.Context, id int64) (*SheetWithDetails, error) {
	var out SheetWithDetails
	if err := c.get(ctx, pathID("/inventory-sheets", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

type SheetDetail struct {
	ProductID int64   `json:"productId"`
	Quantity  float64 `json:"quantity"`
	Unit      string  `json:"unit"`
	Price     float64 `json:"price"`
}

type SheetHeader struct {
	WarehouseID  int64  `json:"warehouseId"`
	EmissionDate string `json:"emissionDate"`
	State        string `json:"state"`
	Series       string `json:"series"`
	Entity       string `json:"entity,omitempty"`
	Observation  string `json:"observation,omitempty"`
}

// SheetPayload is the submit shape: header plus line items.
type SheetPayload struct {
	Sheet   SheetHeader   `json:"sheet"`
	Details []SheetDetail `json:"details"`
}

func (c *Client) CreateInventorySheet(ctx context.Context, in SheetPayload) error {
	return c.send(ctx, "POST", "/inventory-sheets", in, nil)
}

func (c *Client) UpdateInventorySheet(ctx context.Context, id int64, in SheetPayload) error {
	return c.send(ctx, "PATCH", pathID("/inventory-sheets", id), in, nil)
}

func (c *Client) DeleteInventorySheet(ctx context.Context, id int64) error {
	return c.send(ctx, "DELETE", pathID("/inventory-sheets", id), nil, nil)
}
