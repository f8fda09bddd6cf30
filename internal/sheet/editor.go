package sheet

import (
	"strconv"
	"strings"

	"inventario-bot/internal/api"
)

// Field names accepted by Update.
const (
	FieldCode     = "code"
	FieldQuantity = "quantity"
	FieldUnit     = "unit"
	FieldPrice    = "price"
)

// AddBlank appends a zeroed default-unit row and returns its index.
func (d *Draft) AddBlank() int {
	d.Items = append(d.Items, blankItem())
	return len(d.Items) - 1
}

// Remove drops the row at index. Removing the last remaining row is a
// no-op: a sheet is never without at least one line item.
func (d *Draft) Remove(index int) bool {
	if len(d.Items) <= 1 || index < 0 || index >= len(d.Items) {
		return false
	}
	d.Items = append(d.Items[:index], d.Items[index+1:]...)
	return true
}

// Update sets one field of one row from user text. Quantity and price
// are coerced to numbers, 0 on parse failure; no further validation
// happens at this layer.
func (d *Draft) Update(index int, field, value string) bool {
	if index < 0 || index >= len(d.Items) {
		return false
	}
	it := &d.Items[index]
	switch field {
	case FieldCode:
		it.ProductCode = strings.TrimSpace(value)
	case FieldQuantity:
		it.Quantity = parseNumber(value)
	case FieldPrice:
		it.Price = parseNumber(value)
	case FieldUnit:
		unit, _ := ParseUnit(value)
		it.Unit = unit
	default:
		return false
	}
	return true
}

func parseNumber(s string) float64 {
	n, err := strconv.ParseFloat(strings.TrimSpace(strings.ReplaceAll(s, ",", ".")), 64)
	if err != nil {
		return 0
	}
	return n
}

// AppendFromScan fills the current last row from a resolved product
// (quantity 1) and appends a fresh blank row so the next scan has a
// target. Single-scan path only; batches go through MergeResolved.
func (d *Draft) AppendFromScan(p api.Product) {
	last := &d.Items[len(d.Items)-1]
	last.ProductID = p.ID
	last.ProductCode = p.Barcode
	last.Quantity = 1
	unit, _ := ParseUnit(p.Unit)
	last.Unit = unit
	last.Price = p.Price
	d.AddBlank()
}

// MergeResolved appends one row per resolved product. If the draft's
// last row is still blank it is removed first, so the batch never
// leaves a stray empty row in the middle of the list.
func (d *Draft) MergeResolved(products []api.Product) {
	if len(products) == 0 {
		return
	}
	if n := len(d.Items); n > 0 && d.Items[n-1].Blank() {
		d.Items = d.Items[:n-1]
	}
	for _, p := range products {
		unit, _ := ParseUnit(p.Unit)
		d.Items = append(d.Items, LineItem{
			ID:          newItemID(),
			ProductID:   p.ID,
			ProductCode: p.Barcode,
			Quantity:    1,
			Unit:        unit,
			Price:       p.Price,
		})
	}
}

// CommitCode is the keyboard-driven sequential entry rule: committing
// a non-empty code in the LAST row creates a new blank row (focus
// advances into it); committing anywhere else only advances focus.
// Returns the index the focus moves to.
func (d *Draft) CommitCode(index int, value string) int {
	if !d.Update(index, FieldCode, value) {
		return index
	}
	last := len(d.Items) - 1
	if index == last {
		if d.Items[index].ProductCode != "" {
			return d.AddBlank()
		}
		return index
	}
	return index + 1
}

// Payload validates the draft for submission and builds the request
// body. Rows without a product code are discarded; if none survive
// the submit is rejected and the draft stays editable.
func (d *Draft) Payload() (api.SheetPayload, error) {
	details := make([]api.SheetDetail, 0, len(d.Items))
	for _, it := range d.Items {
		if it.Blank() {
			continue
		}
		details = append(details, api.SheetDetail{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			Unit:      string(it.Unit),
			Price:     it.Price,
		})
	}
	if len(details) == 0 {
		return api.SheetPayload{}, ErrNoItems
	}
	return api.SheetPayload{
		Sheet: api.SheetHeader{
			WarehouseID:  d.WarehouseID,
			EmissionDate: d.EmissionDate,
			State:        string(d.State),
			Series:       d.Series,
			Entity:       d.Entity,
			Observation:  d.Observation,
		},
		Details: details,
	}, nil
}

// BeginSubmit moves editing -> submitting after validation. On any
// later failure call Fail to fall back to editing; on success call
// MarkPersisted.
func (d *Draft) BeginSubmit() (api.SheetPayload, error) {
	payload, err := d.Payload()
	if err != nil {
		return payload, err
	}
	d.Phase = PhaseSubmitting
	return payload, nil
}

func (d *Draft) Fail()          { d.Phase = PhaseEditing }
func (d *Draft) MarkPersisted() { d.Phase = PhasePersisted }
