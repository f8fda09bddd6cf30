// Package export renders drafts and report rows to xlsx files the bot
// sends back as documents.
package export

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"inventario-bot/internal/api"
	"inventario-bot/internal/sheet"
)

// SheetItems writes the draft's non-blank line items to a worksheet.
func SheetItems(d *sheet.Draft) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	name := f.GetSheetName(f.GetActiveSheetIndex())

	header := []interface{}{"codigo", "cantidad", "unidad", "precio", "total"}
	if err := f.SetSheetRow(name, "A1", &header); err != nil {
		return nil, fmt.Errorf("export header: %w", err)
	}

	row := 2
	for _, it := range d.Items {
		if it.Blank() {
			continue
		}
		excelRow := []interface{}{
			it.ProductCode,
			it.Quantity,
			string(it.Unit),
			it.Price,
			it.Quantity * it.Price,
		}
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return nil, fmt.Errorf("export cell: %w", err)
		}
		if err := f.SetSheetRow(name, cell, &excelRow); err != nil {
			return nil, fmt.Errorf("export row: %w", err)
		}
		row++
	}

	buf := &bytes.Buffer{}
	if err := f.Write(buf); err != nil {
		return nil, fmt.Errorf("export write: %w", err)
	}
	return buf, nil
}

// Report writes inventory-sheet report rows (one per sheet) to a
// worksheet, state shown with its user-facing label.
func Report(sheets []api.InventorySheet, warehouses map[int64]string) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	name := f.GetSheetName(f.GetActiveSheetIndex())

	header := []interface{}{"id", "almacen", "f_emision", "serie", "estado", "entidad"}
	if err := f.SetSheetRow(name, "A1", &header); err != nil {
		return nil, fmt.Errorf("export header: %w", err)
	}

	row := 2
	for _, s := range sheets {
		wh := warehouses[s.WarehouseID]
		if wh == "" {
			wh = fmt.Sprintf("ID:%d", s.WarehouseID)
		}
		excelRow := []interface{}{
			s.ID,
			wh,
			s.EmissionDate,
			s.Series,
			sheet.StateLabel(sheet.SheetState(s.State)),
			s.Entity,
		}
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return nil, fmt.Errorf("export cell: %w", err)
		}
		if err := f.SetSheetRow(name, cell, &excelRow); err != nil {
			return nil, fmt.Errorf("export row: %w", err)
		}
		row++
	}

	buf := &bytes.Buffer{}
	if err := f.Write(buf); err != nil {
		return nil, fmt.Errorf("export write: %w", err)
	}
	return buf, nil
}
