package export

import (
	"testing"

	"github.com/xuri/excelize/v2"

	"inventario-bot/internal/api"
	"inventario-bot/internal/sheet"
)

func TestSheetItemsSkipsBlankRows(t *testing.T) {
	d := sheet.NewDraft()
	d.Series = "A-001"
	d.Update(0, sheet.FieldCode, "WATER-1L")
	d.Update(0, sheet.FieldQuantity, "3")
	d.Update(0, sheet.FieldPrice, "2.5")
	d.AddBlank() // blank tail must not appear in the file

	buf, err := SheetItems(d)
	if err != nil {
		t.Fatalf("SheetItems: %v", err)
	}

	f, err := excelize.OpenReader(buf)
	if err != nil {
		t.Fatalf("open generated file: %v", err)
	}
	defer func() { _ = f.Close() }()

	name := f.GetSheetName(f.GetActiveSheetIndex())
	rows, err := f.GetRows(name)
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want header + 1 item", len(rows))
	}
	if rows[0][0] != "codigo" {
		t.Fatalf("header = %v", rows[0])
	}
	if rows[1][0] != "WATER-1L" || rows[1][2] != "unidades" {
		t.Fatalf("item row = %v", rows[1])
	}
	if rows[1][4] != "7.5" {
		t.Fatalf("total = %q, want 7.5", rows[1][4])
	}
}

func TestReportUsesWarehouseNames(t *testing.T) {
	sheets := []api.InventorySheet{
		{ID: 1, WarehouseID: 4, EmissionDate: "2026-08-01", Series: "B-17", State: "approved", Entity: "ACME"},
		{ID: 2, WarehouseID: 9, EmissionDate: "2026-08-02", Series: "B-18", State: "pending"},
	}
	buf, err := Report(sheets, map[int64]string{4: "Central"})
	if err != nil {
		t.Fatalf("Report: %v", err)
	}

	f, err := excelize.OpenReader(buf)
	if err != nil {
		t.Fatalf("open generated file: %v", err)
	}
	defer func() { _ = f.Close() }()

	name := f.GetSheetName(f.GetActiveSheetIndex())
	rows, err := f.GetRows(name)
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want header + 2", len(rows))
	}
	if rows[1][1] != "Central" || rows[1][4] != "aprobado" {
		t.Fatalf("row 1 = %v", rows[1])
	}
	// unknown warehouse falls back to its id
	if rows[2][1] != "ID:9" || rows[2][4] != "pendiente" {
		t.Fatalf("row 2 = %v", rows[2])
	}
}
