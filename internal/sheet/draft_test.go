package sheet

import (
	"errors"
	"testing"

	"inventario-bot/internal/api"
)

func TestNewDraftStartsWithOneBlankItem(t *testing.T) {
	d := NewDraft()
	if len(d.Items) != 1 {
		t.Fatalf("items = %d, want 1", len(d.Items))
	}
	it := d.Items[0]
	if !it.Blank() || it.Quantity != 0 || it.Price != 0 || it.Unit != UnitUnits {
		t.Fatalf("blank item not zeroed: %+v", it)
	}
	if d.Phase != PhaseEditing {
		t.Fatalf("phase = %s, want editing", d.Phase)
	}
}

func TestAddBlankAppendsZeroedRow(t *testing.T) {
	d := NewDraft()
	before := len(d.Items)
	idx := d.AddBlank()
	if len(d.Items) != before+1 {
		t.Fatalf("items = %d, want %d", len(d.Items), before+1)
	}
	it := d.Items[idx]
	if it.Quantity != 0 || it.Price != 0 || it.Unit != UnitUnits || it.ProductCode != "" {
		t.Fatalf("new row not blank: %+v", it)
	}
	if d.Items[0].ID == it.ID {
		t.Fatal("row ids must be unique")
	}
}

func TestRemoveKeepsAtLeastOneItem(t *testing.T) {
	d := NewDraft()
	if d.Remove(0) {
		t.Fatal("removing the only item must be rejected")
	}
	if len(d.Items) != 1 {
		t.Fatalf("items = %d, want 1", len(d.Items))
	}

	d.AddBlank()
	d.AddBlank()
	id := d.Items[2].ID
	if !d.Remove(1) {
		t.Fatal("remove of a middle row must succeed")
	}
	if len(d.Items) != 2 || d.Items[1].ID != id {
		t.Fatalf("wrong row removed: %+v", d.Items)
	}
}

func TestRemoveRejectsBadIndex(t *testing.T) {
	d := NewDraft()
	d.AddBlank()
	if d.Remove(-1) || d.Remove(5) {
		t.Fatal("out-of-range remove must be rejected")
	}
}

func TestUpdateCoercesNumbers(t *testing.T) {
	tests := []struct {
		field string
		value string
		want  float64
	}{
		{FieldQuantity, "12.5", 12.5},
		{FieldQuantity, "3,25", 3.25},
		{FieldQuantity, "abc", 0},
		{FieldPrice, " 7.90 ", 7.9},
		{FieldPrice, "", 0},
	}
	for _, tt := range tests {
		d := NewDraft()
		if !d.Update(0, tt.field, tt.value) {
			t.Fatalf("Update(%s, %q) rejected", tt.field, tt.value)
		}
		got := d.Items[0].Quantity
		if tt.field == FieldPrice {
			got = d.Items[0].Price
		}
		if got != tt.want {
			t.Errorf("Update(%s, %q) = %v, want %v", tt.field, tt.value, got, tt.want)
		}
	}
}

func TestUpdateUnknownFieldRejected(t *testing.T) {
	d := NewDraft()
	if d.Update(0, "color", "azul") {
		t.Fatal("unknown field must be rejected")
	}
}

func TestAppendFromScanFillsLastAndAppendsBlank(t *testing.T) {
	// draft with one blank item; a successful scan fills it and
	// appends a fresh blank row: final count 2, last one blank.
	d := NewDraft()
	p := api.Product{ID: 9, Name: "Agua Cielo 1L", Unit: "litros", Barcode: "WATER-1L", Price: 2.5}
	d.AppendFromScan(p)

	if len(d.Items) != 2 {
		t.Fatalf("items = %d, want 2", len(d.Items))
	}
	filled := d.Items[0]
	if filled.ProductCode != "WATER-1L" || filled.Quantity != 1 ||
		filled.Unit != UnitLiters || filled.Price != 2.5 || filled.ProductID != 9 {
		t.Fatalf("filled item wrong: %+v", filled)
	}
	if !d.Items[1].Blank() {
		t.Fatal("last item must be blank after scan")
	}
}

func TestMergeResolvedDropsTrailingBlank(t *testing.T) {
	d := NewDraft() // one blank row
	products := []api.Product{
		{ID: 1, Barcode: "A1", Unit: "unidades", Price: 1},
		{ID: 2, Barcode: "B2", Unit: "cajas", Price: 2},
	}
	d.MergeResolved(products)

	if len(d.Items) != 2 {
		t.Fatalf("items = %d, want 2 (blank tail removed)", len(d.Items))
	}
	if d.Items[0].ProductCode != "A1" || d.Items[1].ProductCode != "B2" {
		t.Fatalf("wrong merge order: %+v", d.Items)
	}
}

func TestMergeResolvedKeepsNonBlankTail(t *testing.T) {
	d := NewDraft()
	d.Update(0, FieldCode, "MANUAL-1")
	before := len(d.Items)

	d.MergeResolved([]api.Product{{ID: 3, Barcode: "C3", Unit: "unidades"}})

	if len(d.Items) != before+1 {
		t.Fatalf("items = %d, want %d", len(d.Items), before+1)
	}
	if d.Items[0].ProductCode != "MANUAL-1" {
		t.Fatal("non-blank tail must not be removed")
	}
}

func TestMergeResolvedNoopOnEmpty(t *testing.T) {
	d := NewDraft()
	d.MergeResolved(nil)
	if len(d.Items) != 1 || !d.Items[0].Blank() {
		t.Fatalf("empty merge must not touch the draft: %+v", d.Items)
	}
}

func TestCommitCodeSequentialEntry(t *testing.T) {
	d := NewDraft()

	// non-empty commit in the last row grows the list
	next := d.CommitCode(0, "A1")
	if next != 1 || len(d.Items) != 2 {
		t.Fatalf("commit in last row: next=%d items=%d, want 1/2", next, len(d.Items))
	}

	// empty commit in the last row does not
	next = d.CommitCode(1, "")
	if next != 1 || len(d.Items) != 2 {
		t.Fatalf("empty commit: next=%d items=%d, want 1/2", next, len(d.Items))
	}

	// commit in a non-last row only advances
	next = d.CommitCode(0, "A1-bis")
	if next != 1 || len(d.Items) != 2 {
		t.Fatalf("commit in non-last row: next=%d items=%d, want 1/2", next, len(d.Items))
	}
}

func TestPayloadDiscardsBlankAndRejectsEmpty(t *testing.T) {
	d := NewDraft()
	d.WarehouseID = 4
	d.Series = "A-001"

	if _, err := d.Payload(); !errors.Is(err, ErrNoItems) {
		t.Fatalf("all-blank draft: err = %v, want ErrNoItems", err)
	}

	d.Items[0] = LineItem{ID: "x", ProductID: 7, ProductCode: "A1", Quantity: 3, Unit: UnitBoxes, Price: 10}
	d.AddBlank() // blank tail should be dropped from the payload

	payload, err := d.Payload()
	if err != nil {
		t.Fatalf("Payload: %v", err)
	}
	if len(payload.Details) != 1 {
		t.Fatalf("details = %d, want 1", len(payload.Details))
	}
	det := payload.Details[0]
	if det.ProductID != 7 || det.Quantity != 3 || det.Unit != "cajas" || det.Price != 10 {
		t.Fatalf("detail wrong: %+v", det)
	}
	if payload.Sheet.WarehouseID != 4 || payload.Sheet.Series != "A-001" {
		t.Fatalf("header wrong: %+v", payload.Sheet)
	}
}

func TestSubmitLifecycle(t *testing.T) {
	d := NewDraft()
	d.Update(0, FieldCode, "A1")

	if _, err := d.BeginSubmit(); err != nil {
		t.Fatalf("BeginSubmit: %v", err)
	}
	if d.Phase != PhaseSubmitting {
		t.Fatalf("phase = %s, want submitting", d.Phase)
	}

	d.Fail()
	if d.Phase != PhaseEditing {
		t.Fatalf("phase after Fail = %s, want editing", d.Phase)
	}

	if _, err := d.BeginSubmit(); err != nil {
		t.Fatalf("BeginSubmit: %v", err)
	}
	d.MarkPersisted()
	if d.Phase != PhasePersisted {
		t.Fatalf("phase = %s, want persisted", d.Phase)
	}
}

func TestBeginSubmitRejectedStaysEditing(t *testing.T) {
	d := NewDraft()
	if _, err := d.BeginSubmit(); err == nil {
		t.Fatal("submit of an all-blank draft must fail")
	}
	if d.Phase != PhaseEditing {
		t.Fatalf("phase = %s, want editing", d.Phase)
	}
}

func TestFromSheetPrePopulates(t *testing.T) {
	s := api.InventorySheet{
		ID: 12, WarehouseID: 4, EmissionDate: "2026-08-01",
		State: "registered", Series: "B-17", Entity: "ACME",
	}
	rows := []api.DetailRow{
		{ProductID: 1, Barcode: "A1", Quantity: 2, Unit: "cajas", Price: 5},
		{ProductID: 2, Barcode: "B2", Quantity: 1, Unit: "unidades", Price: 3},
	}
	d := FromSheet(s, rows)

	if d.SheetID != 12 || d.State != StateRegistered || len(d.Items) != 2 {
		t.Fatalf("draft wrong: %+v", d)
	}
	if d.Items[0].ProductCode != "A1" || d.Items[0].Unit != UnitBoxes {
		t.Fatalf("item wrong: %+v", d.Items[0])
	}
}

func TestFromSheetEmptyDetailsGetsBlankRow(t *testing.T) {
	d := FromSheet(api.InventorySheet{ID: 1}, nil)
	if len(d.Items) != 1 || !d.Items[0].Blank() {
		t.Fatalf("draft must never be empty: %+v", d.Items)
	}
}

func TestParseUnitFallsBackToDefault(t *testing.T) {
	if u, ok := ParseUnit("cajas"); !ok || u != UnitBoxes {
		t.Fatalf("ParseUnit(cajas) = %v, %v", u, ok)
	}
	if u, ok := ParseUnit("galones"); ok || u != UnitUnits {
		t.Fatalf("ParseUnit(galones) = %v, %v, want default unit", u, ok)
	}
}

func TestStateLabel(t *testing.T) {
	tests := []struct {
		state SheetState
		want  string
	}{
		{StatePending, "pendiente"},
		{StateRegistered, "registrado"},
		{StateApproved, "aprobado"},
		{SheetState("???"), "pendiente"},
	}
	for _, tt := range tests {
		if got := StateLabel(tt.state); got != tt.want {
			t.Errorf("StateLabel(%s) = %s, want %s", tt.state, got, tt.want)
		}
	}
}
