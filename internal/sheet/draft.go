// Package sheet holds the inventory-sheet draft being edited in one
// chat: an ordered line-item collection plus header fields, with the
// invariants the editor keeps (at least one row, blank tail row after
// a scan, submit only with at least one real item).
package sheet

import (
	"errors"
	"strconv"
	"sync/atomic"

	"inventario-bot/internal/api"
)

type Unit string

const (
	UnitUnits     Unit = "unidades"
	UnitBoxes     Unit = "cajas"
	UnitPackages  Unit = "paquetes"
	UnitLiters    Unit = "litros"
	UnitKilograms Unit = "kilogramos"
)

var Units = []Unit{UnitUnits, UnitBoxes, UnitPackages, UnitLiters, UnitKilograms}

func ParseUnit(s string) (Unit, bool) {
	for _, u := range Units {
		if s == string(u) {
			return u, true
		}
	}
	return UnitUnits, false
}

type SheetState string

const (
	StatePending    SheetState = "pending"
	StateRegistered SheetState = "registered"
	StateApproved   SheetState = "approved"
)

// StateLabel is the user-facing name of a sheet state.
func StateLabel(s SheetState) string {
	switch s {
	case StateRegistered:
		return "registrado"
	case StateApproved:
		return "aprobado"
	default:
		return "pendiente"
	}
}

// LineItem is one row of the draft. ID is generated and stable for
// the life of the row, independent of its position.
type LineItem struct {
	ID          string
	ProductID   int64
	ProductCode string
	Quantity    float64
	Unit        Unit
	Price       float64
}

func (it LineItem) Blank() bool { return it.ProductCode == "" }

// EditPhase is the draft lifecycle: editing -> submitting and back to
// editing on failure; Persisted once the backend accepted it.
type EditPhase string

const (
	PhaseEditing    EditPhase = "editing"
	PhaseSubmitting EditPhase = "submitting"
	PhasePersisted  EditPhase = "persisted"
)

var ErrNoItems = errors.New("la hoja necesita al menos un item con producto")

var nextItemID atomic.Int64

func newItemID() string {
	return "li-" + strconv.FormatInt(nextItemID.Add(1), 10)
}

func blankItem() LineItem {
	return LineItem{ID: newItemID(), Unit: UnitUnits}
}

// Draft is one in-progress inventory sheet. SheetID is zero for a new
// sheet and the persisted id when editing an existing one.
type Draft struct {
	SheetID      int64
	WarehouseID  int64
	EmissionDate string
	State        SheetState
	Series       string
	Entity       string
	Observation  string
	Items        []LineItem
	Phase        EditPhase
}

// NewDraft starts with exactly one blank line item.
func NewDraft() *Draft {
	return &Draft{
		State: StatePending,
		Items: []LineItem{blankItem()},
		Phase: PhaseEditing,
	}
}

// Snapshot copies the draft with its own item slice, safe to read
// while the original keeps changing under its owner's lock.
func (d *Draft) Snapshot() Draft {
	c := *d
	c.Items = append([]LineItem(nil), d.Items...)
	return c
}

// FromSheet pre-populates a draft from a persisted sheet for editing.
func FromSheet(s api.InventorySheet, details []api.DetailRow) *Draft {
	d := &Draft{
		SheetID:      s.ID,
		WarehouseID:  s.WarehouseID,
		EmissionDate: s.EmissionDate,
		State:        SheetState(s.State),
		Series:       s.Series,
		Entity:       s.Entity,
		Observation:  s.Observation,
		Phase:        PhaseEditing,
	}
	for _, det := range details {
		unit, _ := ParseUnit(det.Unit)
		d.Items = append(d.Items, LineItem{
			ID:          newItemID(),
			ProductID:   det.ProductID,
			ProductCode: det.Barcode,
			Quantity:    det.Quantity,
			Unit:        unit,
			Price:       det.Price,
		})
	}
	if len(d.Items) == 0 {
		d.Items = []LineItem{blankItem()}
	}
	return d
}
