package dialog

type State string

const (
	StateIdle State = "idle"

	// login flow
	StateLoginEmail    State = "login_email"
	StateLoginPassword State = "login_password"
	StateCompanyPick   State = "company_pick"

	// list search (family kept in payload)
	StateSearchInput State = "search_input"

	// warehouses
	StateWhName    State = "wh_name"
	StateWhAddress State = "wh_address"

	// products
	StateProdName    State = "prod_name"
	StateProdBarcode State = "prod_barcode"
	StateProdUnit    State = "prod_unit"
	StateProdPrice   State = "prod_price"

	// entities
	StateEntName State = "ent_name"
	StateEntDoc  State = "ent_doc"

	// accounts (admin only)
	StateAccName     State = "acc_name"
	StateAccEmail    State = "acc_email"
	StateAccPassword State = "acc_password"
	StateAccRole     State = "acc_role"

	// inventory sheet editor
	StateSheetWh          State = "sheet_wh"
	StateSheetDate        State = "sheet_date"
	StateSheetSeries      State = "sheet_series"
	StateSheetEntity      State = "sheet_entity"
	StateSheetObservation State = "sheet_obs"
	StateSheetItems       State = "sheet_items"
	StateSheetItemCode    State = "sheet_item_code"
	StateSheetItemQty     State = "sheet_item_qty"
	StateSheetItemPrice   State = "sheet_item_price"
	StateSheetScan        State = "sheet_scan"
	StateSheetBulk        State = "sheet_bulk"
)

type Payload map[string]any

type Item struct {
	ChatID  int64
	State   State
	Payload Payload
}
