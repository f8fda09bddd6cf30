package bot

import (
	"context"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"inventario-bot/internal/dialog"
)

func (b *Bot) onMessage(ctx context.Context, msg *tgbotapi.Message) {
	if msg.IsCommand() {
		b.handleCommand(ctx, msg)
		return
	}
	b.handleStateMessage(ctx, msg)
}

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	switch msg.Command() {
	case "start":
		s, err := b.sessions.Get(ctx, chatID)
		if err != nil {
			b.log.Error("session load failed", "err", err)
			return
		}
		if s == nil || s.Token == "" {
			b.showLogin(ctx, chatID)
			return
		}
		b.showMainMenu(ctx, chatID, nil)
	case "help":
		b.notify(chatID, "Comandos:\n/start — menú principal\n/logout — cerrar sesión\n"+
			"Dentro de una hoja: envía un código para escanear, o varios códigos (uno por línea) en modo masivo.")
	case "logout":
		_ = b.sessions.Clear(ctx, chatID)
		_ = b.states.Reset(ctx, chatID)
		b.dropDraft(chatID)
		b.notify(chatID, "Sesión cerrada.")
		b.showLogin(ctx, chatID)
	default:
		b.notify(chatID, "Comando desconocido. Usa /help.")
	}
}

// handleStateMessage routes free text by the chat's dialog state: the
// form-field and scan inputs of whichever screen is open.
func (b *Bot) handleStateMessage(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	st, err := b.states.Get(ctx, chatID)
	if err != nil {
		b.log.Error("dialog state load failed", "err", err)
		return
	}
	text := strings.TrimSpace(msg.Text)

	switch st.State {
	case dialog.StateLoginEmail:
		b.loginEmailEntered(ctx, chatID, text)
	case dialog.StateLoginPassword:
		b.loginPasswordEntered(ctx, chatID, st, text)
	case dialog.StateCompanyPick:
		b.companyEntered(ctx, chatID, text)

	case dialog.StateSearchInput:
		b.searchEntered(ctx, chatID, st, text)

	case dialog.StateWhName:
		b.warehouseNameEntered(ctx, chatID, st, text)
	case dialog.StateWhAddress:
		b.warehouseAddressEntered(ctx, chatID, st, text)

	case dialog.StateProdName:
		b.productNameEntered(ctx, chatID, st, text)
	case dialog.StateProdBarcode:
		b.productBarcodeEntered(ctx, chatID, st, text)
	case dialog.StateProdPrice:
		b.productPriceEntered(ctx, chatID, st, text)

	case dialog.StateEntName:
		b.entityNameEntered(ctx, chatID, st, text)
	case dialog.StateEntDoc:
		b.entityDocEntered(ctx, chatID, st, text)

	case dialog.StateAccName:
		b.accountNameEntered(ctx, chatID, st, text)
	case dialog.StateAccEmail:
		b.accountEmailEntered(ctx, chatID, st, text)
	case dialog.StateAccPassword:
		b.accountPasswordEntered(ctx, chatID, st, text)

	case dialog.StateSheetDate:
		b.sheetDateEntered(ctx, chatID, text)
	case dialog.StateSheetSeries:
		b.sheetSeriesEntered(ctx, chatID, text)
	case dialog.StateSheetEntity:
		b.sheetEntityEntered(ctx, chatID, text)
	case dialog.StateSheetObservation:
		b.sheetObservationEntered(ctx, chatID, text)
	case dialog.StateSheetItemCode:
		b.sheetItemFieldEntered(ctx, chatID, st, "code", text)
	case dialog.StateSheetItemQty:
		b.sheetItemFieldEntered(ctx, chatID, st, "quantity", text)
	case dialog.StateSheetItemPrice:
		b.sheetItemFieldEntered(ctx, chatID, st, "price", text)
	case dialog.StateSheetScan:
		b.sheetScanEntered(ctx, chatID, text)
	case dialog.StateSheetBulk:
		b.sheetBulkEntered(ctx, chatID, msg.Text)

	default:
		if b.requireSession(ctx, chatID) == nil {
			return
		}
		b.notify(chatID, "Usa el menú para navegar. /start")
	}
}

func (b *Bot) onCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	chatID := cb.Message.Chat.ID
	msgID := cb.Message.MessageID
	data := cb.Data
	b.answerCallback(cb, "", false)

	// navigation chrome
	switch data {
	case "nav:noop":
		return
	case "nav:cancel", "nav:back":
		_ = b.states.Reset(ctx, chatID)
		b.dropDraft(chatID)
		b.showMainMenu(ctx, chatID, &msgID)
		return
	}

	// path-style routes: every screen has one
	if strings.HasPrefix(data, "/") {
		b.routePath(ctx, chatID, msgID, data)
		return
	}

	parts := strings.Split(data, ":")
	switch parts[0] {
	case "pg": // pg:<family>:<page>
		if len(parts) == 3 {
			page, _ := strconv.Atoi(parts[2])
			b.showFamilyList(ctx, chatID, parts[1], page, b.savedSearch(ctx, chatID, parts[1]), &msgID)
		}
	case "search": // search:<family>
		if len(parts) == 2 {
			b.promptSearch(ctx, chatID, parts[1])
		}
	case "del": // del:<family>:<id>[:yes]
		b.routeDelete(ctx, chatID, msgID, parts)
	case "wh":
		b.routeWarehouse(ctx, chatID, msgID, parts)
	case "prod":
		b.routeProduct(ctx, chatID, msgID, parts)
	case "ent":
		b.routeEntity(ctx, chatID, msgID, parts)
	case "acc":
		b.routeAccount(ctx, chatID, msgID, parts)
	case "sh":
		b.routeSheet(ctx, chatID, msgID, parts)
	case "rep":
		b.routeReport(ctx, chatID, msgID, parts)
	default:
		b.log.Warn("unroutable callback", "data", data)
	}
}

// routePath is the navigation table. Unauthenticated chats are
// confined to the login screen whatever path they hit.
func (b *Bot) routePath(ctx context.Context, chatID int64, msgID int, path string) {
	s := b.requireSession(ctx, chatID)
	if s == nil {
		return
	}
	// leaving a screen discards any in-progress form or draft
	_ = b.states.Reset(ctx, chatID)
	if path != "/inventory-sheets/new" {
		b.dropDraft(chatID)
	}

	switch path {
	case "/home":
		b.showMainMenu(ctx, chatID, &msgID)
	case "/select-company":
		b.promptCompany(ctx, chatID)
	case "/warehouses":
		b.showFamilyList(ctx, chatID, "warehouses", 1, "", &msgID)
	case "/warehouses/new":
		b.startWarehouseForm(ctx, chatID, 0)
	case "/products":
		b.showFamilyList(ctx, chatID, "products", 1, "", &msgID)
	case "/products/new":
		b.startProductForm(ctx, chatID, 0)
	case "/entidades":
		b.showFamilyList(ctx, chatID, "entities", 1, "", &msgID)
	case "/entidades/new":
		b.startEntityForm(ctx, chatID, 0)
	case "/accounts":
		if !s.IsAdmin() {
			b.notify(chatID, "Solo administradores pueden gestionar cuentas.")
			return
		}
		b.showFamilyList(ctx, chatID, "accounts", 1, "", &msgID)
	case "/accounts/new":
		if !s.IsAdmin() {
			b.notify(chatID, "Solo administradores pueden gestionar cuentas.")
			return
		}
		b.startAccountForm(ctx, chatID, 0)
	case "/inventory-sheets":
		b.showFamilyList(ctx, chatID, "inventory-sheets", 1, "", &msgID)
	case "/inventory-sheets/new":
		b.startSheetEditor(ctx, chatID)
	case "/reportes":
		b.showReports(ctx, chatID, &msgID)
	default:
		b.log.Warn("unknown path", "path", path)
		b.showMainMenu(ctx, chatID, &msgID)
	}
}

func (b *Bot) showFamilyList(ctx context.Context, chatID int64, family string, page int, search string, editMsgID *int) {
	if page < 1 {
		page = 1
	}
	switch family {
	case "warehouses":
		b.showWarehouseList(ctx, chatID, page, search, editMsgID)
	case "products":
		b.showProductList(ctx, chatID, page, search, editMsgID)
	case "entities":
		b.showEntityList(ctx, chatID, page, search, editMsgID)
	case "accounts":
		b.showAccountList(ctx, chatID, page, search, editMsgID)
	case "inventory-sheets":
		b.showSheetList(ctx, chatID, page, search, editMsgID)
	}
}

func (b *Bot) showMainMenu(ctx context.Context, chatID int64, editMsgID *int) {
	s := b.requireSession(ctx, chatID)
	if s == nil {
		return
	}
	text := "Menú principal — " + s.Name
	kb := mainMenuKeyboard(s)
	if editMsgID != nil {
		b.send(tgbotapi.NewEditMessageTextAndMarkup(chatID, *editMsgID, text, kb))
	} else {
		m := tgbotapi.NewMessage(chatID, text)
		m.ReplyMarkup = kb
		b.send(m)
	}
}
