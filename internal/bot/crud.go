package bot

import (
	"context"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"inventario-bot/internal/api"
	"inventario-bot/internal/cache"
)

// routeDelete covers every family: del:<family>:<id> asks for
// confirmation, del:<family>:<id>:yes performs the call. A successful
// delete invalidates the family cache before re-rendering the list.
func (b *Bot) routeDelete(ctx context.Context, chatID int64, msgID int, parts []string) {
	if len(parts) < 3 {
		return
	}
	family := parts[1]
	id, err := strconv.ParseInt(parts[2], 10, 64)
	if err != nil {
		return
	}

	if len(parts) < 4 || parts[3] != "yes" {
		b.send(tgbotapi.NewEditMessageTextAndMarkup(chatID, msgID,
			"¿Eliminar el registro #"+parts[2]+"? Esta acción no se puede deshacer.",
			confirmDeleteKeyboard(family, id)))
		return
	}

	actx := b.apiCtx(ctx, chatID)
	switch family {
	case "warehouses":
		err = b.client.DeleteWarehouse(actx, id)
	case "products":
		err = b.client.DeleteProduct(actx, id)
	case "entities":
		err = b.client.DeleteEntity(actx, id)
	case "accounts":
		err = b.client.DeleteAccount(actx, id)
	case "inventory-sheets":
		err = b.client.DeleteInventorySheet(actx, id)
	default:
		return
	}
	if err != nil {
		if api.IsUnauthorized(err) {
			return // forceLogin already ran
		}
		// the confirmation screen stays so the user can retry or cancel
		b.notify(chatID, api.UserMessage(err, "Error al eliminar el registro"))
		return
	}

	b.cache.Invalidate(familyKey(family))
	b.notify(chatID, "Registro eliminado exitosamente")
	b.showFamilyList(ctx, chatID, family, 1, b.savedSearch(ctx, chatID, family), &msgID)
}

// familyPath maps a cache family to its list-screen route.
func familyPath(family string) string {
	if family == "entities" {
		return "/entidades"
	}
	return "/" + family
}

func familyKey(family string) string {
	switch family {
	case "warehouses":
		return cache.FamilyWarehouses
	case "products":
		return cache.FamilyProducts
	case "entities":
		return cache.FamilyEntities
	case "accounts":
		return cache.FamilyAccounts
	case "inventory-sheets":
		return cache.FamilySheets
	}
	return family
}

// renderList sends or edits a list screen message.
func (b *Bot) renderList(chatID int64, editMsgID *int, text string, kb tgbotapi.InlineKeyboardMarkup) {
	if editMsgID != nil {
		b.send(tgbotapi.NewEditMessageTextAndMarkup(chatID, *editMsgID, text, kb))
	} else {
		m := tgbotapi.NewMessage(chatID, text)
		m.ReplyMarkup = kb
		b.send(m)
	}
}

func (b *Bot) listLoadError(chatID int64, editMsgID *int, err error, what string) {
	if api.IsUnauthorized(err) {
		return
	}
	text := api.UserMessage(err, "Error cargando "+what)
	if editMsgID != nil {
		b.editTextAndClear(chatID, *editMsgID, text)
	} else {
		b.notify(chatID, text)
	}
}
