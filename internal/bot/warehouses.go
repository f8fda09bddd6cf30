package bot

import (
	"context"
	"fmt"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"inventario-bot/internal/api"
	"inventario-bot/internal/cache"
	"inventario-bot/internal/dialog"
)

func (b *Bot) showWarehouseList(ctx context.Context, chatID int64, page int, search string, editMsgID *int) {
	p := api.ListParams{Page: page, Limit: pageSize, Search: search}
	res, err := b.warehousePage(b.apiCtx(ctx, chatID), p)
	if err != nil {
		b.listLoadError(chatID, editMsgID, err, "almacenes")
		return
	}

	rows := [][]tgbotapi.InlineKeyboardButton{}
	for _, w := range res.Data {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(w.Name, "nav:noop"),
			tgbotapi.NewInlineKeyboardButtonData("✏️", fmt.Sprintf("wh:edit:%d", w.ID)),
			tgbotapi.NewInlineKeyboardButtonData("🗑", fmt.Sprintf("del:warehouses:%d", w.ID)),
		))
	}

	text := fmt.Sprintf("Almacenes (%d)", res.Total)
	if search != "" {
		text += " — búsqueda: " + search
	}
	b.renderList(chatID, editMsgID, text,
		listKeyboard("warehouses", rows, page, res.TotalPages, "/warehouses/new"))
}

// startWarehouseForm begins the create (id 0) or edit dialog.
func (b *Bot) startWarehouseForm(ctx context.Context, chatID int64, id int64) {
	_ = b.states.Set(ctx, chatID, dialog.StateWhName, dialog.Payload{"edit_id": float64(id)})
	b.notify(chatID, "Nombre del almacén:")
}

func (b *Bot) warehouseNameEntered(ctx context.Context, chatID int64, st *dialog.Item, name string) {
	if name == "" {
		b.notify(chatID, "El nombre es obligatorio. Escribe el nombre:")
		return
	}
	st.Payload["name"] = name
	_ = b.states.Set(ctx, chatID, dialog.StateWhAddress, st.Payload)
	b.notify(chatID, "Dirección del almacén:")
}

func (b *Bot) warehouseAddressEntered(ctx context.Context, chatID int64, st *dialog.Item, address string) {
	name, _ := dialog.GetString(st.Payload, "name")
	id, _ := dialog.GetInt64(st.Payload, "edit_id")
	in := api.WarehouseInput{Name: name, Address: address}

	actx := b.apiCtx(ctx, chatID)
	var err error
	if id > 0 {
		err = b.client.UpdateWarehouse(actx, id, in)
	} else {
		err = b.client.CreateWarehouse(actx, in)
	}
	if err != nil {
		if api.IsUnauthorized(err) {
			return
		}
		// stay on the form so the user can retry
		b.notify(chatID, api.UserMessage(err, "Error al guardar el almacén")+"\nDirección del almacén:")
		return
	}

	b.cache.Invalidate(cache.FamilyWarehouses)
	_ = b.states.Reset(ctx, chatID)
	if id > 0 {
		b.notify(chatID, "Almacén actualizado exitosamente")
	} else {
		b.notify(chatID, "Almacén creado exitosamente")
	}
	b.showWarehouseList(ctx, chatID, 1, "", nil)
}

func (b *Bot) routeWarehouse(ctx context.Context, chatID int64, _ int, parts []string) {
	if len(parts) == 3 && parts[1] == "edit" {
		if b.requireSession(ctx, chatID) == nil {
			return
		}
		id, err := strconv.ParseInt(parts[2], 10, 64)
		if err != nil {
			return
		}
		b.startWarehouseForm(ctx, chatID, id)
	}
}
