package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"inventario-bot/internal/api"
	"inventario-bot/internal/cache"
	"inventario-bot/internal/dialog"
)

func (b *Bot) showProductList(ctx context.Context, chatID int64, page int, search string, editMsgID *int) {
	p := api.ListParams{Page: page, Limit: pageSize, Search: search}
	res, err := b.productPage(b.apiCtx(ctx, chatID), p)
	if err != nil {
		b.listLoadError(chatID, editMsgID, err, "productos")
		return
	}

	rows := [][]tgbotapi.InlineKeyboardButton{}
	for _, pr := range res.Data {
		label := fmt.Sprintf("%s — %.2f/%s", pr.Name, pr.Price, pr.Unit)
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, "nav:noop"),
			tgbotapi.NewInlineKeyboardButtonData("✏️", fmt.Sprintf("prod:edit:%d", pr.ID)),
			tgbotapi.NewInlineKeyboardButtonData("🗑", fmt.Sprintf("del:products:%d", pr.ID)),
		))
	}

	text := fmt.Sprintf("Productos (%d)", res.Total)
	if search != "" {
		text += " — búsqueda: " + search
	}
	b.renderList(chatID, editMsgID, text,
		listKeyboard("products", rows, page, res.TotalPages, "/products/new"))
}

func (b *Bot) startProductForm(ctx context.Context, chatID int64, id int64) {
	_ = b.states.Set(ctx, chatID, dialog.StateProdName, dialog.Payload{"edit_id": float64(id)})
	b.notify(chatID, "Nombre del producto:")
}

func (b *Bot) productNameEntered(ctx context.Context, chatID int64, st *dialog.Item, name string) {
	if name == "" {
		b.notify(chatID, "El nombre es obligatorio. Escribe el nombre:")
		return
	}
	st.Payload["name"] = name
	_ = b.states.Set(ctx, chatID, dialog.StateProdBarcode, st.Payload)
	b.notify(chatID, "Código de barras:")
}

func (b *Bot) productBarcodeEntered(ctx context.Context, chatID int64, st *dialog.Item, barcode string) {
	if barcode == "" {
		b.notify(chatID, "El código de barras es obligatorio. Escríbelo:")
		return
	}
	st.Payload["barcode"] = barcode
	_ = b.states.Set(ctx, chatID, dialog.StateProdUnit, st.Payload)
	m := tgbotapi.NewMessage(chatID, "Unidad del producto:")
	m.ReplyMarkup = unitKeyboard("prod:unit:")
	b.send(m)
}

func (b *Bot) productUnitPicked(ctx context.Context, chatID int64, unit string) {
	st, err := b.states.Get(ctx, chatID)
	if err != nil || st.State != dialog.StateProdUnit {
		return
	}
	st.Payload["unit"] = unit
	_ = b.states.Set(ctx, chatID, dialog.StateProdPrice, st.Payload)
	b.notify(chatID, "Precio unitario:")
}

func (b *Bot) productPriceEntered(ctx context.Context, chatID int64, st *dialog.Item, text string) {
	price, err := strconv.ParseFloat(strings.ReplaceAll(text, ",", "."), 64)
	if err != nil || price < 0 {
		b.notify(chatID, "Precio inválido. Escribe un número:")
		return
	}

	name, _ := dialog.GetString(st.Payload, "name")
	barcode, _ := dialog.GetString(st.Payload, "barcode")
	unit, _ := dialog.GetString(st.Payload, "unit")
	id, _ := dialog.GetInt64(st.Payload, "edit_id")
	in := api.ProductInput{Name: name, Barcode: barcode, Unit: unit, Price: price}

	actx := b.apiCtx(ctx, chatID)
	if id > 0 {
		err = b.client.UpdateProduct(actx, id, in)
	} else {
		err = b.client.CreateProduct(actx, in)
	}
	if err != nil {
		if api.IsUnauthorized(err) {
			return
		}
		b.notify(chatID, api.UserMessage(err, "Error al guardar el producto")+"\nPrecio unitario:")
		return
	}

	b.cache.Invalidate(cache.FamilyProducts)
	_ = b.states.Reset(ctx, chatID)
	if id > 0 {
		b.notify(chatID, "Producto actualizado exitosamente")
	} else {
		b.notify(chatID, "Producto creado exitosamente")
	}
	b.showProductList(ctx, chatID, 1, "", nil)
}

func (b *Bot) routeProduct(ctx context.Context, chatID int64, _ int, parts []string) {
	if len(parts) < 3 {
		return
	}
	switch parts[1] {
	case "edit":
		if b.requireSession(ctx, chatID) == nil {
			return
		}
		id, err := strconv.ParseInt(parts[2], 10, 64)
		if err != nil {
			return
		}
		b.startProductForm(ctx, chatID, id)
	case "unit":
		b.productUnitPicked(ctx, chatID, parts[2])
	}
}
