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

func (b *Bot) showEntityList(ctx context.Context, chatID int64, page int, search string, editMsgID *int) {
	p := api.ListParams{Page: page, Limit: pageSize, Search: search}
	res, err := b.entityPage(b.apiCtx(ctx, chatID), p)
	if err != nil {
		b.listLoadError(chatID, editMsgID, err, "entidades")
		return
	}

	rows := [][]tgbotapi.InlineKeyboardButton{}
	for _, e := range res.Data {
		label := fmt.Sprintf("%s (%s)", e.Name, e.DocumentNumber)
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, "nav:noop"),
			tgbotapi.NewInlineKeyboardButtonData("✏️", fmt.Sprintf("ent:edit:%d", e.ID)),
			tgbotapi.NewInlineKeyboardButtonData("🗑", fmt.Sprintf("del:entities:%d", e.ID)),
		))
	}

	text := fmt.Sprintf("Entidades (%d)", res.Total)
	if search != "" {
		text += " — búsqueda: " + search
	}
	b.renderList(chatID, editMsgID, text,
		listKeyboard("entities", rows, page, res.TotalPages, "/entidades/new"))
}

func (b *Bot) startEntityForm(ctx context.Context, chatID int64, id int64) {
	_ = b.states.Set(ctx, chatID, dialog.StateEntName, dialog.Payload{"edit_id": float64(id)})
	b.notify(chatID, "Nombre de la entidad:")
}

func (b *Bot) entityNameEntered(ctx context.Context, chatID int64, st *dialog.Item, name string) {
	if name == "" {
		b.notify(chatID, "El nombre es obligatorio. Escribe el nombre:")
		return
	}
	st.Payload["name"] = name
	_ = b.states.Set(ctx, chatID, dialog.StateEntDoc, st.Payload)
	b.notify(chatID, "Número de documento (RUC/DNI):")
}

func validDocumentNumber(doc string) bool {
	if len(doc) < 8 || len(doc) > 11 {
		return false
	}
	for _, r := range doc {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func (b *Bot) entityDocEntered(ctx context.Context, chatID int64, st *dialog.Item, doc string) {
	if !validDocumentNumber(doc) {
		b.notify(chatID, "Documento inválido: debe tener entre 8 y 11 dígitos. Intenta de nuevo:")
		return
	}

	name, _ := dialog.GetString(st.Payload, "name")
	id, _ := dialog.GetInt64(st.Payload, "edit_id")
	in := api.EntityInput{Name: name, DocumentNumber: doc}

	actx := b.apiCtx(ctx, chatID)
	var err error
	if id > 0 {
		err = b.client.UpdateEntity(actx, id, in)
	} else {
		err = b.client.CreateEntity(actx, in)
	}
	if err != nil {
		if api.IsUnauthorized(err) {
			return
		}
		b.notify(chatID, api.UserMessage(err, "Error al guardar la entidad")+"\nNúmero de documento:")
		return
	}

	b.cache.Invalidate(cache.FamilyEntities)
	_ = b.states.Reset(ctx, chatID)
	if id > 0 {
		b.notify(chatID, "Entidad actualizada exitosamente")
	} else {
		b.notify(chatID, "Entidad creada exitosamente")
	}
	b.showEntityList(ctx, chatID, 1, "", nil)
}

func (b *Bot) routeEntity(ctx context.Context, chatID int64, _ int, parts []string) {
	if len(parts) == 3 && parts[1] == "edit" {
		if b.requireSession(ctx, chatID) == nil {
			return
		}
		id, err := strconv.ParseInt(parts[2], 10, 64)
		if err != nil {
			return
		}
		b.startEntityForm(ctx, chatID, id)
	}
}
