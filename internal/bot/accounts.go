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

func (b *Bot) showAccountList(ctx context.Context, chatID int64, page int, search string, editMsgID *int) {
	p := api.ListParams{Page: page, Limit: pageSize, Search: search}
	res, err := b.accountPage(b.apiCtx(ctx, chatID), p)
	if err != nil {
		b.listLoadError(chatID, editMsgID, err, "cuentas")
		return
	}

	rows := [][]tgbotapi.InlineKeyboardButton{}
	for _, a := range res.Data {
		label := fmt.Sprintf("%s — %s (%s)", a.Name, a.Email, a.Role)
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, "nav:noop"),
			tgbotapi.NewInlineKeyboardButtonData("✏️", fmt.Sprintf("acc:edit:%d", a.ID)),
			tgbotapi.NewInlineKeyboardButtonData("🗑", fmt.Sprintf("del:accounts:%d", a.ID)),
		))
	}

	text := fmt.Sprintf("Cuentas (%d)", res.Total)
	if search != "" {
		text += " — búsqueda: " + search
	}
	b.renderList(chatID, editMsgID, text,
		listKeyboard("accounts", rows, page, res.TotalPages, "/accounts/new"))
}

func (b *Bot) startAccountForm(ctx context.Context, chatID int64, id int64) {
	_ = b.states.Set(ctx, chatID, dialog.StateAccName, dialog.Payload{"edit_id": float64(id)})
	b.notify(chatID, "Nombre del usuario:")
}

func (b *Bot) accountNameEntered(ctx context.Context, chatID int64, st *dialog.Item, name string) {
	if name == "" {
		b.notify(chatID, "El nombre es obligatorio. Escribe el nombre:")
		return
	}
	st.Payload["name"] = name
	_ = b.states.Set(ctx, chatID, dialog.StateAccEmail, st.Payload)
	b.notify(chatID, "Correo del usuario:")
}

func (b *Bot) accountEmailEntered(ctx context.Context, chatID int64, st *dialog.Item, email string) {
	if !strings.Contains(email, "@") || strings.ContainsAny(email, " \t") {
		b.notify(chatID, "Correo inválido. Intenta de nuevo:")
		return
	}
	st.Payload["email"] = email
	_ = b.states.Set(ctx, chatID, dialog.StateAccPassword, st.Payload)
	b.notify(chatID, "Contraseña (o - para no cambiarla):")
}

func (b *Bot) accountPasswordEntered(ctx context.Context, chatID int64, st *dialog.Item, password string) {
	if password == "-" {
		password = ""
	}
	id, _ := dialog.GetInt64(st.Payload, "edit_id")
	if id == 0 && len(password) < 6 {
		b.notify(chatID, "La contraseña debe tener al menos 6 caracteres:")
		return
	}
	st.Payload["password"] = password
	_ = b.states.Set(ctx, chatID, dialog.StateAccRole, st.Payload)
	m := tgbotapi.NewMessage(chatID, "Rol del usuario:")
	m.ReplyMarkup = roleKeyboard()
	b.send(m)
}

func (b *Bot) accountRolePicked(ctx context.Context, chatID int64, role string) {
	st, err := b.states.Get(ctx, chatID)
	if err != nil || st.State != dialog.StateAccRole {
		return
	}

	name, _ := dialog.GetString(st.Payload, "name")
	email, _ := dialog.GetString(st.Payload, "email")
	password, _ := dialog.GetString(st.Payload, "password")
	id, _ := dialog.GetInt64(st.Payload, "edit_id")
	in := api.AccountInput{Name: name, Email: email, Password: password, Role: role}

	actx := b.apiCtx(ctx, chatID)
	if id > 0 {
		err = b.client.UpdateAccount(actx, id, in)
	} else {
		err = b.client.CreateAccount(actx, in)
	}
	if err != nil {
		if api.IsUnauthorized(err) {
			return
		}
		b.notify(chatID, api.UserMessage(err, "Error al guardar la cuenta"))
		return
	}

	b.cache.Invalidate(cache.FamilyAccounts)
	_ = b.states.Reset(ctx, chatID)
	if id > 0 {
		b.notify(chatID, "Cuenta actualizada exitosamente")
	} else {
		b.notify(chatID, "Cuenta creada exitosamente")
	}
	b.showAccountList(ctx, chatID, 1, "", nil)
}

func (b *Bot) routeAccount(ctx context.Context, chatID int64, _ int, parts []string) {
	if len(parts) < 3 {
		return
	}
	switch parts[1] {
	case "edit":
		s := b.requireSession(ctx, chatID)
		if s == nil || !s.IsAdmin() {
			return
		}
		id, err := strconv.ParseInt(parts[2], 10, 64)
		if err != nil {
			return
		}
		b.startAccountForm(ctx, chatID, id)
	case "role":
		b.accountRolePicked(ctx, chatID, parts[2])
	}
}
