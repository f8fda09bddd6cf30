package bot

import (
	"context"
	"strconv"
	"strings"

	"inventario-bot/internal/api"
	"inventario-bot/internal/dialog"
	"inventario-bot/internal/session"
)

func (b *Bot) showLogin(ctx context.Context, chatID int64) {
	_ = b.states.Set(ctx, chatID, dialog.StateLoginEmail, dialog.Payload{})
	b.notify(chatID, "Inicio de sesión.\nEscribe tu correo:")
}

func (b *Bot) loginEmailEntered(ctx context.Context, chatID int64, email string) {
	if !strings.Contains(email, "@") {
		b.notify(chatID, "Correo inválido. Intenta de nuevo:")
		return
	}
	_ = b.states.Set(ctx, chatID, dialog.StateLoginPassword, dialog.Payload{"email": email})
	b.notify(chatID, "Escribe tu contraseña:")
}

func (b *Bot) loginPasswordEntered(ctx context.Context, chatID int64, st *dialog.Item, password string) {
	email, _ := dialog.GetString(st.Payload, "email")
	if email == "" {
		b.showLogin(ctx, chatID)
		return
	}

	user, token, err := b.client.Login(b.apiCtx(ctx, chatID), email, password)
	if err != nil {
		b.notify(chatID, api.UserMessage(err, "No se pudo iniciar sesión. Verifica tus credenciales."))
		b.showLogin(ctx, chatID)
		return
	}

	s := session.Session{
		ChatID:    chatID,
		UserID:    user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Role:      session.Role(user.Role),
		CompanyID: user.CompanyID,
		Token:     token,
	}
	if err := b.sessions.Set(ctx, s); err != nil {
		b.log.Error("session save failed", "err", err)
		b.notify(chatID, "Error interno guardando la sesión.")
		return
	}
	_ = b.states.Reset(ctx, chatID)
	b.notify(chatID, "Bienvenido, "+user.Name)
	b.showMainMenu(ctx, chatID, nil)
}

func (b *Bot) promptCompany(ctx context.Context, chatID int64) {
	_ = b.states.Set(ctx, chatID, dialog.StateCompanyPick, dialog.Payload{})
	b.notify(chatID, "Escribe el ID de la empresa activa:")
}

func (b *Bot) companyEntered(ctx context.Context, chatID int64, text string) {
	id, err := strconv.ParseInt(text, 10, 64)
	if err != nil || id <= 0 {
		b.notify(chatID, "ID inválido. Escribe un número:")
		return
	}
	s := b.requireSession(ctx, chatID)
	if s == nil {
		return
	}
	s.CompanyID = id
	if err := b.sessions.Set(ctx, *s); err != nil {
		b.log.Error("session save failed", "err", err)
	}
	_ = b.states.Reset(ctx, chatID)
	b.notify(chatID, "Empresa activa actualizada.")
	b.showMainMenu(ctx, chatID, nil)
}
