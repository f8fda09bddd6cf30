package bot

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"inventario-bot/internal/session"
	"inventario-bot/internal/sheet"
)

// mainMenuKeyboard is the role-based navigation table: every button
// carries the path of a screen. Cuentas only shows for admins.
func mainMenuKeyboard(s *session.Session) tgbotapi.InlineKeyboardMarkup {
	rows := [][]tgbotapi.InlineKeyboardButton{
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🏬 Almacenes", "/warehouses"),
			tgbotapi.NewInlineKeyboardButtonData("📦 Productos", "/products"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🤝 Entidades", "/entidades"),
			tgbotapi.NewInlineKeyboardButtonData("📋 Hojas de Inventario", "/inventory-sheets"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📊 Reportes", "/reportes"),
		),
	}
	if s.IsAdmin() {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("👤 Cuentas", "/accounts"),
		))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func navKeyboard(back bool, cancel bool) tgbotapi.InlineKeyboardMarkup {
	row := []tgbotapi.InlineKeyboardButton{}
	if back {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData("⬅️ Volver", "nav:back"))
	}
	if cancel {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData("✖️ Cancelar", "nav:cancel"))
	}
	return tgbotapi.NewInlineKeyboardMarkup(row)
}

// listKeyboard builds a paginated list screen: one button per row,
// prev/next pagination, search, create, back.
func listKeyboard(family string, rows [][]tgbotapi.InlineKeyboardButton, page, totalPages int, newPath string) tgbotapi.InlineKeyboardMarkup {
	pager := []tgbotapi.InlineKeyboardButton{}
	if page > 1 {
		pager = append(pager, tgbotapi.NewInlineKeyboardButtonData("◀️", fmt.Sprintf("pg:%s:%d", family, page-1)))
	}
	if totalPages > 1 {
		pager = append(pager, tgbotapi.NewInlineKeyboardButtonData(
			fmt.Sprintf("%d/%d", page, totalPages), "nav:noop"))
	}
	if page < totalPages {
		pager = append(pager, tgbotapi.NewInlineKeyboardButtonData("▶️", fmt.Sprintf("pg:%s:%d", family, page+1)))
	}
	if len(pager) > 0 {
		rows = append(rows, pager)
	}
	actions := []tgbotapi.InlineKeyboardButton{
		tgbotapi.NewInlineKeyboardButtonData("🔍 Buscar", "search:"+family),
	}
	if newPath != "" {
		actions = append(actions, tgbotapi.NewInlineKeyboardButtonData("➕ Nuevo", newPath))
	}
	rows = append(rows, actions)
	rows = append(rows, []tgbotapi.InlineKeyboardButton{
		tgbotapi.NewInlineKeyboardButtonData("🏠 Menú", "/home"),
	})
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// confirmDeleteKeyboard asks before any destructive call.
func confirmDeleteKeyboard(family string, id int64) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🗑 Sí, eliminar", fmt.Sprintf("del:%s:%d:yes", family, id)),
			tgbotapi.NewInlineKeyboardButtonData("✖️ Cancelar", familyPath(family)),
		),
	)
}

func unitKeyboard(prefix string) tgbotapi.InlineKeyboardMarkup {
	rows := [][]tgbotapi.InlineKeyboardButton{}
	row := []tgbotapi.InlineKeyboardButton{}
	for _, u := range sheet.Units {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(string(u), prefix+string(u)))
		if len(row) == 3 {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	rows = append(rows, navKeyboard(false, true).InlineKeyboard[0])
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func sheetStateKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("pendiente", "sh:state:pending"),
			tgbotapi.NewInlineKeyboardButtonData("registrado", "sh:state:registered"),
			tgbotapi.NewInlineKeyboardButtonData("aprobado", "sh:state:approved"),
		),
	)
}

func roleKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Usuario", "acc:role:user"),
			tgbotapi.NewInlineKeyboardButtonData("Administrador", "acc:role:admin"),
		),
		navKeyboard(false, true).InlineKeyboard[0],
	)
}
