package bot

import (
	"context"
	"fmt"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"inventario-bot/internal/api"
	"inventario-bot/internal/export"
	"inventario-bot/internal/sheet"
)

// showReports renders the inventory report: recent sheets per state
// with an export-to-Excel action.
func (b *Bot) showReports(ctx context.Context, chatID int64, editMsgID *int) {
	actx := b.apiCtx(ctx, chatID)
	res, err := b.sheetPage(actx, api.SheetFilters{ListParams: api.ListParams{Page: 1, Limit: 50}})
	if err != nil {
		b.listLoadError(chatID, editMsgID, err, "reportes")
		return
	}

	counts := map[sheet.SheetState]int{}
	for _, s := range res.Data {
		counts[sheet.SheetState(s.State)]++
	}
	text := fmt.Sprintf(
		"Reporte de inventario\nHojas: %d\n  pendientes: %d\n  registradas: %d\n  aprobadas: %d",
		res.Total,
		counts[sheet.StatePending],
		counts[sheet.StateRegistered],
		counts[sheet.StateApproved],
	)

	kb := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("⬇️ Exportar a Excel", "rep:export"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🏠 Menú", "/home"),
		),
	)
	b.renderList(chatID, editMsgID, text, kb)
}

func (b *Bot) routeReport(ctx context.Context, chatID int64, _ int, parts []string) {
	if b.requireSession(ctx, chatID) == nil {
		return
	}
	if len(parts) != 2 || parts[1] != "export" {
		return
	}

	actx := b.apiCtx(ctx, chatID)
	res, err := b.sheetPage(actx, api.SheetFilters{ListParams: api.ListParams{Page: 1, Limit: 500}})
	if err != nil {
		b.listLoadError(chatID, nil, err, "reportes")
		return
	}

	whs, err := b.warehousePage(actx, api.ListParams{Page: 1, Limit: 500})
	whNames := map[int64]string{}
	if err == nil {
		for _, w := range whs.Data {
			whNames[w.ID] = w.Name
		}
	}

	buf, err := export.Report(res.Data, whNames)
	if err != nil {
		b.log.Error("report export failed", "err", err)
		b.notify(chatID, "Error generando el archivo")
		return
	}
	name := fmt.Sprintf("reporte_inventario_%s.xlsx", time.Now().Format("20060102_150405"))
	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{Name: name, Bytes: buf.Bytes()})
	doc.Caption = "Reporte de hojas de inventario"
	b.send(doc)
}
