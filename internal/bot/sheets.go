package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"inventario-bot/internal/api"
	"inventario-bot/internal/cache"
	"inventario-bot/internal/dialog"
	"inventario-bot/internal/export"
	"inventario-bot/internal/scan"
	"inventario-bot/internal/sheet"
)

/*** LIST ***/

func (b *Bot) showSheetList(ctx context.Context, chatID int64, page int, search string, editMsgID *int) {
	f := api.SheetFilters{ListParams: api.ListParams{Page: page, Limit: pageSize, Search: search}}
	res, err := b.sheetPage(b.apiCtx(ctx, chatID), f)
	if err != nil {
		b.listLoadError(chatID, editMsgID, err, "hojas de inventario")
		return
	}

	rows := [][]tgbotapi.InlineKeyboardButton{}
	for _, s := range res.Data {
		label := fmt.Sprintf("#%d %s — %s [%s]", s.ID, s.Series, s.EmissionDate,
			sheet.StateLabel(sheet.SheetState(s.State)))
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, "nav:noop"),
			tgbotapi.NewInlineKeyboardButtonData("✏️", fmt.Sprintf("sh:edit:%d", s.ID)),
			tgbotapi.NewInlineKeyboardButtonData("🗑", fmt.Sprintf("del:inventory-sheets:%d", s.ID)),
		))
	}

	text := fmt.Sprintf("Hojas de Inventario (%d)", res.Total)
	if search != "" {
		text += " — búsqueda: " + search
	}
	b.renderList(chatID, editMsgID, text,
		listKeyboard("inventory-sheets", rows, page, res.TotalPages, "/inventory-sheets/new"))
}

/*** EDITOR ***/

// startSheetEditor opens a fresh draft (one blank item) and walks the
// header fields, starting with the warehouse.
func (b *Bot) startSheetEditor(ctx context.Context, chatID int64) {
	b.setDraft(chatID, sheet.NewDraft())
	b.promptSheetWarehouse(ctx, chatID)
}

func (b *Bot) openSheetForEdit(ctx context.Context, chatID int64, id int64) {
	res, err := b.client.GetInventorySheet(b.apiCtx(ctx, chatID), id)
	if err != nil {
		if !api.IsUnauthorized(err) {
			b.notify(chatID, api.UserMessage(err, "Error cargando la hoja"))
		}
		return
	}
	b.setDraft(chatID, sheet.FromSheet(res.Sheet, res.Details))
	_ = b.states.Set(ctx, chatID, dialog.StateSheetItems, dialog.Payload{})
	b.showSheetEditor(ctx, chatID, nil)
}

func (b *Bot) promptSheetWarehouse(ctx context.Context, chatID int64) {
	res, err := b.warehousePage(b.apiCtx(ctx, chatID), api.ListParams{Page: 1, Limit: 50})
	if err != nil {
		b.listLoadError(chatID, nil, err, "almacenes")
		return
	}
	rows := [][]tgbotapi.InlineKeyboardButton{}
	for _, w := range res.Data {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(w.Name, fmt.Sprintf("sh:wh:%d", w.ID)),
		))
	}
	rows = append(rows, navKeyboard(false, true).InlineKeyboard[0])
	_ = b.states.Set(ctx, chatID, dialog.StateSheetWh, dialog.Payload{})
	m := tgbotapi.NewMessage(chatID, "Nueva Hoja de Inventario\nSelecciona el almacén:")
	m.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(rows...)
	b.send(m)
}

func (b *Bot) sheetWarehousePicked(ctx context.Context, chatID int64, id int64) {
	if !b.mutateDraft(chatID, func(d *sheet.Draft) { d.WarehouseID = id }) {
		return
	}
	_ = b.states.Set(ctx, chatID, dialog.StateSheetDate, dialog.Payload{})
	b.notify(chatID, "Fecha de emisión (YYYY-MM-DD, o - para hoy):")
}

func (b *Bot) sheetDateEntered(ctx context.Context, chatID int64, text string) {
	if text == "-" {
		text = time.Now().Format("2006-01-02")
	}
	if _, err := time.Parse("2006-01-02", text); err != nil {
		b.notify(chatID, "Fecha inválida. Usa el formato YYYY-MM-DD:")
		return
	}
	if !b.mutateDraft(chatID, func(d *sheet.Draft) { d.EmissionDate = text }) {
		return
	}
	_ = b.states.Set(ctx, chatID, dialog.StateSheetSeries, dialog.Payload{})
	b.notify(chatID, "Serie de la hoja:")
}

func (b *Bot) sheetSeriesEntered(ctx context.Context, chatID int64, text string) {
	if text == "" {
		b.notify(chatID, "La serie es obligatoria. Escríbela:")
		return
	}
	if !b.mutateDraft(chatID, func(d *sheet.Draft) { d.Series = text }) {
		return
	}
	_ = b.states.Set(ctx, chatID, dialog.StateSheetEntity, dialog.Payload{})
	b.notify(chatID, "Entidad responsable (o - para omitir):")
}

func (b *Bot) sheetEntityEntered(ctx context.Context, chatID int64, text string) {
	ok := b.mutateDraft(chatID, func(d *sheet.Draft) {
		if text != "-" {
			d.Entity = text
		}
	})
	if !ok {
		return
	}
	_ = b.states.Set(ctx, chatID, dialog.StateSheetObservation, dialog.Payload{})
	b.notify(chatID, "Observación (o - para omitir):")
}

func (b *Bot) sheetObservationEntered(ctx context.Context, chatID int64, text string) {
	ok := b.mutateDraft(chatID, func(d *sheet.Draft) {
		if text != "-" {
			d.Observation = text
		}
	})
	if !ok {
		return
	}
	_ = b.states.Set(ctx, chatID, dialog.StateSheetItems, dialog.Payload{})
	b.showSheetEditor(ctx, chatID, nil)
}

// showSheetEditor renders the item rows and the editor actions from a
// snapshot, so an in-flight batch merge never changes the list under
// the renderer.
func (b *Bot) showSheetEditor(ctx context.Context, chatID int64, editMsgID *int) {
	d, ok := b.draftSnapshot(chatID)
	if !ok {
		b.showMainMenu(ctx, chatID, editMsgID)
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Hoja de Inventario — %s [%s]\n", d.Series, sheet.StateLabel(d.State)))
	sb.WriteString(fmt.Sprintf("Almacén #%d, emisión %s\n\nItems:\n", d.WarehouseID, d.EmissionDate))
	for i, it := range d.Items {
		code := it.ProductCode
		if code == "" {
			code = "(vacío)"
		}
		sb.WriteString(fmt.Sprintf("%d. %s — %.2f %s × %.2f\n", i+1, code, it.Quantity, it.Unit, it.Price))
	}

	rows := [][]tgbotapi.InlineKeyboardButton{}
	for i := range d.Items {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(fmt.Sprintf("✏️ item %d", i+1), fmt.Sprintf("sh:item:%d", i)),
			tgbotapi.NewInlineKeyboardButtonData("🗑", fmt.Sprintf("sh:rm:%d", i)),
		))
	}
	rows = append(rows,
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("➕ Item", "sh:add"),
			tgbotapi.NewInlineKeyboardButtonData("📷 Escanear", "sh:scan"),
			tgbotapi.NewInlineKeyboardButtonData("📋 Códigos", "sh:bulk"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🏷 Estado", "sh:pickstate"),
			tgbotapi.NewInlineKeyboardButtonData("⬇️ Exportar", "sh:export"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("💾 Guardar", "sh:submit"),
			tgbotapi.NewInlineKeyboardButtonData("✖️ Descartar", "nav:cancel"),
		),
	)
	kb := tgbotapi.NewInlineKeyboardMarkup(rows...)
	if editMsgID != nil {
		b.send(tgbotapi.NewEditMessageTextAndMarkup(chatID, *editMsgID, sb.String(), kb))
	} else {
		m := tgbotapi.NewMessage(chatID, sb.String())
		m.ReplyMarkup = kb
		b.send(m)
	}
}

/*** ITEM EDITING ***/

func (b *Bot) sheetItemMenu(ctx context.Context, chatID int64, msgID int, index int) {
	d, ok := b.draftSnapshot(chatID)
	if !ok || index < 0 || index >= len(d.Items) {
		return
	}
	it := d.Items[index]
	kb := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Código", fmt.Sprintf("sh:f:code:%d", index)),
			tgbotapi.NewInlineKeyboardButtonData("Cantidad", fmt.Sprintf("sh:f:qty:%d", index)),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Unidad", fmt.Sprintf("sh:f:unit:%d", index)),
			tgbotapi.NewInlineKeyboardButtonData("Precio", fmt.Sprintf("sh:f:price:%d", index)),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("⬅️ Volver a la hoja", "sh:show"),
		),
	)
	text := fmt.Sprintf("Item %d\nCódigo: %s\nCantidad: %.2f\nUnidad: %s\nPrecio: %.2f",
		index+1, it.ProductCode, it.Quantity, it.Unit, it.Price)
	b.send(tgbotapi.NewEditMessageTextAndMarkup(chatID, msgID, text, kb))
}

func (b *Bot) sheetItemFieldPrompt(ctx context.Context, chatID int64, field string, index int) {
	payload := dialog.Payload{"index": float64(index)}
	switch field {
	case "code":
		_ = b.states.Set(ctx, chatID, dialog.StateSheetItemCode, payload)
		b.notify(chatID, "Escribe el código del producto:")
	case "qty":
		_ = b.states.Set(ctx, chatID, dialog.StateSheetItemQty, payload)
		b.notify(chatID, "Escribe la cantidad:")
	case "price":
		_ = b.states.Set(ctx, chatID, dialog.StateSheetItemPrice, payload)
		b.notify(chatID, "Escribe el precio:")
	case "unit":
		m := tgbotapi.NewMessage(chatID, "Selecciona la unidad:")
		m.ReplyMarkup = unitKeyboard(fmt.Sprintf("sh:unit:%d:", index))
		b.send(m)
	}
}

// sheetItemFieldEntered commits typed input to one row. Committing a
// code follows the sequential-entry rule: a non-empty code in the
// last row grows the list by one blank row.
func (b *Bot) sheetItemFieldEntered(ctx context.Context, chatID int64, st *dialog.Item, field, text string) {
	idx64, ok := dialog.GetInt64(st.Payload, "index")
	if !ok {
		return
	}
	index := int(idx64)

	ok = b.mutateDraft(chatID, func(d *sheet.Draft) {
		switch field {
		case "code":
			d.CommitCode(index, text)
		case "quantity":
			d.Update(index, sheet.FieldQuantity, text)
		case "price":
			d.Update(index, sheet.FieldPrice, text)
		}
	})
	if !ok {
		return
	}
	_ = b.states.Set(ctx, chatID, dialog.StateSheetItems, dialog.Payload{})
	b.showSheetEditor(ctx, chatID, nil)
}

/*** SCAN & BULK ***/

func (b *Bot) sheetScanEntered(ctx context.Context, chatID int64, code string) {
	if b.draft(chatID) == nil {
		return
	}
	if strings.TrimSpace(code) == "" {
		b.notify(chatID, "Código vacío. Escanea o escribe un código:")
		return
	}

	p, err := b.resolver.ResolveSingle(b.apiCtx(ctx, chatID), code)
	if err != nil {
		if api.IsUnauthorized(err) {
			return
		}
		if api.IsNotFound(err) {
			b.notify(chatID, "Producto no encontrado: "+code+"\nEscanea otro código o usa ⬅️ Volver.")
		} else {
			b.notify(chatID, api.UserMessage(err, "Error consultando el producto"))
		}
		return
	}

	// fill the last (blank) row and open a fresh one for the next scan
	if !b.mutateDraft(chatID, func(d *sheet.Draft) { d.AppendFromScan(*p) }) {
		return
	}
	b.notify(chatID, fmt.Sprintf("✅ %s agregado. Escanea el siguiente código o usa /start.", p.Name))
	b.showSheetEditor(ctx, chatID, nil)
	_ = b.states.Set(ctx, chatID, dialog.StateSheetScan, dialog.Payload{})
}

// sheetBulkEntered is the bulk path: one code per line, resolved
// concurrently. The reply reports successes and every failed code;
// results landing after the draft was discarded are dropped.
func (b *Bot) sheetBulkEntered(ctx context.Context, chatID int64, raw string) {
	d := b.draft(chatID)
	if d == nil {
		return
	}
	codes := scan.CleanCodes(strings.Split(raw, "\n"))
	if len(codes) == 0 {
		b.notify(chatID, "No hay códigos para procesar.")
		return
	}

	b.notify(chatID, fmt.Sprintf("Procesando %d código(s)…", len(codes)))
	actx := b.apiCtx(context.Background(), chatID)

	go func() {
		results := b.resolver.ResolveBatch(actx, codes)

		if !b.applyBatchResults(chatID, d, results) {
			return // editor was left; drop the batch silently
		}

		summary := scan.Summarize(results)
		text := fmt.Sprintf("✅ %d producto(s) agregado(s)", summary.Resolved)
		if len(summary.Failed) > 0 {
			text += fmt.Sprintf("\n⚠️ %d no encontrado(s): %s",
				len(summary.Failed), strings.Join(summary.Failed, ", "))
		}
		b.notify(chatID, text)
		b.showSheetEditor(context.Background(), chatID, nil)
	}()

	_ = b.states.Set(ctx, chatID, dialog.StateSheetItems, dialog.Payload{})
}

/*** SUBMIT & EXPORT ***/

func (b *Bot) sheetSubmit(ctx context.Context, chatID int64) {
	// validate and freeze the payload under the lock, call the API
	// outside of it
	var (
		payload api.SheetPayload
		sheetID int64
		verr    error
	)
	ok := b.mutateDraft(chatID, func(d *sheet.Draft) {
		payload, verr = d.BeginSubmit()
		sheetID = d.SheetID
	})
	if !ok {
		return
	}
	if verr != nil {
		// validation failed: stay editing, surface the error
		b.notify(chatID, "No se puede guardar: "+verr.Error())
		b.showSheetEditor(ctx, chatID, nil)
		return
	}

	actx := b.apiCtx(ctx, chatID)
	var err error
	if sheetID > 0 {
		err = b.client.UpdateInventorySheet(actx, sheetID, payload)
	} else {
		err = b.client.CreateInventorySheet(actx, payload)
	}
	if err != nil {
		b.mutateDraft(chatID, func(d *sheet.Draft) { d.Fail() })
		if api.IsUnauthorized(err) {
			return
		}
		b.notify(chatID, api.UserMessage(err, "Error al guardar la hoja de inventario"))
		b.showSheetEditor(ctx, chatID, nil)
		return
	}

	b.mutateDraft(chatID, func(d *sheet.Draft) { d.MarkPersisted() })
	b.cache.Invalidate(cache.FamilySheets)
	b.dropDraft(chatID)
	_ = b.states.Reset(ctx, chatID)
	b.notify(chatID, "Hoja de inventario guardada exitosamente")
	b.showSheetList(ctx, chatID, 1, "", nil)
}

func (b *Bot) sheetExport(chatID int64) {
	d, ok := b.draftSnapshot(chatID)
	if !ok {
		return
	}
	buf, err := export.SheetItems(&d)
	if err != nil {
		b.log.Error("sheet export failed", "err", err)
		b.notify(chatID, "Error generando el archivo")
		return
	}
	name := fmt.Sprintf("hoja_%s_%s.xlsx", d.Series, time.Now().Format("20060102_150405"))
	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{Name: name, Bytes: buf.Bytes()})
	doc.Caption = "Items de la hoja de inventario"
	b.send(doc)
}

/*** ROUTING ***/

func (b *Bot) routeSheet(ctx context.Context, chatID int64, msgID int, parts []string) {
	if b.requireSession(ctx, chatID) == nil {
		return
	}
	if len(parts) < 2 {
		return
	}
	switch parts[1] {
	case "wh":
		if len(parts) == 3 {
			if id, err := strconv.ParseInt(parts[2], 10, 64); err == nil {
				b.sheetWarehousePicked(ctx, chatID, id)
			}
		}
	case "edit":
		if len(parts) == 3 {
			if id, err := strconv.ParseInt(parts[2], 10, 64); err == nil {
				b.openSheetForEdit(ctx, chatID, id)
			}
		}
	case "show":
		b.showSheetEditor(ctx, chatID, &msgID)
	case "add":
		if b.mutateDraft(chatID, func(d *sheet.Draft) { d.AddBlank() }) {
			b.showSheetEditor(ctx, chatID, &msgID)
		}
	case "rm":
		if len(parts) == 3 {
			index, _ := strconv.Atoi(parts[2])
			removed := false
			if b.mutateDraft(chatID, func(d *sheet.Draft) { removed = d.Remove(index) }) {
				if !removed {
					b.notify(chatID, "La hoja debe tener al menos un item.")
				}
				b.showSheetEditor(ctx, chatID, &msgID)
			}
		}
	case "item":
		if len(parts) == 3 {
			index, _ := strconv.Atoi(parts[2])
			b.sheetItemMenu(ctx, chatID, msgID, index)
		}
	case "f": // sh:f:<field>:<index>
		if len(parts) == 4 {
			index, _ := strconv.Atoi(parts[3])
			b.sheetItemFieldPrompt(ctx, chatID, parts[2], index)
		}
	case "unit": // sh:unit:<index>:<unit>
		if len(parts) == 4 {
			index, _ := strconv.Atoi(parts[2])
			if b.mutateDraft(chatID, func(d *sheet.Draft) { d.Update(index, sheet.FieldUnit, parts[3]) }) {
				b.showSheetEditor(ctx, chatID, &msgID)
			}
		}
	case "pickstate":
		b.send(tgbotapi.NewEditMessageTextAndMarkup(chatID, msgID,
			"Estado de la hoja:", sheetStateKeyboard()))
	case "state":
		if len(parts) == 3 {
			if b.mutateDraft(chatID, func(d *sheet.Draft) { d.State = sheet.SheetState(parts[2]) }) {
				b.showSheetEditor(ctx, chatID, &msgID)
			}
		}
	case "scan":
		_ = b.states.Set(ctx, chatID, dialog.StateSheetScan, dialog.Payload{})
		b.notify(chatID, "Modo escáner: envía un código por mensaje.")
	case "bulk":
		_ = b.states.Set(ctx, chatID, dialog.StateSheetBulk, dialog.Payload{})
		b.notify(chatID, "Modo masivo: envía varios códigos, uno por línea.")
	case "submit":
		b.sheetSubmit(ctx, chatID)
	case "export":
		b.sheetExport(chatID)
	}
}
