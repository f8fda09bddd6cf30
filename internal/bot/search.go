package bot

import (
	"context"

	"inventario-bot/internal/debounce"
	"inventario-bot/internal/dialog"
)

// promptSearch opens text search for a family. Successive messages
// are debounced: only the last one within the window hits the API,
// the bot-side equivalent of search-as-you-type.
func (b *Bot) promptSearch(ctx context.Context, chatID int64, family string) {
	b.mu.Lock()
	if old := b.searchers[chatID]; old != nil {
		old.Stop()
	}
	b.searchers[chatID] = debounce.New(searchDebounce, func(term string) {
		b.runSearch(chatID, family, term)
	})
	b.mu.Unlock()

	_ = b.states.Set(ctx, chatID, dialog.StateSearchInput, dialog.Payload{"family": family})
	b.notify(chatID, "Escribe el texto a buscar (o - para limpiar):")
}

func (b *Bot) searchEntered(ctx context.Context, chatID int64, st *dialog.Item, text string) {
	family, _ := dialog.GetString(st.Payload, "family")
	if family == "" {
		b.showMainMenu(ctx, chatID, nil)
		return
	}
	if text == "-" {
		text = ""
	}

	b.mu.Lock()
	deb := b.searchers[chatID]
	b.mu.Unlock()
	if deb == nil {
		b.promptSearch(ctx, chatID, family)
		return
	}

	st.Payload["search_"+family] = text
	_ = b.states.Set(ctx, chatID, dialog.StateSearchInput, st.Payload)
	deb.Trigger(text)
}

// runSearch fires after the debounce window, outside the update loop.
func (b *Bot) runSearch(chatID int64, family, term string) {
	b.showFamilyList(context.Background(), chatID, family, 1, term, nil)
}

// savedSearch returns the last search term the chat entered for a
// family, so pagination keeps the filter.
func (b *Bot) savedSearch(ctx context.Context, chatID int64, family string) string {
	st, err := b.states.Get(ctx, chatID)
	if err != nil {
		return ""
	}
	term, _ := dialog.GetString(st.Payload, "search_"+family)
	return term
}
