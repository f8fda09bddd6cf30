package bot

import (
	"context"
	"log/slog"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"inventario-bot/internal/api"
	"inventario-bot/internal/cache"
	"inventario-bot/internal/debounce"
	"inventario-bot/internal/dialog"
	"inventario-bot/internal/scan"
	"inventario-bot/internal/session"
	"inventario-bot/internal/sheet"
)

const pageSize = 10

const searchDebounce = 400 * time.Millisecond

// dialogStates is the slice of the dialog repo the bot needs.
type dialogStates interface {
	Get(ctx context.Context, chatID int64) (*dialog.Item, error)
	Set(ctx context.Context, chatID int64, state dialog.State, payload dialog.Payload) error
	Reset(ctx context.Context, chatID int64) error
}

type Bot struct {
	api      *tgbotapi.BotAPI
	log      *slog.Logger
	sessions session.Store
	states   dialogStates
	client   *api.Client
	cache    *cache.Cache
	resolver *scan.Resolver

	mu        sync.Mutex
	drafts    map[int64]*sheet.Draft
	searchers map[int64]*debounce.Debouncer
}

func New(tg *tgbotapi.BotAPI, log *slog.Logger,
	sessions session.Store, states dialogStates,
	client *api.Client, c *cache.Cache, resolver *scan.Resolver) *Bot {

	b := &Bot{
		api: tg, log: log, sessions: sessions, states: states,
		client: client, cache: c, resolver: resolver,
		drafts:    make(map[int64]*sheet.Draft),
		searchers: make(map[int64]*debounce.Debouncer),
	}
	// the client calls back into the bot on 401
	client.SetUnauthorizedHook(b.forceLogin)
	return b
}

func (b *Bot) Run(ctx context.Context, timeoutSec int) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = timeoutSec
	updates := b.api.GetUpdatesChan(u)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case upd := <-updates:
			if upd.Message != nil {
				b.onMessage(ctx, upd.Message)
			} else if upd.CallbackQuery != nil {
				b.onCallback(ctx, upd.CallbackQuery)
			}
		}
	}
}

// forceLogin is the authentication-failure path: the session is gone
// no matter which screen triggered the 401, and the next thing the
// user sees is the login prompt. A concurrent batch can 401 on every
// lookup at once, so an already-logged-out chat is a no-op.
func (b *Bot) forceLogin(ctx context.Context, chatID int64) {
	if loggedOut(ctx, b.sessions, chatID) {
		return
	}
	_ = b.sessions.Clear(ctx, chatID)
	_ = b.states.Reset(ctx, chatID)
	b.dropDraft(chatID)
	b.notify(chatID, "Sesión expirada. Inicia sesión de nuevo.")
	b.showLogin(ctx, chatID)
}

// loggedOut reports whether the chat has no usable session.
func loggedOut(ctx context.Context, store session.Store, chatID int64) bool {
	s, err := store.Get(ctx, chatID)
	return err == nil && (s == nil || s.Token == "")
}

/*** HELPERS ***/

func (b *Bot) send(msg tgbotapi.Chattable) {
	if _, err := b.api.Send(msg); err != nil {
		b.log.Error("send failed", "err", err)
	}
}

func (b *Bot) notify(chatID int64, text string) {
	b.send(tgbotapi.NewMessage(chatID, text))
}

func (b *Bot) answerCallback(cb *tgbotapi.CallbackQuery, text string, alert bool) {
	resp := tgbotapi.NewCallback(cb.ID, text)
	resp.ShowAlert = alert
	if _, err := b.api.Request(resp); err != nil {
		b.log.Error("answer callback failed", "err", err)
	}
}

func (b *Bot) editTextAndClear(chatID int64, messageID int, text string) {
	edit := tgbotapi.NewEditMessageTextAndMarkup(
		chatID, messageID, text,
		tgbotapi.InlineKeyboardMarkup{InlineKeyboard: [][]tgbotapi.InlineKeyboardButton{}},
	)
	b.send(edit)
}

// requireSession loads the chat's session; without one the user is
// confined to the login flow.
func (b *Bot) requireSession(ctx context.Context, chatID int64) *session.Session {
	s, err := b.sessions.Get(ctx, chatID)
	if err != nil {
		b.log.Error("session load failed", "err", err)
		return nil
	}
	if s == nil || s.Token == "" {
		b.showLogin(ctx, chatID)
		return nil
	}
	return s
}

func (b *Bot) apiCtx(ctx context.Context, chatID int64) context.Context {
	return api.WithChat(ctx, chatID)
}

/*** DRAFTS ***/

func (b *Bot) draft(chatID int64) *sheet.Draft {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.drafts[chatID]
}

func (b *Bot) setDraft(chatID int64, d *sheet.Draft) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.drafts[chatID] = d
}

// dropDraft discards the chat's draft; navigating away without submit
// destroys it.
func (b *Bot) dropDraft(chatID int64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.drafts, chatID)
}

// mutateDraft runs fn on the chat's active draft under the bot lock
// and reports whether a draft existed. Every draft mutation goes
// through here: the bulk-resolution goroutine and the update loop
// otherwise race on the item slice.
func (b *Bot) mutateDraft(chatID int64, fn func(*sheet.Draft)) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	d := b.drafts[chatID]
	if d == nil {
		return false
	}
	fn(d)
	return true
}

// draftSnapshot copies the active draft for rendering, so screens can
// read it without holding the lock.
func (b *Bot) draftSnapshot(chatID int64) (sheet.Draft, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	d := b.drafts[chatID]
	if d == nil {
		return sheet.Draft{}, false
	}
	return d.Snapshot(), true
}

// applyBatchResults merges resolved products into the chat's draft,
// but only while d is still the active draft: results landing after
// the editor was left are dropped silently. The mount check and the
// merge happen under one lock acquisition. Reports whether the merge
// happened.
func (b *Bot) applyBatchResults(chatID int64, d *sheet.Draft, results []scan.Result) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.drafts[chatID] != d {
		return false
	}
	var products []api.Product
	for _, r := range results {
		if r.OK() {
			products = append(products, *r.Product)
		}
	}
	d.MergeResolved(products)
	return true
}
