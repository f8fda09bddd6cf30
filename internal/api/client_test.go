package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

type staticTokens struct {
	tokens map[int64]string
}

func (s staticTokens) Token(_ context.Context, chatID int64) (string, error) {
	return s.tokens[chatID], nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func TestBearerTokenAttached(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewEncoder(w).Encode(ProductPage{})
	}))
	defer srv.Close()

	c := New(srv.URL, time.Second, staticTokens{tokens: map[int64]string{7: "tok-7"}}, testLogger())

	ctx := WithChat(context.Background(), int64(7))
	if _, err := c.ListProducts(ctx, ListParams{Page: 1}); err != nil {
		t.Fatalf("ListProducts: %v", err)
	}
	if gotAuth != "Bearer tok-7" {
		t.Fatalf("Authorization = %q, want Bearer tok-7", gotAuth)
	}
}

func TestNoTokenNoHeader(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewEncoder(w).Encode(loginResponse{Token: "t"})
	}))
	defer srv.Close()

	c := New(srv.URL, time.Second, staticTokens{tokens: map[int64]string{}}, testLogger())

	ctx := WithChat(context.Background(), int64(99))
	if _, _, err := c.Login(ctx, "a@b.c", "pw"); err != nil {
		t.Fatalf("Login: %v", err)
	}
	if gotAuth != "" {
		t.Fatalf("Authorization = %q, want empty", gotAuth)
	}
}

func TestUnauthorizedClearsSessionViaHook(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "token expired"})
	}))
	defer srv.Close()

	c := New(srv.URL, time.Second, staticTokens{tokens: map[int64]string{5: "stale"}}, testLogger())

	var hookChat int64
	c.SetUnauthorizedHook(func(_ context.Context, chatID int64) { hookChat = chatID })

	ctx := WithChat(context.Background(), int64(5))
	_, err := c.ListWarehouses(ctx, ListParams{})
	if !IsUnauthorized(err) {
		t.Fatalf("err = %v, want unauthorized", err)
	}
	if hookChat != 5 {
		t.Fatalf("hook chat = %d, want 5", hookChat)
	}
}

func TestNotFoundMapping(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("barcode") == "WATER-1L" {
			_ = json.NewEncoder(w).Encode(Product{ID: 1, Barcode: "WATER-1L", Name: "Agua"})
			return
		}
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "product not found"})
	}))
	defer srv.Close()

	c := New(srv.URL, time.Second, staticTokens{}, testLogger())
	ctx := WithChat(context.Background(), int64(1))

	p, err := c.GetProductByBarcode(ctx, "WATER-1L")
	if err != nil || p.ID != 1 {
		t.Fatalf("GetProductByBarcode = %v, %v", p, err)
	}

	_, err = c.GetProductByBarcode(ctx, "NOPE")
	if !IsNotFound(err) {
		t.Fatalf("err = %v, want not-found", err)
	}
	if UserMessage(err, "fallback") != "product not found" {
		t.Fatalf("UserMessage = %q, want server message", UserMessage(err, "fallback"))
	}
}

func TestUserMessageFallback(t *testing.T) {
	err := &Error{Status: 500}
	if got := UserMessage(err, "algo salió mal"); got != "algo salió mal" {
		t.Fatalf("UserMessage = %q, want fallback", got)
	}
}

func TestListParamsQueryAndCacheKey(t *testing.T) {
	p := ListParams{Page: 2, Limit: 10, Search: "agua"}
	q := p.query()
	if q["page"] != "2" || q["limit"] != "10" || q["search"] != "agua" {
		t.Fatalf("query = %v", q)
	}
	if p.CacheKey() != "p=2&l=10&s=agua" {
		t.Fatalf("CacheKey = %q", p.CacheKey())
	}

	empty := ListParams{}
	if len(empty.query()) != 0 {
		t.Fatalf("empty params must produce no query, got %v", empty.query())
	}
}

func TestSheetFiltersQuery(t *testing.T) {
	f := SheetFilters{
		ListParams:  ListParams{Page: 1, Limit: 10, Search: "B-17"},
		State:       "pending",
		WarehouseID: 4,
		DateFrom:    "2026-01-01",
	}
	q := f.query()
	if q["query"] != "B-17" {
		t.Fatalf("sheet search must map to query param, got %v", q)
	}
	if _, ok := q["search"]; ok {
		t.Fatal("search param must be renamed for sheets")
	}
	if q["state"] != "pending" || q["warehouseId"] != "4" || q["dateFrom"] != "2026-01-01" {
		t.Fatalf("query = %v", q)
	}
}

func TestServerMutationPayload(t *testing.T) {
	var got SheetPayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/inventory-sheets" {
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	c := New(srv.URL, time.Second, staticTokens{}, testLogger())
	ctx := WithChat(context.Background(), int64(1))

	in := SheetPayload{
		Sheet:   SheetHeader{WarehouseID: 4, Series: "A-001", State: "pending", EmissionDate: "2026-08-31"},
		Details: []SheetDetail{{ProductID: 7, Quantity: 2, Unit: "cajas", Price: 9.5}},
	}
	if err := c.CreateInventorySheet(ctx, in); err != nil {
		t.Fatalf("CreateInventorySheet: %v", err)
	}
	if got.Sheet.WarehouseID != 4 || len(got.Details) != 1 || got.Details[0].Unit != "cajas" {
		t.Fatalf("payload = %+v", got)
	}
}
