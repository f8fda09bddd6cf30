package scan

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"inventario-bot/internal/api"
)

// fakeLookup resolves codes from a map; unknown codes fail with 404.
type fakeLookup struct {
	mu       sync.Mutex
	products map[string]api.Product
	calls    int32
	inFlight int32
	maxSeen  int32
	delay    time.Duration
}

func (f *fakeLookup) GetProductByBarcode(_ context.Context, barcode string) (*api.Product, error) {
	atomic.AddInt32(&f.calls, 1)
	cur := atomic.AddInt32(&f.inFlight, 1)
	defer atomic.AddInt32(&f.inFlight, -1)
	f.mu.Lock()
	if cur > f.maxSeen {
		f.maxSeen = cur
	}
	f.mu.Unlock()

	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	if p, ok := f.products[barcode]; ok {
		return &p, nil
	}
	return nil, &api.Error{Status: http.StatusNotFound, Message: "product not found"}
}

func TestCleanCodesDropsBlanks(t *testing.T) {
	got := CleanCodes([]string{"A1", "", "  ", "\tB2 ", "A1"})
	want := []string{"A1", "B2", "A1"}
	if len(got) != len(want) {
		t.Fatalf("CleanCodes = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("CleanCodes = %v, want %v", got, want)
		}
	}
}

func TestResolveBatchEmptyIsNoop(t *testing.T) {
	lookup := &fakeLookup{}
	r := NewResolver(lookup, 4)
	if res := r.ResolveBatch(context.Background(), []string{"", "   "}); res != nil {
		t.Fatalf("blank-only batch must be a no-op, got %v", res)
	}
	if lookup.calls != 0 {
		t.Fatalf("no lookups expected, got %d", lookup.calls)
	}
}

func TestResolveBatchPartialFailure(t *testing.T) {
	// ["A1", "", "B2"] -> 2 dispatched, 1 ok, 1 failed
	lookup := &fakeLookup{products: map[string]api.Product{
		"A1": {ID: 1, Barcode: "A1", Name: "Uno"},
	}}
	r := NewResolver(lookup, 4)

	results := r.ResolveBatch(context.Background(), []string{"A1", "", "B2"})
	if len(results) != 2 {
		t.Fatalf("results = %d, want 2", len(results))
	}

	s := Summarize(results)
	if s.Resolved != 1 || len(s.Failed) != 1 || s.Failed[0] != "B2" {
		t.Fatalf("summary = %+v, want 1 ok / B2 failed", s)
	}

	// every result attributable to its originating code, input order kept
	if results[0].Code != "A1" || !results[0].OK() || results[0].Product.ID != 1 {
		t.Fatalf("result[0] = %+v", results[0])
	}
	if results[1].Code != "B2" || results[1].OK() || results[1].Reason == "" {
		t.Fatalf("result[1] = %+v", results[1])
	}
}

func TestResolveBatchFailureDoesNotAbortSiblings(t *testing.T) {
	lookup := &fakeLookup{products: map[string]api.Product{
		"A": {ID: 1, Barcode: "A"},
		"C": {ID: 3, Barcode: "C"},
	}}
	r := NewResolver(lookup, 2)

	results := r.ResolveBatch(context.Background(), []string{"A", "MISSING", "C"})
	if len(results) != 3 {
		t.Fatalf("results = %d, want 3", len(results))
	}
	s := Summarize(results)
	if s.Resolved != 2 || len(s.Failed) != 1 {
		t.Fatalf("summary = %+v, want 2 ok / 1 failed", s)
	}
}

func TestResolveBatchDuplicatesResolvedIndependently(t *testing.T) {
	lookup := &fakeLookup{products: map[string]api.Product{
		"A1": {ID: 1, Barcode: "A1"},
	}}
	r := NewResolver(lookup, 4)

	results := r.ResolveBatch(context.Background(), []string{"A1", "A1", "A1"})
	if len(results) != 3 {
		t.Fatalf("results = %d, want 3", len(results))
	}
	if lookup.calls != 3 {
		t.Fatalf("lookups = %d, want 3 (no client-side dedup)", lookup.calls)
	}
}

func TestResolveBatchHonorsConcurrencyCap(t *testing.T) {
	lookup := &fakeLookup{
		products: map[string]api.Product{},
		delay:    20 * time.Millisecond,
	}
	r := NewResolver(lookup, 2)

	codes := []string{"a", "b", "c", "d", "e", "f"}
	_ = r.ResolveBatch(context.Background(), codes)

	if lookup.maxSeen > 2 {
		t.Fatalf("in-flight lookups peaked at %d, cap is 2", lookup.maxSeen)
	}
	if lookup.calls != int32(len(codes)) {
		t.Fatalf("lookups = %d, want %d", lookup.calls, len(codes))
	}
}

func TestResolveSingle(t *testing.T) {
	lookup := &fakeLookup{products: map[string]api.Product{
		"WATER-1L": {ID: 9, Barcode: "WATER-1L", Name: "Agua"},
	}}
	r := NewResolver(lookup, 4)

	p, err := r.ResolveSingle(context.Background(), "  WATER-1L ")
	if err != nil || p.ID != 9 {
		t.Fatalf("ResolveSingle = %v, %v", p, err)
	}

	if _, err := r.ResolveSingle(context.Background(), "NOPE"); !api.IsNotFound(err) {
		t.Fatalf("err = %v, want not-found", err)
	}
}

func TestFailureReason(t *testing.T) {
	notFound := &api.Error{Status: http.StatusNotFound, Message: "product not found"}
	if got := failureReason("X9", notFound); !strings.Contains(got, "X9") {
		t.Fatalf("reason %q must name the code", got)
	}
	server := &api.Error{Status: http.StatusBadGateway, Message: "upstream exploded"}
	if got := failureReason("X9", server); got != "upstream exploded" {
		t.Fatalf("reason = %q, want the server message", got)
	}
}
